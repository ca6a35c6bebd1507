/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Dir is a Store backed by a local directory.
type Dir struct {
	root string
}

var _ Store = (*Dir)(nil)

// NewDir returns a Store rooted at dir, creating it if needed.
func NewDir(dir string) (*Dir, error) {
	if dir == "" {
		return nil, errors.New("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &Dir{root: dir}, nil
}

// Path implements Store.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// Write implements Store. The file is written to a temporary sibling and
// renamed into place so readers never observe a partial artifact.
func (d *Dir) Write(_ context.Context, name string, data []byte) (string, error) {
	path := d.Path(name)
	tmp, err := os.CreateTemp(d.root, "."+name+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Read implements Store.
func (d *Dir) Read(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
