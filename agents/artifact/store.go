/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package artifact persists pipeline phase outputs as JSON documents under a
// run-scoped location: a local directory, a GCS prefix or an S3 prefix.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Store writes named artifacts under a run-scoped location and reads them back
// by the path it handed out.
type Store interface {
	// Path returns where an artifact called name would be written.
	Path(name string) string

	// Write stores data under name and returns its path.
	Write(ctx context.Context, name string, data []byte) (string, error)

	// Read returns the contents of the artifact at path.
	Read(ctx context.Context, path string) ([]byte, error)
}

// WriteJSON marshals v with four-space indentation and writes it under name.
func WriteJSON(ctx context.Context, s Store, name string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	path, err := s.Write(ctx, name, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// ReadJSON reads the artifact at path and unmarshals it into v.
func ReadJSON(ctx context.Context, s Store, path string, v any) error {
	data, err := s.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Open returns the Store for a location URI. gs:// and s3:// URIs select the
// cloud backends; anything else is treated as a local directory.
func Open(ctx context.Context, uri string) (Store, error) {
	switch {
	case strings.HasPrefix(uri, gcsScheme):
		bucket, prefix, err := splitURI(gcsScheme, uri)
		if err != nil {
			return nil, err
		}
		return NewGCS(ctx, bucket, prefix)
	case strings.HasPrefix(uri, s3Scheme):
		bucket, prefix, err := splitURI(s3Scheme, uri)
		if err != nil {
			return nil, err
		}
		return NewS3(ctx, bucket, prefix)
	default:
		return NewDir(uri)
	}
}

// splitURI splits scheme://bucket/prefix into its bucket and prefix.
// The prefix may be empty.
func splitURI(scheme, uri string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(uri, scheme)
	if !ok {
		return "", "", fmt.Errorf("bad %s ref (missing %s): %q", strings.TrimSuffix(scheme, "://"), scheme, uri)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("bad %s ref (missing bucket): %q", strings.TrimSuffix(scheme, "://"), uri)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// objectKey joins a prefix and name into an object key.
func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
