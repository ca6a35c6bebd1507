/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package artifact

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

const gcsScheme = "gs://"

// GCS is a Store backed by a Google Cloud Storage bucket prefix.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ Store = (*GCS)(nil)

// NewGCS returns a Store writing to gs://bucket/prefix using application
// default credentials.
func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// Path implements Store.
func (g *GCS) Path(name string) string {
	return gcsScheme + g.bucket + "/" + objectKey(g.prefix, name)
}

// Write implements Store.
func (g *GCS) Write(ctx context.Context, name string, data []byte) (string, error) {
	w := g.client.Bucket(g.bucket).Object(objectKey(g.prefix, name)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return g.Path(name), nil
}

// Read implements Store.
func (g *GCS) Read(ctx context.Context, path string) ([]byte, error) {
	bucket, key, err := splitURI(gcsScheme, path)
	if err != nil {
		return nil, err
	}
	r, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
