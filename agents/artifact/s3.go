/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// S3 is a Store backed by an S3 (or S3-compatible) bucket prefix.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ Store = (*S3)(nil)

// NewS3 returns a Store writing to s3://bucket/prefix. Credentials, region and
// endpoint overrides come from the standard AWS environment.
func NewS3(ctx context.Context, bucket, prefix string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

// Path implements Store.
func (s *S3) Path(name string) string {
	return s3Scheme + s.bucket + "/" + objectKey(s.prefix, name)
}

// Write implements Store.
func (s *S3) Write(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(s.prefix, name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}
	return s.Path(name), nil
}

// Read implements Store.
func (s *S3) Read(ctx context.Context, path string) ([]byte, error) {
	bucket, key, err := splitURI(s3Scheme, path)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
