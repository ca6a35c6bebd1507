/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// RecordContext identifies the record a judge call is made for.
type RecordContext struct {
	Task       string `json:"task,omitempty"`
	QuestionID string `json:"question_id,omitempty"`
}

// EnrichAttributes adds record context attributes to baseAttrs for metrics.
//
// Only the task is added. Question ids are unbounded and stay on traces.
func (r RecordContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+1)
	copy(attrs, baseAttrs)
	if r.Task != "" {
		attrs = append(attrs, attribute.String("task", r.Task))
	}
	return attrs
}

type contextKey string

const recordContextKey contextKey = "record_context"

// WithRecordContext adds record context to the Go context.
func WithRecordContext(ctx context.Context, rc RecordContext) context.Context {
	return context.WithValue(ctx, recordContextKey, rc)
}

// GetRecordContext retrieves record context from the Go context.
func GetRecordContext(ctx context.Context) RecordContext {
	if val := ctx.Value(recordContextKey); val != nil {
		if rc, ok := val.(RecordContext); ok {
			return rc
		}
	}
	return RecordContext{}
}
