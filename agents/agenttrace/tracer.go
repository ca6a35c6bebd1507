/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed traces.
type Tracer interface {
	RecordTrace(trace *Trace)
}

type byCode struct {
	callbacks []func(*Trace)
}

// ByCode returns a Tracer that invokes each callback with every completed
// trace. Nil callbacks are ignored.
func ByCode(callbacks ...func(*Trace)) Tracer {
	bc := &byCode{}
	for _, cb := range callbacks {
		if cb != nil {
			bc.callbacks = append(bc.callbacks, cb)
		}
	}
	return bc
}

func (b *byCode) RecordTrace(trace *Trace) {
	for _, cb := range b.callbacks {
		cb(trace)
	}
}

type tracerKey struct{}

// WithTracer installs tracer in ctx.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the installed tracer, or one that logs completed
// traces to the context's logger.
func TracerFromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok && t != nil {
		return t
	}
	return newDefaultTracer(ctx)
}

func newDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(trace *Trace) {
		logger.With(
			"trace_id", trace.ID,
			"duration_ms", trace.Duration().Milliseconds(),
			"attempts", len(trace.Attempts),
		).Debug("Judge trace completed", "trace", trace.String())
	})
}
