/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry usage metrics for judge calls.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI provides OpenTelemetry counters for judge token usage.
// If a counter cannot be created it degrades to a no-op rather than failing.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
}

// NewGenAI creates a GenAI recorder on the global meter provider. Without a
// configured provider the counters are no-ops.
func NewGenAI(meterName string) *GenAI {
	return NewGenAIWithMeter(otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0")))
}

// NewGenAIWithMeter creates a GenAI recorder on the given meter.
func NewGenAIWithMeter(meter metric.Meter) *GenAI {
	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens sent to the judge"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens returned by the judge"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err)
		completionTokens = noop.Int64Counter{}
	}

	return &GenAI{
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
	}
}

// RecordTokens records prompt and completion token usage for one judge reply.
// The model is always attached as an attribute.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	all := append([]attribute.KeyValue{attribute.String("model", model)}, attrs...)
	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(all...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(all...))
}
