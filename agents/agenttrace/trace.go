/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/vqaeval/agents/agenttrace"

// Attempt represents a single round trip to the judge within a trace.
type Attempt struct {
	Number    int       `json:"number"`
	Outcome   string    `json:"outcome"`
	Error     error     `json:"error,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	trace     *Trace
	mu        sync.Mutex
	span      oteltrace.Span
}

// Trace represents one judge request from prompt to reply.
type Trace struct {
	ID           string     `json:"id"`
	Task         string     `json:"task,omitempty"`
	QuestionID   string     `json:"question_id,omitempty"`
	Model        string     `json:"model"`
	Prompt       string     `json:"prompt"`
	Attempts     []*Attempt `json:"attempts"`
	Reply        string     `json:"reply"`
	Error        error      `json:"error,omitempty"`
	InputTokens  int64      `json:"input_tokens,omitempty"`
	OutputTokens int64      `json:"output_tokens,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	tracer       Tracer
	mu           sync.Mutex
	ctx          context.Context
	span         oteltrace.Span
}

func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// StartTrace begins a trace for a judge request sent to model with prompt.
// The trace is delivered to the context's Tracer when completed.
func StartTrace(ctx context.Context, model, prompt string) *Trace {
	rc := GetRecordContext(ctx)

	attrs := []attribute.KeyValue{attribute.String("model", model)}
	if rc.Task != "" {
		attrs = append(attrs, attribute.String("task", rc.Task))
	}
	if rc.QuestionID != "" {
		attrs = append(attrs, attribute.String("question_id", rc.QuestionID))
	}
	ctx, span := tracer().Start(ctx, "judge.request", oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:         uuid.NewString(),
		Task:       rc.Task,
		QuestionID: rc.QuestionID,
		Model:      model,
		Prompt:     prompt,
		Attempts:   []*Attempt{},
		StartTime:  time.Now(),
		tracer:     TracerFromContext(ctx),
		ctx:        ctx,
		span:       span,
	}
}

// Context returns a context carrying the trace's span, for use by attempts.
func (t *Trace) Context() context.Context {
	return t.ctx
}

// StartAttempt starts attempt number n.
func (t *Trace) StartAttempt(n int) *Attempt {
	_, span := tracer().Start(t.ctx, "judge.attempt", oteltrace.WithAttributes(
		attribute.Int("attempt", n),
	))
	return &Attempt{
		Number:    n,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// RecordTokenUsage records token usage on the trace and its span.
func (t *Trace) RecordTokenUsage(inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.InputTokens += inputTokens
	t.OutputTokens += outputTokens
	if t.span != nil {
		t.span.SetAttributes(
			attribute.Int64("tokens.input", t.InputTokens),
			attribute.Int64("tokens.output", t.OutputTokens),
		)
	}
}

// Complete marks the attempt finished with the given outcome label and adds
// it to the parent trace.
func (a *Attempt) Complete(outcome string, err error) {
	a.mu.Lock()
	a.Outcome = outcome
	a.Error = err
	a.EndTime = time.Now()
	trace := a.trace
	span := a.span
	a.mu.Unlock()

	if span != nil {
		span.SetAttributes(attribute.String("outcome", outcome))
		endSpan(span, err)
	}

	trace.mu.Lock()
	defer trace.mu.Unlock()
	trace.Attempts = append(trace.Attempts, a)
}

// Duration returns the duration of the attempt.
func (a *Attempt) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return elapsed(a.StartTime, a.EndTime)
}

// Complete marks the trace finished with the judge's reply, or the error that
// exhausted it, and records it with the tracer.
func (t *Trace) Complete(reply string, err error) {
	t.mu.Lock()
	t.Reply = reply
	t.Error = err
	t.EndTime = time.Now()
	tr := t.tracer
	span := t.span
	t.mu.Unlock()

	if span != nil {
		endSpan(span, err)
	}
	tr.RecordTrace(t)
}

// Duration returns the total duration of the trace.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return elapsed(t.StartTime, t.EndTime)
}

// String returns a readable rendering of the trace.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	if t.QuestionID != "" {
		fmt.Fprintf(&sb, "Question: %s\n", t.QuestionID)
	}
	fmt.Fprintf(&sb, "Model: %s\n", t.Model)
	fmt.Fprintf(&sb, "Duration: %v\n", elapsed(t.StartTime, t.EndTime))

	fmt.Fprintf(&sb, "\nAttempts (%d):\n", len(t.Attempts))
	for _, a := range t.Attempts {
		fmt.Fprintf(&sb, "  [%d] %s (%v)", a.Number, a.Outcome, elapsed(a.StartTime, a.EndTime))
		if a.Error != nil {
			fmt.Fprintf(&sb, ": %v", a.Error)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nCompletion:\n")
	if t.Error != nil {
		fmt.Fprintf(&sb, "  Error: %v\n", t.Error)
	} else {
		reply := t.Reply
		if len(reply) > 200 {
			reply = reply[:197] + "..."
		}
		fmt.Fprintf(&sb, "  Reply: %s\n", reply)
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func elapsed(start, end time.Time) time.Duration {
	if end.IsZero() {
		return time.Since(start)
	}
	return end.Sub(start)
}
