/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace provides tracing for judge calls.

# Overview

This package contains the types for tracking one judged record:

  - RecordContext: task and question id of the record being judged
  - Trace: one judge request from prompt to reply, across all attempts
  - Attempt: a single HTTP round trip within a trace
  - Tracer: receives completed traces

Every Trace and Attempt is also an OpenTelemetry span, so with a configured
tracer provider the judge's retries show up as children of the request.

# Usage

Set record context so traces and metrics carry the task and question:

	ctx = agenttrace.WithRecordContext(ctx, agenttrace.RecordContext{
		Task:       "activitynetqa",
		QuestionID: "v_1234_0",
	})

Install a tracer and record a request:

	ctx = agenttrace.WithTracer(ctx, agenttrace.ByCode(func(t *agenttrace.Trace) {
		log.Printf("judged %s in %d attempts", t.QuestionID, len(t.Attempts))
	}))

	trace := agenttrace.StartTrace(ctx, model, prompt)
	a := trace.StartAttempt(1)
	a.Complete("success", nil)
	trace.Complete(reply, nil)

Without an installed tracer, completed traces are logged at debug level.
*/
package agenttrace
