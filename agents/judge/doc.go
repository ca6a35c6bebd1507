/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge asks a remote chat-completions model whether a predicted
// answer to a video question matches the reference answer.
//
// # Overview
//
// A Client sends one request per record: a fixed system instruction plus a
// user message embedding the question, the reference answer and the
// prediction. The judge is told to reply with a literal such as
//
//	{'pred': 'yes', 'score': 4}
//
// which is later decoded by the verdict package. The Client does not parse
// the reply itself.
//
// # Failure handling
//
// Transport errors, non-2xx responses, undecodable bodies and empty replies
// are retried with a fixed delay up to Config.Retries attempts in total.
// Each failed attempt is logged through clog. Once every attempt has failed
// Judge returns the zero Response rather than an error, so a flaky judge can
// only degrade individual verdicts, never abort a batch.
//
// Every call is recorded as an agenttrace.Trace with one child per attempt,
// using the Tracer and RecordContext found on the context.
//
// # Usage
//
//	cfg := judge.DefaultConfig()
//	cfg.APIKey = os.Getenv("API_KEY")
//	c, err := judge.New(cfg)
//	if err != nil {
//		return err
//	}
//	resp := c.Judge(ctx, &judge.Request{
//		Question:        "What color is the ball",
//		ReferenceAnswer: "red",
//		Prediction:      "The ball is red",
//		MaxTokens:       64,
//	})
//	if resp.Empty() {
//		// judging unavailable for this record
//	}
//
// # Thread Safety
//
// Client holds no per-call state and is safe for concurrent use.
package judge
