/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline runs the three phases of a judged evaluation:
//
//  1. Collect shapes (doc, prediction) pairs into records and writes the
//     submission artifact.
//  2. Evaluate reads the submission artifact back, asks the judge about every
//     record, parses each verdict and writes the evaluated artifact.
//  3. Score aggregates the evaluated artifact and writes the summary.
//
// Phases run in order and each reads its input from the artifact written by
// the previous one, so Evaluate and Score can also be invoked on artifacts
// produced by an earlier run.
//
// Judging never aborts a run. A record whose judge call is exhausted, whose
// reply does not parse, or whose processing panics receives the default
// verdict. Only artifact I/O errors are returned.
//
// # Usage
//
//	p, err := pipeline.New(pipeline.Config{Task: "activitynetqa"}, store, client)
//	if err != nil {
//		return err
//	}
//	res, err := p.Run(ctx, inputs)
//	if err != nil {
//		return err
//	}
//	score.Print(os.Stdout, res.Summary)
//
// There is no resumption: rerunning Evaluate re-judges every record.
package pipeline
