/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submission

import (
	"context"
	"time"

	"chainguard.dev/vqaeval/agents/artifact"
	"github.com/chainguard-dev/clog"
)

// EvaluatedPrefix is prepended to the task name for evaluated artifacts.
const EvaluatedPrefix = "gpt_eval_result_"

// Collect writes the batch as a single JSON array artifact named after task
// and returns its path.
func Collect(ctx context.Context, store artifact.Store, task string, records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}
	path, err := artifact.WriteJSON(ctx, store, artifact.Name(task, time.Now()), records)
	if err != nil {
		return "", err
	}
	clog.FromContext(ctx).With("path", path).
		With("records", len(records)).
		Info("Submission file saved")
	return path, nil
}

// Load reads a batch written by Collect.
func Load(ctx context.Context, store artifact.Store, path string) ([]Record, error) {
	var records []Record
	if err := artifact.ReadJSON(ctx, store, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveEvaluated writes a judged batch and returns its path.
func SaveEvaluated(ctx context.Context, store artifact.Store, task string, evaluated []Evaluated) (string, error) {
	if evaluated == nil {
		evaluated = []Evaluated{}
	}
	path, err := artifact.WriteJSON(ctx, store, artifact.Name(EvaluatedPrefix+task, time.Now()), evaluated)
	if err != nil {
		return "", err
	}
	clog.FromContext(ctx).With("path", path).
		With("records", len(evaluated)).
		Info("Evaluated file saved")
	return path, nil
}

// LoadEvaluated reads a batch written by SaveEvaluated.
func LoadEvaluated(ctx context.Context, store artifact.Store, path string) ([]Evaluated, error) {
	var evaluated []Evaluated
	if err := artifact.ReadJSON(ctx, store, path, &evaluated); err != nil {
		return nil, err
	}
	return evaluated, nil
}
