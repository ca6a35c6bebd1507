/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package score aggregates judged records into accuracy and mean-score
// statistics and persists the summary artifact.
//
// Scores are averaged as-is. Nothing is clamped or rejected, so a judge that
// replies with a score outside 0–5 moves the average accordingly.
package score

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"chainguard.dev/vqaeval/agents/artifact"
	"chainguard.dev/vqaeval/agents/submission"
	"github.com/chainguard-dev/clog"
)

// Prefix is prepended to the task name for summary artifacts.
const Prefix = "scores_"

// Summary is the terminal result of a pipeline run.
type Summary struct {
	Accuracy     float64 `json:"accuracy"`
	AverageScore float64 `json:"average_score"`
}

// Aggregate computes accuracy (share of records judged "yes") and the mean
// score over evaluated. Both are zero for an empty batch.
func Aggregate(evaluated []submission.Evaluated) Summary {
	t := tally(evaluated)
	return t.summary()
}

// Persist writes s as a JSON object artifact and returns its path.
func Persist(ctx context.Context, store artifact.Store, task string, s Summary) (string, error) {
	path, err := artifact.WriteJSON(ctx, store, artifact.Name(Prefix+task, time.Now()), s)
	if err != nil {
		return "", err
	}
	accuracyGauge.WithLabelValues(task).Set(s.Accuracy)
	averageScoreGauge.WithLabelValues(task).Set(s.AverageScore)
	clog.FromContext(ctx).With("path", path).Info("Score file saved")
	return path, nil
}

// Load reads a summary written by Persist.
func Load(ctx context.Context, store artifact.Store, path string) (Summary, error) {
	var s Summary
	if err := artifact.ReadJSON(ctx, store, path, &s); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Print writes the summary in its console form.
func Print(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "Accuracy: %s\nAverage Score: %s\n", formatFloat(s.Accuracy), formatFloat(s.AverageScore))
	return err
}

// formatFloat renders integral values with a trailing ".0" so 1 prints as 1.0.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		s += ".0"
	}
	return s
}

type counts struct {
	total int
	yes   int
	sum   float64
}

func (c *counts) add(e submission.Evaluated) {
	c.total++
	if e.Verdict().Correct() {
		c.yes++
	}
	c.sum += e.Score
}

func (c counts) summary() Summary {
	if c.total == 0 {
		return Summary{}
	}
	n := float64(c.total)
	return Summary{
		Accuracy:     float64(c.yes) / n,
		AverageScore: c.sum / n,
	}
}

func tally(evaluated []submission.Evaluated) counts {
	var c counts
	for _, e := range evaluated {
		c.add(e)
	}
	return c
}
