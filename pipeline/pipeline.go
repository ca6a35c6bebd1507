/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/vqaeval/agents/agenttrace"
	"chainguard.dev/vqaeval/agents/artifact"
	"chainguard.dev/vqaeval/agents/judge"
	"chainguard.dev/vqaeval/agents/score"
	"chainguard.dev/vqaeval/agents/submission"
	"chainguard.dev/vqaeval/agents/verdict"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Input pairs a dataset document with the prediction made for it.
type Input struct {
	Doc        submission.Doc
	Prediction string
}

// Result is the outcome of Run.
type Result struct {
	Summary score.Summary

	// Evaluated holds the judged records in batch order.
	Evaluated []submission.Evaluated

	// Artifact paths, one per phase.
	SubmissionPath string
	EvaluatedPath  string
	ScorePath      string
}

// Pipeline evaluates predictions with an LLM judge.
type Pipeline struct {
	cfg   Config
	store artifact.Store
	judge judge.Interface
}

// New creates a pipeline writing artifacts to store and judging with j.
func New(cfg Config, store artifact.Store, j judge.Interface) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, errors.New("artifact store is required")
	}
	if j == nil {
		return nil, errors.New("judge is required")
	}
	return &Pipeline{cfg: cfg, store: store, judge: j}, nil
}

// Collect shapes inputs into records and writes the submission artifact.
func (p *Pipeline) Collect(ctx context.Context, inputs []Input) (string, error) {
	records := make([]submission.Record, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, submission.ProcessOne(in.Doc, in.Prediction))
	}
	path, err := submission.Collect(ctx, p.store, p.cfg.Task, records)
	if err != nil {
		return "", fmt.Errorf("collecting submissions: %w", err)
	}
	return path, nil
}

// Evaluate judges every record of the submission artifact at path and writes
// the evaluated artifact. It returns the evaluated records and their path.
func (p *Pipeline) Evaluate(ctx context.Context, path string) ([]submission.Evaluated, string, error) {
	log := clog.FromContext(ctx).With("task", p.cfg.Task)

	records, err := submission.Load(ctx, p.store, path)
	if err != nil {
		return nil, "", fmt.Errorf("loading submissions: %w", err)
	}
	log.With("records", len(records), "concurrency", p.cfg.Concurrency).Info("Judging submissions")

	// Each worker writes only its own index, so output order is batch order.
	evaluated := make([]submission.Evaluated, len(records))
	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i, r := range records {
		g.Go(func() error {
			evaluated[i] = p.evaluateOne(ctx, r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	out, err := submission.SaveEvaluated(ctx, p.store, p.cfg.Task, evaluated)
	if err != nil {
		return nil, "", fmt.Errorf("saving evaluated results: %w", err)
	}
	return evaluated, out, nil
}

// evaluateOne judges a single record. It never fails: any problem yields the
// default verdict.
func (p *Pipeline) evaluateOne(ctx context.Context, r submission.Record) (ev submission.Evaluated) {
	log := clog.FromContext(ctx).With("question_id", r.QuestionID.String())
	ctx = clog.WithLogger(ctx, log)
	ctx = agenttrace.WithRecordContext(ctx, agenttrace.RecordContext{
		Task:       p.cfg.Task,
		QuestionID: r.QuestionID.String(),
	})

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Evaluating record panicked, using default verdict", "panic", fmt.Sprint(rec))
			mRecords.WithLabelValues(p.cfg.Task, outcomePanic).Inc()
			ev = submission.Evaluate(r, verdict.Default)
		}
		mVerdicts.WithLabelValues(p.cfg.Task, string(ev.Correctness)).Inc()
	}()

	resp := p.judge.Judge(ctx, &judge.Request{
		Question:        r.Question,
		ReferenceAnswer: r.Answer,
		Prediction:      r.Prediction,
		MaxTokens:       p.cfg.MaxTokens,
	})
	if resp.Empty() {
		log.Warn("Judge unavailable, using default verdict")
		mRecords.WithLabelValues(p.cfg.Task, outcomeUnavailable).Inc()
		return submission.Evaluate(r, verdict.Default)
	}

	v := verdict.Parse(ctx, resp.Content)
	mRecords.WithLabelValues(p.cfg.Task, outcomeJudged).Inc()
	return submission.Evaluate(r, v)
}

// Score aggregates the evaluated artifact at path and persists the summary.
func (p *Pipeline) Score(ctx context.Context, path string) (score.Summary, string, error) {
	evaluated, err := submission.LoadEvaluated(ctx, p.store, path)
	if err != nil {
		return score.Summary{}, "", fmt.Errorf("loading evaluated results: %w", err)
	}
	summary := score.Aggregate(evaluated)
	out, err := score.Persist(ctx, p.store, p.cfg.Task, summary)
	if err != nil {
		return score.Summary{}, "", fmt.Errorf("saving scores: %w", err)
	}
	return summary, out, nil
}

// Run executes Collect, Evaluate and Score in order.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) (*Result, error) {
	subPath, err := p.Collect(ctx, inputs)
	if err != nil {
		return nil, err
	}
	evaluated, evalPath, err := p.Evaluate(ctx, subPath)
	if err != nil {
		return nil, err
	}
	summary, scorePath, err := p.Score(ctx, evalPath)
	if err != nil {
		return nil, err
	}
	clog.FromContext(ctx).With(
		"task", p.cfg.Task,
		"accuracy", summary.Accuracy,
		"average_score", summary.AverageScore,
	).Info("Evaluation complete")
	return &Result{
		Summary:        summary,
		Evaluated:      evaluated,
		SubmissionPath: subPath,
		EvaluatedPath:  evalPath,
		ScorePath:      scorePath,
	}, nil
}
