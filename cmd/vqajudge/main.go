/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs a judged evaluation over a predictions file: it collects
// the submissions, asks the judge about each one, and prints the summary.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/vqaeval/agents/artifact"
	"chainguard.dev/vqaeval/agents/judge"
	"chainguard.dev/vqaeval/agents/metrics"
	"chainguard.dev/vqaeval/agents/score"
	"chainguard.dev/vqaeval/pipeline"
	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Judge    judge.Config
	Pipeline pipeline.Config

	// TaskConfig is an optional task template whose metadata overrides the
	// judge model and API type.
	TaskConfig string `env:"TASK_CONFIG"`

	// PredictionsFile is a JSON Lines file of dataset docs with a "pred" field.
	PredictionsFile string `env:"PREDICTIONS_FILE,required"`

	// OutputURI is a local directory, gs://bucket/prefix or s3://bucket/prefix.
	OutputURI string `env:"OUTPUT_URI,default=./logs"`

	// MetricsTextfile, when set, receives the run's metrics in the Prometheus
	// text format.
	MetricsTextfile string `env:"METRICS_TEXTFILE"`

	// Breakdown prints accuracy per question type.
	Breakdown bool `env:"BREAKDOWN,default=true"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	if cfg.TaskConfig != "" {
		task, err := pipeline.LoadTask(cfg.TaskConfig)
		if err != nil {
			clog.FatalContextf(ctx, "loading task: %v", err)
		}
		if cfg.Pipeline.Task == "" {
			cfg.Pipeline.Task = task.Name
		}
		if task.Metadata.JudgeModel != "" {
			cfg.Judge.Model = task.Metadata.JudgeModel
		}
		if task.Metadata.APIType != "" {
			cfg.Judge.APIType = judge.APIType(task.Metadata.APIType)
		}
	}
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("task", cfg.Pipeline.Task))

	f, err := os.Open(cfg.PredictionsFile)
	if err != nil {
		clog.FatalContextf(ctx, "opening predictions: %v", err)
	}
	inputs, err := pipeline.ReadInputs(f)
	f.Close()
	if err != nil {
		clog.FatalContextf(ctx, "reading predictions: %v", err)
	}
	clog.InfoContextf(ctx, "Loaded %d predictions from %s", len(inputs), cfg.PredictionsFile)

	store, err := artifact.Open(ctx, cfg.OutputURI)
	if err != nil {
		clog.FatalContextf(ctx, "opening output %s: %v", cfg.OutputURI, err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	client, err := judge.New(cfg.Judge, judge.WithGenAIMetrics(metrics.NewGenAI("chainguard.dev/vqaeval/judge")))
	if err != nil {
		clog.FatalContextf(ctx, "creating judge: %v", err)
	}
	clog.InfoContextf(ctx, "Judging with model %s at %s", cfg.Judge.Model, cfg.Judge.URL)

	p, err := pipeline.New(cfg.Pipeline, store, client)
	if err != nil {
		clog.FatalContextf(ctx, "creating pipeline: %v", err)
	}

	res, err := p.Run(ctx, inputs)
	if err != nil {
		clog.FatalContextf(ctx, "running evaluation: %v", err)
	}

	if err := score.Print(os.Stdout, res.Summary); err != nil {
		clog.FatalContextf(ctx, "printing summary: %v", err)
	}
	if cfg.Breakdown && len(res.Evaluated) > 0 {
		fmt.Println()
		if err := score.WriteTable(os.Stdout, res.Evaluated); err != nil {
			clog.FatalContextf(ctx, "printing breakdown: %v", err)
		}
	}

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); err != nil {
			clog.ErrorContextf(ctx, "writing metrics textfile: %v", err)
		}
	}
}
