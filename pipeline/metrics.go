/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeJudged      = "judged"
	outcomeUnavailable = "unavailable"
	outcomePanic       = "panic"
)

var (
	mRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vqaeval_records_total",
			Help: "Records processed by the evaluate phase",
		},
		[]string{"task", "outcome"},
	)

	mVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vqaeval_verdicts_total",
			Help: "Verdicts assigned by the evaluate phase",
		},
		[]string{"task", "correctness"},
	)
)
