/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vqaeval_judge_attempts_total",
			Help: "Total number of judge requests attempted, by outcome",
		},
		[]string{"model", "outcome"},
	)

	exhaustedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vqaeval_judge_exhausted_total",
			Help: "Total number of judge requests that failed on every attempt",
		},
		[]string{"model"},
	)
)
