/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package score

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	accuracyGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vqaeval_accuracy",
			Help: "Accuracy of the most recently persisted summary",
		},
		[]string{"task"},
	)

	averageScoreGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vqaeval_average_score",
			Help: "Average judge score of the most recently persisted summary",
		},
		[]string{"task"},
	)
)
