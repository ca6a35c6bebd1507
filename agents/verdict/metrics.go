/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var parseFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vqaeval_verdict_parse_failures_total",
		Help: "Total number of judge reviews that could not be parsed into a verdict",
	},
	[]string{"kind"},
)
