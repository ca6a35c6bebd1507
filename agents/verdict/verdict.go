/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package verdict turns a judge's free-text reply into a structured Verdict.
//
// Parsing is total: Parse always returns a Verdict, falling back to
// Default when the reply cannot be decoded. Decode exposes the typed
// *ParseError for callers that need to tell the failure kinds apart.
package verdict

import "fmt"

// Correctness is the judge's binary match flag.
type Correctness string

const (
	Yes Correctness = "yes"
	No  Correctness = "no"
)

// Verdict is the parsed judgment for one record.
type Verdict struct {
	Correctness Correctness `json:"Correctness"`

	// Score is nominally 0–5 but is passed through unclamped.
	Score float64 `json:"score"`
}

// Default is the verdict assigned whenever judging or parsing fails.
var Default = Verdict{Correctness: No, Score: 0}

// Correct reports whether the judge marked the prediction as a match.
func (v Verdict) Correct() bool {
	return v.Correctness == Yes
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s (%.2f)", v.Correctness, v.Score)
}
