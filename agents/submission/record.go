/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package submission shapes per-example model predictions into records and
// persists whole batches as JSON array artifacts.
//
// Collection performs no judging. Writing the batch before any judge call is
// made means a flaky judge can never discard predictions that were expensive
// to produce.
package submission

import "chainguard.dev/vqaeval/agents/verdict"

// Doc is one dataset example as it arrives from the evaluation harness.
type Doc struct {
	VideoName  string `json:"video_name"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	QuestionID Tag    `json:"question_id"`
	Type       Tag    `json:"type"`
}

// Record is a single question/answer/prediction tuple. Records are values;
// nothing in the pipeline mutates one after ProcessOne creates it.
type Record struct {
	VideoName  string `json:"video_name"`
	Question   string `json:"Q"`
	Answer     string `json:"A"`
	Prediction string `json:"pred"`
	QuestionID Tag    `json:"question_id"`
	Type       Tag    `json:"type"`
}

// ProcessOne maps a dataset example and the model's prediction to a Record.
func ProcessOne(doc Doc, prediction string) Record {
	return Record{
		VideoName:  doc.VideoName,
		Question:   doc.Question,
		Answer:     doc.Answer,
		Prediction: prediction,
		QuestionID: doc.QuestionID,
		Type:       doc.Type,
	}
}

// Evaluated is a Record with its verdict attached. Field order matches the
// evaluated artifact layout.
type Evaluated struct {
	VideoName   string              `json:"video_name"`
	Correctness verdict.Correctness `json:"Correctness"`
	Score       float64             `json:"score"`
	Question    string              `json:"Q"`
	Answer      string              `json:"A"`
	Prediction  string              `json:"pred"`
	QuestionID  Tag                 `json:"question_id"`
	Type        Tag                 `json:"type"`
}

// Evaluate attaches v to r.
func Evaluate(r Record, v verdict.Verdict) Evaluated {
	return Evaluated{
		VideoName:   r.VideoName,
		Correctness: v.Correctness,
		Score:       v.Score,
		Question:    r.Question,
		Answer:      r.Answer,
		Prediction:  r.Prediction,
		QuestionID:  r.QuestionID,
		Type:        r.Type,
	}
}

// Verdict returns the verdict part of e.
func (e Evaluated) Verdict() verdict.Verdict {
	return verdict.Verdict{Correctness: e.Correctness, Score: e.Score}
}

// Record returns the record part of e.
func (e Evaluated) Record() Record {
	return Record{
		VideoName:  e.VideoName,
		Question:   e.Question,
		Answer:     e.Answer,
		Prediction: e.Prediction,
		QuestionID: e.QuestionID,
		Type:       e.Type,
	}
}
