/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import "context"

// Request carries one question/answer/prediction triple to be judged.
type Request struct {
	// Question is the question posed about the video.
	Question string `json:"question"`

	// ReferenceAnswer is the ground-truth answer.
	ReferenceAnswer string `json:"reference_answer"`

	// Prediction is the answer produced by the model under test.
	Prediction string `json:"prediction"`

	// MaxTokens bounds the judge's reply length.
	MaxTokens int `json:"max_tokens"`
}

// Response is the judge's raw reply and the model that produced it.
// The zero Response means judging was unavailable for the request.
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// Empty reports whether r is the exhaustion sentinel.
func (r Response) Empty() bool {
	return r.Content == "" && r.Model == ""
}

// Interface defines the contract for judge implementations
type Interface interface {
	// Judge sends the request to the judge, retrying as configured. It never
	// returns an error; callers treat an empty Response as "judging unavailable".
	Judge(ctx context.Context, request *Request) Response
}
