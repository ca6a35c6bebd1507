/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"chainguard.dev/vqaeval/agents/submission"
)

// prediction is one line of a predictions file: a dataset document with the
// model's answer under "pred".
type prediction struct {
	submission.Doc
	Prediction string `json:"pred"`
}

// ReadInputs decodes a JSON Lines predictions stream. Blank lines are skipped.
func ReadInputs(r io.Reader) ([]Input, error) {
	var inputs []Input
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var p prediction
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		inputs = append(inputs, Input{Doc: p.Doc, Prediction: p.Prediction})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading predictions: %w", err)
	}
	return inputs, nil
}
