/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task is the subset of a task template used to configure judging.
type Task struct {
	Name        string       `yaml:"task"`
	DatasetPath string       `yaml:"dataset_path"`
	Metadata    TaskMetadata `yaml:"metadata"`
}

// TaskMetadata carries judge settings declared by the task.
type TaskMetadata struct {
	// JudgeModel overrides the judge model when set.
	JudgeModel string `yaml:"gpt_eval_model_name"`

	// APIType selects the judge API flavour when set.
	APIType string `yaml:"api_type"`
}

// LoadTask reads a task template from path.
func LoadTask(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task config: %w", err)
	}
	return ParseTask(data)
}

// ParseTask decodes a task template. Lines carrying a !function tag refer to
// host-language callables and are dropped before decoding.
func ParseTask(data []byte) (*Task, error) {
	var kept bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, "!function") {
			continue
		}
		kept.WriteString(line)
		kept.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning task config: %w", err)
	}

	var t Task
	if err := yaml.Unmarshal(kept.Bytes(), &t); err != nil {
		return nil, fmt.Errorf("parsing task config: %w", err)
	}
	return &t, nil
}
