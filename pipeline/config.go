/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"errors"
	"fmt"
)

// DefaultMaxTokens bounds the judge's reply, which only needs to hold a
// two-key dictionary.
const DefaultMaxTokens = 64

// Config controls a pipeline run.
type Config struct {
	// Task names the evaluation and prefixes every artifact. When empty the
	// name from the task template is used.
	Task string `env:"TASK_NAME"`

	// MaxTokens is passed to the judge for every record.
	MaxTokens int `env:"JUDGE_MAX_TOKENS,default=64"`

	// Concurrency is the number of records judged at once. 1 judges
	// strictly in batch order.
	Concurrency int `env:"JUDGE_CONCURRENCY,default=1"`
}

// DefaultConfig returns a sequential configuration for task.
func DefaultConfig(task string) Config {
	return Config{
		Task:        task,
		MaxTokens:   DefaultMaxTokens,
		Concurrency: 1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Task == "" {
		return errors.New("task name is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	return nil
}
