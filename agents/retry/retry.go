/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures a fixed-delay retry loop.
type Config struct {
	// Attempts is the total number of times the operation is tried (default: 5).
	// Values below 1 are treated as 1.
	Attempts int
	// Delay is slept between consecutive attempts, never after the last one (default: 5s).
	Delay time.Duration
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.Attempts < 0 {
		return errors.New("attempts cannot be negative")
	}
	if c.Delay < 0 {
		return errors.New("delay cannot be negative")
	}
	return nil
}

// DefaultConfig returns the retry policy used for remote judge calls.
func DefaultConfig() Config {
	return Config{
		Attempts: 5,
		Delay:    5 * time.Second,
	}
}

// ExhaustedError is returned once every attempt has failed.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Last      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Operation, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Do runs fn until it succeeds or the configured attempts are used up.
// fn receives the 1-based attempt number. Every failed attempt is logged
// with its index and error; exhaustion is logged once more as a summary.
func Do[T any](ctx context.Context, cfg Config, operation string, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var result T
	var lastErr error

	attempts := max(cfg.Attempts, 1)
	log := clog.FromContext(ctx).With("operation", operation)

	for attempt := 1; attempt <= attempts; attempt++ {
		result, lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return result, nil
		}

		log.With("attempt", attempt).
			With("attempts", attempts).
			With("error", lastErr.Error()).
			Error("Attempt failed")

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}

	log.With("attempts", attempts).
		With("error", lastErr.Error()).
		Error("All attempts failed")

	return result, &ExhaustedError{Operation: operation, Attempts: attempts, Last: lastErr}
}
