/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"chainguard.dev/vqaeval/agents/result"
	"github.com/chainguard-dev/clog"
	"gopkg.in/yaml.v3"
)

// Keys the judge is instructed to emit.
const (
	CorrectnessKey = "pred"
	ScoreKey       = "score"
)

// FailureKind classifies why a reply could not be turned into a Verdict.
type FailureKind string

const (
	// Syntax means the reply is not a well-formed literal.
	Syntax FailureKind = "syntax"
	// Type means the literal parsed but is not a mapping.
	Type FailureKind = "type"
	// Value means a field is present but cannot be coerced.
	Value FailureKind = "value"
)

// ParseError describes a reply that could not be decoded.
type ParseError struct {
	Kind FailureKind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error parsing verdict %q: %v", e.Kind, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decode parses raw into a Verdict. On failure it returns Default together
// with a *ParseError. The reply must be a single inline mapping literal;
// block-style YAML, prose and trailing text are Syntax failures.
func Decode(raw string) (Verdict, error) {
	fields, err := result.Extract[map[string]any](raw)
	if err != nil {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return Default, &ParseError{Kind: Type, Raw: raw, Err: err}
		}
		return Default, &ParseError{Kind: Syntax, Raw: raw, Err: err}
	}
	if fields == nil {
		return Default, &ParseError{Kind: Type, Raw: raw, Err: errors.New("literal is not a mapping")}
	}

	v := Default
	if c, ok := fields[CorrectnessKey]; ok {
		v.Correctness = toCorrectness(c)
	}
	if s, ok := fields[ScoreKey]; ok {
		score, err := toFloat(s)
		if err != nil {
			return Default, &ParseError{Kind: Value, Raw: raw, Err: err}
		}
		// Artifacts are JSON, which has no encoding for NaN or infinities.
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return Default, &ParseError{Kind: Value, Raw: raw, Err: fmt.Errorf("score %v is not finite", score)}
		}
		v.Score = score
	}
	return v, nil
}

// Parse is the total form of Decode: failures are logged with the offending
// text and the Default verdict is returned.
func Parse(ctx context.Context, raw string) Verdict {
	v, err := Decode(raw)
	if err != nil {
		var pe *ParseError
		kind := Syntax
		if errors.As(err, &pe) {
			kind = pe.Kind
		}
		parseFailures.WithLabelValues(string(kind)).Inc()
		clog.FromContext(ctx).With("kind", string(kind)).
			With("review", raw).
			With("error", err.Error()).
			Error("Failed to parse judge review")
		return Default
	}
	return v
}

func toCorrectness(v any) Correctness {
	switch t := v.(type) {
	case string:
		if strings.EqualFold(strings.TrimSpace(t), string(Yes)) {
			return Yes
		}
	case bool:
		if t {
			return Yes
		}
	}
	return No
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("score %q is not numeric: %w", t, err)
		}
		return f, nil
	case nil:
		return 0, errors.New("score is null")
	default:
		return 0, fmt.Errorf("score has unsupported type %T", v)
	}
}
