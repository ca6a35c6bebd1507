/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result extracts structured literals from free-text model replies.

Judges are asked to answer with a bare mapping literal, but in practice the
literal arrives wrapped in markdown fences, padded with whitespace, written
with single-quoted keys, or not at all. This package isolates the literal and
decodes it without ever evaluating the text.

# Extraction

ExtractLiteral returns the body of the first fenced block whose info string is
empty, "json" or "python", falling back to the trimmed input:

	lit := result.ExtractLiteral("```python\n{'pred': 'yes', 'score': 4}\n```")
	// lit == "{'pred': 'yes', 'score': 4}"

# Decoding

Extract decodes the literal with a YAML 1.2 flow parser, which is a strict
superset of JSON and also accepts the quoted-key dictionary form judges tend to
emit. Only scalars, sequences and mappings can be produced:

	m, err := result.Extract[map[string]any]("{'pred': 'yes', 'score': 4}")

An empty literal yields ErrEmpty. All functions are safe for concurrent use.
*/
package result
