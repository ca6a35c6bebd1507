/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned by Extract when no literal text remains after extraction.
var ErrEmpty = errors.New("empty literal")

// ErrSyntax is wrapped by Extract errors for text that is not a single
// literal: unparseable input, block-style collections, or trailing content.
var ErrSyntax = errors.New("not a literal")

// fenceLanguages are the code block info strings recognized as literal payloads.
var fenceLanguages = map[string]bool{
	"":       true,
	"json":   true,
	"python": true,
	"py":     true,
}

// ExtractLiteral extracts the literal payload from a text response that may contain
// markdown code blocks. It returns the content of the first recognized fenced block,
// or the input trimmed (and stripped of stray fences) if no block is found.
func ExtractLiteral(responseText string) string {
	lines := strings.Split(responseText, "\n")
	var buf bytes.Buffer
	inBlock := false
	found := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inBlock && strings.HasPrefix(trimmed, "```") && fenceLanguages[strings.ToLower(strings.TrimPrefix(trimmed, "```"))] {
			inBlock = true
			found = true
			continue
		}

		if inBlock && trimmed == "```" {
			break
		}

		if inBlock {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}

	if found {
		return strings.TrimSpace(buf.String())
	}

	// Single-line replies such as ```{'pred': 'no'}``` carry the fences inline.
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	return strings.TrimSpace(responseText)
}

// Extract extracts a literal from responseText and decodes it into T.
// Decoding never evaluates the text: only literal containers, strings,
// numbers and booleans are produced. Collections must be written inline
// ({...} or [...]) and nothing may follow them. Such failures wrap ErrSyntax;
// a well-formed literal of the wrong shape yields a *yaml.TypeError.
func Extract[T any](responseText string) (T, error) {
	var out T

	lit := ExtractLiteral(responseText)
	if lit == "" {
		return out, ErrEmpty
	}

	root, err := parseLiteral(lit)
	if err != nil {
		return out, err
	}
	if err := root.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// parseLiteral parses lit as exactly one inline literal and returns its root.
func parseLiteral(lit string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(lit), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%w: expected a single document", ErrSyntax)
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if root.Style&yaml.FlowStyle == 0 {
			return nil, fmt.Errorf("%w: block-style collection", ErrSyntax)
		}
	}

	if lit[0] == '{' || lit[0] == '[' {
		if end := closingBracket(lit); end >= 0 && strings.TrimSpace(lit[end+1:]) != "" {
			return nil, fmt.Errorf("%w: trailing content after literal", ErrSyntax)
		}
	}
	return root, nil
}

// closingBracket returns the index of the bracket closing the collection that
// opens s, or -1 if it is never closed. Quoted strings are skipped.
func closingBracket(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\'':
			// Single-quoted scalars escape a quote by doubling it.
			for i++; i < len(s); i++ {
				if s[i] == '\'' {
					if i+1 < len(s) && s[i+1] == '\'' {
						i++
						continue
					}
					break
				}
			}
		case '"':
			for i++; i < len(s); i++ {
				if s[i] == '\\' {
					i++
					continue
				}
				if s[i] == '"' {
					break
				}
			}
		}
	}
	return -1
}
