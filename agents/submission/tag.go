/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Tag is an identifier or category value that datasets encode either as a
// JSON number or as a JSON string. The original encoding is preserved so
// artifacts round-trip byte for byte.
type Tag struct {
	raw json.RawMessage
}

// StringTag returns a Tag encoded as a JSON string.
func StringTag(s string) Tag {
	b, _ := json.Marshal(s)
	return Tag{raw: b}
}

// IntTag returns a Tag encoded as a JSON number.
func IntTag(n int) Tag {
	return Tag{raw: json.RawMessage(strconv.Itoa(n))}
}

// IsZero reports whether the tag is absent or null.
func (t Tag) IsZero() bool {
	return len(t.raw) == 0 || bytes.Equal(t.raw, []byte("null"))
}

// String returns the tag's value with string quoting removed.
func (t Tag) String() string {
	if t.IsZero() {
		return ""
	}
	var s string
	if err := json.Unmarshal(t.raw, &s); err == nil {
		return s
	}
	return string(t.raw)
}

// Equal reports whether two tags have the same encoding.
func (t Tag) Equal(o Tag) bool {
	if t.IsZero() || o.IsZero() {
		return t.IsZero() == o.IsZero()
	}
	return bytes.Equal(t.raw, o.raw)
}

// MarshalJSON implements json.Marshaler.
func (t Tag) MarshalJSON() ([]byte, error) {
	if len(t.raw) == 0 {
		return []byte("null"), nil
	}
	return t.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only scalars are accepted.
func (t *Tag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("tag must be a string or number, got %s", data)
	}
	t.raw = append(json.RawMessage(nil), data...)
	return nil
}
