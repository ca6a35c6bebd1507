/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package artifact

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayout renders as YYYY-MM-DD-HH-MM-SS.
const timestampLayout = "2006-01-02-15-04-05"

// Name returns a collision-resistant JSON file name of the form
// <prefix>_<timestamp>_<id>.json. Two names generated within the same
// second still differ in their random suffix.
func Name(prefix string, now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s.json", prefix, now.Format(timestampLayout), id)
}
