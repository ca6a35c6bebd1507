/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package score

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"chainguard.dev/vqaeval/agents/submission"
)

// Category holds the statistics for one question type.
type Category struct {
	Name  string
	Count int
	Summary
}

// Breakdown groups evaluated by question type and aggregates each group.
// Categories are ordered numerically when both names are integers and
// lexically otherwise. Records without a type are grouped under "".
func Breakdown(evaluated []submission.Evaluated) []Category {
	groups := make(map[string]*counts)
	for _, e := range evaluated {
		name := e.Type.String()
		c, ok := groups[name]
		if !ok {
			c = &counts{}
			groups[name] = c
		}
		c.add(e)
	}

	out := make([]Category, 0, len(groups))
	for name, c := range groups {
		out = append(out, Category{Name: name, Count: c.total, Summary: c.summary()})
	}
	slices.SortFunc(out, func(a, b Category) int {
		ai, aerr := strconv.Atoi(a.Name)
		bi, berr := strconv.Atoi(b.Name)
		if aerr == nil && berr == nil {
			return cmp.Compare(ai, bi)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// WriteTable renders the per-category breakdown followed by an overall row.
func WriteTable(w io.Writer, evaluated []submission.Evaluated) error {
	table := newScoreTable(w)
	for _, c := range Breakdown(evaluated) {
		name := c.Name
		if name == "" {
			name = "-"
		}
		if err := table.Append([]string{
			name,
			strconv.Itoa(c.Count),
			fmt.Sprintf("%.1f%%", c.Accuracy*100),
			fmt.Sprintf("%.2f", c.AverageScore),
		}); err != nil {
			return err
		}
	}

	overall := Aggregate(evaluated)
	if err := table.Append([]string{
		"all",
		strconv.Itoa(len(evaluated)),
		fmt.Sprintf("%.1f%%", overall.Accuracy*100),
		fmt.Sprintf("%.2f", overall.AverageScore),
	}); err != nil {
		return err
	}
	return table.Render()
}
