/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package score

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// scoreColumns are the breakdown table headers. The first column names the
// question type; the rest are numeric.
var scoreColumns = []string{"Type", "Count", "Accuracy", "Average Score"}

// newScoreTable creates the markdown breakdown table with the type column
// left-aligned and the numeric columns right-aligned so decimals line up.
func newScoreTable(w io.Writer) *tablewriter.Table {
	align := tw.CellAlignment{
		Global:    tw.AlignRight,
		PerColumn: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight},
	}
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  align,
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: align,
		},
		Behavior: tw.Behavior{TrimSpace: tw.On},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(scoreColumns),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
