// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out plain-text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Row and Cell return the Table so callers can chain them to build up
// a row at once.
type Table struct {
	rows  [][]textCell
	width []int
}

type textCell struct {
	value string
	right bool
}

// CellOption modifies a single cell.
type CellOption func(c *textCell)

// Right aligns a cell to the right edge of its column.
var Right CellOption = func(c *textCell) { c.right = true }

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := textCell{value: value}
	for _, o := range opts {
		o(&c)
	}
	row := &t.rows[len(t.rows)-1]
	col := len(*row)
	*row = append(*row, c)

	for len(t.width) <= col {
		t.width = append(t.width, 0)
	}
	if w := utf8.RuneCountInString(value); w > t.width[col] {
		t.width[col] = w
	}
	return t
}

// Format lays out table t and writes it to w. Columns are separated by
// two spaces and lines carry no trailing spaces.
func (t *Table) Format(w io.Writer) error {
	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for col, c := range row {
			if col > 0 {
				line.WriteString("  ")
			}
			pad := t.width[col] - utf8.RuneCountInString(c.value)
			if c.right {
				fmt.Fprintf(&line, "%*s%s", pad, "", c.value)
			} else {
				fmt.Fprintf(&line, "%s%*s", c.value, pad, "")
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
