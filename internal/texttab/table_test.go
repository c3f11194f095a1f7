// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, tab *Table) string {
	t.Helper()
	var buf strings.Builder
	require.NoError(t, tab.Format(&buf))
	return buf.String()
}

func TestTable(t *testing.T) {
	var tab Table
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	assert.Equal(t, "a  b  c\nd  e  f\n", format(t, &tab))

	// Padding, without trailing spaces.
	tab = Table{}
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	tab.Row().Cell("x")
	assert.Equal(t, "a     b  c\nlong  e  long\nx\n", format(t, &tab))
}

func TestRight(t *testing.T) {
	var tab Table
	tab.Row().Cell("name").Cell("n", Right)
	tab.Row().Cell("Op").Cell("10", Right)
	tab.Row().Cell("☃").Cell("100", Right)
	assert.Equal(t, "name    n\nOp     10\n☃     100\n", format(t, &tab))
}

func TestEmpty(t *testing.T) {
	var tab Table
	assert.Equal(t, "", format(t, &tab))

	// Cell without Row starts the first row.
	tab.Cell("x")
	assert.Equal(t, "x\n", format(t, &tab))
}
