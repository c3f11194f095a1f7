// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlet/catchplot/catchfmt"
)

func run(name, tag, variable string, x, mean, sd float64) *catchfmt.Run {
	return &catchfmt.Run{
		Name: name, Tag: tag,
		VariableName: variable, VariableValue: x,
		Mean: mean, StdDev: sd,
		MeanLow: math.NaN(), MeanHigh: math.NaN(),
	}
}

func TestGroup(t *testing.T) {
	c := &catchfmt.Case{Name: "Suite", Runs: []*catchfmt.Run{
		run("Op", "fast", "n", 10, 5, 0.1),
		run("Other", "slow", "size", 1, 100, 3),
		run("Op", "fast", "n", 20, 9, 0.2),
		run("Alt", "fast", "n", 10, 6, 0.3),
		run("Plain", "", "", math.NaN(), 1, 0),
	}}
	cols := Group(c)
	require.Len(t, cols, 3)

	fast := cols[0]
	assert.Equal(t, "Suite", fast.Case)
	assert.Equal(t, "fast", fast.Name)
	assert.Equal(t, "n", fast.VariableName)
	require.Len(t, fast.Series, 2)
	op := fast.Series[0]
	assert.Equal(t, "Op", op.Name)
	assert.Equal(t, []float64{10, 20}, op.X)
	assert.Equal(t, []float64{5, 9}, op.Mean)
	assert.Equal(t, []float64{0.1, 0.2}, op.StdDev)
	assert.Same(t, op, fast.lookup("Op"))
	assert.Nil(t, fast.lookup("Missing"))
	assert.Equal(t, "Alt", fast.Series[1].Name)
	require.Len(t, op.MeanLow, 2)
	assert.True(t, math.IsNaN(op.MeanHigh[1]))

	assert.Equal(t, "slow", cols[1].Name)
	assert.Equal(t, "size", cols[1].VariableName)

	plain := cols[2]
	assert.Equal(t, "", plain.Name)
	require.Len(t, plain.Series, 1)
	assert.True(t, math.IsNaN(plain.Series[0].X[0]))
}

func TestGroupStable(t *testing.T) {
	const n = 50
	c := &catchfmt.Case{Name: "Suite"}
	for i := 0; i < n; i++ {
		c.Runs = append(c.Runs, run("Op", "t", "n", float64(i), float64(2*i), float64(3*i)))
	}
	cols := Group(c)
	require.Len(t, cols, 1)
	s := cols[0].Series[0]
	require.Equal(t, n, s.Len())
	require.Len(t, s.Mean, n)
	require.Len(t, s.StdDev, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, float64(i), s.X[i])
		assert.Equal(t, float64(2*i), s.Mean[i])
		assert.Equal(t, float64(3*i), s.StdDev[i])
	}
}

func TestGroupVariableLastWins(t *testing.T) {
	var warnings []string
	b := &Builder{Case: "Suite", Warn: func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}}
	b.Add(run("Op", "t", "n", 1, 1, 0))
	b.Add(run("Op", "t", "n", 2, 1, 0))
	b.Add(run("Op", "t", "size", 3, 1, 0))
	cols := b.Collections()
	require.Len(t, cols, 1)
	assert.Equal(t, "size", cols[0].VariableName)
	assert.Equal(t, []string{`tag "t": variable "size" replaces "n"`}, warnings)
}

func TestGroupCasesIndependent(t *testing.T) {
	a := Group(&catchfmt.Case{Name: "A", Runs: []*catchfmt.Run{run("Op", "t", "n", 1, 1, 0)}})
	b := Group(&catchfmt.Case{Name: "B", Runs: []*catchfmt.Run{run("Op", "t", "n", 2, 2, 0)}})
	assert.Equal(t, 1, a[0].Series[0].Len())
	assert.Equal(t, 1, b[0].Series[0].Len())
	assert.Equal(t, "B", b[0].Case)
}

func TestGroupMeanBounds(t *testing.T) {
	r := run("Op", "t", "n", 1, 5, 0.5)
	r.MeanLow, r.MeanHigh = 4.5, 5.5
	s := Group(&catchfmt.Case{Runs: []*catchfmt.Run{r}})[0].Series[0]
	assert.Equal(t, []float64{4.5}, s.MeanLow)
	assert.Equal(t, []float64{5.5}, s.MeanHigh)

	s.Add(2, 6, 0.1)
	require.Equal(t, 2, s.Len())
	assert.True(t, math.IsNaN(s.MeanLow[1]))
	assert.True(t, math.IsNaN(s.MeanHigh[1]))
}
