// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catchfmt reads the XML reporter output of Catch2 benchmark
// executables.
//
// A report is a tree of TestCase elements, each holding any number of
// BenchmarkResults elements. The reader turns this tree into a list of
// Cases, each owning its Runs in document order. Run names follow the
// convention
//
//	<name> - <variable>=<value> [<tag>]
//
// where both the variable clause and the tag are optional. ParseName
// decomposes such names.
package catchfmt

import "math"

// A Case is one TestCase of a report and all of its benchmark runs.
type Case struct {
	Name string

	// Runs holds the benchmark runs of this case in the order they
	// appear in the report.
	Runs []*Run
}

// A Run is a single measured benchmark result.
//
// Times are in nanoseconds, as reported by Catch2.
type Run struct {
	// Name is the run name with the tag and variable clause removed.
	Name string

	// Tag is the bracketed annotation of the run name, or "".
	Tag string

	// VariableName and VariableValue describe the independent
	// variable of this run. VariableValue is NaN if the run name
	// did not carry a value.
	VariableName  string
	VariableValue float64

	Mean   float64
	StdDev float64

	// MeanLow and MeanHigh are the bounds of the confidence interval
	// of Mean, or NaN if the report did not include them.
	MeanLow, MeanHigh float64

	// Samples and Iterations are the sample count and iterations per
	// sample, or 0 if unknown.
	Samples, Iterations int

	// line records where this Run was read from, or 0.
	line int
}

// HasValue reports whether r carries a variable value.
func (r *Run) HasValue() bool {
	return !math.IsNaN(r.VariableValue)
}
