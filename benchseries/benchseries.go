// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchseries groups the runs of a Catch2 benchmark case into
// per-tag collections of series and renders each collection as a
// chart of mean time against the run's variable.
package benchseries

import (
	"math"

	"github.com/voxlet/catchplot/catchfmt"
)

// A Series is one plotted line of a chart: the runs of a collection
// that share a name.
//
// X, Mean, StdDev, MeanLow and MeanHigh are parallel slices in the
// order the runs were added. They are only extended together, by Add
// and AddRun.
type Series struct {
	Name string

	X      []float64 // variable values; NaN for runs without a value
	Mean   []float64
	StdDev []float64

	// MeanLow and MeanHigh bound the confidence interval of each
	// mean, or are NaN where the report gave none.
	MeanLow  []float64
	MeanHigh []float64
}

// Add appends one point without confidence bounds to s.
func (s *Series) Add(x, mean, stdDev float64) {
	s.add(x, mean, stdDev, math.NaN(), math.NaN())
}

// AddRun appends the point measured by r to s.
func (s *Series) AddRun(r *catchfmt.Run) {
	s.add(r.VariableValue, r.Mean, r.StdDev, r.MeanLow, r.MeanHigh)
}

func (s *Series) add(x, mean, stdDev, low, high float64) {
	s.X = append(s.X, x)
	s.Mean = append(s.Mean, mean)
	s.StdDev = append(s.StdDev, stdDev)
	s.MeanLow = append(s.MeanLow, low)
	s.MeanHigh = append(s.MeanHigh, high)
}

// Len returns the number of points in s.
func (s *Series) Len() int {
	return len(s.X)
}

// A Collection is the set of series drawn on one chart: all runs of a
// case that share a tag.
type Collection struct {
	// Case is the name of the benchmark case the runs came from.
	Case string

	// Name is the tag shared by all runs. It may be "".
	Name string

	// VariableName labels the x axis. It is taken from the most
	// recently added run.
	VariableName string

	// Series holds the series in the order they were first seen.
	Series []*Series

	byName map[string]*Series
}

// lookup returns the series called name, or nil.
func (c *Collection) lookup(name string) *Series {
	return c.byName[name]
}

// series returns the series called name, creating it if necessary.
func (c *Collection) series(name string) *Series {
	if s := c.lookup(name); s != nil {
		return s
	}
	s := &Series{Name: name}
	if c.byName == nil {
		c.byName = make(map[string]*Series)
	}
	c.byName[name] = s
	c.Series = append(c.Series, s)
	return s
}

// A Builder groups the runs of a single benchmark case into
// collections.
//
// The zero Builder is ready to use.
type Builder struct {
	// Case is recorded in every collection.
	Case string

	// Warn, if non-nil, is called when runs sharing a tag disagree on
	// the variable name. The last name seen still wins.
	Warn func(format string, args ...interface{})

	cols  []*Collection
	byTag map[string]*Collection
}

// Add adds r to the collection of its tag and to the series of its
// name within that collection.
func (b *Builder) Add(r *catchfmt.Run) {
	c, ok := b.byTag[r.Tag]
	if !ok {
		c = &Collection{Case: b.Case, Name: r.Tag, VariableName: r.VariableName}
		if b.byTag == nil {
			b.byTag = make(map[string]*Collection)
		}
		b.byTag[r.Tag] = c
		b.cols = append(b.cols, c)
	}
	if c.VariableName != r.VariableName && b.Warn != nil {
		b.Warn("tag %q: variable %q replaces %q", r.Tag, r.VariableName, c.VariableName)
	}
	c.VariableName = r.VariableName
	c.series(r.Name).AddRun(r)
}

// Collections returns the collections built so far, in the order
// their tags were first seen.
func (b *Builder) Collections() []*Collection {
	return b.cols
}

// Group returns the collections of c's runs. Collections are never
// shared between cases.
func Group(c *catchfmt.Case) []*Collection {
	b := &Builder{Case: c.Name}
	for _, r := range c.Runs {
		b.Add(r)
	}
	return b.Collections()
}
