// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aclements/go-moremath/stats"

	"github.com/voxlet/catchplot/internal/texttab"
)

// WriteSummary writes a text table describing each series of cols:
// its tag, variable, point count and the range and geometric mean of
// its mean times.
func WriteSummary(w io.Writer, caseName string, cols []*Collection) error {
	if _, err := fmt.Fprintf(w, "%s\n", caseName); err != nil {
		return err
	}
	var tab texttab.Table
	tab.Row().Cell("tag").Cell("variable").Cell("series").
		Cell("points", texttab.Right).Cell("min", texttab.Right).
		Cell("max", texttab.Right).Cell("geomean", texttab.Right)
	for _, c := range cols {
		for _, s := range c.Series {
			lo, hi := stats.Bounds(s.Mean)
			tab.Row().Cell(c.Name).Cell(c.VariableName).Cell(s.Name).
				Cell(strconv.Itoa(s.Len()), texttab.Right).
				Cell(nsof(lo), texttab.Right).
				Cell(nsof(hi), texttab.Right).
				Cell(nsof(stats.GeoMean(s.Mean)), texttab.Right)
		}
	}
	return tab.Format(w)
}

// nsof formats a time in nanoseconds with four significant digits.
func nsof(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "?"
	}
	return strconv.FormatFloat(x, 'g', 4, 64) + "ns"
}
