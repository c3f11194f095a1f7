// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// CSVHeader is the first record written by a CSVWriter.
var CSVHeader = []string{"case", "tag", "variable", "series", "x", "mean", "stddev", "mean_low", "mean_high"}

// A CSVWriter writes the points of collections as CSV, one record per
// point.
type CSVWriter struct {
	w      *csv.Writer
	header bool
}

// NewCSVWriter returns a CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Write writes every point of cols, collection by collection and
// series by series. The header is written before the first record.
// Points without a variable value have an empty x field, and points
// without confidence bounds empty mean_low and mean_high fields.
func (cw *CSVWriter) Write(cols []*Collection) error {
	if !cw.header {
		if err := cw.w.Write(CSVHeader); err != nil {
			return err
		}
		cw.header = true
	}
	for _, c := range cols {
		for _, s := range c.Series {
			for i := range s.X {
				rec := []string{c.Case, c.Name, c.VariableName, s.Name,
					strof(s.X[i]), strof(s.Mean[i]), strof(s.StdDev[i]),
					strof(s.MeanLow[i]), strof(s.MeanHigh[i])}
				if err := cw.w.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	cw.w.Flush()
	return cw.w.Error()
}

func strof(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
