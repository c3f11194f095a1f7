// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catchfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Name is a benchmark run name split into its parts.
type Name struct {
	Base     string  // run name without tag and variable clause
	Tag      string  // trimmed contents of the [...] annotation
	Variable string  // variable name, or ""
	Value    float64 // variable value, or NaN
}

// variableSep separates the run name from its variable clause.
const variableSep = " - "

// ParseName splits a raw BenchmarkResults name into its parts.
//
// The tag is everything between the first '[' and the last ']' after
// it. It is removed from the name before the variable clause is
// looked up at the last " - ". A variable clause without '=' is not an
// error: warn is called and the variable fields stay empty. warn may
// be nil.
func ParseName(raw string, warn func(format string, args ...interface{})) (Name, error) {
	n := Name{Value: math.NaN()}

	s := raw
	if i := strings.IndexByte(s, '['); i >= 0 {
		if j := strings.LastIndexByte(s, ']'); j > i {
			n.Tag = strings.TrimSpace(s[i+1 : j])
			s = s[:i] + s[j+1:]
		}
	}

	i := strings.LastIndex(s, variableSep)
	if i < 0 {
		n.Base = strings.TrimSpace(s)
		return n, nil
	}
	n.Base = strings.TrimSpace(s[:i])
	clause := s[i+len(variableSep):]

	eq := strings.IndexByte(clause, '=')
	if eq < 0 {
		if warn != nil {
			warn("benchmark variable %q has no value", clause)
		}
		return n, nil
	}
	n.Variable = strings.TrimSpace(clause[:eq])
	val := strings.TrimSpace(clause[eq+1:])
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return n, errors.Errorf("variable %s: bad value %q", n.Variable, val)
	}
	n.Value = v
	return n, nil
}
