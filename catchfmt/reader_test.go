// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catchfmt

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readString(t *testing.T, data string) ([]*Case, []string, error) {
	t.Helper()
	var warnings []string
	r := NewReader(strings.NewReader(data), "test")
	r.Warn = func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	cases, err := r.ReadAll()
	return cases, warnings, err
}

func TestReader(t *testing.T) {
	f, err := os.Open("testdata/string.xml")
	require.NoError(t, err)
	defer f.Close()

	var warnings []string
	r := NewReader(f, "string.xml")
	r.Warn = func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	cases, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, cases, 3)

	c := cases[0]
	assert.Equal(t, "string - benchmark", c.Name)
	require.Len(t, c.Runs, 3, "runs inside sections are not part of the case")

	run := c.Runs[0]
	assert.Equal(t, "std::u8string", run.Name)
	assert.Equal(t, "construct from char8_t*", run.Tag)
	assert.Equal(t, "size", run.VariableName)
	assert.Equal(t, 16.0, run.VariableValue)
	assert.Equal(t, 52.5, run.Mean)
	assert.Equal(t, 3.1, run.StdDev)
	assert.Equal(t, 51.9, run.MeanLow)
	assert.Equal(t, 53.4, run.MeanHigh)
	assert.Equal(t, 100, run.Samples)
	assert.Equal(t, 1, run.Iterations)
	assert.Equal(t, 4, run.line)

	assert.Equal(t, "vx::String", c.Runs[1].Name)
	assert.Equal(t, 40.0, c.Runs[1].Mean)
	assert.Equal(t, 256.0, c.Runs[2].VariableValue)
	assert.True(t, math.IsNaN(c.Runs[2].MeanLow))
	assert.Equal(t, 0, c.Runs[2].Samples)

	assert.Equal(t, "empty", cases[1].Name)
	assert.Empty(t, cases[1].Runs)

	run = cases[2].Runs[0]
	assert.Equal(t, "copy", run.Name)
	assert.Equal(t, "", run.Tag)
	assert.False(t, run.HasValue())

	require.Len(t, warnings, 1)
	assert.Equal(t, `string.xml:31: benchmark variable "bytes" has no value`, warnings[0])
}

func TestReaderRoundTrip(t *testing.T) {
	cases, warnings, err := readString(t, `<Catch><TestCase name="Suite">
<BenchmarkResults name="Op - n=10 [fast]"><mean value="5.0"/><standardDeviation value="0.1"/></BenchmarkResults>
</TestCase></Catch>`)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, cases, 1)
	assert.Equal(t, "Suite", cases[0].Name)
	require.Len(t, cases[0].Runs, 1)
	run := cases[0].Runs[0]
	assert.Equal(t, "Op", run.Name)
	assert.Equal(t, "fast", run.Tag)
	assert.Equal(t, "n", run.VariableName)
	assert.Equal(t, 10.0, run.VariableValue)
	assert.Equal(t, 5.0, run.Mean)
	assert.Equal(t, 0.1, run.StdDev)
}

func TestReaderBadCounts(t *testing.T) {
	cases, warnings, err := readString(t, `<Catch><TestCase name="c">
<BenchmarkResults name="Op" samples="many" iterations="3"><mean value="1"/><standardDeviation value="1"/></BenchmarkResults>
</TestCase></Catch>`)
	require.NoError(t, err)
	run := cases[0].Runs[0]
	assert.Equal(t, 0, run.Samples)
	assert.Equal(t, 3, run.Iterations)
	assert.Equal(t, []string{`test:2: benchmark "Op": bad samples attribute "many"`}, warnings)
}

func TestReaderEmptyRoot(t *testing.T) {
	cases, _, err := readString(t, `<?xml version="1.0"?><Catch2TestRun/>`)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestReaderErrors(t *testing.T) {
	for _, test := range []struct {
		name, data, want string
	}{
		{"empty", ``, "test:1: no root element"},
		{"missing mean", `<Catch><TestCase name="c">
<BenchmarkResults name="Op"><standardDeviation value="1"/></BenchmarkResults></TestCase></Catch>`,
			`test:2: benchmark "Op": missing <mean>`},
		{"missing deviation", `<Catch><TestCase name="c">
<BenchmarkResults name="Op"><mean value="1"/></BenchmarkResults></TestCase></Catch>`,
			`test:2: benchmark "Op": missing <standardDeviation>`},
		{"missing value", `<Catch><TestCase name="c">
<BenchmarkResults name="Op"><mean/><standardDeviation value="1"/></BenchmarkResults></TestCase></Catch>`,
			`test:2: benchmark "Op": <mean>: missing value attribute`},
		{"bad value", `<Catch><TestCase name="c">
<BenchmarkResults name="Op"><mean value="fast"/><standardDeviation value="1"/></BenchmarkResults></TestCase></Catch>`,
			`test:2: benchmark "Op": <mean>: bad value "fast"`},
		{"bad variable", `<Catch><TestCase name="c">
<BenchmarkResults name="Op - n=x"><mean value="1"/><standardDeviation value="1"/></BenchmarkResults></TestCase></Catch>`,
			`test:2: benchmark "Op - n=x": variable n: bad value "x"`},
		{"no name", `<Catch><TestCase name="c">
<BenchmarkResults><mean value="1"/><standardDeviation value="1"/></BenchmarkResults></TestCase></Catch>`,
			`test:2: <BenchmarkResults> has no name attribute`},
		{"truncated", `<Catch><TestCase name="c">`, "test:1: unexpected EOF"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := readString(t, test.data)
			require.Error(t, err)
			assert.Equal(t, test.want, err.Error())
		})
	}
}

func TestReaderMalformed(t *testing.T) {
	_, _, err := readString(t, `<Catch><TestCase name="c"></Case></Catch>`)
	require.Error(t, err)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "test", serr.FileName)
	assert.Equal(t, 1, serr.Line)
}
