// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catchfmt

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// A Reader reads a Catch2 XML report.
//
// Only TestCase elements directly below the root and BenchmarkResults
// elements directly below a TestCase are considered. Everything else
// (sections, assertions, the overall summary) is skipped.
type Reader struct {
	d        *xml.Decoder
	fileName string

	// Warn is called for recoverable problems in the report, such as
	// a variable clause without a value. If nil, warnings are logged
	// through the standard logrus logger.
	Warn func(format string, args ...interface{})
}

// A SyntaxError reports a report that does not match the expected
// schema at a particular line.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// NewReader constructs a Reader for the report in r. fileName is used
// in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &Reader{d: xml.NewDecoder(r), fileName: fileName}
}

func (r *Reader) newSyntaxError(format string, args ...interface{}) *SyntaxError {
	line, _ := r.d.InputPos()
	return &SyntaxError{r.fileName, line, fmt.Sprintf(format, args...)}
}

func (r *Reader) warn(format string, args ...interface{}) {
	line, _ := r.d.InputPos()
	r.warnAt(line, format, args...)
}

func (r *Reader) warnAt(line int, format string, args ...interface{}) {
	msg := fmt.Sprintf("%s:%d: %s", r.fileName, line, fmt.Sprintf(format, args...))
	if r.Warn != nil {
		r.Warn("%s", msg)
		return
	}
	log.Warn(msg)
}

// ReadAll reads the whole report and returns its cases in document
// order.
func (r *Reader) ReadAll() ([]*Case, error) {
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	cases := []*Case{}
	for {
		tok, err := r.d.Token()
		if err != nil {
			return nil, r.tokenError(err, root.Name.Local)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if tok.Name.Local != "TestCase" {
				if err := r.d.Skip(); err != nil {
					return nil, r.tokenError(err, tok.Name.Local)
				}
				continue
			}
			c, err := r.readCase(tok)
			if err != nil {
				return nil, err
			}
			cases = append(cases, c)
		case xml.EndElement:
			return cases, nil
		}
	}
}

// root advances to the document element.
func (r *Reader) root() (xml.StartElement, error) {
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return xml.StartElement{}, r.newSyntaxError("no root element")
		} else if err != nil {
			return xml.StartElement{}, r.tokenError(err, "")
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func (r *Reader) tokenError(err error, elem string) error {
	if err == io.EOF {
		return r.newSyntaxError("unexpected end of report inside <%s>", elem)
	}
	if serr, ok := err.(*xml.SyntaxError); ok {
		return &SyntaxError{r.fileName, serr.Line, serr.Msg}
	}
	return errors.Wrapf(err, "reading %s", r.fileName)
}

func (r *Reader) readCase(start xml.StartElement) (*Case, error) {
	c := &Case{Name: attr(start, "name")}
	for {
		tok, err := r.d.Token()
		if err != nil {
			return nil, r.tokenError(err, start.Name.Local)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if tok.Name.Local != "BenchmarkResults" {
				if err := r.d.Skip(); err != nil {
					return nil, r.tokenError(err, tok.Name.Local)
				}
				continue
			}
			run, err := r.readRun(tok)
			if err != nil {
				return nil, err
			}
			c.Runs = append(c.Runs, run)
		case xml.EndElement:
			return c, nil
		}
	}
}

// xmlResults is the body of a BenchmarkResults element.
type xmlResults struct {
	Mean   *xmlEstimate `xml:"mean"`
	StdDev *xmlEstimate `xml:"standardDeviation"`
}

type xmlEstimate struct {
	Value      *string `xml:"value,attr"`
	LowerBound *string `xml:"lowerBound,attr"`
	UpperBound *string `xml:"upperBound,attr"`
}

func (r *Reader) readRun(start xml.StartElement) (*Run, error) {
	line, _ := r.d.InputPos()

	raw, ok := lookupAttr(start, "name")
	if !ok {
		return nil, r.newSyntaxError("<BenchmarkResults> has no name attribute")
	}
	name, err := ParseName(raw, r.warn)
	if err != nil {
		return nil, r.newSyntaxError("benchmark %q: %v", raw, err)
	}

	var body xmlResults
	if err := r.d.DecodeElement(&body, &start); err != nil {
		return nil, r.tokenError(err, start.Name.Local)
	}

	run := &Run{
		Name:          name.Base,
		Tag:           name.Tag,
		VariableName:  name.Variable,
		VariableValue: name.Value,
		MeanLow:       math.NaN(),
		MeanHigh:      math.NaN(),
		line:          line,
	}
	run.Samples = r.intAttr(start, "samples", raw, line)
	run.Iterations = r.intAttr(start, "iterations", raw, line)

	errorAt := func(format string, args ...interface{}) error {
		return &SyntaxError{r.fileName, line, fmt.Sprintf("benchmark %q: ", raw) + fmt.Sprintf(format, args...)}
	}
	if body.Mean == nil {
		return nil, errorAt("missing <mean>")
	}
	if run.Mean, err = parseValue(body.Mean.Value); err != nil {
		return nil, errorAt("<mean>: %v", err)
	}
	if body.StdDev == nil {
		return nil, errorAt("missing <standardDeviation>")
	}
	if run.StdDev, err = parseValue(body.StdDev.Value); err != nil {
		return nil, errorAt("<standardDeviation>: %v", err)
	}
	if body.Mean.LowerBound != nil && body.Mean.UpperBound != nil {
		lo, err1 := strconv.ParseFloat(*body.Mean.LowerBound, 64)
		hi, err2 := strconv.ParseFloat(*body.Mean.UpperBound, 64)
		if err1 == nil && err2 == nil {
			run.MeanLow, run.MeanHigh = lo, hi
		}
	}
	return run, nil
}

// intAttr returns the integer attribute name of start, or 0 if it is
// absent or malformed. Malformed values are warned about.
func (r *Reader) intAttr(start xml.StartElement, name, bench string, line int) int {
	v, ok := lookupAttr(start, name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.warnAt(line, "benchmark %q: bad %s attribute %q", bench, name, v)
		return 0
	}
	return n
}

func parseValue(v *string) (float64, error) {
	if v == nil {
		return 0, errors.New("missing value attribute")
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return 0, errors.Errorf("bad value %q", *v)
	}
	return f, nil
}

func lookupAttr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attr(start xml.StartElement, name string) string {
	v, _ := lookupAttr(start, name)
	return v
}
