// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// YLabel labels the y axis of every chart. Catch2 reports times in
// nanoseconds.
const YLabel = "time[ns]"

// placeholderX is where points of runs without a variable value are
// drawn.
const placeholderX = 0

// Image formats accepted in ChartOptions.Formats.
const (
	PNG = "png"
	SVG = "svg"
	PDF = "pdf"
)

// ChartOptions controls the size and format of the chart files. The
// zero value writes 6.4x4.8 inch PNGs at 100 dpi.
type ChartOptions struct {
	Formats []string
	Width   vg.Length
	Height  vg.Length
	DPI     int // PNG only
}

func (o ChartOptions) withDefaults() ChartOptions {
	if len(o.Formats) == 0 {
		o.Formats = []string{PNG}
	}
	if o.Width <= 0 {
		o.Width = 6.4 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 4.8 * vg.Inch
	}
	if o.DPI <= 0 {
		o.DPI = 100
	}
	return o
}

// CheckFormats returns an error if any format is not one of PNG, SVG
// or PDF.
func CheckFormats(formats []string) error {
	for _, f := range formats {
		switch f {
		case PNG, SVG, PDF:
		default:
			return errors.Errorf("unknown chart format %q", f)
		}
	}
	return nil
}

// ChartPath returns the file a chart for tag is written to. Tags may
// contain path separators, in which case the chart lands in a
// subdirectory of dir. The empty tag gives a file named ".<format>".
func ChartPath(dir, tag, format string) string {
	return filepath.Join(dir, tag+"."+format)
}

// errorPoints are the points of a Series with symmetric error bars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func (s *Series) points() errorPoints {
	pts := errorPoints{
		XYs:     make(plotter.XYs, s.Len()),
		YErrors: make(plotter.YErrors, s.Len()),
	}
	for i := range s.X {
		x := s.X[i]
		if math.IsNaN(x) {
			x = placeholderX
		}
		pts.XYs[i].X = x
		pts.XYs[i].Y = s.Mean[i]
		pts.YErrors[i].Low = s.StdDev[i]
		pts.YErrors[i].High = s.StdDev[i]
	}
	return pts
}

// Plot lays out the chart of c: one marker-only error-bar series per
// Series, labelled in the legend with its name.
func Plot(c *Collection) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Name
	p.X.Label.Text = c.VariableName
	p.Y.Label.Text = YLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range c.Series {
		pts := s.points()
		clr := plotutil.Color(i)

		bars, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "series %q", s.Name)
		}
		bars.LineStyle.Color = clr

		marks, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "series %q", s.Name)
		}
		marks.GlyphStyle = draw.GlyphStyle{
			Color:  clr,
			Radius: vg.Points(3),
			Shape:  draw.CircleGlyph{},
		}

		p.Add(bars, marks)
		p.Legend.Add(s.Name, marks)
	}
	return p, nil
}

// Chart renders each collection and writes it below dir in every
// requested format. It returns the paths of the files written, in
// order. Existing files are overwritten.
func Chart(cols []*Collection, dir string, opts ChartOptions) ([]string, error) {
	opts = opts.withDefaults()
	if err := CheckFormats(opts.Formats); err != nil {
		return nil, err
	}

	var written []string
	for _, c := range cols {
		p, err := Plot(c)
		if err != nil {
			return written, errors.Wrapf(err, "chart %q", c.Name)
		}
		for _, format := range opts.Formats {
			path := ChartPath(dir, c.Name, format)
			if err := save(p, path, format, opts); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func save(p *plot.Plot, path, format string, opts ChartOptions) error {
	var can vg.CanvasWriterTo
	switch format {
	case PNG:
		can = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height),
			vgimg.UseDPI(opts.DPI), vgimg.UseBackgroundColor(color.White))}
	case SVG:
		can = vgsvg.New(opts.Width, opts.Height)
	case PDF:
		can = vgpdf.New(opts.Width, opts.Height)
	}
	p.Draw(draw.New(can))

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
