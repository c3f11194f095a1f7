// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Catchplot runs a Catch2 benchmark executable and charts its results.
//
// Usage:
//
//	catchplot [flags] <test_executable_path> <output_dir>
//
// The executable is run with --reporter=XML. For every test case, the
// benchmark runs are grouped by the tag in their name, "[tag]", and
// each group is drawn as one chart, <output_dir>/<tag>.png. Within a
// chart there is one series per benchmark name, plotted against the
// variable given after the last " - " in the name, as in
//
//	[construct] std::string - size=16
//
// Each point is the mean time in nanoseconds with an error bar of one
// standard deviation.
//
// Flags may also be given in catchplot.yaml in the current directory
// (or the file named by --config) or in CATCHPLOT_* environment
// variables, for example CATCHPLOT_DB_DRIVER=mysql.
//
// The --db flag records every parsed run in a SQL database. A recorded
// invocation can be charted again later with --replay, which skips
// running the executable; --replay=-1 selects the latest invocation.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	"github.com/voxlet/catchplot/benchseries"
	"github.com/voxlet/catchplot/catchfmt"
	"github.com/voxlet/catchplot/history"
	_ "github.com/voxlet/catchplot/history/sqlite3"
)

var exit = os.Exit

// stdin is read by --input=-.
var stdin io.Reader = os.Stdin

func main() {
	exit(catchplot(os.Args[1:], os.Stdout, os.Stderr))
}

// config holds the settings merged from flags, the config file and
// the environment.
type config struct {
	Input    string   `mapstructure:"input"`
	Formats  []string `mapstructure:"format"`
	Width    float64  `mapstructure:"width"`  // inches
	Height   float64  `mapstructure:"height"` // inches
	DPI      int      `mapstructure:"dpi"`
	CSV      string   `mapstructure:"csv"`
	Summary  bool     `mapstructure:"summary"`
	DBDriver string   `mapstructure:"db-driver"`
	DB       string   `mapstructure:"db"`
	Replay   int64    `mapstructure:"replay"`
	Verbose  bool     `mapstructure:"verbose"`
}

// A usageError is reported together with the command usage.
type usageError struct{ error }

// catchplot runs the command line args and returns the exit status.
func catchplot(args []string, stdout, stderr io.Writer) int {
	configureLogging(stdout)

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(stderr, "Error: %v\n%s", uerr.error, cmd.UsageString())
			return 1
		}
		fmt.Fprintf(stderr, "catchplot: %v\n", err)
		return 1
	}
	return 0
}

// configureLogging sends log output to w, normally stdout. Warnings
// about the report are part of the tool's regular output.
func configureLogging(w io.Writer) {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetOutput(w)
	log.SetLevel(log.InfoLevel)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "catchplot [flags] <test_executable_path> <output_dir>",
		Short: "Chart the benchmark results of a Catch2 executable",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "binding flags")
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.CSV == "-" {
				// Keep the CSV on stdout free of log lines.
				log.SetOutput(stderr)
			}
			if cfg.Verbose {
				log.SetLevel(log.DebugLevel)
			}
			return run(cmd.Context(), cfg, args[0], args[1], stdout)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	addFlags(cmd.Flags())
	return cmd
}

func addFlags(f *pflag.FlagSet) {
	f.String("config", "", "read settings from `file` (default ./catchplot.yaml)")
	f.String("input", "", "read the XML report from `file` instead of running the executable (- for stdin)")
	f.StringSlice("format", []string{benchseries.PNG}, "chart `formats`: png, svg or pdf")
	f.Float64("width", 6.4, "chart width in `inches`")
	f.Float64("height", 4.8, "chart height in `inches`")
	f.Int("dpi", 100, "PNG resolution in dots per inch")
	f.String("csv", "", "also write all points as CSV to `file` (- for stdout)")
	f.Bool("summary", false, "print a summary table per case")
	f.String("db-driver", "sqlite3", "history database `driver`: sqlite3 or mysql")
	f.String("db", "", "record runs in the history database at `dsn`")
	f.Int64("replay", 0, "chart recorded invocation `id` instead of running the executable (-1 for the latest)")
	f.BoolP("verbose", "v", false, "enable debug logging")
}

// loadConfig merges the config file and CATCHPLOT_* environment
// variables into the flag values bound to v.
func loadConfig(v *viper.Viper) (*config, error) {
	v.SetEnvPrefix("CATCHPLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("catchplot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config")
		}
	} else {
		log.Debugf("using config file %s", v.ConfigFileUsed())
	}

	cfg := new(config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}

// run charts every case of the benchmark report selected by cfg below
// outDir.
func run(ctx context.Context, cfg *config, exe, outDir string, stdout io.Writer) (err error) {
	opts := benchseries.ChartOptions{
		Formats: cfg.Formats,
		Width:   vg.Length(cfg.Width) * vg.Inch,
		Height:  vg.Length(cfg.Height) * vg.Inch,
		DPI:     cfg.DPI,
	}
	if err := benchseries.CheckFormats(opts.Formats); err != nil {
		return err
	}

	var db *history.DB
	if cfg.DB != "" {
		db, err = history.OpenSQL(cfg.DBDriver, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	cases, err := readCases(ctx, cfg, exe, db)
	if err != nil {
		return err
	}
	if db != nil && cfg.Replay == 0 {
		if err := record(ctx, db, source(cfg, exe), cases); err != nil {
			return err
		}
	}

	var csvw *benchseries.CSVWriter
	if cfg.CSV != "" {
		w, werr := create(cfg.CSV, stdout)
		if werr != nil {
			return werr
		}
		defer func() {
			if cerr := w.Close(); err == nil {
				err = errors.Wrapf(cerr, "closing %s", cfg.CSV)
			}
		}()
		csvw = benchseries.NewCSVWriter(w)
	}

	for _, c := range cases {
		b := &benchseries.Builder{Case: c.Name, Warn: log.Warnf}
		for _, r := range c.Runs {
			b.Add(r)
		}
		cols := b.Collections()

		paths, err := benchseries.Chart(cols, outDir, opts)
		for _, path := range paths {
			log.Debugf("wrote %s", path)
		}
		if err != nil {
			return errors.Wrapf(err, "case %q", c.Name)
		}
		if csvw != nil {
			if err := csvw.Write(cols); err != nil {
				return errors.Wrapf(err, "writing %s", cfg.CSV)
			}
		}
		if cfg.Summary {
			if err := benchseries.WriteSummary(stdout, c.Name, cols); err != nil {
				return err
			}
		}
	}
	return nil
}

// source names where the report comes from.
func source(cfg *config, exe string) string {
	switch cfg.Input {
	case "":
		return exe
	case "-":
		return "<stdin>"
	}
	return cfg.Input
}

// readCases returns the cases of a recorded invocation when replaying,
// or else parses the report read from --input or produced by exe.
func readCases(ctx context.Context, cfg *config, exe string, db *history.DB) ([]*catchfmt.Case, error) {
	if cfg.Replay != 0 {
		if db == nil {
			return nil, usageError{errors.New("--replay requires --db")}
		}
		if cfg.Input != "" {
			return nil, usageError{errors.New("--replay and --input cannot be used together")}
		}
		id := cfg.Replay
		if id < 0 {
			var err error
			if id, err = db.LatestInvocation(ctx); err != nil {
				return nil, err
			}
			if id == 0 {
				return nil, errors.New("no invocations recorded")
			}
		}
		log.Debugf("replaying invocation %d", id)
		return db.Cases(ctx, id)
	}

	var (
		data []byte
		err  error
	)
	switch cfg.Input {
	case "":
		log.Debugf("running %s %s", exe, catchfmt.ReporterFlag)
		data, err = catchfmt.Exec(ctx, exe, nil)
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(cfg.Input)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r := catchfmt.NewReader(bytes.NewReader(data), filepath.Base(source(cfg, exe)))
	r.Warn = log.Warnf
	return r.ReadAll()
}

func record(ctx context.Context, db *history.DB, source string, cases []*catchfmt.Case) error {
	inv, err := db.NewInvocation(ctx, source)
	if err != nil {
		return err
	}
	for _, c := range cases {
		if err := inv.InsertCase(ctx, c); err != nil {
			return err
		}
	}
	log.Infof("recorded invocation %d", inv.ID)
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// create opens path for writing, or returns stdout for "-".
func create(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return f, nil
}
