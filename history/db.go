// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package history records parsed benchmark cases in a SQL database so
// that charts can be regenerated later without rerunning the
// benchmarks.
package history

import (
	"bytes"
	"context"
	"database/sql"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/voxlet/catchplot/catchfmt"
)

// DB is a high-level interface to a history database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertInvocation *sql.Stmt
	insertCase       *sql.Stmt
	insertRun        *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driverName)
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Invocations (
	InvocationID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Source VARCHAR(1024),
	Created {{if .sqlite3}}TIMESTAMP{{else}}DATETIME{{end}}
);
CREATE TABLE IF NOT EXISTS Cases (
	InvocationID BIGINT UNSIGNED,
	CaseID BIGINT UNSIGNED,
	Name VARCHAR(1024),
	PRIMARY KEY (InvocationID, CaseID),
	FOREIGN KEY (InvocationID) REFERENCES Invocations(InvocationID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Runs (
	InvocationID BIGINT UNSIGNED,
	CaseID BIGINT UNSIGNED,
	RunID BIGINT UNSIGNED,
	Name VARCHAR(1024),
	Tag VARCHAR(1024),
	VariableName VARCHAR(255),
	VariableValue DOUBLE,
	Mean DOUBLE,
	StdDev DOUBLE,
	MeanLow DOUBLE,
	MeanHigh DOUBLE,
	Samples INTEGER,
	Iterations INTEGER,
{{if not .sqlite3}}
	Index (Tag(100), Name(100)),
{{end}}
	PRIMARY KEY (InvocationID, CaseID, RunID),
	FOREIGN KEY (InvocationID, CaseID) REFERENCES Cases(InvocationID, CaseID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RunsTagName ON Runs(Tag, Name);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertInvocation, err = db.sql.Prepare("INSERT INTO Invocations(Source, Created) VALUES (?, ?)")
	if err != nil {
		return errors.WithStack(err)
	}
	db.insertCase, err = db.sql.Prepare("INSERT INTO Cases(InvocationID, CaseID, Name) VALUES (?, ?, ?)")
	if err != nil {
		return errors.WithStack(err)
	}
	db.insertRun, err = db.sql.Prepare(`INSERT INTO Runs(InvocationID, CaseID, RunID, Name, Tag,
		VariableName, VariableValue, Mean, StdDev, MeanLow, MeanHigh, Samples, Iterations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	return errors.WithStack(err)
}

// now is overridden by tests.
var now = time.Now

// An Invocation is one execution of a benchmark executable. All cases
// inserted through it share its ID.
type Invocation struct {
	ID      int64
	Created time.Time

	// caseID is the index of the next case to insert.
	caseID int64
	db     *DB
}

// NewInvocation records a new invocation of source, usually the path
// of the benchmark executable or report file.
func (db *DB) NewInvocation(ctx context.Context, source string) (*Invocation, error) {
	created := now().UTC().Truncate(time.Second)
	res, err := db.insertInvocation.ExecContext(ctx, source, created)
	if err != nil {
		return nil, errors.Wrap(err, "insert invocation")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Invocation{ID: id, Created: created, db: db}, nil
}

// InsertCase inserts c and all of its runs in a single transaction.
func (inv *Invocation) InsertCase(ctx context.Context, c *catchfmt.Case) (err error) {
	tx, err := inv.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = errors.WithStack(tx.Commit())
		}
	}()

	if _, err = tx.StmtContext(ctx, inv.db.insertCase).ExecContext(ctx, inv.ID, inv.caseID, c.Name); err != nil {
		return errors.Wrapf(err, "insert case %q", c.Name)
	}
	insertRun := tx.StmtContext(ctx, inv.db.insertRun)
	for i, r := range c.Runs {
		value := sql.NullFloat64{Float64: r.VariableValue, Valid: r.HasValue()}
		if _, err = insertRun.ExecContext(ctx, inv.ID, inv.caseID, i, r.Name, r.Tag,
			r.VariableName, value, r.Mean, r.StdDev, nullable(r.MeanLow), nullable(r.MeanHigh),
			r.Samples, r.Iterations); err != nil {
			return errors.Wrapf(err, "insert run %q", r.Name)
		}
	}
	inv.caseID++
	return nil
}

// nullable maps NaN to NULL.
func nullable(x float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: x, Valid: !math.IsNaN(x)}
}

// floatOrNaN maps NULL to NaN.
func floatOrNaN(x sql.NullFloat64) float64 {
	if !x.Valid {
		return math.NaN()
	}
	return x.Float64
}

// Cases returns the cases recorded by invocation id, with their runs,
// in the order they were inserted. An invocation whose report held no
// cases yields an empty list.
func (db *DB) Cases(ctx context.Context, id int64) ([]*catchfmt.Case, error) {
	var n int
	if err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Invocations WHERE InvocationID = ?", id).Scan(&n); err != nil {
		return nil, errors.WithStack(err)
	}
	if n == 0 {
		return nil, errors.Errorf("unknown invocation %d", id)
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT Name FROM Cases WHERE InvocationID = ? ORDER BY CaseID", id)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cases := []*catchfmt.Case{}
	for rows.Next() {
		c := new(catchfmt.Case)
		if err := rows.Scan(&c.Name); err != nil {
			rows.Close()
			return nil, errors.WithStack(err)
		}
		cases = append(cases, c)
	}
	if err := rows.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	rows, err = db.sql.QueryContext(ctx, `SELECT CaseID, Name, Tag, VariableName, VariableValue,
		Mean, StdDev, MeanLow, MeanHigh, Samples, Iterations
		FROM Runs WHERE InvocationID = ? ORDER BY CaseID, RunID`, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			caseID        int
			value, lo, hi sql.NullFloat64
		)
		r := new(catchfmt.Run)
		if err := rows.Scan(&caseID, &r.Name, &r.Tag, &r.VariableName, &value,
			&r.Mean, &r.StdDev, &lo, &hi, &r.Samples, &r.Iterations); err != nil {
			return nil, errors.WithStack(err)
		}
		r.VariableValue = floatOrNaN(value)
		r.MeanLow = floatOrNaN(lo)
		r.MeanHigh = floatOrNaN(hi)
		if caseID < 0 || caseID >= len(cases) {
			return nil, errors.Errorf("invocation %d: run refers to unknown case %d", id, caseID)
		}
		cases[caseID].Runs = append(cases[caseID].Runs, r)
	}
	return cases, errors.WithStack(rows.Err())
}

// LatestInvocation returns the ID of the most recent invocation, or 0
// if there is none.
func (db *DB) LatestInvocation(ctx context.Context) (int64, error) {
	var id sql.NullInt64
	err := db.sql.QueryRowContext(ctx, "SELECT MAX(InvocationID) FROM Invocations").Scan(&id)
	return id.Int64, errors.WithStack(err)
}

// CountInvocations returns the number of recorded invocations.
func (db *DB) CountInvocations(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Invocations").Scan(&n)
	return n, errors.WithStack(err)
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertInvocation, db.insertCase, db.insertRun} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
