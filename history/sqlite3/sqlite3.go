// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 links the sqlite3 driver into the history package.
// Import it for its side effects.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/voxlet/catchplot/history"
)

func init() {
	history.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// A single connection keeps ":memory:" databases alive and
		// the pragma below in effect.
		db.SetMaxOpenConns(1)
		_, err := db.Exec("PRAGMA foreign_keys = ON")
		return err
	})
}
