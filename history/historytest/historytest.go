// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package historytest provides in-memory history databases for tests.
package historytest

import (
	"context"
	"testing"

	"github.com/voxlet/catchplot/history"
	_ "github.com/voxlet/catchplot/history/sqlite3"
)

// NewDB returns an empty in-memory SQLite history database that is
// closed when the test finishes.
func NewDB(t testing.TB) *history.DB {
	t.Helper()
	d, err := history.OpenSQL("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	n, err := d.CountInvocations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("found %d row(s) in Invocations, want 0", n)
	}
	return d
}
