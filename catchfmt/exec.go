// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catchfmt

import (
	"context"
	"io"
	"os/exec"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ReporterFlag selects the XML reporter of a Catch2 executable.
const ReporterFlag = "--reporter=XML"

// Exec runs the Catch2 executable at path with the XML reporter and
// returns its standard output. The child's standard error is copied to
// stderr, which may be nil to discard it.
//
// Catch2 exits with a non-zero status when tests fail, but the report
// is still complete, so the exit status is not treated as an error.
// Only a failure to start or wait for the process is.
func Exec(ctx context.Context, path string, stderr io.Writer) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, ReporterFlag)
	if stderr == nil {
		stderr = io.Discard
	}
	cmd.Stderr = stderr
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Debugf("%s %s: %v", path, ReporterFlag, err)
		return out, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "running %s", path)
	}
	return out, nil
}
