// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ReportLevel controls how much of the iteration trace is emitted.
type ReportLevel int

const (
	// ReportNone no trace output.
	ReportNone ReportLevel = iota
	// ReportPerSolve one line per solve.
	ReportPerSolve
	// ReportPerIteration one line per outer iteration.
	ReportPerIteration
	// ReportPerInnerIteration one line per inner iteration of the
	// direction computation.
	ReportPerInnerIteration
)

// Reporter buffers the fixed-width iteration trace and carries a structured
// logger for diagnostics. The direction computation flushes the buffer once
// per inner iteration.
type Reporter struct {
	level ReportLevel
	buf   *bufio.Writer
	log   zerolog.Logger
}

// NewReporter creates a reporter writing the trace to w at the given level.
// A nil writer discards the trace.
func NewReporter(w io.Writer, level ReportLevel, log zerolog.Logger) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{level: level, buf: bufio.NewWriter(w), log: log}
}

// Level returns the configured trace level.
func (r *Reporter) Level() ReportLevel { return r.level }

// Printf appends a formatted fragment to the trace when the configured level
// includes the given one.
func (r *Reporter) Printf(level ReportLevel, format string, args ...any) {
	if r.level < level {
		return
	}
	if len(args) > 0 {
		_, _ = fmt.Fprintf(r.buf, format, args...)
	} else {
		_, _ = io.WriteString(r.buf, format)
	}
}

// Flush writes out any buffered trace output.
func (r *Reporter) Flush() {
	_ = r.buf.Flush()
}

// Log exposes the diagnostics logger.
func (r *Reporter) Log() *zerolog.Logger { return &r.log }
