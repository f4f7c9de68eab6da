// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// maxErrors is the non-fatal error count at which assembly aborts.
const maxErrors = 8

// AsmError is a single non-fatal diagnostic: a per-line message
// attributable to a specific file and line number.
type AsmError struct {
	File string
	Line int
	Msg  string
}

func (e *AsmError) Error() string {
	return fmt.Sprintf("eonasm error at line %d of %s: %s", e.Line, e.File, e.Msg)
}

// FatalError reports an unrecoverable condition: I/O failure, output
// file open failure, symbol table overflow, a too-long line, or the
// non-fatal error count reaching maxErrors.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

// diagReporter accumulates non-fatal errors during assembly and emits
// them (and, when verbose, per-pass progress) to an output stream.
// It plays the role the teacher's asmerror slice and a.log/a.logLine
// verbose helpers play, generalized to eon's multi-pass driver and
// colorized for a terminal.
type diagReporter struct {
	w       io.Writer
	verbose bool
	errors  []*AsmError
	errColor  *color.Color
	warnColor *color.Color
	noteColor *color.Color
}

func newDiagReporter(w io.Writer, verbose bool) *diagReporter {
	return &diagReporter{
		w:         w,
		verbose:   verbose,
		errColor:  color.New(color.FgRed),
		warnColor: color.New(color.FgYellow),
		noteColor: color.New(color.FgCyan),
	}
}

// report records a non-fatal diagnostic and writes it immediately.
// It returns a *FatalError once the error count reaches maxErrors.
func (d *diagReporter) report(file string, line int, format string, args ...any) error {
	e := &AsmError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
	d.errors = append(d.errors, e)
	d.errColor.Fprintln(d.w, e.Error())
	if len(d.errors) >= maxErrors {
		return &FatalError{Msg: fmt.Sprintf("too many errors (%d), aborting", len(d.errors))}
	}
	return nil
}

func (d *diagReporter) count() int {
	return len(d.errors)
}

// warnUnused reports a label that was never referenced, for the -u
// flag's end-of-run report.
func (d *diagReporter) warnUnused(name string) {
	d.warnColor.Fprintf(d.w, "warning: label %s is never used\n", name)
}

// pass prints per-pass progress when verbose logging is enabled.
func (d *diagReporter) pass(n int, final bool) {
	if !d.verbose {
		return
	}
	if final {
		d.noteColor.Fprintf(d.w, "eonasm: pass %d (final)\n", n)
	} else {
		d.noteColor.Fprintf(d.w, "eonasm: pass %d\n", n)
	}
}

// logBytes prints the bytes emitted for one line when verbose logging
// is enabled.
func (d *diagReporter) logBytes(addr int32, b []byte) {
	if !d.verbose || len(b) == 0 {
		return
	}
	d.noteColor.Fprintf(d.w, "%04X: %s\n", addr, byteString(b))
}
