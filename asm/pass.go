// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass assembler for the eon CPU. It
// resolves labels to a fixpoint, then performs one final pass that
// emits an Intel HEX image (via the hexfmt package) and, optionally,
// a listing.
package asm

import (
	"fmt"
	"io"

	"github.com/elgron-eon/eonasm/hexfmt"
)

// maxPasses bounds the label-resolution fixpoint. The source this
// assembler's semantics are drawn from has no explicit bound; eight
// passes is generous for any source whose label values are not
// pathologically self-referential, and non-convergence is reported
// rather than looping forever.
const maxPasses = 8

// Source is one assembler input file: its name (for diagnostics) and
// its lines of text.
type Source struct {
	Name  string
	Lines []string
}

// Options configures one assembler run.
type Options struct {
	Listing   bool // -l: print a listing of the final pass
	Unused    bool // -u: report labels that are never referenced
	Verbose   bool // -v: print per-pass progress
	MaxPasses int  // 0 selects maxPasses
}

// Result is the outcome of a successful (possibly with accumulated
// non-fatal errors) assembler run.
type Result struct {
	Hex      []byte // Intel HEX text
	Listing  []byte // listing text, nil unless Options.Listing
	Errors   int    // accumulated non-fatal error count
	Passes   int    // number of passes actually run
}

// assembler is the per-invocation state threaded through the call
// graph for the lifetime of one Assemble call: symbol table, PC,
// main-label scope, and the emission sinks. Nothing here survives
// across invocations.
type assembler struct {
	opts Options
	sym  *symtab
	diag *diagReporter

	pc        int32
	main      *label
	pass      int
	final     bool
	allowUndef bool
	moreNeeded bool

	emitter *hexfmt.Emitter
	listing *listingWriter
}

// Assemble runs the full fixpoint pass driver over sources and
// returns the Intel HEX output (plus an optional listing and the
// accumulated non-fatal error count). A non-nil error is always a
// *FatalError.
func Assemble(sources []Source, opts Options, diagOut io.Writer) (*Result, error) {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = maxPasses
	}

	a := &assembler{
		opts: opts,
		sym:  newSymtab(),
		diag: newDiagReporter(diagOut, opts.Verbose),
	}

	last := false
	for pass := 0; ; pass++ {
		if pass >= opts.MaxPasses {
			return nil, &FatalError{Msg: fmt.Sprintf("label values did not converge after %d passes", opts.MaxPasses)}
		}

		a.pass = pass
		a.final = last
		a.allowUndef = !last
		a.moreNeeded = false
		a.pc = 0
		a.diag.pass(pass, last)

		if last {
			a.emitter = hexfmt.NewEmitter()
			if opts.Listing {
				a.listing = newListingWriter()
			}
		}

		for fi, src := range sources {
			a.main = nil // the main label resets on every file, every pass
			for li, text := range src.Lines {
				if err := a.processLine(fi, src.Name, li+1, text); err != nil {
					return nil, err
				}
			}
		}

		if last {
			break
		}
		if !a.moreNeeded {
			last = true
		}
	}

	hexOut := a.emitter.Finish()

	if opts.Unused {
		a.reportUnused()
	}

	result := &Result{
		Hex:    hexOut,
		Errors: a.diag.count(),
		Passes: a.pass + 1,
	}
	if a.listing != nil {
		result.Listing = a.listing.bytes()
	}
	return result, nil
}

func (a *assembler) reportUnused() {
	for _, g := range a.sym.globals() {
		if !g.used() {
			a.diag.warnUnused(g.name)
		}
		for _, l := range a.sym.localsOf(&g) {
			if !l.used() {
				a.diag.warnUnused(g.name + "." + l.name)
			}
		}
	}
}

// emit hands bytes to the HEX emitter (final pass only) and records a
// listing entry (when requested), then advances the PC.
func (a *assembler) emit(addr int32, bytes []byte, lineNo int, text string) {
	if a.final {
		for i, b := range bytes {
			a.emitter.EmitByte(addr+int32(i), b)
		}
		if a.listing != nil {
			a.listing.recordBytes(addr, bytes, lineNo, text)
		}
		a.diag.logBytes(addr, bytes)
	}
	a.pc += int32(len(bytes))
}
