// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

const (
	maxLabels     = 256
	maxCharsLabel = 22
)

// Label flags.
const (
	flagUsed = 1 << iota
	flagEqu
)

// A label is a named symbolic value: either a global (main) label or
// a local label scoped to one. Global labels additionally carry
// [lbegin, lend), the half-open range of the local-label region that
// belongs to them.
type label struct {
	name   string
	value  int32
	flags  byte
	lbegin int // only meaningful for globals
	lend   int // only meaningful for globals
}

func (l *label) used() bool { return l.flags&flagUsed != 0 }
func (l *label) equ() bool  { return l.flags&flagEqu != 0 }

// symtab is the two-stack label arena described by the assembler's
// data model: a single fixed-capacity array used as two stacks.
// Globals grow upward from index 0; locals grow downward from index
// maxLabels. A global's local region is discovered by scanning
// [lbegin, lend) of the locals stack.
type symtab struct {
	table    [maxLabels]label
	nglobal  int // globals occupy table[0:nglobal]
	lstack   int // locals occupy table[lstack:maxLabels]
	curGlobl int // index of the global currently accepting locals, or -1
}

func newSymtab() *symtab {
	return &symtab{lstack: maxLabels, curGlobl: -1}
}

func truncateName(name string) string {
	if len(name) > maxCharsLabel {
		return name[:maxCharsLabel]
	}
	return name
}

// lookupGlobal scans the global stack for an exact-length, exact-byte
// match on the (already uppercased) name.
func (s *symtab) lookupGlobal(name string) *label {
	name = truncateName(name)
	for i := 0; i < s.nglobal; i++ {
		if s.table[i].name == name {
			return &s.table[i]
		}
	}
	return nil
}

// lookupLocal scans the local region owned by global g for an
// exact-length, exact-byte match.
func (s *symtab) lookupLocal(g *label, name string) *label {
	if g == nil {
		return nil
	}
	name = truncateName(name)
	for i := g.lbegin; i < g.lend; i++ {
		if s.table[i].name == name {
			return &s.table[i]
		}
	}
	return nil
}

// insertGlobal appends a new global label to the upward stack. It
// returns a "symbol table overflow" error if doing so would collide
// with the locals stack.
func (s *symtab) insertGlobal(name string, value int32) (*label, error) {
	if s.nglobal >= s.lstack {
		return nil, fmt.Errorf("symbol table overflow")
	}
	idx := s.nglobal
	s.table[idx] = label{name: truncateName(name), value: value, lbegin: s.lstack, lend: s.lstack}
	s.nglobal++
	s.curGlobl = idx
	return &s.table[idx], nil
}

// insertLocal appends a new local label to the downward stack,
// attaching it to the given owning global and widening that global's
// [lbegin, lend) range to include it. lend was fixed once, at the
// moment the global itself was created; lbegin is re-pointed to the
// new top of the locals stack on every insertion so it always points
// at the most recently inserted local owned by this global.
func (s *symtab) insertLocal(g *label, name string, value int32) (*label, error) {
	if s.lstack-1 <= s.nglobal {
		return nil, fmt.Errorf("symbol table overflow")
	}
	s.lstack--
	s.table[s.lstack] = label{name: truncateName(name), value: value}
	g.lbegin = s.lstack
	return &s.table[s.lstack], nil
}

// globals returns the slice of global labels currently defined, used
// when iterating for the unused-label report.
func (s *symtab) globals() []label {
	return s.table[:s.nglobal]
}

func (s *symtab) localsOf(g *label) []label {
	return s.table[g.lbegin:g.lend]
}
