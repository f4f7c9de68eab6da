// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

// maxLineLength is the longest source line accepted. A longer line is
// a fatal error: continuing would desynchronize column tracking for
// the rest of the file.
const maxLineLength = 128

// processLine runs the per-line state machine described by the line
// processor: optional label, then a directive or instruction, then a
// trailing-content check. Only fatal errors (line too long,
// symbol-table overflow, the non-fatal error threshold) are returned;
// everything else is
// routed through the diagnostic reporter.
func (a *assembler) processLine(fileIndex int, fileName string, lineNo int, text string) error {
	if len(text) > maxLineLength {
		return &FatalError{Msg: fmt.Sprintf("line too long at line %d of %s", lineNo, fileName)}
	}

	startPC := a.pc
	rest := newFstring(fileIndex, lineNo, text).stripTrailingComment()

	var lineLabel *label
	if rest.startsWith(func(c byte) bool { return labelStartChar(c) || c == '.' }) {
		local := rest.startsWithChar('.')
		ident := rest
		if local {
			ident = rest.consume(1)
		}
		if ident.startsWith(labelStartChar) {
			name, after := ident.consumeWhile(labelChar)
			if after.startsWithChar(':') {
				after = after.consume(1)
			}
			lbl, err := a.defineLabel(fileName, lineNo, toUpper(name.str), local)
			if err != nil {
				return err
			}
			lineLabel = lbl
			rest = after
		}
	}

	rest = rest.consumeWhitespace()
	if rest.isEmpty() {
		return nil
	}

	if rest.startsWithChar('.') {
		return a.processDirective(rest, fileName, lineNo, text, startPC, lineLabel)
	}
	if rest.startsWith(alpha) {
		return a.processInstruction(rest, fileName, lineNo, text, startPC)
	}
	return a.nonfatal(fileName, lineNo, "extra characters at end")
}

func (a *assembler) nonfatal(file string, lineNo int, format string, args ...any) error {
	return a.diag.report(file, lineNo, format, args...)
}

func (a *assembler) newEval(file string, lineNo int) *evalState {
	return &evalState{
		sym:        a.sym,
		main:       a.main,
		file:       file,
		line:       lineNo,
		pc:         a.pc,
		allowUndef: !a.final,
		moreNeeded: &a.moreNeeded,
	}
}

func (a *assembler) checkTrailing(s fstring, file string, lineNo int) error {
	if !s.consumeWhitespace().isEmpty() {
		return a.nonfatal(file, lineNo, "extra characters at end")
	}
	return nil
}

// defineLabel handles the label half of a line: first-sight insertion
// or re-sight reconciliation, for either a global or a local (scoped
// to the active main label) name. It returns the label defined on
// this line, which the caller uses as the .EQU target.
func (a *assembler) defineLabel(file string, lineNo int, name string, local bool) (*label, error) {
	if local {
		if a.main == nil {
			return nil, a.nonfatal(file, lineNo, "local label without main label")
		}
		existing := a.sym.lookupLocal(a.main, name)
		if existing == nil {
			lbl, err := a.sym.insertLocal(a.main, name, a.pc)
			if err != nil {
				return nil, &FatalError{Msg: err.Error()}
			}
			a.moreNeeded = true
			return lbl, nil
		}
		return existing, a.reconcileLabel(file, lineNo, existing)
	}

	existing := a.sym.lookupGlobal(name)
	if existing == nil {
		g, err := a.sym.insertGlobal(name, a.pc)
		if err != nil {
			return nil, &FatalError{Msg: err.Error()}
		}
		a.main = g
		a.moreNeeded = true
		return g, nil
	}
	a.main = existing
	return existing, a.reconcileLabel(file, lineNo, existing)
}

// reconcileLabel implements the duplicate-label policy: an error on
// pass 0, a silent no-op on later passes when the value hasn't moved
// (or the label is an EQU, whose value never changes), and otherwise
// an update that schedules another pass.
func (a *assembler) reconcileLabel(file string, lineNo int, lbl *label) error {
	if a.pass == 0 {
		return a.nonfatal(file, lineNo, "label '%s' defined more than once", lbl.name)
	}
	if lbl.equ() || lbl.value == a.pc {
		return nil
	}
	lbl.value = a.pc
	a.moreNeeded = true
	return nil
}

func (a *assembler) processDirective(s fstring, file string, lineNo int, text string, startPC int32, lineLabel *label) error {
	s = s.consume(1)
	name, rest := s.consumeWhile(labelChar)
	uname := toUpper(name.str)
	if !isKnownDirective(uname) {
		return a.nonfatal(file, lineNo, "unknown directive%s", suggest(directiveSuggestTree, uname))
	}
	rest = rest.consumeWhitespace()
	ev := a.newEval(file, lineNo)

	switch uname {
	case "ORG":
		v, after, err := ev.evalExpr(rest)
		if err != nil {
			return a.nonfatal(file, lineNo, "%v", err)
		}
		delta := v - a.pc
		a.pc = v
		if a.final && a.listing != nil {
			a.listing.recordSpace(startPC, delta, lineNo, text)
		}
		return a.checkTrailing(after, file, lineNo)

	case "EQU":
		v, after, err := ev.evalExpr(rest)
		if err != nil {
			return a.nonfatal(file, lineNo, "%v", err)
		}
		if lineLabel == nil {
			return a.nonfatal(file, lineNo, "missing .EQU label")
		}
		lineLabel.value = v
		lineLabel.flags |= flagEqu
		if a.final && a.listing != nil {
			a.listing.recordEqu(v, lineNo, text)
		}
		return a.checkTrailing(after, file, lineNo)

	case "ZERO":
		v, after, err := ev.evalExpr(rest)
		if err != nil {
			return a.nonfatal(file, lineNo, "%v", err)
		}
		if v < 0 {
			return a.nonfatal(file, lineNo, ".ZERO overflow")
		}
		a.emit(startPC, make([]byte, v), lineNo, text)
		return a.checkTrailing(after, file, lineNo)

	case "SPACE":
		v, after, err := ev.evalExpr(rest)
		if err != nil {
			return a.nonfatal(file, lineNo, "%v", err)
		}
		a.pc += v
		if a.final && a.listing != nil {
			a.listing.recordSpace(startPC, v, lineNo, text)
		}
		return a.checkTrailing(after, file, lineNo)

	case "BYTE":
		return a.processByteDirective(rest, file, lineNo, text, startPC)

	case "WORD":
		return a.processWordDirective(rest, file, lineNo, text, startPC)
	}
	panic("unreachable")
}

// processByteDirective accepts a comma list whose items are each
// either a double-quoted string (contributing its literal bytes) or
// an expression (contributing one byte), matching spec examples like
// `.BYTE "Hi",0`, which mix both forms in a single directive.
func (a *assembler) processByteDirective(s fstring, file string, lineNo int, text string, startPC int32) error {
	var out []byte
	ev := a.newEval(file, lineNo)

	for {
		s = s.consumeWhitespace()
		if s.startsWithChar('"') {
			s = s.consume(1)
			content, rest := s.consumeUntilChar('"')
			if !rest.startsWithChar('"') {
				return a.nonfatal(file, lineNo, "string without closing quote")
			}
			out = append(out, []byte(content.str)...)
			s = rest.consume(1)
		} else {
			v, rest, err := ev.evalExpr(s)
			if err != nil {
				return a.nonfatal(file, lineNo, "%v", err)
			}
			if a.final && !fitsSigned8(v) && !fitsUnsigned8(v) {
				return a.nonfatal(file, lineNo, ".BYTE value out of range")
			}
			out = append(out, byte(v))
			s = rest
		}

		s = s.consumeWhitespace()
		if s.startsWithChar(',') {
			s = s.consume(1)
			continue
		}
		break
	}

	a.emit(startPC, out, lineNo, text)
	return a.checkTrailing(s, file, lineNo)
}

func (a *assembler) processWordDirective(s fstring, file string, lineNo int, text string, startPC int32) error {
	ev := a.newEval(file, lineNo)
	var out []byte
	s = s.consumeWhitespace()
	for {
		v, rest, err := ev.evalExpr(s)
		if err != nil {
			return a.nonfatal(file, lineNo, "%v", err)
		}
		// The source this directive is drawn from checks with a bare
		// '>', which admits 65536 itself. Kept for behavioral fidelity;
		// see DESIGN.md.
		if a.final && v > 65536 {
			return a.nonfatal(file, lineNo, ".WORD value out of range")
		}
		out = append(out, toBytesBE16(v)...)
		s = rest.consumeWhitespace()
		if s.startsWithChar(',') {
			s = s.consume(1).consumeWhitespace()
			continue
		}
		break
	}
	a.emit(startPC, out, lineNo, text)
	return a.checkTrailing(s, file, lineNo)
}

func (a *assembler) processInstruction(s fstring, file string, lineNo int, text string, startPC int32) error {
	name, rest := s.consumeWhile(labelChar)
	uname := toUpper(name.str)
	if !isKnownOpcode(uname) {
		return a.nonfatal(file, lineNo, "unknown opcode%s", suggest(opcodeSuggestTree, uname))
	}

	ev := a.newEval(file, lineNo)
	var args []argValue
	rest = rest.consumeWhitespace()
	for !rest.isEmpty() {
		arg, after, err := a.parseArgument(rest, ev)
		if err != nil {
			return a.nonfatal(file, lineNo, "%v", err)
		}
		args = append(args, arg)
		rest = after.consumeWhitespace()
		if rest.startsWithChar(',') {
			rest = rest.consume(1).consumeWhitespace()
			if rest.isEmpty() {
				return a.nonfatal(file, lineNo, "malformed argument list")
			}
			continue
		}
		break
	}

	bytesOut, err := encodeInstruction(uname, args, startPC, a.final)
	if err != nil {
		return a.nonfatal(file, lineNo, "%v", err)
	}
	a.emit(startPC, bytesOut, lineNo, text)
	return a.checkTrailing(rest, file, lineNo)
}

// parseArgument parses one register, memory form, or expression
// argument. A register name is recognized greedily unless the token
// is disambiguated with a leading ':' (forcing label interpretation).
func (a *assembler) parseArgument(s fstring, ev *evalState) (argValue, fstring, error) {
	s = s.consumeWhitespace()
	if s.isEmpty() {
		return argValue{}, s, fmt.Errorf("malformed argument list")
	}

	if s.startsWithChar('[') {
		return a.parseMemArg(s, ev)
	}

	if !s.startsWithChar(':') && s.startsWith(labelStartChar) {
		ident, rest := s.consumeWhile(labelChar)
		if reg, ok := lookupRegister(toUpper(ident.str)); ok {
			return argValue{kind: argReg, reg: reg}, rest, nil
		}
	}

	v, rest, err := ev.evalExpr(s)
	if err != nil {
		return argValue{}, s, err
	}
	return argValue{kind: argNum, num: v}, rest, nil
}

func (a *assembler) parseMemArg(s fstring, ev *evalState) (argValue, fstring, error) {
	s = s.consume(1).consumeWhitespace()
	ident, rest := s.consumeWhile(labelChar)
	reg, ok := lookupRegister(toUpper(ident.str))
	if !ok {
		return argValue{}, s, fmt.Errorf("unknown register%s", suggest(registerSuggestTree, ident.str))
	}

	mv := argValue{kind: argMem, memBase: reg}
	s = rest.consumeWhitespace()
	if s.startsWithChar('+') || s.startsWithChar('-') {
		neg := s.startsWithChar('-')
		s = s.consume(1).consumeWhitespace()
		v, after, err := ev.evalExpr(s)
		if err != nil {
			return argValue{}, s, err
		}
		if neg {
			v = -v
		}
		mv.memHasImm = true
		mv.memImm = v
		s = after.consumeWhitespace()
	}

	if !s.startsWithChar(']') {
		return argValue{}, s, fmt.Errorf("memory form without closing ']'")
	}
	return mv, s.consume(1), nil
}
