// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

// maxSugarDepth bounds the sugar-rewrite recursion. No kind chain in
// the instruction set is longer than three rewrites.
const maxSugarDepth = 3

// argValue is a parsed instruction argument: a register, a number, a
// memory form `[reg (+ imm)?]`, or absent.
type argValue struct {
	kind      argKind
	reg       byte
	num       int32
	memBase   byte
	memHasImm bool
	memImm    int32
}

func kindsOf(args []argValue) []argKind {
	kinds := make([]argKind, len(args))
	for i, a := range args {
		kinds[i] = a.kind
	}
	return kinds
}

// rangeError is returned by the encoder when a value is out of range.
// The encoder only returns it on the final pass; on earlier passes,
// out-of-range values are expected while labels are still
// unresolved.
type rangeError struct{ msg string }

func (e *rangeError) Error() string { return e.msg }

// encodeInstruction matches (op, args) against the template table,
// applying sugar rewrites until a canonical encoding kind is reached,
// and lowers the result to bytes. pc is the address of the first byte
// of this instruction. final gates range diagnostics.
func encodeInstruction(op string, args []argValue, pc int32, final bool) ([]byte, error) {
	for depth := 0; depth < maxSugarDepth; depth++ {
		row, ok := findTemplate(op, kindsOf(args))
		if !ok {
			hint := suggest(opcodeSuggestTree, op)
			return nil, fmt.Errorf("unknown combination of opcode and args%s", hint)
		}

		switch row.enc {
		case encN:
			return toBytesBE16(row.base), nil

		case encR:
			return encodeR(row, args), nil

		case encA:
			return encodeA(row.base, args[0].reg, args[1].reg, args[2].num, final)

		case encU:
			return encodeU(row, args), nil

		case encB:
			return encodeB(row.base, pc, args[0].num, final)

		case encM:
			return encodeM(row.base, args[0].reg, args[1], final)

		case encJ:
			return encodeJ(row.base, pc, args[0].num)

		case encL:
			return encodeL(row.base, pc, args[0].reg, args[1].num)

		case encI:
			return encodeLI(row, args[0].reg, args[1].num, final)

		case encG:
			return encodeG(row.base, args[0].reg, args[1].num, final)

		case enc1:
			return encode1(row, args[0].reg), nil

		case encMove:
			return encodeMove(row, args), nil

		case sugarR:
			// op r0, r1 -> op r0, r0, r1
			args = []argValue{args[0], args[0], args[1]}

		case sugarA:
			// op r0, imm -> op r0, r0, imm
			args = []argValue{args[0], args[0], args[1]}

		case sugarU:
			// op r0 -> op r0, r0
			args = []argValue{args[0], args[0]}

		case sugarE:
			// op imm -> op r0=0, r0=0, imm
			args = []argValue{{kind: argReg, reg: 0}, {kind: argReg, reg: 0}, args[0]}

		case sugarB:
			// conditional 2-reg branch: fold r0 into the high byte's low
			// nibble and r1 into the low byte's low nibble, then proceed
			// as an unconditional branch to target.
			folded := foldBranchWord(row.base, args[0].reg, args[1].reg)
			return encodeB(folded, pc, args[2].num, final)

		case sugarBang:
			// conditional 1-reg branch: fold r0 only.
			folded := foldBranchWord(row.base, args[0].reg, 0)
			return encodeB(folded, pc, args[1].num, final)

		case sugarM:
			// ST* [reg+imm], src encodes with the store's own base
			// word (distinct from the same-shape LD rows): the source
			// register packs where a load's destination would, the
			// memory form stays the second operand.
			return encodeM(row.base, args[1].reg, args[0], final)

		case sugarL:
			// LEA reg, [base (+ imm)?]
			if args[1].memBase == spRegister {
				op = "LD8"
				args = []argValue{args[0], args[1]}
				continue
			}
			imm := args[1].memImm
			return encodeA(leaRewriteBase, args[0].reg, args[1].memBase, imm, final)

		case sugarG:
			// SET imm, reg -> GET reg, imm
			op = "GET"
			args = []argValue{args[1], args[0]}

		default:
			return nil, fmt.Errorf("unknown combination of opcode and args")
		}
	}
	return nil, fmt.Errorf("unknown combination of opcode and args")
}

const spRegister = 15

// foldBranchWord folds r0 into the high byte's low nibble and r1 into
// the low byte's low nibble of a conditional branch's base word. The
// low byte's high nibble carries the condition-code tag and is left
// untouched.
func foldBranchWord(base int32, r0, r1 byte) int32 {
	hi := byte(base>>8) | r0
	lo := byte(base) | r1
	return int32(hi)<<8 | int32(lo)
}

func encodeR(row templateRow, args []argValue) []byte {
	b0 := byte(row.base>>8) | args[0].reg
	b1 := args[1].reg<<4 | args[2].reg
	return []byte{b0, b1}
}

func encodeA(base int32, r0, r1 byte, imm int32, final bool) ([]byte, error) {
	if final && !fitsSigned16(imm) {
		return nil, &rangeError{"immediate out of range"}
	}
	b0 := byte(base>>8) | r0
	b1 := byte(base) | r1<<4
	return append([]byte{b0, b1}, toBytesBE16(imm)...), nil
}

func encodeU(row templateRow, args []argValue) []byte {
	b0 := byte(row.base>>8) | args[0].reg
	b1 := byte(row.base) | args[1].reg<<4
	return []byte{b0, b1}
}

func encodeB(base int32, pc int32, target int32, final bool) ([]byte, error) {
	offset := (target - (pc + 4)) / 2
	if final && !fitsSigned16(offset) {
		return nil, &rangeError{"branch target out of range"}
	}
	word := toBytesBE16(base)
	return append(word, toBytesBE16(offset)...), nil
}

func encodeM(base int32, dst byte, mem argValue, final bool) ([]byte, error) {
	if final && !fitsSigned16(mem.memImm) {
		return nil, &rangeError{"memory offset out of range"}
	}
	b0 := byte(base>>8) | dst
	b1 := byte(base) | mem.memBase<<4
	return append([]byte{b0, b1}, toBytesBE16(mem.memImm)...), nil
}

func encodeJ(base int32, pc int32, target int32) ([]byte, error) {
	offset := (target - (pc + 6)) / 2
	word := toBytesBE16(base)
	return append(word, toBytesBE32(offset)...), nil
}

func encodeL(base int32, pc int32, reg byte, target int32) ([]byte, error) {
	offset := target - (pc + 6)
	b0 := byte(base>>8) | reg
	b1 := byte(base)
	return append([]byte{b0, b1}, toBytesBE32(offset)...), nil
}

func encodeG(base int32, reg byte, idx int32, final bool) ([]byte, error) {
	if final && (idx < 0 || idx > 15) {
		return nil, &rangeError{"special register index out of range"}
	}
	b0 := byte(base>>8) | reg
	b1 := byte(base)
	return append([]byte{b0, b1}, toBytesBE16(idx)...), nil
}

func encode1(row templateRow, reg byte) []byte {
	b0 := byte(row.base>>8) | reg
	b1 := byte(row.base)
	return []byte{b0, b1}
}

func encodeMove(row templateRow, args []argValue) []byte {
	b0 := byte(row.base>>8) | args[0].reg
	b1 := byte(row.base) | args[1].reg<<4
	return []byte{b0, b1}
}

// encodeLI implements the LI special-case ladder, in order.
func encodeLI(row templateRow, reg byte, imm int32, final bool) ([]byte, error) {
	switch {
	case imm == 0:
		return []byte{0x80 | reg, 0xff}, nil
	case imm == 1:
		return []byte{0x00 | reg, 0xf8}, nil
	case fitsSigned16(imm):
		return encodeA(orImmBase, reg, 0, imm, final)
	default:
		b0 := byte(row.base >> 8)
		b1 := byte(row.base) | reg<<4
		return append([]byte{b0, b1}, toBytesBE32(imm)...), nil
	}
}
