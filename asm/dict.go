// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "sort"

// register holds the sorted register-name dictionary. value is the
// encoded register value (0-14 for R0-R14, 15 for SP). The table is
// sorted lexically, not numerically -- R10 sorts before R2 -- matching
// the ASCII-order binary-search table in the original implementation.
type register struct {
	name  string
	value byte
}

var registers = []register{
	{"R0", 0}, {"R1", 1}, {"R10", 10}, {"R11", 11}, {"R12", 12},
	{"R13", 13}, {"R14", 14}, {"R2", 2}, {"R3", 3}, {"R4", 4},
	{"R5", 5}, {"R6", 6}, {"R7", 7}, {"R8", 8}, {"R9", 9}, {"SP", 15},
}

func init() {
	if !sort.SliceIsSorted(registers, func(i, j int) bool { return registers[i].name < registers[j].name }) {
		panic("asm: register dictionary not sorted")
	}
}

// lookupRegister performs a binary search for an uppercased register
// name, returning its encoded value and whether it was found.
func lookupRegister(name string) (byte, bool) {
	i := sort.Search(len(registers), func(i int) bool { return registers[i].name >= name })
	if i < len(registers) && registers[i].name == name {
		return registers[i].value, true
	}
	return 0, false
}

func registerNames() []string {
	names := make([]string, len(registers))
	for i, r := range registers {
		names[i] = r.name
	}
	return names
}

// argKind identifies the shape of one parsed instruction argument.
type argKind byte

const (
	argNone argKind = iota
	argReg
	argNum
	argMem
)

// Encoding kinds, one byte tag per §4.3 of the specification.
const (
	encN    = 'N'
	encR    = 'R'
	encA    = 'A'
	encU    = 'U'
	encB    = 'B'
	encM    = 'M'
	encJ    = 'J'
	encL    = 'L'
	encI    = 'I'
	encG    = 'G'
	enc1    = '1'
	encMove = '='

	sugarR    = 'r'
	sugarA    = 'a'
	sugarU    = 'u'
	sugarE    = 'E'
	sugarB    = 'b'
	sugarBang = '!'
	sugarM    = 'm'
	sugarL    = 'l'
	sugarG    = 'g'
)

// templateRow is one row of the instruction template table: a
// mnemonic, its argument arity and argument-kind tuple, the encoding
// (or sugar) kind, and the base word the encoder combines with the
// argument values.
type templateRow struct {
	op    string
	arity int
	kinds [3]argKind
	enc   byte
	base  int32
}

// orImmBase is the literal base word the LI special-case ladder
// rewrites small immediates against. It is not a tmatch row because
// its second register operand is permanently forced to R0, unlike
// the general three-operand OR row in tmatch, which would collide with
// it if both lived in the matchable table.
const orImmBase = 0x30F9

// leaRewriteBase is the literal base word the 'l' sugar kind encodes
// against when it rewrites a non-SP-based LEA memory form into an
// ADD-immediate instruction.
const leaRewriteBase = 0x3004

// tmatch is the instruction template table. First exact match on
// (op, arity, kinds[0:arity]) wins.
var tmatch = []templateRow{
	// --- control, no operands (encN) ---
	{"NOP", 0, [3]argKind{}, encN, 0x0FF1},
	{"ILLEGAL", 0, [3]argKind{}, encN, 0x0000},
	{"SIGNAL", 0, [3]argKind{}, encN, 0x0001},
	{"SYSCALL", 0, [3]argKind{}, encN, 0x0002},
	{"WAIT", 0, [3]argKind{}, encN, 0x0003},
	{"RET", 0, [3]argKind{}, encN, 0x0004},
	{"ENTER", 0, [3]argKind{}, encN, 0x0005},
	{"ERET", 0, [3]argKind{}, encN, 0x0006},
	{"IRET", 0, [3]argKind{}, encN, 0x0007},
	{"ISTAT", 0, [3]argKind{}, encN, 0x0008},
	{"SRET", 0, [3]argKind{}, encN, 0x0009},

	// --- ALU three-register form (encR) and its 2-arg sugar (sugarR) ---
	{"ADD", 3, [3]argKind{argReg, argReg, argReg}, encR, 0x4000},
	{"SUB", 3, [3]argKind{argReg, argReg, argReg}, encR, 0x4100},
	{"AND", 3, [3]argKind{argReg, argReg, argReg}, encR, 0x4200},
	{"OR", 3, [3]argKind{argReg, argReg, argReg}, encR, 0x4300},
	{"XOR", 3, [3]argKind{argReg, argReg, argReg}, encR, 0x4400},
	{"SHL", 3, [3]argKind{argReg, argReg, argReg}, encR, 0x4500},
	{"SHR", 3, [3]argKind{argReg, argReg, argReg}, encR, 0x4600},
	{"ADD", 2, [3]argKind{argReg, argReg}, sugarR, 0x4000},
	{"SUB", 2, [3]argKind{argReg, argReg}, sugarR, 0x4100},
	{"AND", 2, [3]argKind{argReg, argReg}, sugarR, 0x4200},
	{"OR", 2, [3]argKind{argReg, argReg}, sugarR, 0x4300},
	{"XOR", 2, [3]argKind{argReg, argReg}, sugarR, 0x4400},
	{"SHL", 2, [3]argKind{argReg, argReg}, sugarR, 0x4500},
	{"SHR", 2, [3]argKind{argReg, argReg}, sugarR, 0x4600},

	// --- ALU two-register + immediate form (encA) and 2-arg sugar (sugarA) ---
	// Base-word low bytes are confined to the low nibble (<=0x0F) so
	// the encoder can pack r1 into the high nibble without disturbing
	// the opcode tag living in the low nibble.
	{"ADD", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x3004},
	{"OR", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x3009},
	{"AND", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x3002},
	{"XOR", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x3006},
	{"SUB", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x300A},
	{"SHL", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x300C},
	{"SHR", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x300E},
	{"SHRI", 3, [3]argKind{argReg, argReg, argNum}, encA, 0x300F},
	{"ADD", 2, [3]argKind{argReg, argNum}, sugarA, 0x3004},
	{"OR", 2, [3]argKind{argReg, argNum}, sugarA, 0x3009},
	{"AND", 2, [3]argKind{argReg, argNum}, sugarA, 0x3002},
	{"XOR", 2, [3]argKind{argReg, argNum}, sugarA, 0x3006},
	{"SUB", 2, [3]argKind{argReg, argNum}, sugarA, 0x300A},
	{"SHL", 2, [3]argKind{argReg, argNum}, sugarA, 0x300C},
	{"SHR", 2, [3]argKind{argReg, argNum}, sugarA, 0x300E},
	{"SHRI", 2, [3]argKind{argReg, argNum}, sugarA, 0x300F},

	// --- branches (encB for unconditional, sugarB/sugarBang for conditional) ---
	{"BRA", 1, [3]argKind{argNum}, encB, 0x2FF0},
	{"BEQ", 3, [3]argKind{argReg, argReg, argNum}, sugarB, 0x2000},
	{"BNE", 3, [3]argKind{argReg, argReg, argNum}, sugarB, 0x2010},
	{"BLT", 3, [3]argKind{argReg, argReg, argNum}, sugarB, 0x2020},
	{"BLE", 3, [3]argKind{argReg, argReg, argNum}, sugarB, 0x2030},
	{"BLTI", 3, [3]argKind{argReg, argReg, argNum}, sugarB, 0x2040},
	{"BLEI", 3, [3]argKind{argReg, argReg, argNum}, sugarB, 0x2050},
	{"BZ", 2, [3]argKind{argReg, argNum}, sugarBang, 0x2060},
	{"BNZ", 2, [3]argKind{argReg, argNum}, sugarBang, 0x2070},

	// --- CSET* two-register form (encU) and 1-arg sugar (sugarU) ---
	// `CSETZ reg, SP` (the form the LI ladder's imm==1 case reduces
	// to) is this family's two-register encU shape with SP as the
	// second operand, not a standalone single-register instruction.
	{"CSETZ", 2, [3]argKind{argReg, argReg}, encU, 0x0008},
	{"CSETZ", 1, [3]argKind{argReg}, sugarU, 0x0008},
	{"CSETNZ", 2, [3]argKind{argReg, argReg}, encU, 0x0009},
	{"CSETNZ", 1, [3]argKind{argReg}, sugarU, 0x0009},
	{"CSETN", 2, [3]argKind{argReg, argReg}, encU, 0x000A},
	{"CSETN", 1, [3]argKind{argReg}, sugarU, 0x000A},
	{"CSETNN", 2, [3]argKind{argReg, argReg}, encU, 0x000B},
	{"CSETNN", 1, [3]argKind{argReg}, sugarU, 0x000B},
	{"CSETP", 2, [3]argKind{argReg, argReg}, encU, 0x000C},
	{"CSETP", 1, [3]argKind{argReg}, sugarU, 0x000C},
	{"CSETNP", 2, [3]argKind{argReg, argReg}, encU, 0x000D},
	{"CSETNP", 1, [3]argKind{argReg}, sugarU, 0x000D},

	// --- unary two-register form (encU) and 1-arg sugar (sugarU) ---
	// Base low bytes stay <=0x0F: r1 packs into the high nibble.
	{"SEXT1", 2, [3]argKind{argReg, argReg}, encU, 0x5000},
	{"SEXT2", 2, [3]argKind{argReg, argReg}, encU, 0x5001},
	{"SEXT4", 2, [3]argKind{argReg, argReg}, encU, 0x5002},
	{"ZEXT1", 2, [3]argKind{argReg, argReg}, encU, 0x5003},
	{"ZEXT2", 2, [3]argKind{argReg, argReg}, encU, 0x5004},
	{"ZEXT4", 2, [3]argKind{argReg, argReg}, encU, 0x5005},
	{"BSWAP", 2, [3]argKind{argReg, argReg}, encU, 0x5006},
	{"BSWAP", 1, [3]argKind{argReg}, sugarU, 0x5006},
	{"IN", 2, [3]argKind{argReg, argReg}, encU, 0x5007},
	{"OUT", 2, [3]argKind{argReg, argReg}, encU, 0x5008},

	// --- two-register move (encMove) ---
	{"MV", 2, [3]argKind{argReg, argReg}, encMove, 0xB000},

	// --- memory forms (encM) and ST* sugar (sugarM) ---
	// Base low bytes stay <=0x0F: the memory base register packs
	// into the high nibble alongside the offset that follows.
	{"LD1", 2, [3]argKind{argReg, argMem}, encM, 0x6000},
	{"LD2", 2, [3]argKind{argReg, argMem}, encM, 0x6001},
	{"LD4", 2, [3]argKind{argReg, argMem}, encM, 0x6002},
	{"LD8", 2, [3]argKind{argReg, argMem}, encM, 0x6003},
	{"LD1I", 2, [3]argKind{argReg, argMem}, encM, 0x6004},
	{"LD2I", 2, [3]argKind{argReg, argMem}, encM, 0x6005},
	{"LD4I", 2, [3]argKind{argReg, argMem}, encM, 0x6006},
	{"LD8I", 2, [3]argKind{argReg, argMem}, encM, 0x6007},
	// ST* rows carry their own base words, distinct from the LD rows
	// they sit alongside: a store is not a load with swapped operands.
	{"ST1", 2, [3]argKind{argMem, argReg}, sugarM, 0x1008},
	{"ST2", 2, [3]argKind{argMem, argReg}, sugarM, 0x1009},
	{"ST4", 2, [3]argKind{argMem, argReg}, sugarM, 0x100A},
	{"ST8", 2, [3]argKind{argMem, argReg}, sugarM, 0x100B},

	// --- long jump/call (encJ) ---
	{"JMP", 1, [3]argKind{argNum}, encJ, 0x1000},
	{"JAL", 1, [3]argKind{argNum}, encJ, 0x1010},

	// --- LEA (encL) and memory-form sugar (sugarL) ---
	{"LEA", 2, [3]argKind{argReg, argNum}, encL, 0x7000},
	{"LEA", 2, [3]argKind{argReg, argMem}, sugarL, 0x7000},

	// --- LI (encI) ---
	{"LI", 2, [3]argKind{argReg, argNum}, encI, 0x9000},

	// --- GET/SET (encG and its sugar) ---
	{"GET", 2, [3]argKind{argReg, argNum}, encG, 0x8000},
	{"SET", 2, [3]argKind{argNum, argReg}, sugarG, 0x8000},
}

// opcodeNames is the sorted, de-duplicated set of mnemonics, used for
// the initial binary-search existence check and for "did you mean"
// suggestions.
var opcodeNames = func() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range tmatch {
		if !seen[r.op] {
			seen[r.op] = true
			names = append(names, r.op)
		}
	}
	sort.Strings(names)
	return names
}()

// directiveNames is the closed set of assembler directives.
var directiveNames = []string{"ORG", "EQU", "ZERO", "SPACE", "BYTE", "WORD"}

func isKnownDirective(name string) bool {
	for _, d := range directiveNames {
		if d == name {
			return true
		}
	}
	return false
}

func isKnownOpcode(name string) bool {
	i := sort.SearchStrings(opcodeNames, name)
	return i < len(opcodeNames) && opcodeNames[i] == name
}

// findTemplate returns the first row whose opcode, arity, and
// argument-kind tuple are exactly equal to the parsed instruction.
func findTemplate(op string, kinds []argKind) (templateRow, bool) {
	for _, r := range tmatch {
		if r.op != op || r.arity != len(kinds) {
			continue
		}
		match := true
		for i := 0; i < r.arity; i++ {
			if r.kinds[i] != kinds[i] {
				match = false
				break
			}
		}
		if match {
			return r, true
		}
	}
	return templateRow{}, false
}
