// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"io"
	"strings"
	"testing"
)

// assembleLines assembles a single-file source under the given lines
// and fails the test on a fatal error.
func assembleLines(t *testing.T, lines ...string) *Result {
	t.Helper()
	result, err := Assemble([]Source{{Name: "test.asm", Lines: lines}}, Options{}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	return result
}

func TestAssembleNop(t *testing.T) {
	result := assembleLines(t, "    NOP")
	want := ":020000000FF1FE\n:00000001FF\n"
	if string(result.Hex) != want {
		t.Errorf("hex = %q, want %q", result.Hex, want)
	}
	if result.Errors != 0 {
		t.Errorf("errors = %d, want 0", result.Errors)
	}
}

func TestAssembleOrgAndAdd(t *testing.T) {
	result := assembleLines(t,
		"    .ORG $10",
		"    ADD R1, R2, R3",
	)
	if !strings.Contains(string(result.Hex), ":020010004123") {
		t.Errorf("hex %q does not contain expected ADD record", result.Hex)
	}
}

func TestAssembleSelfBranch(t *testing.T) {
	result := assembleLines(t, "L: BRA L")
	want := "2F F0 FF FE"
	got := hexDump(t, result.Hex, 0)
	if got != want {
		t.Errorf("data = %q, want %q", got, want)
	}
}

func TestAssembleByteString(t *testing.T) {
	result := assembleLines(t, `MSG: .BYTE "Hi",0`)
	want := "48 69 00"
	got := hexDump(t, result.Hex, 0)
	if got != want {
		t.Errorf("data = %q, want %q", got, want)
	}
}

func TestAssembleEquAndLi(t *testing.T) {
	result := assembleLines(t,
		"X .EQU 5",
		"    LI R1, X",
	)
	want := "31 F9 00 05"
	got := hexDump(t, result.Hex, 0)
	if got != want {
		t.Errorf("data = %q, want %q", got, want)
	}
}

func TestAssembleConditionalBranch(t *testing.T) {
	result := assembleLines(t,
		"A: ADD R1, R1, 1",
		"B: BNE R1, R0, A",
	)
	got := hexDump(t, result.Hex, 4)
	want := "21 10 FF FC"
	if got != want {
		t.Errorf("data at pc=4 = %q, want %q", got, want)
	}
}

func TestAssembleLiLadder(t *testing.T) {
	cases := []struct {
		imm  string
		want []byte
	}{
		{"0", []byte{0x81, 0xff}},
		{"1", []byte{0x01, 0xf8}},
		{"2", []byte{0x31, 0xf9, 0x00, 0x02}},
		{"$100000", []byte{0x90, 0x10, 0x00, 0x10, 0x00, 0x00}},
	}
	for _, c := range cases {
		result := assembleLines(t, "    LI R1, "+c.imm)
		got := decodeBytes(t, result.Hex, 0, len(c.want))
		if string(got) != string(c.want) {
			t.Errorf("LI R1, %s = % X, want % X", c.imm, got, c.want)
		}
	}
}

func TestAssembleBranchRangeError(t *testing.T) {
	result := assembleLines(t,
		"    BRA TARGET",
		"    .ORG 70000",
		"TARGET: NOP",
	)
	if result.Errors == 0 {
		t.Errorf("expected a range error for an unreachable branch target")
	}
}

func TestAssembleUnknownOpcodeIsNonFatal(t *testing.T) {
	result := assembleLines(t, "    FROB R1, R2")
	if result.Errors == 0 {
		t.Errorf("expected a non-fatal error for an unknown opcode")
	}
}

// A label defined twice in the same file is flagged as an error on
// pass 0. Because both definitions collapse onto a single symbol
// table slot, the positional reconciliation on later passes keeps
// flipping the slot's value between the two definitions' addresses,
// so the run never reaches a fixpoint and aborts as non-convergent.
func TestAssembleDuplicateLabelNeverConverges(t *testing.T) {
	_, err := Assemble([]Source{{Name: "test.asm", Lines: []string{
		"L: NOP",
		"L: NOP",
	}}}, Options{}, io.Discard)
	if _, ok := err.(*FatalError); !ok {
		t.Errorf("err = %v (%T), want a *FatalError", err, err)
	}
}

func TestAssembleStoreDiffersFromLoad(t *testing.T) {
	load := assembleLines(t, "    LD4 R2, [R1]")
	store := assembleLines(t, "    ST4 [R1], R2")
	loadBytes := hexDump(t, load.Hex, 0)
	storeBytes := hexDump(t, store.Hex, 0)
	if loadBytes == storeBytes {
		t.Errorf("ST4 encoded the same as LD4: %q", storeBytes)
	}
}

func TestAssembleCsetzTwoRegisterAndSugar(t *testing.T) {
	result := assembleLines(t, "    CSETZ R1, SP")
	want := "01 F8"
	got := hexDump(t, result.Hex, 0)
	if got != want {
		t.Errorf("data = %q, want %q", got, want)
	}
	if result.Errors != 0 {
		t.Errorf("errors = %d, want 0", result.Errors)
	}

	// One-register sugar: CSETZ R1 -> CSETZ R1, R1.
	sugar := assembleLines(t, "    CSETZ R1")
	wantSugar := "01 18"
	gotSugar := hexDump(t, sugar.Hex, 0)
	if gotSugar != wantSugar {
		t.Errorf("sugar data = %q, want %q", gotSugar, wantSugar)
	}
}

func TestAssembleEquTargetsLineLabelNotEnclosingGlobal(t *testing.T) {
	result := assembleLines(t,
		"G: NOP",
		"    .EQU 5",
	)
	if result.Errors == 0 {
		t.Errorf("expected a missing-.EQU-label error, got none")
	}
}

func TestAssembleEquOnLocalLabel(t *testing.T) {
	result := assembleLines(t,
		"G: NOP",
		".L .EQU 5",
		"    LI R1, .L",
	)
	want := "31 F9 00 05"
	got := hexDump(t, result.Hex, 2)
	if got != want {
		t.Errorf("data at pc=2 = %q, want %q", got, want)
	}
}

func TestAssembleZeroNegativeSizeIsNonFatal(t *testing.T) {
	result := assembleLines(t, "    .ZERO -4")
	if result.Errors == 0 {
		t.Errorf("expected a non-fatal .ZERO overflow error")
	}
}

func TestAssembleOnlyOrgAndEqu(t *testing.T) {
	result := assembleLines(t,
		"    .ORG $100",
		"X .EQU 1",
	)
	want := ":00000001FF\n"
	if string(result.Hex) != want {
		t.Errorf("hex = %q, want %q", result.Hex, want)
	}
}

// hexDump decodes the data bytes of the HEX record covering addr and
// formats them as a space-separated uppercase hex string, for
// comparison against the worked examples.
func hexDump(t *testing.T, hexText []byte, addr int) string {
	t.Helper()
	b := findRecordContaining(t, hexText, addr)
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = hexByte(v)
	}
	return strings.Join(parts, " ")
}

func decodeBytes(t *testing.T, hexText []byte, addr, n int) []byte {
	t.Helper()
	b := findRecordContaining(t, hexText, addr)
	if len(b) < n {
		t.Fatalf("record at 0x%04X has only %d bytes, want %d", addr, len(b), n)
	}
	return b[:n]
}

func findRecordContaining(t *testing.T, hexText []byte, addr int) []byte {
	t.Helper()
	for _, line := range strings.Split(string(hexText), "\n") {
		if len(line) < 11 || line[0] != ':' {
			continue
		}
		length := hexPair(line[1:3])
		recAddr := hexPair(line[3:5])<<8 | hexPair(line[5:7])
		recType := hexPair(line[7:9])
		if recType != 0 {
			continue
		}
		if addr < recAddr || addr >= recAddr+length {
			continue
		}
		data := make([]byte, length)
		for i := 0; i < length; i++ {
			data[i] = byte(hexPair(line[9+i*2 : 11+i*2]))
		}
		return data[addr-recAddr:]
	}
	t.Fatalf("no HEX record covers address 0x%04X in %q", addr, hexText)
	return nil
}

func hexPair(s string) int {
	return int(hexchar(s[0]))<<4 | int(hexchar(s[1]))
}

func hexByte(b byte) string {
	return string([]byte{hex[b>>4], hex[b&0x0f]})
}
