// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hexfmt formats assembled bytes as Intel HEX records: ASCII
// text, one record per line, each carrying up to 32 data bytes plus a
// two's-complement checksum.
package hexfmt

import (
	"bytes"
	"fmt"
)

// maxRecordBytes is the largest number of data bytes one record may
// carry.
const maxRecordBytes = 32

// Emitter buffers pending bytes and flushes them into Intel HEX
// records whenever the buffer fills or the next byte's address is not
// contiguous with the last one emitted.
type Emitter struct {
	buf    []byte
	basepc int32 // address of buf[0]
	outpc  int32 // address the next contiguous byte would occupy
	out    bytes.Buffer
}

// NewEmitter returns an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// EmitByte appends one byte at the given address, flushing first if
// the buffer is full or addr is not contiguous with the last byte
// emitted.
func (e *Emitter) EmitByte(addr int32, b byte) {
	if len(e.buf) >= maxRecordBytes || (len(e.buf) > 0 && addr != e.outpc) {
		e.flush()
	}
	if len(e.buf) == 0 {
		e.basepc = addr
	}
	e.buf = append(e.buf, b)
	e.outpc = addr + 1
}

func (e *Emitter) flush() {
	if len(e.buf) == 0 {
		return
	}
	writeRecord(&e.out, uint16(e.basepc), 0x00, e.buf)
	e.buf = e.buf[:0]
}

// Finish flushes any pending bytes, appends the end-of-file
// termination record, and returns the accumulated HEX text.
func (e *Emitter) Finish() []byte {
	e.flush()
	e.out.WriteString(":00000001FF\n")
	return e.out.Bytes()
}

// writeRecord writes one Intel HEX data (or other) record:
// :LLAAAATT<data>CC\n, where CC is the two's complement of the low
// byte of the sum of all preceding fields.
func writeRecord(w *bytes.Buffer, addr uint16, recType byte, data []byte) {
	sum := byte(len(data)) + byte(addr>>8) + byte(addr) + recType
	for _, b := range data {
		sum += b
	}
	checksum := byte(-int8(sum))

	fmt.Fprintf(w, ":%02X%04X%02X", len(data), addr, recType)
	for _, b := range data {
		fmt.Fprintf(w, "%02X", b)
	}
	fmt.Fprintf(w, "%02X\n", checksum)
}
