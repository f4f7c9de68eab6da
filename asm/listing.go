// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bytes"
	"fmt"
)

// bytesPerListingLine is the number of hex byte pairs shown per
// listing line before a continuation line is needed.
const bytesPerListingLine = 6

// listingWriter accumulates the human-readable listing produced when
// -l is given: each listed source line preceded by its address, up to
// six hex bytes (or a special `= hi.lo` / `? size dec` form), and the
// line number, with continuation lines for instructions longer than
// six bytes. Only lines that emit bytes or are .EQU, .ORG or .SPACE
// directives are listed; blank, comment-only and label-only lines,
// and lines that raised an error, do not appear.
type listingWriter struct {
	buf bytes.Buffer
}

func newListingWriter() *listingWriter {
	return &listingWriter{}
}

func (lw *listingWriter) bytes() []byte {
	return lw.buf.Bytes()
}

// recordBytes prints one listing line (plus continuations) for an
// instruction or data directive that emitted len(b) bytes at addr.
func (lw *listingWriter) recordBytes(addr int32, b []byte, lineNo int, text string) {
	lw.writeChunk(addr, b, lineNo, text)
}

// recordEqu prints the `= hi.lo` listing form for a .EQU directive.
func (lw *listingWriter) recordEqu(value int32, lineNo int, text string) {
	fmt.Fprintf(&lw.buf, "     = %02X.%02X %4d %s\n", (value>>8)&0xff, value&0xff, lineNo, text)
}

// recordSpace prints the `? size dec` listing form for .SPACE and
// .ORG. (.ZERO emits real bytes and is listed by recordBytes.)
func (lw *listingWriter) recordSpace(addr int32, size int32, lineNo int, text string) {
	fmt.Fprintf(&lw.buf, "%04X ? %-3d %4d %s\n", addr, size, lineNo, text)
}

func (lw *listingWriter) writeChunk(addr int32, b []byte, lineNo int, text string) {
	for i := 0; i < len(b) || i == 0; i += bytesPerListingLine {
		end := i + bytesPerListingLine
		if end > len(b) {
			end = len(b)
		}
		chunk := b[i:end]

		if i == 0 {
			fmt.Fprintf(&lw.buf, "%04X %-17s %4d %s\n", addr, hexColumns(chunk), lineNo, text)
		} else {
			fmt.Fprintf(&lw.buf, "     %-17s\n", hexColumns(chunk))
		}
		if len(b) == 0 {
			break
		}
	}
}

func hexColumns(b []byte) string {
	out := make([]byte, 0, bytesPerListingLine*3)
	for i := 0; i < bytesPerListingLine; i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		if i < len(b) {
			out = append(out, hex[b[i]>>4], hex[b[i]&0x0f])
		} else {
			out = append(out, ' ', ' ')
		}
	}
	return string(out)
}
