// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

var hex = "0123456789ABCDEF"

func hexchar(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// toBytesBE16 returns the big-endian two-byte representation of value.
// Every multi-byte eon encoding kind packs its immediate big-endian.
func toBytesBE16(value int32) []byte {
	return []byte{byte(value >> 8), byte(value)}
}

// toBytesBE32 returns the big-endian four-byte representation of value.
func toBytesBE32(value int32) []byte {
	return []byte{byte(value >> 24), byte(value >> 16), byte(value >> 8), byte(value)}
}

// byteString returns a space-separated hexadecimal string representation
// of a byte slice, used by verbose logging.
func byteString(b []byte) string {
	if len(b) < 1 {
		return ""
	}

	s := make([]byte, len(b)*3-1)
	i, j := 0, 0
	for n := len(b) - 1; i < n; i, j = i+1, j+3 {
		s[j+0] = hex[(b[i] >> 4)]
		s[j+1] = hex[(b[i] & 0x0f)]
		s[j+2] = ' '
	}
	s[j+0] = hex[(b[i] >> 4)]
	s[j+1] = hex[(b[i] & 0x0f)]
	return string(s)
}

func fitsSigned16(v int32) bool {
	return v >= -32768 && v <= 32767
}

func fitsSigned8(v int32) bool {
	return v >= -128 && v <= 127
}

func fitsUnsigned8(v int32) bool {
	return v >= 0 && v <= 255
}
