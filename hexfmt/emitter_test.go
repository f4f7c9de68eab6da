// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hexfmt

import "testing"

func TestEmitterNopRecord(t *testing.T) {
	e := NewEmitter()
	e.EmitByte(0, 0x0F)
	e.EmitByte(1, 0xF1)
	got := string(e.Finish())
	want := ":020000000FF1FE\n:00000001FF\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitterFlushesOnDiscontinuity(t *testing.T) {
	e := NewEmitter()
	e.EmitByte(0, 0xAA)
	e.EmitByte(1, 0xBB)
	e.EmitByte(0x10, 0xCC) // not contiguous with outpc=2
	got := string(e.Finish())
	want := ":02000000AABB99\n:01001000CC23\n:00000001FF\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitterFlushesOnFullRecord(t *testing.T) {
	e := NewEmitter()
	for i := 0; i < 33; i++ {
		e.EmitByte(int32(i), byte(i))
	}
	out := string(e.Finish())
	// 33 bytes at 32 per record: two data records plus the
	// termination record.
	count := 0
	for i := 0; i < len(out); i++ {
		if out[i] == ':' {
			count++
		}
	}
	if count != 3 {
		t.Errorf("record count = %d, want 3", count)
	}
}
