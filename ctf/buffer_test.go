// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"bytes"
	"testing"
)

func TestBufferEncodePrimitives(t *testing.T) {
	var b Buffer
	b.EncodeUint8(0x01)
	b.EncodeUint16(0x0302)
	b.EncodeUint32(0x07060504)
	b.EncodeUint64(0x0f0e0d0c0b0a0908)

	want := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes() = % x, want % x", b.Bytes(), want)
	}
}

func TestBufferEncodeString(t *testing.T) {
	var b Buffer
	b.EncodeString("hi")
	want := []byte{'h', 'i', 0}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes() = % x, want % x", b.Bytes(), want)
	}
}

func TestBufferReserveAndUpdate(t *testing.T) {
	var b Buffer
	off := b.ReserveUint32()
	b.EncodeUint8(0xff)
	b.UpdateUint32(off, 0xdeadbeef)

	want := []byte{0xef, 0xbe, 0xad, 0xde, 0xff}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes() = % x, want % x", b.Bytes(), want)
	}
}

func TestBufferUpdateOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("UpdateUint32 out of range did not panic")
		}
	}()
	var b Buffer
	b.UpdateUint32(4, 1)
}

func TestBufferPad(t *testing.T) {
	var b Buffer
	b.EncodeUint8(1)
	b.EncodeUint8(2)
	b.EncodeUint8(3)
	b.Pad(4)
	if b.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", b.Size())
	}
	if b.Bytes()[3] != 0 {
		t.Fatalf("padding byte = %#x, want 0", b.Bytes()[3])
	}

	b.Pad(4) // already aligned, no-op
	if b.Size() != 4 {
		t.Fatalf("Size() after no-op Pad = %d, want 4", b.Size())
	}
}

func TestBufferReset(t *testing.T) {
	var b Buffer
	b.EncodeUint32(1)
	mark := b.Size()
	b.EncodeUint32(2)
	b.Reset(mark)
	if b.Size() != mark {
		t.Fatalf("Size() after Reset = %d, want %d", b.Size(), mark)
	}
}
