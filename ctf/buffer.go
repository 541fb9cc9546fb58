// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import "encoding/binary"

// Buffer is an append-only byte buffer with little-endian primitive
// encoders, used to build up one encoded event or one encoded packet.
//
// Encoders never fail: Buffer only grows. Reset and the Update* family
// require offsets that were previously returned by Size, and panic
// (a contract violation, not a runtime error) if that invariant is
// broken by the caller.
type Buffer struct {
	buf []byte
	ts  uint64
}

// Size returns the current length of the encoded buffer.
func (b *Buffer) Size() int { return len(b.buf) }

// Bytes exposes the buffer's contents. The returned slice is only
// valid until the next mutating call on b.
func (b *Buffer) Bytes() []byte { return b.buf }

// Timestamp returns the timestamp previously attached with SetTimestamp.
func (b *Buffer) Timestamp() uint64 { return b.ts }

// SetTimestamp attaches the record's source timestamp to this buffer.
// It is set by the event encoder before the buffer is handed off to
// the packet assembler, which reads it back to compute a packet's
// start/stop timestamps.
func (b *Buffer) SetTimestamp(ts uint64) { b.ts = ts }

// Reset truncates the buffer to a prior offset, discarding everything
// encoded after it. Used to roll back a half-decoded field or payload.
func (b *Buffer) Reset(offset int) {
	if offset < 0 || offset > len(b.buf) {
		panic("ctf: Reset offset out of range")
	}
	b.buf = b.buf[:offset]
}

// EncodeUint8 appends a single byte.
func (b *Buffer) EncodeUint8(v uint8) {
	b.buf = append(b.buf, v)
}

// EncodeUint16 appends v little-endian.
func (b *Buffer) EncodeUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// EncodeUint32 appends v little-endian.
func (b *Buffer) EncodeUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// EncodeUint64 appends v little-endian.
func (b *Buffer) EncodeUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// EncodeBytes appends src verbatim.
func (b *Buffer) EncodeBytes(src []byte) {
	b.buf = append(b.buf, src...)
}

// EncodeString appends the bytes of s followed by a terminating 0x00.
func (b *Buffer) EncodeString(s string) {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
}

// EncodeGUID appends the 16-byte wire encoding of g (§3: Data1/Data2/Data3
// big-endian, Data4 verbatim — the RFC 4122 byte order of a uuid.UUID).
func (b *Buffer) EncodeGUID(g GUID) {
	b.buf = append(b.buf, g[:]...)
}

// ReserveUint32 reserves space for a u32 to be patched later with
// UpdateUint32, and returns its offset.
func (b *Buffer) ReserveUint32() int {
	off := len(b.buf)
	b.EncodeUint32(0)
	return off
}

// ReserveUint64 reserves space for a u64 to be patched later with
// UpdateUint64, and returns its offset.
func (b *Buffer) ReserveUint64() int {
	off := len(b.buf)
	b.EncodeUint64(0)
	return off
}

// UpdateUint32 overwrites a previously reserved u32 slot at offset.
func (b *Buffer) UpdateUint32(offset int, v uint32) {
	if offset < 0 || offset+4 > len(b.buf) {
		panic("ctf: UpdateUint32 offset out of range")
	}
	binary.LittleEndian.PutUint32(b.buf[offset:offset+4], v)
}

// UpdateUint64 overwrites a previously reserved u64 slot at offset.
func (b *Buffer) UpdateUint64(offset int, v uint64) {
	if offset < 0 || offset+8 > len(b.buf) {
		panic("ctf: UpdateUint64 offset out of range")
	}
	binary.LittleEndian.PutUint64(b.buf[offset:offset+8], v)
}

// Pad appends zero bytes until Size is a multiple of n. A no-op if
// n <= 0.
func (b *Buffer) Pad(n int) {
	if n <= 0 {
		return
	}
	for len(b.buf)%n != 0 {
		b.buf = append(b.buf, 0)
	}
}
