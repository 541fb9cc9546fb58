// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synthetic

import "encoding/binary"

// Helpers for building the per-property byte slices an Event carries,
// matching the wire encodings DecodeScalar expects on the other end.

// Uint32Bytes little-endian encodes v.
func Uint32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// Uint64Bytes little-endian encodes v.
func Uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// Uint16Bytes little-endian encodes v.
func Uint16Bytes(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// WideStringBytes encodes s as null-terminated UTF-16LE, the wire form
// of InTypeUnicodeString.
func WideStringBytes(s string) []byte {
	b := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(r))
		b = append(b, tmp[:]...)
	}
	return append(b, 0, 0)
}

// AnsiStringBytes encodes s as null-terminated ASCII/Latin-1.
func AnsiStringBytes(s string) []byte {
	return append([]byte(s), 0)
}

// GUIDBytes encodes g in the in-memory Windows GUID layout (Data1/2/3
// little-endian, Data4 verbatim) that DecodeScalar's decodeWireGUID
// expects to read back.
func GUIDBytes(data1 uint32, data2, data3 uint16, data4 [8]byte) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[0:4], data1)
	binary.LittleEndian.PutUint16(b[4:6], data2)
	binary.LittleEndian.PutUint16(b[6:8], data3)
	copy(b[8:16], data4[:])
	return b
}
