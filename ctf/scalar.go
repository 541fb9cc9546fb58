// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/google/etw2ctf/etwprovider"
)

// ErrUnsupportedScalar is returned by DecodeScalar for an in/out-type
// combination or size the dispatch table (§4.4) does not recognize.
// It is a Skip-event condition (§7): callers roll back and fall
// through to dissectors, then the raw-payload fallback.
type ErrUnsupportedScalar struct {
	InType  etwprovider.InType
	OutType etwprovider.OutType
	Size    int
}

func (e *ErrUnsupportedScalar) Error() string {
	return fmt.Sprintf("ctf: unsupported scalar in_type=%d out_type=%d size=%d", e.InType, e.OutType, e.Size)
}

// DecodeScalar turns a raw property byte range plus a (in-type,
// out-type, size) tuple into a typed value appended to packet and a
// corresponding Field descriptor (§4.4).
//
// On failure packet is left unchanged; the caller is responsible for
// rolling back its own Field/descriptor bookkeeping.
func DecodeScalar(packet *Buffer, parent uint64, name string, inType etwprovider.InType, outType etwprovider.OutType, size int, data []byte) (Field, error) {
	fail := func() (Field, error) {
		return Field{}, &ErrUnsupportedScalar{inType, outType, size}
	}

	switch inType {
	case etwprovider.InTypeUnicodeString:
		packet.EncodeString(narrowUTF16(data))
		return Field{Type: String, Name: name, Parent: parent}, nil

	case etwprovider.InTypeAnsiString:
		packet.EncodeString(cString(data))
		return Field{Type: String, Name: name, Parent: parent}, nil

	case etwprovider.InTypeUnicodeChar:
		if size != 2 {
			return fail()
		}
		packet.EncodeUint16(binary.LittleEndian.Uint16(data))
		return Field{Type: Xint16, Name: name, Parent: parent}, nil

	case etwprovider.InTypeAnsiChar, etwprovider.InTypeInt8, etwprovider.InTypeUint8:
		if size != 1 {
			return fail()
		}
		ft := Uint8
		if inType == etwprovider.InTypeInt8 {
			ft = Int8
		}
		switch outType {
		case etwprovider.OutTypeHexInt8:
			ft = Xint8
		case etwprovider.OutTypeByte:
			ft = Int8
		case etwprovider.OutTypeUnsignedByte:
			ft = Uint8
		}
		packet.EncodeUint8(data[0])
		return Field{Type: ft, Name: name, Parent: parent}, nil

	case etwprovider.InTypeInt16, etwprovider.InTypeUint16:
		if size != 2 {
			return fail()
		}
		ft := Uint16
		if inType == etwprovider.InTypeInt16 {
			ft = Int16
		}
		switch outType {
		case etwprovider.OutTypeHexInt16:
			ft = Xint16
		case etwprovider.OutTypeShort:
			ft = Int16
		case etwprovider.OutTypeUnsignedShort:
			ft = Uint16
		}
		packet.EncodeUint16(binary.LittleEndian.Uint16(data))
		return Field{Type: ft, Name: name, Parent: parent}, nil

	case etwprovider.InTypeInt32, etwprovider.InTypeUint32:
		if size != 4 {
			return fail()
		}
		ft := Uint32
		if inType == etwprovider.InTypeInt32 {
			ft = Int32
		}
		switch outType {
		case etwprovider.OutTypeHexInt32:
			ft = Xint32
		case etwprovider.OutTypeInt:
			ft = Int32
		case etwprovider.OutTypeUnsignedInt:
			ft = Uint32
		}
		packet.EncodeUint32(binary.LittleEndian.Uint32(data))
		return Field{Type: ft, Name: name, Parent: parent}, nil

	case etwprovider.InTypeInt64, etwprovider.InTypeUint64:
		if size != 8 {
			return fail()
		}
		ft := Uint64
		if inType == etwprovider.InTypeInt64 {
			ft = Int64
		}
		if outType == etwprovider.OutTypeHexInt64 {
			ft = Xint64
		}
		packet.EncodeUint64(binary.LittleEndian.Uint64(data))
		return Field{Type: ft, Name: name, Parent: parent}, nil

	case etwprovider.InTypeBoolean:
		var raw uint64
		switch size {
		case 1:
			raw = uint64(data[0])
		case 4:
			raw = uint64(binary.LittleEndian.Uint32(data))
		default:
			return fail()
		}
		var v uint8
		if raw != 0 {
			v = 1
		}
		packet.EncodeUint8(v)
		return Field{Type: Uint8, Name: name, Parent: parent}, nil

	case etwprovider.InTypeGUID:
		if size != 16 {
			return fail()
		}
		packet.EncodeGUID(decodeWireGUID(data))
		return Field{Type: Guid, Name: name, Parent: parent}, nil

	case etwprovider.InTypePointer, etwprovider.InTypeSizeT:
		switch size {
		case 4:
			packet.EncodeUint32(binary.LittleEndian.Uint32(data))
			return Field{Type: Xint32, Name: name, Parent: parent}, nil
		case 8:
			packet.EncodeUint64(binary.LittleEndian.Uint64(data))
			return Field{Type: Xint64, Name: name, Parent: parent}, nil
		default:
			return fail()
		}

	default:
		return fail()
	}
}

// cString returns the bytes of data up to (excluding) the first 0x00.
func cString(data []byte) string {
	for i, c := range data {
		if c == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

// narrowUTF16 transcodes little-endian UTF-16 code units to a narrow
// string by truncating each unit to its low 8 bits, stopping at the
// first null code unit. This matches the original's documented
// deficiency (spec §9): it is only correct for code units <= 0xFF and
// is kept byte-for-byte compatible with it rather than "fixed" to
// UTF-8, so bit-exact output (§8 scenario 1) is preserved.
func narrowUTF16(data []byte) string {
	buf := make([]byte, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		unit := binary.LittleEndian.Uint16(data[i:])
		if unit == 0 {
			break
		}
		buf = append(buf, byte(unit))
	}
	return string(buf)
}

// decodeWireGUID reinterprets 16 bytes holding an in-memory Windows
// GUID (Data1/Data2/Data3 little-endian, Data4 verbatim) as a GUID in
// our big-endian wire representation.
func decodeWireGUID(data []byte) GUID {
	var wire [16]byte
	binary.BigEndian.PutUint32(wire[0:4], binary.LittleEndian.Uint32(data[0:4]))
	binary.BigEndian.PutUint16(wire[4:6], binary.LittleEndian.Uint16(data[4:6]))
	binary.BigEndian.PutUint16(wire[6:8], binary.LittleEndian.Uint16(data[6:8]))
	copy(wire[8:16], data[8:16])
	g, _ := uuid.FromBytes(wire[:])
	return g
}
