// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

// sendRawPayload encodes payload as a single opaque binary field
// wrapped in its own struct scope: a u16 byte count followed by the
// bytes themselves. This is the last-resort fallback when neither the
// scalar/property decoder nor any dissector could handle an event
// (§4.7) — it never fails, so the event is always encoded in the end.
func sendRawPayload(packet *Buffer, descr *Layout, payload []byte) {
	scope := uint64(len(descr.Fields))
	descr.AddField(Field{Type: StructBegin, Name: "RawData", Parent: RootScope})

	packet.EncodeUint16(uint16(len(payload)))
	descr.AddField(Field{Type: Uint16, Name: "Size", Parent: scope})

	packet.EncodeBytes(payload)
	descr.AddField(Field{Type: BinaryVar, Name: "Data", FieldSizeRef: "Size", Parent: scope})

	descr.AddField(Field{Type: StructEnd, Name: "RawData", Parent: RootScope})
}
