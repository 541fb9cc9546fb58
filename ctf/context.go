// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import "github.com/google/etw2ctf/etwprovider"

// encodeContext appends rec's fixed context block to packet, in the
// exact order and width §4.3 mandates:
//
//	u16 ev_id, u8 ev_version, u8 ev_channel, u8 ev_level, u8 ev_opcode,
//	u16 ev_task, u64 ev_keyword, u32 pid, u32 tid, u8 cpu_id,
//	u16 logger_id, uuid provider, uuid activity, u16 header_type,
//	u16 flags, u16 flags (repeated), u16 properties,
//	u16 properties (repeated), u8 cpu_id (repeated).
//
// The repeated flags/properties/cpu_id fields are deliberate (§9): the
// metadata declares both a hex view and a bitfield-struct view over
// the same bits, and a trailing cpu_id view besides.
// EncodeContext is the exported form of encodeContext, for dissectors
// and observers outside this package that synthesize their own events
// (§13): it lets them reuse the exact same context-block layout real
// events get instead of a bespoke, shorter header.
func EncodeContext(packet *Buffer, rec *etwprovider.Record) {
	encodeContext(packet, rec)
}

func encodeContext(packet *Buffer, rec *etwprovider.Record) {
	packet.EncodeUint16(rec.Descriptor.ID)
	packet.EncodeUint8(rec.Descriptor.Version)
	packet.EncodeUint8(rec.Descriptor.Channel)
	packet.EncodeUint8(rec.Descriptor.Level)
	packet.EncodeUint8(rec.Descriptor.Opcode)
	packet.EncodeUint16(rec.Descriptor.Task)
	packet.EncodeUint64(rec.Descriptor.Keyword)
	packet.EncodeUint32(rec.ProcessID)
	packet.EncodeUint32(rec.ThreadID)
	packet.EncodeUint8(rec.ProcessorID)
	packet.EncodeUint16(rec.LoggerID)
	packet.EncodeGUID(rec.ProviderID)
	packet.EncodeGUID(rec.ActivityID)
	packet.EncodeUint16(rec.HeaderType)
	packet.EncodeUint16(uint16(rec.Flags))
	packet.EncodeUint16(uint16(rec.Flags))
	packet.EncodeUint16(rec.Properties)
	packet.EncodeUint16(rec.Properties)
	packet.EncodeUint8(rec.ProcessorID)
}
