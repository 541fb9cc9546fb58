// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

// PacketMagic is the magic number every CTF packet begins with (§6).
const PacketMagic = 0xC1FC1FC1

// Assembler groups encoded event buffers, as produced by EncodeEvent,
// into fixed-maximum-size CTF packets (§4.1). A driver pushes event
// buffers in arrival order with Push and drains complete packets with
// Pop; Pop is also used to flush a final, possibly undersized packet
// at end of stream.
type Assembler struct {
	maxPacketSize int // bytes, including header and zero padding
	pending       []*Buffer
	pendingSize   int
}

// NewAssembler returns an Assembler that packs events into packets of
// at most maxPacketSize bytes.
func NewAssembler(maxPacketSize int) *Assembler {
	return &Assembler{maxPacketSize: maxPacketSize}
}

// Push enqueues one encoded event buffer.
func (a *Assembler) Push(buf *Buffer) {
	a.pending = append(a.pending, buf)
	a.pendingSize += buf.Size()
}

// Ready reports whether enough bytes are queued to guarantee Pop
// produces a full-size packet.
func (a *Assembler) Ready() bool {
	return len(a.pending) > 0 && a.pendingSize >= a.maxPacketSize
}

// Empty reports whether the queue holds no events.
func (a *Assembler) Empty() bool { return len(a.pending) == 0 }

// Pop drains the queue into one packet with a fully patched header.
// At least one event is always included, even if that single event's
// buffer alone exceeds maxPacketSize: a packet is never empty, and a
// single event is never split across two packets. Pop panics if the
// queue is empty.
func (a *Assembler) Pop() *Buffer {
	if a.Empty() {
		panic("ctf: Pop on empty assembler")
	}

	packet := &Buffer{}
	hdr := encodePacketHeader(packet)

	var minTS, maxTS uint64
	i := 0
	for i < len(a.pending) {
		ev := a.pending[i]
		if i > 0 && packet.Size()+ev.Size() > a.maxPacketSize {
			break
		}
		packet.EncodeBytes(ev.Bytes())
		if i == 0 || ev.Timestamp() < minTS {
			minTS = ev.Timestamp()
		}
		if i == 0 || ev.Timestamp() > maxTS {
			maxTS = ev.Timestamp()
		}
		i++
	}

	contentBits := uint32(packet.Size()) * 8
	packet.Pad(a.maxPacketSize)
	packetBits := uint32(packet.Size()) * 8
	hdr.patch(packet, contentBits, packetBits, minTS, maxTS)

	remaining := a.pending[i:]
	a.pending = append([]*Buffer(nil), remaining...)
	a.pendingSize = 0
	for _, ev := range a.pending {
		a.pendingSize += ev.Size()
	}
	return packet
}

// packetHeaderOffsets records where Pop must patch in the sizes and
// timestamps it only learns once every event has been drained.
type packetHeaderOffsets struct {
	contentBits int
	packetBits  int
	tsBegin     int
	tsEnd       int
}

// encodePacketHeader writes the fixed-layout packet header (§6: magic,
// trace uuid, content size in bits, packet size in bits, begin/end
// timestamps) with the four trailing fields reserved for patch.
// content_size and packet_size are u32 (§4.6 step 1, §6); only the
// timestamps are u64.
func encodePacketHeader(packet *Buffer) packetHeaderOffsets {
	packet.EncodeUint32(PacketMagic)
	packet.EncodeGUID(TraceGUID)
	return packetHeaderOffsets{
		contentBits: packet.ReserveUint32(),
		packetBits:  packet.ReserveUint32(),
		tsBegin:     packet.ReserveUint64(),
		tsEnd:       packet.ReserveUint64(),
	}
}

func (o packetHeaderOffsets) patch(packet *Buffer, contentBits, packetBits uint32, tsBegin, tsEnd uint64) {
	packet.UpdateUint32(o.contentBits, contentBits)
	packet.UpdateUint32(o.packetBits, packetBits)
	packet.UpdateUint64(o.tsBegin, tsBegin)
	packet.UpdateUint64(o.tsEnd, tsEnd)
}
