// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chrome decodes the Chrome browser's ETW provider, which
// emits its own compact binary payload rather than a TDH-describable
// schema: the internal event kind and argument count are packed into
// the event opcode, and the payload is a flat sequence of
// null-terminated strings with no schema the TDH property decoder can
// resolve (§13, supplemented from the original converter's Chrome
// dissector).
package chrome

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/google/etw2ctf/ctf"
)

var providerGUID = uuid.MustParse("D2D578D9-2936-45B6-A09F-30E32715F41D")

// internalEventTypeNames is indexed by opcode>>4, the Chrome-internal
// event kind packed into the high nibble of the ETW opcode.
var internalEventTypeNames = [16]string{
	"ChromeBegin",
	"ChromeEnd",
	"ChromeCompleteBegin",
	"ChromeCompleteEnd",
	"ChromeInstant",
	"ChromeAsyncBegin",
	"ChromeAsyncStepInto",
	"ChromeAsyncStepPast",
	"ChromeAsyncEnd",
	"ChromeFlowBegin",
	"ChromeFlowStep",
	"ChromeFlowEnd",
	"ChromeMetadata",
	"ChromeCounter",
	"ChromeSample",
	"ChromeCreateObject",
}

func init() {
	ctf.RegisterDissector(Dissector{})
}

// Dissector decodes Chrome provider events.
type Dissector struct{}

// Name implements ctf.Dissector.
func (Dissector) Name() string { return "chrome" }

// Decode implements ctf.Dissector. The payload layout is: a
// null-terminated event name, a u64 id, a null-terminated
// category-list string, then (opcode & 0x07) (arg_name, arg_value)
// null-terminated string pairs, and, if opcode & 0x08 is set, a u32
// stack depth followed by that many u64 stack addresses.
func (Dissector) Decode(guid ctf.GUID, opcode uint8, payload []byte, packet *ctf.Buffer, descr *ctf.Layout) bool {
	if guid != providerGUID {
		return false
	}
	internalType := opcode >> 4
	if int(internalType) >= len(internalEventTypeNames) {
		return false
	}
	hasStack := opcode&0x08 != 0
	numArgs := int(opcode & 0x07)

	c := cursor{data: payload}
	name, ok := c.cstring()
	if !ok {
		return false
	}
	id, ok := c.uint64()
	if !ok {
		return false
	}
	categories, ok := c.cstring()
	if !ok {
		return false
	}

	type argPair struct{ name, value string }
	args := make([]argPair, 0, numArgs)
	for i := 0; i < numArgs; i++ {
		argName, ok := c.cstring()
		if !ok {
			return false
		}
		argValue, ok := c.cstring()
		if !ok {
			return false
		}
		args = append(args, argPair{argName, argValue})
	}

	var stack []uint64
	if hasStack {
		n, ok := c.uint32()
		if !ok {
			return false
		}
		stack = make([]uint64, n)
		for i := range stack {
			v, ok := c.uint64()
			if !ok {
				return false
			}
			stack[i] = v
		}
	}

	descr.Name = internalEventTypeNames[internalType]

	packet.EncodeString(name)
	descr.AddField(ctf.Field{Type: ctf.String, Name: "name", Parent: ctf.RootScope})

	packet.EncodeUint64(id)
	descr.AddField(ctf.Field{Type: ctf.Uint64, Name: "id", Parent: ctf.RootScope})

	packet.EncodeString(categories)
	descr.AddField(ctf.Field{Type: ctf.String, Name: "categories", Parent: ctf.RootScope})

	if numArgs > 0 {
		arrayScope := uint64(len(descr.Fields))
		descr.AddField(ctf.Field{Type: ctf.ArrayFixed, Name: "arguments", Size: uint64(numArgs), Parent: ctf.RootScope})
		for _, a := range args {
			pairScope := uint64(len(descr.Fields))
			descr.AddField(ctf.Field{Type: ctf.StructBegin, Name: "arguments", Parent: arrayScope})
			packet.EncodeString(a.name)
			descr.AddField(ctf.Field{Type: ctf.String, Name: "arg_name", Parent: pairScope})
			packet.EncodeString(a.value)
			descr.AddField(ctf.Field{Type: ctf.String, Name: "arg_value", Parent: pairScope})
			descr.AddField(ctf.Field{Type: ctf.StructEnd, Name: "arguments", Parent: arrayScope})
		}
	}

	if hasStack {
		packet.EncodeUint32(uint32(len(stack)))
		descr.AddField(ctf.Field{Type: ctf.Uint32, Name: "stack_size", Parent: ctf.RootScope})
		stackScope := uint64(len(descr.Fields))
		descr.AddField(ctf.Field{Type: ctf.ArrayVar, Name: "stack", FieldSizeRef: "stack_size", Parent: ctf.RootScope})
		for _, v := range stack {
			packet.EncodeUint64(v)
			descr.AddField(ctf.Field{Type: ctf.Uint64, Name: "stack", Parent: stackScope})
		}
	}

	return true
}

// cursor reads little-endian primitives off a byte slice, failing
// (rather than panicking) on a short read.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) cstring() (string, bool) {
	start := c.pos
	for c.pos < len(c.data) {
		if c.data[c.pos] == 0 {
			s := string(c.data[start:c.pos])
			c.pos++
			return s, true
		}
		c.pos++
	}
	return "", false
}

func (c *cursor) uint32() (uint32, bool) {
	if c.pos+4 > len(c.data) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, true
}

func (c *cursor) uint64() (uint64, bool) {
	if c.pos+8 > len(c.data) {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, true
}
