// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"bufio"
	"fmt"
	"io"
)

// WriteMetadata serializes dict as a textual CTF 1.8 metadata stream
// (§4.9): the typealiases and fixed preludes, the trace and stream
// declarations, the reserved id-0 "unknown" event, and one event
// block per dictionary entry, in insertion (and therefore id) order.
func WriteMetadata(w io.Writer, dict *Dictionary) error {
	bw := bufio.NewWriter(w)
	writePrelude(bw)
	writeTraceAndStream(bw)

	fmt.Fprint(bw, "event {\n\tid = 0;\n\tname = \"unknown\";\n\tfields := struct {\n\t\tuint8 cpuid;\n\t};\n};\n\n")

	for i := 0; i < dict.Len(); i++ {
		writeEvent(bw, dict.At(i), uint64(i+1))
	}
	return bw.Flush()
}

func writePrelude(w *bufio.Writer) {
	fmt.Fprint(w, "/* CTF 1.8 */\n\n")

	fmt.Fprint(w, "typealias integer { size = 1; align = 1; signed = false; } := bit;\n")
	for n := 1; n <= 31; n++ {
		fmt.Fprintf(w, "typealias integer { size = %d; align = 1; signed = false; } := bit%d;\n", n, n)
	}
	fmt.Fprint(w, "\n")

	for _, size := range []int{8, 16, 32, 64} {
		fmt.Fprintf(w, "typealias integer { size = %d; align = 8; signed = true; } := int%d;\n", size, size)
		fmt.Fprintf(w, "typealias integer { size = %d; align = 8; signed = false; } := uint%d;\n", size, size)
		fmt.Fprintf(w, "typealias integer { size = %d; align = 8; signed = false; base = 16; } := xint%d;\n", size, size)
	}
	fmt.Fprint(w, "\n")

	fmt.Fprint(w, "struct uuid {\n\txint32 Data1;\n\txint16 Data2;\n\txint16 Data3;\n\txint64 Data4;\n};\n\n")

	fmt.Fprint(w, "enum event_header_type : uint16 {\n")
	fmt.Fprint(w, "\tEXT_TYPE_NONE,\n\tEXT_TYPE_RELATED_ACTIVITYID,\n\tEXT_TYPE_SID,\n\tEXT_TYPE_TS_ID,\n")
	fmt.Fprint(w, "\tEXT_TYPE_INSTANCE_INFO,\n\tEXT_TYPE_STACK_TRACE32,\n\tEXT_TYPE_STACK_TRACE64\n};\n\n")

	fmt.Fprint(w, "struct event_header_flags {\n")
	fmt.Fprint(w, "\tbit7 unused;\n\tbit FLAG_CLASSIC_HEADER;\n\tbit FLAG_64_BIT_HEADER;\n\tbit FLAG_32_BIT_HEADER;\n")
	fmt.Fprint(w, "\tbit FLAG_NO_CPUTIME;\n\tbit FLAG_TRACE_MESSAGE;\n\tbit FLAG_STRING_ONLY;\n\tbit FLAG_PRIVATE_SESSION;\n")
	fmt.Fprint(w, "\tbit FLAG_EXTENDED_INFO;\n};\n\n")

	fmt.Fprint(w, "struct event_header_properties {\n")
	fmt.Fprint(w, "\tbit13 unused;\n\tbit EVENT_HEADER_PROPERTY_LEGACY_EVENTLOG;\n")
	fmt.Fprint(w, "\tbit EVENT_HEADER_PROPERTY_FORWARDED_XML;\n\tbit EVENT_HEADER_PROPERTY_XML;\n};\n\n")
}

// writeTraceAndStream emits the four fixed preludes §4.9 items 5–6
// name separately: trace.packet.header (magic + trace uuid only),
// stream.packet.context (the per-packet size/timestamp fields),
// stream.event.header (the per-event timestamp/id fields), and
// stream.event.context (the full §4.3 context field list). These do
// not share a block: packet.context is per-packet, event.context is
// per-event, and neither is the dictionary-driven per-event "fields"
// struct writeEvent emits below.
func writeTraceAndStream(w *bufio.Writer) {
	fmt.Fprint(w, "trace {\n")
	fmt.Fprint(w, "\tmajor = 1;\n\tminor = 8;\n")
	fmt.Fprintf(w, "\tuuid = \"%s\";\n", TraceGUID)
	fmt.Fprint(w, "\tbyte_order = le;\n")
	fmt.Fprint(w, "\tpacket.header := struct {\n\t\tuint32 magic;\n\t\txint8 uuid[16];\n\t};\n")
	fmt.Fprint(w, "};\n\n")

	fmt.Fprint(w, "stream {\n")
	fmt.Fprint(w, "\tpacket.context := struct {\n")
	fmt.Fprint(w, "\t\tuint32 content_size;\n\t\tuint32 packet_size;\n")
	fmt.Fprint(w, "\t\tuint64 timestamp_begin;\n\t\tuint64 timestamp_end;\n")
	fmt.Fprint(w, "\t};\n")
	fmt.Fprint(w, "\tevent.header := struct {\n\t\tuint64 timestamp;\n\t\tuint32 id;\n\t};\n")
	fmt.Fprint(w, "\tevent.context := struct {\n")
	fmt.Fprint(w, "\t\tuint16 ev_id;\n\t\tuint8 ev_version;\n\t\tuint8 ev_channel;\n\t\tuint8 ev_level;\n\t\tuint8 ev_opcode;\n")
	fmt.Fprint(w, "\t\tuint16 ev_task;\n\t\txint64 ev_keyword;\n\t\tuint32 pid;\n\t\tuint32 tid;\n\t\tuint8 cpu_id;\n")
	fmt.Fprint(w, "\t\tuint16 logger_id;\n\t\tstruct uuid provider_id;\n\t\tstruct uuid activity_id;\n")
	fmt.Fprint(w, "\t\tenum event_header_type header_type;\n")
	fmt.Fprint(w, "\t\txint16 header_flags;\n\t\tstruct event_header_flags header_flags_decoded;\n")
	fmt.Fprint(w, "\t\txint16 header_properties;\n\t\tstruct event_header_properties header_properties_decoded;\n")
	fmt.Fprint(w, "\t\tuint8 cpu_id_end;\n")
	fmt.Fprint(w, "\t};\n")
	fmt.Fprint(w, "};\n\n")
}

func writeEvent(w *bufio.Writer, layout Layout, id uint64) {
	fmt.Fprintf(w, "// guid: %s opcode: %d version: %d id: %d\n", layout.GUID, layout.Opcode, layout.Version, layout.EventID)
	fmt.Fprintf(w, "event {\n\tid = %d;\n\tname = %q;\n\tfields := struct {\n\t\tuint8 cpuid;\n", id, layout.Name)
	renderScope(w, layout.Fields, RootScope, "\t\t")
	fmt.Fprint(w, "\t};\n};\n\n")
}

// renderScope writes the struct members of the scope headed by parent:
// every Field whose Parent equals parent, each field's own flat-list
// index doubling as the scope id its children were recorded under
// (§4.2: AddField assigns it implicitly, by position).
func renderScope(w *bufio.Writer, fields []Field, parent uint64, indent string) {
	for i, f := range fields {
		if f.Parent != parent {
			continue
		}
		switch f.Type {
		case StructBegin:
			fmt.Fprintf(w, "%sstruct {\n", indent)
			renderScope(w, fields, uint64(i), indent+"\t")
			fmt.Fprintf(w, "%s} %s;\n", indent, f.Name)

		case StructEnd:
			// Closed by the StructBegin case above; nothing of its own
			// to emit.

		case ArrayFixed, ArrayVar:
			dim := fmt.Sprint(f.Size)
			if f.Type == ArrayVar {
				dim = f.FieldSizeRef
			}
			elem := -1
			for j, c := range fields {
				if c.Parent == uint64(i) {
					elem = j
					break
				}
			}
			if elem >= 0 && fields[elem].Type == StructBegin {
				fmt.Fprintf(w, "%sstruct {\n", indent)
				renderScope(w, fields, uint64(elem), indent+"\t")
				fmt.Fprintf(w, "%s} %s[%s];\n", indent, f.Name, dim)
			} else {
				fmt.Fprintf(w, "%s%s %s[%s];\n", indent, elementTypeOf(fields, uint64(i)), f.Name, dim)
			}

		case BinaryFixed:
			fmt.Fprintf(w, "%suint8 %s[%d];\n", indent, f.Name, f.Size)

		case BinaryVar:
			fmt.Fprintf(w, "%suint8 %s[%s];\n", indent, f.Name, f.FieldSizeRef)

		default:
			fmt.Fprintf(w, "%s%s %s;\n", indent, typeName(f.Type), f.Name)
		}
	}
}

// elementTypeOf returns the textual CTF type of the (homogeneous)
// elements nested directly under scope.
func elementTypeOf(fields []Field, scope uint64) string {
	for i, f := range fields {
		if f.Parent != scope {
			continue
		}
		if f.Type == StructBegin {
			return "struct" // rendered inline by the caller's own recursion
		}
		_ = i
		return typeName(f.Type)
	}
	return "uint8"
}

func typeName(t FieldType) string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Xint8:
		return "xint8"
	case Xint16:
		return "xint16"
	case Xint32:
		return "xint32"
	case Xint64:
		return "xint64"
	case String:
		return "string"
	case Guid:
		return "struct uuid"
	default:
		return "uint8"
	}
}
