// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteMetadataIncludesEventsInIDOrder(t *testing.T) {
	var dict Dictionary
	dict.GetIDFor(Layout{Name: "First", Fields: []Field{{Type: Uint32, Name: "a", Parent: RootScope}}})
	dict.GetIDFor(Layout{Name: "Second", Fields: []Field{{Type: String, Name: "b", Parent: RootScope}}})

	var buf bytes.Buffer
	if err := WriteMetadata(&buf, &dict); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "/* CTF 1.8 */") {
		t.Error("missing CTF prelude")
	}
	if !strings.Contains(out, `id = 0;`) || !strings.Contains(out, `name = "unknown";`) {
		t.Error("missing the reserved id-0 unknown event")
	}
	unknownIdx := strings.Index(out, `name = "unknown";`)
	if unknownIdx == -1 || !strings.Contains(out[unknownIdx:unknownIdx+80], "uint8 cpuid;") {
		t.Error("the unknown event's fields struct must lead with uint8 cpuid;")
	}

	firstIdx := strings.Index(out, `name = "First"`)
	secondIdx := strings.Index(out, `name = "Second"`)
	if firstIdx == -1 || secondIdx == -1 {
		t.Fatalf("both event names must appear in output:\n%s", out)
	}
	if firstIdx > secondIdx {
		t.Error("events must be serialized in dictionary (id) order")
	}
}

func TestWriteMetadataRendersNestedStruct(t *testing.T) {
	var dict Dictionary
	l := Layout{Name: "Raw"}
	l.AddField(Field{Type: StructBegin, Name: "RawData", Parent: RootScope})
	l.AddField(Field{Type: Uint16, Name: "Size", Parent: 0})
	l.AddField(Field{Type: BinaryVar, Name: "Data", FieldSizeRef: "Size", Parent: 0})
	l.AddField(Field{Type: StructEnd, Name: "RawData", Parent: RootScope})
	dict.GetIDFor(l)

	var buf bytes.Buffer
	if err := WriteMetadata(&buf, &dict); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "struct {") {
		t.Errorf("expected a nested struct block:\n%s", out)
	}
	if !strings.Contains(out, "uint8 Data[Size];") {
		t.Errorf("expected a variable-length binary field referencing its size field:\n%s", out)
	}
}

func TestWriteMetadataEventFieldsLeadWithCpuid(t *testing.T) {
	var dict Dictionary
	dict.GetIDFor(Layout{Name: "First", Fields: []Field{{Type: Uint32, Name: "a", Parent: RootScope}}})

	var buf bytes.Buffer
	if err := WriteMetadata(&buf, &dict); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}
	out := buf.String()

	idx := strings.Index(out, `name = "First"`)
	if idx == -1 {
		t.Fatalf("event First not found:\n%s", out)
	}
	fieldsIdx := strings.Index(out[idx:], "fields := struct {")
	if fieldsIdx == -1 {
		t.Fatalf("fields struct not found:\n%s", out)
	}
	after := out[idx+fieldsIdx:]
	cpuidIdx := strings.Index(after, "uint8 cpuid;")
	aIdx := strings.Index(after, "uint32 a;")
	if cpuidIdx == -1 || aIdx == -1 {
		t.Fatalf("expected both cpuid and a fields:\n%s", after)
	}
	if cpuidIdx > aIdx {
		t.Error("uint8 cpuid; must precede the decoded payload fields")
	}
}

func TestWriteMetadataUsesBareTypeNamesAndBaseSixteen(t *testing.T) {
	var dict Dictionary
	var buf bytes.Buffer
	if err := WriteMetadata(&buf, &dict); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "} := int8;") || !strings.Contains(out, "} := uint8;") || !strings.Contains(out, "base = 16; } := xint8;") {
		t.Errorf("expected bare int8/uint8/xint8 typealiases with base = 16:\n%s", out)
	}
	if strings.Contains(out, "int8_t") || strings.Contains(out, "base = hex") {
		t.Errorf("typealiases must not use the _t suffix or base = hex:\n%s", out)
	}
}

func TestWriteMetadataDeclaresThreeSeparateContextBlocks(t *testing.T) {
	var dict Dictionary
	var buf bytes.Buffer
	if err := WriteMetadata(&buf, &dict); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "packet.header := struct {\n\t\tuint32 magic;\n\t\txint8 uuid[16];\n\t};") {
		t.Errorf("trace.packet.header must declare only magic and the raw trace uuid:\n%s", out)
	}
	if !strings.Contains(out, "packet.context := struct {\n\t\tuint32 content_size;\n\t\tuint32 packet_size;") {
		t.Errorf("stream.packet.context must declare the per-packet size/timestamp fields:\n%s", out)
	}
	if !strings.Contains(out, "event.context := struct {\n\t\tuint16 ev_id;") {
		t.Errorf("stream.event.context must declare the full §4.3 context field list:\n%s", out)
	}
	if !strings.Contains(out, "struct uuid provider_id;") || !strings.Contains(out, "struct uuid activity_id;") {
		t.Errorf("event.context must declare both provider and activity uuids:\n%s", out)
	}
}
