// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolinfo

import (
	"testing"

	"github.com/google/etw2ctf/ctf"
	"github.com/google/etw2ctf/etwprovider"
	"github.com/google/etw2ctf/etwprovider/synthetic"
)

type fakeResolver struct {
	symbols []Symbol
	calls   int
}

func (f *fakeResolver) Resolve(img Image) ([]Symbol, error) {
	f.calls++
	return f.symbols, nil
}

type fakeSink struct {
	dict    ctf.Dictionary
	packets []*ctf.Buffer
}

func (s *fakeSink) GetIDFor(l ctf.Layout) uint64 { return s.dict.GetIDFor(l) }
func (s *fakeSink) AddPacket(b *ctf.Buffer)       { s.packets = append(s.packets, b) }

func TestObserverEmitsSymbolsOnImageLoad(t *testing.T) {
	resolver := &fakeResolver{symbols: []Symbol{{Name: "foo", Address: 0x1000}}}
	o := New(resolver)
	sink := &fakeSink{}

	rec := &etwprovider.Record{
		Descriptor: etwprovider.Descriptor{Opcode: imageOpcodeLoad},
		ProviderID: imageProviderGUID,
	}
	info := &etwprovider.EventInfo{}

	o.OnExtractEventInfo(sink, rec, info)
	o.OnDecodePayloadField(sink, ctf.RootScope, 0, "ImageBase", etwprovider.InTypeUint64, etwprovider.OutTypeDefault, 8, synthetic.Uint64Bytes(0x400000))
	o.OnDecodePayloadField(sink, ctf.RootScope, 0, "FileName", etwprovider.InTypeUnicodeString, etwprovider.OutTypeDefault, 0, synthetic.WideStringBytes("mod.dll"))
	o.OnEndProcessEvent(sink, rec)

	if resolver.calls != 1 {
		t.Fatalf("Resolve called %d times, want 1", resolver.calls)
	}
	// One SymbolImageId event plus one SymbolInfo event per symbol.
	if len(sink.packets) != 2 {
		t.Fatalf("len(packets) = %d, want 2", len(sink.packets))
	}
}

func TestObserverSynthesizedEventsCarryFullContext(t *testing.T) {
	resolver := &fakeResolver{symbols: []Symbol{{Name: "foo", Address: 0x1000}}}
	o := New(resolver)
	sink := &fakeSink{}

	rec := &etwprovider.Record{
		Descriptor: etwprovider.Descriptor{ID: 7, Opcode: imageOpcodeLoad, Version: 2},
		ProviderID: imageProviderGUID,
		ProcessID:  111,
		ThreadID:   222,
	}
	info := &etwprovider.EventInfo{}

	o.OnExtractEventInfo(sink, rec, info)
	o.OnDecodePayloadField(sink, ctf.RootScope, 0, "ImageBase", etwprovider.InTypeUint64, etwprovider.OutTypeDefault, 8, synthetic.Uint64Bytes(0x400000))
	o.OnDecodePayloadField(sink, ctf.RootScope, 0, "FileName", etwprovider.InTypeUnicodeString, etwprovider.OutTypeDefault, 0, synthetic.WideStringBytes("mod.dll"))
	o.OnEndProcessEvent(sink, rec)

	if len(sink.packets) != 2 {
		t.Fatalf("len(packets) = %d, want 2", len(sink.packets))
	}
	// timestamp(8) + event id(4) + the same 70-byte fixed context every
	// real event gets (§4.3, §13): synthesized events must not use a
	// shorter, bespoke header.
	const minHeaderSize = 8 + 4 + 70
	for i, p := range sink.packets {
		if p.Size() < minHeaderSize {
			t.Errorf("packet %d size = %d, want at least %d (missing context block)", i, p.Size(), minHeaderSize)
		}
	}
}

func TestObserverDedupsRepeatedImage(t *testing.T) {
	resolver := &fakeResolver{symbols: []Symbol{{Name: "foo", Address: 1}}}
	o := New(resolver)
	sink := &fakeSink{}

	rec := &etwprovider.Record{
		Descriptor: etwprovider.Descriptor{Opcode: imageOpcodeLoad},
		ProviderID: imageProviderGUID,
	}
	info := &etwprovider.EventInfo{}

	for i := 0; i < 2; i++ {
		o.OnExtractEventInfo(sink, rec, info)
		o.OnDecodePayloadField(sink, ctf.RootScope, 0, "ImageBase", etwprovider.InTypeUint64, etwprovider.OutTypeDefault, 8, synthetic.Uint64Bytes(0x400000))
		o.OnEndProcessEvent(sink, rec)
	}

	if resolver.calls != 1 {
		t.Fatalf("Resolve called %d times, want 1 (second load should be deduped)", resolver.calls)
	}
}

func TestObserverIgnoresUnrelatedEvents(t *testing.T) {
	resolver := &fakeResolver{symbols: []Symbol{{Name: "foo", Address: 1}}}
	o := New(resolver)
	sink := &fakeSink{}

	rec := &etwprovider.Record{Descriptor: etwprovider.Descriptor{Opcode: 1}}
	info := &etwprovider.EventInfo{}

	o.OnExtractEventInfo(sink, rec, info)
	o.OnEndProcessEvent(sink, rec)

	if resolver.calls != 0 {
		t.Fatalf("Resolve called %d times, want 0 for an unrelated event", resolver.calls)
	}
}
