// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbolinfo synthesizes symbol-resolution events for every
// module an ETW Image provider reports as loaded, supplementing the
// distilled spec from the original converter's SymbolsObserver
// (§13). Resolving an image's actual symbols requires a real symbol
// backend (dbghelp.dll on Windows), which is out of scope here: the
// lookup itself is pluggable through SymbolResolver, and NoopResolver
// — the default — simply finds none.
package symbolinfo

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/google/etw2ctf/ctf"
	"github.com/google/etw2ctf/etwprovider"
)

var (
	imageProviderGUID = uuid.MustParse("2CB15D1D-5FC1-11D2-ABE1-00A0C911F518")
	symbolsEventGUID  = uuid.MustParse("6739ACC2-E99C-48F7-BB69-5B13901590D5")
)

const (
	imageOpcodeDCStart     = 3
	imageOpcodeLoad        = 10
	symbolOpcodeImageID    = 0x0a
	symbolOpcodeSymbolInfo = 0x0b
)

// Image describes one loaded module, as reported by an Image
// provider DCStart or Load event.
type Image struct {
	Base      uint64
	Size      uint64
	Checksum  uint32
	Timestamp uint32
	FileName  string
}

// Symbol is one resolved symbol within an Image.
type Symbol struct {
	Name    string
	Address uint64
}

// SymbolResolver resolves the symbols defined by an image.
type SymbolResolver interface {
	Resolve(img Image) ([]Symbol, error)
}

// NoopResolver implements SymbolResolver by finding nothing.
type NoopResolver struct{}

func (NoopResolver) Resolve(Image) ([]Symbol, error) { return nil, nil }

type imageKey struct {
	base, size          uint64
	checksum, timestamp uint32
	fileName            string
}

// Observer watches Image provider events and, the first time each
// distinct image is seen, emits a SymbolImageId event followed by one
// SymbolInfo event per symbol Resolver finds (§13). If Resolve fails or
// finds no symbols, no event is emitted for that image.
//
// Observer is stateful across the hooks of a single event and is not
// safe for concurrent use; the pipeline drives observers
// single-threaded and synchronously, one event at a time (§5).
type Observer struct {
	ctf.NopObserver
	Resolver SymbolResolver

	seen map[imageKey]bool

	tracking bool
	image    Image
}

// New returns an Observer that resolves images with resolver. A nil
// resolver is replaced with NoopResolver.
func New(resolver SymbolResolver) *Observer {
	if resolver == nil {
		resolver = NoopResolver{}
	}
	return &Observer{Resolver: resolver, seen: make(map[imageKey]bool)}
}

// OnExtractEventInfo implements ctf.Observer.
func (o *Observer) OnExtractEventInfo(sink ctf.Sink, rec *etwprovider.Record, info *etwprovider.EventInfo) {
	o.tracking = rec.ProviderID == imageProviderGUID &&
		(rec.Descriptor.Opcode == imageOpcodeDCStart || rec.Descriptor.Opcode == imageOpcodeLoad)
	o.image = Image{}
}

// OnDecodePayloadField implements ctf.Observer, capturing the fields
// of a tracked Image event as they are decoded.
func (o *Observer) OnDecodePayloadField(sink ctf.Sink, parent uint64, element int, name string, inType etwprovider.InType, outType etwprovider.OutType, size int, data []byte) {
	if !o.tracking || parent != ctf.RootScope {
		return
	}
	switch name {
	case "ImageBase":
		o.image.Base = readUint(data)
	case "ImageSize":
		o.image.Size = readUint(data)
	case "ImageChecksum":
		o.image.Checksum = uint32(readUint(data))
	case "TimeDateStamp":
		o.image.Timestamp = uint32(readUint(data))
	case "FileName":
		o.image.FileName = decodeName(inType, data)
	}
}

// OnEndProcessEvent implements ctf.Observer: once a tracked Image
// event finishes decoding, resolve its symbols (deduplicating on the
// image's identity) and push the synthesized events.
func (o *Observer) OnEndProcessEvent(sink ctf.Sink, rec *etwprovider.Record) {
	if !o.tracking {
		return
	}
	o.tracking = false

	key := imageKey{o.image.Base, o.image.Size, o.image.Checksum, o.image.Timestamp, o.image.FileName}
	if o.seen[key] {
		return
	}
	o.seen[key] = true

	symbols, err := o.Resolver.Resolve(o.image)
	if err != nil || len(symbols) == 0 {
		return
	}

	// Synthesized events carry the triggering record's context with
	// process/thread/cpu zeroed and this observer's own provider GUID.
	ctxRec := *rec
	ctxRec.ProcessID, ctxRec.ThreadID, ctxRec.ProcessorID = 0, 0, 0
	ctxRec.ProviderID = symbolsEventGUID
	o.emitImageID(sink, &ctxRec)
	for _, s := range symbols {
		o.emitSymbolInfo(sink, &ctxRec, s)
	}
}

func (o *Observer) emitImageID(sink ctf.Sink, rec *etwprovider.Record) {
	buf := &ctf.Buffer{}
	buf.SetTimestamp(rec.Timestamp)
	buf.EncodeUint64(rec.Timestamp)
	idOffset := buf.ReserveUint32()
	ctf.EncodeContext(buf, rec)

	descr := &ctf.Layout{
		Name:    "SymbolImageId",
		GUID:    symbolsEventGUID,
		Opcode:  symbolOpcodeImageID,
		Version: 1,
	}
	buf.EncodeString(o.image.FileName)
	descr.AddField(ctf.Field{Type: ctf.String, Name: "ImageIdentifier", Parent: ctf.RootScope})

	id := sink.GetIDFor(*descr)
	buf.UpdateUint32(idOffset, uint32(id))
	sink.AddPacket(buf)
}

func (o *Observer) emitSymbolInfo(sink ctf.Sink, rec *etwprovider.Record, sym Symbol) {
	buf := &ctf.Buffer{}
	buf.SetTimestamp(rec.Timestamp)
	buf.EncodeUint64(rec.Timestamp)
	idOffset := buf.ReserveUint32()
	ctf.EncodeContext(buf, rec)

	descr := &ctf.Layout{
		Name:    "SymbolInfo",
		GUID:    symbolsEventGUID,
		Opcode:  symbolOpcodeSymbolInfo,
		Version: 1,
	}
	buf.EncodeString(sym.Name)
	descr.AddField(ctf.Field{Type: ctf.String, Name: "SymbolName", Parent: ctf.RootScope})
	buf.EncodeUint64(sym.Address)
	descr.AddField(ctf.Field{Type: ctf.Uint64, Name: "SymbolAddress", Parent: ctf.RootScope})

	id := sink.GetIDFor(*descr)
	buf.UpdateUint32(idOffset, uint32(id))
	sink.AddPacket(buf)
}

func readUint(data []byte) uint64 {
	switch len(data) {
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	case 8:
		return binary.LittleEndian.Uint64(data)
	default:
		return 0
	}
}

func decodeName(inType etwprovider.InType, data []byte) string {
	if inType == etwprovider.InTypeUnicodeString {
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
	for i, c := range data {
		if c == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
