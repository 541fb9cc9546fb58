// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/google/etw2ctf/etwprovider"
)

// ErrUnsupportedPayload reports that DecodePayload could not decode an
// event's schema and the caller should fall back to the raw-payload
// encoding (§4.7).
var ErrUnsupportedPayload = errors.New("ctf: unsupported payload")

// FieldScratch holds the reusable property buffer DecodePayload drives
// the provider with. Callers keep one FieldScratch per pipeline worker
// and reuse it across events to avoid per-event allocation.
type FieldScratch struct {
	prop []byte
}

func (s *FieldScratch) grow(n int) []byte {
	if cap(s.prop) < n {
		s.prop = make([]byte, n)
	}
	return s.prop[:n]
}

// DecodePayload decodes rec's payload into packet, appending Field
// descriptors to descr for each top-level property and its nested
// elements (§4.5). On any failure it rolls packet and descr back to
// their state on entry and returns a non-nil error; the caller then
// tries the registered dissectors and finally sendRawPayload (§4.7).
func DecodePayload(sink Sink, packet *Buffer, descr *Layout, provider etwprovider.Provider, rec *etwprovider.Record, scratch *FieldScratch) error {
	startSize := packet.Size()
	startFields := len(descr.Fields)
	startName := descr.Name
	rollback := func() {
		packet.Reset(startSize)
		descr.Fields = descr.Fields[:startFields]
		descr.Name = startName
	}

	if rec.StringOnly() {
		packet.EncodeString(narrowUTF16(rec.UserData))
		descr.AddField(Field{Type: String, Name: "Message", Parent: RootScope})
		return nil
	}

	info, err := provider.GetEventInfo(rec)
	var short *etwprovider.ErrInsufficientBuffer
	if errors.As(err, &short) {
		info, err = provider.GetEventInfo(rec)
	}
	if err != nil {
		rollback()
		return fmt.Errorf("ctf: get event info: %w", err)
	}
	if info.DecodingSource != etwprovider.DecodingSourceWBEM && info.DecodingSource != etwprovider.DecodingSourceXMLFile {
		rollback()
		return ErrUnsupportedPayload
	}

	NotifyExtractEventInfo(sink, rec, info)
	descr.Name = info.OpcodeName

	for i := range info.Properties {
		if err := decodePayloadField(sink, packet, descr, provider, rec, &info.Properties[i], RootScope, scratch); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

// decodePayloadField decodes one top-level property — and, if it is a
// fixed-size array, each of its elements — under parent scope id
// parent.
func decodePayloadField(sink Sink, packet *Buffer, descr *Layout, provider etwprovider.Provider, rec *etwprovider.Record, prop *etwprovider.PropertyInfo, parent uint64, scratch *FieldScratch) error {
	if prop.Flags != 0 {
		// Struct, parametric-count and parametric-length properties are
		// refused: nesting an arbitrary aggregate schema is out of scope
		// for the decoder, and the event falls back to a raw payload.
		return fmt.Errorf("ctf: property %q has unsupported flags %#x", prop.Name, prop.Flags)
	}

	if prop.Count <= 1 {
		return decodeElement(sink, packet, descr, provider, rec, prop, 0, parent, scratch)
	}

	scope := uint64(len(descr.Fields))
	descr.AddField(Field{Type: ArrayFixed, Name: prop.Name, Size: uint64(prop.Count), Parent: parent})
	for i := 0; i < prop.Count; i++ {
		if err := decodeElement(sink, packet, descr, provider, rec, prop, i, scope, scratch); err != nil {
			return err
		}
	}
	return nil
}

// decodeElement decodes one element of prop (index is always 0 for a
// scalar property) and appends its Field to descr under parent.
func decodeElement(sink Sink, packet *Buffer, descr *Layout, provider etwprovider.Provider, rec *etwprovider.Record, prop *etwprovider.PropertyInfo, index int, parent uint64, scratch *FieldScratch) error {
	path := []etwprovider.PropertyPath{{Name: prop.Name, Index: index}}

	size, err := provider.GetPropertySize(rec, path)
	if err != nil {
		return fmt.Errorf("ctf: get property size %q[%d]: %w", prop.Name, index, err)
	}
	data := scratch.grow(size)
	if err := provider.GetProperty(rec, path, data); err != nil {
		return fmt.Errorf("ctf: get property %q[%d]: %w", prop.Name, index, err)
	}

	NotifyDecodePayloadField(sink, parent, index, prop.Name, prop.InType, prop.OutType, size, data)

	field, err := DecodeScalar(packet, parent, prop.Name, prop.InType, prop.OutType, size, data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"property": prop.Name,
			"in_type":  prop.InType,
			"out_type": prop.OutType,
		}).Debug("unsupported scalar, falling back to raw payload")
		return err
	}
	descr.AddField(field)
	return nil
}
