// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/google/etw2ctf/etwprovider"
)

// EncodeEvent encodes one record into a freshly allocated Buffer and
// hands it to sink via AddPacket (§4.3). It reports ok=false, with a
// nil error, for an event that is silently dropped rather than
// encoded — the trace-events provider's own Info record, which every
// ETW session emits once and which carries no useful payload.
//
// Decoding follows the fallback chain in §4.7: the property decoder
// first, then any registered Dissector, and finally a raw opaque
// payload — which always succeeds, so the returned error is always
// nil.
func EncodeEvent(sink Sink, provider etwprovider.Provider, rec *etwprovider.Record, scratch *FieldScratch) (ok bool, err error) {
	if rec.ProviderID == traceEventsGUID && rec.Descriptor.Opcode == traceEventsInfoOpcode {
		return false, nil
	}

	NotifyBeginProcessEvent(sink, rec)
	defer NotifyEndProcessEvent(sink, rec)

	buf := &Buffer{}
	buf.SetTimestamp(rec.Timestamp)
	buf.EncodeUint64(rec.Timestamp)
	idOffset := buf.ReserveUint32()
	encodeContext(buf, rec)

	descr := &Layout{
		GUID:    rec.ProviderID,
		Opcode:  rec.Descriptor.Opcode,
		Version: rec.Descriptor.Version,
		EventID: rec.Descriptor.ID,
	}

	if derr := DecodePayload(sink, buf, descr, provider, rec, scratch); derr != nil {
		logrus.WithError(derr).Debug("payload decode failed, trying dissectors")
		if !DecodeWithDissectors(rec.ProviderID, rec.Descriptor.Opcode, rec.UserData, buf, descr) {
			sendRawPayload(buf, descr, rec.UserData)
		}
	}

	if descr.Name == "" {
		descr.Name = fmt.Sprintf("Opcode%d", rec.Descriptor.Opcode)
	}

	id := sink.GetIDFor(*descr)
	buf.UpdateUint32(idOffset, uint32(id))

	sink.AddPacket(buf)
	return true, nil
}
