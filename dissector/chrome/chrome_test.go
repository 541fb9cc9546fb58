// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chrome

import (
	"testing"

	"github.com/google/etw2ctf/ctf"
)

func buildPayload(name string, id uint64, categories string, args [][2]string) []byte {
	var b ctf.Buffer
	b.EncodeString(name)
	b.EncodeUint64(id)
	b.EncodeString(categories)
	for _, a := range args {
		b.EncodeString(a[0])
		b.EncodeString(a[1])
	}
	return b.Bytes()
}

func TestDecodeRejectsOtherProviders(t *testing.T) {
	var other [16]byte
	var packet ctf.Buffer
	var descr ctf.Layout
	if (Dissector{}).Decode(other, 0, nil, &packet, &descr) {
		t.Fatal("Decode accepted an event from an unrelated provider")
	}
}

func TestDecodeChromeBeginWithOneArg(t *testing.T) {
	payload := buildPayload("MyEvent", 42, "cat1,cat2", [][2]string{{"key", "value"}})

	var packet ctf.Buffer
	var descr ctf.Layout
	opcode := uint8(0<<4 | 1) // ChromeBegin, 1 argument, no stack
	if !(Dissector{}).Decode(providerGUID, opcode, payload, &packet, &descr) {
		t.Fatal("Decode rejected a well-formed Chrome payload")
	}

	if descr.Name != "ChromeBegin" {
		t.Errorf("descr.Name = %q, want ChromeBegin", descr.Name)
	}

	var haveArgName, haveArgValue bool
	for _, f := range descr.Fields {
		switch f.Name {
		case "arg_name":
			haveArgName = true
		case "arg_value":
			haveArgValue = true
		}
	}
	if !haveArgName || !haveArgValue {
		t.Errorf("fields = %+v, want arg_name and arg_value present", descr.Fields)
	}
}

func TestDecodeTruncatedPayloadFails(t *testing.T) {
	payload := []byte("incomplete") // no null terminator at all
	var packet ctf.Buffer
	var descr ctf.Layout
	if (Dissector{}).Decode(providerGUID, 0, payload, &packet, &descr) {
		t.Fatal("Decode accepted a payload with no terminated name")
	}
}
