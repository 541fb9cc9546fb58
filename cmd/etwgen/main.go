// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command etwgen emits a synthetic ETW trace fixture, for exercising
// etw2ctf without a live session or a captured .etl file.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/google/etw2ctf/etwprovider"
	"github.com/google/etw2ctf/etwprovider/synthetic"
)

var (
	demoProviderGUID   = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	imageProviderGUID  = uuid.MustParse("2CB15D1D-5FC1-11D2-ABE1-00A0C911F518")
	chromeProviderGUID = uuid.MustParse("D2D578D9-2936-45B6-A09F-30E32715F41D")
)

func main() {
	output := pflag.StringP("output", "o", "trace.fixture", "path to write the generated fixture to")
	pflag.Parse()

	p := synthetic.New()
	p.AddBuffer(demoBuffer())

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, "etwgen:", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := synthetic.Save(f, p); err != nil {
		fmt.Fprintln(os.Stderr, "etwgen:", err)
		os.Exit(1)
	}
}

func demoBuffer() []synthetic.Event {
	var events []synthetic.Event

	events = append(events, scalarEvent())
	events = append(events, stringOnlyEvent())
	events = append(events, imageLoadEvent())
	events = append(events, chromeEvent())

	return events
}

// scalarEvent exercises the ordinary TDH property path: one uint32
// and one unicode string property.
func scalarEvent() synthetic.Event {
	rec := etwprovider.Record{
		Descriptor: etwprovider.Descriptor{ID: 1, Version: 1, Opcode: 10, Task: 5, Keyword: 0x1},
		Timestamp:  1000,
		ProcessID:  4242,
		ThreadID:   4343,
		ProviderID: demoProviderGUID,
	}
	return synthetic.Event{
		Record: rec,
		Info: &etwprovider.EventInfo{
			EventGUID:      demoProviderGUID,
			OpcodeName:     "DemoScalar",
			DecodingSource: etwprovider.DecodingSourceWBEM,
			Properties: []etwprovider.PropertyInfo{
				{Name: "Count", InType: etwprovider.InTypeUint32, Count: 1},
				{Name: "Message", InType: etwprovider.InTypeUnicodeString, Count: 1},
			},
		},
		Properties: map[string][][]byte{
			"Count":   {synthetic.Uint32Bytes(7)},
			"Message": {synthetic.WideStringBytes("hello from etwgen")},
		},
	}
}

// stringOnlyEvent exercises the EVENT_HEADER_FLAG_STRING_ONLY fast
// path, which bypasses TDH entirely.
func stringOnlyEvent() synthetic.Event {
	rec := etwprovider.Record{
		Descriptor: etwprovider.Descriptor{ID: 2, Opcode: 0},
		Timestamp:  1001,
		ProviderID: demoProviderGUID,
		Flags:      etwprovider.FlagStringOnly,
		UserData:   synthetic.WideStringBytes("a bare trace message"),
	}
	return synthetic.Event{Record: rec}
}

// imageLoadEvent exercises the symbolinfo observer's image-tracking
// hooks.
func imageLoadEvent() synthetic.Event {
	rec := etwprovider.Record{
		Descriptor: etwprovider.Descriptor{ID: 3, Opcode: 10}, // Load
		Timestamp:  1002,
		ProviderID: imageProviderGUID,
	}
	return synthetic.Event{
		Record: rec,
		Info: &etwprovider.EventInfo{
			EventGUID:      imageProviderGUID,
			OpcodeName:     "Load",
			DecodingSource: etwprovider.DecodingSourceWBEM,
			Properties: []etwprovider.PropertyInfo{
				{Name: "ImageBase", InType: etwprovider.InTypeUint64, Count: 1},
				{Name: "ImageSize", InType: etwprovider.InTypeUint64, Count: 1},
				{Name: "ImageChecksum", InType: etwprovider.InTypeUint32, Count: 1},
				{Name: "TimeDateStamp", InType: etwprovider.InTypeUint32, Count: 1},
				{Name: "FileName", InType: etwprovider.InTypeUnicodeString, Count: 1},
			},
		},
		Properties: map[string][][]byte{
			"ImageBase":     {synthetic.Uint64Bytes(0x400000)},
			"ImageSize":     {synthetic.Uint64Bytes(0x10000)},
			"ImageChecksum": {synthetic.Uint32Bytes(0xabcdef)},
			"TimeDateStamp": {synthetic.Uint32Bytes(0x5f000000)},
			"FileName":      {synthetic.WideStringBytes(`C:\demo\module.dll`)},
		},
	}
}

// chromeEvent exercises the Chrome dissector fallback path: its
// Info is left nil, so DecodePayload fails and EncodeEvent falls
// through to the registered dissectors.
func chromeEvent() synthetic.Event {
	var payload []byte
	payload = append(payload, []byte("MyEvent")...)
	payload = append(payload, 0)
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], 99)
	payload = append(payload, id[:]...)
	payload = append(payload, []byte("toplevel,demo")...)
	payload = append(payload, 0)
	payload = append(payload, []byte("key")...)
	payload = append(payload, 0)
	payload = append(payload, []byte("value")...)
	payload = append(payload, 0)

	rec := etwprovider.Record{
		Descriptor: etwprovider.Descriptor{
			ID:     4,
			Opcode: 0<<4 | 1, // ChromeBegin, 1 argument, no stack
		},
		Timestamp:  1003,
		ProviderID: chromeProviderGUID,
		UserData:   payload,
	}
	return synthetic.Event{Record: rec}
}
