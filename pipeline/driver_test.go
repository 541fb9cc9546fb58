// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/etw2ctf/ctfio"
	"github.com/google/etw2ctf/etwprovider"
	"github.com/google/etw2ctf/etwprovider/synthetic"
)

func scalarEvent(ts uint64, count uint32) synthetic.Event {
	return synthetic.Event{
		Record: etwprovider.Record{
			Descriptor: etwprovider.Descriptor{ID: 1, Opcode: 10},
			Timestamp:  ts,
			ProviderID: [16]byte{1, 2, 3},
		},
		Info: &etwprovider.EventInfo{
			OpcodeName:     "Demo",
			DecodingSource: etwprovider.DecodingSourceWBEM,
			Properties: []etwprovider.PropertyInfo{
				{Name: "Count", InType: etwprovider.InTypeUint32, Count: 1},
			},
		},
		Properties: map[string][][]byte{
			"Count": {synthetic.Uint32Bytes(count)},
		},
	}
}

func TestDriverRunProducesStreamAndMetadata(t *testing.T) {
	p := synthetic.New()
	p.AddBuffer([]synthetic.Event{
		scalarEvent(100, 1),
		scalarEvent(200, 2),
		scalarEvent(300, 3),
	})

	dir := filepath.Join(t.TempDir(), "trace")
	out, err := ctfio.Create(dir, false)
	if err != nil {
		t.Fatalf("ctfio.Create: %v", err)
	}

	driver := New(p, out, Config{PacketSize: 4096})
	if err := driver.Run(context.Background(), "fixture"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	streamPath := filepath.Join(dir, "stream")
	info, err := os.Stat(streamPath)
	if err != nil {
		t.Fatalf("stat stream file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("stream file is empty")
	}

	metadata, err := os.ReadFile(filepath.Join(dir, "metadata"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if !bytes.Contains(metadata, []byte("Demo")) {
		t.Errorf("metadata does not mention the Demo event layout:\n%s", metadata)
	}
	if !bytes.Contains(metadata, []byte("/* CTF 1.8 */")) {
		t.Errorf("metadata missing CTF prelude")
	}
}

func TestDriverRunWithSplitBuffer(t *testing.T) {
	p := synthetic.New()
	p.AddBuffer([]synthetic.Event{scalarEvent(1, 1)})
	p.AddBuffer([]synthetic.Event{scalarEvent(2, 2)})

	dir := filepath.Join(t.TempDir(), "trace")
	out, err := ctfio.Create(dir, false)
	if err != nil {
		t.Fatalf("ctfio.Create: %v", err)
	}

	driver := New(p, out, Config{PacketSize: 4096, SplitBuffer: true})
	if err := driver.Run(context.Background(), "fixture"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{"stream0", "stream1"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}
