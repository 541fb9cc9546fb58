// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline wires an etwprovider.Provider to the ctf encoder,
// assembler and ctfio output, owning the layout dictionary and the
// sending queue across one full conversion run (spec §5).
package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/google/etw2ctf/ctf"
	"github.com/google/etw2ctf/ctfio"
	"github.com/google/etw2ctf/etwprovider"
)

// Config controls one conversion run.
type Config struct {
	// PacketSize is the maximum encoded size, in bytes, of one CTF
	// packet (header and padding included).
	PacketSize int
	// SplitBuffer names one output stream file per ETW buffer
	// ("stream<N>") instead of concatenating every packet into one.
	SplitBuffer bool
}

// Driver drives one provider trace to completion, implementing
// ctf.Sink itself so EncodeEvent can assign layout ids and enqueue
// packets directly against it.
type Driver struct {
	provider etwprovider.Provider
	out      *ctfio.Producer
	cfg      Config

	dict        ctf.Dictionary
	asm         *ctf.Assembler
	scratch     ctf.FieldScratch
	buffersRead int
	writeErr    error
}

// New returns a Driver that reads from provider and writes through
// out.
func New(provider etwprovider.Provider, out *ctfio.Producer, cfg Config) *Driver {
	return &Driver{
		provider: provider,
		out:      out,
		cfg:      cfg,
		asm:      ctf.NewAssembler(cfg.PacketSize),
	}
}

// GetIDFor implements ctf.Sink.
func (d *Driver) GetIDFor(layout ctf.Layout) uint64 { return d.dict.GetIDFor(layout) }

// AddPacket implements ctf.Sink. It enqueues buf and opportunistically
// drains any packets the queue can already fill.
func (d *Driver) AddPacket(buf *ctf.Buffer) {
	d.asm.Push(buf)
	d.drain(false)
}

// drain pops and writes complete packets; with flush it also writes a
// final, possibly undersized packet once the queue is non-empty.
func (d *Driver) drain(flush bool) {
	for d.writeErr == nil && (d.asm.Ready() || (flush && !d.asm.Empty())) {
		packet := d.asm.Pop()
		if err := d.out.Write(packet); err != nil {
			d.writeErr = err
			return
		}
	}
}

// Run opens path, processes every buffer and record the provider
// delivers, and writes the resulting stream(s) and metadata file.
func (d *Driver) Run(ctx context.Context, path string) error {
	handle, err := d.provider.OpenTrace(ctx, path)
	if err != nil {
		return err
	}
	defer d.provider.CloseTrace(handle)

	cb := etwprovider.Callbacks{
		BeginBuffer: func(h etwprovider.Handle) error {
			d.buffersRead++
			if !d.cfg.SplitBuffer && d.buffersRead > 1 {
				return nil // keep appending to the single "stream" file
			}
			return d.out.OpenStream(d.cfg.SplitBuffer)
		},
		ProcessEvent: func(rec *etwprovider.Record) error {
			if _, err := ctf.EncodeEvent(d, d.provider, rec, &d.scratch); err != nil {
				logrus.WithError(err).Warn("stop-stream: event encode failed")
				return err
			}
			return d.writeErr
		},
	}

	if err := d.provider.ProcessTrace(ctx, []etwprovider.Handle{handle}, cb); err != nil {
		return err
	}

	d.drain(true)
	if d.writeErr != nil {
		return d.writeErr
	}
	if err := d.out.Close(); err != nil {
		return err
	}
	return d.out.WriteMetadata(&d.dict)
}
