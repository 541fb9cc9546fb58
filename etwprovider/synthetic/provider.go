// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package synthetic is a dependency-free, in-memory implementation of
// the etwprovider.Provider contract. It exists so the pipeline, the
// dissectors and the observers can be exercised and tested without a
// real ETW/TDH binding, and so cmd/etwgen can emit reproducible
// fixture traces.
package synthetic

import (
	"context"
	"fmt"

	"github.com/google/etw2ctf/etwprovider"
)

// Event is one synthetic record plus the schema and per-property bytes
// a real TDH binding would resolve for it. Info is nil for a
// string-only record (Record.StringOnly()).
type Event struct {
	Record     etwprovider.Record
	Info       *etwprovider.EventInfo
	Properties map[string][][]byte // property name -> per-element encoded bytes
}

// Provider replays a fixed sequence of buffers of Events.
type Provider struct {
	buffers [][]Event
	current map[*etwprovider.Record]*Event
}

// New returns an empty Provider; use AddBuffer to populate it.
func New() *Provider {
	return &Provider{}
}

// AddBuffer appends one buffer's worth of events. ProcessTrace
// delivers BeginBuffer once per call to AddBuffer, then each of that
// buffer's events in order.
func (p *Provider) AddBuffer(events []Event) {
	p.buffers = append(p.buffers, events)
}

type handle struct{ name string }

func (h *handle) BufferName() string { return h.name }

func (p *Provider) OpenTrace(ctx context.Context, path string) (etwprovider.Handle, error) {
	return &handle{name: path}, nil
}

func (p *Provider) CloseTrace(h etwprovider.Handle) error { return nil }

// ProcessTrace ignores handles and simply replays every buffer added
// with AddBuffer, in order.
func (p *Provider) ProcessTrace(ctx context.Context, handles []etwprovider.Handle, cb etwprovider.Callbacks) error {
	p.current = make(map[*etwprovider.Record]*Event)
	for bi := range p.buffers {
		h := &handle{name: fmt.Sprintf("buffer%d", bi)}
		if cb.BeginBuffer != nil {
			if err := cb.BeginBuffer(h); err != nil {
				return err
			}
		}
		buf := p.buffers[bi]
		for i := range buf {
			evt := &buf[i]
			p.current[&evt.Record] = evt
			if cb.ProcessEvent != nil {
				if err := cb.ProcessEvent(&evt.Record); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *Provider) GetEventInfo(rec *etwprovider.Record) (*etwprovider.EventInfo, error) {
	evt, ok := p.current[rec]
	if !ok || evt.Info == nil {
		return nil, fmt.Errorf("synthetic: no event info for record")
	}
	return evt.Info, nil
}

func (p *Provider) GetPropertySize(rec *etwprovider.Record, path []etwprovider.PropertyPath) (int, error) {
	data, err := p.lookup(rec, path)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

func (p *Provider) GetProperty(rec *etwprovider.Record, path []etwprovider.PropertyPath, out []byte) error {
	data, err := p.lookup(rec, path)
	if err != nil {
		return err
	}
	copy(out, data)
	return nil
}

func (p *Provider) lookup(rec *etwprovider.Record, path []etwprovider.PropertyPath) ([]byte, error) {
	evt, ok := p.current[rec]
	if !ok {
		return nil, fmt.Errorf("synthetic: unknown record")
	}
	if len(path) != 1 {
		return nil, fmt.Errorf("synthetic: nested property paths unsupported")
	}
	elems, ok := evt.Properties[path[0].Name]
	if !ok || path[0].Index < 0 || path[0].Index >= len(elems) {
		return nil, fmt.Errorf("synthetic: no data for property %q[%d]", path[0].Name, path[0].Index)
	}
	return elems[path[0].Index], nil
}
