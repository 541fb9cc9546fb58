// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import "sync"

// Dissector is a pluggable payload decoder selected by provider GUID
// (and, typically, opcode). On success it has fully encoded the
// payload into packet and populated descr; it must leave both
// unchanged on failure (§4.7).
type Dissector interface {
	// Name identifies the dissector for diagnostics.
	Name() string
	// Decode attempts to decode payload. It returns true if it
	// recognized and fully decoded the event.
	Decode(guid GUID, opcode uint8, payload []byte, packet *Buffer, descr *Layout) bool
}

// dissectorRegistry holds the dissectors registered so far, in
// registration order. Unlike the original's static-initializer linked
// list (spec §9 "Observer/dissector self-registration"), registration
// here is an explicit call a dissector package makes from its own
// init(), against a single process-wide registry.
type dissectorRegistry struct {
	mu         sync.Mutex
	dissectors []Dissector
}

var defaultDissectors dissectorRegistry

// RegisterDissector adds d to the default registry. Dissectors are
// tried in the order they were registered.
func RegisterDissector(d Dissector) {
	defaultDissectors.mu.Lock()
	defer defaultDissectors.mu.Unlock()
	defaultDissectors.dissectors = append(defaultDissectors.dissectors, d)
}

// DecodeWithDissectors tries each registered dissector in registration
// order and returns true on the first one that succeeds. There is no
// priority or GUID index: each dissector is expected to match
// internally, typically by comparing guid.
func DecodeWithDissectors(guid GUID, opcode uint8, payload []byte, packet *Buffer, descr *Layout) bool {
	defaultDissectors.mu.Lock()
	ds := append([]Dissector(nil), defaultDissectors.dissectors...)
	defaultDissectors.mu.Unlock()

	for _, d := range ds {
		if d.Decode(guid, opcode, payload, packet, descr) {
			return true
		}
	}
	return false
}
