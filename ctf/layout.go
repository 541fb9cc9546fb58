// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Layout describes one distinct event schema: the provider GUID,
// opcode, version and event id the provider attached to it, plus the
// ordered field list the payload decoder produced for it.
//
// Equality is structural (Equal below); the zero Layout is never a
// valid dictionary entry.
type Layout struct {
	Name    string
	GUID    GUID
	Opcode  uint8
	Version uint8
	EventID uint16
	Fields  []Field
}

// Equal reports whether l and m describe the same layout: identical
// descriptor information and field-for-field-equal layouts.
func (l Layout) Equal(m Layout) bool {
	if l.Name != m.Name || l.GUID != m.GUID || l.Opcode != m.Opcode ||
		l.Version != m.Version || l.EventID != m.EventID {
		return false
	}
	if len(l.Fields) != len(m.Fields) {
		return false
	}
	for i := range l.Fields {
		if !l.Fields[i].Equal(m.Fields[i]) {
			return false
		}
	}
	return true
}

// AddField appends field to the layout's flat, encode-order field
// list. Repeated (Parent, Name) pairs are expected and not an error:
// every element of an array field, and both halves of a struct
// begin/end pair, legitimately share their parent's name.
func (l *Layout) AddField(field Field) {
	l.Fields = append(l.Fields, field)
}

// digest returns a fast, non-cryptographic fingerprint of l used to
// narrow down the set of dictionary entries Dictionary.GetIDFor must
// structurally compare against. Two equal layouts always have equal
// digests; the converse need not hold, so digest collisions still
// fall back to Layout.Equal.
func (l Layout) digest() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d\x00%d\x00", l.Name, l.GUID, l.Opcode, l.Version, l.EventID)
	for _, f := range l.Fields {
		fmt.Fprintf(h, "%d\x00%s\x00%d\x00%s\x00%d\x00", f.Type, f.Name, f.Size, f.FieldSizeRef, f.Parent)
	}
	return h.Sum64()
}

// Dictionary is the ordered, append-only collection of distinct event
// layouts. An assigned id is 1 + the layout's position; id 0 is
// reserved for the "unknown" layout declared in the metadata but never
// stored here.
type Dictionary struct {
	layouts []Layout
	byHash  map[uint64][]int // digest -> candidate positions
}

// GetIDFor returns the existing 1-based id of a structurally equal
// layout already in the dictionary, or appends layout and returns its
// newly assigned id.
func (d *Dictionary) GetIDFor(layout Layout) uint64 {
	h := layout.digest()
	for _, pos := range d.byHash[h] {
		if d.layouts[pos].Equal(layout) {
			return uint64(pos + 1)
		}
	}
	pos := len(d.layouts)
	d.layouts = append(d.layouts, layout)
	if d.byHash == nil {
		d.byHash = make(map[uint64][]int)
	}
	d.byHash[h] = append(d.byHash[h], pos)
	return uint64(pos + 1)
}

// Len returns the number of layouts in the dictionary.
func (d *Dictionary) Len() int { return len(d.layouts) }

// At returns the layout at 0-based position i.
func (d *Dictionary) At(i int) Layout { return d.layouts[i] }
