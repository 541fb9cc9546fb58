// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

// FieldType enumerates the kinds of values a Field can describe.
type FieldType int

const (
	Invalid FieldType = iota
	StructBegin
	StructEnd
	ArrayFixed
	ArrayVar
	BinaryFixed
	BinaryVar
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Xint8
	Xint16
	Xint32
	Xint64
	String
	Guid
)

//go:generate stringer -type=FieldType

// RootScope is the sentinel Field.Parent value for a top-level field,
// i.e. one with no enclosing aggregate field in the same layout.
const RootScope = ^uint64(0)

// Field describes one property of an event layout: its wire type, its
// name, and (for aggregates) its declared size or a reference to the
// peer field carrying its dynamic size.
//
// Two fields are equal iff all members are equal.
type Field struct {
	Type         FieldType
	Name         string
	Size         uint64
	FieldSizeRef string
	Parent       uint64
}

// Equal reports whether f and g describe the same field.
func (f Field) Equal(g Field) bool {
	return f.Type == g.Type &&
		f.Name == g.Name &&
		f.Size == g.Size &&
		f.FieldSizeRef == g.FieldSizeRef &&
		f.Parent == g.Parent
}
