// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldTypeString(t *testing.T) {
	cases := []struct {
		ft   FieldType
		want string
	}{
		{Invalid, "Invalid"},
		{StructBegin, "StructBegin"},
		{Uint64, "Uint64"},
		{Xint8, "Xint8"},
		{Guid, "Guid"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.ft.String())
	}
}

func TestFieldEqual(t *testing.T) {
	a := Field{Type: Uint32, Name: "x", Parent: RootScope}
	b := Field{Type: Uint32, Name: "x", Parent: RootScope}
	c := Field{Type: Uint32, Name: "y", Parent: RootScope}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestLayoutEqual(t *testing.T) {
	l1 := Layout{Name: "E", Fields: []Field{{Type: Uint32, Name: "x"}}}
	l2 := Layout{Name: "E", Fields: []Field{{Type: Uint32, Name: "x"}}}
	l3 := Layout{Name: "E", Fields: []Field{{Type: Uint64, Name: "x"}}}

	require.True(t, l1.Equal(l2))
	require.False(t, l1.Equal(l3))
}
