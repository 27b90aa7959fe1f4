// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package opt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColSet(t *testing.T) {
	s := MakeColSet(1, 2, 3)
	require.Equal(t, 3, s.Len())
	require.True(t, s.Contains(2))
	require.False(t, s.Contains(4))

	s.Add(4)
	require.True(t, s.Contains(4))
	s.Remove(4)
	require.False(t, s.Contains(4))

	require.True(t, s.Equals(MakeColSet(3, 2, 1)))
	require.False(t, s.Equals(MakeColSet(1, 2)))
	require.True(t, MakeColSet(1, 2).SubsetOf(s))
}

func TestColListToSet(t *testing.T) {
	// Order and duplicates are discarded.
	require.True(t, ColList{2, 1, 1}.ToSet().Equals(ColList{1, 2}.ToSet()))
	require.False(t, ColList{1, 2}.ToSet().Equals(ColList{1, 2, 3}.ToSet()))
	require.Equal(t, 0, ColList(nil).ToSet().Len())
}

func TestColListString(t *testing.T) {
	require.Equal(t, "[1,2,3]", ColList{1, 2, 3}.String())
	require.Equal(t, "[]", ColList(nil).String())
}

func TestIDAllocator(t *testing.T) {
	a := NewIDAllocator()
	require.Equal(t, NodeID(1), a.Next())
	require.Equal(t, NodeID(2), a.Next())
	require.Equal(t, NodeID(3), a.Next())
}
