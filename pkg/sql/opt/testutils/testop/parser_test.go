// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package testop

import (
	"testing"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/memo"
	"github.com/stretchr/testify/require"
)

func TestParsePlanRoundTrip(t *testing.T) {
	plans := []string{
		`(scan a [1,2])`,
		`(values [])`,
		`(select "a.y > 10" (scan a [1,2]))`,
		`(project [1] (scan a [1,2]))`,
		`(inner-join "a.x = b.x" (scan a [1,2]) (scan b [3,4]))`,
		`(union [1] (values [1]) (project [1] (scan a [1,2])))`,
		`(ref G3 [1,2])`,
	}
	idAlloc := opt.NewIDAllocator()
	for _, plan := range plans {
		node, err := ParsePlan(idAlloc, plan)
		require.NoError(t, err, plan)
		require.Equal(t, plan, opt.FormatNode(node))
	}
}

func TestParsePlanComputedCols(t *testing.T) {
	idAlloc := opt.NewIDAllocator()

	// Select passes its input's columns through; joins concatenate.
	node, err := ParsePlan(idAlloc, `(select "f" (scan a [1,2]))`)
	require.NoError(t, err)
	require.Equal(t, opt.ColList{1, 2}, node.OutputCols())

	node, err = ParsePlan(idAlloc, `(inner-join "f" (scan a [1,2]) (ref G7 [3]))`)
	require.NoError(t, err)
	require.Equal(t, opt.ColList{1, 2, 3}, node.OutputCols())
}

func TestParsePlanRef(t *testing.T) {
	idAlloc := opt.NewIDAllocator()
	node, err := ParsePlan(idAlloc, `(ref G12 [4,5])`)
	require.NoError(t, err)
	ref, ok := node.(*memo.GroupReference)
	require.True(t, ok)
	require.Equal(t, memo.GroupID(12), ref.Group())
	require.Equal(t, opt.ColList{4, 5}, ref.OutputCols())
}

func TestParsePlanErrors(t *testing.T) {
	idAlloc := opt.NewIDAllocator()
	for _, tc := range []struct {
		plan string
		err  string
	}{
		{`(frobnicate [1])`, "unknown operator"},
		{`(scan [1])`, "missing table name"},
		{`(scan a [1)`, "expected"},
		{`(select "unterminated (scan a [1]))`, "unterminated string"},
		{`(ref 12 [1])`, "expected group id"},
		{`(union [1])`, "at least one input"},
		{`(scan a [1]) trailing`, "trailing input"},
	} {
		_, err := ParsePlan(idAlloc, tc.plan)
		require.Error(t, err, tc.plan)
		require.Contains(t, err.Error(), tc.err)
	}
}

func TestWithChildrenDoesNotMutate(t *testing.T) {
	scan := &Scan{Table: "a", Cols: opt.ColList{1}}
	sel := &Select{Input: scan, Filter: "f", Cols: opt.ColList{1}}

	other := &Values{Cols: opt.ColList{1}}
	replaced := sel.WithChildren([]opt.Node{other})

	require.Equal(t, scan, sel.Input)
	require.Equal(t, other, replaced.(*Select).Input)
	require.Equal(t, "f", replaced.(*Select).Filter)
}
