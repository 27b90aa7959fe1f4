// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo_test

import (
	"testing"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/memo"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/props"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/testutils/testop"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
)

type testMemo struct {
	idAlloc *opt.IDAllocator
	*memo.Memo
}

func build(t *testing.T, plan string) testMemo {
	t.Helper()
	idAlloc := opt.NewIDAllocator()
	node, err := testop.ParsePlan(idAlloc, plan)
	require.NoError(t, err)
	m := memo.New(idAlloc, node)
	m.CheckInvariants()
	return testMemo{idAlloc: idAlloc, Memo: m}
}

func (tm testMemo) parse(t *testing.T, plan string) opt.Node {
	t.Helper()
	node, err := testop.ParsePlan(tm.idAlloc, plan)
	require.NoError(t, err)
	return node
}

// replaceErr runs Replace with the panic boundary a driver would use,
// converting invariant violations back into errors.
func (tm testMemo) replaceErr(group memo.GroupID, node opt.Node, reason string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	tm.Replace(group, node, reason)
	return nil
}

// catchErr runs fn with the same panic boundary, returning the converted
// error.
func catchErr(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	fn()
	return nil
}

func TestMemoRoundTrip(t *testing.T) {
	plans := []string{
		`(scan a [1,2])`,
		`(project [1] (select "a.y > 10" (scan a [1,2])))`,
		`(inner-join "a.x = b.x" (scan a [1,2]) (scan b [3,4]))`,
		`(union [1]
			(project [1] (scan a [1,2]))
			(project [1] (inner-join "a.x = b.x" (scan a [1,2]) (scan b [3,4]))))`,
	}
	for _, plan := range plans {
		tm := build(t, plan)
		original := tm.parse(t, plan)
		extracted := tm.Extract()
		if diff := pretty.Diff(original, extracted); len(diff) != 0 {
			t.Errorf("extract of %s did not round-trip:\n%v", plan, diff)
		}
	}
}

func TestMemoConstruction(t *testing.T) {
	tm := build(t, `(project [1] (inner-join "c.x = d.x" (scan c [1]) (scan d [2])))`)

	// Groups are numbered parent-first from 1; the root is pinned by the
	// sentinel, and each child is referenced once by its parent.
	require.Equal(t, memo.GroupID(1), tm.RootGroup())
	require.Equal(t, 4, tm.GroupCount())
	require.Equal(t, 1, tm.RefCount(1, memo.RootSentinel))
	require.Equal(t, 1, tm.RefCount(2, 1))
	require.Equal(t, 1, tm.RefCount(3, 2))
	require.Equal(t, 1, tm.RefCount(4, 2))

	// Memberships are one level deep: children are group references.
	join := tm.Node(2)
	require.Equal(t, "inner-join", join.Op())
	for _, child := range join.Children() {
		_, ok := child.(*memo.GroupReference)
		require.True(t, ok, "membership child must be a group reference")
	}
}

func TestMemoConstructionReusesReferences(t *testing.T) {
	// A plan that already contains a group reference must reuse the target
	// group rather than allocating a new one.
	tm := build(t, `(inner-join "t1.x = t2.x" (scan t [1,2]) (scan t [1,2]))`)
	require.Equal(t, 3, tm.GroupCount())

	tm.Replace(1, tm.parse(t, `(inner-join "t1.x = t2.x" (ref G2 [1,2]) (ref G2 [1,2]))`), "self-join")
	tm.CheckInvariants()
	require.Equal(t, 2, tm.GroupCount())
}

func TestReplaceReflects(t *testing.T) {
	tm := build(t, `(project [1] (scan a [1,2]))`)

	tm.Replace(2, tm.parse(t, `(select "a.x > 0" (values [1,2]))`), "scan-to-values")
	tm.CheckInvariants()

	node := tm.Node(2)
	require.Equal(t, "select", node.Op())

	// The substitution is visible at every occurrence reachable from the
	// root.
	require.Equal(t,
		`(project [1] (select "a.x > 0" (values [1,2])))`,
		opt.FormatNode(tm.Extract()))
}

func TestReplaceSchemaMismatch(t *testing.T) {
	tm := build(t, `(project [1] (scan a [1,2]))`)
	tm.StoreStats(2, &props.Statistics{RowCount: 10})
	before := tm.String()

	err := tm.replaceErr(2, tm.parse(t, `(scan b [1,2,3])`), "broken-rule")
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken-rule")
	require.Contains(t, err.Error(), "[1,2] vs [1,2,3]")

	// A rejected replacement performs no mutation at all.
	tm.CheckInvariants()
	require.Equal(t, before, tm.String())
	_, ok := tm.Stats(2)
	require.True(t, ok, "stats must survive a rejected replace")
}

func TestReplaceComparesSchemaAsSet(t *testing.T) {
	// Order and multiplicity of output columns do not matter, only the set.
	tm := build(t, `(scan a [1,2])`)
	tm.Replace(1, tm.parse(t, `(scan a2 [2,1,1])`), "reorder")
	tm.CheckInvariants()
	require.Equal(t, "(scan a2 [2,1,1])", opt.FormatNode(tm.Extract()))
}

func TestReplaceWithGroupReference(t *testing.T) {
	tm := build(t, `(union [1] (values [1]) (project [1] (values [1])))`)
	require.Equal(t, 4, tm.GroupCount())

	// Replacing with a bare reference aliases the group to the target's
	// current node, not to a wrapper around the reference.
	tm.Replace(3, tm.parse(t, `(ref G2 [1])`), "collapse-projection")
	tm.CheckInvariants()

	require.Equal(t, "values", tm.Node(3).Op())
	// The projection's old input group is orphaned and reclaimed.
	require.Equal(t, 3, tm.GroupCount())
	require.False(t, tm.HasGroup(4))
	require.Equal(t, `(union [1] (values [1]) (values [1]))`, opt.FormatNode(tm.Extract()))
}

func TestSharedSubtreePreservation(t *testing.T) {
	tm := build(t, `(inner-join "j" (project [1] (scan c [1,2])) (project [2] (scan c [1,2])))`)
	require.Equal(t, 5, tm.GroupCount())

	// Share the scan group G3 between both projections.
	tm.Replace(4, tm.parse(t, `(project [2] (ref G3 [1,2]))`), "dedup-scan")
	tm.CheckInvariants()
	require.Equal(t, 4, tm.GroupCount())
	require.Equal(t, 1, tm.RefCount(3, 2))
	require.Equal(t, 1, tm.RefCount(3, 4))

	// Dropping one of the two referencing occurrences must not delete the
	// shared group.
	tm.Replace(2, tm.parse(t, `(values [1])`), "prune-left")
	tm.CheckInvariants()
	require.True(t, tm.HasGroup(3))
	require.Equal(t, 0, tm.RefCount(3, 2))
	require.Equal(t, 1, tm.RefCount(3, 4))

	// Dropping the last occurrence deletes it.
	tm.Replace(4, tm.parse(t, `(values [2])`), "prune-right")
	tm.CheckInvariants()
	require.False(t, tm.HasGroup(3))
	require.Equal(t, 3, tm.GroupCount())
}

func TestDuplicateReferencesFromOneParent(t *testing.T) {
	tm := build(t, `(inner-join "t1.x = t2.x" (scan t [1,2]) (scan t [1,2]))`)
	tm.Replace(1, tm.parse(t, `(inner-join "t1.x = t2.x" (ref G2 [1,2]) (ref G2 [1,2]))`), "self-join")
	tm.CheckInvariants()

	// Both sides of the self-join count as separate occurrences.
	require.Equal(t, 2, tm.RefCount(2, 1))

	// Dropping one occurrence leaves the group alive with count 1.
	tm.Replace(1, tm.parse(t, `(project [1,2] (ref G2 [1,2]))`), "drop-one-side")
	tm.CheckInvariants()
	require.Equal(t, 1, tm.RefCount(2, 1))
	require.True(t, tm.HasGroup(2))

	// Dropping the last occurrence reclaims it.
	tm.Replace(1, tm.parse(t, `(values [1,2])`), "drop-last")
	tm.CheckInvariants()
	require.False(t, tm.HasGroup(2))
	require.Equal(t, 1, tm.GroupCount())
	require.Contains(t, tm.String(), "memo (1 group,")
}

func TestCascadingDeletion(t *testing.T) {
	tm := build(t, `(project [1] (inner-join "b" (scan c [1]) (scan d [2])))`)
	require.Equal(t, 4, tm.GroupCount())

	// Rewrite the join to reference the scan of c directly, dropping d.
	tm.Replace(2, tm.parse(t, `(project [1,2] (ref G3 [1]))`), "drop-d")
	tm.CheckInvariants()
	require.Equal(t, 3, tm.GroupCount())
	require.False(t, tm.HasGroup(4))
	require.Equal(t, 1, tm.RefCount(3, 2))

	// Orphaning an inner group reclaims its whole subtree in one replace,
	// with no top-down scan: both the rewritten join group and the scan
	// below it disappear.
	tm.Replace(1, tm.parse(t, `(values [1])`), "prune-all")
	tm.CheckInvariants()
	require.Equal(t, 1, tm.GroupCount())
	require.False(t, tm.HasGroup(2))
	require.False(t, tm.HasGroup(3))
}

func TestGroupIDsNeverReused(t *testing.T) {
	tm := build(t, `(project [1] (scan a [1]))`)

	// Delete G2, then insert a fresh subtree: the new group must get a new
	// id, not the reclaimed one.
	tm.Replace(1, tm.parse(t, `(values [1])`), "prune")
	tm.CheckInvariants()
	require.False(t, tm.HasGroup(2))

	replaced := tm.Replace(1, tm.parse(t, `(project [1] (scan a2 [1]))`), "regrow")
	tm.CheckInvariants()
	ref, ok := replaced.Children()[0].(*memo.GroupReference)
	require.True(t, ok)
	require.Equal(t, memo.GroupID(3), ref.Group())

	// The stale id stays permanently invalid.
	err := catchErr(func() { tm.Node(2) })
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid group")
}

func TestCacheInvalidationChain(t *testing.T) {
	tm := build(t, `(project [1] (inner-join "b" (scan c [1]) (scan d [2])))`)
	for _, g := range []memo.GroupID{1, 2, 3, 4} {
		tm.StoreStats(g, &props.Statistics{RowCount: float64(g)})
		tm.StoreCost(g, &props.Cost{CPU: float64(g)})
	}

	// Replacing the leaf scan of d evicts caches on the leaf and on every
	// ancestor up to the root, but not on the unrelated sibling.
	tm.Replace(4, tm.parse(t, `(scan d2 [2])`), "swap-scan")
	tm.CheckInvariants()

	for _, g := range []memo.GroupID{1, 2, 4} {
		_, ok := tm.Stats(g)
		require.False(t, ok, "stats on G%d must be evicted", g)
		_, ok = tm.Cost(g)
		require.False(t, ok, "cost on G%d must be evicted", g)
	}
	stats, ok := tm.Stats(3)
	require.True(t, ok, "sibling caches must be untouched")
	require.Equal(t, 3.0, stats.RowCount)
	_, ok = tm.Cost(3)
	require.True(t, ok)
}

func TestCacheInvalidationDiamond(t *testing.T) {
	// Share one scan group under two projections; evicting from the shared
	// group must climb through both parents.
	tm := build(t, `(inner-join "j" (project [1] (scan c [1,2])) (project [2] (scan c [1,2])))`)
	tm.Replace(4, tm.parse(t, `(project [2] (ref G3 [1,2]))`), "dedup-scan")
	for _, g := range []memo.GroupID{1, 2, 3, 4} {
		tm.StoreStats(g, &props.Statistics{RowCount: float64(g)})
	}

	tm.Replace(3, tm.parse(t, `(values [1,2])`), "swap-shared")
	tm.CheckInvariants()
	for _, g := range []memo.GroupID{1, 2, 3, 4} {
		_, ok := tm.Stats(g)
		require.False(t, ok, "stats on G%d must be evicted", g)
	}
}

func TestDerivedCacheCoherence(t *testing.T) {
	tm := build(t, `(scan a [1])`)
	g := tm.RootGroup()

	// Storing cost before any stats, then storing stats for the first time,
	// leaves the cost in place: absence-to-presence stores evict nothing.
	tm.StoreCost(g, &props.Cost{CPU: 1})
	tm.StoreStats(g, &props.Statistics{RowCount: 10})
	_, ok := tm.Cost(g)
	require.True(t, ok)

	// Storing stats over existing stats evicts the derived cost.
	tm.StoreStats(g, &props.Statistics{RowCount: 20})
	_, ok = tm.Cost(g)
	require.False(t, ok)
	stats, ok := tm.Stats(g)
	require.True(t, ok)
	require.Equal(t, 20.0, stats.RowCount)
}

func TestLookupAndResolve(t *testing.T) {
	tm := build(t, `(project [1] (scan a [1,2]))`)

	ref, ok := tm.Node(1).Children()[0].(*memo.GroupReference)
	require.True(t, ok)
	require.Equal(t, opt.ColList{1, 2}, ref.OutputCols())

	// The lookup yields the single current candidate for the group.
	candidates := tm.Lookup().Candidates(ref)
	require.Len(t, candidates, 1)
	require.Equal(t, "scan", candidates[0].Op())
	require.Equal(t, candidates[0], tm.Resolve(ref))

	// ResolveGroupReferences materializes a subtree mid-exploration.
	resolved := memo.ResolveGroupReferences(tm.Node(1), tm.Lookup())
	require.Equal(t, `(project [1] (scan a [1,2]))`, opt.FormatNode(resolved))
}

func TestInvalidGroup(t *testing.T) {
	tm := build(t, `(scan a [1])`)
	err := catchErr(func() { tm.Node(42) })
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid group: 42")
}

func TestExtractRecomputes(t *testing.T) {
	tm := build(t, `(project [1] (scan a [1,2]))`)
	first := opt.FormatNode(tm.Extract())

	tm.Replace(2, tm.parse(t, `(values [1,2])`), "swap")
	second := opt.FormatNode(tm.Extract())

	require.Equal(t, `(project [1] (scan a [1,2]))`, first)
	require.Equal(t, `(project [1] (values [1,2]))`, second)
}
