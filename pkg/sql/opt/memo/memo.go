// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

// Package memo implements the memoization structure at the heart of the
// iterative query optimizer: a mutable, deduplicated representation of a plan
// that an exploration driver can rewrite locally without rebuilding a full
// immutable tree on every change.
//
// Each node of a plan is placed in a group (an equivalence class), and its
// children are replaced by symbolic references to the corresponding groups.
// A plan like:
//
//	A -> B -> C -> D
//	       \> E -> F
//
// is stored as:
//
//	root: G1
//
//	G1: { A -> G2 }
//	G2: { B -> [G3, G4] }
//	G3: { C -> G5 }
//	G4: { E -> G6 }
//	G5: { D }
//	G6: { F }
//
// Groups are reference-counted; a mutation that leaves a subtree unreachable
// from the root reclaims the whole subtree immediately, without a top-down
// scan. Each group optionally caches a statistics estimate and a cost
// estimate for its current membership, which the memo evicts transitively up
// the reference graph whenever a descendant changes shape.
//
// The memo is a single-writer, in-memory structure: it performs no locking,
// no I/O, and no blocking, and concurrent use of one Memo from multiple
// goroutines is not supported. All failure modes are invariant violations
// (logic defects, not runtime conditions) and are raised as panics carrying
// assertion errors; drivers convert them back to errors at the pass boundary
// with opt.CatchOptimizerError.
package memo

import (
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/props"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Memo owns the arena of groups making up one memoized plan. See the package
// comment for the overall model.
type Memo struct {
	idAlloc *opt.IDAllocator

	// groups maps group id to group. Deleted ids are never reinserted.
	groups map[GroupID]*group

	// rootGroup represents the whole plan. It is pinned by a synthetic
	// sentinel occurrence in its incomingReferences, so it survives any
	// sequence of rewrites.
	rootGroup GroupID

	nextGroupID GroupID
}

// New builds a memo from the given plan, decomposing it bottom-up into one
// group per node. Children that are already group references reuse their
// target group rather than allocating a new one. The id allocator supplies
// plan-node ids for the group references materialized during insertion.
func New(idAlloc *opt.IDAllocator, plan opt.Node) *Memo {
	m := &Memo{
		idAlloc:     idAlloc,
		groups:      make(map[GroupID]*group),
		nextGroupID: rootSentinel + 1,
	}
	m.rootGroup = m.insertRecursive(plan)
	m.group(m.rootGroup).incomingReferences.add(rootSentinel)
	return m
}

// RootGroup returns the id of the group representing the whole plan.
func (m *Memo) RootGroup() GroupID {
	return m.rootGroup
}

// GroupCount returns the number of live groups. It shrinks when rewrites
// orphan subtrees and grows when rewrites introduce new shapes.
func (m *Memo) GroupCount() int {
	return len(m.groups)
}

func (m *Memo) group(id GroupID) *group {
	grp, ok := m.groups[id]
	if !ok {
		panic(errors.AssertionFailedf("invalid group: %d", redact.Safe(id)))
	}
	return grp
}

// Node returns the current membership of the given group. The returned node
// still contains group references for its children; it is not expanded. It
// panics with an assertion error if the id does not name a live group.
func (m *Memo) Node(id GroupID) opt.Node {
	return m.group(id).membership
}

// Resolve expands a single group reference into the referenced group's
// current membership.
func (m *Memo) Resolve(ref *GroupReference) opt.Node {
	return m.Node(ref.Group())
}

// Replace swaps the membership of the given group for the given node and
// performs the associated bookkeeping: the node's child subtrees are inserted
// (or reused) as groups, reference counts are adjusted, subtrees orphaned by
// the swap are reclaimed, and stats/cost caches of the group and all its
// ancestors are evicted. It returns the new membership.
//
// The replacement must produce the same output columns, as a set, as the
// membership it replaces; reason identifies the rewrite rule for the
// assertion raised on a mismatch. If node is itself a group reference, the
// membership becomes the referenced group's current node, which is how two
// subplans get unified into one represented shape.
func (m *Memo) Replace(id GroupID, node opt.Node, reason string) opt.Node {
	grp := m.group(id)
	old := grp.membership

	if !old.OutputCols().ToSet().Equals(node.OutputCols().ToSet()) {
		panic(errors.AssertionFailedf(
			"%s: replacement node does not produce the same outputs: %v vs %v",
			redact.Safe(reason), old.OutputCols(), node.OutputCols()))
	}

	if ref, ok := node.(*GroupReference); ok {
		node = m.Node(ref.Group())
	} else {
		node = m.insertChildrenAndRewrite(node)
	}

	// Increment before decrement so that groups shared between the old and
	// new membership are never transiently unreferenced.
	m.incrementReferenceCounts(node, id)
	grp.membership = node
	m.decrementReferenceCounts(old, id)
	m.evictStatsAndCost(grp)

	return node
}

// Stats returns the cached statistics estimate for the group, if present.
func (m *Memo) Stats(id GroupID) (*props.Statistics, bool) {
	stats := m.group(id).stats
	return stats, stats != nil
}

// StoreStats caches a statistics estimate for the group. If the group
// already had cached stats, the store counts as a change of the derived
// values: the group's and its ancestors' caches are evicted first (in
// particular the group's cached cost, which is derived from stats).
func (m *Memo) StoreStats(id GroupID, stats *props.Statistics) {
	if stats == nil {
		panic(errors.AssertionFailedf("stats is nil"))
	}
	grp := m.group(id)
	if grp.stats != nil {
		m.evictStatsAndCost(grp)
	}
	grp.stats = stats
}

// Cost returns the cached cost estimate for the group, if present.
func (m *Memo) Cost(id GroupID) (*props.Cost, bool) {
	cost := m.group(id).cost
	return cost, cost != nil
}

// StoreCost caches a cost estimate for the group. Cost is a leaf cache: the
// store has no cascading effect.
func (m *Memo) StoreCost(id GroupID, cost *props.Cost) {
	if cost == nil {
		panic(errors.AssertionFailedf("cost is nil"))
	}
	m.group(id).cost = cost
}

// evictStatsAndCost clears the cached derived values of the group and,
// transitively, of every group whose membership references it. The walk
// follows the distinct referencing ids only; the reference graph is acyclic,
// so it terminates.
func (m *Memo) evictStatsAndCost(grp *group) {
	grp.stats = nil
	grp.cost = nil
	for parent := range grp.incomingReferences.distinct() {
		if parent != rootSentinel {
			m.evictStatsAndCost(m.group(parent))
		}
	}
}

// insertRecursive places the node (and, bottom-up, its entire subtree) into
// a fresh group and returns the group's id. A node that is already a group
// reference contributes no new group: its target id is returned as-is.
func (m *Memo) insertRecursive(node opt.Node) GroupID {
	if ref, ok := node.(*GroupReference); ok {
		return ref.Group()
	}

	id := m.nextGroup()
	rewritten := m.insertChildrenAndRewrite(node)
	m.groups[id] = newGroup(rewritten)
	m.incrementReferenceCounts(rewritten, id)

	return id
}

// insertChildrenAndRewrite inserts each child subtree of the node and
// returns a copy of the node whose children are group references to the
// resulting groups, carrying the children's output columns.
func (m *Memo) insertChildrenAndRewrite(node opt.Node) opt.Node {
	children := node.Children()
	if len(children) == 0 {
		return node
	}
	newChildren := make([]opt.Node, len(children))
	for i, child := range children {
		cols := child.OutputCols()
		newChildren[i] = NewGroupReference(m.idAlloc.Next(), m.insertRecursive(child), cols)
	}
	return node.WithChildren(newChildren)
}

// incrementReferenceCounts records, for every reference occurrence in
// fromNode, one occurrence attributed to fromGroup against the referenced
// group. A node referencing the same child group twice contributes two
// occurrences.
func (m *Memo) incrementReferenceCounts(fromNode opt.Node, fromGroup GroupID) {
	for _, id := range childGroups(fromNode) {
		m.group(id).incomingReferences.add(fromGroup)
	}
}

// decrementReferenceCounts removes, for every reference occurrence in
// fromNode, one occurrence attributed to fromGroup from the referenced
// group, deleting any group whose multiset becomes empty.
func (m *Memo) decrementReferenceCounts(fromNode opt.Node, fromGroup GroupID) {
	for _, id := range childGroups(fromNode) {
		grp := m.group(id)
		if !grp.incomingReferences.remove(fromGroup) {
			panic(errors.AssertionFailedf(
				"reference to remove not found: G%d <- G%d", redact.Safe(id), redact.Safe(fromGroup)))
		}
		if grp.incomingReferences.empty() {
			m.deleteGroup(id)
		}
	}
}

// deleteGroup removes an unreferenced group from the arena and releases the
// references its membership was holding on its children, which reclaims an
// entire orphaned subtree from a single replace without a root-to-leaves
// scan.
func (m *Memo) deleteGroup(id GroupID) {
	grp := m.group(id)
	if !grp.incomingReferences.empty() {
		panic(errors.AssertionFailedf(
			"cannot delete group that has incoming references: G%d", redact.Safe(id)))
	}
	delete(m.groups, id)
	m.decrementReferenceCounts(grp.membership, id)
}

// childGroups returns the group referenced by each child of the node, one
// entry per reference occurrence, in child order. Every child of a node
// stored in the memo must be a group reference.
func childGroups(node opt.Node) []GroupID {
	children := node.Children()
	if len(children) == 0 {
		return nil
	}
	ids := make([]GroupID, len(children))
	for i, child := range children {
		ref, ok := child.(*GroupReference)
		if !ok {
			panic(errors.AssertionFailedf(
				"child of memoized node is not a group reference: %s", redact.Safe(child.Op())))
		}
		ids[i] = ref.Group()
	}
	return ids
}

func (m *Memo) nextGroup() GroupID {
	id := m.nextGroupID
	m.nextGroupID++
	return id
}
