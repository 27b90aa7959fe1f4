// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CheckInvariants does sanity checking on the whole memo: every membership
// child is a reference to a live group, the reference-count multisets agree
// exactly with the memberships plus the root sentinel, no group is
// unreferenced or unreachable, and the group graph is acyclic from the root.
// It panics with an assertion error on the first violation found.
//
// The checks walk the entire arena, so they are meant for tests and for the
// datadriven harness (which runs them after every mutation), not for
// per-operation use in an exploration loop.
func (m *Memo) CheckInvariants() {
	if _, ok := m.groups[m.rootGroup]; !ok {
		panic(errors.AssertionFailedf("root group G%d is not live", redact.Safe(m.rootGroup)))
	}

	// Recompute the expected reference multisets from the memberships.
	expected := make(map[GroupID]map[GroupID]int, len(m.groups))
	for id := range m.groups {
		expected[id] = make(map[GroupID]int)
	}
	ids := maps.Keys(m.groups)
	slices.Sort(ids)
	for _, id := range ids {
		for _, child := range childGroups(m.groups[id].membership) {
			counts, ok := expected[child]
			if !ok {
				panic(errors.AssertionFailedf(
					"G%d references deleted group G%d", redact.Safe(id), redact.Safe(child)))
			}
			counts[id]++
		}
	}
	expected[m.rootGroup][rootSentinel] = 1

	for _, id := range ids {
		grp := m.groups[id]
		counts := expected[id]
		if len(counts) == 0 {
			panic(errors.AssertionFailedf("G%d is live but unreferenced", redact.Safe(id)))
		}
		if len(grp.incomingReferences.distinct()) != len(counts) {
			panic(errors.AssertionFailedf(
				"G%d reference bookkeeping does not match memberships", redact.Safe(id)))
		}
		for from, n := range counts {
			if grp.incomingReferences.count(from) != n {
				panic(errors.AssertionFailedf(
					"G%d records %d references from G%d, memberships hold %d",
					redact.Safe(id), redact.Safe(grp.incomingReferences.count(from)),
					redact.Safe(from), redact.Safe(n)))
			}
		}
	}

	// Check acyclicity and reachability from the root.
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[GroupID]int, len(m.groups))
	var visit func(id GroupID)
	visit = func(id GroupID) {
		switch state[id] {
		case onStack:
			panic(errors.AssertionFailedf("group graph contains a cycle through G%d", redact.Safe(id)))
		case done:
			return
		}
		state[id] = onStack
		for _, child := range childGroups(m.groups[id].membership) {
			visit(child)
		}
		state[id] = done
	}
	visit(m.rootGroup)
	for _, id := range ids {
		if state[id] != done {
			panic(errors.AssertionFailedf("G%d is not reachable from the root", redact.Safe(id)))
		}
	}
}
