// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo

import (
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/props"
)

// GroupID identifies an equivalence-class group within a memo. Ids are
// allocated by a strictly increasing counter and are never reused, even after
// the group is garbage-collected, so a stale id held by a caller can never be
// mistaken for a live group.
type GroupID int32

// rootSentinel is the reserved referencing id recorded against the root
// group to pin it for the lifetime of the memo. No real group ever carries
// this id: group numbering starts at rootSentinel+1.
const rootSentinel GroupID = 0

// group is a single equivalence class, owned exclusively by the memo's
// arena. It holds the one node currently representing the class, the
// bookkeeping of who references it, and optional cached derived values.
type group struct {
	// membership is the current plan node for this group. Every direct child
	// of membership is a *GroupReference, never a concrete node: the memo
	// maintains exactly one level of indirection.
	membership opt.Node

	// incomingReferences counts the reference occurrences currently pointing
	// at this group from other groups' memberships (and, for the root group,
	// from the root sentinel). The group is deleted the instant this becomes
	// empty.
	incomingReferences refMultiset

	// stats is the cached statistics estimate for membership, or nil.
	stats *props.Statistics

	// cost is the cached cost estimate for membership, or nil. Cost is
	// derived from stats and is evicted whenever stats is evicted or
	// restored.
	cost *props.Cost
}

func newGroup(member opt.Node) *group {
	return &group{
		membership:         member,
		incomingReferences: refMultiset{counts: make(map[GroupID]int)},
	}
}

// refMultiset is a multiset of referencing group ids. It is a multiset, not
// a set, because a membership node may reference the same child group more
// than once (e.g. both sides of a self-join), and each occurrence must be
// counted and removed individually.
type refMultiset struct {
	counts map[GroupID]int
	len    int
}

// add records one occurrence of the given referencing id.
func (s *refMultiset) add(from GroupID) {
	s.counts[from]++
	s.len++
}

// remove removes exactly one occurrence of the given referencing id,
// returning false if no occurrence was recorded.
func (s *refMultiset) remove(from GroupID) bool {
	n, ok := s.counts[from]
	if !ok {
		return false
	}
	if n == 1 {
		delete(s.counts, from)
	} else {
		s.counts[from] = n - 1
	}
	s.len--
	return true
}

// contains returns true if at least one occurrence of the id is recorded.
func (s *refMultiset) contains(from GroupID) bool {
	return s.counts[from] > 0
}

// count returns the number of recorded occurrences of the id.
func (s *refMultiset) count(from GroupID) int {
	return s.counts[from]
}

// empty returns true if no occurrences are recorded at all.
func (s *refMultiset) empty() bool {
	return s.len == 0
}

// distinct returns the set of distinct referencing ids, in arbitrary order.
func (s *refMultiset) distinct() map[GroupID]int {
	return s.counts
}
