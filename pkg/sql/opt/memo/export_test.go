// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo

// Test hooks exposing reference-count bookkeeping, which has no place in the
// public API but is exactly what the refcounting tests need to observe.

// RefCount returns the number of reference occurrences recorded against
// group id and attributed to from.
func (m *Memo) RefCount(id, from GroupID) int {
	return m.group(id).incomingReferences.count(from)
}

// HasGroup returns true if the id names a live group.
func (m *Memo) HasGroup(id GroupID) bool {
	_, ok := m.groups[id]
	return ok
}

// RootSentinel is the synthetic referencing id that pins the root group.
const RootSentinel = rootSentinel
