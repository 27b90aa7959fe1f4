// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package opt

// NodeID uniquely identifies a plan node instance within an optimization
// pass. The memo consumes fresh ids when it materializes group references; it
// attaches no other meaning to them.
type NodeID int32

// IDAllocator yields unique, monotonically increasing NodeIDs. Ids are never
// reused within a pass. An IDAllocator is not safe for concurrent use,
// matching the single-writer model of the memo it feeds.
type IDAllocator struct {
	nextID NodeID
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{nextID: 1}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() NodeID {
	id := a.nextID
	a.nextID++
	return id
}
