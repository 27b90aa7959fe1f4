// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo

import (
	"fmt"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/cockroachdb/errors"
)

// GroupReference is a symbolic plan node standing in for "the current
// membership of the group with this id". It is the indirection that lets a
// parent's membership refer to child subtrees without owning them: replacing
// a child group's membership is then invisible to the parent's node.
//
// A GroupReference carries the output columns the referenced subtree is known
// to produce, so that it satisfies the opt.Node contract without being
// expanded. It is immutable after creation and owns nothing.
type GroupReference struct {
	id    opt.NodeID
	group GroupID
	cols  opt.ColList
}

var _ opt.Node = &GroupReference{}

// NewGroupReference returns a reference to the given group. The node id must
// come from the pass's id allocator; the column list is the output schema of
// the referenced group's membership at creation time (which, by the replace
// contract, never changes as a set).
func NewGroupReference(id opt.NodeID, group GroupID, cols opt.ColList) *GroupReference {
	return &GroupReference{id: id, group: group, cols: cols}
}

// ID returns the plan-node id of the reference itself.
func (r *GroupReference) ID() opt.NodeID {
	return r.id
}

// Group returns the id of the referenced group.
func (r *GroupReference) Group() GroupID {
	return r.group
}

// Op is part of the opt.Node interface.
func (r *GroupReference) Op() string {
	return "ref"
}

// OutputCols is part of the opt.Node interface.
func (r *GroupReference) OutputCols() opt.ColList {
	return r.cols
}

// Children is part of the opt.Node interface. A group reference is always a
// leaf; callers that want the referenced subtree must resolve the reference
// through a Lookup.
func (r *GroupReference) Children() []opt.Node {
	return nil
}

// WithChildren is part of the opt.Node interface. A group reference has no
// children to replace.
func (r *GroupReference) WithChildren(children []opt.Node) opt.Node {
	if len(children) != 0 {
		panic(errors.AssertionFailedf("group reference cannot have children"))
	}
	return r
}

func (r *GroupReference) String() string {
	return fmt.Sprintf("G%d %s", r.group, r.cols)
}
