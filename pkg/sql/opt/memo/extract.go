// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo

import "github.com/ImpressionableRaccoon/trino/pkg/sql/opt"

// Extract materializes the current plan: starting from the root group's
// membership, every group reference is replaced by the referenced group's
// current membership, transitively, yielding a tree with no references left.
// The group graph is acyclic, so the expansion terminates. Extraction is
// recomputed on every call; it typically runs once, after exploration ends.
func (m *Memo) Extract() opt.Node {
	return ResolveGroupReferences(m.Node(m.rootGroup), m.Lookup())
}

// ResolveGroupReferences rewrites the plan rooted at node, replacing every
// group reference with the candidate the lookup produces for it, all the way
// down. Drivers use it to materialize a subtree mid-exploration; Extract uses
// it with the memo's own lookup.
func ResolveGroupReferences(node opt.Node, lookup Lookup) opt.Node {
	for {
		ref, ok := node.(*GroupReference)
		if !ok {
			break
		}
		node = resolveFirst(lookup, ref)
	}

	children := node.Children()
	if len(children) == 0 {
		return node
	}
	newChildren := make([]opt.Node, len(children))
	for i, child := range children {
		newChildren[i] = ResolveGroupReferences(child, lookup)
	}
	return node.WithChildren(newChildren)
}
