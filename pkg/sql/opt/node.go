// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package opt

import (
	"bytes"
	"fmt"
)

// Node is the contract every plan node must satisfy in order to participate
// in the memo. The memo never looks inside a node beyond this interface: it
// only needs to know what columns the node produces, what its inputs are, and
// how to build a copy of the node with different inputs.
//
// A node's children may be concrete nodes or symbolic group references (see
// memo.GroupReference). A group reference satisfies this interface as well,
// carrying the output columns of the subtree it stands for so that parents
// can be constructed without expanding the reference.
type Node interface {
	// Op returns the operator name of the node, e.g. "inner-join". It is used
	// for formatting only; the memo attaches no semantics to it.
	Op() string

	// OutputCols returns the ordered list of columns the node produces.
	OutputCols() ColList

	// Children returns the node's input nodes, in order.
	Children() []Node

	// WithChildren returns a copy of the node, of the same kind, with its
	// children replaced by the given slice. len(children) must equal
	// len(Children()). The receiver is not modified.
	WithChildren(children []Node) Node
}

// ColumnID uniquely identifies a column produced by some plan node. IDs are
// assigned by whatever builds the plan; the memo only compares them.
type ColumnID int32

// ColList is an ordered list of columns.
type ColList []ColumnID

// ToSet converts the list to a set, discarding order and multiplicity.
func (cl ColList) ToSet() *ColSet {
	var s ColSet
	for _, col := range cl {
		s.Add(col)
	}
	return &s
}

func (cl ColList) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, col := range cl {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d", col)
	}
	buf.WriteByte(']')
	return buf.String()
}

// FormatNode renders a plan tree in the compact parenthesized form used by
// the test catalog and the datadriven tests, e.g.:
//
//	(inner-join [1,2,3] (scan a [1,2]) (scan b [3]))
func FormatNode(node Node) string {
	var buf bytes.Buffer
	formatNode(&buf, node)
	return buf.String()
}

func formatNode(buf *bytes.Buffer, node Node) {
	fmt.Fprintf(buf, "(%s", node.Op())
	if s, ok := node.(fmt.Stringer); ok {
		fmt.Fprintf(buf, " %s", s.String())
	}
	for _, child := range node.Children() {
		buf.WriteByte(' ')
		formatNode(buf, child)
	}
	buf.WriteByte(')')
}

// FormatTree renders a plan tree with one node per line, children indented
// under their parent. It is used for extracted plans in test and tool output,
// where the single-line form gets unreadable.
func FormatTree(node Node) string {
	var buf bytes.Buffer
	formatTree(&buf, node, 0)
	return buf.String()
}

func formatTree(buf *bytes.Buffer, node Node, level int) {
	for i := 0; i < level; i++ {
		buf.WriteString("  ")
	}
	buf.WriteString(node.Op())
	if s, ok := node.(fmt.Stringer); ok {
		fmt.Fprintf(buf, " %s", s.String())
	}
	buf.WriteByte('\n')
	for _, child := range node.Children() {
		formatTree(buf, child, level+1)
	}
}
