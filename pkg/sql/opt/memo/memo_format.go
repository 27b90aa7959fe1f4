// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo

import (
	"bytes"
	"fmt"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// String renders the memo's live groups, one per line, in depth-first order
// from the root. Each line shows the group's membership with symbolic child
// references and any cached stats/cost, e.g.:
//
//	memo (3 groups, ~384 B)
//	 root: G1
//	 G1: (inner-join "a.x=b.x" G2 G3) [rows=100]
//	 G2: (scan a [1,2])
//	 G3: (scan b [3,4])
func (m *Memo) String() string {
	var buf bytes.Buffer
	noun := "groups"
	if len(m.groups) == 1 {
		noun = "group"
	}
	fmt.Fprintf(&buf, "memo (%d %s, ~%s)\n", len(m.groups), noun, humanize.IBytes(m.MemoryEstimate()))
	fmt.Fprintf(&buf, " root: G%d\n", m.rootGroup)

	seen := make(map[GroupID]bool, len(m.groups))
	m.formatGroup(&buf, m.rootGroup, seen)

	// Groups unreachable from the root cannot exist while the memo's
	// invariants hold; print any stragglers so that a corrupted memo is
	// visible in test output.
	if len(seen) != len(m.groups) {
		rest := make([]GroupID, 0, len(m.groups)-len(seen))
		for _, id := range maps.Keys(m.groups) {
			if !seen[id] {
				rest = append(rest, id)
			}
		}
		slices.Sort(rest)
		buf.WriteString(" unreachable:\n")
		for _, id := range rest {
			m.formatGroupLine(&buf, id)
		}
	}
	return buf.String()
}

func (m *Memo) formatGroup(buf *bytes.Buffer, id GroupID, seen map[GroupID]bool) {
	if seen[id] {
		return
	}
	seen[id] = true
	m.formatGroupLine(buf, id)
	for _, child := range childGroups(m.group(id).membership) {
		m.formatGroup(buf, child, seen)
	}
}

func (m *Memo) formatGroupLine(buf *bytes.Buffer, id GroupID) {
	grp := m.group(id)
	fmt.Fprintf(buf, " G%d: ", id)
	formatMember(buf, grp.membership)
	if grp.stats != nil {
		fmt.Fprintf(buf, " %s", grp.stats)
	}
	if grp.cost != nil {
		fmt.Fprintf(buf, " %s", grp.cost)
	}
	buf.WriteByte('\n')
}

// formatMember renders a membership node one level deep: the node's own
// operator and detail, with children shown as bare group ids.
func formatMember(buf *bytes.Buffer, node opt.Node) {
	fmt.Fprintf(buf, "(%s", node.Op())
	if s, ok := node.(fmt.Stringer); ok {
		fmt.Fprintf(buf, " %s", s)
	}
	for _, child := range node.Children() {
		if ref, ok := child.(*GroupReference); ok {
			fmt.Fprintf(buf, " G%d", ref.Group())
		} else {
			fmt.Fprintf(buf, " (%s)", child.Op())
		}
	}
	buf.WriteByte(')')
}

// MemoryEstimate returns a coarse estimate of the memo's footprint in bytes:
// a fixed charge per group plus one per reference occurrence. It is meant
// for relative comparison in debug output, not for accounting.
func (m *Memo) MemoryEstimate() uint64 {
	const groupSize = 96
	const refSize = 48
	var total uint64
	for _, grp := range m.groups {
		total += groupSize + refSize*uint64(len(grp.membership.Children()))
	}
	return total
}
