// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

// Package testop provides a small catalog of plan-node kinds implementing the
// opt.Node contract, along with a compact text syntax for building plans in
// tests and tooling. The catalog carries no real relational semantics: the
// memo never interprets a node beyond the Node contract, so scans, filters
// and joins here are just shapes with output columns.
package testop

import (
	"fmt"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/cockroachdb/errors"
)

// Scan reads a named table. It is a leaf.
type Scan struct {
	Table string
	Cols  opt.ColList
}

var _ opt.Node = &Scan{}

// Op is part of the opt.Node interface.
func (s *Scan) Op() string { return "scan" }

// OutputCols is part of the opt.Node interface.
func (s *Scan) OutputCols() opt.ColList { return s.Cols }

// Children is part of the opt.Node interface.
func (s *Scan) Children() []opt.Node { return nil }

// WithChildren is part of the opt.Node interface.
func (s *Scan) WithChildren(children []opt.Node) opt.Node {
	assertChildCount("scan", children, 0)
	clone := *s
	return &clone
}

func (s *Scan) String() string { return fmt.Sprintf("%s %s", s.Table, s.Cols) }

// Values produces a constant result with the given columns. It is a leaf.
type Values struct {
	Cols opt.ColList
}

var _ opt.Node = &Values{}

// Op is part of the opt.Node interface.
func (v *Values) Op() string { return "values" }

// OutputCols is part of the opt.Node interface.
func (v *Values) OutputCols() opt.ColList { return v.Cols }

// Children is part of the opt.Node interface.
func (v *Values) Children() []opt.Node { return nil }

// WithChildren is part of the opt.Node interface.
func (v *Values) WithChildren(children []opt.Node) opt.Node {
	assertChildCount("values", children, 0)
	clone := *v
	return &clone
}

func (v *Values) String() string { return v.Cols.String() }

// Select filters its input with a predicate, passing the input's columns
// through. The column list is fixed at construction so that it stays stable
// when the input is swapped for a group reference.
type Select struct {
	Input  opt.Node
	Filter string
	Cols   opt.ColList
}

var _ opt.Node = &Select{}

// Op is part of the opt.Node interface.
func (s *Select) Op() string { return "select" }

// OutputCols is part of the opt.Node interface.
func (s *Select) OutputCols() opt.ColList { return s.Cols }

// Children is part of the opt.Node interface.
func (s *Select) Children() []opt.Node { return []opt.Node{s.Input} }

// WithChildren is part of the opt.Node interface.
func (s *Select) WithChildren(children []opt.Node) opt.Node {
	assertChildCount("select", children, 1)
	clone := *s
	clone.Input = children[0]
	return &clone
}

func (s *Select) String() string { return fmt.Sprintf("%q", s.Filter) }

// Project narrows its input to the given columns.
type Project struct {
	Input opt.Node
	Cols  opt.ColList
}

var _ opt.Node = &Project{}

// Op is part of the opt.Node interface.
func (p *Project) Op() string { return "project" }

// OutputCols is part of the opt.Node interface.
func (p *Project) OutputCols() opt.ColList { return p.Cols }

// Children is part of the opt.Node interface.
func (p *Project) Children() []opt.Node { return []opt.Node{p.Input} }

// WithChildren is part of the opt.Node interface.
func (p *Project) WithChildren(children []opt.Node) opt.Node {
	assertChildCount("project", children, 1)
	clone := *p
	clone.Input = children[0]
	return &clone
}

func (p *Project) String() string { return p.Cols.String() }

// InnerJoin joins two inputs on a predicate, producing the concatenation of
// both inputs' columns (fixed at construction). The two inputs may be the
// same group reference, which is how a self-join is represented in the memo.
type InnerJoin struct {
	Left  opt.Node
	Right opt.Node
	On    string
	Cols  opt.ColList
}

var _ opt.Node = &InnerJoin{}

// Op is part of the opt.Node interface.
func (j *InnerJoin) Op() string { return "inner-join" }

// OutputCols is part of the opt.Node interface.
func (j *InnerJoin) OutputCols() opt.ColList { return j.Cols }

// Children is part of the opt.Node interface.
func (j *InnerJoin) Children() []opt.Node { return []opt.Node{j.Left, j.Right} }

// WithChildren is part of the opt.Node interface.
func (j *InnerJoin) WithChildren(children []opt.Node) opt.Node {
	assertChildCount("inner-join", children, 2)
	clone := *j
	clone.Left = children[0]
	clone.Right = children[1]
	return &clone
}

func (j *InnerJoin) String() string { return fmt.Sprintf("%q", j.On) }

// Union concatenates any number of inputs that all produce the same columns.
type Union struct {
	Inputs []opt.Node
	Cols   opt.ColList
}

var _ opt.Node = &Union{}

// Op is part of the opt.Node interface.
func (u *Union) Op() string { return "union" }

// OutputCols is part of the opt.Node interface.
func (u *Union) OutputCols() opt.ColList { return u.Cols }

// Children is part of the opt.Node interface.
func (u *Union) Children() []opt.Node { return u.Inputs }

// WithChildren is part of the opt.Node interface.
func (u *Union) WithChildren(children []opt.Node) opt.Node {
	assertChildCount("union", children, len(u.Inputs))
	clone := *u
	clone.Inputs = children
	return &clone
}

func (u *Union) String() string { return u.Cols.String() }

func assertChildCount(op string, children []opt.Node, n int) {
	if len(children) != n {
		panic(errors.AssertionFailedf(
			"%s expects %d children, got %d", op, n, len(children)))
	}
}
