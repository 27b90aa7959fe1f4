// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package memo

import (
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/cockroachdb/errors"
)

// Lookup is the capability handed to the rule-search driver for peeking
// through group references one level at a time, without access to memo
// internals. Candidates returns the sequence of nodes currently considered
// for the referenced group; this memo keeps a single membership per group, so
// the sequence has exactly one element, but drivers are written against the
// multi-valued shape.
type Lookup interface {
	Candidates(ref *GroupReference) []opt.Node
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ref *GroupReference) []opt.Node

// Candidates is part of the Lookup interface.
func (f LookupFunc) Candidates(ref *GroupReference) []opt.Node {
	return f(ref)
}

// Lookup returns a Lookup over the memo's current memberships. The returned
// value addresses groups by id only; it does not own them and must not
// outlive the memo.
func (m *Memo) Lookup() Lookup {
	return LookupFunc(func(ref *GroupReference) []opt.Node {
		return []opt.Node{m.Resolve(ref)}
	})
}

// resolveFirst expands a reference to the first (and, here, only) candidate.
func resolveFirst(lookup Lookup, ref *GroupReference) opt.Node {
	candidates := lookup.Candidates(ref)
	if len(candidates) == 0 {
		panic(errors.AssertionFailedf("lookup returned no candidates for group %d", ref.Group()))
	}
	return candidates[0]
}
