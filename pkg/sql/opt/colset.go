// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package opt

import "golang.org/x/tools/container/intsets"

// ColSet efficiently stores an unordered set of column ids. It is a thin
// wrapper around a sparse integer set; like the underlying representation it
// must not be copied by value after first use, so it is passed by pointer.
type ColSet struct {
	set intsets.Sparse
}

// MakeColSet returns a set initialized with the given values.
func MakeColSet(cols ...ColumnID) *ColSet {
	var s ColSet
	for _, col := range cols {
		s.Add(col)
	}
	return &s
}

// Add adds the column to the set. No-op if the column is already in the set.
func (s *ColSet) Add(col ColumnID) {
	s.set.Insert(int(col))
}

// Remove removes the column from the set. No-op if the column is not in the
// set.
func (s *ColSet) Remove(col ColumnID) {
	s.set.Remove(int(col))
}

// Contains returns true if the set contains the column.
func (s *ColSet) Contains(col ColumnID) bool {
	return s.set.Has(int(col))
}

// Len returns the number of columns in the set.
func (s *ColSet) Len() int {
	return s.set.Len()
}

// Equals returns true if the two sets are identical.
func (s *ColSet) Equals(rhs *ColSet) bool {
	return s.set.Equals(&rhs.set)
}

// SubsetOf returns true if rhs contains all the columns in the set.
func (s *ColSet) SubsetOf(rhs *ColSet) bool {
	return s.set.SubsetOf(&rhs.set)
}

func (s *ColSet) String() string {
	return s.set.String()
}
