// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

// Package props defines the derived-property payloads cached per memo group:
// statistics estimates and cost estimates. The memo treats both as opaque
// immutable records; it only cares about their presence or absence. They are
// produced by external statistics and cost calculators, which are out of
// scope here.
package props

import "fmt"

// Statistics is a statistics estimate for the output of a plan node. A
// Statistics value is immutable once stored in the memo: calculators build a
// fresh record rather than updating one in place.
type Statistics struct {
	// RowCount is the estimated number of rows produced by the node.
	RowCount float64

	// ColStats holds optional per-column estimates, keyed by column id.
	ColStats map[int32]ColumnStatistic
}

// ColumnStatistic is a statistics estimate for an individual output column.
type ColumnStatistic struct {
	// DistinctCount is the estimated number of distinct values.
	DistinctCount float64

	// NullFraction is the estimated fraction of null values, in [0, 1].
	NullFraction float64
}

func (s *Statistics) String() string {
	return fmt.Sprintf("[rows=%.6g]", s.RowCount)
}
