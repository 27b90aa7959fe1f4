// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package props

import "fmt"

// Cost is a cost estimate for executing a plan node, derived from the node's
// statistics by an external cost calculator. Because it is derived, the memo
// evicts a group's cached Cost whenever the group's cached Statistics change.
type Cost struct {
	// CPU is the estimated processing cost.
	CPU float64

	// Memory is the estimated peak memory cost.
	Memory float64

	// Network is the estimated data transfer cost.
	Network float64
}

// Total returns the combined cost used for plan comparison.
func (c Cost) Total() float64 {
	return c.CPU + c.Memory + c.Network
}

// Less returns true if the receiver is cheaper than the other cost.
func (c Cost) Less(other Cost) bool {
	return c.Total() < other.Total()
}

func (c Cost) String() string {
	return fmt.Sprintf("[cpu=%.6g mem=%.6g net=%.6g]", c.CPU, c.Memory, c.Network)
}
