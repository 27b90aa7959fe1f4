// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

// Package opttester implements a datadriven harness for exercising the memo.
// A test file drives one OptTester through a sequence of commands, each of
// which mutates or inspects the memo built by a previous build command. The
// memo's invariants are re-checked after every mutation.
package opttester

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/memo"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/props"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/testutils/testop"
	"github.com/cockroachdb/datadriven"
)

// OptTester runs datadriven commands against a single memo. Supported
// commands:
//
//	build
//	  Parse the input as a plan (testop syntax), build a new memo from it,
//	  and print the memo.
//
//	replace group=G<n> reason=<rule>
//	  Parse the input as a plan and replace the group's membership with it.
//	  Prints the memo, or the error if the replacement is rejected.
//
//	extract
//	  Print the fully materialized plan.
//
//	node group=G<n>
//	  Print the group's current membership (children unexpanded).
//
//	store-stats group=G<n> rows=<f>
//	store-cost group=G<n> cpu=<f> [mem=<f>] [net=<f>]
//	  Cache a statistics/cost estimate for the group.
//
//	stats group=G<n>
//	cost group=G<n>
//	  Print the cached estimate, or "none".
//
//	memo
//	  Print the memo.
//
//	group-count
//	  Print the number of live groups.
type OptTester struct {
	idAlloc *opt.IDAllocator
	memo    *memo.Memo
}

// New returns an OptTester with no memo built yet.
func New() *OptTester {
	return &OptTester{idAlloc: opt.NewIDAllocator()}
}

// RunCommand implements the datadriven command dispatch.
func (ot *OptTester) RunCommand(t *testing.T, d *datadriven.TestData) string {
	t.Helper()
	switch d.Cmd {
	case "build":
		plan, err := testop.ParsePlan(ot.idAlloc, d.Input)
		if err != nil {
			d.Fatalf(t, "%v", err)
		}
		ot.memo = memo.New(ot.idAlloc, plan)
		ot.memo.CheckInvariants()
		return ot.memo.String()

	case "replace":
		group := ot.groupArg(t, d)
		reason := ot.stringArg(t, d, "reason")
		plan, err := testop.ParsePlan(ot.idAlloc, d.Input)
		if err != nil {
			d.Fatalf(t, "%v", err)
		}
		if err := ot.replace(group, plan, reason); err != nil {
			return fmt.Sprintf("error: %v\n", err)
		}
		ot.memo.CheckInvariants()
		return ot.memo.String()

	case "extract":
		return opt.FormatTree(ot.memo.Extract())

	case "node":
		return opt.FormatNode(ot.memo.Node(ot.groupArg(t, d))) + "\n"

	case "store-stats":
		group := ot.groupArg(t, d)
		stats := &props.Statistics{RowCount: ot.floatArg(t, d, "rows")}
		ot.memo.StoreStats(group, stats)
		ot.memo.CheckInvariants()
		return ""

	case "store-cost":
		group := ot.groupArg(t, d)
		cost := &props.Cost{
			CPU:     ot.floatArg(t, d, "cpu"),
			Memory:  ot.optionalFloatArg(t, d, "mem"),
			Network: ot.optionalFloatArg(t, d, "net"),
		}
		ot.memo.StoreCost(group, cost)
		ot.memo.CheckInvariants()
		return ""

	case "stats":
		if stats, ok := ot.memo.Stats(ot.groupArg(t, d)); ok {
			return stats.String() + "\n"
		}
		return "none\n"

	case "cost":
		if cost, ok := ot.memo.Cost(ot.groupArg(t, d)); ok {
			return cost.String() + "\n"
		}
		return "none\n"

	case "memo":
		return ot.memo.String()

	case "group-count":
		return fmt.Sprintf("%d\n", ot.memo.GroupCount())

	default:
		d.Fatalf(t, "unsupported command: %s", d.Cmd)
		return ""
	}
}

// replace applies the replacement, converting the memo's assertion panics
// back into an error so that negative cases can be scripted.
func (ot *OptTester) replace(group memo.GroupID, plan opt.Node, reason string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	ot.memo.Replace(group, plan, reason)
	return nil
}

func (ot *OptTester) groupArg(t *testing.T, d *datadriven.TestData) memo.GroupID {
	t.Helper()
	val := ot.stringArg(t, d, "group")
	if !strings.HasPrefix(val, "G") {
		d.Fatalf(t, "group argument must look like G3, got %q", val)
	}
	id, err := strconv.Atoi(val[1:])
	if err != nil {
		d.Fatalf(t, "invalid group id %q", val)
	}
	return memo.GroupID(id)
}

func (ot *OptTester) stringArg(t *testing.T, d *datadriven.TestData, key string) string {
	t.Helper()
	var val string
	d.ScanArgs(t, key, &val)
	return val
}

func (ot *OptTester) floatArg(t *testing.T, d *datadriven.TestData, key string) float64 {
	t.Helper()
	val, err := strconv.ParseFloat(ot.stringArg(t, d, key), 64)
	if err != nil {
		d.Fatalf(t, "invalid %s argument: %v", key, err)
	}
	return val
}

func (ot *OptTester) optionalFloatArg(t *testing.T, d *datadriven.TestData, key string) float64 {
	t.Helper()
	if !d.HasArg(key) {
		return 0
	}
	return ot.floatArg(t, d, key)
}
