// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

// optmemo is a developer tool for inspecting how a plan memoizes: it parses
// a plan written in the testop syntax, builds a memo from it, and prints
// either the memo's groups or the plan extracted back out of it.
//
// Example:
//
//	$ cat plan.txt
//	(inner-join "a.x = b.x" (scan a [1,2]) (scan b [3,4]))
//	$ optmemo fmt plan.txt
//	memo (3 groups, ~384 B)
//	 root: G1
//	 G1: (inner-join "a.x = b.x" G2 G3)
//	 G2: (scan a [1,2])
//	 G3: (scan b [3,4])
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/memo"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/testutils/testop"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "optmemo",
		Short:         "inspect the memoized form of a plan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "fmt <plan-file>",
			Short: "print the memo built from the plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := buildMemo(args[0])
				if err != nil {
					return err
				}
				fmt.Print(m.String())
				return nil
			},
		},
		&cobra.Command{
			Use:   "extract <plan-file>",
			Short: "build a memo from the plan and print the extracted plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := buildMemo(args[0])
				if err != nil {
					return err
				}
				fmt.Print(opt.FormatTree(m.Extract()))
				return nil
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func buildMemo(path string) (m *memo.Memo, err error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	idAlloc := opt.NewIDAllocator()
	plan, err := testop.ParsePlan(idAlloc, strings.TrimSpace(string(contents)))
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	return memo.New(idAlloc, plan), nil
}
