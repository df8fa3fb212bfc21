// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/htnc-project/htnc/cmd/htncli/config"
	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/examples"
	"github.com/htnc-project/htnc/services/planner/search"
	"github.com/htnc-project/htnc/services/planner/tree"
)

// planResult is the rendered shape of a successful plan: its leaves,
// in execution order.
type planResult struct {
	Leaves []string `json:"leaves"`
}

func (r *planResult) String() string {
	return strings.Join(r.Leaves, " -> ")
}

func planOptions() search.Options {
	return search.Options{
		MaxDepth:     config.Global.Planner.MaxDepth,
		MaxNodes:     config.Global.Planner.MaxNodes,
		VerboseLevel: config.Global.Planner.VerboseLevel,
	}
}

func leavesOf(tr *tree.Tree) *planResult {
	leaves := tr.LeavesInOrder()
	names := make([]string, len(leaves))
	for i, id := range leaves {
		names[i] = tr.Node(id).Label.Name
	}
	return &planResult{Leaves: names}
}

func runPlanBlocksWorld(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	d := examples.BlocksWorldDomain()
	tr, _, err := search.Plan(d, examples.BlocksWorldInitialState(), []domain.Item{examples.BlocksWorldGoal()}, planOptions())
	if err != nil {
		return err
	}
	return renderResult(outputConfig{JSON: jsonOutput, Compact: compactJSON}, "plan blocksworld", start, leavesOf(tr))
}

func runPlanTravel(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cash, _ := cmd.Flags().GetInt("cash")

	d := examples.SimpleTravelDomain()
	tr, _, err := search.Plan(d, examples.SimpleTravelInitialState(cash), []domain.Item{examples.SimpleTravelGoal(args[0])}, planOptions())
	if err != nil {
		return err
	}
	return renderResult(outputConfig{JSON: jsonOutput, Compact: compactJSON}, "plan travel", start, leavesOf(tr))
}
