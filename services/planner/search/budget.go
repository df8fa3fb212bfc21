// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

// Options are the planner's closed configuration knobs, per spec's
// {max_depth, max_nodes, verbose_level} set.
type Options struct {
	// MaxDepth bounds decomposition depth. Zero means unbounded.
	MaxDepth int
	// MaxNodes bounds the total number of tree nodes a single plan/replan
	// call may create. Zero means unbounded.
	MaxNodes int
	// VerboseLevel controls how much detail is recorded in the Trace:
	// 0 records nothing, 1 records method attempts and outcomes,
	// backtracks and action results, 2 also records blacklist hits.
	VerboseLevel int
}

// DefaultOptions returns sane bounds for interactive use.
func DefaultOptions() Options {
	return Options{MaxDepth: 100, MaxNodes: 10000, VerboseLevel: 0}
}

// budget tracks a single plan/replan call's resource consumption against
// Options' bounds.
type budget struct {
	opts  Options
	nodes int
}

func newBudget(opts Options) *budget {
	return &budget{opts: opts}
}

func (b *budget) checkDepth(depth int) error {
	if b.opts.MaxDepth > 0 && depth > b.opts.MaxDepth {
		return &PlannerError{Kind: KindBoundExceeded, Reason: "max depth exceeded"}
	}
	return nil
}

func (b *budget) recordNode() error {
	b.nodes++
	if b.opts.MaxNodes > 0 && b.nodes > b.opts.MaxNodes {
		return &PlannerError{Kind: KindBoundExceeded, Reason: "max nodes exceeded"}
	}
	return nil
}
