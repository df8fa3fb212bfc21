// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package executor walks a solution tree's leaves in order, applying
// each primitive action's effects against a live environment, and
// reports the failing node's id and observed state back to the caller
// so it can re-enter the planner for repair.
//
// The environment is a seam: at planning time the planner evaluates a
// domain's action functions against a purely simulated state; at
// execution time the same action name may be dispatched against a real
// system that can fail for reasons the simulation never models. Decoupling
// the two lets a domain's action functions double as the default
// environment in tests while production callers supply their own.
package executor

import (
	"context"
	"fmt"

	"github.com/htnc-project/htnc/pkg/logging"
	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/state"
	"github.com/htnc-project/htnc/services/planner/tree"
)

// Environment executes one primitive action against the live system and
// reports its outcome, mirroring domain.ActionFunc's shape so a Domain
// can serve directly as an Environment in tests and simulations.
type Environment interface {
	Execute(ctx context.Context, name string, args map[string]any, s *state.State) domain.Outcome
}

// DomainEnvironment adapts a *domain.Domain's registered actions into an
// Environment, for the common case where planning-time simulation and
// execution-time behavior are the same action functions.
type DomainEnvironment struct {
	Domain *domain.Domain
}

// Execute looks up name in the wrapped domain and invokes it.
func (e DomainEnvironment) Execute(_ context.Context, name string, args map[string]any, s *state.State) domain.Outcome {
	fn, ok := e.Domain.GetAction(name)
	if !ok {
		return domain.Fail(fmt.Sprintf("unknown action %q", name))
	}
	return fn(s, args)
}

// FailedNodeError reports which leaf failed during execution and the
// state observed at that point, the shape callers need to invoke
// search.Replan.
type FailedNodeError struct {
	NodeID int
	State  *state.State
	Reason string
}

func (e *FailedNodeError) Error() string {
	return fmt.Sprintf("execution.action_failed: node %d: %s", e.NodeID, e.Reason)
}

// Executor runs a solution tree's plan against an Environment.
type Executor struct {
	env    Environment
	logger *logging.Logger
}

// New constructs an Executor. A nil logger falls back to logging.Default().
func New(env Environment, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Executor{env: env, logger: logger.WithComponent("executor")}
}

// Run executes tr's leaves in order starting from startState. On the
// first action failure it stops and returns a *FailedNodeError carrying
// the failing node id and the state as of just before that action, so
// the caller can invoke search.Replan(tree, failedNodeID, state) without
// re-deriving it. On success it returns the final state.
func (ex *Executor) Run(ctx context.Context, tr *tree.Tree, startState *state.State) (*state.State, error) {
	cursor := startState
	for _, id := range tr.LeavesInOrder() {
		node := tr.Node(id)
		if node.Status == tree.StatusExecuted {
			// Already executed during a prior Run (e.g. resuming after a
			// partial replan); trust its recorded effects rather than
			// re-running a side-effecting action twice.
			cursor = node.StateOut
			continue
		}

		ex.logger.Debug("executing action", "node_id", id, "action", node.Label.Name)
		outcome := ex.env.Execute(ctx, node.Label.Name, node.Label.Args, cursor)
		if !outcome.IsOk() {
			ex.logger.Warn("action failed", "node_id", id, "action", node.Label.Name, "reason", outcome.Reason())
			tr.MarkFailed(id, outcome.Reason())
			return cursor, &FailedNodeError{NodeID: id, State: cursor, Reason: outcome.Reason()}
		}

		node.StateOut = outcome.NewState()
		node.Status = tree.StatusExecuted
		cursor = node.StateOut
	}
	return cursor, nil
}
