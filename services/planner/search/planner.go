// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package search implements the HTN planner: depth-first, leftmost-
// outermost decomposition of a todo list into a solution tree, with
// re-entrant replanning rooted at any node and tree-scoped blacklisting
// of labels that must never be retried.
//
// A Planner instance is not reused across calls to Plan/Replan — each
// call constructs its own budget and trace, matching the "re-entrant by
// instance" concurrency model: many planner calls may run in parallel,
// each owning its own tree, with no shared mutable state between them.
package search

import (
	"fmt"

	"github.com/htnc-project/htnc/pkg/metrics"
	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/state"
	"github.com/htnc-project/htnc/services/planner/tree"
)

// Planner drives one plan/replan call against a Domain.
type Planner struct {
	dom    *domain.Domain
	opts   Options
	budget *budget
	events Trace
}

func newPlanner(dom *domain.Domain, opts Options) *Planner {
	return &Planner{dom: dom, opts: opts, budget: newBudget(opts)}
}

// Plan resolves todos (a mixed list of actions/tasks/unigoals/multigoals)
// against the initial state s, returning the resulting solution tree.
// On failure the partially-built tree is still returned, per spec's
// "errors carry the partial solution tree for inspection" contract.
func Plan(dom *domain.Domain, s *state.State, todos []domain.Item, opts Options) (*tree.Tree, Trace, error) {
	p := newPlanner(dom, opts)
	tr := tree.NewRoot(domain.NewTask("root", nil), s)
	root := tr.Root()

	childIDs := tr.InstallChildren(0, todos, s)
	if err := p.resolveChildren(tr, childIDs, 1); err != nil {
		root.Status = tree.StatusFailed
		root.FailReason = err.Error()
		return tr, p.events, err
	}

	root.Status = tree.StatusDecomposed
	root.StateOut = lastStateOut(tr, childIDs, s)
	return tr, p.events, nil
}

// Replan repairs tr rooted at failedNodeID, using observedState as the
// executor-observed entering state for that node, then re-propagates
// the repaired state_out chain through every right sibling and ancestor
// it touches. Nodes to the left of failedNodeID in in-order traversal
// are never revisited.
func Replan(dom *domain.Domain, tr *tree.Tree, failedNodeID int, observedState *state.State, opts Options) (*tree.Tree, Trace, error) {
	p := newPlanner(dom, opts)
	depth := depthOf(tr, failedNodeID)

	tr.ReplanFrom(failedNodeID, observedState)
	if err := p.resolve(tr, failedNodeID, depth); err != nil {
		return tr, p.events, err
	}
	if err := p.propagateRight(tr, failedNodeID, depth); err != nil {
		return tr, p.events, err
	}
	return tr, p.events, nil
}

// Blacklist marks nodeID's label as not-to-retry for the remainder of
// tr's search. It does not by itself trigger a repair; callers
// typically follow it with Replan rooted at nodeID's parent.
func Blacklist(tr *tree.Tree, nodeID int) *tree.Tree {
	tr.Blacklist(nodeID)
	return tr
}

// resolveChildren resolves ids in order, threading state_out(i) into
// state_in(i+1), per the solution tree's state-chain invariant.
func (p *Planner) resolveChildren(tr *tree.Tree, ids []int, depth int) error {
	var cursor *state.State
	for i, id := range ids {
		node := tr.Node(id)
		if i == 0 {
			cursor = node.StateIn
		} else {
			node.StateIn = cursor
		}
		if err := p.resolve(tr, id, depth); err != nil {
			return err
		}
		cursor = tr.Node(id).StateOut
	}
	return nil
}

// resolve dispatches on the node's item kind and resolves it in place,
// setting StateOut and Status on success or returning an error (the
// node itself is left Failed) on exhaustion.
func (p *Planner) resolve(tr *tree.Tree, nodeID, depth int) error {
	if err := p.budget.checkDepth(depth); err != nil {
		err.(*PlannerError).NodeID = nodeID
		return err
	}
	if err := p.budget.recordNode(); err != nil {
		err.(*PlannerError).NodeID = nodeID
		return err
	}
	metrics.PlannerNodesResolved.Inc()

	node := tr.Node(nodeID)
	if tr.IsBlacklisted(node.Label) {
		p.trace(nodeID, EventBlacklistHit, node.Label.String())
		tr.MarkFailed(nodeID, "blacklisted")
		return &PlannerError{Kind: KindNoMethodApplicable, NodeID: nodeID, Reason: "label blacklisted"}
	}

	switch node.Label.Kind {
	case domain.ItemAction:
		return p.resolveAction(tr, nodeID)
	case domain.ItemTask:
		return p.resolveTask(tr, nodeID, depth)
	case domain.ItemUnigoal:
		return p.resolveUnigoal(tr, nodeID, depth)
	case domain.ItemMultigoal:
		return p.resolveMultigoal(tr, nodeID, depth)
	default:
		return &PlannerError{Kind: KindUnknownSymbol, NodeID: nodeID, Reason: "unknown item kind"}
	}
}

func (p *Planner) resolveAction(tr *tree.Tree, nodeID int) error {
	node := tr.Node(nodeID)
	fn, ok := p.dom.GetAction(node.Label.Name)
	if !ok {
		tr.MarkFailed(nodeID, "unknown action")
		return &PlannerError{Kind: KindUnknownSymbol, NodeID: nodeID, Reason: fmt.Sprintf("unknown action %q", node.Label.Name)}
	}

	outcome := p.invokeAction(fn, node.StateIn, node.Label.Args)
	if !outcome.IsOk() {
		metrics.PlannerActionsFailed.Inc()
		p.trace(nodeID, EventActionFailed, outcome.Reason())
		tr.MarkFailed(nodeID, outcome.Reason())
		return &PlannerError{Kind: KindActionFailed, NodeID: nodeID, Reason: outcome.Reason()}
	}

	node.StateOut = outcome.NewState()
	node.Status = tree.StatusExecuted
	p.trace(nodeID, EventActionExecuted, node.Label.Name)
	return nil
}

func (p *Planner) resolveTask(tr *tree.Tree, nodeID, depth int) error {
	node := tr.Node(nodeID)
	methods := p.dom.GetTaskMethods(node.Label.Name)
	if len(methods) == 0 {
		tr.MarkFailed(nodeID, "no methods registered")
		return &PlannerError{Kind: KindUnknownSymbol, NodeID: nodeID, Reason: fmt.Sprintf("no task methods for %q", node.Label.Name)}
	}

	for node.MethodIndex < len(methods) {
		p.trace(nodeID, EventMethodTried, fmt.Sprintf("task %s method %d", node.Label.Name, node.MethodIndex))
		outcome := p.invokeMethod(methods[node.MethodIndex], node.StateIn, node.Label.Args)
		ok, items := p.acceptOutcome(tr, nodeID, outcome)
		if !ok {
			node.MethodIndex++
			continue
		}
		// installAndResolve calls tr.AdvanceMethod (which already bumps
		// MethodIndex) on failure, so the loop must not increment again.
		if err := p.installAndResolve(tr, nodeID, items, depth); err == nil {
			return nil
		}
	}

	tr.MarkFailed(nodeID, "no applicable method")
	return &PlannerError{Kind: KindNoMethodApplicable, NodeID: nodeID, Reason: fmt.Sprintf("task %q exhausted its methods", node.Label.Name)}
}

func (p *Planner) resolveUnigoal(tr *tree.Tree, nodeID, depth int) error {
	node := tr.Node(nodeID)
	item := node.Label

	if v, ok := node.StateIn.Get(item.Predicate, item.Subject); ok && valuesEqual(v, item.Value) {
		node.StateOut = node.StateIn
		node.Status = tree.StatusDecomposed
		return nil
	}

	methods := p.dom.GetUnigoalMethods(item.Predicate)
	for node.MethodIndex < len(methods) {
		p.trace(nodeID, EventMethodTried, fmt.Sprintf("unigoal %s(%s) method %d", item.Predicate, item.Subject, node.MethodIndex))
		outcome := p.invokeMethod(methods[node.MethodIndex], node.StateIn, map[string]any{"subject": item.Subject, "value": item.Value})
		ok, items := p.acceptOutcome(tr, nodeID, outcome)
		if !ok {
			node.MethodIndex++
			continue
		}
		if err := p.installAndResolve(tr, nodeID, items, depth); err != nil {
			continue
		}
		if v, ok := node.StateOut.Get(item.Predicate, item.Subject); !ok || !valuesEqual(v, item.Value) {
			tr.AdvanceMethod(nodeID)
			continue
		}
		return nil
	}

	tr.MarkFailed(nodeID, "no applicable method")
	return &PlannerError{Kind: KindNoMethodApplicable, NodeID: nodeID, Reason: fmt.Sprintf("unigoal %s(%s) unreachable", item.Predicate, item.Subject)}
}

func (p *Planner) resolveMultigoal(tr *tree.Tree, nodeID, depth int) error {
	node := tr.Node(nodeID)
	methods := p.dom.GetMultigoalMethods()
	total := len(methods) + 1 // +1 for the default "split" strategy

	for node.MethodIndex < total {
		isSplit := node.MethodIndex == len(methods)
		var outcome domain.Outcome
		if isSplit {
			outcome = domain.Ok(node.Label.Unigoals...)
		} else {
			outcome = p.invokeMethod(methods[node.MethodIndex], node.StateIn, nil)
		}

		ok, items := p.acceptOutcome(tr, nodeID, outcome)
		if !ok {
			node.MethodIndex++
			continue
		}
		if err := p.installAndResolve(tr, nodeID, items, depth); err != nil {
			continue
		}
		if !isSplit || allUnigoalsHold(node.Label.Unigoals, node.StateOut) {
			return nil
		}
		tr.AdvanceMethod(nodeID)
	}

	tr.MarkFailed(nodeID, "no applicable method")
	return &PlannerError{Kind: KindGoalUnreachable, NodeID: nodeID, Reason: "multigoal unreachable"}
}

// acceptOutcome reports whether outcome is usable: it succeeded and none
// of its items carry a blacklisted label.
func (p *Planner) acceptOutcome(tr *tree.Tree, nodeID int, outcome domain.Outcome) (bool, []domain.Item) {
	if !outcome.IsOk() {
		p.trace(nodeID, EventMethodFail, outcome.Reason())
		return false, nil
	}
	for _, item := range outcome.Items() {
		if tr.IsBlacklisted(item) {
			p.trace(nodeID, EventBlacklistHit, item.String())
			return false, nil
		}
	}
	p.trace(nodeID, EventMethodOK, "")
	return true, outcome.Items()
}

// installAndResolve installs items as nodeID's children, resolves them
// in order, and on success sets nodeID's StateOut/Status. On failure it
// advances nodeID's method index (pruning the failed attempt) so the
// caller's loop tries the next method.
func (p *Planner) installAndResolve(tr *tree.Tree, nodeID int, items []domain.Item, depth int) error {
	node := tr.Node(nodeID)
	childIDs := tr.InstallChildren(nodeID, items, node.StateIn)
	if err := p.resolveChildren(tr, childIDs, depth+1); err != nil {
		metrics.PlannerBacktracks.Inc()
		p.trace(nodeID, EventBacktrack, err.Error())
		tr.AdvanceMethod(nodeID)
		return err
	}
	node.StateOut = lastStateOut(tr, childIDs, node.StateIn)
	node.Status = tree.StatusDecomposed
	return nil
}

func lastStateOut(tr *tree.Tree, ids []int, fallback *state.State) *state.State {
	if len(ids) == 0 {
		return fallback
	}
	return tr.Node(ids[len(ids)-1]).StateOut
}

func allUnigoalsHold(unigoals []domain.Item, s *state.State) bool {
	for _, u := range unigoals {
		v, ok := s.Get(u.Predicate, u.Subject)
		if !ok || !valuesEqual(v, u.Value) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
		}
	}()
	return a == b
}

// invokeMethod calls fn, treating a panic as a failed outcome rather
// than letting it cross the package boundary: spec requires that a
// method raising an exception is treated as fail("method raised").
func (p *Planner) invokeMethod(fn domain.MethodFunc, s *state.State, args map[string]any) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = domain.Fail(fmt.Sprintf("method raised: %v", r))
		}
	}()
	return fn(s, args)
}

func (p *Planner) invokeAction(fn domain.ActionFunc, s *state.State, args map[string]any) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = domain.Fail(fmt.Sprintf("action raised: %v", r))
		}
	}()
	return fn(s, args)
}

// depthOf returns nodeID's depth in tr (the root is depth 0).
func depthOf(tr *tree.Tree, nodeID int) int {
	depth := 0
	for n := tr.Node(nodeID); n.Parent >= 0; n = tr.Node(n.Parent) {
		depth++
	}
	return depth
}

// propagateRight re-resolves every right sibling of nodeID (whose
// entering state may now differ after nodeID's repair) and threads the
// resulting state_out chain up through each ancestor it touches, per
// replan_from's "nodes to the right are discarded and reconstructed"
// contract.
func (p *Planner) propagateRight(tr *tree.Tree, nodeID, depth int) error {
	node := tr.Node(nodeID)
	if node.Parent < 0 {
		return nil
	}
	parent := tr.Node(node.Parent)
	idx := indexOf(parent.Children, nodeID)
	cursor := node.StateOut

	for i := idx + 1; i < len(parent.Children); i++ {
		sibID := parent.Children[i]
		sib := tr.Node(sibID)
		tr.Prune(sibID)
		sib.StateIn = cursor
		sib.Status = tree.StatusOpen
		if err := p.resolve(tr, sibID, depth); err != nil {
			return err
		}
		cursor = tr.Node(sibID).StateOut
	}

	parent.StateOut = cursor
	return p.propagateRight(tr, parent.ID, depth-1)
}

func indexOf(ids []int, target int) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}
