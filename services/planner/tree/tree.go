// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tree implements the planner's solution tree: the persistent
// record of decompositions produced during search.
//
// Nodes live in an arena (a slice indexed by integer id) rather than as
// a web of pointer-linked objects; parent/child references are plain
// ints into that arena. This keeps replan's "drop everything right of
// node N, rebuild" operation a matter of clearing child-id lists and
// appending fresh nodes instead of a graph-surgery problem. Pruned
// nodes stay in the arena, detached, and their ids are never reused.
package tree

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/state"
)

// Status is the lifecycle state of a solution tree node.
type Status int

const (
	// StatusOpen means the node has not yet been resolved.
	StatusOpen Status = iota
	// StatusDecomposed means a task/unigoal/multigoal node installed children.
	StatusDecomposed
	// StatusExecuted means an action node ran its action function successfully.
	StatusExecuted
	// StatusFailed means every method/the action was tried and none applied.
	StatusFailed
	// StatusBlacklisted means the node's label must never be retried in this tree.
	StatusBlacklisted
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusDecomposed:
		return "decomposed"
	case StatusExecuted:
		return "executed"
	case StatusFailed:
		return "failed"
	case StatusBlacklisted:
		return "blacklisted"
	default:
		return "unknown"
	}
}

// noParent marks the root node's Parent field.
const noParent = -1

// Node is one entry in the solution tree's arena.
type Node struct {
	// ID is the node's stable index within its tree's arena.
	ID int
	// UUID is an externally-exposed random identifier, stable for the
	// node's lifetime and independent of its position in the arena.
	UUID string

	Label       domain.Item
	MethodIndex int
	StateIn     *state.State
	StateOut    *state.State
	Children    []int
	Status      Status
	Parent      int

	// Deferred marks a task node whose decomposition is postponed to
	// execution time, per the planner's lazy refinement-ahead mode.
	Deferred bool

	// FailReason records why an action/method attempt most recently failed.
	FailReason string
}

// IsLeaf reports whether the node currently has no children installed.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is a solution tree: an arena of nodes rooted at index 0.
type Tree struct {
	nodes      []*Node
	blacklist  map[string]bool
}

// NewRoot creates a tree with a single root node wrapping the top-level
// todo list, represented as a synthetic multigoal-like task container.
// rootItem is typically a Task or Multigoal; stateIn is the initial State.
func NewRoot(rootItem domain.Item, stateIn *state.State) *Tree {
	t := &Tree{blacklist: make(map[string]bool)}
	t.newNode(noParent, rootItem, stateIn)
	return t
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node {
	return t.nodes[0]
}

// Node returns the node with the given arena id.
func (t *Tree) Node(id int) *Node {
	return t.nodes[id]
}

// Len returns the number of nodes currently in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) newNode(parent int, item domain.Item, stateIn *state.State) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, &Node{
		ID:      id,
		UUID:    uuid.NewString(),
		Label:   item,
		Parent:  parent,
		StateIn: stateIn,
		Status:  StatusOpen,
	})
	return id
}

// InstallChildren attaches items as ordered children of parentID, each
// inheriting stateIn as their initial entering state (the planner is
// responsible for threading state_out(ci) = state_in(ci+1) as it
// resolves each child in turn). The parent is marked decomposed.
func (t *Tree) InstallChildren(parentID int, items []domain.Item, stateIn *state.State) []int {
	parent := t.nodes[parentID]
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = t.newNode(parentID, item, stateIn)
	}
	parent.Children = ids
	parent.Status = StatusDecomposed
	return ids
}

// Prune removes nodeID's entire descendant subtree from the arena's
// logical structure (the slots stay in the arena, detached, and are
// never reused). nodeID itself is kept, its
// Children cleared, and its StateOut reset to nil.
func (t *Tree) Prune(nodeID int) {
	node := t.nodes[nodeID]
	for _, c := range node.Children {
		t.detach(c)
	}
	node.Children = nil
	node.StateOut = nil
}

func (t *Tree) detach(nodeID int) {
	node := t.nodes[nodeID]
	for _, c := range node.Children {
		t.detach(c)
	}
	node.Parent = noParent
	node.Children = nil
}

// AdvanceMethod increments nodeID's method index and resets it to open,
// pruning any children installed by the method being abandoned. Callers
// use this when a chosen method's decomposition later failed and the
// next method in registration order should be tried.
func (t *Tree) AdvanceMethod(nodeID int) {
	t.Prune(nodeID)
	node := t.nodes[nodeID]
	node.MethodIndex++
	node.Status = StatusOpen
	node.FailReason = ""
}

// MarkFailed marks nodeID (and, implicitly, its abandoned subtree) as failed.
func (t *Tree) MarkFailed(nodeID int, reason string) {
	t.Prune(nodeID)
	node := t.nodes[nodeID]
	node.Status = StatusFailed
	node.FailReason = reason
}

// LeavesInOrder returns the ids of the tree's leaf nodes in left-to-right
// (in-order) traversal order: this is the plan, once every leaf is an
// executed action node.
func (t *Tree) LeavesInOrder() []int {
	var out []int
	var walk func(id int)
	walk = func(id int) {
		node := t.nodes[id]
		if node.IsLeaf() {
			// A non-action leaf only arises when a unigoal was already
			// satisfied on entry (empty decomposition); it contributes no
			// step to the plan, matching "leaves of a fully decomposed
			// tree are all action nodes".
			if node.Label.Kind == domain.ItemAction {
				out = append(out, id)
			}
			return
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(0)
	return out
}

// FindDeepestLeftmostOpen returns the leftmost-outermost open node: the
// first node, in a pre-order walk, whose status is still Open. Each
// child's subtree is searched in full before its next sibling is
// visited, and the descendants of an open node are not searched.
func (t *Tree) FindDeepestLeftmostOpen() (int, bool) {
	var found int
	ok := false
	var walk func(id int) bool
	walk = func(id int) bool {
		node := t.nodes[id]
		if node.Status == StatusOpen {
			found = id
			return true
		}
		for _, c := range node.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(0) {
		ok = true
	}
	return found, ok
}

// ReplanFrom prepares nodeID for repair-mode search: its subtree is
// pruned, its entering state is overridden with the executor-observed
// state, and its status returns to open. Its method_index is left
// untouched, so a subsequent search attempt resumes from the method
// that was last chosen rather than restarting from method zero; the
// methods before it, already rejected, are not tried again.
//
// Nodes to the left of nodeID in in-order traversal, and their
// state_out chain, are never touched by this call.
func (t *Tree) ReplanFrom(nodeID int, stateOverride *state.State) {
	t.Prune(nodeID)
	node := t.nodes[nodeID]
	node.StateIn = stateOverride
	node.Status = StatusOpen
	node.FailReason = ""
}

// Blacklist marks nodeID's label as not-to-retry for the remainder of
// this tree's search. Any future method attempt whose produced item has
// an equal label is skipped by the search engine via IsBlacklisted.
func (t *Tree) Blacklist(nodeID int) {
	node := t.nodes[nodeID]
	node.Status = StatusBlacklisted
	t.blacklist[labelKey(node.Label)] = true
}

// IsBlacklisted reports whether item's label was previously blacklisted
// in this tree.
func (t *Tree) IsBlacklisted(item domain.Item) bool {
	return t.blacklist[labelKey(item)]
}

func labelKey(item domain.Item) string {
	return fmt.Sprintf("%s|%s|%v|%s|%s|%v", item.Kind, item.Name, item.Args, item.Predicate, item.Subject, item.Value)
}
