// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package domain implements the planner's registry of actions and methods.
//
// A Domain is four ordered maps keyed by task/goal predicate names: actions,
// task methods, unigoal methods, and multigoal methods. Registration order
// is preserved and is load-bearing: the planner tries methods in the order
// they were added, leftmost-first, so callers that register a more specific
// method before a fallback rely on that ordering at search time.
package domain

import (
	"fmt"

	"github.com/htnc-project/htnc/services/planner/state"
)

// Outcome is the result of evaluating a method or action.
//
// A method returns Ok with the list of task-like items its decomposition
// produces (possibly empty, meaning the task is already satisfied), or
// Fail with a reason. Outcome has no "exception" case: a method that
// panics is caught by the search engine and treated as Fail.
type Outcome struct {
	ok       bool
	items    []Item
	newState *state.State
	reason   string
}

// Ok constructs a successful method outcome decomposing into items.
func Ok(items ...Item) Outcome {
	return Outcome{ok: true, items: items}
}

// OkState constructs a successful action outcome producing newState.
func OkState(newState *state.State) Outcome {
	return Outcome{ok: true, newState: newState}
}

// Fail constructs a failed outcome with the given reason.
func Fail(reason string) Outcome {
	return Outcome{ok: false, reason: reason}
}

// IsOk reports whether the outcome succeeded.
func (o Outcome) IsOk() bool { return o.ok }

// Items returns the decomposition produced by a successful method outcome.
func (o Outcome) Items() []Item { return o.items }

// NewState returns the resulting state of a successful action outcome.
func (o Outcome) NewState() *state.State { return o.newState }

// Reason returns the failure reason of a failed outcome.
func (o Outcome) Reason() string { return o.reason }

// ItemKind discriminates the four task-like item shapes.
type ItemKind int

const (
	// ItemAction names a primitive action, not decomposed further.
	ItemAction ItemKind = iota
	// ItemTask names a compound task resolved via task methods.
	ItemTask
	// ItemUnigoal is a single fact that must hold at this point.
	ItemUnigoal
	// ItemMultigoal is a set of unigoals that must hold simultaneously.
	ItemMultigoal
)

func (k ItemKind) String() string {
	switch k {
	case ItemAction:
		return "action"
	case ItemTask:
		return "task"
	case ItemUnigoal:
		return "unigoal"
	case ItemMultigoal:
		return "multigoal"
	default:
		return "unknown"
	}
}

// Item is a task-like item: an action, a task, a unigoal, or a multigoal.
type Item struct {
	Kind ItemKind

	// Action/Task name. Unused for unigoal/multigoal.
	Name string
	Args map[string]any

	// Unigoal fields.
	Predicate string
	Subject   string
	Value     any

	// Multigoal constituents, order preserved.
	Unigoals []Item
}

// NewAction builds an ItemAction with the given name and arguments.
func NewAction(name string, args map[string]any) Item {
	return Item{Kind: ItemAction, Name: name, Args: args}
}

// NewTask builds an ItemTask with the given name and arguments.
func NewTask(name string, args map[string]any) Item {
	return Item{Kind: ItemTask, Name: name, Args: args}
}

// NewUnigoal builds an ItemUnigoal demanding predicate(subject) == value.
func NewUnigoal(predicate, subject string, value any) Item {
	return Item{Kind: ItemUnigoal, Predicate: predicate, Subject: subject, Value: value}
}

// NewMultigoal builds an ItemMultigoal over the given unigoals.
func NewMultigoal(unigoals ...Item) Item {
	return Item{Kind: ItemMultigoal, Unigoals: unigoals}
}

// String renders the item for tracing/diagnostics.
func (it Item) String() string {
	switch it.Kind {
	case ItemAction, ItemTask:
		return fmt.Sprintf("%s(%s, %v)", it.Kind, it.Name, it.Args)
	case ItemUnigoal:
		return fmt.Sprintf("unigoal(%s(%s)=%v)", it.Predicate, it.Subject, it.Value)
	case ItemMultigoal:
		return fmt.Sprintf("multigoal(%v)", it.Unigoals)
	default:
		return "item(?)"
	}
}

// ActionFunc is a primitive action: (state, args) -> ok(state') | fail.
type ActionFunc func(s *state.State, args map[string]any) Outcome

// MethodFunc proposes a decomposition for a task, unigoal, or multigoal:
// (state, args) -> ok(items) | fail.
type MethodFunc func(s *state.State, args map[string]any) Outcome

// DuplicateActionError reports a second registration of the same action name.
type DuplicateActionError struct {
	Name string
}

func (e *DuplicateActionError) Error() string {
	return fmt.Sprintf("domain.duplicate_action: %q already registered", e.Name)
}

// Domain is the ordered registry of actions and methods.
//
// The zero value is not usable; construct one with New(). A Domain is
// built up once (by add_* calls) and then read many times by the
// planner; it carries no mutex because concurrent writers are not a
// supported usage pattern — build the domain, then share it read-only
// across planner instances.
type Domain struct {
	actions          map[string]ActionFunc
	taskMethods      map[string][]MethodFunc
	taskMethodOrder  []string
	unigoalMethods   map[string][]MethodFunc
	unigoalPredOrder []string
	multigoalMethods []MethodFunc
}

// New returns an empty Domain.
func New() *Domain {
	return &Domain{
		actions:        make(map[string]ActionFunc),
		taskMethods:    make(map[string][]MethodFunc),
		unigoalMethods: make(map[string][]MethodFunc),
	}
}

// AddAction registers a primitive action under name.
//
// Registering the same name twice returns a *DuplicateActionError,
// matching spec's domain.duplicate_action error kind.
func (d *Domain) AddAction(name string, fn ActionFunc) error {
	if _, exists := d.actions[name]; exists {
		return &DuplicateActionError{Name: name}
	}
	d.actions[name] = fn
	return nil
}

// AddTaskMethod appends a method for the compound task name. Methods for
// the same name are tried in the order they were added.
func (d *Domain) AddTaskMethod(name string, fn MethodFunc) {
	if _, exists := d.taskMethods[name]; !exists {
		d.taskMethodOrder = append(d.taskMethodOrder, name)
	}
	d.taskMethods[name] = append(d.taskMethods[name], fn)
}

// AddUnigoalMethod appends a method for achieving predicate. Methods for
// the same predicate are tried in the order they were added.
func (d *Domain) AddUnigoalMethod(predicate string, fn MethodFunc) {
	if _, exists := d.unigoalMethods[predicate]; !exists {
		d.unigoalPredOrder = append(d.unigoalPredOrder, predicate)
	}
	d.unigoalMethods[predicate] = append(d.unigoalMethods[predicate], fn)
}

// AddMultigoalMethod appends a method tried against every multigoal,
// regardless of which predicates it contains, in the order added.
func (d *Domain) AddMultigoalMethod(fn MethodFunc) {
	d.multigoalMethods = append(d.multigoalMethods, fn)
}

// GetAction returns the action registered under name, if any.
func (d *Domain) GetAction(name string) (ActionFunc, bool) {
	fn, ok := d.actions[name]
	return fn, ok
}

// GetTaskMethods returns the methods registered for task name, in
// registration order. The returned slice must not be mutated by callers.
func (d *Domain) GetTaskMethods(name string) []MethodFunc {
	return d.taskMethods[name]
}

// GetUnigoalMethods returns the methods registered for predicate, in
// registration order. The returned slice must not be mutated by callers.
func (d *Domain) GetUnigoalMethods(predicate string) []MethodFunc {
	return d.unigoalMethods[predicate]
}

// GetMultigoalMethods returns all registered multigoal methods, in
// registration order. The returned slice must not be mutated by callers.
func (d *Domain) GetMultigoalMethods() []MethodFunc {
	return d.multigoalMethods
}
