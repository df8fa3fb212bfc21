// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package state implements the planner's keyed fact store.
//
// A State maps (predicate, subject) pairs to a value, with at most one
// value per key. All mutation is purely functional: Set/Remove return a
// new State and leave the receiver unchanged, which lets the planner
// fork a state at every decomposition step. Each Set/Remove copies the
// whole fact table; forked States do not share structure.
package state

import (
	"fmt"
	"sort"
	"strings"
)

// key identifies a single fact slot.
type key struct {
	Predicate string
	Subject   string
}

// State is an immutable (predicate, subject) -> value fact store.
//
// The zero value is not usable; construct one with New(). A State is
// safe for concurrent reads; because every mutating method returns a
// new State rather than mutating the receiver, sharing one across
// goroutines is always safe.
type State struct {
	facts map[key]any
}

// New returns an empty State.
func New() *State {
	return &State{facts: make(map[key]any)}
}

// Set returns a new State with (predicate, subject) bound to value.
//
// The receiver is not modified. Set copies the whole fact table and
// binds the key in the copy, so the cost is O(n) in the number of live
// facts, not the history depth.
func (s *State) Set(predicate, subject string, value any) *State {
	next := s.clone()
	next.facts[key{predicate, subject}] = value
	return next
}

// Get returns the value bound to (predicate, subject) and whether it is
// present. An absent key (never set, or removed) returns (nil, false).
func (s *State) Get(predicate, subject string) (any, bool) {
	v, ok := s.facts[key{predicate, subject}]
	return v, ok
}

// GetBool is a convenience accessor for boolean-valued facts, the common
// case for unigoal predicates. Absent or non-bool values return false.
func (s *State) GetBool(predicate, subject string) bool {
	v, ok := s.Get(predicate, subject)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Remove returns a new State with (predicate, subject) unset.
func (s *State) Remove(predicate, subject string) *State {
	next := s.clone()
	delete(next.facts, key{predicate, subject})
	return next
}

// Equals reports whether s and other bind exactly the same keys to
// equal values, per spec's structural-equality contract. Values are
// compared with Go's == where comparable, and via fmt.Sprintf fallback
// for composite types (the planner's domain values are expected to be
// small, comparable structs, strings, numbers, or bools).
func (s *State) Equals(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.facts) != len(other.facts) {
		return false
	}
	for k, v := range s.facts {
		ov, ok := other.facts[k]
		if !ok {
			return false
		}
		if !valuesEqual(v, ov) {
			return false
		}
	}
	return true
}

// Keys returns the (predicate, subject) pairs currently bound, sorted
// for deterministic iteration (used by String and by tests).
func (s *State) Keys() [][2]string {
	out := make([][2]string, 0, len(s.facts))
	for k := range s.facts {
		out = append(out, [2]string{k.Predicate, k.Subject})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// String renders the state as a sorted, human-readable fact list, used
// for diagnostics and test failure messages.
func (s *State) String() string {
	var b strings.Builder
	for _, k := range s.Keys() {
		v, _ := s.Get(k[0], k[1])
		fmt.Fprintf(&b, "%s(%s)=%v\n", k[0], k[1], v)
	}
	return b.String()
}

func (s *State) clone() *State {
	next := make(map[key]any, len(s.facts)+1)
	for k, v := range s.facts {
		next[k] = v
	}
	return &State{facts: next}
}

func valuesEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			// a or b holds a non-comparable dynamic type (slice, map, ...);
			// fall back to string form rather than propagating the panic.
			eq = fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
		}
	}()
	return a == b
}
