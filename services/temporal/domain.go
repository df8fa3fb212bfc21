// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package temporal overlays the HTN planner with duration, effect, and
// scheduling metadata, turning a solution tree's ordered action leaves
// into a timeline of timed actions subject to Allen-interval-style
// constraints.
package temporal

import (
	"time"

	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/state"
)

// Precondition is a fact that must hold at an action's start time.
type Precondition struct {
	Predicate string
	Subject   string
	Value     any
}

// TimedEffect is a fact change an action produces, either for a bounded
// interval starting at Start and lasting Duration, or Permanent (in
// which case Duration is ignored and the fact holds from Start onward).
type TimedEffect struct {
	Predicate string
	Subject   string
	Value     any
	Start     time.Duration
	Duration  time.Duration
	Permanent bool
}

// DurationFunc computes how long an action takes given the state it
// starts in and its arguments.
type DurationFunc func(s *state.State, args map[string]any) time.Duration

// EffectsFunc computes the timed effects an action produces once it is
// scheduled to run from start for duration.
type EffectsFunc func(s *state.State, args map[string]any, start, duration time.Duration) []TimedEffect

// ActionMeta is the temporal metadata attached to one action name.
type ActionMeta struct {
	DurationFn    DurationFunc
	EffectsFn     EffectsFunc
	Preconditions []Precondition
}

// Domain extends a planner Domain with per-action temporal metadata.
// Non-temporal planning (plain plan/replan) still works unmodified
// against the embedded Domain; only the scheduler in this package reads
// the metadata registered here.
type Domain struct {
	*domain.Domain
	meta map[string]ActionMeta
}

// NewDomain wraps d with an empty temporal metadata table.
func NewDomain(d *domain.Domain) *Domain {
	return &Domain{Domain: d, meta: make(map[string]ActionMeta)}
}

// AddTemporalAction attaches duration/effects/preconditions metadata to
// the action already registered under name in the embedded Domain.
func (d *Domain) AddTemporalAction(name string, meta ActionMeta) {
	d.meta[name] = meta
}

// Meta returns the temporal metadata registered for name, if any. An
// action with no registered metadata is treated as instantaneous
// (zero duration, no declared effects beyond what its ActionFunc does
// to the plain planner state).
func (d *Domain) Meta(name string) (ActionMeta, bool) {
	m, ok := d.meta[name]
	return m, ok
}
