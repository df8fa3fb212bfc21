// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package temporal

import (
	"math"
	"sort"
	"time"

	"github.com/htnc-project/htnc/services/planner/state"
)

// Unbounded marks an interval that never ends (a permanent effect).
const Unbounded = time.Duration(math.MaxInt64)

// Interval is one (predicate, subject, value) binding valid over
// [Start, End). A permanent effect has End == Unbounded.
type Interval struct {
	Predicate string
	Subject   string
	Value     any
	Start     time.Duration
	End       time.Duration
}

func (iv Interval) activeAt(t time.Duration) bool {
	return iv.Start <= t && (iv.End == Unbounded || t < iv.End)
}

// Log is an append-only, time-indexed fact log: the executor's record
// of what was true and when, queried by the planner as a snapshot at
// replan entry.
//
// Append-only here is enforced by convention, not by the type: Append
// is the only mutator, and it never removes or rewrites an existing
// interval, only adds a new one (a later write to the same key
// shadows, at query time, any earlier interval still overlapping it).
type Log struct {
	intervals []Interval
}

// NewLog returns an empty temporal fact log.
func NewLog() *Log {
	return &Log{}
}

// Append records a new interval. Intervals are kept in insertion order;
// GetAt resolves ties between overlapping intervals for the same key by
// preferring the most recently appended one.
func (l *Log) Append(iv Interval) {
	l.intervals = append(l.intervals, iv)
}

// GetAt returns the value of the latest interval for (predicate,
// subject) that starts at or before t and has not yet ended at t.
func (l *Log) GetAt(predicate, subject string, t time.Duration) (any, bool) {
	for i := len(l.intervals) - 1; i >= 0; i-- {
		iv := l.intervals[i]
		if iv.Predicate == predicate && iv.Subject == subject && iv.activeAt(t) {
			return iv.Value, true
		}
	}
	return nil, false
}

// AdvanceTo derives the canonical planner State as of time t: for every
// (predicate, subject) pair that ever appeared in the log, its value is
// the latest interval active at t, if any.
func (l *Log) AdvanceTo(t time.Duration) *state.State {
	type key struct{ predicate, subject string }
	seen := make(map[key]bool)
	order := make([]key, 0)
	for _, iv := range l.intervals {
		k := key{iv.Predicate, iv.Subject}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	s := state.New()
	for _, k := range order {
		if v, ok := l.GetAt(k.predicate, k.subject, t); ok {
			s = s.Set(k.predicate, k.subject, v)
		}
	}
	return s
}

// Intervals returns a copy of the log's intervals sorted by start time,
// for diagnostics and tests.
func (l *Log) Intervals() []Interval {
	out := make([]Interval, len(l.intervals))
	copy(out, l.intervals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
