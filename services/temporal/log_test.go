// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogGetAtWithinInterval(t *testing.T) {
	l := NewLog()
	l.Append(Interval{Predicate: "scouted", Subject: "camp", Value: true, Start: 5 * time.Minute, End: Unbounded})

	_, ok := l.GetAt("scouted", "camp", 0)
	assert.False(t, ok)

	v, ok := l.GetAt("scouted", "camp", 5*time.Minute)
	require.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = l.GetAt("scouted", "camp", time.Hour)
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestLogGetAtPrefersLatestAppend(t *testing.T) {
	l := NewLog()
	l.Append(Interval{Predicate: "status", Subject: "alpha", Value: "idle", Start: 0, End: Unbounded})
	l.Append(Interval{Predicate: "status", Subject: "alpha", Value: "busy", Start: 5 * time.Minute, End: 15 * time.Minute})

	v, ok := l.GetAt("status", "alpha", 10*time.Minute)
	require.True(t, ok)
	assert.Equal(t, "busy", v)

	v, ok = l.GetAt("status", "alpha", 20*time.Minute)
	require.True(t, ok)
	assert.Equal(t, "idle", v)
}

func TestLogAdvanceToDerivesCanonicalState(t *testing.T) {
	l := NewLog()
	l.Append(Interval{Predicate: "scouted", Subject: "camp", Value: true, Start: 5 * time.Minute, End: Unbounded})
	l.Append(Interval{Predicate: "status", Subject: "alpha", Value: "busy", Start: 5 * time.Minute, End: 15 * time.Minute})

	s := l.AdvanceTo(10 * time.Minute)
	scouted, ok := s.Get("scouted", "camp")
	require.True(t, ok)
	assert.Equal(t, true, scouted)

	status, ok := s.Get("status", "alpha")
	require.True(t, ok)
	assert.Equal(t, "busy", status)

	s2 := l.AdvanceTo(20 * time.Minute)
	_, ok = s2.Get("status", "alpha")
	assert.False(t, ok, "expired interval should not appear in a later snapshot")
}

func TestLogIntervalsSortedByStart(t *testing.T) {
	l := NewLog()
	l.Append(Interval{Predicate: "p", Subject: "b", Start: 10 * time.Minute, End: Unbounded})
	l.Append(Interval{Predicate: "p", Subject: "a", Start: 1 * time.Minute, End: Unbounded})

	ivs := l.Intervals()
	require.Len(t, ivs, 2)
	assert.Equal(t, "a", ivs[0].Subject)
	assert.Equal(t, "b", ivs[1].Subject)
}
