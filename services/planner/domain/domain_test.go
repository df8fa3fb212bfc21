// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnc-project/htnc/services/planner/state"
)

func noopAction(s *state.State, args map[string]any) Outcome {
	return OkState(s)
}

func TestAddActionDuplicate(t *testing.T) {
	d := New()
	require.NoError(t, d.AddAction("walk", noopAction))

	err := d.AddAction("walk", noopAction)
	require.Error(t, err)

	var dup *DuplicateActionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "walk", dup.Name)
}

func TestGetAction(t *testing.T) {
	d := New()
	require.NoError(t, d.AddAction("walk", noopAction))

	fn, ok := d.GetAction("walk")
	assert.True(t, ok)
	assert.NotNil(t, fn)

	_, ok = d.GetAction("missing")
	assert.False(t, ok)
}

func TestTaskMethodOrderPreserved(t *testing.T) {
	d := New()
	first := func(s *state.State, args map[string]any) Outcome { return Fail("first") }
	second := func(s *state.State, args map[string]any) Outcome { return Ok() }

	d.AddTaskMethod("travel", first)
	d.AddTaskMethod("travel", second)

	methods := d.GetTaskMethods("travel")
	require.Len(t, methods, 2)
	assert.False(t, methods[0](state.New(), nil).IsOk())
	assert.True(t, methods[1](state.New(), nil).IsOk())
}

func TestUnigoalMethodOrderPreserved(t *testing.T) {
	d := New()
	a := func(s *state.State, args map[string]any) Outcome { return Ok(NewAction("a", nil)) }
	b := func(s *state.State, args map[string]any) Outcome { return Ok(NewAction("b", nil)) }

	d.AddUnigoalMethod("loc", a)
	d.AddUnigoalMethod("loc", b)

	methods := d.GetUnigoalMethods("loc")
	require.Len(t, methods, 2)
	out := methods[0](state.New(), nil)
	require.True(t, out.IsOk())
	assert.Equal(t, "a", out.Items()[0].Name)
}

func TestMultigoalMethods(t *testing.T) {
	d := New()
	assert.Empty(t, d.GetMultigoalMethods())

	split := func(s *state.State, args map[string]any) Outcome { return Ok() }
	d.AddMultigoalMethod(split)
	require.Len(t, d.GetMultigoalMethods(), 1)
}

func TestItemConstructors(t *testing.T) {
	action := NewAction("pickup", map[string]any{"block": "a"})
	assert.Equal(t, ItemAction, action.Kind)

	task := NewTask("travel", nil)
	assert.Equal(t, ItemTask, task.Kind)

	uni := NewUnigoal("loc", "me", "park")
	assert.Equal(t, ItemUnigoal, uni.Kind)
	assert.Equal(t, "park", uni.Value)

	multi := NewMultigoal(uni)
	assert.Equal(t, ItemMultigoal, multi.Kind)
	assert.Len(t, multi.Unigoals, 1)
}
