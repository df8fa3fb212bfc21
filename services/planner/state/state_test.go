// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	s := New()
	s2 := s.Set("on", "a", "b")

	_, ok := s.Get("on", "a")
	assert.False(t, ok, "original state must not be mutated")

	v, ok := s2.Get("on", "a")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestSetIsPureFork(t *testing.T) {
	base := New().Set("loc", "me", "home").Set("cash", "me", 20)
	forkA := base.Set("loc", "me", "park")
	forkB := base.Set("cash", "me", 10)

	locBase, _ := base.Get("loc", "me")
	locA, _ := forkA.Get("loc", "me")
	cashBase, _ := base.Get("cash", "me")
	cashB, _ := forkB.Get("cash", "me")

	assert.Equal(t, "home", locBase)
	assert.Equal(t, "park", locA)
	assert.Equal(t, 20, cashBase)
	assert.Equal(t, 10, cashB)
}

func TestRemove(t *testing.T) {
	s := New().Set("holding", "me", "block")
	s2 := s.Remove("holding", "me")

	_, ok := s2.Get("holding", "me")
	assert.False(t, ok)

	_, ok = s.Get("holding", "me")
	assert.True(t, ok, "remove must not mutate the receiver")
}

func TestEquals(t *testing.T) {
	a := New().Set("on", "a", "b").Set("on", "b", "table")
	b := New().Set("on", "b", "table").Set("on", "a", "b")
	c := New().Set("on", "a", "b")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestEqualsNonComparableValues(t *testing.T) {
	a := New().Set("tags", "x", []string{"a", "b"})
	b := New().Set("tags", "x", []string{"a", "b"})
	c := New().Set("tags", "x", []string{"a", "c"})

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestGetBool(t *testing.T) {
	s := New().Set("clear", "a", true)
	assert.True(t, s.GetBool("clear", "a"))
	assert.False(t, s.GetBool("clear", "missing"))
}

func TestKeysSorted(t *testing.T) {
	s := New().Set("on", "c", "table").Set("clear", "a", true).Set("on", "a", "b")
	keys := s.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, [2]string{"clear", "a"}, keys[0])
	assert.Equal(t, [2]string{"on", "a"}, keys[1])
	assert.Equal(t, [2]string{"on", "c"}, keys[2])
}
