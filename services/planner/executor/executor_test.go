// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/search"
	"github.com/htnc-project/htnc/services/planner/state"
)

func TestExecutorRunsPlanToCompletion(t *testing.T) {
	d := domain.New()
	require.NoError(t, d.AddAction("inc", func(s *state.State, args map[string]any) domain.Outcome {
		v, _ := s.Get("count", "x")
		n, _ := v.(int)
		return domain.OkState(s.Set("count", "x", n+1))
	}))

	todos := []domain.Item{
		domain.NewAction("inc", nil),
		domain.NewAction("inc", nil),
		domain.NewAction("inc", nil),
	}
	tr, _, err := search.Plan(d, state.New(), todos, search.DefaultOptions())
	require.NoError(t, err)

	ex := New(DomainEnvironment{Domain: d}, nil)
	final, err := ex.Run(context.Background(), tr, state.New())
	require.NoError(t, err)

	count, _ := final.Get("count", "x")
	assert.Equal(t, 3, count)
}

func TestExecutorReportsFailedNode(t *testing.T) {
	d := domain.New()
	require.NoError(t, d.AddAction("ok", func(s *state.State, args map[string]any) domain.Outcome {
		return domain.OkState(s)
	}))
	require.NoError(t, d.AddAction("boom", func(s *state.State, args map[string]any) domain.Outcome {
		return domain.Fail("external system unavailable")
	}))

	todos := []domain.Item{
		domain.NewAction("ok", nil),
		domain.NewAction("boom", nil),
		domain.NewAction("ok", nil),
	}
	// The planner's own simulation of "boom" would also fail since it's
	// the same action function; simulate a plan that believed it would
	// succeed by using a domain where the simulated action always
	// succeeds, then swap in a stricter Environment for execution.
	simDomain := domain.New()
	require.NoError(t, simDomain.AddAction("ok", func(s *state.State, args map[string]any) domain.Outcome {
		return domain.OkState(s)
	}))
	require.NoError(t, simDomain.AddAction("boom", func(s *state.State, args map[string]any) domain.Outcome {
		return domain.OkState(s)
	}))

	tr, _, err := search.Plan(simDomain, state.New(), todos, search.DefaultOptions())
	require.NoError(t, err)

	ex := New(DomainEnvironment{Domain: d}, nil)
	_, err = ex.Run(context.Background(), tr, state.New())
	require.Error(t, err)

	var failed *FailedNodeError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "external system unavailable", failed.Reason)
}
