// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package examples provides the two canonical HTN scenarios named in
// the planner's testable properties: blocks-world and simple travel.
// They are kept here, rather than only in test files, so that the CLI
// has something concrete to plan against without embedding a
// domain-specific planning application of its own.
package examples

import (
	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/state"
)

// BlocksWorldDomain registers the four primitive actions of the classic
// blocks-world problem and a unigoal method for "on" that unstacks or
// picks up the subject block before stacking or placing it on the goal
// block.
func BlocksWorldDomain() *domain.Domain {
	d := domain.New()

	onTable := func(s *state.State, subject string) bool {
		v, _ := s.Get("on", subject)
		return v == "table"
	}
	clear := func(s *state.State, subject string) bool { return s.GetBool("clear", subject) }
	blockOn := func(s *state.State, subject string) (string, bool) {
		for _, k := range s.Keys() {
			if k[0] != "on" {
				continue
			}
			if v, _ := s.Get("on", k[1]); v == subject {
				return k[1], true
			}
		}
		return "", false
	}

	_ = d.AddAction("unstack", func(s *state.State, args map[string]any) domain.Outcome {
		top, under := args["top"].(string), args["under"].(string)
		holding, _ := s.Get("holding", "me")
		if holding != "none" || !clear(s, top) {
			return domain.Fail("cannot unstack")
		}
		v, _ := s.Get("on", top)
		if v != under {
			return domain.Fail("not on")
		}
		ns := s.Set("holding", "me", top).Set("on", top, "none").Set("clear", under, true)
		return domain.OkState(ns)
	})

	_ = d.AddAction("putdown", func(s *state.State, args map[string]any) domain.Outcome {
		block := args["block"].(string)
		holding, _ := s.Get("holding", "me")
		if holding != block {
			return domain.Fail("not holding")
		}
		ns := s.Set("on", block, "table").Set("holding", "me", "none").Set("clear", block, true)
		return domain.OkState(ns)
	})

	_ = d.AddAction("pickup", func(s *state.State, args map[string]any) domain.Outcome {
		block := args["block"].(string)
		holding, _ := s.Get("holding", "me")
		if holding != "none" || !onTable(s, block) || !clear(s, block) {
			return domain.Fail("cannot pickup")
		}
		ns := s.Set("holding", "me", block).Set("on", block, "none").Set("clear", block, false)
		return domain.OkState(ns)
	})

	_ = d.AddAction("stack", func(s *state.State, args map[string]any) domain.Outcome {
		top, under := args["top"].(string), args["under"].(string)
		holding, _ := s.Get("holding", "me")
		if holding != top || !clear(s, under) {
			return domain.Fail("cannot stack")
		}
		ns := s.Set("on", top, under).Set("holding", "me", "none").Set("clear", top, true).Set("clear", under, false)
		return domain.OkState(ns)
	})

	d.AddUnigoalMethod("on", func(s *state.State, args map[string]any) domain.Outcome {
		x := args["subject"].(string)
		y := args["value"].(string)

		holding, _ := s.Get("holding", "me")
		var steps []domain.Item

		// x can't be picked up or unstacked while something still sits on
		// it; clear it first, same as the "x itself is not on the table"
		// case below handles x's own support.
		if holding != x && !clear(s, x) {
			blocker, ok := blockOn(s, x)
			if !ok {
				return domain.Fail("clear(" + x + ") is false but nothing is on it")
			}
			steps = append(steps,
				domain.NewAction("unstack", map[string]any{"top": blocker, "under": x}),
				domain.NewAction("putdown", map[string]any{"block": blocker}),
			)
		}

		switch {
		case holding == x:
		case onTable(s, x):
			steps = append(steps, domain.NewAction("pickup", map[string]any{"block": x}))
		default:
			cur, _ := s.Get("on", x)
			steps = append(steps, domain.NewAction("unstack", map[string]any{"top": x, "under": cur}))
		}

		if y == "table" {
			steps = append(steps, domain.NewAction("putdown", map[string]any{"block": x}))
		} else {
			steps = append(steps, domain.NewAction("stack", map[string]any{"top": x, "under": y}))
		}
		return domain.Ok(steps...)
	})

	return d
}

// BlocksWorldInitialState returns the spec's canonical starting
// configuration: a on b, b and c on the table, a and c clear.
func BlocksWorldInitialState() *state.State {
	return state.New().
		Set("on", "a", "b").
		Set("on", "b", "table").
		Set("on", "c", "table").
		Set("clear", "a", true).
		Set("clear", "b", false).
		Set("clear", "c", true).
		Set("holding", "me", "none")
}

// BlocksWorldGoal returns the spec's canonical multigoal: on(b,c) and
// on(a,b) simultaneously.
func BlocksWorldGoal() domain.Item {
	return domain.NewMultigoal(
		domain.NewUnigoal("on", "b", "c"),
		domain.NewUnigoal("on", "a", "b"),
	)
}

// SimpleTravelDomain registers the "by taxi" and "on foot" travel
// methods, tried in that order: a sufficient cash balance prefers the
// taxi, otherwise the traveler walks.
func SimpleTravelDomain() *domain.Domain {
	d := domain.New()

	_ = d.AddAction("call_taxi", func(s *state.State, args map[string]any) domain.Outcome {
		return domain.OkState(s)
	})
	_ = d.AddAction("ride_taxi", func(s *state.State, args map[string]any) domain.Outcome {
		dest := args["dest"].(string)
		return domain.OkState(s.Set("loc", "me", dest))
	})
	_ = d.AddAction("pay_driver", func(s *state.State, args map[string]any) domain.Outcome {
		cash, _ := s.Get("cash", "me")
		return domain.OkState(s.Set("cash", "me", cash.(int)-10))
	})
	_ = d.AddAction("walk", func(s *state.State, args map[string]any) domain.Outcome {
		dest := args["dest"].(string)
		return domain.OkState(s.Set("loc", "me", dest))
	})

	d.AddTaskMethod("travel", func(s *state.State, args map[string]any) domain.Outcome {
		dest := args["dest"].(string)
		cash, _ := s.Get("cash", "me")
		if cash.(int) < 10 {
			return domain.Fail("not enough cash for taxi")
		}
		return domain.Ok(
			domain.NewAction("call_taxi", map[string]any{"dest": dest}),
			domain.NewAction("ride_taxi", map[string]any{"dest": dest}),
			domain.NewAction("pay_driver", nil),
		)
	})
	d.AddTaskMethod("travel", func(s *state.State, args map[string]any) domain.Outcome {
		dest := args["dest"].(string)
		return domain.Ok(domain.NewAction("walk", map[string]any{"dest": dest}))
	})

	return d
}

// SimpleTravelInitialState returns the traveler's starting location
// and cash balance.
func SimpleTravelInitialState(cash int) *state.State {
	return state.New().Set("loc", "me", "home").Set("cash", "me", cash)
}

// SimpleTravelGoal returns the task of traveling to dest.
func SimpleTravelGoal(dest string) domain.Item {
	return domain.NewTask("travel", map[string]any{"dest": dest})
}
