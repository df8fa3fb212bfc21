// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package temporal

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/htnc-project/htnc/services/planner/domain"
	"github.com/htnc-project/htnc/services/planner/search"
	"github.com/htnc-project/htnc/services/planner/state"
	"github.com/htnc-project/htnc/services/planner/tree"
)

const defaultActor = "default"

// Plan decomposes todos against s starting no earlier than now, assigns
// each resulting action a start/duration/end, and verifies the given
// constraints against the resulting schedule.
//
// Scheduling is two passes: first each leaf's duration is computed
// concurrently (DurationFn may call out to an external estimator, so
// there is no reason to serialize it), then a single sequential pass
// places actions on their actor's timeline in plan order, since
// placement only depends on the actor's own running cursor and the
// plan's total order already encodes every cross-actor precondition
// the planner enforced.
func Plan(dom *Domain, s *state.State, todos []domain.Item, now time.Duration, constraints []Constraint, opts search.Options) (*TemporalPlan, error) {
	tr, _, err := search.Plan(dom.Domain, s, todos, opts)
	if err != nil {
		return nil, fmt.Errorf("temporal.plan: %w", err)
	}

	actions, err := schedule(dom, tr, now, nil)
	if err != nil {
		return nil, err
	}

	plan := &TemporalPlan{Actions: actions, Constraints: constraints}
	if err := verify(plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Replan re-plans newGoals against s (the state as observed at now,
// typically Log.AdvanceTo(now)), keeping every action in oldPlan that
// has already started (Start < now) untouched, cancelling every action
// that was scheduled but never started, and scheduling the new goals'
// actions no earlier than now, with each actor's timeline resuming from
// the later of now and that actor's last kept action's End.
func Replan(dom *Domain, s *state.State, newGoals []domain.Item, oldPlan *TemporalPlan, now time.Duration, constraints []Constraint, opts search.Options) (*TemporalPlan, error) {
	kept := make([]*TimedAction, 0, len(oldPlan.Actions))
	actorFloor := make(map[string]time.Duration)
	for _, a := range oldPlan.Actions {
		if a.Start < now {
			kept = append(kept, a)
			if a.End > actorFloor[a.Actor] {
				actorFloor[a.Actor] = a.End
			}
			continue
		}
		cancelled := *a
		cancelled.Status = ActionCancelled
		kept = append(kept, &cancelled)
	}

	tr, _, err := search.Plan(dom.Domain, s, newGoals, opts)
	if err != nil {
		return nil, fmt.Errorf("temporal.replan: %w", err)
	}

	fresh, err := schedule(dom, tr, now, actorFloor)
	if err != nil {
		return nil, err
	}

	plan := &TemporalPlan{Actions: append(kept, fresh...), Constraints: constraints}
	if err := verify(plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// schedule walks tr's leaves in plan order and assigns each one a
// TimedAction, respecting per-actor floors (the earliest time that
// actor may start its next action; defaults to now for every actor not
// present in floors).
func schedule(dom *Domain, tr *tree.Tree, now time.Duration, floors map[string]time.Duration) ([]*TimedAction, error) {
	leaves := tr.LeavesInOrder()
	durations := make([]time.Duration, len(leaves))

	g := new(errgroup.Group)
	for i, id := range leaves {
		i, id := i, id
		g.Go(func() error {
			node := tr.Node(id)
			meta, ok := dom.Meta(node.Label.Name)
			if !ok || meta.DurationFn == nil {
				durations[i] = 0
				return nil
			}
			durations[i] = meta.DurationFn(node.StateIn, node.Label.Args)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	actorCursor := make(map[string]time.Duration)
	for actor, t := range floors {
		actorCursor[actor] = t
	}
	lastByActor := make(map[string]string)

	actions := make([]*TimedAction, 0, len(leaves))
	for i, id := range leaves {
		node := tr.Node(id)
		actor := actorOf(node.Label.Args)

		start := now
		if cur, ok := actorCursor[actor]; ok && cur > start {
			start = cur
		}
		duration := durations[i]
		end := start + duration

		var prereqs []string
		if prev, ok := lastByActor[actor]; ok {
			prereqs = []string{prev}
		}

		ta := &TimedAction{
			ID:            fmt.Sprintf("n%d", id),
			Actor:         actor,
			ActionName:    node.Label.Name,
			Args:          node.Label.Args,
			Start:         start,
			Duration:      duration,
			End:           end,
			Prerequisites: prereqs,
			Status:        ActionScheduled,
		}
		actions = append(actions, ta)
		actorCursor[actor] = end
		lastByActor[actor] = ta.ID
	}
	return actions, nil
}

func actorOf(args map[string]any) string {
	if args == nil {
		return defaultActor
	}
	if v, ok := args["actor"].(string); ok && v != "" {
		return v
	}
	return defaultActor
}

// verify checks every declared constraint against plan's actions,
// returning the first violation found.
func verify(plan *TemporalPlan) error {
	for _, c := range plan.Constraints {
		a := plan.ByID(c.A)
		if a == nil {
			return &ScheduleError{Kind: ErrKindInfeasible, ConstraintKind: c.Kind, ActionA: c.A, Reason: "unknown action"}
		}

		switch c.Kind {
		case Deadline:
			if a.End > c.Deadline {
				return &ScheduleError{
					Kind: ErrKindDeadlineMissed, ConstraintKind: c.Kind, ActionA: a.ID,
					Reason: fmt.Sprintf("ends at %s, after deadline %s", a.End, c.Deadline),
				}
			}
			continue
		case Cooldown:
			if a.Start < c.Deadline {
				return &ScheduleError{
					Kind: ErrKindConstraintViolated, ConstraintKind: c.Kind, ActionA: a.ID,
					Reason: fmt.Sprintf("starts at %s, before cooldown floor %s", a.Start, c.Deadline),
				}
			}
			continue
		}

		b := plan.ByID(c.B)
		if b == nil {
			return &ScheduleError{Kind: ErrKindInfeasible, ConstraintKind: c.Kind, ActionA: c.B, Reason: "unknown action"}
		}
		if err := verifyPairwise(c, a, b); err != nil {
			return err
		}
	}
	return nil
}

func verifyPairwise(c Constraint, a, b *TimedAction) error {
	ok := true
	switch c.Kind {
	case Before:
		ok = a.End+c.Offset <= b.Start
	case After:
		ok = a.Start >= b.End+c.Offset
	case Meets:
		ok = a.End == b.Start
	case During:
		ok = a.Start >= b.Start && a.End <= b.End
	case Overlaps:
		ok = a.Start < b.End && b.Start < a.End
	case Starts:
		ok = a.Start == b.Start
	case Finishes:
		ok = a.End == b.End
	case Equals:
		ok = a.Start == b.Start && a.End == b.End
	}
	if !ok {
		return &ScheduleError{
			Kind: ErrKindConstraintViolated, ConstraintKind: c.Kind, ActionA: a.ID, ActionB: b.ID,
			Reason: "relation not satisfied",
		}
	}
	return nil
}
