// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import "fmt"

// TraceEventKind discriminates the events a Trace records.
type TraceEventKind string

const (
	EventMethodTried     TraceEventKind = "method-tried"
	EventMethodOK        TraceEventKind = "method-ok"
	EventMethodFail      TraceEventKind = "method-fail"
	EventBacktrack       TraceEventKind = "backtrack"
	EventBlacklistHit    TraceEventKind = "blacklist-hit"
	EventActionExecuted  TraceEventKind = "action-executed"
	EventActionFailed    TraceEventKind = "action-failed"
)

// TraceEvent is one recorded step of a planning call, supplementing the
// bare tree with the sequence in which the search tried things.
type TraceEvent struct {
	NodeID int
	Kind   TraceEventKind
	Detail string
}

func (e TraceEvent) String() string {
	return fmt.Sprintf("node=%d %s %s", e.NodeID, e.Kind, e.Detail)
}

// Trace is the ordered record of events produced by a single plan or
// replan call.
type Trace []TraceEvent

func (p *Planner) trace(nodeID int, kind TraceEventKind, detail string) {
	if p.opts.VerboseLevel <= 0 {
		return
	}
	if p.opts.VerboseLevel < 2 && (kind == EventBlacklistHit) {
		return
	}
	p.events = append(p.events, TraceEvent{NodeID: nodeID, Kind: kind, Detail: detail})
}
