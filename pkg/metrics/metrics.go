// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package metrics exposes the planner's and chunk store's counters as
// Prometheus collectors. Callers that never wire a /metrics endpoint
// pay only the cost of the atomic increments; nothing here requires a
// registry to be scraped.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// PlannerNodesResolved counts every tree node Plan/Replan resolved,
	// across all calls in the process.
	PlannerNodesResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "planner",
		Name:      "nodes_resolved_total",
		Help:      "Total solution-tree nodes resolved by Plan or Replan.",
	})

	// PlannerBacktracks counts method attempts abandoned after their
	// installed children failed to resolve.
	PlannerBacktracks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "planner",
		Name:      "backtracks_total",
		Help:      "Total method attempts backtracked after a child failure.",
	})

	// PlannerActionsFailed counts primitive action invocations that
	// returned a failed outcome.
	PlannerActionsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "planner",
		Name:      "actions_failed_total",
		Help:      "Total primitive action invocations that failed.",
	})

	// ChunkStorePuts counts objectstore.Put calls.
	ChunkStorePuts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "chunkstore",
		Name:      "puts_total",
		Help:      "Total chunks written to the object store.",
	})

	// ChunkStoreGets counts objectstore.Get calls, regardless of outcome.
	ChunkStoreGets = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "chunkstore",
		Name:      "gets_total",
		Help:      "Total chunk reads from the object store.",
	})

	// ChunkStoreCorruptions counts Get/Verify calls that found a stored
	// value whose recomputed identity no longer matched the requested one.
	ChunkStoreCorruptions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "chunkstore",
		Name:      "corruptions_total",
		Help:      "Total chunk reads whose stored bytes failed identity verification.",
	})

	// ChunkStoreBytesWritten counts uncompressed bytes passed to Put,
	// before at-rest compression.
	ChunkStoreBytesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "chunkstore",
		Name:      "bytes_written_total",
		Help:      "Total uncompressed bytes written to the object store.",
	})

	// ChunkStoreGCRuns counts completed badger value-log GC rewrite passes.
	ChunkStoreGCRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "htnc",
		Subsystem: "chunkstore",
		Name:      "gc_runs_total",
		Help:      "Total badger value-log GC rewrite passes that reclaimed space.",
	})
)

func init() {
	prometheus.MustRegister(
		PlannerNodesResolved,
		PlannerBacktracks,
		PlannerActionsFailed,
		ChunkStorePuts,
		ChunkStoreGets,
		ChunkStoreCorruptions,
		ChunkStoreBytesWritten,
		ChunkStoreGCRuns,
	)
}
