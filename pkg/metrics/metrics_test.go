// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersStartAtZeroAndIncrement(t *testing.T) {
	before := testutil.ToFloat64(PlannerNodesResolved)
	PlannerNodesResolved.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PlannerNodesResolved))
}

func TestBytesWrittenAccumulates(t *testing.T) {
	before := testutil.ToFloat64(ChunkStoreBytesWritten)
	ChunkStoreBytesWritten.Add(128)
	assert.Equal(t, before+128, testutil.ToFloat64(ChunkStoreBytesWritten))
}

func TestGCRunsIncrement(t *testing.T) {
	before := testutil.ToFloat64(ChunkStoreGCRuns)
	ChunkStoreGCRuns.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ChunkStoreGCRuns))
}
