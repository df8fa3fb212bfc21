// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePutGetRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir(), CompressionZstd)
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("the quick brown fox jumps over the lazy dog")
	id, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, ComputeIdentity(data), id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFSStoreLaysOutShardedDirectory(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSStore(root, CompressionNone)
	require.NoError(t, err)

	data := []byte("sharded layout")
	id, err := s.Put(context.Background(), data)
	require.NoError(t, err)

	want := filepath.Join(root, id.Dir(), id.FileName())
	assert.FileExists(t, want)
}

func TestFSStorePutIsIdempotentForSameIdentity(t *testing.T) {
	s, err := NewFSStore(t.TempDir(), CompressionNone)
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("written twice")
	id1, err := s.Put(ctx, data)
	require.NoError(t, err)
	id2, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestFSStoreGetNotFound(t *testing.T) {
	s, err := NewFSStore(t.TempDir(), CompressionNone)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), ComputeIdentity([]byte("never written")))
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestFSStoreVerifyDetectsCorruption(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSStore(root, CompressionNone)
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("original bytes")
	id, err := s.Put(ctx, data)
	require.NoError(t, err)
	require.NoError(t, s.Verify(ctx, id))

	path := filepath.Join(root, id.Dir(), id.FileName())
	require.NoError(t, os.WriteFile(path, append([]byte{tagNone}, []byte("tampered bytes")...), 0o600))

	err = s.Verify(ctx, id)
	var corrupt *ErrCorrupt
	require.ErrorAs(t, err, &corrupt)
}
