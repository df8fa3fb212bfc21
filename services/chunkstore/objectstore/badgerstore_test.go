// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package objectstore

import (
	"context"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htnc-project/htnc/services/chunkstore/objectstore/badger"
)

func newTestStore(t *testing.T, compression Compression) *BadgerStore {
	t.Helper()
	db, err := badger.OpenDB(badger.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewBadgerStore(db, compression)
	require.NoError(t, err)
	return s
}

func TestPutGetRoundTripUncompressed(t *testing.T) {
	s := newTestStore(t, CompressionNone)
	ctx := context.Background()

	data := []byte("the quick brown fox jumps over the lazy dog")
	id, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, ComputeIdentity(data), id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestPutGetRoundTripZstd(t *testing.T) {
	s := newTestStore(t, CompressionZstd)
	ctx := context.Background()

	data := make([]byte, 8192)
	for i := range data {
		data[i] = byte(i % 7)
	}
	id, err := s.Put(ctx, data)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t, CompressionNone)
	_, err := s.Get(context.Background(), ComputeIdentity([]byte("never written")))

	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	s := newTestStore(t, CompressionNone)
	ctx := context.Background()

	data := []byte("original bytes")
	id, err := s.Put(ctx, data)
	require.NoError(t, err)

	require.NoError(t, s.Verify(ctx, id))

	// Corrupt the stored value directly, bypassing Put.
	err = s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set(id[:], append([]byte{tagNone}, []byte("tampered bytes")...))
	})
	require.NoError(t, err)

	err = s.Verify(ctx, id)
	var corrupt *ErrCorrupt
	require.ErrorAs(t, err, &corrupt)
}

func TestIdentityRoundTripsThroughString(t *testing.T) {
	id := ComputeIdentity([]byte("round trip me"))
	parsed, err := ParseIdentity(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.Len(t, id.Dir(), 4)
	assert.Equal(t, id.String()+".cacnk", id.FileName())
}

func TestParseIdentityRejectsBadInput(t *testing.T) {
	_, err := ParseIdentity("not hex!!")
	assert.Error(t, err)

	_, err = ParseIdentity("abcd")
	assert.Error(t, err, "too short to be a 32-byte identity")
}
