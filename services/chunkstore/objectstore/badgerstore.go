// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package objectstore

import (
	"context"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/htnc-project/htnc/pkg/metrics"
	"github.com/htnc-project/htnc/services/chunkstore/objectstore/badger"
)

// Compression selects how object bytes are stored at rest. Identity is
// always computed over the uncompressed bytes, so compression choice
// never affects content addressing.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
)

// tagNone and tagZstd are the one-byte prefix that tags a stored value
// with the compression it was
// written with, so Get can decompress correctly even if BadgerStore's
// own Compression setting changes between a write and a later read.
const (
	tagNone byte = 0
	tagZstd byte = 1
)

// BadgerStore is a Store backed by a badger key-value database, keyed
// directly by identity bytes (badger is not a filesystem, so the
// directory-sharded layout spec describes for filesystem-backed stores
// does not apply here; the identity itself is still the whole key).
type BadgerStore struct {
	db          *badger.DB
	compression Compression
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
}

// NewBadgerStore wraps db as a chunk object store using the given
// at-rest compression.
func NewBadgerStore(db *badger.DB, compression Compression) (*BadgerStore, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("objectstore: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("objectstore: zstd decoder: %w", err)
	}
	return &BadgerStore{db: db, compression: compression, encoder: enc, decoder: dec}, nil
}

// Put hashes data, stores it (compressed per s.compression), and
// returns its identity. Writing is a single badger transaction, so the
// identity->bytes mapping is durable the instant Put returns: nothing
// referencing this identity can be published before that point.
func (s *BadgerStore) Put(ctx context.Context, data []byte) (Identity, error) {
	id := ComputeIdentity(data)

	var encoded []byte
	switch s.compression {
	case CompressionZstd:
		encoded = append([]byte{tagZstd}, s.encoder.EncodeAll(data, nil)...)
	default:
		encoded = append([]byte{tagNone}, data...)
	}

	err := s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set(id[:], encoded)
	})
	if err != nil {
		return Identity{}, fmt.Errorf("objectstore: put %s: %w", id, err)
	}
	metrics.ChunkStorePuts.Inc()
	metrics.ChunkStoreBytesWritten.Add(float64(len(data)))
	return id, nil
}

// Get returns id's uncompressed bytes, or *ErrNotFound, or *ErrCorrupt
// if the stored bytes no longer hash to id.
func (s *BadgerStore) Get(ctx context.Context, id Identity) ([]byte, error) {
	metrics.ChunkStoreGets.Inc()
	var encoded []byte
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		item, err := txn.Get(id[:])
		if err == badgerdb.ErrKeyNotFound {
			return &ErrNotFound{Identity: id}
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			encoded = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	data, err := s.decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("objectstore: get %s: %w", id, err)
	}

	got := ComputeIdentity(data)
	if got != id {
		metrics.ChunkStoreCorruptions.Inc()
		return nil, &ErrCorrupt{Identity: id, Got: got}
	}
	return data, nil
}

// Verify confirms id's stored bytes still hash to id, without returning
// the bytes to the caller.
func (s *BadgerStore) Verify(ctx context.Context, id Identity) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *BadgerStore) decode(encoded []byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, fmt.Errorf("empty stored value")
	}
	tag, payload := encoded[0], encoded[1:]
	switch tag {
	case tagZstd:
		return s.decoder.DecodeAll(payload, nil)
	case tagNone:
		return payload, nil
	default:
		return nil, fmt.Errorf("unknown compression tag %d", tag)
	}
}
