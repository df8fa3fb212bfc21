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
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/htnc-project/htnc/pkg/metrics"
)

// FSStore is a Store backed directly by the filesystem, laid out per
// spec's directory-sharded convention: the first four hex characters of
// an identity form a directory, and the full 64-hex identity with a
// fixed extension forms the file name.
type FSStore struct {
	root        string
	compression Compression
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
}

// NewFSStore opens (creating if necessary) a filesystem-backed store
// rooted at root.
func NewFSStore(root string, compression Compression) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("objectstore: fs store root %s: %w", root, err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("objectstore: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("objectstore: zstd decoder: %w", err)
	}
	return &FSStore{root: root, compression: compression, encoder: enc, decoder: dec}, nil
}

func (s *FSStore) path(id Identity) string {
	return filepath.Join(s.root, id.Dir(), id.FileName())
}

// Put writes data to a temp file under id's shard directory, flocks it
// for the duration of the write, then renames it into place. Rename is
// atomic on a POSIX filesystem, so a concurrent Get either sees the
// object whole or not at all, never partially written.
func (s *FSStore) Put(ctx context.Context, data []byte) (Identity, error) {
	id := ComputeIdentity(data)
	dir := filepath.Join(s.root, id.Dir())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Identity{}, fmt.Errorf("objectstore: mkdir %s: %w", dir, err)
	}

	final := s.path(id)
	if _, err := os.Stat(final); err == nil {
		return id, nil
	}

	tmp, err := os.CreateTemp(dir, id.FileName()+".tmp-*")
	if err != nil {
		return Identity{}, fmt.Errorf("objectstore: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := lockFile(tmp); err != nil {
		tmp.Close()
		return Identity{}, fmt.Errorf("objectstore: lock %s: %w", tmpPath, err)
	}

	var encoded []byte
	switch s.compression {
	case CompressionZstd:
		encoded = append([]byte{tagZstd}, s.encoder.EncodeAll(data, nil)...)
	default:
		encoded = append([]byte{tagNone}, data...)
	}
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return Identity{}, fmt.Errorf("objectstore: write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return Identity{}, fmt.Errorf("objectstore: sync %s: %w", tmpPath, err)
	}
	_ = unlockFile(tmp)
	if err := tmp.Close(); err != nil {
		return Identity{}, fmt.Errorf("objectstore: close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, final); err != nil {
		return Identity{}, fmt.Errorf("objectstore: publish %s: %w", final, err)
	}
	metrics.ChunkStorePuts.Inc()
	metrics.ChunkStoreBytesWritten.Add(float64(len(data)))
	return id, nil
}

// Get returns id's uncompressed bytes, or *ErrNotFound, or *ErrCorrupt
// if the stored bytes no longer hash to id.
func (s *FSStore) Get(ctx context.Context, id Identity) ([]byte, error) {
	metrics.ChunkStoreGets.Inc()
	path := s.path(id)
	encoded, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &ErrNotFound{Identity: id}
	}
	if err != nil {
		return nil, fmt.Errorf("objectstore: read %s: %w", path, err)
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
func (s *FSStore) Verify(ctx context.Context, id Identity) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *FSStore) decode(encoded []byte) ([]byte, error) {
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
