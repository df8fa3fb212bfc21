// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package indexcodec encodes and decodes the chunk-index sidecar file:
// a 48-byte header naming the chunker parameters used, followed by a
// chunk table giving each chunk's identity and cumulative end offset.
package indexcodec

import (
	"encoding/binary"
	"fmt"

	"github.com/htnc-project/htnc/services/chunkstore/objectstore"
)

const (
	// IndexMagic tags the 48-byte index header.
	IndexMagic uint64 = 0x98d421c05261cbf0
	// TableMagic tags the chunk table that follows the header.
	TableMagic uint64 = 0x4c6cc21341d555f8
	// TableTailMarker opens the chunk table (the u64 immediately before
	// TableMagic) and, encoded as part of the tail record, closes it.
	TableTailMarker uint64 = 0xFFFFFFFFFFFFFFFF

	headerSize = 48
	tableItem  = 8 + objectstore.IdentitySize // cumulative_end_offset + chunk_id
	tailSize   = 40                           // zero, zero, size, table_size, tail_marker (5 * u64)
)

// Header is the index file's fixed-layout preamble.
type Header struct {
	FeatureFlags uint64
	ChunkSizeMin uint64
	ChunkSizeAvg uint64
	ChunkSizeMax uint64
}

// Entry is one chunk table row: its identity and the cumulative end
// offset of the stream once this chunk (and every chunk before it) has
// been consumed.
type Entry struct {
	EndOffset uint64
	Identity  objectstore.Identity
}

// Index is the fully parsed contents of an index file.
type Index struct {
	Header  Header
	Entries []Entry
}

// ChunkSize returns the n-th chunk's size: the gap between its
// cumulative end offset and the previous entry's (0 for the first
// chunk).
func (idx *Index) ChunkSize(n int) uint64 {
	if n == 0 {
		return idx.Entries[0].EndOffset
	}
	return idx.Entries[n].EndOffset - idx.Entries[n-1].EndOffset
}

// TotalSize returns the size of the stream the index describes.
func (idx *Index) TotalSize() uint64 {
	if len(idx.Entries) == 0 {
		return 0
	}
	return idx.Entries[len(idx.Entries)-1].EndOffset
}

// TruncatedError reports a buffer shorter than a declared structure.
type TruncatedError struct {
	Offset int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("indexcodec: truncated at offset %d", e.Offset)
}

// BadMagicError reports a magic number that doesn't match what was expected.
type BadMagicError struct {
	Offset   int
	Expected uint64
	Got      uint64
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("indexcodec: bad magic at offset %d: expected 0x%016x, got 0x%016x", e.Offset, e.Expected, e.Got)
}

// MalformedError reports a structurally inconsistent index (e.g. a
// table whose byte length isn't a whole number of entries).
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "indexcodec: malformed: " + e.Reason
}
