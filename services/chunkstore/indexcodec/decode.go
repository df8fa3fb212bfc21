// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package indexcodec

import (
	"encoding/binary"

	"github.com/htnc-project/htnc/services/chunkstore/objectstore"
)

// Decode parses an index file's bytes.
func Decode(data []byte) (*Index, error) {
	if len(data) < headerSize {
		return nil, &TruncatedError{Offset: 0}
	}

	sizeField := binary.LittleEndian.Uint64(data[0:8])
	magic := binary.LittleEndian.Uint64(data[8:16])
	if sizeField != headerSize {
		return nil, &MalformedError{Reason: "header size_field must equal 48"}
	}
	if magic != IndexMagic {
		return nil, &BadMagicError{Offset: 8, Expected: IndexMagic, Got: magic}
	}

	idx := &Index{Header: Header{
		FeatureFlags: binary.LittleEndian.Uint64(data[16:24]),
		ChunkSizeMin: binary.LittleEndian.Uint64(data[24:32]),
		ChunkSizeAvg: binary.LittleEndian.Uint64(data[32:40]),
		ChunkSizeMax: binary.LittleEndian.Uint64(data[40:48]),
	}}

	offset := headerSize
	if offset+16 > len(data) {
		return nil, &TruncatedError{Offset: offset}
	}
	marker := binary.LittleEndian.Uint64(data[offset : offset+8])
	tableMagic := binary.LittleEndian.Uint64(data[offset+8 : offset+16])
	if marker != TableTailMarker {
		return nil, &BadMagicError{Offset: offset, Expected: TableTailMarker, Got: marker}
	}
	if tableMagic != TableMagic {
		return nil, &BadMagicError{Offset: offset + 8, Expected: TableMagic, Got: tableMagic}
	}
	offset += 16

	if len(data) < offset+tailSize {
		return nil, &TruncatedError{Offset: offset}
	}
	tableBytes := len(data) - offset - tailSize
	if tableBytes%tableItem != 0 {
		return nil, &MalformedError{Reason: "chunk table length is not a whole number of entries"}
	}

	n := tableBytes / tableItem
	idx.Entries = make([]Entry, n)
	for i := 0; i < n; i++ {
		o := offset + i*tableItem
		var id objectstore.Identity
		copy(id[:], data[o+8:o+tableItem])
		idx.Entries[i] = Entry{
			EndOffset: binary.LittleEndian.Uint64(data[o : o+8]),
			Identity:  id,
		}
	}
	offset += tableBytes

	tail := data[offset : offset+tailSize]
	tailSizeField := binary.LittleEndian.Uint64(tail[16:24])
	tableSizeField := binary.LittleEndian.Uint64(tail[24:32])
	tailMarker := binary.LittleEndian.Uint64(tail[32:40])
	if tailSizeField != headerSize {
		return nil, &MalformedError{Reason: "tail size field must equal 48"}
	}
	if tableSizeField != uint64(tableBytes) {
		return nil, &MalformedError{Reason: "tail table_size does not match the actual chunk table length"}
	}
	if tailMarker != TableTailMarker {
		return nil, &BadMagicError{Offset: offset + 32, Expected: TableTailMarker, Got: tailMarker}
	}

	return idx, nil
}
