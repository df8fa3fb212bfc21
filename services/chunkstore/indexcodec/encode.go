// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package indexcodec

import (
	"bytes"
	"encoding/binary"
)

// Encode renders idx as an index file's bytes.
func Encode(idx *Index) ([]byte, error) {
	var buf bytes.Buffer

	var header [headerSize]byte
	binary.LittleEndian.PutUint64(header[0:8], headerSize)
	binary.LittleEndian.PutUint64(header[8:16], IndexMagic)
	binary.LittleEndian.PutUint64(header[16:24], idx.Header.FeatureFlags)
	binary.LittleEndian.PutUint64(header[24:32], idx.Header.ChunkSizeMin)
	binary.LittleEndian.PutUint64(header[32:40], idx.Header.ChunkSizeAvg)
	binary.LittleEndian.PutUint64(header[40:48], idx.Header.ChunkSizeMax)
	buf.Write(header[:])

	var tablePreamble [16]byte
	binary.LittleEndian.PutUint64(tablePreamble[0:8], TableTailMarker)
	binary.LittleEndian.PutUint64(tablePreamble[8:16], TableMagic)
	buf.Write(tablePreamble[:])

	for _, e := range idx.Entries {
		var item [tableItem]byte
		binary.LittleEndian.PutUint64(item[0:8], e.EndOffset)
		copy(item[8:], e.Identity[:])
		buf.Write(item[:])
	}

	tableSize := uint64(len(idx.Entries) * tableItem)
	var tail [tailSize]byte
	binary.LittleEndian.PutUint64(tail[0:8], 0)
	binary.LittleEndian.PutUint64(tail[8:16], 0)
	binary.LittleEndian.PutUint64(tail[16:24], headerSize)
	binary.LittleEndian.PutUint64(tail[24:32], tableSize)
	binary.LittleEndian.PutUint64(tail[32:40], TableTailMarker)
	buf.Write(tail[:])

	return buf.Bytes(), nil
}
