// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package archivecodec

import (
	"bytes"
	"encoding/binary"
)

// Decode parses a byte stream into elements. Decoding tolerates
// non-zero padding (encoders must never produce it, but a foreign
// encoder's stray bytes there don't invalidate the stream).
func Decode(data []byte) ([]Element, error) {
	var elements []Element
	offset := 0
	for offset < len(data) {
		el, consumed, err := decodeOne(data, offset)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		offset += consumed
	}
	return elements, nil
}

func decodeOne(data []byte, offset int) (Element, int, error) {
	if offset+headerSize > len(data) {
		return Element{}, 0, &TruncatedError{Offset: offset}
	}

	size := binary.LittleEndian.Uint64(data[offset : offset+8])
	magic := binary.LittleEndian.Uint64(data[offset+8 : offset+16])

	kind, err := kindOf(magic)
	if err != nil {
		return Element{}, 0, err
	}

	if size < headerSize {
		return Element{}, 0, &MalformedError{Offset: offset, Reason: "size smaller than header"}
	}
	if kind == KindEntry && size != entrySize {
		return Element{}, 0, &MalformedError{Offset: offset, Reason: "entry size must be exactly 64"}
	}
	if offset+int(size) > len(data) {
		return Element{}, 0, &TruncatedError{Offset: offset}
	}

	payload := data[offset+headerSize : offset+int(size)]

	el := Element{Kind: kind}
	switch kind {
	case KindEntry:
		if err := decodeEntry(&el, data[offset:offset+entrySize]); err != nil {
			return Element{}, 0, err
		}
		return el, entrySize, nil
	case KindFilename, KindUser, KindGroup, KindSelinux, KindSymlink:
		s, err := decodeString(payload, offset)
		if err != nil {
			return Element{}, 0, err
		}
		el.Text = s
	case KindPayload, KindXattr:
		el.Bytes = append([]byte(nil), payload...)
	case KindDevice:
		if len(payload) != 16 {
			return Element{}, 0, &MalformedError{Offset: offset, Reason: "device payload must be 16 bytes"}
		}
		el.Device = DeviceFields{
			Major: binary.LittleEndian.Uint64(payload[0:8]),
			Minor: binary.LittleEndian.Uint64(payload[8:16]),
		}
	case KindGoodbye:
		items, start, err := decodeGoodbye(payload, offset)
		if err != nil {
			return Element{}, 0, err
		}
		el.Goodbye = items
		el.GoodbyeStart = start
	}

	consumed := padTo8(int(size))
	if offset+consumed > len(data) {
		// Padding was declared but the buffer ends mid-pad; the
		// element's own bytes are still complete and valid, so this
		// is the last element rather than a truncation.
		consumed = len(data) - offset
	}
	return el, consumed, nil
}

func decodeEntry(el *Element, b []byte) error {
	el.Entry = EntryFields{
		FeatureFlags: binary.LittleEndian.Uint64(b[16:24]),
		Mode:         binary.LittleEndian.Uint64(b[24:32]),
		UID:          binary.LittleEndian.Uint64(b[32:40]),
		GID:          binary.LittleEndian.Uint64(b[40:48]),
		MTime:        binary.LittleEndian.Uint64(b[48:56]),
		Reserved:     binary.LittleEndian.Uint64(b[56:64]),
	}
	return nil
}

func decodeString(payload []byte, offset int) (string, error) {
	nul := bytes.IndexByte(payload, 0)
	if nul < 0 {
		return "", &MalformedError{Offset: offset, Reason: "string payload missing NUL terminator"}
	}
	return string(payload[:nul]), nil
}

func decodeGoodbye(payload []byte, offset int) ([]GoodbyeItem, uint64, error) {
	if len(payload) < goodbyeMarker {
		return nil, 0, &MalformedError{Offset: offset, Reason: "goodbye payload shorter than its trailing marker"}
	}
	tableBytes := len(payload) - goodbyeMarker
	if tableBytes%goodbyeItem != 0 {
		return nil, 0, &MalformedError{Offset: offset, Reason: "goodbye table size not a multiple of item size"}
	}

	n := tableBytes / goodbyeItem
	items := make([]GoodbyeItem, n)
	for i := 0; i < n; i++ {
		off := i * goodbyeItem
		items[i] = GoodbyeItem{
			Offset: binary.LittleEndian.Uint64(payload[off : off+8]),
			Size:   binary.LittleEndian.Uint64(payload[off+8 : off+16]),
			Hash:   binary.LittleEndian.Uint64(payload[off+16 : off+24]),
		}
	}
	start := binary.LittleEndian.Uint64(payload[tableBytes : tableBytes+8])
	return items, start, nil
}
