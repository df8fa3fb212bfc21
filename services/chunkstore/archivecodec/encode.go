// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package archivecodec

import (
	"bytes"
	"fmt"
)

// Encode renders elements as a byte stream.
func Encode(elements []Element) ([]byte, error) {
	var buf bytes.Buffer
	for i, el := range elements {
		if err := encodeOne(&buf, el); err != nil {
			return nil, fmt.Errorf("archivecodec: encode element %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func encodeOne(buf *bytes.Buffer, el Element) error {
	switch el.Kind {
	case KindEntry:
		return encodeEntry(buf, el.Entry)
	case KindFilename, KindUser, KindGroup, KindSelinux, KindSymlink:
		return encodeString(buf, el.Kind, el.Text)
	case KindPayload, KindXattr:
		return encodeBytes(buf, el.Kind, el.Bytes)
	case KindDevice:
		return encodeDevice(buf, el.Device)
	case KindGoodbye:
		return encodeGoodbye(buf, el.Goodbye, el.GoodbyeStart)
	default:
		return fmt.Errorf("unknown element kind %d", el.Kind)
	}
}

// encodeEntry writes the fixed 64-byte, unpadded entry element:
// 16-byte header + 6 uint64 fields (48 bytes) = 64 bytes total.
func encodeEntry(buf *bytes.Buffer, f EntryFields) error {
	var b [entrySize]byte
	putU64(b[0:8], entrySize)
	putU64(b[8:16], MagicEntry)
	putU64(b[16:24], f.FeatureFlags)
	putU64(b[24:32], f.Mode)
	putU64(b[32:40], f.UID)
	putU64(b[40:48], f.GID)
	putU64(b[48:56], f.MTime)
	putU64(b[56:64], f.Reserved)
	_, err := buf.Write(b[:])
	return err
}

func encodeString(buf *bytes.Buffer, kind Kind, s string) error {
	payload := append([]byte(s), 0)
	return encodeHeaderAndPayload(buf, kind, payload)
}

func encodeBytes(buf *bytes.Buffer, kind Kind, data []byte) error {
	return encodeHeaderAndPayload(buf, kind, data)
}

func encodeDevice(buf *bytes.Buffer, d DeviceFields) error {
	payload := make([]byte, 16)
	putU64(payload[0:8], d.Major)
	putU64(payload[8:16], d.Minor)
	return encodeHeaderAndPayload(buf, KindDevice, payload)
}

func encodeGoodbye(buf *bytes.Buffer, items []GoodbyeItem, start uint64) error {
	payload := make([]byte, len(items)*goodbyeItem+goodbyeMarker)
	for i, it := range items {
		off := i * goodbyeItem
		putU64(payload[off:off+8], it.Offset)
		putU64(payload[off+8:off+16], it.Size)
		putU64(payload[off+16:off+24], it.Hash)
	}
	putU64(payload[len(items)*goodbyeItem:], start)
	return encodeHeaderAndPayload(buf, KindGoodbye, payload)
}

// encodeHeaderAndPayload writes (size, type) + payload + zero padding
// to the next 8-byte boundary. size counts header+payload, not padding.
func encodeHeaderAndPayload(buf *bytes.Buffer, kind Kind, payload []byte) error {
	size := uint64(headerSize + len(payload))
	var header [headerSize]byte
	putU64(header[0:8], size)
	putU64(header[8:16], kind.magic())

	if _, err := buf.Write(header[:]); err != nil {
		return err
	}
	if _, err := buf.Write(payload); err != nil {
		return err
	}

	padded := padTo8(headerSize + len(payload))
	if pad := padded - (headerSize + len(payload)); pad > 0 {
		buf.Write(make([]byte, pad))
	}
	return nil
}
