// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package archivecodec encodes and decodes the directory-archive
// element stream: a sequence of self-describing, type-tagged,
// 8-byte-aligned records (entry, filename, payload, symlink, device,
// xattr, user, group, selinux, goodbye) that round-trips a directory
// tree to bytes and back bit-exactly.
package archivecodec

import (
	"encoding/binary"
	"fmt"
)

// Magic tags identify each element's type. These are 64-bit constants
// of the wire format; see DESIGN.md for their provenance.
const (
	MagicEntry    uint64 = 0xe97a837f6ca0eb78
	MagicFilename uint64 = 0x209405cbc60f8464
	MagicPayload  uint64 = 0xeb0fbecb8875e366
	MagicSymlink  uint64 = 0x3165447ff7dfc66f
	MagicDevice   uint64 = 0xcca27f97b695276a
	MagicXattr    uint64 = 0x556885c67091c94c
	MagicUser     uint64 = 0xfc89f780597239a4
	MagicGroup    uint64 = 0x8bf7153d02429a83
	MagicSelinux  uint64 = 0x149920ef86ff9561
	MagicGoodbye  uint64 = 0xf72e54cd0505a861
)

const (
	headerSize    = 16 // size:u64 + type:u64
	entrySize     = 64 // entry is fixed-size and unpadded
	goodbyeItem   = 24 // offset:u64 + size:u64 + hash:u64 per goodbye table row
	goodbyeMarker = 8  // trailing u64 referencing the directory's start offset
)

// Kind identifies an element's semantic type.
type Kind int

const (
	KindEntry Kind = iota
	KindFilename
	KindPayload
	KindSymlink
	KindDevice
	KindXattr
	KindUser
	KindGroup
	KindSelinux
	KindGoodbye
)

func (k Kind) magic() uint64 {
	switch k {
	case KindEntry:
		return MagicEntry
	case KindFilename:
		return MagicFilename
	case KindPayload:
		return MagicPayload
	case KindSymlink:
		return MagicSymlink
	case KindDevice:
		return MagicDevice
	case KindXattr:
		return MagicXattr
	case KindUser:
		return MagicUser
	case KindGroup:
		return MagicGroup
	case KindSelinux:
		return MagicSelinux
	case KindGoodbye:
		return MagicGoodbye
	default:
		return 0
	}
}

func kindOf(magic uint64) (Kind, error) {
	switch magic {
	case MagicEntry:
		return KindEntry, nil
	case MagicFilename:
		return KindFilename, nil
	case MagicPayload:
		return KindPayload, nil
	case MagicSymlink:
		return KindSymlink, nil
	case MagicDevice:
		return KindDevice, nil
	case MagicXattr:
		return KindXattr, nil
	case MagicUser:
		return KindUser, nil
	case MagicGroup:
		return KindGroup, nil
	case MagicSelinux:
		return KindSelinux, nil
	case MagicGoodbye:
		return KindGoodbye, nil
	default:
		return 0, &BadMagicError{Magic: magic}
	}
}

// EntryFields holds the fixed-layout entry element's fields.
type EntryFields struct {
	FeatureFlags uint64
	Mode         uint64
	UID          uint64
	GID          uint64
	MTime        uint64
	// Reserved is the format's reserved padding word; always zero on
	// encode, preserved verbatim on decode so unknown producers'
	// reserved bits round-trip exactly.
	Reserved uint64
}

// DeviceFields holds the device element's major/minor numbers.
type DeviceFields struct {
	Major uint64
	Minor uint64
}

// GoodbyeItem is one row of a goodbye element's random-access table.
type GoodbyeItem struct {
	Offset uint64
	Size   uint64
	Hash   uint64
}

// Element is one record in the archive stream. Only the fields
// relevant to Kind are populated; String-typed elements (filename,
// user, group, selinux, symlink) use Text; Payload and Xattr use Bytes.
type Element struct {
	Kind    Kind
	Entry   EntryFields
	Text    string
	Bytes   []byte
	Device  DeviceFields
	Goodbye []GoodbyeItem
	// GoodbyeStart is the trailing marker referencing the offset, in
	// the encoded byte stream, where the directory this goodbye closes
	// began.
	GoodbyeStart uint64
}

// TruncatedError reports a header or payload that ends before the
// declared size.
type TruncatedError struct {
	Offset int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("archivecodec: truncated at offset %d", e.Offset)
}

// MalformedError reports a size inconsistent with the element's kind
// or the remaining buffer.
type MalformedError struct {
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("archivecodec: malformed element at offset %d: %s", e.Offset, e.Reason)
}

// BadMagicError reports an unrecognized type tag.
type BadMagicError struct {
	Magic uint64
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("archivecodec: unknown magic 0x%016x", e.Magic)
}

func padTo8(n int) int {
	if n%8 == 0 {
		return n
	}
	return n + (8 - n%8)
}

func putU64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}
