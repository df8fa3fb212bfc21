// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package objectstore is the content-addressed chunk object store: a
// mapping from a chunk's identity (the BLAKE2b-256 hash of its
// uncompressed bytes) to its bytes, optionally zstd-compressed at rest.
package objectstore

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// IdentitySize is the width of a chunk identity in bytes (256 bits).
const IdentitySize = 32

// Identity is the content address of a chunk: the BLAKE2b-256 hash of
// its uncompressed bytes.
type Identity [IdentitySize]byte

// ComputeIdentity hashes data's uncompressed bytes into an Identity.
func ComputeIdentity(data []byte) Identity {
	return Identity(blake2b.Sum256(data))
}

// String renders the identity as lowercase hex.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// Dir is the first four hex characters of the identity, the directory
// component of a filesystem-backed store's layout.
func (id Identity) Dir() string {
	return id.String()[:4]
}

// FileName is the full 64-hex identity with the chunk object extension.
func (id Identity) FileName() string {
	return id.String() + ".cacnk"
}

// ParseIdentity decodes a 64-character hex string into an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("objectstore: malformed identity %q: %w", s, err)
	}
	if len(b) != IdentitySize {
		return id, fmt.Errorf("objectstore: identity %q has %d bytes, want %d", s, len(b), IdentitySize)
	}
	copy(id[:], b)
	return id, nil
}
