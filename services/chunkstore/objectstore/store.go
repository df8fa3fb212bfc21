// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package objectstore

import "context"

// ErrNotFound is returned by Get when no object exists for an identity.
type ErrNotFound struct {
	Identity Identity
}

func (e *ErrNotFound) Error() string {
	return "objectstore: not found: " + e.Identity.String()
}

// ErrCorrupt is returned when a stored object's bytes hash to something
// other than the identity it was stored under.
type ErrCorrupt struct {
	Identity Identity
	Got      Identity
}

func (e *ErrCorrupt) Error() string {
	return "objectstore: corrupt: " + e.Identity.String() + " rehashes to " + e.Got.String()
}

// Store is the identity -> bytes mapping the chunk codec reads and
// writes. Implementations need not be filesystems; any durable mapping
// that returns exact original bytes on Get satisfies the contract.
//
// Put must guarantee atomic publication: once it returns successfully,
// the chunk is durable and visible to every subsequent Get, independent
// of whether any index referencing it has been published yet. Reads
// must be wait-free against concurrent writes.
type Store interface {
	Put(ctx context.Context, data []byte) (Identity, error)
	Get(ctx context.Context, id Identity) ([]byte, error)
	Verify(ctx context.Context, id Identity) error
}
