// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

//go:build !unix

package objectstore

import "os"

// lockFile is a no-op on platforms without flock(2); Put's temp-file-
// then-rename sequence is still atomic without it.
func lockFile(f *os.File) error { return nil }

func unlockFile(f *os.File) error { return nil }
