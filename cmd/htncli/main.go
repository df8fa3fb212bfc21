// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command htncli drives the HTN planner's canonical scenarios and
// operates on a casync/desync-compatible content-addressed chunk
// store: splitting files into chunks, storing and retrieving them by
// identity, and packing/listing directory-tree archives.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error: %v", err)
	}
}
