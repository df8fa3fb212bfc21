// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/htnc-project/htnc/cmd/htncli/config"
	"github.com/htnc-project/htnc/services/chunkstore/objectstore"
	"github.com/htnc-project/htnc/services/chunkstore/objectstore/badger"
)

// openStore opens the chunk object store named by flags/config, falling
// back to an in-memory database when no path is configured. The
// returned closer must be called once the store is no longer needed.
func openStore() (objectstore.Store, func() error, error) {
	path := storePath
	if path == "" {
		path = config.Global.Store.Path
	}
	comp := compression
	if comp == "" {
		comp = config.Global.Store.Compression
	}

	mode, err := parseCompression(comp)
	if err != nil {
		return nil, nil, err
	}

	if storeKind == "fs" {
		if path == "" {
			return nil, nil, fmt.Errorf("--store-kind fs requires --store to name a directory")
		}
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, nil, err
		}
		store, err := objectstore.NewFSStore(expanded, mode)
		if err != nil {
			return nil, nil, fmt.Errorf("opening chunk store: %w", err)
		}
		return store, func() error { return nil }, nil
	}

	var dbCfg badger.Config
	if path == "" {
		dbCfg = badger.InMemoryConfig()
	} else {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, nil, err
		}
		dbCfg = badger.DefaultConfig()
		dbCfg.Path = expanded
	}

	db, err := badger.OpenDB(dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening chunk store: %w", err)
	}

	store, err := objectstore.NewBadgerStore(db, mode)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("opening chunk store: %w", err)
	}
	return store, db.Close, nil
}

func parseCompression(comp string) (objectstore.Compression, error) {
	switch comp {
	case "", "zstd":
		return objectstore.CompressionZstd, nil
	case "none":
		return objectstore.CompressionNone, nil
	default:
		return 0, fmt.Errorf("unknown compression %q, want \"none\" or \"zstd\"", comp)
	}
}
