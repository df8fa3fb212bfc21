// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package badger wraps github.com/dgraph-io/badger/v4 with the
// configuration and lifecycle conventions the rest of this codebase
// expects: typed Config, in-memory/persistent constructors, a
// context-aware transaction wrapper, and a background GC runner.
package badger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/htnc-project/htnc/pkg/logging"
	"github.com/htnc-project/htnc/pkg/metrics"
)

// Config controls how a badger database is opened.
type Config struct {
	InMemory          bool
	Path              string
	SyncWrites        bool
	NumVersionsToKeep int
	GCInterval        time.Duration
}

// DefaultConfig is a durable, synchronous, single-version configuration
// suitable for the chunk object store.
func DefaultConfig() Config {
	return Config{
		InMemory:          false,
		SyncWrites:        true,
		NumVersionsToKeep: 1,
		GCInterval:        5 * time.Minute,
	}
}

// InMemoryConfig is suitable for tests: no durability, GC disabled.
func InMemoryConfig() Config {
	return Config{
		InMemory:          true,
		SyncWrites:        false,
		NumVersionsToKeep: 1,
		GCInterval:        0,
	}
}

// Open opens a badger database per cfg.
func Open(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("badger: path is required for a persistent database")
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts = opts.WithInMemory(cfg.InMemory)
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithLogger(nil)
	if cfg.NumVersionsToKeep > 0 {
		opts = opts.WithNumVersionsToKeep(cfg.NumVersionsToKeep)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return db, nil
}

// OpenInMemory opens a throwaway in-memory database.
func OpenInMemory() (*badger.DB, error) {
	return Open(InMemoryConfig())
}

// OpenWithPath opens a durable database rooted at path.
func OpenWithPath(path string) (*badger.DB, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	return Open(cfg)
}

// DB wraps *badger.DB with context-aware transaction helpers.
type DB struct {
	*badger.DB
	logger *logging.Logger
}

// OpenDB opens cfg's database and wraps it for managed use.
func OpenDB(cfg Config) (*DB, error) {
	inner, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return &DB{DB: inner, logger: logging.Default().WithComponent("badger")}, nil
}

// WithTxn runs fn in a read-write transaction, aborting if ctx is
// already cancelled before the transaction starts.
func (d *DB) WithTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("badger: context cancelled: %w", err)
	}
	return d.DB.Update(fn)
}

// WithReadTxn runs fn in a read-only transaction, aborting if ctx is
// already cancelled before the transaction starts.
func (d *DB) WithReadTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("badger: context cancelled: %w", err)
	}
	return d.DB.View(fn)
}

// GCRunner periodically invokes badger's value-log garbage collector.
type GCRunner struct {
	db       *badger.DB
	interval time.Duration
	ratio    float64
	logger   *logging.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewGCRunner validates its arguments and returns a stopped GCRunner;
// call Start to begin the background loop.
func NewGCRunner(db *badger.DB, interval time.Duration, ratio float64, logger *logging.Logger) (*GCRunner, error) {
	if db == nil {
		return nil, fmt.Errorf("badger: db must not be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("badger: interval must be positive")
	}
	if ratio <= 0 || ratio > 1 {
		return nil, fmt.Errorf("badger: ratio must be between 0 and 1")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.WithComponent("badger.gc")
	return &GCRunner{
		db:       db,
		interval: interval,
		ratio:    ratio,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins the background GC loop.
func (r *GCRunner) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				for {
					if err := r.db.RunValueLogGC(r.ratio); err != nil {
						if err != badger.ErrNoRewrite {
							r.logger.Warn("value log GC failed", "error", err)
						}
						break
					}
					metrics.ChunkStoreGCRuns.Inc()
				}
			}
		}
	}()
}

// Stop signals the background loop to exit and waits for it to do so.
func (r *GCRunner) Stop() {
	close(r.stop)
	<-r.done
}

// TempDir creates a new temporary directory with the given name prefix.
func TempDir(prefix string) (string, error) {
	return os.MkdirTemp("", prefix)
}

// CleanupDir removes path and everything under it. An empty path is a no-op.
func CleanupDir(path string) error {
	if path == "" {
		return nil
	}
	return os.RemoveAll(path)
}
