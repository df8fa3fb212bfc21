// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package config provides configuration types and loading for the htncli CLI.

# Overview

This package defines the configuration schema for htncli: where the
object store lives, how chunking is parameterized, and how the planner
bounds its search. It is loaded once into a package-level singleton,
created with defaults on first run.

# Configuration File

The configuration is stored at ~/.htnc/htncli.yaml and is created
automatically on first run with sensible defaults.

# Example

	store:
	  path: ~/.htnc/store
	  compression: zstd
	chunker:
	  min_size: 16384
	  avg_size: 65536
	  max_size: 262144
*/
package config

import (
	"time"
)

func newConfigMeta() ConfigMeta {
	return ConfigMeta{Version: CurrentConfigVersion, CreatedAt: time.Now().UnixMilli()}
}

// Default chunker bounds, matching services/chunkstore/chunker.DefaultParams.
const (
	DefaultChunkMinSize = 16 << 10
	DefaultChunkAvgSize = 64 << 10
	DefaultChunkMaxSize = 256 << 10
)

// CurrentConfigVersion is the current configuration schema version.
const CurrentConfigVersion = "1.0.0"

// HTNCConfig is the root configuration structure for the htncli CLI.
type HTNCConfig struct {
	// Meta contains versioning and audit information.
	Meta ConfigMeta `yaml:"meta"`

	// Store configures the content-addressed chunk object store.
	Store StoreConfig `yaml:"store"`

	// Chunker configures content-defined chunking parameters.
	Chunker ChunkerConfig `yaml:"chunker"`

	// Planner configures HTN search bounds.
	Planner PlannerConfig `yaml:"planner"`

	// Logging configures the CLI's log output.
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the badger-backed chunk object store.
type StoreConfig struct {
	// Path is the directory holding the badger database. Empty means
	// an in-memory store (useful for one-shot commands and tests).
	Path string `yaml:"path"`

	// Compression names the at-rest compression scheme: "none" or "zstd".
	Compression string `yaml:"compression"`

	// GCInterval is a value-log GC period stored in the config file.
	// htncli does not read it and starts no background GC runner, so it
	// has no effect on any command.
	GCInterval time.Duration `yaml:"gc_interval,omitempty"`
}

// ChunkerConfig configures the buzhash content-defined chunker.
type ChunkerConfig struct {
	// MinSize is the minimum chunk size in bytes.
	MinSize uint64 `yaml:"min_size"`

	// AvgSize is the target average chunk size in bytes.
	AvgSize uint64 `yaml:"avg_size"`

	// MaxSize is the maximum chunk size in bytes.
	MaxSize uint64 `yaml:"max_size"`
}

// PlannerConfig configures HTN search bounds.
type PlannerConfig struct {
	// MaxDepth bounds decomposition depth. Zero means unbounded.
	MaxDepth int `yaml:"max_depth"`

	// MaxNodes bounds total tree nodes per plan/replan call. Zero means
	// unbounded.
	MaxNodes int `yaml:"max_nodes"`

	// VerboseLevel controls how much detail the planner's trace records.
	VerboseLevel int `yaml:"verbose_level"`
}

// LoggingConfig configures the CLI's structured logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// LogDir enables file logging to the given directory, in addition
	// to stderr. Empty disables file logging.
	LogDir string `yaml:"log_dir,omitempty"`

	// JSON selects JSON-formatted stderr output over human-readable text.
	JSON bool `yaml:"json"`
}

// ConfigMeta contains metadata for configuration versioning.
type ConfigMeta struct {
	// Version is the configuration schema version, used for migration
	// when the schema changes.
	Version string `yaml:"version"`

	// CreatedAt is the Unix millisecond timestamp when config was created.
	CreatedAt int64 `yaml:"created_at"`
}

// DefaultConfig returns the default htncli configuration.
func DefaultConfig() HTNCConfig {
	return HTNCConfig{
		Meta: newConfigMeta(),
		Store: StoreConfig{
			Path:        "",
			Compression: "zstd",
			GCInterval:  10 * time.Minute,
		},
		Chunker: ChunkerConfig{
			MinSize: DefaultChunkMinSize,
			AvgSize: DefaultChunkAvgSize,
			MaxSize: DefaultChunkMaxSize,
		},
		Planner: PlannerConfig{
			MaxDepth:     100,
			MaxNodes:     10000,
			VerboseLevel: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
