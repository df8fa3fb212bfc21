// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/htnc-project/htnc/cmd/htncli/config"
)

// --- Global Command Variables ---
var (
	jsonOutput   bool
	compactJSON  bool
	storePath    string
	storeKind    string
	compression  string
	chunkMinSize uint64
	chunkAvgSize uint64
	chunkMaxSize uint64

	rootCmd = &cobra.Command{
		Use:   "htncli",
		Short: "Plan with an HTN planner and manage a casync-compatible chunk store",
		Long: `htncli drives the HTN planner's two canonical scenarios and operates
on a content-addressed chunk store: splitting files into chunks, storing
and retrieving them by identity, and packing/unpacking directory archives.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Load()
		},
	}

	// --- Planner ---
	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Run one of the planner's canonical scenarios",
	}
	planBlocksWorldCmd = &cobra.Command{
		Use:   "blocksworld",
		Short: "Plan the classic blocks-world rearrangement scenario",
		RunE:  runPlanBlocksWorld, // Defined in commands_plan.go
	}
	planTravelCmd = &cobra.Command{
		Use:   "travel [destination]",
		Short: "Plan a trip, preferring taxi over walking when cash allows",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlanTravel, // Defined in commands_plan.go
	}

	// --- Chunking ---
	chunkCmd = &cobra.Command{
		Use:   "chunk",
		Short: "Content-defined chunking operations",
	}
	chunkSplitCmd = &cobra.Command{
		Use:   "split [file]",
		Short: "Split a file into content-defined chunks, store them, and write an index",
		Args:  cobra.ExactArgs(1),
		RunE:  runChunkSplit, // Defined in commands_chunk.go
	}

	// --- Object store ---
	storeCmd = &cobra.Command{
		Use:   "store",
		Short: "Operate on the content-addressed chunk object store",
	}
	storeGetCmd = &cobra.Command{
		Use:   "get [index-file] [output-file]",
		Short: "Reconstruct a stream from its index and the chunk store",
		Args:  cobra.ExactArgs(2),
		RunE:  runStoreGet, // Defined in commands_chunk.go
	}
	storeVerifyCmd = &cobra.Command{
		Use:   "verify [index-file]",
		Short: "Verify every chunk an index references is present and uncorrupted",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreVerify, // Defined in commands_chunk.go
	}

	// --- Archive ---
	archiveCmd = &cobra.Command{
		Use:   "archive",
		Short: "Pack and inspect directory-tree archive streams",
	}
	archivePackCmd = &cobra.Command{
		Use:   "pack [directory] [archive-file]",
		Short: "Encode a directory tree as an archive element stream",
		Args:  cobra.ExactArgs(2),
		RunE:  runArchivePack, // Defined in commands_archive.go
	}
	archiveListCmd = &cobra.Command{
		Use:   "list [archive-file]",
		Short: "Decode an archive stream and print its elements in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runArchiveList, // Defined in commands_archive.go
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&compactJSON, "compact", false, "Omit JSON indentation")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Chunk store path (overrides config, empty uses in-memory)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store-kind", "badger", "Chunk store backend: badger or fs")
	rootCmd.PersistentFlags().StringVar(&compression, "compression", "", "At-rest compression: none or zstd (overrides config)")

	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planBlocksWorldCmd)
	planCmd.AddCommand(planTravelCmd)
	planTravelCmd.Flags().Int("cash", 20, "Starting cash balance")

	rootCmd.AddCommand(chunkCmd)
	chunkCmd.AddCommand(chunkSplitCmd)
	chunkSplitCmd.Flags().Uint64Var(&chunkMinSize, "min-size", config.DefaultChunkMinSize, "Minimum chunk size in bytes")
	chunkSplitCmd.Flags().Uint64Var(&chunkAvgSize, "avg-size", config.DefaultChunkAvgSize, "Target average chunk size in bytes")
	chunkSplitCmd.Flags().Uint64Var(&chunkMaxSize, "max-size", config.DefaultChunkMaxSize, "Maximum chunk size in bytes")
	chunkSplitCmd.Flags().String("index", "", "Path to write the chunk index (default: <file>.caidx)")
	chunkSplitCmd.Flags().Bool("watch", false, "Re-split and re-index whenever the input file changes")

	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeVerifyCmd)

	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archivePackCmd)
	archiveCmd.AddCommand(archiveListCmd)
}
