// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStoreFlags points the global store flags at a fresh on-disk
// badger database under t's temp dir and restores them afterward.
func withStoreFlags(t *testing.T) {
	t.Helper()
	prevPath, prevComp := storePath, compression
	storePath = filepath.Join(t.TempDir(), "store")
	compression = "zstd"
	t.Cleanup(func() { storePath, compression = prevPath, prevComp })
}

func newSplitCmd(minSize, avgSize, maxSize uint64, indexPath string) *cobra.Command {
	chunkMinSize, chunkAvgSize, chunkMaxSize = minSize, avgSize, maxSize
	cmd := &cobra.Command{}
	cmd.Flags().String("index", indexPath, "")
	return cmd
}

func TestChunkSplitThenStoreGetRoundTrips(t *testing.T) {
	withStoreFlags(t)
	dir := t.TempDir()

	input := make([]byte, 200<<10)
	for i := range input {
		input[i] = byte(i * 7)
	}
	inputPath := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(inputPath, input, 0644))

	indexPath := filepath.Join(dir, "input.bin.caidx")
	cmd := newSplitCmd(4<<10, 16<<10, 64<<10, indexPath)
	require.NoError(t, runChunkSplit(cmd, []string{inputPath}))
	assert.FileExists(t, indexPath)

	outputPath := filepath.Join(dir, "output.bin")
	require.NoError(t, runStoreGet(&cobra.Command{}, []string{indexPath, outputPath}))

	got, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestStoreVerifyReportsNoCorruptionAfterSplit(t *testing.T) {
	withStoreFlags(t)
	dir := t.TempDir()

	input := make([]byte, 100<<10)
	inputPath := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(inputPath, input, 0644))

	indexPath := filepath.Join(dir, "input.bin.caidx")
	cmd := newSplitCmd(4<<10, 16<<10, 64<<10, indexPath)
	require.NoError(t, runChunkSplit(cmd, []string{inputPath}))

	require.NoError(t, runStoreVerify(&cobra.Command{}, []string{indexPath}))
}
