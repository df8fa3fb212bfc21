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

	"github.com/htnc-project/htnc/services/chunkstore/archivecodec"
)

func TestArchivePackThenListRoundTrips(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("world"), 0644))

	archivePath := filepath.Join(dir, "out.catar")
	require.NoError(t, runArchivePack(&cobra.Command{}, []string{src, archivePath}))
	assert.FileExists(t, archivePath)

	jsonOutput = false
	require.NoError(t, runArchiveList(&cobra.Command{}, []string{archivePath}))

	encoded, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	elements, err := archivecodec.Decode(encoded)
	require.NoError(t, err)

	var names []string
	for _, e := range elements {
		if e.Kind == archivecodec.KindFilename {
			names = append(names, e.Text)
		}
	}
	assert.Contains(t, names, "a.txt")
	assert.Contains(t, names, "sub/b.txt")

	reencoded, err := archivecodec.Encode(elements)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}
