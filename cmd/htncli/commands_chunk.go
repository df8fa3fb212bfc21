// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/htnc-project/htnc/services/chunkstore/chunker"
	"github.com/htnc-project/htnc/services/chunkstore/indexcodec"
)

// chunkSplitResult is the rendered shape of a completed split.
type chunkSplitResult struct {
	ChunkCount int    `json:"chunk_count"`
	TotalSize  uint64 `json:"total_size"`
	IndexPath  string `json:"index_path"`
}

func (r *chunkSplitResult) String() string {
	return fmt.Sprintf("%d chunks, %d bytes, index written to %s", r.ChunkCount, r.TotalSize, r.IndexPath)
}

func runChunkSplit(cmd *cobra.Command, args []string) error {
	start := time.Now()
	inputPath := args[0]
	indexPath, _ := cmd.Flags().GetString("index")
	if indexPath == "" {
		indexPath = inputPath + ".caidx"
	}
	watch, _ := cmd.Flags().GetBool("watch")

	result, err := splitOnce(inputPath, indexPath)
	if err != nil {
		return err
	}
	if err := renderResult(outputConfig{JSON: jsonOutput, Compact: compactJSON}, "chunk split", start, result); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return watchAndResplit(inputPath, indexPath)
}

// splitOnce chunks inputPath, stores every chunk, and writes the
// resulting index to indexPath.
func splitOnce(inputPath, indexPath string) (*chunkSplitResult, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	c, err := chunker.New(chunker.Params{MinSize: chunkMinSize, AvgSize: chunkAvgSize, MaxSize: chunkMaxSize})
	if err != nil {
		return nil, err
	}
	chunks := c.Split(data)

	store, closeStore, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	ctx := context.Background()
	idx := &indexcodec.Index{Header: indexcodec.Header{
		ChunkSizeMin: chunkMinSize,
		ChunkSizeAvg: chunkAvgSize,
		ChunkSizeMax: chunkMaxSize,
	}}
	var end uint64
	for _, ch := range chunks {
		id, err := store.Put(ctx, data[ch.Offset:ch.Offset+ch.Size])
		if err != nil {
			return nil, fmt.Errorf("storing chunk at offset %d: %w", ch.Offset, err)
		}
		end += ch.Size
		idx.Entries = append(idx.Entries, indexcodec.Entry{EndOffset: end, Identity: id})
	}

	encoded, err := indexcodec.Encode(idx)
	if err != nil {
		return nil, fmt.Errorf("encoding index: %w", err)
	}
	if err := os.WriteFile(indexPath, encoded, 0644); err != nil {
		return nil, fmt.Errorf("writing index to %s: %w", indexPath, err)
	}

	return &chunkSplitResult{ChunkCount: len(chunks), TotalSize: idx.TotalSize(), IndexPath: indexPath}, nil
}

// watchAndResplit blocks, re-running splitOnce every time inputPath
// changes, until the watcher's event channel closes.
func watchAndResplit(inputPath, indexPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(inputPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(inputPath)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			result, err := splitOnce(inputPath, indexPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "re-split failed: %v\n", err)
				continue
			}
			fmt.Println(result.String())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// storeGetResult is the rendered shape of a completed reconstruction.
type storeGetResult struct {
	OutputPath string `json:"output_path"`
	Bytes      uint64 `json:"bytes"`
}

func (r *storeGetResult) String() string {
	return fmt.Sprintf("wrote %d bytes to %s", r.Bytes, r.OutputPath)
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	start := time.Now()
	indexPath, outputPath := args[0], args[1]

	idx, err := readIndex(indexPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer f.Close()

	for _, e := range idx.Entries {
		b, err := store.Get(ctx, e.Identity)
		if err != nil {
			return fmt.Errorf("fetching chunk %s: %w", e.Identity, err)
		}
		if _, err := f.Write(b); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
	}

	result := &storeGetResult{OutputPath: outputPath, Bytes: idx.TotalSize()}
	return renderResult(outputConfig{JSON: jsonOutput, Compact: compactJSON}, "store get", start, result)
}

// storeVerifyResult is the rendered shape of a completed verification pass.
type storeVerifyResult struct {
	ChunkCount int      `json:"chunk_count"`
	Corrupt    []string `json:"corrupt,omitempty"`
}

func (r *storeVerifyResult) String() string {
	if len(r.Corrupt) == 0 {
		return fmt.Sprintf("all %d chunks verified", r.ChunkCount)
	}
	return fmt.Sprintf("%d/%d chunks corrupt: %s", len(r.Corrupt), r.ChunkCount, strings.Join(r.Corrupt, ", "))
}

func runStoreVerify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	idx, err := readIndex(args[0])
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	result := &storeVerifyResult{ChunkCount: len(idx.Entries)}
	for _, e := range idx.Entries {
		if err := store.Verify(ctx, e.Identity); err != nil {
			result.Corrupt = append(result.Corrupt, e.Identity.String())
		}
	}

	return renderResult(outputConfig{JSON: jsonOutput, Compact: compactJSON}, "store verify", start, result)
}

func readIndex(path string) (*indexcodec.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", path, err)
	}
	idx, err := indexcodec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", path, err)
	}
	return idx, nil
}
