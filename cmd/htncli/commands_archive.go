// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/htnc-project/htnc/services/chunkstore/archivecodec"
)

// archivePackResult is the rendered shape of a completed pack operation.
type archivePackResult struct {
	ArchivePath string `json:"archive_path"`
	EntryCount  int    `json:"entry_count"`
	Bytes       int    `json:"bytes"`
}

func (r *archivePackResult) String() string {
	return fmt.Sprintf("%d entries packed into %s (%d bytes)", r.EntryCount, r.ArchivePath, r.Bytes)
}

func runArchivePack(cmd *cobra.Command, args []string) error {
	start := time.Now()
	dir, archivePath := args[0], args[1]

	var elements []archivecodec.Element
	var entryCount int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			rel = "."
		} else {
			rel = filepath.ToSlash(rel)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		entryCount++

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			elements = append(elements,
				archivecodec.Element{Kind: archivecodec.KindEntry, Entry: entryFields(info)},
				archivecodec.Element{Kind: archivecodec.KindFilename, Text: rel},
				archivecodec.Element{Kind: archivecodec.KindSymlink, Text: target},
			)
		case d.IsDir():
			elements = append(elements,
				archivecodec.Element{Kind: archivecodec.KindEntry, Entry: entryFields(info)},
				archivecodec.Element{Kind: archivecodec.KindFilename, Text: rel},
			)
		default:
			payload, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			elements = append(elements,
				archivecodec.Element{Kind: archivecodec.KindEntry, Entry: entryFields(info)},
				archivecodec.Element{Kind: archivecodec.KindFilename, Text: rel},
				archivecodec.Element{Kind: archivecodec.KindPayload, Bytes: payload},
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", dir, err)
	}

	elements = append(elements, archivecodec.Element{Kind: archivecodec.KindGoodbye, Goodbye: goodbyeTable(elements)})

	encoded, err := archivecodec.Encode(elements)
	if err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	if err := os.WriteFile(archivePath, encoded, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", archivePath, err)
	}

	result := &archivePackResult{ArchivePath: archivePath, EntryCount: entryCount, Bytes: len(encoded)}
	return renderResult(outputConfig{JSON: jsonOutput, Compact: compactJSON}, "archive pack", start, result)
}

func entryFields(info fs.FileInfo) archivecodec.EntryFields {
	return archivecodec.EntryFields{
		Mode:  uint64(info.Mode()),
		MTime: uint64(info.ModTime().UnixNano()),
	}
}

// goodbyeTable builds a lookup-hint table keyed by each filename
// element's content, one row per named entry. The hash is a plain
// FNV-1a digest of the path; it exists to let a reader narrow its
// search before a linear scan, not to reproduce the reference
// ecosystem's own hashing scheme (see DESIGN.md for that provenance
// gap).
func goodbyeTable(elements []archivecodec.Element) []archivecodec.GoodbyeItem {
	var items []archivecodec.GoodbyeItem
	var offset uint64
	for _, e := range elements {
		encoded, err := archivecodec.Encode([]archivecodec.Element{e})
		size := uint64(len(encoded))
		if err == nil && e.Kind == archivecodec.KindFilename {
			h := fnv.New64a()
			_, _ = h.Write([]byte(e.Text))
			items = append(items, archivecodec.GoodbyeItem{Offset: offset, Size: size, Hash: h.Sum64()})
		}
		offset += size
	}
	return items
}

// archiveListResult is the rendered shape of a decoded archive stream.
type archiveListResult struct {
	Lines []string `json:"lines"`
}

func (r *archiveListResult) String() string {
	return strings.Join(r.Lines, "\n")
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	start := time.Now()
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	elements, err := archivecodec.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	var lines []string
	for _, e := range elements {
		switch e.Kind {
		case archivecodec.KindFilename:
			lines = append(lines, e.Text)
		case archivecodec.KindPayload:
			lines = append(lines, fmt.Sprintf("  payload: %d bytes", len(e.Bytes)))
		case archivecodec.KindSymlink:
			lines = append(lines, fmt.Sprintf("  -> %s", e.Text))
		case archivecodec.KindGoodbye:
			lines = append(lines, fmt.Sprintf("goodbye: %d entries", len(e.Goodbye)))
		}
	}

	return renderResult(outputConfig{JSON: jsonOutput, Compact: compactJSON}, "archive list", start, &archiveListResult{Lines: lines})
}
