// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// outputConfig controls how a command renders its result.
type outputConfig struct {
	JSON    bool // Output as JSON instead of human-readable text
	Compact bool // No indentation when JSON is set
}

// commandResult wraps a successful command's output with run metadata.
type commandResult struct {
	Command    string      `json:"command"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"duration_ms"`
	Data       interface{} `json:"data,omitempty"`
}

// renderResult writes data to stdout, as a JSON envelope when cfg.JSON
// is set (or stdout isn't a terminal, so piped output defaults to the
// machine-readable form) or as data's String() form otherwise.
func renderResult(cfg outputConfig, cmd string, start time.Time, data fmt.Stringer) error {
	asJSON := cfg.JSON || !stdoutIsTerminal()
	if asJSON {
		result := commandResult{
			Command:    cmd,
			Timestamp:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
			Data:       data,
		}
		encoder := json.NewEncoder(os.Stdout)
		if !cfg.Compact {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(result)
	}
	fmt.Println(data.String())
	return nil
}

// stdoutIsTerminal reports whether stdout is attached to a terminal,
// covering both native and Cygwin/MSYS terminals on Windows.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
