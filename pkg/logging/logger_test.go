// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestLevelOrdering(t *testing.T) {
	assert.Less(t, int(LevelDebug), int(LevelInfo))
	assert.Less(t, int(LevelInfo), int(LevelWarn))
	assert.Less(t, int(LevelWarn), int(LevelError))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel("not-a-level"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestNewDefaultConfigLogsToStderr(t *testing.T) {
	logger := New(Config{})
	require.NotNil(t, logger.slog)
	assert.Nil(t, logger.file)
}

func TestNewWithLogDirWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Service: "chunkstore", LogDir: dir, Quiet: true})
	defer logger.Close()

	logger.Info("put chunk", "bytes", 128)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "chunkstore_"))

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "put chunk")
	assert.Contains(t, string(content), `"bytes":128`)
}

func TestNewWithLogDirDefaultsServiceName(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Quiet: true})
	defer logger.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "htnc_"))
}

func TestNewWithInvalidLogDirFallsBackToStderrOnly(t *testing.T) {
	// A regular file can't be mkdir'd into, so file logging is silently
	// skipped rather than failing the whole logger.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	logger := New(Config{LogDir: filepath.Join(blocker, "logs")})
	assert.Nil(t, logger.file)
	logger.Info("still logs to stderr")
}

func TestServiceAttrAppearsInJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{slog: slog.New(slog.NewJSONHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("service", "htnc")}))}
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"service":"htnc"`)
}

func TestLoggerLevelMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{slog: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	out := buf.String()
	for _, msg := range []string{"d", "i", "w", "e"} {
		assert.Contains(t, out, msg)
	}
}

func TestLoggerFiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{slog: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))}

	logger.Debug("should be filtered")
	logger.Info("should be filtered too")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "kept")
}

func TestWithAddsAttributesToEveryEntry(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{slog: slog.New(slog.NewJSONHandler(&buf, nil))}
	child := base.With("node_id", 7)

	child.Info("resolved")
	assert.Contains(t, buf.String(), `"node_id":7`)
}

func TestWithComponentTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{slog: slog.New(slog.NewJSONHandler(&buf, nil))}
	child := base.WithComponent("badger")

	child.Warn("value log GC failed")
	assert.Contains(t, buf.String(), `"component":"badger"`)
}

func TestWithSharesTheFileHandle(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Quiet: true})
	defer logger.Close()

	child := logger.With("request_id", "abc")
	assert.Same(t, logger.file, child.file)
}

func TestSlogReturnsUnderlyingLogger(t *testing.T) {
	logger := Default()
	assert.NotNil(t, logger.Slog())
}

func TestCloseWithoutFileIsNoop(t *testing.T) {
	logger := Default()
	assert.NoError(t, logger.Close())
}

func TestCloseSyncsAndClosesFile(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Quiet: true})
	require.NoError(t, logger.Close())
	// A second Close on an already-closed file returns an OS error, not
	// a panic; callers that Close twice (e.g. deferred plus explicit)
	// just see that error.
	assert.Error(t, logger.Close())
}

func TestMultiHandlerFansOutToEveryEnabledHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	}}
	logger := slog.New(h)
	logger.Info("fanned out")

	assert.Contains(t, a.String(), "fanned out")
	assert.Contains(t, b.String(), "fanned out")
}

func TestMultiHandlerEnabledIsTrueIfAnyHandlerIsEnabled(t *testing.T) {
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestMultiHandlerEnabledIsFalseWhenNoneAre(t *testing.T) {
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("boom") }
func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }

func TestMultiHandlerPropagatesHandleError(t *testing.T) {
	h := &multiHandler{handlers: []slog.Handler{failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)}}}
	err := h.Handle(context.Background(), slog.Record{})
	assert.Error(t, err)
}

func TestMultiHandlerWithAttrsAppliesToEveryHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{slog.NewJSONHandler(&buf, nil)}}
	tagged := h.WithAttrs([]slog.Attr{slog.String("service", "planner")})
	slog.New(tagged).Info("tagged")
	assert.Contains(t, buf.String(), `"service":"planner"`)
}

func TestMultiHandlerWithGroupAppliesToEveryHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{slog.NewJSONHandler(&buf, nil)}}
	grouped := h.WithGroup("plan")
	slog.New(grouped).With("node_id", 1).Info("grouped")
	assert.Contains(t, buf.String(), `"plan":{`)
}

func TestExpandPathExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".htnc/logs"), expandPath("~/.htnc/logs"))
}

func TestExpandPathLeavesOtherPathsUnchanged(t *testing.T) {
	assert.Equal(t, "/var/log/htnc", expandPath("/var/log/htnc"))
	assert.Equal(t, "relative/path", expandPath("relative/path"))
}
