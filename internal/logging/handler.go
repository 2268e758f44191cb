// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging wires slog for the site. A wrapping handler keeps
// the most recent warnings in memory so the health endpoint can show
// what went wrong without a log aggregator.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Entry is one retained log record.
type Entry struct {
	Time    time.Time         `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// RecentHandler wraps another slog.Handler and keeps the last few
// records at or above a threshold in a ring buffer.
type RecentHandler struct {
	inner slog.Handler
	level slog.Level

	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewRecentHandler retains the last size records at or above level.
func NewRecentHandler(inner slog.Handler, level slog.Level, size int) *RecentHandler {
	if size <= 0 {
		size = 32
	}
	return &RecentHandler{
		inner:   inner,
		level:   level,
		entries: make([]Entry, size),
	}
}

// Enabled implements slog.Handler.
func (h *RecentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RecentHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.retain(r)
	}
	return nil
}

// WithAttrs implements slog.Handler. The ring buffer is shared so
// derived loggers feed the same history.
func (h *RecentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sharedHandler{inner: h.inner.WithAttrs(attrs), parent: h}
}

// WithGroup implements slog.Handler.
func (h *RecentHandler) WithGroup(name string) slog.Handler {
	return &sharedHandler{inner: h.inner.WithGroup(name), parent: h}
}

// Recent returns the retained records, oldest first.
func (h *RecentHandler) Recent() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []Entry
	if h.full {
		out = append(out, h.entries[h.next:]...)
	}
	out = append(out, h.entries[:h.next]...)
	return out
}

func (h *RecentHandler) retain(r slog.Record) {
	e := Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}
	if r.NumAttrs() > 0 {
		e.Attrs = make(map[string]string, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			e.Attrs[a.Key] = a.Value.String()
			return true
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = e
	h.next++
	if h.next == len(h.entries) {
		h.next = 0
		h.full = true
	}
}

// sharedHandler routes derived loggers back to the parent's buffer.
type sharedHandler struct {
	inner  slog.Handler
	parent *RecentHandler
}

func (h *sharedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *sharedHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.parent.level {
		h.parent.retain(r)
	}
	return nil
}

func (h *sharedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sharedHandler{inner: h.inner.WithAttrs(attrs), parent: h.parent}
}

func (h *sharedHandler) WithGroup(name string) slog.Handler {
	return &sharedHandler{inner: h.inner.WithGroup(name), parent: h.parent}
}

// ParseLevel maps a config string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the default logger and returns the RecentHandler for
// the health endpoint.
func Setup(level string) *RecentHandler {
	text := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)})
	h := NewRecentHandler(text, slog.LevelWarn, 32)
	slog.SetDefault(slog.New(h))
	return h
}
