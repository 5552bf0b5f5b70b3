// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spheretrace

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// sinks are the devices of open tracers that receive logger updates.
var (
	sinksMu sync.Mutex
	sinks   = map[loggerSetter]int{}
)

// SetLogger configures the logger for spheretrace and its device.
// By default, spheretrace produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use. Pass nil to disable logging
// (restore default silent behavior). Renderers created by [New] keep the
// logger that was current at creation.
//
// Log levels used by spheretrace:
//   - [slog.LevelDebug]: per-frame diagnostics (sample count, blend weight, groups)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, scene generated)
//   - [slog.LevelWarn]: non-fatal issues (resources alive at close)
//
// Example:
//
//	spheretrace.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	sinksMu.Lock()
	defer sinksMu.Unlock()
	for s := range sinks {
		s.SetLogger(l)
	}
}

// Logger returns the current logger used by spheretrace.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// attachLogger hands the current logger to v if it accepts one and keeps it
// updated until detachLogger.
func attachLogger(v any) {
	ls, ok := v.(loggerSetter)
	if !ok {
		return
	}
	sinksMu.Lock()
	defer sinksMu.Unlock()
	sinks[ls]++
	ls.SetLogger(Logger())
}

func detachLogger(v any) {
	ls, ok := v.(loggerSetter)
	if !ok {
		return
	}
	sinksMu.Lock()
	defer sinksMu.Unlock()
	if sinks[ls] <= 1 {
		delete(sinks, ls)
		return
	}
	sinks[ls]--
}
