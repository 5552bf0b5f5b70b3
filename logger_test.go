// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spheretrace

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/spheretrace/render"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)

	if Logger() != custom {
		t.Error("Logger() did not return the custom logger set via SetLogger")
	}

	tr, err := New(render.NewHostDevice(), &constKernel{}, render.SoftwareCompositor{}, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer tr.Close()
	if err := tr.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "scene generated") {
		t.Errorf("expected lifecycle log, got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

// loggingDevice is a host device that records the logger it receives.
type loggingDevice struct {
	*render.HostDevice
	logger *slog.Logger
}

func (d *loggingDevice) SetLogger(l *slog.Logger) { d.logger = l }

func TestSetLoggerPropagatesToDevice(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	dev := &loggingDevice{HostDevice: render.NewHostDevice()}
	tr, err := New(dev, &constKernel{}, render.SoftwareCompositor{}, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if dev.logger != Logger() {
		t.Error("New did not hand the current logger to the device")
	}

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)
	if dev.logger != custom {
		t.Error("SetLogger did not propagate to the device")
	}

	tr.Close()
	SetLogger(nil)
	if dev.logger != custom {
		t.Error("closed tracer's device should no longer receive logger updates")
	}
}
