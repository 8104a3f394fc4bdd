package zoomgraph

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// captureLog routes the package logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func enableDebug(t *testing.T) {
	t.Helper()
	restoreGlobals(t)
	SetDebugMode(true)
}

func TestDebugModeTreeDepthWarning(t *testing.T) {
	buf := captureLog(t)
	enableDebug(t)
	debugMaxTreeDepth = 3

	root := NewRoot()
	parent := &root.Node
	for i := 0; i < 4; i++ {
		child := NewNode("deep")
		_ = parent.AddChild(child)
		parent = child
	}
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected depth warning, got: %s", buf.String())
	}
}

func TestDebugModeChildCountWarning(t *testing.T) {
	buf := captureLog(t)
	enableDebug(t)
	debugMaxChildCount = 2

	parent := NewNode("wide")
	for i := 0; i < 3; i++ {
		_ = parent.AddChild(NewNode("child"))
	}
	out := buf.String()
	if !strings.Contains(out, "child count exceeds threshold") || !strings.Contains(out, "node=wide") {
		t.Errorf("expected child count warning, got: %s", out)
	}
}

func TestReleaseModeNoWarnings(t *testing.T) {
	buf := captureLog(t)
	restoreGlobals(t)
	SetDebugMode(false)
	debugMaxChildCount = 1

	parent := NewNode("wide")
	_ = parent.AddChild(NewNode("a"))
	_ = parent.AddChild(NewNode("b"))
	if buf.Len() != 0 {
		t.Errorf("release mode should log nothing, got: %s", buf.String())
	}
}

func TestDebugModeCycleStats(t *testing.T) {
	root, _, _, clock := newTestScene(t, 100, 100)
	buf := captureLog(t)
	enableDebug(t)

	root.AddActivity(NewActivity("spin", Unbounded, 0, nil))
	clock.now = 25
	if err := root.ProcessInputs(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"process cycle", "time=25", "scheduled=1", "total="} {
		if !strings.Contains(out, want) {
			t.Errorf("stats log missing %q: %s", want, out)
		}
	}
}

func TestReentrantCycleLogged(t *testing.T) {
	root := NewRoot()
	buf := captureLog(t)
	root.AddInputSource(InputSourceFunc(func() { _ = root.ProcessInputs() }))
	if err := root.ProcessInputs(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "skipping reentrant process cycle") {
		t.Errorf("expected reentrancy debug log, got: %s", buf.String())
	}
}

func TestActivityFailureLogged(t *testing.T) {
	buf := captureLog(t)
	s := NewActivityScheduler(nil)
	s.AddActivity(NewActivity("broken", Unbounded, 0, StepFunc(func(*Activity, int64) error {
		return ErrNoRoot
	})))
	if err := s.ProcessActivities(0); err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "activity=broken") {
		t.Errorf("expected error log, got: %s", out)
	}
}

func TestDuplicatePressWarns(t *testing.T) {
	s := newInputScene(t)
	buf := captureLog(t)
	s.send(t, EventMousePressed, 20, 20, MouseButtonLeft)
	s.send(t, EventMousePressed, 20, 20, MouseButtonLeft)
	if !strings.Contains(buf.String(), "duplicate button press") {
		t.Errorf("expected warning, got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	captureLog(t)
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}
