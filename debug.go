package zoomgraph

import (
	"log/slog"
	"time"
)

// globalDebug enables tree shape warnings and per-cycle timing logs. Node
// operations have no Root pointer, so the flag is package-wide.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings and per-cycle timing stats are logged via Logger.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug mode is enabled.
func DebugMode() bool {
	return globalDebug
}

// Thresholds for tree shape warnings; overridable through Config.
var (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			slog.Int("depth", depth), slog.Int("threshold", debugMaxTreeDepth), slog.String("node", n.Name))
	}
}

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			slog.Int("children", len(n.children)), slog.Int("threshold", debugMaxChildCount), slog.String("node", n.Name))
	}
}

// cycleStats holds per-cycle timing. Only populated in debug mode.
type cycleStats struct {
	inputTime    time.Duration
	activityTime time.Duration
	boundsTime   time.Duration
	paintTime    time.Duration
	activities   int
}

func (s cycleStats) log(globalTime int64) {
	total := s.inputTime + s.activityTime + s.boundsTime + s.paintTime
	Logger().Debug("process cycle",
		slog.Int64("time", globalTime),
		slog.Duration("input", s.inputTime),
		slog.Duration("activities", s.activityTime),
		slog.Duration("bounds", s.boundsTime),
		slog.Duration("paint", s.paintTime),
		slog.Duration("total", total),
		slog.Int("scheduled", s.activities))
}

// --- Invalidation observer ---

// InvalidationObserver is notified of every bounds and paint invalidation in
// any scene graph. Intended for debugging and instrumentation.
type InvalidationObserver interface {
	FullBoundsInvalidated(n *Node)
	PaintInvalidated(n *Node)
}

var invalidationObserver InvalidationObserver

// SetInvalidationObserver installs the process-wide invalidation observer,
// replacing any previous one.
func SetInvalidationObserver(o InvalidationObserver) {
	invalidationObserver = o
}

// ClearInvalidationObserver removes the process-wide invalidation observer.
func ClearInvalidationObserver() {
	invalidationObserver = nil
}

func currentObserver() InvalidationObserver {
	return invalidationObserver
}
