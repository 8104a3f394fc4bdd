package zoomgraph

import (
	"log/slog"
	"sync/atomic"
)

// silent drops every record; its handler reports no level as enabled, so
// call sites skip building attributes.
var silent = slog.New(slog.DiscardHandler)

// current holds the logger installed with SetLogger. A nil value means
// silent.
var current atomic.Pointer[slog.Logger]

// SetLogger installs the logger for the scene graph. Until it is called
// nothing is logged; nil brings back that state.
//
// Records by level:
//   - Debug: per-cycle timing when debug mode is on, reentrant ProcessInputs
//     calls that were skipped
//   - Warn: unbalanced button presses and releases that the input manager
//     corrected, trees that are too deep or too wide
//   - Error: activity step failures, which ProcessInputs also returns
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// Logger returns the installed logger, or a silent one.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return silent
}
