package zoomgraph

import (
	"log/slog"
	"time"
)

// InputSource is polled once per process cycle. Each call may deliver at most
// one event.
type InputSource interface {
	ProcessInput()
}

// InputSourceFunc adapts a function to the InputSource interface.
type InputSourceFunc func()

// ProcessInput calls f().
func (f InputSourceFunc) ProcessInput() { f() }

// Root is the topmost node of a scene graph. It owns the activity scheduler
// and the input sources, and runs the process cycle.
type Root struct {
	Node

	scheduler    *ActivityScheduler
	inputSources []InputSource
	inputManager *InputManager

	clock            func() int64
	globalTime       int64
	cycle            uint64
	inCycle          bool
	processingInputs bool
}

// NewRoot creates an empty root whose clock counts milliseconds from now.
func NewRoot() *Root {
	r := &Root{}
	r.Name = "root"
	nodeDefaults(&r.Node)
	r.ext = r
	start := time.Now()
	r.clock = func() int64 { return time.Since(start).Milliseconds() }
	r.scheduler = NewActivityScheduler(r.currentTime)
	return r
}

// NewBasicScene creates a root with one layer and one camera viewing it, the
// usual starting point for an application.
func NewBasicScene() (*Root, *Layer, *Camera) {
	root := NewRoot()
	layer := NewLayer("layer")
	camera := NewCamera("camera")
	// Fresh nodes cannot form a cycle.
	_ = root.AddChild(&layer.Node)
	_ = root.AddChild(&camera.Node)
	camera.AddLayer(layer)
	return root, layer, camera
}

// SetClock replaces the millisecond clock read once per process cycle. The
// clock must be monotonic.
func (r *Root) SetClock(clock func() int64) {
	if clock == nil {
		panic("zoomgraph: nil clock")
	}
	r.clock = clock
}

// GlobalTime returns the clock value sampled at the start of the current or
// most recent process cycle.
func (r *Root) GlobalTime() int64 {
	return r.globalTime
}

// currentTime is the start time given to new activities: the cycle time
// while a cycle runs, the live clock otherwise.
func (r *Root) currentTime() int64 {
	if r.inCycle {
		return r.globalTime
	}
	return r.clock()
}

// Scheduler returns the root's activity scheduler.
func (r *Root) Scheduler() *ActivityScheduler {
	return r.scheduler
}

// AddActivity schedules a on this root.
func (r *Root) AddActivity(a *Activity) {
	r.scheduler.AddActivity(a)
}

// AddInputSource registers s to be polled every cycle.
func (r *Root) AddInputSource(s InputSource) {
	r.inputSources = append(r.inputSources, s)
}

// RemoveInputSource unregisters s. Returns false if s was not registered.
func (r *Root) RemoveInputSource(s InputSource) bool {
	for i, each := range r.inputSources {
		if each == s {
			copy(r.inputSources[i:], r.inputSources[i+1:])
			r.inputSources[len(r.inputSources)-1] = nil
			r.inputSources = r.inputSources[:len(r.inputSources)-1]
			return true
		}
	}
	return false
}

// InputSources returns the registered input sources.
// The returned slice MUST NOT be mutated by the caller.
func (r *Root) InputSources() []InputSource {
	return r.inputSources
}

// DefaultInputManager returns the root's input manager, creating and
// registering it on first use.
func (r *Root) DefaultInputManager() *InputManager {
	if r.inputManager == nil {
		r.inputManager = NewInputManager()
		r.AddInputSource(r.inputManager)
	}
	return r.inputManager
}

// ProcessInputs runs one process cycle: sample the clock, poll every input
// source once, step due activities, then validate full bounds and full
// paint. A call made while a cycle is already running returns immediately.
//
// An activity step error stops activity processing for this cycle; bounds
// and paint are still validated and the error is returned.
func (r *Root) ProcessInputs() error {
	if r.processingInputs {
		Logger().Debug("skipping reentrant process cycle")
		return nil
	}
	r.processingInputs = true
	r.inCycle = true
	r.cycle++
	defer func() {
		r.processingInputs = false
		r.inCycle = false
	}()

	var stats cycleStats
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}

	r.globalTime = r.clock()
	sources := append([]InputSource(nil), r.inputSources...)
	for _, s := range sources {
		s.ProcessInput()
	}

	if globalDebug {
		stats.inputTime = time.Since(t0)
		stats.activities = r.scheduler.Len()
		t0 = time.Now()
	}

	err := r.scheduler.ProcessActivities(r.globalTime)

	if globalDebug {
		stats.activityTime = time.Since(t0)
		t0 = time.Now()
	}

	r.ValidateFullBounds()

	if globalDebug {
		stats.boundsTime = time.Since(t0)
		t0 = time.Now()
	}

	r.ValidateFullPaint()

	if globalDebug {
		stats.paintTime = time.Since(t0)
		stats.log(r.globalTime)
	}
	if err != nil {
		Logger().Debug("process cycle failed", slog.Int64("time", r.globalTime), slog.Any("error", err))
	}
	return err
}

// NeedsProcessing reports whether a process cycle has work to do: pending
// damage or bounds, queued input or scheduled activities.
func (r *Root) NeedsProcessing() bool {
	if r.fullBoundsInvalid || r.childBoundsInvalid || r.childBoundsVolatile ||
		r.paintInvalid || r.childPaintInvalid {
		return true
	}
	if r.inputManager != nil && r.inputManager.Pending() > 0 {
		return true
	}
	return r.scheduler.Len() > 0
}
