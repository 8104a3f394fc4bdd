package zoomgraph

import (
	"fmt"
	"log/slog"
)

// Unbounded is the duration of an activity that runs until terminated.
const Unbounded int64 = -1

// DefaultStepRate is the minimum interval, in milliseconds, between two steps
// of activities created by the animation helpers. Overridable through Config.
var DefaultStepRate int64 = 20

// TerminationBehavior selects which callbacks Terminate still delivers.
type TerminationBehavior uint8

const (
	// TerminateWithoutFinishing removes the activity silently.
	TerminateWithoutFinishing TerminationBehavior = iota
	// TerminateAndFinish delivers the finished callback, preceded by started
	// if the activity never ran.
	TerminateAndFinish
	// TerminateAndFinishIfStepping delivers finished only to an activity that
	// has already started.
	TerminateAndFinishIfStepping
)

// Stepper is the behavior run by an Activity.
type Stepper interface {
	// Start runs once, on the first cycle at or after the start time.
	Start(a *Activity)
	// Step runs at most once per cycle while the activity is running, with
	// the milliseconds elapsed since the start time.
	Step(a *Activity, elapsed int64) error
	// Finish runs once when the activity completes.
	Finish(a *Activity)
}

// StepFunc adapts a step function to the Stepper interface.
type StepFunc func(a *Activity, elapsed int64) error

// Start is a no-op.
func (f StepFunc) Start(*Activity) {}

// Step calls f(a, elapsed).
func (f StepFunc) Step(a *Activity, elapsed int64) error { return f(a, elapsed) }

// Finish is a no-op.
func (f StepFunc) Finish(*Activity) {}

// ActivityDelegate observes an activity's lifecycle.
type ActivityDelegate interface {
	ActivityStarted(a *Activity)
	ActivityStepped(a *Activity)
	ActivityFinished(a *Activity)
}

// ActivityDelegateFuncs adapts optional functions to ActivityDelegate.
type ActivityDelegateFuncs struct {
	Started  func(a *Activity)
	Stepped  func(a *Activity)
	Finished func(a *Activity)
}

// ActivityStarted calls Started if set.
func (d ActivityDelegateFuncs) ActivityStarted(a *Activity) {
	if d.Started != nil {
		d.Started(a)
	}
}

// ActivityStepped calls Stepped if set.
func (d ActivityDelegateFuncs) ActivityStepped(a *Activity) {
	if d.Stepped != nil {
		d.Stepped(a)
	}
}

// ActivityFinished calls Finished if set.
func (d ActivityDelegateFuncs) ActivityFinished(a *Activity) {
	if d.Finished != nil {
		d.Finished(a)
	}
}

// Activity is a time-scoped task stepped by an ActivityScheduler against the
// root's global clock. Times are in milliseconds.
type Activity struct {
	Name     string
	Delegate ActivityDelegate

	stepper      Stepper
	startTime    int64
	startSet     bool
	duration     int64
	stepRate     int64
	nextStepTime int64
	stepping     bool
	animation    bool

	scheduler  *ActivityScheduler
	successors []*Activity
}

// NewActivity creates an activity running s for duration milliseconds
// (Unbounded to run until terminated), stepping at most every stepRate
// milliseconds. The start time defaults to the scheduler's current time when
// the activity is added.
func NewActivity(name string, duration, stepRate int64, s Stepper) *Activity {
	if s == nil {
		s = StepFunc(func(*Activity, int64) error { return nil })
	}
	if stepRate < 0 {
		stepRate = 0
	}
	return &Activity{
		Name:     name,
		stepper:  s,
		duration: duration,
		stepRate: stepRate,
	}
}

// StartTime returns the time at which the activity starts running.
func (a *Activity) StartTime() int64 { return a.startTime }

// SetStartTime sets the time at which the activity starts running.
func (a *Activity) SetStartTime(t int64) {
	a.startTime = t
	a.nextStepTime = t
	a.startSet = true
}

// Duration returns the duration in milliseconds, or Unbounded.
func (a *Activity) Duration() int64 { return a.duration }

// SetDuration changes the duration.
func (a *Activity) SetDuration(d int64) { a.duration = d }

// StepRate returns the minimum interval between steps.
func (a *Activity) StepRate() int64 { return a.stepRate }

// SetStepRate changes the minimum interval between steps.
func (a *Activity) SetStepRate(r int64) {
	if r < 0 {
		r = 0
	}
	a.stepRate = r
}

// StopTime returns the time at which a finite activity finishes.
func (a *Activity) StopTime() int64 {
	if a.duration == Unbounded {
		return maxTime
	}
	return a.startTime + a.duration
}

const maxTime = int64(^uint64(0) >> 1)

// IsStepping reports whether the activity has started and not yet finished.
func (a *Activity) IsStepping() bool { return a.stepping }

// IsAnimation reports whether the activity animates a visual property.
func (a *Activity) IsAnimation() bool { return a.animation }

// Scheduler returns the scheduler the activity is registered with, or nil.
func (a *Activity) Scheduler() *ActivityScheduler { return a.scheduler }

// StartAfter delays a until first finishes. When first finishes, a's start
// time is rebased to first's finish time and a is scheduled on first's
// scheduler. a should not be scheduled directly.
func (a *Activity) StartAfter(first *Activity) {
	if a.scheduler != nil {
		a.scheduler.RemoveActivity(a)
	}
	first.successors = append(first.successors, a)
}

// Terminate removes the activity from its scheduler, delivering callbacks
// according to behavior.
func (a *Activity) Terminate(behavior TerminationBehavior) {
	sched := a.scheduler
	now := int64(0)
	if sched != nil {
		now = sched.now()
		sched.RemoveActivity(a)
	}
	switch behavior {
	case TerminateWithoutFinishing:
		a.stepping = false
	case TerminateAndFinish:
		if !a.stepping {
			a.started()
		}
		a.finished(now, sched)
	case TerminateAndFinishIfStepping:
		if a.stepping {
			a.finished(now, sched)
		}
	}
}

// process advances the activity to now. It returns true when the activity
// finished during this call.
func (a *Activity) process(now int64) (bool, error) {
	if now < a.startTime {
		return false, nil
	}
	if a.duration != Unbounded && now >= a.StopTime() {
		sched := a.scheduler
		sched.RemoveActivity(a)
		if !a.stepping {
			a.started()
		}
		a.finished(a.StopTime(), sched)
		return true, nil
	}
	if !a.stepping {
		a.started()
	}
	if now >= a.nextStepTime {
		a.nextStepTime = now + a.stepRate
		if err := a.stepper.Step(a, now-a.startTime); err != nil {
			return false, err
		}
		if a.Delegate != nil {
			a.Delegate.ActivityStepped(a)
		}
	}
	return false, nil
}

func (a *Activity) started() {
	a.stepping = true
	a.stepper.Start(a)
	if a.Delegate != nil {
		a.Delegate.ActivityStarted(a)
	}
}

// finished delivers the finish callbacks and schedules successors starting
// on sched at finishTime.
func (a *Activity) finished(finishTime int64, sched *ActivityScheduler) {
	a.stepping = false
	a.stepper.Finish(a)
	if a.Delegate != nil {
		a.Delegate.ActivityFinished(a)
	}
	next := a.successors
	a.successors = nil
	for _, s := range next {
		s.SetStartTime(finishTime)
		if sched != nil {
			sched.AddActivity(s)
		}
	}
}

// ActivityScheduler steps the activities registered with a root once per
// process cycle, in the order they were added.
type ActivityScheduler struct {
	clock      func() int64
	activities []*Activity
	snapshot   []*Activity
}

// NewActivityScheduler creates a scheduler whose default start time for new
// activities is read from clock.
func NewActivityScheduler(clock func() int64) *ActivityScheduler {
	return &ActivityScheduler{clock: clock}
}

func (s *ActivityScheduler) now() int64 {
	if s.clock == nil {
		return 0
	}
	return s.clock()
}

// AddActivity schedules a. An activity already registered elsewhere is moved.
func (s *ActivityScheduler) AddActivity(a *Activity) {
	if a.scheduler == s {
		return
	}
	if a.scheduler != nil {
		a.scheduler.RemoveActivity(a)
	}
	if !a.startSet {
		a.SetStartTime(s.now())
	}
	a.scheduler = s
	s.activities = append(s.activities, a)
}

// RemoveActivity unschedules a without delivering callbacks. Returns false
// if a was not scheduled here.
func (s *ActivityScheduler) RemoveActivity(a *Activity) bool {
	for i, each := range s.activities {
		if each == a {
			copy(s.activities[i:], s.activities[i+1:])
			s.activities[len(s.activities)-1] = nil
			s.activities = s.activities[:len(s.activities)-1]
			a.scheduler = nil
			return true
		}
	}
	return false
}

// RemoveAllActivities unschedules every activity without callbacks.
func (s *ActivityScheduler) RemoveAllActivities() {
	for _, a := range s.activities {
		a.scheduler = nil
	}
	clear(s.activities)
	s.activities = s.activities[:0]
}

// Activities returns the scheduled activities in scheduling order.
// The returned slice MUST NOT be mutated by the caller.
func (s *ActivityScheduler) Activities() []*Activity {
	return s.activities
}

// Len returns the number of scheduled activities.
func (s *ActivityScheduler) Len() int {
	return len(s.activities)
}

// Animating reports whether an animation activity is currently running.
func (s *ActivityScheduler) Animating() bool {
	for _, a := range s.activities {
		if a.animation && a.stepping {
			return true
		}
	}
	return false
}

// ProcessActivities steps every activity due at now, in scheduling order.
// Activities added or removed by callbacks take effect next cycle, except
// that a removed activity is not stepped. The first step error stops the
// cycle and is returned.
func (s *ActivityScheduler) ProcessActivities(now int64) error {
	if len(s.activities) == 0 {
		return nil
	}
	s.snapshot = append(s.snapshot[:0], s.activities...)
	defer func() {
		clear(s.snapshot)
		s.snapshot = s.snapshot[:0]
	}()
	for _, a := range s.snapshot {
		if a.scheduler != s {
			continue
		}
		if _, err := a.process(now); err != nil {
			Logger().Error("activity step failed",
				slog.String("activity", a.Name), slog.Int64("time", now), slog.Any("error", err))
			return fmt.Errorf("zoomgraph: activity %q: %w", a.Name, err)
		}
	}
	return nil
}
