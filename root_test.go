package zoomgraph

import (
	"errors"
	"testing"
)

type fakeClock struct{ now int64 }

// newTestScene returns a basic scene driven by a fake clock starting at 0,
// with the camera sized w by h and one cycle already run.
func newTestScene(t *testing.T, w, h float64) (*Root, *Layer, *Camera, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	root, layer, camera := NewBasicScene()
	root.SetClock(func() int64 { return clock.now })
	camera.SetBounds(Rect{Width: w, Height: h})
	if err := root.ProcessInputs(); err != nil {
		t.Fatal(err)
	}
	return root, layer, camera, clock
}

// runCycles advances the clock in 10ms steps up to and including until,
// running one process cycle per step.
func runCycles(t *testing.T, root *Root, clock *fakeClock, until int64) {
	t.Helper()
	for clock.now < until {
		clock.now += 10
		if clock.now > until {
			clock.now = until
		}
		if err := root.ProcessInputs(); err != nil {
			t.Fatalf("cycle at %d: %v", clock.now, err)
		}
	}
}

func TestNewBasicScene(t *testing.T) {
	root, layer, camera := NewBasicScene()
	if layer.Parent() != &root.Node || camera.Parent() != &root.Node {
		t.Error("layer and camera should be children of the root")
	}
	if camera.LayerCount() != 1 || camera.LayerAt(0) != layer {
		t.Error("camera should view the layer")
	}
	if len(layer.Cameras()) != 1 || layer.Cameras()[0] != camera {
		t.Error("layer should know its camera")
	}
	if camera.Root() != root {
		t.Error("camera.Root() should be the root")
	}
}

func TestProcessInputsOrder(t *testing.T) {
	root, layer, _, clock := newTestScene(t, 100, 100)
	var order []string

	box := NewNode("box")
	_ = layer.AddChild(box)
	box.Layout = func(n *Node) { order = append(order, "bounds") }

	root.AddInputSource(InputSourceFunc(func() { order = append(order, "input") }))
	root.AddActivity(NewActivity("a", Unbounded, 0, StepFunc(func(*Activity, int64) error {
		order = append(order, "activity")
		return nil
	})))

	clock.now = 5
	if err := root.ProcessInputs(); err != nil {
		t.Fatal(err)
	}
	want := []string{"input", "activity", "bounds"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	if root.GlobalTime() != 5 {
		t.Errorf("GlobalTime = %d, want 5", root.GlobalTime())
	}
}

func TestProcessInputsReentrantIsNoOp(t *testing.T) {
	root, _, _, _ := newTestScene(t, 100, 100)
	calls := 0
	root.AddInputSource(InputSourceFunc(func() {
		calls++
		if err := root.ProcessInputs(); err != nil {
			t.Error(err)
		}
	}))
	if err := root.ProcessInputs(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("input source polled %d times, want 1", calls)
	}
}

func TestProcessInputsActivityErrorStillValidates(t *testing.T) {
	root, layer, _, clock := newTestScene(t, 100, 100)
	boom := errors.New("boom")
	root.AddActivity(NewActivity("failing", Unbounded, 0, StepFunc(func(*Activity, int64) error {
		return boom
	})))
	box := NewRectNode("box", Rect{Width: 10, Height: 10}, ColorWhite)
	_ = layer.AddChild(box)

	clock.now = 10
	err := root.ProcessInputs()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	assertRect(t, "layer full bounds", layer.FullBounds(), Rect{Width: 10, Height: 10})
	if layer.ChildBoundsInvalid() || root.ChildPaintInvalid() {
		t.Error("bounds and paint should have been validated")
	}
}

func TestNeedsProcessing(t *testing.T) {
	root, layer, camera, clock := newTestScene(t, 100, 100)
	if root.NeedsProcessing() {
		t.Fatal("fresh scene after one cycle should be idle")
	}

	box := NewRectNode("box", Rect{Width: 10, Height: 10}, ColorWhite)
	_ = layer.AddChild(box)
	if !root.NeedsProcessing() {
		t.Error("added node should need processing")
	}
	runCycles(t, root, clock, 10)
	if root.NeedsProcessing() {
		t.Error("should be idle after a cycle")
	}

	root.DefaultInputManager().enqueue(InputEvent{X: 1, Y: 1}, EventMouseMoved, camera)
	if !root.NeedsProcessing() {
		t.Error("queued input should need processing")
	}
	runCycles(t, root, clock, 20)

	if _, err := box.AnimateToTransparency(0.5, 100); err != nil {
		t.Fatal(err)
	}
	if !root.NeedsProcessing() {
		t.Error("scheduled activity should need processing")
	}
	runCycles(t, root, clock, 200)
	if root.NeedsProcessing() {
		t.Error("should be idle once the animation finished")
	}
}

func TestInputSources(t *testing.T) {
	root := NewRoot()
	a := InputSourceFunc(func() {})
	root.AddInputSource(a)
	m := root.DefaultInputManager()
	if root.DefaultInputManager() != m {
		t.Error("DefaultInputManager should be created once")
	}
	if n := len(root.InputSources()); n != 2 {
		t.Fatalf("sources = %d, want 2", n)
	}
	if !root.RemoveInputSource(m) {
		t.Error("remove registered source should succeed")
	}
	if root.RemoveInputSource(m) {
		t.Error("second remove should fail")
	}
	if n := len(root.InputSources()); n != 1 {
		t.Errorf("sources = %d, want 1", n)
	}
}

func TestSetClockNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewRoot().SetClock(nil)
}

func TestActivityStartTimeDefaultsToClock(t *testing.T) {
	root, _, _, clock := newTestScene(t, 100, 100)
	clock.now = 42
	a := NewActivity("a", 10, 0, nil)
	root.AddActivity(a)
	if a.StartTime() != 42 {
		t.Errorf("start = %d, want 42", a.StartTime())
	}

	// Inside a cycle the cycle's time is used, even if the clock moved on.
	var b *Activity
	root.AddInputSource(InputSourceFunc(func() {
		if b == nil {
			clock.now = 60
			b = NewActivity("b", 10, 0, nil)
			root.AddActivity(b)
		}
	}))
	clock.now = 50
	if err := root.ProcessInputs(); err != nil {
		t.Fatal(err)
	}
	if b.StartTime() != 50 {
		t.Errorf("start = %d, want 50", b.StartTime())
	}
}
