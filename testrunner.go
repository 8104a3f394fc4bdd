package zoomgraph

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Button string  `json:"button,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Key    int     `json:"key,omitempty"`
	Rune   string  `json:"rune,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var scriptButtons = map[string]MouseButton{
	"":       MouseButtonLeft,
	"left":   MouseButtonLeft,
	"right":  MouseButtonRight,
	"middle": MouseButtonMiddle,
}

// TestRunner sequences scripted input across process cycles for automated
// interaction tests. Attach it to a root with Attach.
//
// Supported actions: press, move, release, click, drag, wheel and key feed
// synthetic input; zoom (scale about x, y in view coordinates) and pan (by
// toX-fromX, toY-fromY) change the camera's view directly; wait skips
// frames; log writes label to the logger.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	err       error

	camera   *Camera
	injector *Injector
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached with Attach.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) validate() error {
	switch st.Action {
	case "press", "move", "release", "click", "drag", "wheel", "key", "wait", "pan", "log":
	case "zoom":
		if st.Scale <= 0 {
			return ErrNonPositiveScale
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	if _, ok := scriptButtons[st.Button]; !ok {
		return fmt.Errorf("unknown button %q", st.Button)
	}
	return nil
}

// Attach registers the runner as an input source of root, delivering events
// through root's default input manager as seen through camera.
func (r *TestRunner) Attach(root *Root, camera *Camera) {
	r.camera = camera
	r.injector = NewInjector(root.DefaultInputManager(), camera)
	root.AddInputSource(r)
}

// Done reports whether all steps in the test script have been executed and
// their input delivered.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the first error raised by a zoom step, if any.
func (r *TestRunner) Err() error {
	return r.err
}

// ProcessInput advances the script by one frame and delivers at most one
// event. It implements InputSource.
func (r *TestRunner) ProcessInput() {
	r.step()
	if r.injector != nil {
		r.injector.ProcessInput()
	}
}

// step advances the test runner by one frame.
func (r *TestRunner) step() {
	if r.done || r.injector == nil {
		return
	}
	// Wait for pending injections to drain before advancing.
	if r.injector.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	button := scriptButtons[st.Button]
	j := r.injector

	switch st.Action {
	case "press":
		j.PressButton(st.X, st.Y, button)
	case "move":
		j.Move(st.X, st.Y)
	case "release":
		j.Release(st.X, st.Y)
	case "click":
		j.Click(st.X, st.Y)
	case "drag":
		j.DragButton(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames, button)
	case "wheel":
		j.Wheel(st.X, st.Y, st.Delta)
	case "key":
		var ch rune
		if st.Rune != "" {
			ch = []rune(st.Rune)[0]
		}
		j.Key(st.Key, ch, 0)
	case "zoom":
		if err := r.camera.ScaleViewAboutPoint(st.Scale, st.X, st.Y); err != nil && r.err == nil {
			r.err = err
		}
	case "pan":
		r.camera.TranslateView(st.ToX-st.FromX, st.ToY-st.FromY)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "log":
		Logger().Info("test script", slog.String("label", st.Label), slog.Int("step", r.cursor-1))
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && j.Pending() == 0 {
		r.done = true
	}
}
