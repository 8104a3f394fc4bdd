package zoomgraph

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "log", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4, "frames": 6, "button": "right"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "log" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
	if st := runner.steps[3]; st.ToX != 3 || st.Frames != 6 || scriptButtons[st.Button] != MouseButtonRight {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid json", `not json`, "parse test script"},
		{"empty", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "screenshot"}]}`, "unknown action"},
		{"bad zoom", `{"steps": [{"action": "zoom", "scale": 0}]}`, "scale"},
		{"bad button", `{"steps": [{"action": "press", "button": "fourth"}]}`, "unknown button"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

// runScript attaches a script and runs cycles until it is done, returning
// the number of cycles taken.
func runScript(t *testing.T, root *Root, camera *Camera, script string) (*TestRunner, int) {
	t.Helper()
	runner, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	runner.Attach(root, camera)
	cycles := 0
	for !runner.Done() {
		if cycles > 1000 {
			t.Fatal("script did not finish")
		}
		if err := root.ProcessInputs(); err != nil {
			t.Fatal(err)
		}
		cycles++
	}
	return runner, cycles
}

func TestRunnerClick(t *testing.T) {
	root, layer, camera, _ := newTestScene(t, 200, 200)
	box := addBox(t, &layer.Node, "box", 0, 0, 100, 100)
	clicked := 0
	box.AddListener(ListenerFunc(func(e *Event) {
		if e.Type() == EventMouseClicked {
			clicked++
		}
	}))

	_, cycles := runScript(t, root, camera, `{"steps": [{"action": "click", "x": 50, "y": 50}]}`)
	if clicked != 1 {
		t.Errorf("clicked %d times, want 1", clicked)
	}
	// Three cycles deliver the click; the fourth observes the end.
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

func TestRunnerWait(t *testing.T) {
	root, _, camera, _ := newTestScene(t, 200, 200)
	_, cycles := runScript(t, root, camera, `{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "log", "label": "done"}
	]}`)
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

func TestRunnerDrag(t *testing.T) {
	root, layer, camera, _ := newTestScene(t, 200, 200)
	box := addBox(t, &layer.Node, "box", 10, 10, 20, 20)
	layer.AddListener(NewDragHandler())

	runScript(t, root, camera, `{"steps": [
		{"action": "drag", "fromX": 15, "fromY": 15, "toX": 45, "toY": 35, "frames": 4}
	]}`)
	// The release carries the final stretch of movement but only drags move
	// the node: two drags at 1/3 and 2/3 of the way.
	x, y := box.Offset()
	assertNear(t, "x", x, 30)
	assertNear(t, "y", y, 10+40.0/3)
}

func TestRunnerZoomAndPan(t *testing.T) {
	root, _, camera, _ := newTestScene(t, 200, 200)
	runner, _ := runScript(t, root, camera, `{"steps": [
		{"action": "zoom", "scale": 2, "x": 0, "y": 0},
		{"action": "pan", "fromX": 0, "fromY": 0, "toX": 10, "toY": -5}
	]}`)
	if runner.Err() != nil {
		t.Fatal(runner.Err())
	}
	assertNear(t, "scale", camera.ViewScale(), 2)
	x, y := camera.ViewOffset()
	assertNear(t, "x", x, 10)
	assertNear(t, "y", y, -5)
}

func TestRunnerKeyAndLog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	root, _, camera, _ := newTestScene(t, 200, 200)
	var typed []rune
	root.DefaultInputManager().SetKeyboardFocus(ListenerFunc(func(e *Event) {
		if e.Type() == EventKeyTyped {
			typed = append(typed, e.Input.Rune)
		}
	}))
	runScript(t, root, camera, `{"steps": [
		{"action": "key", "key": 88, "rune": "x"},
		{"action": "log", "label": "typed"}
	]}`)
	if len(typed) != 1 || typed[0] != 'x' {
		t.Errorf("typed = %q", typed)
	}
	if !strings.Contains(buf.String(), "label=typed") {
		t.Errorf("log output %q should carry the label", buf.String())
	}
}

func TestRunnerNotAttached(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "log"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.ProcessInput()
	if runner.Done() {
		t.Error("unattached runner should not advance")
	}
}
