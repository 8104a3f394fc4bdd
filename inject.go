package zoomgraph

// Injector is an InputSource that replays synthetic input through an
// InputManager, one event per process cycle. Positions are canvas
// coordinates, exactly as a host input adapter would report them.
type Injector struct {
	manager *InputManager
	camera  *Camera
	queue   []queuedInput

	down   bool
	button MouseButton
}

// NewInjector creates an injector delivering events to m as seen through c.
func NewInjector(m *InputManager, c *Camera) *Injector {
	return &Injector{manager: m, camera: c}
}

// Pending returns the number of events not yet delivered.
func (j *Injector) Pending() int {
	return len(j.queue)
}

func (j *Injector) push(typ EventType, in InputEvent) {
	j.queue = append(j.queue, queuedInput{in: in, typ: typ, camera: j.camera})
}

// Press queues a left button press at (x, y).
func (j *Injector) Press(x, y float64) {
	j.PressButton(x, y, MouseButtonLeft)
}

// PressButton queues a press of button at (x, y). Moves queued until the
// matching release are sent as drags with that button.
func (j *Injector) PressButton(x, y float64, button MouseButton) {
	j.down = true
	j.button = button
	j.push(EventMousePressed, InputEvent{X: x, Y: y, Button: button, ClickCount: 1})
}

// Move queues a pointer move to (x, y): a drag while a button is held, a
// plain move otherwise.
func (j *Injector) Move(x, y float64) {
	if j.down {
		j.push(EventMouseDragged, InputEvent{X: x, Y: y, Button: j.button})
		return
	}
	j.push(EventMouseMoved, InputEvent{X: x, Y: y})
}

// Release queues a release of the held button at (x, y).
func (j *Injector) Release(x, y float64) {
	j.down = false
	j.push(EventMouseReleased, InputEvent{X: x, Y: y, Button: j.button, ClickCount: 1})
}

// Click queues a press, a release and a click at (x, y). Consumes three
// cycles.
func (j *Injector) Click(x, y float64) {
	j.Press(x, y)
	j.Release(x, y)
	j.push(EventMouseClicked, InputEvent{X: x, Y: y, Button: MouseButtonLeft, ClickCount: 1})
}

// Drag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate cycles, and release at
// (toX, toY). The total sequence consumes frames cycles; the minimum is 2.
func (j *Injector) Drag(fromX, fromY, toX, toY float64, frames int) {
	j.DragButton(fromX, fromY, toX, toY, frames, MouseButtonLeft)
}

// DragButton is Drag with an explicit button.
func (j *Injector) DragButton(fromX, fromY, toX, toY float64, frames int, button MouseButton) {
	if frames < 2 {
		frames = 2
	}
	j.PressButton(fromX, fromY, button)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		j.Move(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	j.Release(toX, toY)
}

// Wheel queues a wheel rotation of dy notches at (x, y).
func (j *Injector) Wheel(x, y, dy float64) {
	j.push(EventMouseWheel, InputEvent{X: x, Y: y, WheelY: dy})
}

// Key queues a key press, a typed character (when r is non-zero) and a key
// release.
func (j *Injector) Key(key int, r rune, mods KeyModifiers) {
	j.push(EventKeyPressed, InputEvent{Key: key, Modifiers: mods})
	if r != 0 {
		j.push(EventKeyTyped, InputEvent{Key: key, Rune: r, Modifiers: mods})
	}
	j.push(EventKeyReleased, InputEvent{Key: key, Modifiers: mods})
}

// ProcessInput delivers the next queued event. It implements InputSource.
func (j *Injector) ProcessInput() {
	if len(j.queue) == 0 {
		return
	}
	q := j.queue[0]
	copy(j.queue, j.queue[1:])
	j.queue[len(j.queue)-1] = queuedInput{}
	j.queue = j.queue[:len(j.queue)-1]

	j.manager.enqueue(q.in, q.typ, q.camera)
	j.manager.ProcessInput()
}
