package zoomgraph

import (
	"fmt"
	"log/slog"
	"reflect"
)

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventMousePressed  EventType = iota // a mouse button went down
	EventMouseReleased                  // a mouse button went up
	EventMouseClicked                   // press and release without movement, sent after the release
	EventMouseMoved                     // the pointer moved with no button down
	EventMouseDragged                   // the pointer moved with a button down
	EventMouseEntered                   // the pointer entered the picked node (synthesized)
	EventMouseExited                    // the pointer left the previously picked node (synthesized)
	EventMouseWheel                     // the wheel was rotated
	EventKeyPressed                     // a key went down
	EventKeyReleased                    // a key went up
	EventKeyTyped                       // a character was typed
	EventFocusGained                    // the listener received keyboard focus
	EventFocusLost                      // the listener lost keyboard focus
)

var eventTypeNames = [...]string{
	"mousePressed", "mouseReleased", "mouseClicked", "mouseMoved", "mouseDragged",
	"mouseEntered", "mouseExited", "mouseWheel", "keyPressed", "keyReleased",
	"keyTyped", "focusGained", "focusLost",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// IsMouse reports whether t carries a pointer position.
func (t EventType) IsMouse() bool {
	return t <= EventMouseWheel
}

// IsKey reports whether t is a keyboard event.
func (t EventType) IsKey() bool {
	return t >= EventKeyPressed && t <= EventKeyTyped
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)

	numMouseButtons = 3
)

var mouseButtonNames = [...]string{"left", "right", "middle"}

func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return fmt.Sprintf("MouseButton(%d)", uint8(b))
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// InputEvent is a host event already classified by type. Positions are in
// the frame of the camera's parent (the canvas).
type InputEvent struct {
	X, Y       float64
	Button     MouseButton
	Modifiers  KeyModifiers
	WheelX     float64
	WheelY     float64
	Key        int
	Rune       rune
	ClickCount int
}

// Event is delivered to listeners. It is only valid during dispatch.
type Event struct {
	Input InputEvent

	typ     EventType
	path    *PickPath
	current *Node
	dx, dy  float64
	handled bool
	manager *InputManager
}

// Type returns the event type.
func (e *Event) Type() EventType { return e.typ }

// Position returns the pointer position in the canvas frame.
func (e *Event) Position() Vec2 { return Vec2{X: e.Input.X, Y: e.Input.Y} }

// Delta returns the pointer movement since the previous pointer event, in
// the canvas frame.
func (e *Event) Delta() Vec2 { return Vec2{X: e.dx, Y: e.dy} }

// Path returns the pick path the event is dispatched along. It may be nil
// for focus events.
func (e *Event) Path() *PickPath { return e.path }

// PickedNode returns the node under the pointer, or nil.
func (e *Event) PickedNode() *Node { return e.path.PickedNode() }

// CurrentNode returns the node whose listener is running, or nil for
// keyboard focus listeners.
func (e *Event) CurrentNode() *Node { return e.current }

// Camera returns the camera the event came through, or nil.
func (e *Event) Camera() *Camera {
	if e.path == nil {
		return nil
	}
	return e.path.TopCamera()
}

// InputManager returns the manager dispatching the event.
func (e *Event) InputManager() *InputManager { return e.manager }

// Button returns the button of a press, release, click or drag.
func (e *Event) Button() MouseButton { return e.Input.Button }

// Modifiers returns the modifier keys held.
func (e *Event) Modifiers() KeyModifiers { return e.Input.Modifiers }

// PositionRelativeTo returns the pointer position in node's local frame.
// node must be on the event's path.
func (e *Event) PositionRelativeTo(node *Node) (x, y float64, err error) {
	if e.path == nil {
		return 0, 0, ErrNotAttached
	}
	return e.path.CanvasToLocal(e.Input.X, e.Input.Y, node)
}

// DeltaRelativeTo returns the pointer movement in node's local frame.
func (e *Event) DeltaRelativeTo(node *Node) (dx, dy float64, err error) {
	if e.path == nil {
		return 0, 0, ErrNotAttached
	}
	return e.path.CanvasToLocalDelta(e.dx, e.dy, node)
}

// SetHandled stops the event from bubbling further up the path.
func (e *Event) SetHandled() { e.handled = true }

// Handled reports whether a listener marked the event handled.
func (e *Event) Handled() bool { return e.handled }

// Listener receives input events.
type Listener interface {
	HandleEvent(e *Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(e *Event)

// HandleEvent calls f(e).
func (f ListenerFunc) HandleEvent(e *Event) { f(e) }

type listenerEntry struct {
	id uint32
	l  Listener
}

// ListenerHandle allows removing a listener added with AddListener.
type ListenerHandle struct {
	node *Node
	id   uint32
}

// Remove unregisters the listener. Removing twice is a no-op.
func (h ListenerHandle) Remove() {
	if h.node == nil {
		return
	}
	s := h.node.listeners
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listenerEntry{}
			h.node.listeners = s[:len(s)-1]
			return
		}
	}
}

// AddListener registers l to receive events dispatched through this node.
// Listeners run in registration order.
func (n *Node) AddListener(l Listener) ListenerHandle {
	n.nextListenerID++
	n.listeners = append(n.listeners, listenerEntry{id: n.nextListenerID, l: l})
	return ListenerHandle{node: n, id: n.nextListenerID}
}

// ListenerCount returns the number of listeners registered on this node.
func (n *Node) ListenerCount() int {
	return len(n.listeners)
}

// --- ECS bridge ---

// EventStore is the interface for optional ECS integration. When set on an
// InputManager, events reaching a node with a non-zero EntityID are
// forwarded to it.
type EventStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64 // canvas position
	GlobalY   float64
	LocalX    float64 // position in the entity node's local frame
	LocalY    float64
	DeltaX    float64 // canvas movement since the previous pointer event
	DeltaY    float64
	WheelX    float64
	WheelY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// --- Input manager ---

type queuedInput struct {
	in     InputEvent
	typ    EventType
	camera *Camera
}

// InputManager turns classified host events into dispatched Events. It picks
// under the pointer, tracks hover, mouse focus (the press target, held until
// the last button is released) and keyboard focus, and synthesizes
// enter/exit events when the hovered node changes.
type InputManager struct {
	queue []queuedInput

	mouseOver          *PickPath
	previousMouseOver  *PickPath
	mouseFocus         *PickPath
	previousMouseFocus *PickPath
	keyboardFocus      Listener

	// pressed holds the buttons currently down; its size is the pressed
	// count.
	pressed map[MouseButton]bool

	last    Vec2
	hasLast bool

	// PickHalo grows the pick rectangle on each side of the pointer.
	PickHalo float64

	store EventStore
}

// NewInputManager creates an input manager with a one unit pick halo.
func NewInputManager() *InputManager {
	return &InputManager{PickHalo: 1}
}

// SetEventStore installs the ECS bridge. Pass nil to remove it.
func (m *InputManager) SetEventStore(s EventStore) {
	m.store = s
}

// MouseOver returns the current hover path, or nil.
func (m *InputManager) MouseOver() *PickPath { return m.mouseOver }

// MouseFocus returns the path of the node receiving drag events, or nil when
// no button is held.
func (m *InputManager) MouseFocus() *PickPath { return m.mouseFocus }

// KeyboardFocus returns the listener receiving key events, or nil.
func (m *InputManager) KeyboardFocus() Listener { return m.keyboardFocus }

// PressedCount returns the number of mouse buttons currently held.
func (m *InputManager) PressedCount() int { return len(m.pressed) }

// Pending returns the number of queued events not yet processed.
func (m *InputManager) Pending() int { return len(m.queue) }

// SetKeyboardFocus gives l the keyboard focus. The previous holder receives
// EventFocusLost and l receives EventFocusGained.
func (m *InputManager) SetKeyboardFocus(l Listener) {
	old := m.keyboardFocus
	if sameListener(old, l) {
		return
	}
	m.keyboardFocus = l
	if old != nil {
		old.HandleEvent(&Event{typ: EventFocusLost, path: m.mouseOver, manager: m})
	}
	if l != nil {
		l.HandleEvent(&Event{typ: EventFocusGained, path: m.mouseOver, manager: m})
	}
}

// sameListener compares listeners without panicking on func-typed ones,
// which never compare equal.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// ProcessEventFromCamera enqueues one classified event seen through camera
// and, when the camera is attached to a root that is not already mid-cycle,
// runs a process cycle to deliver it.
func (m *InputManager) ProcessEventFromCamera(in InputEvent, typ EventType, camera *Camera) error {
	m.enqueue(in, typ, camera)
	if camera == nil {
		return nil
	}
	if root := camera.Root(); root != nil && !root.processingInputs {
		return root.ProcessInputs()
	}
	return nil
}

func (m *InputManager) enqueue(in InputEvent, typ EventType, camera *Camera) {
	m.queue = append(m.queue, queuedInput{in: in, typ: typ, camera: camera})
}

// ProcessInput delivers at most one queued event. It implements InputSource.
func (m *InputManager) ProcessInput() {
	if len(m.queue) == 0 {
		return
	}
	q := m.queue[0]
	copy(m.queue, m.queue[1:])
	m.queue[len(m.queue)-1] = queuedInput{}
	m.queue = m.queue[:len(m.queue)-1]
	m.process(q)
}

func (m *InputManager) process(q queuedInput) {
	if q.typ.IsMouse() && q.camera != nil {
		var dx, dy float64
		if m.hasLast {
			dx, dy = q.in.X-m.last.X, q.in.Y-m.last.Y
		}
		m.last = Vec2{X: q.in.X, Y: q.in.Y}
		m.hasLast = true
		m.mouseOver = q.camera.Pick(q.in.X, q.in.Y, m.PickHalo)
		m.dispatchMouse(q, dx, dy)
		return
	}
	switch q.typ {
	case EventKeyPressed, EventKeyReleased, EventKeyTyped:
		if m.keyboardFocus != nil {
			e := &Event{Input: q.in, typ: q.typ, path: m.mouseOver, manager: m}
			m.keyboardFocus.HandleEvent(e)
		}
	case EventFocusGained, EventFocusLost:
		// Focus events are synthesized by SetKeyboardFocus only.
	default:
		// Mouse event without a camera: nothing to pick through.
	}
}

func (m *InputManager) dispatchMouse(q queuedInput, dx, dy float64) {
	in := q.in
	switch q.typ {
	case EventMouseMoved:
		m.checkForMouseEnteredAndExited(in)
		m.dispatch(m.mouseOver, EventMouseMoved, in, dx, dy)

	case EventMouseDragged:
		m.checkForMouseEnteredAndExited(in)
		m.dispatch(m.mouseFocus, EventMouseDragged, in, dx, dy)

	case EventMousePressed:
		m.checkForMouseEnteredAndExited(in)
		if m.buttonDown(in.Button) {
			Logger().Warn("duplicate button press, synthesizing release",
				slog.String("button", in.Button.String()))
			m.release(in, 0, 0)
		}
		m.press(in, dx, dy)

	case EventMouseReleased:
		if !m.buttonDown(in.Button) {
			Logger().Warn("release without press, synthesizing press",
				slog.String("button", in.Button.String()))
			m.press(in, 0, 0)
		}
		m.release(in, dx, dy)

	case EventMouseClicked:
		m.dispatch(m.previousMouseFocus, EventMouseClicked, in, dx, dy)

	case EventMouseWheel:
		m.setMouseFocus(m.mouseOver)
		m.dispatch(m.mouseOver, EventMouseWheel, in, dx, dy)
		if len(m.pressed) == 0 {
			m.setMouseFocus(nil)
		}

	case EventMouseEntered, EventMouseExited:
		// The host pointer entered or left the canvas.
		m.checkForMouseEnteredAndExited(in)
	}
}

func (m *InputManager) buttonDown(b MouseButton) bool {
	return m.pressed[b]
}

func (m *InputManager) press(in InputEvent, dx, dy float64) {
	if len(m.pressed) == 0 {
		m.setMouseFocus(m.mouseOver)
	}
	if m.pressed == nil {
		m.pressed = make(map[MouseButton]bool)
	}
	m.pressed[in.Button] = true
	m.dispatch(m.mouseFocus, EventMousePressed, in, dx, dy)
}

func (m *InputManager) release(in InputEvent, dx, dy float64) {
	delete(m.pressed, in.Button)
	m.checkForMouseEnteredAndExited(in)
	m.dispatch(m.mouseFocus, EventMouseReleased, in, dx, dy)
	if len(m.pressed) == 0 {
		m.setMouseFocus(nil)
	}
}

func (m *InputManager) setMouseFocus(p *PickPath) {
	m.previousMouseFocus = m.mouseFocus
	m.mouseFocus = p
}

// checkForMouseEnteredAndExited sends exit to the old hover target and enter
// to the new one, only when the picked node actually changed.
func (m *InputManager) checkForMouseEnteredAndExited(in InputEvent) {
	cur := m.mouseOver.PickedNode()
	prev := m.previousMouseOver.PickedNode()
	if cur != prev {
		m.dispatch(m.previousMouseOver, EventMouseExited, in, 0, 0)
		m.dispatch(m.mouseOver, EventMouseEntered, in, 0, 0)
	}
	m.previousMouseOver = m.mouseOver
}

// dispatch delivers an event along path, from the picked node up to the
// picking root, until a listener marks it handled.
func (m *InputManager) dispatch(path *PickPath, typ EventType, in InputEvent, dx, dy float64) {
	if path == nil || len(path.nodes) == 0 {
		return
	}
	e := &Event{Input: in, typ: typ, path: path, dx: dx, dy: dy, manager: m}
	m.emitInteraction(e)
	for i := len(path.nodes) - 1; i >= 0 && !e.handled; i-- {
		node := path.nodes[i]
		if len(node.listeners) == 0 {
			continue
		}
		e.current = node
		// Listeners may remove themselves while running.
		ls := append([]listenerEntry(nil), node.listeners...)
		for _, entry := range ls {
			entry.l.HandleEvent(e)
			if e.handled {
				break
			}
		}
	}
	e.current = nil
}

// emitInteraction forwards e to the event store for the nearest node on the
// path carrying an entity ID.
func (m *InputManager) emitInteraction(e *Event) {
	if m.store == nil {
		return
	}
	nodes := e.path.nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		if node.EntityID == 0 {
			continue
		}
		lx, ly, _ := e.path.CanvasToLocal(e.Input.X, e.Input.Y, node)
		m.store.EmitEvent(InteractionEvent{
			Type:      e.typ,
			EntityID:  node.EntityID,
			GlobalX:   e.Input.X,
			GlobalY:   e.Input.Y,
			LocalX:    lx,
			LocalY:    ly,
			DeltaX:    e.dx,
			DeltaY:    e.dy,
			WheelX:    e.Input.WheelX,
			WheelY:    e.Input.WheelY,
			Button:    e.Input.Button,
			Modifiers: e.Input.Modifiers,
		})
		return
	}
}
