package zoomgraph

import "math"

// PanHandler pans a camera's view while the pointer is dragged with Button
// held. Install it on the camera node; drags handled further down the path
// (for example by a DragHandler) do not reach it.
type PanHandler struct {
	Camera *Camera
	Button MouseButton
}

// NewPanHandler creates a left-button pan handler for c.
func NewPanHandler(c *Camera) *PanHandler {
	return &PanHandler{Camera: c, Button: MouseButtonLeft}
}

// HandleEvent implements Listener.
func (h *PanHandler) HandleEvent(e *Event) {
	if e.Type() != EventMouseDragged || e.Button() != h.Button || e.Path() == nil {
		return
	}
	dx, dy, err := e.DeltaRelativeTo(&h.Camera.Node)
	if err != nil {
		return
	}
	h.Camera.TranslateView(dx, dy)
	e.SetHandled()
}

// ZoomHandler zooms a camera's view about the pointer, with the wheel and by
// dragging horizontally with Button held.
type ZoomHandler struct {
	Camera *Camera
	Button MouseButton

	// WheelStep is the scale factor applied per wheel notch.
	WheelStep float64
	// DragFactor converts horizontal drag distance to scale change.
	DragFactor float64
	// MinScale and MaxScale bound the view scale; zero disables a bound.
	MinScale float64
	MaxScale float64

	anchor   Vec2 // view point held fixed during a drag zoom
	dragging bool
}

// NewZoomHandler creates a right-button zoom handler for c.
func NewZoomHandler(c *Camera) *ZoomHandler {
	return &ZoomHandler{
		Camera:     c,
		Button:     MouseButtonRight,
		WheelStep:  1.1,
		DragFactor: 0.005,
	}
}

// HandleEvent implements Listener.
func (h *ZoomHandler) HandleEvent(e *Event) {
	switch e.Type() {
	case EventMouseWheel:
		if e.Input.WheelY == 0 {
			return
		}
		if p, ok := h.viewPoint(e); ok {
			h.zoom(math.Pow(h.WheelStep, e.Input.WheelY), p)
			e.SetHandled()
		}
	case EventMousePressed:
		if e.Button() != h.Button {
			return
		}
		if p, ok := h.viewPoint(e); ok {
			h.anchor = p
			h.dragging = true
			e.SetHandled()
		}
	case EventMouseDragged:
		if !h.dragging || e.Button() != h.Button {
			return
		}
		h.zoom(1+e.Delta().X*h.DragFactor, h.anchor)
		e.SetHandled()
	case EventMouseReleased:
		if e.Button() == h.Button {
			h.dragging = false
		}
	}
}

func (h *ZoomHandler) viewPoint(e *Event) (Vec2, bool) {
	lx, ly, err := e.PositionRelativeTo(&h.Camera.Node)
	if err != nil {
		return Vec2{}, false
	}
	vx, vy, err := h.Camera.LocalToView(lx, ly)
	if err != nil {
		return Vec2{}, false
	}
	return Vec2{X: vx, Y: vy}, true
}

func (h *ZoomHandler) zoom(s float64, about Vec2) {
	if s <= 0 {
		return
	}
	cur := h.Camera.ViewScale()
	next := cur * s
	if h.MinScale > 0 && next < h.MinScale {
		next = h.MinScale
	}
	if h.MaxScale > 0 && next > h.MaxScale {
		next = h.MaxScale
	}
	if cur == 0 || next == cur {
		return
	}
	_ = h.Camera.ScaleViewAboutPoint(next/cur, about.X, about.Y)
}

// DragHandler moves the node under the pointer while it is dragged with
// Button held. Install it on the node to drag, or on a common ancestor to
// drag any of its descendants. Cameras and layers are never moved.
type DragHandler struct {
	Button MouseButton
	// MoveToFront raises the dragged node above its siblings on press.
	MoveToFront bool

	// OnDrag, if set, runs after each move.
	OnDrag func(n *Node, e *Event)

	target *Node
}

// NewDragHandler creates a left-button drag handler.
func NewDragHandler() *DragHandler {
	return &DragHandler{Button: MouseButtonLeft}
}

// Target returns the node being dragged, or nil.
func (h *DragHandler) Target() *Node {
	return h.target
}

// HandleEvent implements Listener.
func (h *DragHandler) HandleEvent(e *Event) {
	switch e.Type() {
	case EventMousePressed:
		if e.Button() != h.Button {
			return
		}
		n := e.PickedNode()
		if n == nil || n.ext != nil || n.parent == nil {
			return
		}
		h.target = n
		if h.MoveToFront {
			n.MoveToFront()
		}
		e.SetHandled()
	case EventMouseDragged:
		n := h.target
		if n == nil || e.Button() != h.Button {
			return
		}
		dx, dy, err := e.DeltaRelativeTo(n.parent)
		if err != nil {
			return
		}
		x, y := n.Offset()
		n.SetOffset(x+dx, y+dy)
		if h.OnDrag != nil {
			h.OnDrag(n, e)
		}
		e.SetHandled()
	case EventMouseReleased:
		if e.Button() == h.Button && h.target != nil {
			h.target = nil
			e.SetHandled()
		}
	}
}
