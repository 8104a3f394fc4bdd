package zoomgraph

// --- Hit shapes ---

// HitShape is a precise hit region in a node's local frame. When set, it
// replaces the node's bounds as the target of its own hit test.
type HitShape interface {
	Intersects(r Rect) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Intersects reports whether r overlaps the rectangle.
func (h HitRect) Intersects(r Rect) bool {
	return Rect(h).Intersects(r)
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Intersects reports whether r overlaps the circle.
func (c HitCircle) Intersects(r Rect) bool {
	// Closest point of r to the center.
	px := clampTo(c.CenterX, r.X, r.MaxX())
	py := clampTo(c.CenterY, r.Y, r.MaxY())
	dx := px - c.CenterX
	dy := py - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order. The pick
// rectangle is reduced to its center point for the test.
type HitPolygon struct {
	Points []Vec2
}

// Intersects reports whether the center of r lies inside the polygon, using a
// cross-product sign test.
func (p HitPolygon) Intersects(r Rect) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	c := r.Center()
	x, y := c.X, c.Y

	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- Picking hooks ---

// Picker intercepts picking on a node. PickBeforeChildren runs before the
// children are tested and can claim the hit unconditionally;
// PickAfterChildren runs only when no child was hit and acts as a fallback.
// Either returning true ends the traversal with this node on top of the path.
type Picker interface {
	PickBeforeChildren(n *Node, path *PickPath) bool
	PickAfterChildren(n *Node, path *PickPath) bool
}

// contentPicker is implemented by node kinds with their own fallback
// pick (cameras pick through their layers).
type contentPicker interface {
	pickContent(path *PickPath) bool
}

// FullPick tests the node and its subtree against the path's pick bounds,
// which are in this node's parent frame. On a hit it returns true and leaves
// the chain of entered nodes on the path; on a miss the path is unchanged.
//
// Children are tested in reverse order so the topmost painted node wins.
func (n *Node) FullPick(path *PickPath) bool {
	if !n.visible || !(n.pickable || n.childrenPickable) || !n.FullIntersects(path.PickBounds()) {
		return false
	}
	path.PushNode(n)
	path.pushNodeTransform(n)

	thisPickable := n.pickable && path.acceptsNode(n)
	if thisPickable && n.pickBeforeChildren(path) {
		return true
	}
	if n.childrenPickable {
		for i := len(n.children) - 1; i >= 0; i-- {
			if n.children[i].FullPick(path) {
				return true
			}
		}
	}
	if thisPickable && n.pickAfterChildren(path) {
		return true
	}

	path.PopTransform()
	path.PopNode()
	return false
}

func (n *Node) pickBeforeChildren(path *PickPath) bool {
	if n.Picker != nil {
		return n.Picker.PickBeforeChildren(n, path)
	}
	return false
}

func (n *Node) pickAfterChildren(path *PickPath) bool {
	if n.Picker != nil {
		return n.Picker.PickAfterChildren(n, path)
	}
	if p, ok := n.ext.(contentPicker); ok {
		return p.pickContent(path)
	}
	return n.hitTest(path.PickBounds())
}

// hitTest is the node's own precise test against local pick bounds.
func (n *Node) hitTest(local Rect) bool {
	if n.HitShape != nil {
		return n.HitShape.Intersects(local)
	}
	return n.Intersects(local)
}

// --- Pick path ---

// pathEntry is one transform entered during a pick. Entries remember where
// their matrix came from so coordinate conversions after the pick see the
// current transforms of the nodes and cameras on the path.
type pathEntry struct {
	static Affine
	node   *Node
	view   *Camera
}

func (e pathEntry) matrix() Affine {
	switch {
	case e.node != nil:
		return e.node.transform
	case e.view != nil:
		return e.view.viewTransform
	}
	return e.static
}

// PickPath accumulates the (node, transform) chain entered during a single
// pick traversal, along with the pick bounds expressed in the frame of the
// node on top of the stack.
type PickPath struct {
	topCamera  *Camera
	nodes      []*Node
	frames     []int // index into entries of each node's own transform
	entries    []pathEntry
	pickBounds []Rect
	excluded   map[*Node]struct{}
}

// NewPickPath creates an empty path whose pick bounds are given in the frame
// of the picking root's parent (the canvas).
func NewPickPath(topCamera *Camera, pickBounds Rect) *PickPath {
	return &PickPath{
		topCamera:  topCamera,
		entries:    []pathEntry{{static: IdentityAffine}},
		pickBounds: []Rect{pickBounds},
	}
}

// Exclude prevents node from being accepted as a pick target. Its children
// are still tested.
func (p *PickPath) Exclude(node *Node) {
	if p.excluded == nil {
		p.excluded = make(map[*Node]struct{})
	}
	p.excluded[node] = struct{}{}
}

func (p *PickPath) acceptsNode(n *Node) bool {
	_, skip := p.excluded[n]
	return !skip
}

// PickBounds returns the pick rectangle in the frame of the node currently on
// top of the stack.
func (p *PickPath) PickBounds() Rect {
	return p.pickBounds[len(p.pickBounds)-1]
}

// PushNode pushes node onto the stack.
func (p *PickPath) PushNode(n *Node) {
	p.nodes = append(p.nodes, n)
	p.frames = append(p.frames, len(p.entries))
}

// PopNode removes the top node.
func (p *PickPath) PopNode() {
	if len(p.nodes) > 0 {
		p.nodes[len(p.nodes)-1] = nil
		p.nodes = p.nodes[:len(p.nodes)-1]
		p.frames = p.frames[:len(p.frames)-1]
	}
}

// PushTransform enters the frame described by m (local-to-parent). The pick
// bounds are mapped into the new frame.
func (p *PickPath) PushTransform(m Affine) {
	p.push(pathEntry{static: m}, m)
}

func (p *PickPath) pushNodeTransform(n *Node) {
	p.push(pathEntry{node: n}, n.transform)
}

func (p *PickPath) pushViewTransform(c *Camera) {
	p.push(pathEntry{view: c}, c.viewTransform)
}

// push records e. A singular m collapses the pick bounds to empty, so nothing
// below it can be hit.
func (p *PickPath) push(e pathEntry, m Affine) {
	var bounds Rect
	if inv, err := m.Invert(); err == nil {
		bounds = inv.ApplyRect(p.PickBounds())
	}
	p.entries = append(p.entries, e)
	p.pickBounds = append(p.pickBounds, bounds)
}

// PopTransform leaves the most recently entered frame.
func (p *PickPath) PopTransform() {
	if len(p.pickBounds) > 1 {
		p.pickBounds = p.pickBounds[:len(p.pickBounds)-1]
		p.entries[len(p.entries)-1] = pathEntry{}
		p.entries = p.entries[:len(p.entries)-1]
	}
}

// Nodes returns the node stack from the picking root down to the picked node.
// The returned slice MUST NOT be mutated by the caller.
func (p *PickPath) Nodes() []*Node {
	return p.nodes
}

// PickedNode returns the node on top of the stack, or nil when empty.
func (p *PickPath) PickedNode() *Node {
	if p == nil || len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

// Contains reports whether node is on the path.
func (p *PickPath) Contains(node *Node) bool {
	return p.indexOf(node) >= 0
}

func (p *PickPath) indexOf(node *Node) int {
	if p == nil {
		return -1
	}
	for i := len(p.nodes) - 1; i >= 0; i-- {
		if p.nodes[i] == node {
			return i
		}
	}
	return -1
}

// TopCamera returns the camera the pick started from.
func (p *PickPath) TopCamera() *Camera {
	return p.topCamera
}

// BottomCamera returns the camera closest to the picked node, or nil.
func (p *PickPath) BottomCamera() *Camera {
	for i := len(p.nodes) - 1; i >= 0; i-- {
		if c, ok := p.nodes[i].AsCamera(); ok {
			return c
		}
	}
	return nil
}

// NextPickedNode discards the current picked node so the caller can walk
// further up the stack. Returns the new top, or nil.
func (p *PickPath) NextPickedNode() *Node {
	if len(p.nodes) == 0 {
		return nil
	}
	p.PopNode()
	return p.PickedNode()
}

// PathTransformTo returns the transform from node's local frame to the
// canvas, composed from the current transforms of the nodes and cameras the
// pick passed through. node must be on the path.
func (p *PickPath) PathTransformTo(node *Node) (Affine, error) {
	i := p.indexOf(node)
	if i < 0 {
		return Affine{}, ErrNotAttached
	}
	last := p.frames[i]
	if last >= len(p.entries) {
		last = len(p.entries) - 1
	}
	m := IdentityAffine
	for _, e := range p.entries[1 : last+1] {
		m = m.Multiply(e.matrix())
	}
	return m, nil
}

// CanvasToLocal converts a canvas point to node's local frame along the path.
func (p *PickPath) CanvasToLocal(x, y float64, node *Node) (float64, float64, error) {
	m, err := p.PathTransformTo(node)
	if err != nil {
		return 0, 0, err
	}
	return m.InverseApply(x, y)
}

// CanvasToLocalDelta converts a canvas-space vector to node's local frame.
func (p *PickPath) CanvasToLocalDelta(dx, dy float64, node *Node) (float64, float64, error) {
	m, err := p.PathTransformTo(node)
	if err != nil {
		return 0, 0, err
	}
	inv, err := m.Invert()
	if err != nil {
		return 0, 0, err
	}
	lx, ly := inv.ApplyDelta(dx, dy)
	return lx, ly, nil
}

// LocalToCanvas converts a point in node's local frame to the canvas.
func (p *PickPath) LocalToCanvas(x, y float64, node *Node) (float64, float64, error) {
	m, err := p.PathTransformTo(node)
	if err != nil {
		return 0, 0, err
	}
	cx, cy := m.Apply(x, y)
	return cx, cy, nil
}
