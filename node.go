package zoomgraph

// Property identifies a node attribute in change notifications.
type Property uint8

const (
	PropertyBounds           Property = iota // local bounds changed
	PropertyFullBounds                       // cached full bounds changed after validation
	PropertyTransform                        // node transform changed
	PropertyVisible                          // visibility flag changed
	PropertyPaint                            // paint color changed
	PropertyTransparency                     // transparency changed
	PropertyPickable                         // pickable flag changed
	PropertyChildrenPickable                 // childrenPickable flag changed
	PropertyChildren                         // child list changed
	PropertyParent                           // parent changed
	PropertyViewTransform                    // camera view transform changed
	PropertyLayers                           // camera layer list changed
)

var propertyNames = [...]string{
	"bounds", "fullBounds", "transform", "visible", "paint", "transparency",
	"pickable", "childrenPickable", "children", "parent", "viewTransform", "layers",
}

func (p Property) String() string {
	if int(p) < len(propertyNames) {
		return propertyNames[p]
	}
	return "unknown"
}

// BoundsSource supplies bounds owned outside the node (for example a path
// model edited elsewhere). A node with a BoundsSource has volatile bounds:
// they are re-read on every validation pass.
type BoundsSource interface {
	Bounds() Rect
}

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; the scene graph is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. Cameras, layers and the root
// are Nodes too; they attach their extra behavior through ext.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Metadata
	UserData any
	EntityID uint32

	// Hierarchy
	parent   *Node
	children []*Node
	ext      any // *Camera, *Layer or *Root when this node is embedded in one

	// Geometry
	bounds       Rect
	transform    Affine
	fullBounds   Rect
	boundsSource BoundsSource

	// Appearance & interaction
	paint            *Color
	transparency     float64
	visible          bool
	pickable         bool
	childrenPickable bool

	// Invalidation state
	boundsChanged       bool
	fullBoundsInvalid   bool
	childBoundsInvalid  bool
	childBoundsVolatile bool
	validatedCycle      uint64 // root cycle of the last refreshing pass
	paintInvalid        bool
	childPaintInvalid   bool

	// Extension points (nil by default; default behavior applies).
	Painter  Painter
	Picker   Picker
	HitShape HitShape
	Layout   func(n *Node)

	// Notifications (nil by default; zero cost when unused).
	OnPropertyChange      func(n *Node, p Property)
	OnParentBoundsChanged func(n *Node)

	listeners      []listenerEntry
	nextListenerID uint32
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.transform = IdentityAffine
	n.transparency = 1
	n.visible = true
	n.pickable = true
	n.childrenPickable = true
	n.fullBoundsInvalid = true
	n.paintInvalid = true
}

// NewNode creates a detached node with empty bounds, identity transform,
// full opacity and no paint.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewRectNode creates a node with the given bounds filled with paint.
func NewRectNode(name string, bounds Rect, paint Color) *Node {
	n := NewNode(name)
	n.bounds = bounds
	n.paint = &paint
	return n
}

func (n *Node) firePropertyChange(p Property) {
	if n.OnPropertyChange != nil {
		n.OnPropertyChange(n, p)
	}
}

// --- Tree manipulation ---

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// AddChild appends child to this node's children, on top of its siblings.
// If child already has a parent, it is removed from that parent first.
// Returns ErrCycle (and leaves the tree untouched) if child is this node or
// one of its ancestors. Panics if child is nil.
func (n *Node) AddChild(child *Node) error {
	return n.AddChildAt(child, -1)
}

// AddChildAt inserts child at the given index; -1 appends.
// Same reparenting and cycle behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) error {
	if child == nil {
		panic("zoomgraph: cannot add nil child")
	}
	if child.IsAncestorOf(n) || child == n {
		return ErrCycle
	}
	if child.parent != nil {
		old := child.parent
		if old == n {
			if i := n.IndexOfChild(child); i >= 0 && index > i {
				index--
			}
		}
		old.RemoveChild(child)
	}
	if index < 0 || index > len(n.children) {
		if index != -1 {
			panic("zoomgraph: child index out of range")
		}
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n

	n.InvalidateFullBounds()
	child.InvalidateFullBounds()
	child.InvalidatePaint()
	child.firePropertyChange(PropertyParent)
	n.firePropertyChange(PropertyChildren)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	return nil
}

// RemoveChild detaches child from this node. Returns false, and does
// nothing, if child is not a child of this node.
func (n *Node) RemoveChild(child *Node) bool {
	i := n.IndexOfChild(child)
	if i < 0 {
		return false
	}
	n.RemoveChildAt(i)
	return true
}

// RemoveChildAt removes and returns the child at the given index.
// Panics if index is out of range.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("zoomgraph: child index out of range")
	}
	child := n.children[index]
	// Damage the area the child occupied before it disappears.
	child.Repaint()

	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil

	n.InvalidatePaint()
	n.InvalidateFullBounds()
	child.firePropertyChange(PropertyParent)
	n.firePropertyChange(PropertyChildren)
	return child
}

// RemoveFromParent detaches this node from its parent.
// Returns false if this node has no parent.
func (n *Node) RemoveFromParent() bool {
	if n.parent == nil {
		return false
	}
	return n.parent.RemoveChild(n)
}

// RemoveAllChildren detaches every child of this node.
func (n *Node) RemoveAllChildren() {
	for len(n.children) > 0 {
		n.RemoveChildAt(len(n.children) - 1)
	}
}

// Children returns the child list in paint order (back to front).
// The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// IndexOfChild returns the index of child, or -1 if it is not a child of n.
func (n *Node) IndexOfChild(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// IsAncestorOf reports whether n is a strict ancestor of node.
func (n *Node) IsAncestorOf(node *Node) bool {
	if node == nil {
		return false
	}
	for p := node.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// IsDescendantOf reports whether n is a strict descendant of node.
func (n *Node) IsDescendantOf(node *Node) bool {
	return node != nil && node.IsAncestorOf(n)
}

// Root returns the Root this node is attached beneath (or is), or nil.
func (n *Node) Root() *Root {
	top := n
	for top.parent != nil {
		top = top.parent
	}
	r, _ := top.ext.(*Root)
	return r
}

// AsCamera returns the Camera embedding this node, if any.
func (n *Node) AsCamera() (*Camera, bool) {
	c, ok := n.ext.(*Camera)
	return c, ok
}

// AsLayer returns the Layer embedding this node, if any.
func (n *Node) AsLayer() (*Layer, bool) {
	l, ok := n.ext.(*Layer)
	return l, ok
}

// --- Z-order ---

// MoveToFront makes this node the last-painted (topmost) of its siblings.
func (n *Node) MoveToFront() {
	if p := n.parent; p != nil {
		n.moveTo(len(p.children) - 1)
	}
}

// MoveToBack makes this node the first-painted (bottommost) of its siblings.
func (n *Node) MoveToBack() {
	if n.parent != nil {
		n.moveTo(0)
	}
}

// MoveInFrontOf places this node directly above sibling. No-op if sibling
// does not share this node's parent.
func (n *Node) MoveInFrontOf(sibling *Node) {
	p := n.parent
	if p == nil || sibling == n || sibling.parent != p {
		return
	}
	idx := p.IndexOfChild(sibling)
	if p.IndexOfChild(n) < idx {
		n.moveTo(idx)
	} else {
		n.moveTo(idx + 1)
	}
}

// MoveInBackOf places this node directly below sibling. No-op if sibling
// does not share this node's parent.
func (n *Node) MoveInBackOf(sibling *Node) {
	p := n.parent
	if p == nil || sibling == n || sibling.parent != p {
		return
	}
	idx := p.IndexOfChild(sibling)
	if p.IndexOfChild(n) < idx {
		n.moveTo(idx - 1)
	} else {
		n.moveTo(idx)
	}
}

// moveTo shifts n to index among its siblings without detaching it.
func (n *Node) moveTo(index int) {
	p := n.parent
	old := p.IndexOfChild(n)
	if old == index {
		return
	}
	if old < index {
		copy(p.children[old:], p.children[old+1:index+1])
	} else {
		copy(p.children[index+1:], p.children[index:old])
	}
	p.children[index] = n
	n.InvalidatePaint()
	p.firePropertyChange(PropertyChildren)
}

// --- Appearance & interaction flags ---

// Visible reports whether the node and its subtree are painted and picked.
func (n *Node) Visible() bool {
	return n.visible
}

// SetVisible shows or hides the node and its subtree.
func (n *Node) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	if !v {
		n.Repaint()
	}
	n.visible = v
	n.InvalidatePaint()
	n.firePropertyChange(PropertyVisible)
}

// Pickable reports whether the node itself can be the target of a pick.
func (n *Node) Pickable() bool {
	return n.pickable
}

// SetPickable controls whether the node itself can be picked. Children are
// unaffected; see SetChildrenPickable.
func (n *Node) SetPickable(p bool) {
	if n.pickable == p {
		return
	}
	n.pickable = p
	n.firePropertyChange(PropertyPickable)
}

// ChildrenPickable reports whether picking descends into the children.
func (n *Node) ChildrenPickable() bool {
	return n.childrenPickable
}

// SetChildrenPickable controls whether picking descends into the children.
func (n *Node) SetChildrenPickable(p bool) {
	if n.childrenPickable == p {
		return
	}
	n.childrenPickable = p
	n.firePropertyChange(PropertyChildrenPickable)
}

// Paint returns the node's fill color and whether one is set.
func (n *Node) Paint() (Color, bool) {
	if n.paint == nil {
		return Color{}, false
	}
	return *n.paint, true
}

// SetPaint sets the node's fill color.
func (n *Node) SetPaint(c Color) {
	if n.paint != nil && *n.paint == c {
		return
	}
	n.paint = &c
	n.InvalidatePaint()
	n.firePropertyChange(PropertyPaint)
}

// ClearPaint removes the node's fill color.
func (n *Node) ClearPaint() {
	if n.paint == nil {
		return
	}
	n.paint = nil
	n.InvalidatePaint()
	n.firePropertyChange(PropertyPaint)
}

// Transparency returns the node's opacity in [0, 1].
func (n *Node) Transparency() float64 {
	return n.transparency
}

// SetTransparency sets the node's opacity, clamped to [0, 1]. Changes no
// larger than TransparencyResolution are ignored.
func (n *Node) SetTransparency(a float64) {
	a = clamp01(a)
	d := a - n.transparency
	if d < 0 {
		d = -d
	}
	if d <= TransparencyResolution && a != 0 && a != 1 {
		return
	}
	if a == n.transparency {
		return
	}
	n.transparency = a
	n.InvalidatePaint()
	n.firePropertyChange(PropertyTransparency)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
