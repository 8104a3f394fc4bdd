package zoomgraph

// --- Transform accessors ---

// Transform returns the node's local-to-parent transform.
func (n *Node) Transform() Affine {
	return n.transform
}

// SetTransform replaces the node's local-to-parent transform.
func (n *Node) SetTransform(m Affine) {
	if n.transform == m {
		return
	}
	n.transform = m
	n.transformChanged()
}

// ResetTransform restores the identity transform.
func (n *Node) ResetTransform() {
	n.SetTransform(IdentityAffine)
}

// transformChanged runs the invalidation shared by every transform mutation.
// The parent frame of the node moved, which is the same for the children as
// a change of this node's bounds.
func (n *Node) transformChanged() {
	n.InvalidatePaint()
	n.InvalidateFullBounds()
	n.firePropertyChange(PropertyTransform)
	for _, child := range n.children {
		child.parentBoundsChanged()
	}
}

// Offset returns the raw translation of the node's transform.
func (n *Node) Offset() (x, y float64) {
	return n.transform.Offset()
}

// X returns the raw x translation of the node's transform.
func (n *Node) X() float64 { return n.transform[4] }

// Y returns the raw y translation of the node's transform.
func (n *Node) Y() float64 { return n.transform[5] }

// SetOffset sets the raw translation of the node's transform, regardless of
// its scale and rotation.
func (n *Node) SetOffset(x, y float64) {
	n.SetTransform(n.transform.WithOffset(x, y))
}

// Translate moves the node by (dx, dy) in its own local frame, so the
// displacement seen by the parent is scaled and rotated by the transform.
func (n *Node) Translate(dx, dy float64) {
	n.SetTransform(n.transform.Translate(dx, dy))
}

// Scale returns the uniform scale factor of the node's transform.
func (n *Node) Scale() float64 {
	return n.transform.Scale()
}

// SetScale sets the node's scale about its local origin, leaving rotation
// and offset unchanged. Returns ErrNonPositiveScale for s <= 0.
func (n *Node) SetScale(s float64) error {
	m, err := n.transform.WithScale(s)
	if err != nil {
		return err
	}
	n.SetTransform(m)
	return nil
}

// ScaleBy multiplies the node's scale by s about its local origin.
func (n *Node) ScaleBy(s float64) error {
	if s <= 0 {
		return ErrNonPositiveScale
	}
	n.SetTransform(n.transform.Multiply(ScaleAffine(s)))
	return nil
}

// ScaleAboutPoint multiplies the node's scale by s about the local point
// (x, y), which keeps its position in the parent frame.
func (n *Node) ScaleAboutPoint(s, x, y float64) error {
	if s <= 0 {
		return ErrNonPositiveScale
	}
	n.SetTransform(n.transform.ScaleAbout(s, x, y))
	return nil
}

// Rotation returns the rotation of the node's transform in radians.
func (n *Node) Rotation() float64 {
	return n.transform.Rotation()
}

// SetRotation sets the node's rotation about its local origin, leaving scale
// and offset unchanged.
func (n *Node) SetRotation(theta float64) {
	n.SetTransform(n.transform.WithRotation(theta))
}

// Rotate adds theta to the node's rotation about its local origin.
func (n *Node) Rotate(theta float64) {
	n.SetTransform(n.transform.Multiply(RotateAffine(theta)))
}

// RotateAboutPoint adds theta to the node's rotation about the local point
// (x, y).
func (n *Node) RotateAboutPoint(theta, x, y float64) {
	n.SetTransform(n.transform.RotateAbout(theta, x, y))
}

// --- Coordinate conversion ---

// LocalToParent converts a point from this node's local frame to its parent's.
func (n *Node) LocalToParent(x, y float64) (px, py float64) {
	return n.transform.Apply(x, y)
}

// ParentToLocal converts a point from the parent's frame to this node's
// local frame.
func (n *Node) ParentToLocal(x, y float64) (lx, ly float64, err error) {
	return n.transform.InverseApply(x, y)
}

// LocalToParentRect converts a local rectangle to the parent frame (as an
// axis-aligned bounding box).
func (n *Node) LocalToParentRect(r Rect) Rect {
	return n.transform.ApplyRect(r)
}

// ParentToLocalRect converts a parent-frame rectangle to the local frame.
func (n *Node) ParentToLocalRect(r Rect) (Rect, error) {
	return n.transform.InverseApplyRect(r)
}

// LocalToGlobalTransform returns the composite transform from this node's
// local frame to the global frame above the topmost ancestor.
func (n *Node) LocalToGlobalTransform() Affine {
	m := n.transform
	for p := n.parent; p != nil; p = p.parent {
		m = p.transform.Multiply(m)
	}
	return m
}

// GlobalToLocalTransform returns the inverse of LocalToGlobalTransform.
func (n *Node) GlobalToLocalTransform() (Affine, error) {
	return n.LocalToGlobalTransform().Invert()
}

// LocalToGlobal converts a local point to global coordinates by applying each
// ancestor's transform in turn.
func (n *Node) LocalToGlobal(x, y float64) (gx, gy float64) {
	for p := n; p != nil; p = p.parent {
		x, y = p.transform.Apply(x, y)
	}
	return x, y
}

// GlobalToLocal converts a global point to this node's local frame. A
// *NoninvertibleError is returned if any transform on the ancestor chain is
// singular.
func (n *Node) GlobalToLocal(x, y float64) (lx, ly float64, err error) {
	inv, err := n.GlobalToLocalTransform()
	if err != nil {
		return 0, 0, err
	}
	lx, ly = inv.Apply(x, y)
	return lx, ly, nil
}

// LocalToGlobalRect converts a local rectangle to global coordinates.
func (n *Node) LocalToGlobalRect(r Rect) Rect {
	return n.LocalToGlobalTransform().ApplyRect(r)
}

// GlobalToLocalRect converts a global rectangle to this node's local frame.
func (n *Node) GlobalToLocalRect(r Rect) (Rect, error) {
	inv, err := n.GlobalToLocalTransform()
	if err != nil {
		return Rect{}, err
	}
	return inv.ApplyRect(r), nil
}

// GlobalBounds returns the node's own bounds in global coordinates.
func (n *Node) GlobalBounds() Rect {
	return n.LocalToGlobalRect(n.bounds)
}

// GlobalFullBounds returns the node's full bounds in global coordinates.
func (n *Node) GlobalFullBounds() Rect {
	fb := n.FullBounds()
	if n.parent == nil {
		return fb
	}
	return n.parent.LocalToGlobalRect(fb)
}

// PositionRelativeTo returns the offset of this node's local origin expressed
// in other's local frame.
func (n *Node) PositionRelativeTo(other *Node) (x, y float64, err error) {
	gx, gy := n.LocalToGlobal(0, 0)
	return other.GlobalToLocal(gx, gy)
}
