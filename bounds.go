package zoomgraph

// --- Local bounds ---

// Bounds returns the node's own bounds in its local frame. Descendants are
// not included; see FullBounds.
func (n *Node) Bounds() Rect {
	return n.bounds
}

// SetBounds replaces the node's local bounds. Returns whether anything changed.
func (n *Node) SetBounds(r Rect) bool {
	if n.bounds == r {
		return false
	}
	n.bounds = r
	n.InvalidatePaint()
	n.signalBoundsChanged()
	return true
}

// ResetBounds empties the node's local bounds.
func (n *Node) ResetBounds() bool {
	return n.SetBounds(Rect{})
}

// SetWidth changes the width of the local bounds, keeping the origin.
func (n *Node) SetWidth(w float64) bool {
	r := n.bounds
	r.Width = w
	return n.SetBounds(r)
}

// SetHeight changes the height of the local bounds, keeping the origin.
func (n *Node) SetHeight(h float64) bool {
	r := n.bounds
	r.Height = h
	return n.SetBounds(r)
}

// CenterBoundsOnPoint moves the local bounds so their center is (x, y).
func (n *Node) CenterBoundsOnPoint(x, y float64) bool {
	c := n.bounds.Center()
	return n.SetBounds(n.bounds.Translate(x-c.X, y-c.Y))
}

// SetBoundsSource makes the node's bounds volatile: they are read from src on
// every validation pass. Pass nil to return to plain cached bounds.
func (n *Node) SetBoundsSource(src BoundsSource) {
	n.boundsSource = src
	n.InvalidateFullBounds()
}

// BoundsVolatile reports whether the node's bounds are recomputed on every
// validation pass.
func (n *Node) BoundsVolatile() bool {
	return n.boundsSource != nil
}

// Intersects reports whether the local rectangle r overlaps the node's own
// bounds.
func (n *Node) Intersects(r Rect) bool {
	return n.bounds.Intersects(r)
}

// FullIntersects reports whether the parent-frame rectangle r overlaps the
// node's full bounds.
func (n *Node) FullIntersects(r Rect) bool {
	return n.FullBounds().Intersects(r)
}

// FullBounds returns the union of the node's own bounds and every
// descendant's full bounds, expressed in the parent's frame. Invalid caches
// are revalidated first; volatile sources are only re-read by
// ValidateFullBounds.
func (n *Node) FullBounds() Rect {
	n.validateFullBounds(false, 0)
	return n.fullBounds
}

// UnionOfChildrenBounds returns the union of the children's full bounds in
// this node's local frame.
func (n *Node) UnionOfChildrenBounds() Rect {
	var r Rect
	for _, child := range n.children {
		r = r.Union(child.FullBounds())
	}
	return r
}

// computeFullBounds returns (children ∪ own bounds) mapped into the parent frame.
func (n *Node) computeFullBounds() Rect {
	local := n.UnionOfChildrenBounds().Union(n.bounds)
	return n.transform.ApplyRect(local)
}

// --- Bounds invalidation ---

// signalBoundsChanged records a local bounds change and tells the children,
// whose layout may depend on this node's bounds.
func (n *Node) signalBoundsChanged() {
	n.InvalidateFullBounds()
	n.boundsChanged = true
	n.firePropertyChange(PropertyBounds)
	for _, child := range n.children {
		child.parentBoundsChanged()
	}
}

// parentBoundsChanged is the hook run on each child when its parent's bounds
// or transform change.
func (n *Node) parentBoundsChanged() {
	if n.OnParentBoundsChanged != nil {
		n.OnParentBoundsChanged(n)
	}
}

// InvalidateFullBounds marks the full bounds cache stale and records on each
// ancestor that a descendant needs validation. The upward walk stops at the
// first ancestor that already carries the mark.
func (n *Node) InvalidateFullBounds() {
	n.fullBoundsInvalid = true
	for p := n.parent; p != nil && !p.childBoundsInvalid; p = p.parent {
		p.childBoundsInvalid = true
	}
	if o := currentObserver(); o != nil {
		o.FullBoundsInvalidated(n)
	}
}

// FullBoundsInvalid reports whether the full bounds cache is stale.
func (n *Node) FullBoundsInvalid() bool { return n.fullBoundsInvalid }

// ChildBoundsInvalid reports whether some descendant's full bounds are stale.
func (n *Node) ChildBoundsInvalid() bool { return n.childBoundsInvalid }

// ValidateFullBounds brings the full bounds cache of this subtree up to date
// and re-reads volatile bounds sources. Within one process cycle of the
// owning root, each volatile node is refreshed at most once; detached trees
// are refreshed on every call. It returns whether the subtree contains a node
// with volatile bounds, in which case another pass is needed next cycle.
func (n *Node) ValidateFullBounds() bool {
	var cycle uint64
	if r := n.Root(); r != nil {
		cycle = r.cycle
	}
	return n.validateFullBounds(true, cycle)
}

// validateFullBounds is ValidateFullBounds; refresh is false for the lazy
// validation done by FullBounds. A zero cycle is never treated as seen.
func (n *Node) validateFullBounds(refresh bool, cycle uint64) bool {
	volatile := n.boundsSource != nil
	pending := volatile || n.childBoundsVolatile
	if !(n.fullBoundsInvalid || n.childBoundsInvalid) {
		if !refresh || !pending {
			return pending
		}
		if cycle != 0 && n.validatedCycle == cycle {
			return true
		}
	}
	seen := cycle != 0 && n.validatedCycle == cycle
	if refresh {
		n.validatedCycle = cycle
	}

	// Volatile bounds are re-read from their source once per cycle, unless
	// a change was already signaled.
	if refresh && volatile && !seen && !n.boundsChanged {
		n.refreshVolatileBounds()
	}

	if n.childBoundsInvalid || (refresh && n.childBoundsVolatile) {
		n.childBoundsVolatile = false
		for _, child := range n.children {
			if child.validateFullBounds(refresh, cycle) {
				n.childBoundsVolatile = true
			}
		}
	}

	if n.Layout != nil {
		n.Layout(n)
	}

	if n.fullBoundsInvalid {
		old := n.fullBounds
		// Clear first so that children queried below do not bounce back into
		// this node while the cache is being rebuilt.
		n.fullBoundsInvalid = false
		n.fullBounds = n.computeFullBounds()
		if n.fullBounds != old {
			if n.parent != nil {
				n.parent.InvalidateFullBounds()
			}
			n.firePropertyChange(PropertyFullBounds)
			// Vacated screen area is damaged here; the new area is handled
			// by the paint pass.
			if n.paintInvalid && !old.Empty() {
				n.repaintFrom(old, n)
			}
		}
	}

	if refresh {
		n.boundsChanged = false
	}
	n.fullBoundsInvalid = false
	n.childBoundsInvalid = false
	return volatile || n.childBoundsVolatile
}

// refreshVolatileBounds pulls the current bounds from the node's source and
// signals a change even if the value is unchanged, so dependents recompute.
func (n *Node) refreshVolatileBounds() {
	r := n.boundsSource.Bounds()
	if r != n.bounds {
		n.bounds = r
		n.InvalidatePaint()
	}
	n.signalBoundsChanged()
}

// --- Paint invalidation ---

// InvalidatePaint marks the node as needing repaint and records on each
// ancestor that a descendant needs repaint, stopping at the first ancestor
// that already carries the mark.
func (n *Node) InvalidatePaint() {
	n.paintInvalid = true
	for p := n.parent; p != nil && !p.childPaintInvalid; p = p.parent {
		p.childPaintInvalid = true
	}
	if o := currentObserver(); o != nil {
		o.PaintInvalidated(n)
	}
}

// PaintInvalid reports whether the node needs repaint.
func (n *Node) PaintInvalid() bool { return n.paintInvalid }

// ChildPaintInvalid reports whether some descendant needs repaint.
func (n *Node) ChildPaintInvalid() bool { return n.childPaintInvalid }

// ValidateFullPaint issues repaint requests for every paint-invalid node in
// the subtree, descending only where a descendant is marked.
func (n *Node) ValidateFullPaint() {
	if n.paintInvalid {
		n.Repaint()
		n.paintInvalid = false
	}
	if n.childPaintInvalid {
		for _, child := range n.children {
			child.ValidateFullPaint()
		}
		n.childPaintInvalid = false
	}
}

// Repaint requests a repaint of the node's current full bounds.
func (n *Node) Repaint() {
	n.repaintFrom(n.FullBounds(), n)
}

// repaintRouter is implemented by node kinds that reroute damage (layers fan
// out to cameras, cameras forward to their repaint sink).
type repaintRouter interface {
	routeRepaint(bounds Rect, source *Node)
}

// repaintFrom propagates a damaged rectangle towards the root. bounds is in
// this node's parent frame when source == n, and in this node's local frame
// when source is one of its children.
func (n *Node) repaintFrom(bounds Rect, source *Node) {
	if r, ok := n.ext.(repaintRouter); ok {
		r.routeRepaint(bounds, source)
		return
	}
	n.forwardRepaint(bounds, source)
}

// forwardRepaint is the default damage propagation.
func (n *Node) forwardRepaint(bounds Rect, source *Node) {
	if n.parent == nil {
		return
	}
	if source != n {
		bounds = n.LocalToParentRect(bounds)
	} else if !n.visible {
		return
	}
	n.parent.repaintFrom(bounds, n)
}
