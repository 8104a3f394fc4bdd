package zoomgraph

// Surface is the host drawing surface a PaintContext draws into. The core
// never creates or owns a Surface.
type Surface interface {
	// FillRect fills r, given in the local frame of the node being painted,
	// mapped to the surface by transform and clipped to clip (in surface
	// coordinates). c already carries the cumulative transparency in c.A.
	FillRect(r Rect, transform Affine, clip Rect, c Color)
}

// Painter draws a node's own content, in its local frame, before its
// children are painted.
type Painter interface {
	Paint(n *Node, ctx *PaintContext)
}

// AfterChildrenPainter is an optional extension of Painter that draws on top
// of the node's children.
type AfterChildrenPainter interface {
	PaintAfterChildren(n *Node, ctx *PaintContext)
}

// PainterFunc adapts a function to the Painter interface.
type PainterFunc func(n *Node, ctx *PaintContext)

// Paint calls f(n, ctx).
func (f PainterFunc) Paint(n *Node, ctx *PaintContext) { f(n, ctx) }

// PaintContext carries the per-frame paint state: the transform, clip and
// transparency stacks and the host surface. A fresh context is created by the
// host for each frame.
type PaintContext struct {
	surface    Surface
	transforms []Affine  // cumulative local-to-surface transforms
	clips      []Rect    // cumulative clips in surface coordinates
	alphas     []float64 // cumulative transparency
	cameras    []*Camera
}

// NewPaintContext creates a context drawing into surface, clipped to clip
// (in surface coordinates).
func NewPaintContext(surface Surface, clip Rect) *PaintContext {
	return &PaintContext{
		surface:    surface,
		transforms: []Affine{IdentityAffine},
		clips:      []Rect{clip},
		alphas:     []float64{1},
	}
}

// Surface returns the host drawing surface.
func (c *PaintContext) Surface() Surface {
	return c.surface
}

// Transform returns the current local-to-surface transform.
func (c *PaintContext) Transform() Affine {
	return c.transforms[len(c.transforms)-1]
}

// PushTransform concatenates m (local-to-parent of the frame being entered)
// onto the current transform.
func (c *PaintContext) PushTransform(m Affine) {
	c.transforms = append(c.transforms, c.Transform().Multiply(m))
}

// PopTransform restores the transform that was current before the matching
// PushTransform.
func (c *PaintContext) PopTransform() {
	if len(c.transforms) > 1 {
		c.transforms = c.transforms[:len(c.transforms)-1]
	}
}

// Clip returns the current clip in surface coordinates.
func (c *PaintContext) Clip() Rect {
	return c.clips[len(c.clips)-1]
}

// PushClip intersects the current clip with r, given in the current local
// frame.
func (c *PaintContext) PushClip(r Rect) {
	surf := c.Transform().ApplyRect(r)
	c.clips = append(c.clips, c.Clip().Intersect(surf))
}

// PopClip restores the clip that was current before the matching PushClip.
func (c *PaintContext) PopClip() {
	if len(c.clips) > 1 {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

// LocalClip returns the current clip expressed in the current local frame.
// When the current transform is singular nothing can be visible and an empty
// rectangle is returned.
func (c *PaintContext) LocalClip() Rect {
	r, err := c.Transform().InverseApplyRect(c.Clip())
	if err != nil {
		return Rect{}
	}
	return r
}

// Transparency returns the cumulative transparency.
func (c *PaintContext) Transparency() float64 {
	return c.alphas[len(c.alphas)-1]
}

// PushTransparency multiplies the cumulative transparency by a.
func (c *PaintContext) PushTransparency(a float64) {
	c.alphas = append(c.alphas, c.Transparency()*a)
}

// PopTransparency restores the transparency that was current before the
// matching PushTransparency.
func (c *PaintContext) PopTransparency() {
	if len(c.alphas) > 1 {
		c.alphas = c.alphas[:len(c.alphas)-1]
	}
}

// PushCamera records that painting entered camera's view.
func (c *PaintContext) PushCamera(cam *Camera) {
	c.cameras = append(c.cameras, cam)
}

// PopCamera leaves the innermost camera.
func (c *PaintContext) PopCamera() {
	if len(c.cameras) > 0 {
		c.cameras = c.cameras[:len(c.cameras)-1]
	}
}

// Camera returns the innermost camera being painted, or nil.
func (c *PaintContext) Camera() *Camera {
	if len(c.cameras) == 0 {
		return nil
	}
	return c.cameras[len(c.cameras)-1]
}

// FillRect fills a local rectangle with col, applying the current transform,
// clip and transparency.
func (c *PaintContext) FillRect(r Rect, col Color) {
	if r.Empty() || c.surface == nil {
		return
	}
	col.A *= c.Transparency()
	if col.A <= 0 {
		return
	}
	c.surface.FillRect(r, c.Transform(), c.Clip(), col)
}

// --- Node painting ---

// contentPainter is implemented by node kinds that paint more than their
// own bounds (cameras paint their layers).
type contentPainter interface {
	paintContent(ctx *PaintContext)
}

// FullPaint paints the node and its subtree if visible and within the
// current clip.
func (n *Node) FullPaint(ctx *PaintContext) {
	if !n.visible || !n.FullIntersects(ctx.LocalClip()) {
		return
	}
	ctx.PushTransform(n.transform)
	ctx.PushTransparency(n.transparency)

	if cp, ok := n.ext.(contentPainter); ok {
		cp.paintContent(ctx)
	} else {
		n.paintSelf(ctx)
	}
	for _, child := range n.children {
		child.FullPaint(ctx)
	}
	if ap, ok := n.Painter.(AfterChildrenPainter); ok {
		ap.PaintAfterChildren(n, ctx)
	}

	ctx.PopTransparency()
	ctx.PopTransform()
}

// paintSelf draws the node's own content: the custom Painter if set,
// otherwise its bounds filled with its paint color.
func (n *Node) paintSelf(ctx *PaintContext) {
	if n.Painter != nil {
		n.Painter.Paint(n, ctx)
		return
	}
	if n.paint != nil {
		ctx.FillRect(n.bounds, *n.paint)
	}
}
