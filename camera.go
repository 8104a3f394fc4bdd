package zoomgraph

import (
	"fmt"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ViewConstraint limits how far a camera's view transform may wander from the
// content of its layers. It is re-applied after every view transform change.
type ViewConstraint uint8

const (
	// ViewConstraintNone leaves the view transform untouched.
	ViewConstraintNone ViewConstraint = iota
	// ViewConstraintCenter keeps the union of the layers' full bounds centered
	// in the view.
	ViewConstraintCenter
	// ViewConstraintContainAll moves the view by the smallest amount that keeps
	// the layers' full bounds inside it.
	ViewConstraintContainAll
)

var viewConstraintNames = [...]string{"none", "center", "contain_all"}

func (v ViewConstraint) String() string {
	if int(v) < len(viewConstraintNames) {
		return viewConstraintNames[v]
	}
	return fmt.Sprintf("ViewConstraint(%d)", uint8(v))
}

func (v ViewConstraint) valid() bool {
	return v <= ViewConstraintContainAll
}

// ParseViewConstraint converts a constraint name ("none", "center",
// "contain_all") to a ViewConstraint.
func ParseViewConstraint(s string) (ViewConstraint, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range viewConstraintNames {
		if name == norm {
			return ViewConstraint(i), nil
		}
	}
	return ViewConstraintNone, fmt.Errorf("%w: %q", ErrInvalidViewConstraint, s)
}

// RepaintSink receives damaged rectangles in the camera's parent frame, which
// is the frame of the surface the camera is drawn on.
type RepaintSink interface {
	Repaint(r Rect)
}

// RepaintSinkFunc adapts a function to the RepaintSink interface.
type RepaintSinkFunc func(r Rect)

// Repaint calls f(r).
func (f RepaintSinkFunc) Repaint(r Rect) { f(r) }

// Camera is a Node that views a list of layers through its view transform.
// Its own children paint and pick in its local frame; the layers paint and
// pick in the view frame below the view transform.
type Camera struct {
	Node

	layers         []*Layer // non-owning
	viewTransform  Affine   // view -> camera local
	viewConstraint ViewConstraint
	sink           RepaintSink

	scroll *scrollAnim
}

// NewCamera creates a detached camera with an identity view transform and no
// layers.
func NewCamera(name string) *Camera {
	c := &Camera{viewTransform: IdentityAffine}
	c.Name = name
	nodeDefaults(&c.Node)
	c.ext = c
	return c
}

// SetRepaintSink installs the host callback for damaged regions. Pass nil to
// stop receiving them.
func (c *Camera) SetRepaintSink(s RepaintSink) {
	c.sink = s
}

// --- Layers ---

// Layers returns the layers viewed by this camera, back to front.
// The returned slice MUST NOT be mutated by the caller.
func (c *Camera) Layers() []*Layer {
	return c.layers
}

// LayerCount returns the number of layers viewed by this camera.
func (c *Camera) LayerCount() int {
	return len(c.layers)
}

// LayerAt returns the layer at index.
func (c *Camera) LayerAt(index int) *Layer {
	return c.layers[index]
}

// IndexOfLayer returns the index of l in the camera's layer list, or -1.
func (c *Camera) IndexOfLayer(l *Layer) int {
	for i, each := range c.layers {
		if each == l {
			return i
		}
	}
	return -1
}

// AddLayer appends l on top of the camera's layers.
func (c *Camera) AddLayer(l *Layer) {
	c.AddLayerAt(l, len(c.layers))
}

// AddLayerAt inserts l at index. A layer may be viewed by many cameras, and
// by the same camera at most once; adding it again moves it, with index
// counted before the move as in AddChildAt.
func (c *Camera) AddLayerAt(l *Layer, index int) {
	if l == nil {
		panic("zoomgraph: cannot add nil layer")
	}
	if i := c.IndexOfLayer(l); i >= 0 {
		if index > i {
			index--
		}
		c.RemoveLayerAt(i)
	}
	if index < 0 || index > len(c.layers) {
		panic("zoomgraph: layer index out of range")
	}
	c.layers = append(c.layers, nil)
	copy(c.layers[index+1:], c.layers[index:])
	c.layers[index] = l
	l.addCamera(c, len(l.cameras))
	c.InvalidatePaint()
	c.firePropertyChange(PropertyLayers)
	c.applyViewConstraints()
}

// RemoveLayer removes l from the camera. Returns false if the camera does not
// view l.
func (c *Camera) RemoveLayer(l *Layer) bool {
	i := c.IndexOfLayer(l)
	if i < 0 {
		return false
	}
	c.RemoveLayerAt(i)
	return true
}

// RemoveLayerAt removes and returns the layer at index.
func (c *Camera) RemoveLayerAt(index int) *Layer {
	l := c.layers[index]
	copy(c.layers[index:], c.layers[index+1:])
	c.layers[len(c.layers)-1] = nil
	c.layers = c.layers[:len(c.layers)-1]
	l.removeCamera(c)
	c.InvalidatePaint()
	c.firePropertyChange(PropertyLayers)
	return l
}

// UnionOfLayerFullBounds returns the union of the full bounds of every
// layer, in the view frame.
func (c *Camera) UnionOfLayerFullBounds() Rect {
	var u Rect
	for _, l := range c.layers {
		u = u.Union(l.FullBounds())
	}
	return u
}

// --- View transform ---

// ViewTransform returns the transform from the view frame to the camera's
// local frame.
func (c *Camera) ViewTransform() Affine {
	return c.viewTransform
}

// SetViewTransform replaces the view transform. A non-invertible transform
// is rejected with a *NoninvertibleError and leaves the view unchanged.
func (c *Camera) SetViewTransform(m Affine) error {
	if _, err := m.Invert(); err != nil {
		return err
	}
	c.viewTransform = m
	c.applyViewConstraints()
	c.viewChanged()
	return nil
}

func (c *Camera) viewChanged() {
	c.InvalidatePaint()
	c.firePropertyChange(PropertyViewTransform)
}

// ViewScale returns the uniform scale of the view transform.
func (c *Camera) ViewScale() float64 {
	return c.viewTransform.Scale()
}

// SetViewScale sets the view scale about the view origin.
func (c *Camera) SetViewScale(s float64) error {
	m, err := c.viewTransform.WithScale(s)
	if err != nil {
		return err
	}
	return c.SetViewTransform(m)
}

// ScaleView multiplies the view scale by s about the view origin.
func (c *Camera) ScaleView(s float64) error {
	return c.ScaleViewAboutPoint(s, 0, 0)
}

// ScaleViewAboutPoint multiplies the view scale by s, keeping the view point
// (x, y) at the same place in the camera's local frame.
func (c *Camera) ScaleViewAboutPoint(s, x, y float64) error {
	if s <= 0 {
		return ErrNonPositiveScale
	}
	return c.SetViewTransform(c.viewTransform.ScaleAbout(s, x, y))
}

// TranslateView pans the view by (dx, dy) in the camera's local frame, so a
// pan distance is independent of the current view scale.
func (c *Camera) TranslateView(dx, dy float64) {
	// Cannot fail: translation never changes the determinant.
	_ = c.SetViewTransform(TranslateAffine(dx, dy).Multiply(c.viewTransform))
}

// RotateViewAboutPoint rotates the view by theta radians about the view
// point (x, y).
func (c *Camera) RotateViewAboutPoint(theta, x, y float64) {
	_ = c.SetViewTransform(c.viewTransform.RotateAbout(theta, x, y))
}

// ViewOffset returns the raw translation of the view transform.
func (c *Camera) ViewOffset() (x, y float64) {
	return c.viewTransform.Offset()
}

// SetViewOffset sets the raw translation of the view transform.
func (c *Camera) SetViewOffset(x, y float64) {
	_ = c.SetViewTransform(c.viewTransform.WithOffset(x, y))
}

// ViewBounds returns the camera's bounds expressed in the view frame: the
// part of the layers currently visible.
func (c *Camera) ViewBounds() Rect {
	r, err := c.viewTransform.InverseApplyRect(c.bounds)
	if err != nil {
		return Rect{}
	}
	return r
}

// SetViewBounds changes the view so that r is centered and fully visible.
func (c *Camera) SetViewBounds(r Rect) error {
	_, err := c.AnimateViewToCenterBounds(r, true, 0)
	return err
}

// ViewConstraint returns the active view constraint.
func (c *Camera) ViewConstraint() ViewConstraint {
	return c.viewConstraint
}

// SetViewConstraint changes the view constraint and applies it immediately.
// An unknown value is rejected with ErrInvalidViewConstraint.
func (c *Camera) SetViewConstraint(v ViewConstraint) error {
	if !v.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidViewConstraint, uint8(v))
	}
	c.viewConstraint = v
	if v != ViewConstraintNone {
		c.applyViewConstraints()
		c.viewChanged()
	}
	return nil
}

// applyViewConstraints adjusts the view transform in place. Both constraints
// only translate, so the result stays invertible.
func (c *Camera) applyViewConstraints() {
	if c.viewConstraint == ViewConstraintNone {
		return
	}
	view := c.ViewBounds()
	layers := c.UnionOfLayerFullBounds()
	if view.Empty() || layers.Empty() {
		return
	}
	switch c.viewConstraint {
	case ViewConstraintCenter:
		vc, lc := view.Center(), layers.Center()
		c.viewTransform = c.viewTransform.Translate(vc.X-lc.X, vc.Y-lc.Y)
	case ViewConstraintContainAll:
		d := view.DeltaRequiredToContain(layers)
		c.viewTransform = c.viewTransform.Translate(-d.X, -d.Y)
	}
}

// --- View conversions ---

// ViewToLocal maps a view point to the camera's local frame.
func (c *Camera) ViewToLocal(x, y float64) (lx, ly float64) {
	return c.viewTransform.Apply(x, y)
}

// LocalToView maps a camera-local point to the view frame.
func (c *Camera) LocalToView(x, y float64) (vx, vy float64, err error) {
	return c.viewTransform.InverseApply(x, y)
}

// ViewToLocalRect maps a view rectangle to the camera's local frame.
func (c *Camera) ViewToLocalRect(r Rect) Rect {
	return c.viewTransform.ApplyRect(r)
}

// LocalToViewRect maps a camera-local rectangle to the view frame.
func (c *Camera) LocalToViewRect(r Rect) (Rect, error) {
	return c.viewTransform.InverseApplyRect(r)
}

// --- Painting ---

// paintContent paints the camera's own fill, then its layers clipped to its
// bounds and seen through the view transform. Children follow in FullPaint.
func (c *Camera) paintContent(ctx *PaintContext) {
	c.paintSelf(ctx)

	ctx.PushCamera(c)
	ctx.PushClip(c.bounds)
	ctx.PushTransform(c.viewTransform)
	for _, l := range c.layers {
		l.FullPaint(ctx)
	}
	ctx.PopTransform()
	ctx.PopClip()
	ctx.PopCamera()
}

// --- Picking ---

// pickContent tests the layers through the view transform, topmost
// first. When none is hit the camera itself is the target, provided the pick
// falls inside its bounds.
func (c *Camera) pickContent(path *PickPath) bool {
	if !c.hitTest(path.PickBounds()) {
		return false
	}
	path.pushViewTransform(c)
	for i := len(c.layers) - 1; i >= 0; i-- {
		if c.layers[i].FullPick(path) {
			return true
		}
	}
	path.PopTransform()
	return true
}

// Pick returns the pick path for the point (x, y) in the camera's parent
// frame, grown by halo on each side. The path is never empty: when nothing
// is hit the camera itself is recorded.
func (c *Camera) Pick(x, y, halo float64) *PickPath {
	bounds := Rect{X: x - halo, Y: y - halo, Width: 2 * halo, Height: 2 * halo}
	if halo <= 0 {
		// A zero-area rectangle is empty; keep a sliver so point picks hit.
		bounds = Rect{X: x, Y: y, Width: pickEpsilon, Height: pickEpsilon}
	}
	path := NewPickPath(c, bounds)
	c.FullPick(path)
	if len(path.nodes) == 0 {
		path.PushNode(&c.Node)
		path.pushNodeTransform(&c.Node)
	}
	return path
}

// pickEpsilon is the size of the pick rectangle for a point pick.
const pickEpsilon = 1e-9

// --- Repaint routing ---

// repaintFromLayer receives damage from one of the camera's layers, in the
// view frame, and forwards the visible part of it.
func (c *Camera) repaintFromLayer(viewBounds Rect, l *Layer) {
	local := c.viewTransform.ApplyRect(viewBounds)
	if !local.Intersects(c.bounds) {
		return
	}
	c.routeRepaint(local.Intersect(c.bounds), &l.Node)
}

// routeRepaint hands damage to the repaint sink in the camera's parent frame
// and continues up the tree.
func (c *Camera) routeRepaint(bounds Rect, source *Node) {
	if source != &c.Node {
		bounds = c.LocalToParentRect(bounds)
	} else if !c.visible {
		return
	}
	if c.sink != nil {
		c.sink.Repaint(bounds)
	}
	if c.parent != nil {
		c.parent.repaintFrom(bounds, &c.Node)
	}
}

// --- View animation ---

// AnimateViewToTransform animates the view transform to dest over duration
// milliseconds. A zero duration sets it immediately and returns a nil
// activity.
func (c *Camera) AnimateViewToTransform(dest Affine, duration int64) (*InterpolatingActivity, error) {
	if duration <= 0 {
		return nil, c.SetViewTransform(dest)
	}
	if _, err := dest.Invert(); err != nil {
		return nil, err
	}
	var from Decomposed
	to := dest.Decompose()
	a := NewInterpolatingActivity(c.Name+".view", duration, DefaultStepRate, InterpolatorFuncs{
		Capture: func() { from = c.viewTransform.Decompose() },
		Apply: func(t float64) {
			_ = c.SetViewTransform(from.Lerp(to, t).Compose())
		},
	})
	if err := c.schedule(a.Activity); err != nil {
		return nil, err
	}
	return a, nil
}

// AnimateViewToCenterBounds animates the view so that the view rectangle r is
// centered, optionally scaling so that r fits entirely.
func (c *Camera) AnimateViewToCenterBounds(r Rect, scaleToFit bool, duration int64) (*InterpolatingActivity, error) {
	view := c.ViewBounds()
	vc, rc := view.Center(), r.Center()
	dest := c.viewTransform.Translate(vc.X-rc.X, vc.Y-rc.Y)
	if scaleToFit && !r.Empty() {
		s := min(view.Width/r.Width, view.Height/r.Height)
		if s > 0 {
			dest = dest.ScaleAbout(s, rc.X, rc.Y)
		}
	}
	return c.AnimateViewToTransform(dest, duration)
}

// AnimateViewToPanToBounds pans the view by the smallest amount that makes r
// visible, without scaling. It returns a nil activity when r is already
// visible.
func (c *Camera) AnimateViewToPanToBounds(r Rect, duration int64) (*InterpolatingActivity, error) {
	view := c.ViewBounds()
	if view.Empty() || (view.Contains(r.X, r.Y) && view.Contains(r.MaxX(), r.MaxY())) {
		return nil, nil
	}
	d := view.DeltaRequiredToContain(r)
	return c.AnimateViewToCenterBounds(view.Translate(d.X, d.Y), false, duration)
}

func (c *Camera) schedule(a *Activity) error {
	root := c.Root()
	if root == nil {
		return ErrNoRoot
	}
	root.AddActivity(a)
	return nil
}

// scrollAnim holds the scroll-to tweens of the view center.
type scrollAnim struct {
	activity *Activity
	tweenX   *gween.Tween
	tweenY   *gween.Tween
	doneX    bool
	doneY    bool
	last     int64
}

// ScrollViewTo animates the view so that the view point (x, y) ends up at the
// center of the camera, using easeFn over duration milliseconds. A nil easeFn
// scrolls linearly. Starting a new scroll replaces one still in progress.
func (c *Camera) ScrollViewTo(x, y float64, duration int64, easeFn ease.TweenFunc) (*Activity, error) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	center := c.ViewBounds().Center()
	if duration <= 0 {
		c.centerViewOn(x, y)
		return nil, nil
	}
	root := c.Root()
	if root == nil {
		return nil, ErrNoRoot
	}
	if c.scroll != nil {
		c.scroll.activity.Terminate(TerminateWithoutFinishing)
	}
	secs := float32(duration) / 1000
	s := &scrollAnim{
		tweenX: gween.New(float32(center.X), float32(x), secs, easeFn),
		tweenY: gween.New(float32(center.Y), float32(y), secs, easeFn),
	}
	s.activity = NewActivity(c.Name+".scroll", duration, DefaultStepRate, StepFunc(func(a *Activity, elapsed int64) error {
		c.stepScroll(s, elapsed)
		return nil
	}))
	s.activity.Delegate = ActivityDelegateFuncs{
		Finished: func(*Activity) {
			c.centerViewOn(x, y)
			if c.scroll == s {
				c.scroll = nil
			}
		},
	}
	c.scroll = s
	root.AddActivity(s.activity)
	return s.activity, nil
}

func (c *Camera) stepScroll(s *scrollAnim, elapsed int64) {
	dt := float32(elapsed-s.last) / 1000
	s.last = elapsed
	cur := c.ViewBounds().Center()
	cx, cy := cur.X, cur.Y
	if !s.doneX {
		val, done := s.tweenX.Update(dt)
		cx = float64(val)
		s.doneX = done
	}
	if !s.doneY {
		val, done := s.tweenY.Update(dt)
		cy = float64(val)
		s.doneY = done
	}
	c.centerViewOn(cx, cy)
}

// centerViewOn translates the view so the view point (x, y) sits at the
// center of the camera's bounds.
func (c *Camera) centerViewOn(x, y float64) {
	vc := c.ViewBounds().Center()
	_ = c.SetViewTransform(c.viewTransform.Translate(vc.X-x, vc.Y-y))
}
