package zoomgraph

import (
	"github.com/tanema/gween/ease"
)

// InterpolationMode selects the direction an InterpolatingActivity runs in.
type InterpolationMode uint8

const (
	// SourceToDestination moves from the captured source to the destination.
	SourceToDestination InterpolationMode = iota
	// DestinationToSource moves from the destination back to the source.
	DestinationToSource
	// SourceToDestinationToSource goes to the destination during the first
	// half of the duration and returns during the second half.
	SourceToDestinationToSource
)

// Interpolator is the target of an InterpolatingActivity. Capture records the
// source value when the activity starts; Apply sets the value for a progress
// fraction t, where 0 is the source and 1 the destination.
type Interpolator interface {
	Capture()
	Apply(t float64)
}

// InterpolatorFuncs adapts a pair of functions to Interpolator.
type InterpolatorFuncs struct {
	Capture func()
	Apply   func(t float64)
}

type funcInterpolator struct{ f InterpolatorFuncs }

func (i funcInterpolator) Capture() {
	if i.f.Capture != nil {
		i.f.Capture()
	}
}

func (i funcInterpolator) Apply(t float64) {
	if i.f.Apply != nil {
		i.f.Apply(t)
	}
}

// InterpolatingActivity is an Activity that drives an Interpolator from 0 to
// 1 over its duration.
type InterpolatingActivity struct {
	*Activity

	// Mode selects the direction. Changes take effect on the next step.
	Mode InterpolationMode
	// Easing maps linear progress to eased progress. The default is
	// ease.InOutQuad (slow in, slow out); nil means linear.
	Easing ease.TweenFunc

	target Interpolator
}

// NewInterpolatingActivity creates an animation activity. target may be an
// Interpolator or an InterpolatorFuncs value.
func NewInterpolatingActivity(name string, duration, stepRate int64, target any) *InterpolatingActivity {
	ia := &InterpolatingActivity{Easing: ease.InOutQuad}
	switch t := target.(type) {
	case Interpolator:
		ia.target = t
	case InterpolatorFuncs:
		ia.target = funcInterpolator{t}
	default:
		panic("zoomgraph: interpolating activity target must be an Interpolator or InterpolatorFuncs")
	}
	ia.Activity = NewActivity(name, duration, stepRate, ia)
	ia.animation = true
	return ia
}

// Start captures the source value.
func (ia *InterpolatingActivity) Start(*Activity) {
	ia.target.Capture()
	ia.apply(0)
}

// Step applies the value for the elapsed fraction of the duration.
func (ia *InterpolatingActivity) Step(a *Activity, elapsed int64) error {
	t := 1.0
	if a.duration > 0 {
		t = float64(elapsed) / float64(a.duration)
	}
	ia.apply(t)
	return nil
}

// Finish applies the final value.
func (ia *InterpolatingActivity) Finish(*Activity) {
	ia.apply(1)
}

// apply maps linear progress through the mode and easing and hands the
// result to the target.
func (ia *InterpolatingActivity) apply(t float64) {
	t = clamp01(t)
	switch ia.Mode {
	case DestinationToSource:
		t = 1 - t
	case SourceToDestinationToSource:
		if t <= 0.5 {
			t *= 2
		} else {
			t = (1 - t) * 2
		}
	}
	ia.target.Apply(ia.ease(t))
}

func (ia *InterpolatingActivity) ease(t float64) float64 {
	if ia.Easing == nil || t <= 0 || t >= 1 {
		return t
	}
	return float64(ia.Easing(float32(t), 0, 1, 1))
}

// --- Node animations ---

// AnimateToBounds animates the node's local bounds to r over duration
// milliseconds. A zero duration sets them immediately and returns nil.
func (n *Node) AnimateToBounds(r Rect, duration int64) (*InterpolatingActivity, error) {
	if duration <= 0 {
		n.SetBounds(r)
		return nil, nil
	}
	var from Rect
	return n.animate("bounds", duration, InterpolatorFuncs{
		Capture: func() { from = n.bounds },
		Apply: func(t float64) {
			n.SetBounds(Rect{
				X:      lerp(from.X, r.X, t),
				Y:      lerp(from.Y, r.Y, t),
				Width:  lerp(from.Width, r.Width, t),
				Height: lerp(from.Height, r.Height, t),
			})
		},
	})
}

// AnimateToTransform animates the node's transform to dest, interpolating
// scale, rotation and offset independently. A zero duration sets the
// transform immediately and returns nil.
func (n *Node) AnimateToTransform(dest Affine, duration int64) (*InterpolatingActivity, error) {
	if duration <= 0 {
		n.SetTransform(dest)
		return nil, nil
	}
	var from Decomposed
	to := dest.Decompose()
	return n.animate("transform", duration, InterpolatorFuncs{
		Capture: func() { from = n.transform.Decompose() },
		Apply: func(t float64) {
			if t >= 1 {
				n.SetTransform(dest)
				return
			}
			n.SetTransform(from.Lerp(to, t).Compose())
		},
	})
}

// AnimateToPositionScaleRotation animates the node's offset, scale and
// rotation.
func (n *Node) AnimateToPositionScaleRotation(x, y, scale, theta float64, duration int64) (*InterpolatingActivity, error) {
	if scale <= 0 {
		return nil, ErrNonPositiveScale
	}
	dest := Decomposed{Scale: scale, Rotation: theta, OffsetX: x, OffsetY: y}.Compose()
	return n.AnimateToTransform(dest, duration)
}

// AnimateToColor animates the node's paint color. A node without paint
// starts from transparent black.
func (n *Node) AnimateToColor(c Color, duration int64) (*InterpolatingActivity, error) {
	if duration <= 0 {
		n.SetPaint(c)
		return nil, nil
	}
	var from Color
	return n.animate("paint", duration, InterpolatorFuncs{
		Capture: func() {
			from = Color{}
			if n.paint != nil {
				from = *n.paint
			}
		},
		Apply: func(t float64) { n.SetPaint(from.Lerp(c, t)) },
	})
}

// AnimateToTransparency animates the node's transparency.
func (n *Node) AnimateToTransparency(a float64, duration int64) (*InterpolatingActivity, error) {
	a = clamp01(a)
	if duration <= 0 {
		n.SetTransparency(a)
		return nil, nil
	}
	var from float64
	return n.animate("transparency", duration, InterpolatorFuncs{
		Capture: func() { from = n.transparency },
		Apply:   func(t float64) { n.SetTransparency(lerp(from, a, t)) },
	})
}

// animate schedules an interpolation on the node's root.
func (n *Node) animate(what string, duration int64, f InterpolatorFuncs) (*InterpolatingActivity, error) {
	root := n.Root()
	if root == nil {
		return nil, ErrNoRoot
	}
	ia := NewInterpolatingActivity(n.Name+"."+what, duration, DefaultStepRate, f)
	root.AddActivity(ia.Activity)
	return ia, nil
}
