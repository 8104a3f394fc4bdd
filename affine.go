package zoomgraph

import (
	"fmt"
	"math"
)

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// The zero value is NOT the identity; use [IdentityAffine].
type Affine [6]float64

// IdentityAffine is the identity affine matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// singularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const singularEpsilon = 1e-12

// NoninvertibleError reports a failed matrix inversion together with the
// offending transform.
type NoninvertibleError struct {
	Transform Affine
}

func (e *NoninvertibleError) Error() string {
	return fmt.Sprintf("zoomgraph: transform %v is not invertible", [6]float64(e.Transform))
}

// TranslateAffine returns a translation matrix.
func TranslateAffine(dx, dy float64) Affine {
	return Affine{1, 0, 0, 1, dx, dy}
}

// ScaleAffine returns a uniform scale matrix.
func ScaleAffine(s float64) Affine {
	return Affine{s, 0, 0, s, 0, 0}
}

// RotateAffine returns a rotation matrix (theta in radians).
func RotateAffine(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m * c: c is applied first, then m.
func (m Affine) Multiply(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Determinant returns a*d - c*b.
func (m Affine) Determinant() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// IsIdentity reports whether m is exactly the identity.
func (m Affine) IsIdentity() bool {
	return m == IdentityAffine
}

// Invert returns the inverse of m, or a *NoninvertibleError when the
// determinant is (nearly) zero.
func (m Affine) Invert() (Affine, error) {
	det := m.Determinant()
	if det > -singularEpsilon && det < singularEpsilon {
		return Affine{}, &NoninvertibleError{Transform: m}
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, nil
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyDelta transforms a vector, ignoring translation.
func (m Affine) ApplyDelta(dx, dy float64) (float64, float64) {
	return m[0]*dx + m[2]*dy, m[1]*dx + m[3]*dy
}

// InverseApply maps (x, y) through the inverse of m.
func (m Affine) InverseApply(x, y float64) (float64, float64, error) {
	inv, err := m.Invert()
	if err != nil {
		return 0, 0, err
	}
	ix, iy := inv.Apply(x, y)
	return ix, iy, nil
}

// ApplyRect returns the axis-aligned bounding box of r transformed by m.
// Empty rectangles stay empty.
func (m Affine) ApplyRect(r Rect) Rect {
	if r.Empty() {
		return r
	}
	if m[1] == 0 && m[2] == 0 {
		x0, y0 := m.Apply(r.X, r.Y)
		x1, y1 := m.Apply(r.MaxX(), r.MaxY())
		return RectFromPoints(x0, y0, x1, y1)
	}
	x0, y0 := m.Apply(r.X, r.Y)
	x1, y1 := m.Apply(r.MaxX(), r.Y)
	x2, y2 := m.Apply(r.MaxX(), r.MaxY())
	x3, y3 := m.Apply(r.X, r.MaxY())

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// InverseApplyRect maps r through the inverse of m.
func (m Affine) InverseApplyRect(r Rect) (Rect, error) {
	inv, err := m.Invert()
	if err != nil {
		return Rect{}, err
	}
	return inv.ApplyRect(r), nil
}

// Translate returns m followed by a translation expressed in m's local frame,
// so the effective displacement depends on m's scale and rotation.
func (m Affine) Translate(dx, dy float64) Affine {
	return m.Multiply(TranslateAffine(dx, dy))
}

// ScaleAbout returns m with a uniform scale by s applied about the local
// point (x, y).
func (m Affine) ScaleAbout(s, x, y float64) Affine {
	return m.Translate(x, y).Multiply(ScaleAffine(s)).Translate(-x, -y)
}

// RotateAbout returns m with a rotation by theta applied about the local
// point (x, y).
func (m Affine) RotateAbout(theta, x, y float64) Affine {
	return m.Translate(x, y).Multiply(RotateAffine(theta)).Translate(-x, -y)
}

// Scale returns the uniform scale factor of m, measured as the length of the
// transformed unit x vector.
func (m Affine) Scale() float64 {
	return math.Hypot(m[0], m[1])
}

// WithScale returns m rescaled about its local origin so that Scale returns s.
// Rotation and offset are left untouched. s must be positive and the current
// scale non-zero.
func (m Affine) WithScale(s float64) (Affine, error) {
	if s <= 0 {
		return m, ErrNonPositiveScale
	}
	cur := m.Scale()
	if cur == 0 {
		return m, &NoninvertibleError{Transform: m}
	}
	return m.Multiply(ScaleAffine(s / cur)), nil
}

// Rotation returns the rotation of m in radians, in (-pi, pi].
func (m Affine) Rotation() float64 {
	return math.Atan2(m[1], m[0])
}

// WithRotation returns m rotated about its local origin so that Rotation
// returns theta. Scale and offset are left untouched.
func (m Affine) WithRotation(theta float64) Affine {
	return m.Multiply(RotateAffine(theta - m.Rotation()))
}

// Offset returns the raw translation components of m.
func (m Affine) Offset() (float64, float64) {
	return m[4], m[5]
}

// WithOffset replaces the raw translation components, independent of scale
// and rotation.
func (m Affine) WithOffset(x, y float64) Affine {
	m[4] = x
	m[5] = y
	return m
}

// Decomposed holds the independent channels of a uniform-scale affine
// transform. Interpolating these channels, rather than raw matrix entries,
// keeps intermediate frames rigid.
type Decomposed struct {
	Scale    float64
	Rotation float64
	OffsetX  float64
	OffsetY  float64
}

// Decompose splits m into scale, rotation and offset. Skew is discarded.
func (m Affine) Decompose() Decomposed {
	return Decomposed{
		Scale:    m.Scale(),
		Rotation: m.Rotation(),
		OffsetX:  m[4],
		OffsetY:  m[5],
	}
}

// Compose rebuilds the matrix Translate(offset) * Rotate * Scale.
func (d Decomposed) Compose() Affine {
	sin, cos := math.Sincos(d.Rotation)
	s := d.Scale
	return Affine{cos * s, sin * s, -sin * s, cos * s, d.OffsetX, d.OffsetY}
}

// Lerp interpolates each channel independently. Rotation takes the shorter
// way around the circle.
func (d Decomposed) Lerp(to Decomposed, t float64) Decomposed {
	dr := math.Remainder(to.Rotation-d.Rotation, 2*math.Pi)
	return Decomposed{
		Scale:    lerp(d.Scale, to.Scale, t),
		Rotation: d.Rotation + dr*t,
		OffsetX:  lerp(d.OffsetX, to.OffsetX, t),
		OffsetY:  lerp(d.OffsetY, to.OffsetY, t),
	}
}
