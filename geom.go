package zoomgraph

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite and ColorBlack are common paint values.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// Lerp interpolates each channel independently between c and to.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: lerp(c.R, to.R, t),
		G: lerp(c.G, to.G, t),
		B: lerp(c.B, to.B, t),
		A: lerp(c.A, to.A, t),
	}
}

// toRGBA converts c to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Vec2 is a 2D vector used for points, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
//
// A rectangle with non-positive width or height is empty. Empty rectangles
// contribute nothing to unions and intersect nothing.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromPoints returns the smallest rectangle containing both points.
func RectFromPoints(x0, y0, x1, y1 float64) Rect {
	minX, maxX := math.Min(x0, x1), math.Max(x0, x1)
	minY, maxY := math.Min(y0, y1), math.Max(y0, y1)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
// Empty operands are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Intersect returns the overlapping region of r and other, or the zero Rect
// when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	minX := math.Max(r.X, other.X)
	minY := math.Max(r.Y, other.Y)
	maxX := math.Min(r.MaxX(), other.MaxX())
	maxY := math.Min(r.MaxY(), other.MaxY())
	if maxX < minX || maxY < minY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inset shrinks the rectangle by dx on the left and right and dy on the top
// and bottom. Negative values grow it.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width - 2*dx, Height: r.Height - 2*dy}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// DeltaRequiredToContain returns how far r has to move so that it fully
// contains other. An axis on which other already fits, or on which other
// overhangs both edges, yields zero movement.
func (r Rect) DeltaRequiredToContain(other Rect) Vec2 {
	var d Vec2
	if r.Empty() {
		return d
	}
	d.X = axisDelta(r.X, r.MaxX(), other.X, other.MaxX())
	d.Y = axisDelta(r.Y, r.MaxY(), other.Y, other.MaxY())
	return d
}

func axisDelta(min, max, oMin, oMax float64) float64 {
	if oMax > max && oMin < min {
		return 0
	}
	if oMax <= max && oMin >= min {
		return 0
	}
	difMax := oMax - max
	difMin := oMin - min
	if math.Abs(difMax) < math.Abs(difMin) {
		return difMax
	}
	return difMin
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
