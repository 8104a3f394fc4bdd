package zoomgraph

import "testing"

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"zero width", Rect{Width: 0, Height: 5}, true},
		{"negative", Rect{Width: -1, Height: 5}, true},
		{"positive", Rect{Width: 1, Height: 1}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Empty(); got != tt.want {
			t.Errorf("%s: Empty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRectUnionIgnoresEmpty(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("a ∪ empty = %+v, want %+v", got, a)
	}
	if got := (Rect{X: -100, Y: -100}).Union(a); got != a {
		t.Errorf("empty ∪ a = %+v, want %+v", got, a)
	}
	b := Rect{X: 0, Y: 20, Width: 2, Height: 2}
	assertRect(t, "a ∪ b", a.Union(b), Rect{X: 0, Y: 10, Width: 15, Height: 12})
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	assertRect(t, "a ∩ b", a.Intersect(b), Rect{X: 5, Y: 5, Width: 5, Height: 5})

	c := Rect{X: 20, Y: 20, Width: 1, Height: 1}
	if got := a.Intersect(c); !got.Empty() {
		t.Errorf("disjoint intersect = %+v, want empty", got)
	}
	if a.Intersects(c) {
		t.Error("disjoint rectangles should not intersect")
	}
	if !a.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Error("edge-adjacent rectangles should intersect")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.Contains(10, 10) {
		t.Error("edge point should be inside")
	}
	if r.Contains(10.01, 5) {
		t.Error("point past the edge should be outside")
	}
	if (Rect{}).Contains(0, 0) {
		t.Error("empty rectangle contains nothing")
	}
}

func TestRectDeltaRequiredToContain(t *testing.T) {
	view := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name  string
		other Rect
		want  Vec2
	}{
		{"inside", Rect{X: 10, Y: 10, Width: 10, Height: 10}, Vec2{}},
		{"past right", Rect{X: 95, Y: 10, Width: 10, Height: 10}, Vec2{X: 5}},
		{"past top", Rect{X: 10, Y: -8, Width: 10, Height: 10}, Vec2{Y: -8}},
		{"overhangs both", Rect{X: -10, Y: 10, Width: 200, Height: 10}, Vec2{}},
	}
	for _, tt := range tests {
		got := view.DeltaRequiredToContain(tt.other)
		if got != tt.want {
			t.Errorf("%s: delta = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestRectFromPoints(t *testing.T) {
	got := RectFromPoints(10, 2, -4, 8)
	if got != (Rect{X: -4, Y: 2, Width: 14, Height: 6}) {
		t.Errorf("got %+v", got)
	}
}

func TestColorLerp(t *testing.T) {
	got := ColorBlack.Lerp(ColorWhite, 0.25)
	assertNear(t, "R", got.R, 0.25)
	assertNear(t, "A", got.A, 1)
}

func TestColorToRGBAPremultiplied(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 0, A: 0.5}.toRGBA()
	if got.A != 127 || got.R != 127 || got.G != 63 || got.B != 0 {
		t.Errorf("toRGBA = %+v", got)
	}
}
