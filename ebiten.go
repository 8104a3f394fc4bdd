package zoomgraph

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Surface ---

// EbitenSurface is a Surface drawing into an ebiten image. Fills are drawn
// as a scaled white pixel, so every transform including rotation is exact.
type EbitenSurface struct {
	Target *ebiten.Image

	pixel *ebiten.Image
	op    ebiten.DrawImageOptions
}

// NewEbitenSurface creates a surface drawing into target. Target may be
// replaced between frames.
func NewEbitenSurface(target *ebiten.Image) *EbitenSurface {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &EbitenSurface{Target: target, pixel: pixel}
}

// FillRect implements Surface.
func (s *EbitenSurface) FillRect(r Rect, m Affine, clip Rect, c Color) {
	if s.Target == nil {
		return
	}
	dst := s.Target
	if !clip.Empty() {
		// Sub-images share the parent's coordinate space.
		cr := image.Rect(
			int(math.Floor(clip.X)), int(math.Floor(clip.Y)),
			int(math.Ceil(clip.MaxX())), int(math.Ceil(clip.MaxY())),
		).Intersect(dst.Bounds())
		if cr.Empty() {
			return
		}
		dst = dst.SubImage(cr).(*ebiten.Image)
	}

	s.op.GeoM.Reset()
	s.op.GeoM.Scale(r.Width, r.Height)
	s.op.GeoM.Translate(r.X, r.Y)
	s.op.GeoM.Concat(affineGeoM(m))
	s.op.ColorScale.Reset()
	a := float32(c.A)
	s.op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	dst.DrawImage(s.pixel, &s.op)
}

// affineGeoM converts an Affine into an ebiten.GeoM.
func affineGeoM(m Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// --- Input ---

// EbitenInputSource polls ebiten's mouse and keyboard state, classifies the
// changes into input events and delivers them through an InputManager, one
// per process cycle. It polls again only once everything from the previous
// poll has been delivered.
type EbitenInputSource struct {
	inj *Injector

	lastX, lastY int
	hasLast      bool
	held         [numMouseButtons]bool
	pressedAt    [numMouseButtons]time.Time
	pressX       [numMouseButtons]int
	pressY       [numMouseButtons]int
	keys         []ebiten.Key
	chars        []rune
}

// NewEbitenInputSource creates an input source for m as seen through c.
func NewEbitenInputSource(m *InputManager, c *Camera) *EbitenInputSource {
	return &EbitenInputSource{inj: NewInjector(m, c)}
}

// Pending returns the number of polled events not yet delivered.
func (s *EbitenInputSource) Pending() int {
	return s.inj.Pending()
}

// ProcessInput implements InputSource.
func (s *EbitenInputSource) ProcessInput() {
	if s.inj.Pending() == 0 {
		s.poll()
	}
	s.inj.ProcessInput()
}

var ebitenButtons = [numMouseButtons]ebiten.MouseButton{
	MouseButtonLeft:   ebiten.MouseButtonLeft,
	MouseButtonRight:  ebiten.MouseButtonRight,
	MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

func (s *EbitenInputSource) poll() {
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	push := func(typ EventType, in InputEvent) {
		in.X, in.Y = x, y
		in.Modifiers = mods
		s.inj.push(typ, in)
	}

	if !s.hasLast || mx != s.lastX || my != s.lastY {
		s.lastX, s.lastY, s.hasLast = mx, my, true
		if b, ok := s.heldButton(); ok {
			push(EventMouseDragged, InputEvent{Button: b})
		} else {
			push(EventMouseMoved, InputEvent{})
		}
	}

	for b := MouseButton(0); b < numMouseButtons; b++ {
		eb := ebitenButtons[b]
		if inpututil.IsMouseButtonJustPressed(eb) {
			s.held[b] = true
			s.pressedAt[b] = time.Now()
			s.pressX[b], s.pressY[b] = mx, my
			push(EventMousePressed, InputEvent{Button: b, ClickCount: 1})
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			s.held[b] = false
			push(EventMouseReleased, InputEvent{Button: b, ClickCount: 1})
			if s.isClick(b, mx, my) {
				push(EventMouseClicked, InputEvent{Button: b, ClickCount: 1})
			}
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		push(EventMouseWheel, InputEvent{WheelX: wx, WheelY: wy})
	}

	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		push(EventKeyPressed, InputEvent{Key: int(k)})
	}
	s.chars = ebiten.AppendInputChars(s.chars[:0])
	for _, r := range s.chars {
		push(EventKeyTyped, InputEvent{Rune: r})
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		push(EventKeyReleased, InputEvent{Key: int(k)})
	}
}

// A release is also reported as a click when it follows the press within
// clickMaxDuration and without moving further than clickSlop pixels.
const (
	clickMaxDuration = 400 * time.Millisecond
	clickSlop        = 4
)

func (s *EbitenInputSource) isClick(b MouseButton, x, y int) bool {
	if time.Since(s.pressedAt[b]) > clickMaxDuration {
		return false
	}
	dx, dy := x-s.pressX[b], y-s.pressY[b]
	return dx*dx+dy*dy <= clickSlop*clickSlop
}

func (s *EbitenInputSource) heldButton() (MouseButton, bool) {
	for b := MouseButton(0); b < numMouseButtons; b++ {
		if s.held[b] {
			return b, true
		}
	}
	return 0, false
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}
