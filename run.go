package zoomgraph

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Background Color
	// NoPanZoom skips installing the default PanHandler and ZoomHandler on
	// the camera.
	NoPanZoom bool
	// OnUpdate, if set, runs once per tick before the process cycle.
	OnUpdate func() error
}

// maxCyclesPerTick bounds how many process cycles one tick may run while
// draining polled input.
const maxCyclesPerTick = 16

type game struct {
	root    *Root
	camera  *Camera
	input   *EbitenInputSource
	surface *EbitenSurface
	cfg     RunConfig
	width   int
	height  int
}

// Run opens a window showing camera and drives root's process cycle once per
// tick, with mouse and keyboard input from ebiten. The camera's bounds track
// the window size. Run blocks until the window is closed.
func Run(root *Root, camera *Camera, cfg RunConfig) error {
	if camera.Root() != root {
		return fmt.Errorf("zoomgraph: run: %w", ErrNotAttached)
	}
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Title == "" {
		cfg.Title = "zoomgraph"
	}

	g := &game{
		root:    root,
		camera:  camera,
		input:   NewEbitenInputSource(root.DefaultInputManager(), camera),
		surface: NewEbitenSurface(nil),
		cfg:     cfg,
	}
	root.AddInputSource(g.input)
	defer root.RemoveInputSource(g.input)

	if !cfg.NoPanZoom {
		pan := camera.AddListener(NewPanHandler(camera))
		zoom := camera.AddListener(NewZoomHandler(camera))
		defer pan.Remove()
		defer zoom.Remove()
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// Update runs the process cycle until the input polled this tick has been
// delivered.
func (g *game) Update() error {
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	for i := 0; i < maxCyclesPerTick; i++ {
		if err := g.root.ProcessInputs(); err != nil {
			return err
		}
		if g.input.Pending() == 0 {
			break
		}
	}
	return nil
}

// Draw paints the camera into the screen.
func (g *game) Draw(screen *ebiten.Image) {
	bg := g.cfg.Background
	screen.Fill(bg.toRGBA())
	g.surface.Target = screen
	ctx := NewPaintContext(g.surface, Rect{Width: float64(g.width), Height: float64(g.height)})
	g.camera.FullPaint(ctx)
}

// Layout sizes the camera to the window.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.camera.SetBounds(Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}
