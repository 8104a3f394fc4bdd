// Command zgscript replays a JSON input script against a generated scene
// without opening a window. The process cycle runs on a simulated clock, so
// a replay is deterministic and runs as fast as the machine allows.
//
// Example:
//
//	zgscript --config zoomgraph.yaml --grid 6 script.json
//	zgscript -v --frame 16 script.json
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/zoomgraph"
	"github.com/spf13/cobra"
)

type options struct {
	Verbose   bool
	Config    string
	Grid      int
	FrameMs   int64
	MaxCycles int
	Width     float64
	Height    float64
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "zgscript <script.json>",
		Short: "Replay a scripted interaction against a zoomable scene",
		Long: `Replay a JSON input script (press, move, release, click, drag, wheel,
key, wait, zoom, pan, log steps) against a grid of draggable boxes seen
through a pan and zoom camera, then print the resulting view and node
positions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to a YAML engine config")
	cmd.Flags().IntVar(&opts.Grid, "grid", 4, "boxes per side of the generated scene")
	cmd.Flags().Int64Var(&opts.FrameMs, "frame", 16, "simulated milliseconds per process cycle")
	cmd.Flags().IntVar(&opts.MaxCycles, "max-cycles", 100000, "abort after this many cycles")
	cmd.Flags().Float64Var(&opts.Width, "width", 640, "camera width")
	cmd.Flags().Float64Var(&opts.Height, "height", 480, "camera height")

	return cmd
}

func replay(cmd *cobra.Command, opts *options, scriptPath string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	zoomgraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opts.Grid <= 0 {
		return fmt.Errorf("--grid must be positive, got %d", opts.Grid)
	}
	if opts.FrameMs <= 0 {
		return fmt.Errorf("--frame must be positive, got %d", opts.FrameMs)
	}

	cfg := zoomgraph.DefaultConfig()
	if opts.Config != "" {
		var err error
		if cfg, err = zoomgraph.LoadConfigFile(opts.Config); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	runner, err := zoomgraph.LoadTestScript(data)
	if err != nil {
		return err
	}

	root, layer, camera := zoomgraph.NewBasicScene()
	var now int64
	root.SetClock(func() int64 { return now })
	if err := root.ApplyConfig(cfg); err != nil {
		return err
	}
	camera.SetBounds(zoomgraph.Rect{Width: opts.Width, Height: opts.Height})
	camera.AddListener(zoomgraph.NewPanHandler(camera))
	camera.AddListener(zoomgraph.NewZoomHandler(camera))

	boxes, err := buildGrid(layer, opts.Grid, opts.Width, opts.Height)
	if err != nil {
		return err
	}

	var damage int
	camera.SetRepaintSink(zoomgraph.RepaintSinkFunc(func(zoomgraph.Rect) { damage++ }))
	runner.Attach(root, camera)

	cycles := 0
	for !runner.Done() || root.NeedsProcessing() {
		if cycles >= opts.MaxCycles {
			return fmt.Errorf("script did not finish within %d cycles", opts.MaxCycles)
		}
		if err := root.ProcessInputs(); err != nil {
			return err
		}
		if err := runner.Err(); err != nil {
			return err
		}
		now += opts.FrameMs
		cycles++
	}

	out := cmd.OutOrStdout()
	vx, vy := camera.ViewOffset()
	fmt.Fprintf(out, "cycles: %d (%d ms simulated)\n", cycles, now)
	fmt.Fprintf(out, "repaints: %d\n", damage)
	fmt.Fprintf(out, "view: scale=%.4f offset=(%.2f, %.2f)\n", camera.ViewScale(), vx, vy)
	for _, b := range boxes {
		x, y := b.Offset()
		fmt.Fprintf(out, "%s: (%.2f, %.2f)\n", b.Name, x, y)
	}
	return nil
}

// buildGrid fills layer with n*n draggable boxes spread over w*h.
func buildGrid(layer *zoomgraph.Layer, n int, w, h float64) ([]*zoomgraph.Node, error) {
	cellW, cellH := w/float64(n), h/float64(n)
	size := min(cellW, cellH) * 0.6
	boxes := make([]*zoomgraph.Node, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			col := zoomgraph.Color{R: float64(c) / float64(n), G: 0.5, B: float64(r) / float64(n), A: 1}
			box := zoomgraph.NewRectNode(fmt.Sprintf("box%d_%d", r, c), zoomgraph.Rect{Width: size, Height: size}, col)
			box.SetOffset(float64(c)*cellW+(cellW-size)/2, float64(r)*cellH+(cellH-size)/2)
			box.AddListener(zoomgraph.NewDragHandler())
			if err := layer.AddChild(box); err != nil {
				return nil, err
			}
			boxes = append(boxes, box)
		}
	}
	return boxes, nil
}
