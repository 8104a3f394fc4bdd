// Package zoomgraph is a retained-mode 2D scene graph with zoomable cameras.
//
// # Scene structure
//
// Every visual element is a [Node]. Nodes form a tree under a [Root], which
// owns the global clock, the [ActivityScheduler] and the input sources that
// drive the process cycle. Each node carries an affine transform relative to
// its parent, local bounds, an optional paint color and a transparency.
//
// A [Layer] is a node that cameras can look at. A [Camera] is a node that
// displays any number of layers through its view transform, so the same
// content can be shown by several cameras at different scales:
//
//	root, layer, camera := zoomgraph.NewBasicScene()
//	box := zoomgraph.NewRectNode("box", zoomgraph.Rect{Width: 80, Height: 40},
//		zoomgraph.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	box.SetOffset(100, 50)
//	layer.AddChild(box)
//	camera.ScaleViewAboutPoint(2, 100, 50)
//
// # Process cycle
//
// [Root.ProcessInputs] runs one cycle: it samples the clock, lets every
// [InputSource] deliver input, steps the activities that are due, then
// validates full bounds and paint. Bounds and damage are computed lazily:
// changing a node only marks it and its ancestors, and the next cycle
// recomputes exactly the invalid subtrees.
//
// # Activities
//
// An [Activity] is stepped at most once per cycle at its step rate until its
// duration has elapsed. Activities can be chained with [Activity.StartAfter].
// Node and view animations ([Node.AnimateToTransform],
// [Camera.AnimateViewToCenterBounds] and friends) are
// [InterpolatingActivity] values eased with [gween] functions.
//
// # Input
//
// An [InputManager] picks the node under the pointer through a camera,
// producing a [PickPath] that records every node and transform from the
// camera down to the picked node. Events bubble from the picked node toward
// the camera until a [Listener] marks them handled. The manager tracks hover
// (synthesizing enter and exit events), mouse focus for drags and keyboard
// focus.
//
// # Hosts
//
// [Run] opens an [Ebitengine] window, polls ebiten input into the default
// input manager and paints the camera each frame. Headless hosts call
// [Root.ProcessInputs] themselves and may install a simulated clock with
// [Root.SetClock]. ECS integration is available through the Donburi adapter
// in zoomgraph/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package zoomgraph
