package zoomgraph

// Layer is a Node that cameras can view. Damage inside a layer is forwarded
// to every camera that references it, in addition to the layer's own parent.
type Layer struct {
	Node
	cameras []*Camera // non-owning back-references
}

// NewLayer creates a detached layer.
func NewLayer(name string) *Layer {
	l := &Layer{}
	l.Name = name
	nodeDefaults(&l.Node)
	l.ext = l
	return l
}

// Cameras returns the cameras viewing this layer.
// The returned slice MUST NOT be mutated by the caller.
func (l *Layer) Cameras() []*Camera {
	return l.cameras
}

// CameraCount returns the number of cameras viewing this layer.
func (l *Layer) CameraCount() int {
	return len(l.cameras)
}

func (l *Layer) addCamera(c *Camera, index int) {
	l.cameras = append(l.cameras, nil)
	copy(l.cameras[index+1:], l.cameras[index:])
	l.cameras[index] = c
	l.InvalidatePaint()
}

func (l *Layer) removeCamera(c *Camera) bool {
	for i, each := range l.cameras {
		if each == c {
			copy(l.cameras[i:], l.cameras[i+1:])
			l.cameras[len(l.cameras)-1] = nil
			l.cameras = l.cameras[:len(l.cameras)-1]
			l.InvalidatePaint()
			return true
		}
	}
	return false
}

// routeRepaint maps damage into the layer's parent frame (the view frame of
// the cameras), notifies each camera, then continues to the parent.
func (l *Layer) routeRepaint(bounds Rect, source *Node) {
	if source != &l.Node {
		bounds = l.LocalToParentRect(bounds)
	}
	for _, c := range l.cameras {
		c.repaintFromLayer(bounds, l)
	}
	if l.parent != nil {
		l.parent.repaintFrom(bounds, &l.Node)
	}
}
