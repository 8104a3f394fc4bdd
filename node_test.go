package zoomgraph

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
)

// --- Constructor defaults ---

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("test")
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != "test" {
		t.Errorf("Name = %q, want %q", n.Name, "test")
	}
	if !n.Transform().IsIdentity() {
		t.Errorf("Transform = %v, want identity", n.Transform())
	}
	if n.Transparency() != 1 {
		t.Errorf("Transparency = %v, want 1", n.Transparency())
	}
	if !n.Visible() || !n.Pickable() || !n.ChildrenPickable() {
		t.Error("new nodes should be visible and pickable")
	}
	if _, ok := n.Paint(); ok {
		t.Error("new nodes should have no paint")
	}
	if !n.Bounds().Empty() {
		t.Errorf("Bounds = %+v, want empty", n.Bounds())
	}
}

func TestNodeIDsUnique(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	if a.ID == b.ID {
		t.Errorf("IDs collide: %d", a.ID)
	}
}

// --- Tree manipulation ---

func TestAddChildSetsParent(t *testing.T) {
	p := NewNode("p")
	c := NewNode("c")
	if err := p.AddChild(c); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != p {
		t.Error("child's parent not set")
	}
	if p.ChildCount() != 1 || p.ChildAt(0) != c {
		t.Error("child not in parent's list")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	_ = a.AddChild(c)
	_ = b.AddChild(c)
	if a.ChildCount() != 0 {
		t.Errorf("old parent still has %d children", a.ChildCount())
	}
	if c.Parent() != b {
		t.Error("child should belong to new parent")
	}
}

func TestAddChildAtIndex(t *testing.T) {
	p := NewNode("p")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	_ = p.AddChild(a)
	_ = p.AddChild(c)
	if err := p.AddChildAt(b, 1); err != nil {
		t.Fatal(err)
	}
	for i, want := range []*Node{a, b, c} {
		if p.ChildAt(i) != want {
			t.Errorf("child %d = %s, want %s", i, p.ChildAt(i).Name, want.Name)
		}
	}
}

func TestAddChildCycleRejected(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	_ = a.AddChild(b)
	_ = b.AddChild(c)

	if err := c.AddChild(a); !errors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle", err)
	}
	if err := a.AddChild(a); !errors.Is(err, ErrCycle) {
		t.Errorf("self add err = %v, want ErrCycle", err)
	}
	if a.Parent() != nil || c.ChildCount() != 0 {
		t.Error("a rejected add must leave the tree untouched")
	}
}

func TestAddNilChildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	_ = NewNode("p").AddChild(nil)
}

func TestRemoveChild(t *testing.T) {
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)
	if !p.RemoveChild(c) {
		t.Fatal("RemoveChild returned false")
	}
	if c.Parent() != nil || p.ChildCount() != 0 {
		t.Error("child not detached")
	}
	if p.RemoveChild(c) {
		t.Error("removing a non-child should return false")
	}
	if c.RemoveFromParent() {
		t.Error("RemoveFromParent on a detached node should return false")
	}
}

func TestRemoveAllChildren(t *testing.T) {
	p := NewNode("p")
	for i := 0; i < 4; i++ {
		_ = p.AddChild(NewNode("c"))
	}
	p.RemoveAllChildren()
	if p.ChildCount() != 0 {
		t.Errorf("ChildCount = %d, want 0", p.ChildCount())
	}
}

func TestAncestry(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	_ = a.AddChild(b)
	_ = b.AddChild(c)
	if !a.IsAncestorOf(c) || !c.IsDescendantOf(a) {
		t.Error("a should be an ancestor of c")
	}
	if c.IsAncestorOf(a) || a.IsAncestorOf(a) {
		t.Error("ancestry must be strict and directed")
	}
}

// --- Z-order ---

func childNames(p *Node) string {
	s := ""
	for _, c := range p.Children() {
		s += c.Name
	}
	return s
}

func TestZOrder(t *testing.T) {
	p := NewNode("p")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	_ = p.AddChild(a)
	_ = p.AddChild(b)
	_ = p.AddChild(c)

	a.MoveToFront()
	if got := childNames(p); got != "bca" {
		t.Errorf("after MoveToFront: %s, want bca", got)
	}
	a.MoveToBack()
	if got := childNames(p); got != "abc" {
		t.Errorf("after MoveToBack: %s, want abc", got)
	}
	a.MoveInFrontOf(b)
	if got := childNames(p); got != "bac" {
		t.Errorf("after MoveInFrontOf: %s, want bac", got)
	}
	c.MoveInBackOf(b)
	if got := childNames(p); got != "cba" {
		t.Errorf("after MoveInBackOf: %s, want cba", got)
	}
}

// --- Full bounds ---

func TestFullBoundsIsOwnBoundsInParentFrame(t *testing.T) {
	n := NewRectNode("n", Rect{Width: 10, Height: 20}, ColorWhite)
	n.SetOffset(5, 5)
	assertRect(t, "full", n.FullBounds(), Rect{X: 5, Y: 5, Width: 10, Height: 20})
}

func TestFullBoundsUnionNestedTransforms(t *testing.T) {
	root := NewRectNode("root", Rect{Width: 10, Height: 10}, ColorWhite)

	mid := NewNode("mid")
	mid.SetOffset(100, 0)
	_ = mid.SetScale(2)
	_ = root.AddChild(mid)

	leaf := NewRectNode("leaf", Rect{Width: 5, Height: 5}, ColorWhite)
	leaf.SetOffset(10, 20)
	_ = mid.AddChild(leaf)

	// leaf in mid: (10,20)-(15,25); mid to root: *2 + (100,0) → (120,40)-(130,50)
	assertRect(t, "mid full", mid.FullBounds(), Rect{X: 120, Y: 40, Width: 10, Height: 10})
	assertRect(t, "root full", root.FullBounds(), Rect{X: 0, Y: 0, Width: 130, Height: 50})

	// Moving the leaf updates every ancestor on the next validation.
	leaf.SetOffset(-10, 0)
	root.ValidateFullBounds()
	assertRect(t, "root full after move", root.FullBounds(), Rect{X: 0, Y: 0, Width: 90, Height: 10})
}

func TestFullBoundsEmptyChildIgnored(t *testing.T) {
	p := NewRectNode("p", Rect{Width: 10, Height: 10}, ColorWhite)
	c := NewNode("c")
	c.SetOffset(500, 500)
	_ = p.AddChild(c)
	assertRect(t, "full", p.FullBounds(), Rect{Width: 10, Height: 10})
}

func TestValidateClearsFlags(t *testing.T) {
	p := NewNode("p")
	c := NewRectNode("c", Rect{Width: 1, Height: 1}, ColorWhite)
	_ = p.AddChild(c)
	if !p.ChildBoundsInvalid() {
		t.Fatal("adding a child should mark the parent")
	}
	p.ValidateFullBounds()
	if p.FullBoundsInvalid() || p.ChildBoundsInvalid() || c.FullBoundsInvalid() {
		t.Error("validation should clear every bounds flag in the subtree")
	}
}

// countingObserver counts invalidation calls per node.
type countingObserver struct {
	bounds map[*Node]int
	paint  map[*Node]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{bounds: map[*Node]int{}, paint: map[*Node]int{}}
}

func (o *countingObserver) FullBoundsInvalidated(n *Node) { o.bounds[n]++ }
func (o *countingObserver) PaintInvalidated(n *Node)      { o.paint[n]++ }

func TestInvalidationShortCircuits(t *testing.T) {
	root := NewNode("root")
	mid := NewNode("mid")
	a := NewRectNode("a", Rect{Width: 1, Height: 1}, ColorWhite)
	b := NewRectNode("b", Rect{Width: 1, Height: 1}, ColorWhite)
	_ = root.AddChild(mid)
	_ = mid.AddChild(a)
	_ = mid.AddChild(b)
	root.ValidateFullBounds()
	root.ValidateFullPaint()

	a.SetOffset(1, 0)
	if !mid.ChildBoundsInvalid() || !root.ChildBoundsInvalid() {
		t.Fatal("ancestors should be marked")
	}
	if !mid.ChildPaintInvalid() || !root.ChildPaintInvalid() {
		t.Fatal("ancestors should be marked for paint")
	}

	// Clear only the top marks: a walk that stops at mid leaves them clear.
	root.childBoundsInvalid = false
	root.childPaintInvalid = false

	obs := newCountingObserver()
	SetInvalidationObserver(obs)
	defer ClearInvalidationObserver()

	b.SetOffset(2, 0)
	if root.ChildBoundsInvalid() || root.ChildPaintInvalid() {
		t.Error("the upward walk should stop at the first marked ancestor")
	}
	if obs.bounds[b] != 1 || obs.paint[b] != 1 {
		t.Errorf("b invalidated bounds=%d paint=%d, want 1 and 1", obs.bounds[b], obs.paint[b])
	}
	if obs.bounds[mid] != 0 || obs.bounds[root] != 0 {
		t.Error("ancestors' own full bounds must not be invalidated by a child move")
	}
}

func TestValidateOnlyVisitsInvalidSubtrees(t *testing.T) {
	root := NewNode("root")
	left := NewNode("left")
	right := NewNode("right")
	_ = root.AddChild(left)
	_ = root.AddChild(right)
	la := NewRectNode("la", Rect{Width: 1, Height: 1}, ColorWhite)
	ra := NewRectNode("ra", Rect{Width: 1, Height: 1}, ColorWhite)
	_ = left.AddChild(la)
	_ = right.AddChild(ra)
	root.ValidateFullBounds()

	calls := 0
	right.Layout = func(*Node) { calls++ }
	la.SetOffset(3, 3)
	root.ValidateFullBounds()
	if calls != 0 {
		t.Errorf("clean subtree was visited %d times", calls)
	}

	ra.SetOffset(3, 3)
	root.ValidateFullBounds()
	if calls != 1 {
		t.Errorf("dirty subtree was visited %d times, want 1", calls)
	}
}

// checkFullBounds verifies every node in the subtree is validated and
// caches the union of its bounds and its children's full bounds in the
// parent frame.
func checkFullBounds(t *testing.T, n *Node) {
	t.Helper()
	if n.FullBoundsInvalid() || n.ChildBoundsInvalid() {
		t.Errorf("%s: flags still set after validation", n.Name)
	}
	local := n.Bounds()
	for _, c := range n.Children() {
		local = local.Union(c.FullBounds())
		checkFullBounds(t, c)
	}
	assertRect(t, n.Name+" full", n.FullBounds(), n.Transform().ApplyRect(local))
}

func TestFullBoundsRandomTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for tree := 0; tree < 20; tree++ {
		root := NewRectNode("n0", Rect{Width: 1, Height: 1}, ColorWhite)
		nodes := []*Node{root}
		for i := 1; i < 30; i++ {
			n := NewRectNode(fmt.Sprintf("n%d", i), Rect{
				X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10,
				Width: 1 + rng.Float64()*10, Height: 1 + rng.Float64()*10,
			}, ColorWhite)
			n.SetOffset(rng.Float64()*100-50, rng.Float64()*100-50)
			n.SetRotation(rng.Float64() * 2 * math.Pi)
			_ = n.SetScale(0.25 + rng.Float64()*2)
			_ = nodes[rng.Intn(len(nodes))].AddChild(n)
			nodes = append(nodes, n)
		}
		root.ValidateFullBounds()
		checkFullBounds(t, root)

		for i := 0; i < 10; i++ {
			n := nodes[1+rng.Intn(len(nodes)-1)]
			n.SetOffset(rng.Float64()*100-50, rng.Float64()*100-50)
		}
		root.ValidateFullBounds()
		checkFullBounds(t, root)
		if t.Failed() {
			t.Fatalf("tree %d", tree)
		}
	}
}

type movingSource struct{ r Rect }

func (s *movingSource) Bounds() Rect { return s.r }

func TestVolatileBoundsRecomputedEveryPass(t *testing.T) {
	root := NewNode("root")
	n := NewNode("n")
	src := &movingSource{r: Rect{Width: 10, Height: 10}}
	n.SetBoundsSource(src)
	_ = root.AddChild(n)

	if !root.ValidateFullBounds() {
		t.Error("a subtree with volatile bounds should report volatile")
	}
	assertRect(t, "first", root.FullBounds(), Rect{Width: 10, Height: 10})

	// No invalidation call: the next pass still re-reads the source.
	src.r = Rect{Width: 40, Height: 10}
	root.ValidateFullBounds()
	assertRect(t, "second", root.FullBounds(), Rect{Width: 40, Height: 10})
	if !n.BoundsVolatile() {
		t.Error("BoundsVolatile should be true")
	}
}

func TestVolatileBoundsSignalOncePerCycle(t *testing.T) {
	root, layer, camera, clock := newTestScene(t, 200, 200)
	p := NewNode("p")
	p.SetBoundsSource(&movingSource{r: Rect{Width: 50, Height: 50}})
	c := NewRectNode("c", Rect{Width: 10, Height: 10}, ColorWhite)
	_ = p.AddChild(c)
	_ = layer.AddChild(p)
	signals := 0
	c.OnParentBoundsChanged = func(*Node) { signals++ }

	runCycles(t, root, clock, 10)
	if signals != 1 {
		t.Fatalf("signals after one cycle = %d, want 1", signals)
	}

	// Lazy queries later in the same cycle use the cached bounds.
	camera.FullPaint(NewPaintContext(&recordingSurface{}, Rect{Width: 200, Height: 200}))
	camera.Pick(5, 5, 1)
	_ = p.FullBounds()
	p.ValidateFullBounds()
	if signals != 1 {
		t.Errorf("signals within the cycle = %d, want 1", signals)
	}

	runCycles(t, root, clock, 20)
	if signals != 2 {
		t.Errorf("signals after the next cycle = %d, want 2", signals)
	}
}

func TestParentBoundsChangedHook(t *testing.T) {
	p := NewNode("p")
	c := NewNode("c")
	_ = p.AddChild(c)
	calls := 0
	c.OnParentBoundsChanged = func(*Node) { calls++ }
	p.SetBounds(Rect{Width: 5, Height: 5})
	p.SetOffset(1, 1)
	if calls != 2 {
		t.Errorf("hook called %d times, want 2", calls)
	}
}

func TestSetBoundsReportsChange(t *testing.T) {
	n := NewNode("n")
	if !n.SetBounds(Rect{Width: 1, Height: 1}) {
		t.Error("first SetBounds should report a change")
	}
	if n.SetBounds(Rect{Width: 1, Height: 1}) {
		t.Error("identical SetBounds should report no change")
	}
	n.CenterBoundsOnPoint(0, 0)
	assertRect(t, "centered", n.Bounds(), Rect{X: -0.5, Y: -0.5, Width: 1, Height: 1})
}

// --- Appearance ---

func TestSetTransparencyClampsAndCoalesces(t *testing.T) {
	n := NewNode("n")
	n.SetTransparency(2)
	if n.Transparency() != 1 {
		t.Errorf("Transparency = %v, want 1", n.Transparency())
	}
	n.SetTransparency(0.5)
	n.ValidateFullPaint()

	n.SetTransparency(0.505)
	if n.Transparency() != 0.5 {
		t.Errorf("tiny change applied: %v", n.Transparency())
	}
	if n.PaintInvalid() {
		t.Error("tiny change should not invalidate paint")
	}
	n.SetTransparency(-3)
	if n.Transparency() != 0 {
		t.Errorf("Transparency = %v, want 0", n.Transparency())
	}
}

func TestPropertyChangeNotifications(t *testing.T) {
	n := NewNode("n")
	var got []Property
	n.OnPropertyChange = func(_ *Node, p Property) { got = append(got, p) }

	n.SetPaint(ColorWhite)
	n.SetPaint(ColorWhite) // unchanged
	n.SetVisible(false)
	n.SetPickable(false)
	n.SetOffset(1, 1)

	want := []Property{PropertyPaint, PropertyVisible, PropertyPickable, PropertyTransform}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNodeRootLookup(t *testing.T) {
	root, layer, camera := NewBasicScene()
	n := NewNode("n")
	if n.Root() != nil {
		t.Error("detached node should have no root")
	}
	_ = layer.AddChild(n)
	if n.Root() != root || camera.Root() != root {
		t.Error("attached nodes should find the root")
	}
	if _, ok := camera.AsCamera(); !ok {
		t.Error("camera node should report AsCamera")
	}
	if _, ok := layer.AsLayer(); !ok {
		t.Error("layer node should report AsLayer")
	}
	if _, ok := n.AsCamera(); ok {
		t.Error("plain node is not a camera")
	}
}
