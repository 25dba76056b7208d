package sharc

import (
	"maps"
	"math"

	"github.com/fogleman/gg"
)

// DrawFunc paints a node in its local frame (origin at the node's center)
// and returns the hit region it covered. Returning nil keeps the previous
// region. It must not retain the surface or the props beyond the call.
type DrawFunc func(s Surface, p Props) Region

// Props is the resolved property bag handed to a node's DrawFunc and Effect.
type Props struct {
	Name    string
	Width   float64
	Height  float64
	Opacity float64 // own opacity times every ancestor's
	Paint   gg.Pattern
	values  map[string]any
}

// Value returns a custom property.
func (p Props) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Float returns a numeric custom property, or 0.
func (p Props) Float(name string) float64 {
	f, _ := p.values[name].(float64)
	return f
}

// Color returns a color custom property, or the zero color.
func (p Props) Color(name string) Color {
	c, _ := p.values[name].(Color)
	return c
}

// Vec returns a point custom property, or the zero point.
func (p Props) Vec(name string) Vec2 {
	v, _ := p.values[name].(Vec2)
	return v
}

// Result is a listener's verdict on its own registration.
type Result uint8

const (
	Continue Result = iota // keep the listener
	Detach                 // remove the listener after this invocation
)

// Listener handles a node event. The node is passed explicitly.
type Listener func(n *Node, e Event) Result

// ListenerID identifies a registered listener for Off.
type ListenerID uint32

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Node is a scene tree element: a frame given by two corners, a rotation and
// scale about its center, a paint step and ordered children.
type Node struct {
	Name    string
	Enabled bool

	// Geometry in the parent's frame.
	Corner1  Vec2
	Corner2  Vec2
	Rotation float64 // degrees, about the center
	Scale    Vec2    // about the center

	Opacity float64
	Paint   gg.Pattern               // optional fill override handed to Painter
	Effect  func(s Surface, p Props) // applied before Painter
	Painter DrawFunc
	Details any

	parent   *Node
	children []*Node
	props    map[string]any

	channels     [NumChannels]Channel
	listeners    [numEventKinds][]listenerEntry
	nextListener ListenerID

	region    Region
	pointerID int
	hovered   bool
	frames    int
}

func nodeDefaults(n *Node) {
	n.Enabled = true
	n.Scale = Vec2{1, 1}
	n.Opacity = 1
	n.pointerID = NoPointer
	for i := range n.channels {
		n.channels[i].index = i
	}
}

// NewContainer creates a node with no paint step. Its region stays nil, so
// it never takes pointer hits itself.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewNode creates a node spanning the corners c1 and c2 painted by draw.
func NewNode(name string, c1, c2 Vec2, draw DrawFunc) *Node {
	n := &Node{Name: name, Corner1: c1, Corner2: c2, Painter: draw}
	nodeDefaults(n)
	return n
}

// --- Geometry ---

// Center returns the midpoint of the corners.
func (n *Node) Center() Vec2 {
	return Vec2{(n.Corner1.X + n.Corner2.X) / 2, (n.Corner1.Y + n.Corner2.Y) / 2}
}

// Width returns the horizontal extent of the corners.
func (n *Node) Width() float64 { return math.Abs(n.Corner2.X - n.Corner1.X) }

// Height returns the vertical extent of the corners.
func (n *Node) Height() float64 { return math.Abs(n.Corner2.Y - n.Corner1.Y) }

// SetCenter moves both corners so the center lands on c.
func (n *Node) SetCenter(c Vec2) {
	d := c.Sub(n.Center())
	n.Corner1 = n.Corner1.Add(d)
	n.Corner2 = n.Corner2.Add(d)
}

// SetWidth resizes horizontally about the center.
func (n *Node) SetWidth(w float64) {
	cx := n.Center().X
	sign := 1.0
	if n.Corner2.X < n.Corner1.X {
		sign = -1
	}
	n.Corner1.X = cx - sign*w/2
	n.Corner2.X = cx + sign*w/2
}

// SetHeight resizes vertically about the center.
func (n *Node) SetHeight(h float64) {
	cy := n.Center().Y
	sign := 1.0
	if n.Corner2.Y < n.Corner1.Y {
		sign = -1
	}
	n.Corner1.Y = cy - sign*h/2
	n.Corner2.Y = cy + sign*h/2
}

// --- State ---

// Channel returns animation channel i.
func (n *Node) Channel(i int) *Channel {
	return &n.channels[i]
}

// PointerID returns the pointer currently claimed by the node, or NoPointer.
func (n *Node) PointerID() int { return n.pointerID }

// Hovered reports the node's hover state as of its last dispatch.
func (n *Node) Hovered() bool { return n.hovered }

// Region returns the hit region produced by the node's last draw.
func (n *Node) Region() Region { return n.region }

// Frames returns how many times the node has been drawn.
func (n *Node) Frames() int { return n.frames }

// --- Listeners ---

// On registers fn for events of the given kind and returns its ID.
func (n *Node) On(kind EventKind, fn Listener) ListenerID {
	if fn == nil {
		panic("sharc: nil listener")
	}
	n.nextListener++
	id := n.nextListener
	n.listeners[kind] = append(n.listeners[kind], listenerEntry{id: id, fn: fn})
	return id
}

// Off removes the listener with the given ID. No-op if absent.
func (n *Node) Off(kind EventKind, id ListenerID) {
	s := n.listeners[kind]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listenerEntry{}
			n.listeners[kind] = s[:len(s)-1]
			return
		}
	}
}

// HasListeners reports whether any listener is registered for kind.
func (n *Node) HasListeners(kind EventKind) bool {
	return len(n.listeners[kind]) > 0
}

func (n *Node) hasInteractiveListeners() bool {
	for k := EventKind(0); k < numEventKinds; k++ {
		if k.interactive() && len(n.listeners[k]) > 0 {
			return true
		}
	}
	return false
}

// emit invokes every listener for kind against a snapshot of the list.
func (n *Node) emit(f *Frame, kind EventKind, e Event) {
	if len(n.listeners[kind]) == 0 {
		return
	}
	e.Kind = kind
	e.Frame = f
	list := append([]listenerEntry(nil), n.listeners[kind]...)
	for _, l := range list {
		switch r := l.fn(n, e); r {
		case Continue:
		case Detach:
			n.Off(kind, l.id)
		default:
			f.logger().Warn("listener returned an unknown result", "node", n.Name, "event", kind, "result", r)
		}
	}
}

// --- Drawing ---

// Draw renders n and its subtree onto s for frame f, then runs the frame's
// deferred pointer claim. It is the root invocation; a nil frame draws with
// no input.
func (n *Node) Draw(s Surface, f *Frame) error {
	if f == nil {
		f = &Frame{}
	}
	if err := n.draw(s, f, nil); err != nil {
		return err
	}
	f.flush()
	return nil
}

func (n *Node) draw(s Surface, f *Frame, inherited *Props) error {
	if !n.Enabled {
		return nil
	}
	n.frames++
	n.emit(f, EventBeforeDraw, Event{})
	if err := n.advance(f); err != nil {
		return err
	}

	s.Push()
	defer s.Pop()

	c := n.Center()
	s.Translate(c.X, c.Y)
	s.Rotate(n.Rotation * math.Pi / 180)
	s.Scale(n.Scale.X, n.Scale.Y)

	props := n.resolveProps(inherited)
	if n.Effect != nil {
		n.Effect(s, props)
	}
	if n.Painter != nil {
		if r := n.Painter(s, props); r != nil {
			n.region = r
		}
	}
	for _, child := range n.Children() {
		if err := child.draw(s, f, &props); err != nil {
			return err
		}
	}
	n.dispatch(s, f)
	return nil
}

// advance steps every channel once and applies the active tweens.
func (n *Node) advance(f *Frame) error {
	for i := range n.channels {
		a := n.channels[i].StepForward()
		if a == nil {
			continue
		}
		if err := n.applyAnimation(f, a); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) resolveProps(inherited *Props) Props {
	p := Props{
		Name:    n.Name,
		Width:   n.Width(),
		Height:  n.Height(),
		Opacity: n.Opacity,
		Paint:   n.Paint,
		values:  n.props,
	}
	if inherited != nil {
		p.Opacity *= inherited.Opacity
	}
	return p
}

// --- Tree manipulation ---

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Root returns the topmost ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	n.attach(child, -1)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	n.attach(child, index)
}

// attach reparents child under n at index; -1 appends.
func (n *Node) attach(child *Node, index int) {
	if child == nil {
		panic("sharc: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("sharc: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	if index == -1 {
		index = len(n.children)
	}
	if index < 0 || index > len(n.children) {
		child.parent = nil
		panic("sharc: child index out of range")
	}
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	if globalDebug.Load() {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child's parent is not n.
func (n *Node) RemoveChild(child *Node) {
	if child.parent != n {
		panic("sharc: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.parent = nil
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("sharc: child index out of range")
	}
	child := n.children[index]
	n.RemoveChild(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
func (n *Node) RemoveChildren() {
	for i, child := range n.children {
		child.parent = nil
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// RemoveNamed detaches every node called name, searching only direct
// children unless recursive is set. It returns the detached nodes.
func (n *Node) RemoveNamed(name string, recursive bool) []*Node {
	var found []*Node
	if recursive {
		found = n.FindAll(name)
	} else {
		for _, c := range n.children {
			if c.Name == name {
				found = append(found, c)
			}
		}
	}
	for _, c := range found {
		c.RemoveFromParent()
	}
	return found
}

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	return append([]*Node(nil), n.children...)
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// ChildIndex returns the index of child among n's children, or -1.
func (n *Node) ChildIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetChildIndex moves child to a new index among its siblings. The other
// siblings keep their relative order.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.parent != n {
		panic("sharc: child's parent is not this node")
	}
	if index < 0 || index >= len(n.children) {
		panic("sharc: child index out of range")
	}
	oldIndex := n.ChildIndex(child)
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// BringToFront moves n to the end of its parent's children so it paints last.
func (n *Node) BringToFront() {
	if n.parent != nil {
		n.parent.SetChildIndex(n, len(n.parent.children)-1)
	}
}

// SendToBack moves n to the start of its parent's children so it paints first.
func (n *Node) SendToBack() {
	if n.parent != nil {
		n.parent.SetChildIndex(n, 0)
	}
}

// FindChild returns the first direct child called name, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find returns the first descendant called name in paint order, or nil.
func (n *Node) Find(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if d := c.Find(name); d != nil {
			return d
		}
	}
	return nil
}

// FindAll returns every descendant called name in paint order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.walk(func(d *Node) {
		if d != n && d.Name == name {
			out = append(out, d)
		}
	})
	return out
}

// Descendants returns a snapshot of every node below n in paint order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.walk(func(d *Node) {
		if d != n {
			out = append(out, d)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// --- Copy ---

// Copy returns a detached deep copy of n: same properties and geometry,
// fresh idle channels, the same listeners (which receive the copy as their
// node argument), and recursively copied children.
func (n *Node) Copy() *Node {
	c := &Node{
		Name:         n.Name,
		Enabled:      n.Enabled,
		Corner1:      n.Corner1,
		Corner2:      n.Corner2,
		Rotation:     n.Rotation,
		Scale:        n.Scale,
		Opacity:      n.Opacity,
		Paint:        n.Paint,
		Effect:       n.Effect,
		Painter:      n.Painter,
		Details:      n.Details,
		nextListener: n.nextListener,
	}
	nodeDefaults(c)
	c.Enabled = n.Enabled
	c.Scale = n.Scale
	c.Opacity = n.Opacity
	if n.props != nil {
		c.props = make(map[string]any, len(n.props))
		for k, v := range n.props {
			if b, ok := v.(Bag); ok {
				v = maps.Clone(b)
			}
			c.props[k] = v
		}
	}
	for k := range n.listeners {
		c.listeners[k] = append([]listenerEntry(nil), n.listeners[k]...)
	}
	for _, child := range n.children {
		cc := child.Copy()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
