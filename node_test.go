package sharc

import (
	"reflect"
	"testing"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestAddChildReparents(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("b")
	c := NewContainer("c")
	a.AddChild(c)
	b.AddChild(c)
	if c.Parent() != b {
		t.Errorf("Parent = %v, want b", c.Parent().Name)
	}
	if a.NumChildren() != 0 || b.NumChildren() != 1 {
		t.Errorf("children a=%d b=%d, want 0 and 1", a.NumChildren(), b.NumChildren())
	}
	if c.Root() != b {
		t.Errorf("Root = %s, want b", c.Root().Name)
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("cycle did not panic")
		}
	}()
	b.AddChild(a)
}

func TestAddSelfPanics(t *testing.T) {
	a := NewContainer("a")
	defer func() {
		if recover() == nil {
			t.Error("self add did not panic")
		}
	}()
	a.AddChild(a)
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("b")
	defer func() {
		if recover() == nil {
			t.Error("RemoveChild of a stranger did not panic")
		}
	}()
	a.RemoveChild(b)
}

func TestAddChildAtAndIndex(t *testing.T) {
	p := NewContainer("p")
	for _, n := range []string{"a", "b", "c"} {
		p.AddChild(NewContainer(n))
	}
	p.AddChildAt(NewContainer("x"), 1)
	if got := names(p.Children()); !reflect.DeepEqual(got, []string{"a", "x", "b", "c"}) {
		t.Errorf("children = %v", got)
	}

	p.SetChildIndex(p.ChildAt(0), 3)
	if got := names(p.Children()); !reflect.DeepEqual(got, []string{"x", "b", "c", "a"}) {
		t.Errorf("after SetChildIndex forward: %v", got)
	}
	p.SetChildIndex(p.ChildAt(2), 0)
	if got := names(p.Children()); !reflect.DeepEqual(got, []string{"c", "x", "b", "a"}) {
		t.Errorf("after SetChildIndex back: %v", got)
	}

	p.FindChild("x").BringToFront()
	p.FindChild("a").SendToBack()
	if got := names(p.Children()); !reflect.DeepEqual(got, []string{"a", "c", "b", "x"}) {
		t.Errorf("after BringToFront/SendToBack: %v", got)
	}

	if got := p.RemoveChildAt(1); got.Name != "c" || got.Parent() != nil {
		t.Errorf("RemoveChildAt(1) = %s with parent %v", got.Name, got.Parent())
	}
}

func TestChildrenIsSnapshot(t *testing.T) {
	p := NewContainer("p")
	p.AddChild(NewContainer("a"))
	kids := p.Children()
	p.RemoveChildren()
	if len(kids) != 1 || kids[0].Parent() != nil {
		t.Errorf("snapshot len = %d, parent = %v", len(kids), kids[0].Parent())
	}
}

func TestFindAndRemoveNamed(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("dup")
	b := NewContainer("mid")
	c := NewContainer("dup")
	root.AddChild(a)
	root.AddChild(b)
	b.AddChild(c)

	if root.Find("dup") != a {
		t.Error("Find did not return the first node in paint order")
	}
	if got := root.FindAll("dup"); len(got) != 2 || got[1] != c {
		t.Errorf("FindAll = %v", names(got))
	}
	if got := names(root.Descendants()); !reflect.DeepEqual(got, []string{"dup", "mid", "dup"}) {
		t.Errorf("Descendants = %v", got)
	}

	if got := root.RemoveNamed("dup", false); len(got) != 1 || got[0] != a {
		t.Errorf("RemoveNamed shallow = %v", names(got))
	}
	if c.Parent() != b {
		t.Error("shallow RemoveNamed detached a grandchild")
	}
	if got := root.RemoveNamed("dup", true); len(got) != 1 || got[0] != c {
		t.Errorf("RemoveNamed recursive = %v", names(got))
	}
	if b.NumChildren() != 0 {
		t.Error("recursive RemoveNamed left the grandchild")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	orig := box("orig", 0, 0, 10, 10)
	orig.Declare("offset", Bag{"u": 1})
	orig.AddChild(box("kid", 0, 0, 2, 2))
	var seen *Node
	orig.On(EventBeforeDraw, func(n *Node, _ Event) Result {
		seen = n
		return Continue
	})
	_ = orig.Channel(0).Push([]Animation{{Property: "width", To: 20.0}}, PackageOptions{})

	cp := orig.Copy()
	if cp.Parent() != nil {
		t.Error("copy is attached")
	}
	if !cp.Channel(0).Idle() {
		t.Error("copy inherited queued animations")
	}
	if cp.NumChildren() != 1 || cp.ChildAt(0) == orig.ChildAt(0) || cp.ChildAt(0).Parent() != cp {
		t.Error("children not deep copied")
	}

	_ = cp.Set("offset", Bag{"u": 5})
	_ = cp.Set("fill", ColorWhite)
	if v, _ := orig.Lookup("offset"); v.(Bag)["u"] != 1 {
		t.Error("bag shared between copy and original")
	}
	if v, _ := orig.Lookup("fill"); v != ColorBlack {
		t.Error("fill shared between copy and original")
	}

	if err := cp.Draw(NewGGSurface(20, 20), nil); err != nil {
		t.Fatal(err)
	}
	if seen != cp {
		t.Error("copied listener did not receive the copy")
	}
}

func TestListenerDetach(t *testing.T) {
	n := NewContainer("n")
	calls := 0
	n.On(EventBeforeDraw, func(*Node, Event) Result {
		calls++
		return Detach
	})
	s := NewGGSurface(4, 4)
	for i := 0; i < 3; i++ {
		_ = n.Draw(s, nil)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.HasListeners(EventBeforeDraw) {
		t.Error("listener still registered")
	}
}

func TestListenerOff(t *testing.T) {
	n := NewContainer("n")
	calls := 0
	id := n.On(EventBeforeDraw, func(*Node, Event) Result {
		calls++
		return Continue
	})
	s := NewGGSurface(4, 4)
	_ = n.Draw(s, nil)
	n.Off(EventBeforeDraw, id)
	n.Off(EventBeforeDraw, id)
	_ = n.Draw(s, nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestListenerAddedDuringEmitWaits(t *testing.T) {
	n := NewContainer("n")
	late := 0
	n.On(EventBeforeDraw, func(n *Node, _ Event) Result {
		n.On(EventBeforeDraw, func(*Node, Event) Result {
			late++
			return Continue
		})
		return Detach
	})
	_ = n.Draw(NewGGSurface(4, 4), nil)
	if late != 0 {
		t.Errorf("listener added mid-emit ran %d times in the same emit", late)
	}
}

func TestDisabledNodeSkipped(t *testing.T) {
	p := NewContainer("p")
	c := NewContainer("c")
	p.AddChild(c)
	c.Enabled = false
	_ = p.Draw(NewGGSurface(4, 4), nil)
	if c.Frames() != 0 || p.Frames() != 1 {
		t.Errorf("frames p=%d c=%d, want 1 and 0", p.Frames(), c.Frames())
	}
}

func TestOpacityInherited(t *testing.T) {
	p := NewContainer("p")
	p.Opacity = 0.5
	c := NewNode("c", Vec2{}, Vec2{2, 2}, nil)
	c.Opacity = 0.5
	var got float64
	c.Painter = func(_ Surface, props Props) Region {
		got = props.Opacity
		return nil
	}
	p.AddChild(c)
	_ = p.Draw(NewGGSurface(4, 4), nil)
	if !approx(got, 0.25) {
		t.Errorf("Opacity = %v, want 0.25", got)
	}
}

func TestSetWidthKeepsCenter(t *testing.T) {
	n := box("b", 10, 0, 0, 4) // flipped corners
	n.SetWidth(20)
	if n.Center() != (Vec2{5, 2}) || n.Width() != 20 {
		t.Errorf("Center = %v, Width = %v", n.Center(), n.Width())
	}
	if n.Corner1.X < n.Corner2.X {
		t.Error("SetWidth unflipped the corners")
	}
}
