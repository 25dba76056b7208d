package sharc

import "testing"

func TestInjectDrag(t *testing.T) {
	s, _, _ := newTestStage(t, 100, 100)
	n := box("n", 0, 0, 20, 20)
	s.Root().AddChild(n)
	n.On(EventDrag, func(n *Node, e Event) Result {
		n.SetCenter(n.Center().Add(Vec2{10, 0}))
		return Continue
	})
	drags := record(n, EventDrag)
	releases := record(n, EventRelease)

	s.InjectDrag(10, 10, 40, 10, 4)
	if got := s.pendingInjections(); got != 4 {
		t.Fatalf("pendingInjections = %d, want 4", got)
	}
	renderN(t, s, 4)

	if len(*drags) != 2 || len(*releases) != 1 {
		t.Fatalf("drags %d, releases %d; want 2 and 1", len(*drags), len(*releases))
	}
	if got := (*drags)[1].Device; !approxVec(got, Vec2{30, 10}) {
		t.Errorf("second drag Device = %v, want (30, 10)", got)
	}
	if n.Center() != (Vec2{30, 10}) {
		t.Errorf("Center = %v, want (30, 10)", n.Center())
	}
	if s.pendingInjections() != 0 {
		t.Error("injections left over")
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	s, _, _ := newTestStage(t, 10, 10)
	s.InjectDrag(0, 0, 5, 5, 0)
	if got := s.pendingInjections(); got != 2 {
		t.Errorf("pendingInjections = %d, want 2", got)
	}
}

func TestInjectOnePerFrame(t *testing.T) {
	s, _, _ := newTestStage(t, 100, 100)
	n := box("n", 0, 0, 40, 40)
	s.Root().AddChild(n)
	downs := record(n, EventKeyDown)
	ups := record(n, EventKeyUp)
	s.SetKeyTarget("n")

	s.InjectKey("q", "KeyQ")
	renderN(t, s, 1)
	if len(*downs) != 1 || len(*ups) != 0 {
		t.Fatalf("frame 1: downs %d, ups %d", len(*downs), len(*ups))
	}
	renderN(t, s, 1)
	if len(*ups) != 1 {
		t.Errorf("frame 2: ups %d, want 1", len(*ups))
	}
}

func TestInjectPressMoveRelease(t *testing.T) {
	s, _, _ := newTestStage(t, 100, 100)
	n := box("n", 0, 0, 40, 40)
	s.Root().AddChild(n)
	clicks := record(n, EventClick)
	drags := record(n, EventDrag)
	releases := record(n, EventRelease)

	s.InjectPress(5, 5)
	s.InjectMove(6, 6)
	s.InjectRelease(7, 7)
	renderN(t, s, 3)
	if len(*clicks) != 1 || len(*drags) != 1 || len(*releases) != 1 {
		t.Errorf("click/drag/release = %d/%d/%d", len(*clicks), len(*drags), len(*releases))
	}
}
