package demo

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	sharc "github.com/gitpushjoe/sharc-sub000"
)

func newDemoStage(t *testing.T) *sharc.Stage {
	t.Helper()
	cfg := sharc.DefaultConfig()
	cfg.CenterRoot = true
	logger := log.NewWithOptions(new(strings.Builder), log.Options{Level: log.FatalLevel})
	return sharc.NewStage(sharc.NewGGSurface(400, 400), cfg, sharc.WithLogger(logger))
}

func renderFrames(t *testing.T, s *sharc.Stage, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.RenderFrame(); err != nil {
			t.Fatalf("RenderFrame %d: %v", i, err)
		}
	}
}

func TestBuildScene(t *testing.T) {
	s := newDemoStage(t)
	Build(s, nil)
	for _, name := range []string{"box0", "box1", "box2", "dial", "needle", "spinner"} {
		if s.Root().Find(name) == nil {
			t.Errorf("node %q missing", name)
		}
	}
}

func TestClickNotifiesAndFocuses(t *testing.T) {
	s := newDemoStage(t)
	var got []string
	Build(s, func(ev string) { got = append(got, ev) })

	// box1 sits at root (0, -80); the root is centered at (200, 200).
	s.InjectPress(200, 120)
	renderFrames(t, s, 1)
	if s.KeyTarget() != "box1" {
		t.Errorf("KeyTarget = %q, want box1", s.KeyTarget())
	}
	s.InjectRelease(200, 120)
	renderFrames(t, s, 1)

	want := []string{"box1 clicked", "box1 released"}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notifications[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if s.KeyTarget() != "" {
		t.Errorf("KeyTarget after release = %q, want empty", s.KeyTarget())
	}
}

func TestDragMovesBox(t *testing.T) {
	s := newDemoStage(t)
	Build(s, nil)
	box := s.Root().Find("box0")
	before := box.Center()

	// box0 sits at root (-140, -80).
	s.InjectDrag(60, 120, 90, 140, 4)
	renderFrames(t, s, 4)

	after := box.Center()
	if d := after.Sub(before); d.X < 19.9 || d.X > 20.1 || d.Y < 13.2 || d.Y > 13.4 {
		t.Errorf("moved by %v, want about {20 13.33}", d)
	}
}

func TestSpinnerLoops(t *testing.T) {
	s := newDemoStage(t)
	Build(s, nil)
	spinner := s.Root().Find("spinner")
	renderFrames(t, s, 200)
	if spinner.Channel(0).Idle() {
		t.Error("looping spinner channel went idle")
	}
	if r := spinner.Rotation; r <= 0 || r >= 360 {
		t.Errorf("Rotation = %v, want within (0, 360)", r)
	}
}

func TestRejectedUpdateIsLogged(t *testing.T) {
	var buf strings.Builder
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	s := sharc.NewStage(sharc.NewGGSurface(100, 100), sharc.DefaultConfig(), sharc.WithLogger(logger))
	n := sharc.NewRect("box", sharc.Vec2{}, sharc.Vec2{X: 10, Y: 10}, sharc.ColorBlack)

	warn(s, n, n.Set("fill", sharc.ColorWhite))
	if buf.Len() != 0 {
		t.Fatalf("accepted update logged: %q", buf.String())
	}

	warn(s, n, n.Set("nosuch", 1.0))
	out := buf.String()
	for _, want := range []string{"WARN", "scene update rejected", "box", "nosuch"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}
