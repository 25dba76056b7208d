package sharc

import (
	"bytes"
	"math"
	"testing"

	"github.com/charmbracelet/log"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func approxVec(a, b Vec2) bool { return approx(a.X, b.X) && approx(a.Y, b.Y) }

// newTestStage returns a stage on a w x h off-screen surface, driven by a
// ManualScheduler, logging into the returned buffer.
func newTestStage(t *testing.T, w, h int, opts ...Option) (*Stage, *ManualScheduler, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	logger := log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
	sched := &ManualScheduler{}
	cfg := DefaultConfig()
	cfg.ScreenshotDir = t.TempDir()
	opts = append([]Option{WithLogger(logger), WithScheduler(sched)}, opts...)
	s := NewStage(NewGGSurface(w, h), cfg, opts...)
	return s, sched, buf
}

func renderN(t *testing.T, s *Stage, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.RenderFrame(); err != nil {
			t.Fatalf("RenderFrame: %v", err)
		}
	}
}

// box returns a rect node spanning (x0, y0)-(x1, y1).
func box(name string, x0, y0, x1, y1 float64) *Node {
	return NewRect(name, Vec2{x0, y0}, Vec2{x1, y1}, ColorBlack)
}

// record registers a listener for kind that appends events to the returned slice.
func record(n *Node, kind EventKind) *[]Event {
	var got []Event
	n.On(kind, func(_ *Node, e Event) Result {
		got = append(got, e)
		return Continue
	})
	return &got
}
