package sharc

import "github.com/charmbracelet/log"

// PointerEvent is a pointer observation in a frame. Point is in surface
// coordinates (device point mapped through the canvas geometry).
type PointerEvent struct {
	PointerID int
	Point     Vec2
	Raw       InputEvent

	// stale observations were carried over from an earlier frame. They
	// count for hover but never claim, click, drag or release.
	stale bool
}

// Stale reports whether the observation was carried over from an earlier frame.
func (p *PointerEvent) Stale() bool { return p.stale }

// KeyEvent is a keyboard observation in a frame.
type KeyEvent struct {
	Key  string
	Code string
	Raw  InputEvent
}

// ScrollEvent is a wheel observation in a frame.
type ScrollEvent struct {
	Point Vec2
	Delta Vec2
	Raw   InputEvent
}

// Frame is the per-frame event bag. It holds at most one observation of each
// kind and lives for exactly one draw pass.
type Frame struct {
	Number int

	Down *PointerEvent
	Up   *PointerEvent
	Move *PointerEvent

	KeyDown *KeyEvent
	KeyUp   *KeyEvent
	Scroll  *ScrollEvent

	// Focus targets as of the start of the frame.
	KeyTarget    string
	ScrollTarget string

	// Stage is the loop owner, or nil when a tree is drawn directly.
	Stage *Stage

	// pending is the pointer claim deferred to the end of the draw pass.
	// Later hits overwrite earlier ones, so the last node to hit wins.
	pending func()
}

func (f *Frame) logger() *log.Logger {
	if f != nil && f.Stage != nil {
		return f.Stage.logger
	}
	return log.Default()
}

func fresh(p *PointerEvent) *PointerEvent {
	if p == nil || p.stale {
		return nil
	}
	return p
}

// hasInteraction reports whether the bag carries anything dispatch reacts to.
func (f *Frame) hasInteraction() bool {
	return f.Down != nil || f.Up != nil || f.Move != nil ||
		f.KeyDown != nil || f.KeyUp != nil || f.Scroll != nil
}

// pointers returns the present pointer observations, most recent kind last.
func (f *Frame) pointers() []*PointerEvent {
	out := make([]*PointerEvent, 0, 3)
	for _, p := range [...]*PointerEvent{f.Down, f.Up, f.Move} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// flush runs the deferred pointer claim, if any.
func (f *Frame) flush() {
	if f.pending != nil {
		claim := f.pending
		f.pending = nil
		claim()
	}
}

// Event is delivered to listeners. Positions are in the receiving node's
// local frame; Device is the same point in surface coordinates.
type Event struct {
	Kind      EventKind
	Position  Vec2
	Device    Vec2
	PointerID int
	Key       string
	Code      string
	Delta     Vec2
	Animation *Animation // EventAnimationFinish only
	Frame     *Frame
}
