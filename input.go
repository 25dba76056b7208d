package sharc

// InputKind names a device event. The values double as wire names.
type InputKind string

const (
	InputPointerDown InputKind = "pointerdown"
	InputPointerUp   InputKind = "pointerup"
	InputPointerMove InputKind = "pointermove"
	InputKeyDown     InputKind = "keydown"
	InputKeyUp       InputKind = "keyup"
	InputWheel       InputKind = "wheel"
)

// InputEvent is a raw device event in client (window) coordinates. It is
// plain data and safe to serialize or send between goroutines.
type InputEvent struct {
	Kind      InputKind `json:"kind"`
	PointerID int       `json:"pointerId,omitempty"`
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
	Key       string    `json:"key,omitempty"`
	Code      string    `json:"code,omitempty"`
	DeltaX    float64   `json:"deltaX,omitempty"`
	DeltaY    float64   `json:"deltaY,omitempty"`
}

// CanvasProperties describes where the visible surface sits in its window.
// A background renderer cannot query this and receives it with each state
// update.
type CanvasProperties struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Bounds  Rect    `json:"bounds"`
}

// ToSurface maps a client point to surface pixels. With a bounding rect the
// point is scaled from the displayed size to the surface size; otherwise
// only the offset is removed.
func (c CanvasProperties) ToSurface(x, y float64) Vec2 {
	if c.Bounds.Width > 0 && c.Bounds.Height > 0 && c.Width > 0 && c.Height > 0 {
		return Vec2{
			(x - c.Bounds.X) * float64(c.Width) / c.Bounds.Width,
			(y - c.Bounds.Y) * float64(c.Height) / c.Bounds.Height,
		}
	}
	return Vec2{x - c.OffsetX, y - c.OffsetY}
}

// Dispatch queues a device event for the next frame. Safe for concurrent use.
func (s *Stage) Dispatch(ev InputEvent) {
	s.mu.Lock()
	s.input = append(s.input, ev)
	s.mu.Unlock()
}

// PointerDown queues a pointer press at client coordinates (x, y).
func (s *Stage) PointerDown(id int, x, y float64) {
	s.Dispatch(InputEvent{Kind: InputPointerDown, PointerID: id, X: x, Y: y})
}

// PointerUp queues a pointer release at client coordinates (x, y).
func (s *Stage) PointerUp(id int, x, y float64) {
	s.Dispatch(InputEvent{Kind: InputPointerUp, PointerID: id, X: x, Y: y})
}

// PointerMove queues a pointer move to client coordinates (x, y).
func (s *Stage) PointerMove(id int, x, y float64) {
	s.Dispatch(InputEvent{Kind: InputPointerMove, PointerID: id, X: x, Y: y})
}

// KeyDown queues a key press.
func (s *Stage) KeyDown(key, code string) {
	s.Dispatch(InputEvent{Kind: InputKeyDown, Key: key, Code: code})
}

// KeyUp queues a key release.
func (s *Stage) KeyUp(key, code string) {
	s.Dispatch(InputEvent{Kind: InputKeyUp, Key: key, Code: code})
}

// Wheel queues a scroll of (dx, dy) at client coordinates (x, y).
func (s *Stage) Wheel(x, y, dx, dy float64) {
	s.Dispatch(InputEvent{Kind: InputWheel, X: x, Y: y, DeltaX: dx, DeltaY: dy})
}

// ApplyState replaces the canvas geometry and queues a batch of events, as
// received from the context that owns the visible surface.
func (s *Stage) ApplyState(events []InputEvent, canvas CanvasProperties) {
	s.mu.Lock()
	s.canvas = canvas
	s.input = append(s.input, events...)
	s.mu.Unlock()
}

// SetCanvas replaces the canvas geometry used to map client points.
func (s *Stage) SetCanvas(c CanvasProperties) {
	s.mu.Lock()
	s.canvas = c
	s.mu.Unlock()
}

// buildFrame drains pending input into a new event bag. Pointer observations
// not refreshed this frame are carried over as stale; keyboard and wheel
// events are never carried. Events that would give the bag a second fresh
// observation of a kind (or a press and release of the same frame) wait for
// the next frame.
func (s *Stage) buildFrame() *Frame {
	if s.script != nil {
		s.script.step(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f := &Frame{
		Number:       s.number,
		KeyTarget:    s.keyTarget,
		ScrollTarget: s.scrollTarget,
		Stage:        s,
	}
	f.Down = carry(s.prev.Down)
	f.Up = carry(s.prev.Up)
	f.Move = carry(s.prev.Move)

	pending := s.input
	if len(s.injectQueue) > 0 {
		pending = append([]InputEvent{s.injectQueue[0]}, pending...)
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	}

	consumed := 0
	for _, ev := range pending {
		if !s.applyInput(f, ev) {
			break
		}
		consumed++
	}
	s.input = append(s.input[:0:0], pending[consumed:]...)

	s.prev = Frame{Down: f.Down, Up: f.Up, Move: f.Move}
	return f
}

func carry(p *PointerEvent) *PointerEvent {
	if p == nil {
		return nil
	}
	c := *p
	c.stale = true
	return &c
}

// applyInput folds ev into f. It returns false when ev must wait for the
// next frame.
func (s *Stage) applyInput(f *Frame, ev InputEvent) bool {
	pt := s.canvas.ToSurface(ev.X, ev.Y)
	switch ev.Kind {
	case InputPointerDown:
		if fresh(f.Down) != nil || fresh(f.Up) != nil {
			return false
		}
		f.Down = &PointerEvent{PointerID: ev.PointerID, Point: pt, Raw: ev}
		f.Up = nil
	case InputPointerUp:
		if fresh(f.Up) != nil || fresh(f.Down) != nil {
			return false
		}
		f.Up = &PointerEvent{PointerID: ev.PointerID, Point: pt, Raw: ev}
		f.Down = nil
	case InputPointerMove:
		f.Move = &PointerEvent{PointerID: ev.PointerID, Point: pt, Raw: ev}
		if f.Up != nil && f.Up.stale {
			f.Up = nil
		}
	case InputKeyDown:
		if f.KeyDown != nil {
			return false
		}
		f.KeyDown = &KeyEvent{Key: ev.Key, Code: ev.Code, Raw: ev}
	case InputKeyUp:
		if f.KeyUp != nil {
			return false
		}
		f.KeyUp = &KeyEvent{Key: ev.Key, Code: ev.Code, Raw: ev}
	case InputWheel:
		if f.Scroll != nil {
			return false
		}
		f.Scroll = &ScrollEvent{Point: pt, Delta: Vec2{ev.DeltaX, ev.DeltaY}, Raw: ev}
	default:
		s.logger.Warn("dropping unknown input event", "kind", ev.Kind)
	}
	return true
}
