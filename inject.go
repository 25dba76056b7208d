package sharc

// The inject queue feeds synthetic input one event per frame, ahead of real
// device input. Coordinates are client coordinates, exactly like Dispatch.

func (s *Stage) inject(evs ...InputEvent) {
	s.mu.Lock()
	s.injectQueue = append(s.injectQueue, evs...)
	s.mu.Unlock()
}

// InjectPress queues a pointer press at (x, y) for pointer 0.
func (s *Stage) InjectPress(x, y float64) {
	s.inject(InputEvent{Kind: InputPointerDown, X: x, Y: y})
}

// InjectMove queues a pointer move to (x, y) for pointer 0. Use this between
// InjectPress and InjectRelease to simulate a drag.
func (s *Stage) InjectMove(x, y float64) {
	s.inject(InputEvent{Kind: InputPointerMove, X: x, Y: y})
}

// InjectRelease queues a pointer release at (x, y) for pointer 0.
func (s *Stage) InjectRelease(x, y float64) {
	s.inject(InputEvent{Kind: InputPointerUp, X: x, Y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Stage) InjectClick(x, y float64) {
	s.inject(
		InputEvent{Kind: InputPointerDown, X: x, Y: y},
		InputEvent{Kind: InputPointerUp, X: x, Y: y},
	)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly interpolated
// moves and a release at (toX, toY). The sequence consumes frames frames;
// the minimum is 2.
func (s *Stage) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	evs := []InputEvent{{Kind: InputPointerDown, X: fromX, Y: fromY}}
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		evs = append(evs, InputEvent{
			Kind: InputPointerMove,
			X:    fromX + (toX-fromX)*t,
			Y:    fromY + (toY-fromY)*t,
		})
	}
	evs = append(evs, InputEvent{Kind: InputPointerUp, X: toX, Y: toY})
	s.inject(evs...)
}

// InjectKey queues a key press and its release. Consumes two frames.
func (s *Stage) InjectKey(key, code string) {
	s.inject(
		InputEvent{Kind: InputKeyDown, Key: key, Code: code},
		InputEvent{Kind: InputKeyUp, Key: key, Code: code},
	)
}

// InjectScroll queues one wheel event at (x, y).
func (s *Stage) InjectScroll(x, y, dx, dy float64) {
	s.inject(InputEvent{Kind: InputWheel, X: x, Y: y, DeltaX: dx, DeltaY: dy})
}

// pendingInjections reports how many synthetic events are still queued.
func (s *Stage) pendingInjections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.injectQueue)
}
