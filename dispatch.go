package sharc

// dispatch evaluates pointer, keyboard and scroll events for n. It runs after
// n's children have drawn and before n's transform is restored, so s.Matrix()
// is n's local-to-device matrix.
func (n *Node) dispatch(s Surface, f *Frame) {
	if !n.hasInteractiveListeners() || !f.hasInteraction() {
		return
	}
	inv := s.Matrix().Invert()

	n.dispatchHover(f, inv)

	if f.KeyTarget != "" && n.Name == f.KeyTarget {
		if k := f.KeyDown; k != nil {
			n.emit(f, EventKeyDown, Event{Key: k.Key, Code: k.Code})
		}
		if k := f.KeyUp; k != nil {
			n.emit(f, EventKeyUp, Event{Key: k.Key, Code: k.Code})
		}
	}
	if sc := f.Scroll; sc != nil && f.ScrollTarget != "" && n.Name == f.ScrollTarget {
		n.emit(f, EventScroll, Event{
			Position: inv.ApplyVec(sc.Point),
			Device:   sc.Point,
			Delta:    sc.Delta,
		})
	}

	down, up, move := fresh(f.Down), fresh(f.Up), fresh(f.Move)

	if move != nil && down == nil && up == nil && n.pointerID == move.PointerID {
		n.emit(f, EventDrag, n.pointerEvent(inv, move))
	}

	if down != nil && n.pointerID == NoPointer && n.claimsPointers() && n.hits(inv, down.Point) {
		captured := inv
		f.pending = func() {
			n.pointerID = down.PointerID
			n.emit(f, EventClick, n.pointerEvent(captured, down))
		}
	}

	if up != nil && n.pointerID != NoPointer && n.pointerID == up.PointerID {
		n.pointerID = NoPointer
		n.emit(f, EventRelease, n.pointerEvent(inv, up))
	}
}

// dispatchHover updates the hover state. The node is hovered only while
// every present pointer observation lands inside its region.
func (n *Node) dispatchHover(f *Frame, inv Matrix) {
	obs := f.pointers()
	if len(obs) == 0 {
		return
	}
	hovered := true
	at := obs[len(obs)-1]
	for _, p := range obs {
		if !n.hits(inv, p.Point) {
			hovered = false
			at = p
			break
		}
	}
	switch {
	case hovered && !n.hovered:
		n.hovered = true
		n.emit(f, EventHover, n.pointerEvent(inv, at))
	case !hovered && n.hovered:
		n.hovered = false
		n.emit(f, EventHoverEnd, n.pointerEvent(inv, at))
	}
}

// claimsPointers reports whether the node takes part in click/drag/release.
func (n *Node) claimsPointers() bool {
	return len(n.listeners[EventClick]) > 0 ||
		len(n.listeners[EventDrag]) > 0 ||
		len(n.listeners[EventRelease]) > 0
}

// hits tests a surface point against the node's region through inv.
func (n *Node) hits(inv Matrix, p Vec2) bool {
	if n.region == nil {
		return false
	}
	x, y := inv.Apply(p.X, p.Y)
	return n.region.Contains(x, y)
}

func (n *Node) pointerEvent(inv Matrix, p *PointerEvent) Event {
	return Event{
		Position:  inv.ApplyVec(p.Point),
		Device:    p.Point,
		PointerID: p.PointerID,
	}
}
