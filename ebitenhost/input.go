package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	sharc "github.com/gitpushjoe/sharc-sub000"
)

// mousePointer is the pointer ID of the mouse. Touches use their touch ID
// plus one.
const mousePointer = 0

// sampler turns Ebitengine's polled input state into device events, once
// per tick.
type sampler struct {
	lastX, lastY int
	touches      map[ebiten.TouchID][2]int
	keys         []ebiten.Key
	touchIDs     []ebiten.TouchID
}

func newSampler() *sampler {
	return &sampler{touches: make(map[ebiten.TouchID][2]int)}
}

// sample appends the events of the current tick to dst.
func (s *sampler) sample(dst []sharc.InputEvent) []sharc.InputEvent {
	dst = s.sampleMouse(dst)
	dst = s.sampleTouches(dst)
	dst = s.sampleKeys(dst)
	return dst
}

func (s *sampler) sampleMouse(dst []sharc.InputEvent) []sharc.InputEvent {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if mx != s.lastX || my != s.lastY {
		dst = append(dst, sharc.InputEvent{Kind: sharc.InputPointerMove, PointerID: mousePointer, X: x, Y: y})
		s.lastX, s.lastY = mx, my
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		dst = append(dst, sharc.InputEvent{Kind: sharc.InputPointerDown, PointerID: mousePointer, X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		dst = append(dst, sharc.InputEvent{Kind: sharc.InputPointerUp, PointerID: mousePointer, X: x, Y: y})
	}
	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		// Ebitengine reports wheel up as positive; canvases report it as
		// negative.
		dst = append(dst, sharc.InputEvent{Kind: sharc.InputWheel, X: x, Y: y, DeltaX: -dx, DeltaY: -dy})
	}
	return dst
}

func (s *sampler) sampleTouches(dst []sharc.InputEvent) []sharc.InputEvent {
	s.touchIDs = inpututil.AppendJustPressedTouchIDs(s.touchIDs[:0])
	for _, id := range s.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		s.touches[id] = [2]int{tx, ty}
		dst = append(dst, sharc.InputEvent{Kind: sharc.InputPointerDown, PointerID: int(id) + 1, X: float64(tx), Y: float64(ty)})
	}
	for id, last := range s.touches {
		if inpututil.IsTouchJustReleased(id) {
			tx, ty := inpututil.TouchPositionInPreviousTick(id)
			delete(s.touches, id)
			dst = append(dst, sharc.InputEvent{Kind: sharc.InputPointerUp, PointerID: int(id) + 1, X: float64(tx), Y: float64(ty)})
			continue
		}
		tx, ty := ebiten.TouchPosition(id)
		if tx != last[0] || ty != last[1] {
			s.touches[id] = [2]int{tx, ty}
			dst = append(dst, sharc.InputEvent{Kind: sharc.InputPointerMove, PointerID: int(id) + 1, X: float64(tx), Y: float64(ty)})
		}
	}
	return dst
}

func (s *sampler) sampleKeys(dst []sharc.InputEvent) []sharc.InputEvent {
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		dst = append(dst, sharc.InputEvent{Kind: sharc.InputKeyDown, Key: keyName(k), Code: k.String()})
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		dst = append(dst, sharc.InputEvent{Kind: sharc.InputKeyUp, Key: keyName(k), Code: k.String()})
	}
	return dst
}

// keyName maps a key to the name a browser would report for it unshifted.
func keyName(k ebiten.Key) string {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		return string(rune('a' + int(k-ebiten.KeyA)))
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return string(rune('0' + int(k-ebiten.KeyDigit0)))
	}
	switch k {
	case ebiten.KeySpace:
		return " "
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return "Enter"
	case ebiten.KeyEscape:
		return "Escape"
	case ebiten.KeyBackspace:
		return "Backspace"
	case ebiten.KeyTab:
		return "Tab"
	case ebiten.KeyArrowUp:
		return "ArrowUp"
	case ebiten.KeyArrowDown:
		return "ArrowDown"
	case ebiten.KeyArrowLeft:
		return "ArrowLeft"
	case ebiten.KeyArrowRight:
		return "ArrowRight"
	}
	return k.String()
}
