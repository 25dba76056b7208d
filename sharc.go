package sharc

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA converts c to a color.NRGBA.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: channelByte(c.R),
		G: channelByte(c.G),
		B: channelByte(c.B),
		A: channelByte(c.A),
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading '#' optional).
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("parse color %q: want 3, 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// Vec2 is a 2D vector used for corners, centers, scales and pointer positions.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Bag is an open composite property value: a keyed set of numbers that
// animates key by key.
type Bag map[string]float64

// NoPointer is the PointerID of a node that is not mid-interaction.
const NoPointer = -1

// NumChannels is the number of independent animation channels per node.
const NumChannels = 4

// EventKind identifies a node event.
type EventKind uint8

const (
	EventClick           EventKind = iota // pointer pressed on the node; the node claims the pointer
	EventRelease                          // claimed pointer released (anywhere)
	EventDrag                             // claimed pointer moved
	EventHover                            // pointer entered the node's region
	EventHoverEnd                         // pointer left the node's region
	EventKeyDown                          // key pressed while the node is the key target
	EventKeyUp                            // key released while the node is the key target
	EventScroll                           // wheel scrolled while the node is the scroll target
	EventBeforeDraw                       // every frame, before animations advance
	EventAnimationFinish                  // a tween reached its last frame

	numEventKinds
)

var eventKindNames = [numEventKinds]string{
	"click", "release", "drag", "hover", "hoverEnd",
	"keydown", "keyup", "scroll", "beforeDraw", "animationFinish",
}

func (k EventKind) String() string {
	if k < numEventKinds {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// interactive reports whether k takes part in pointer/keyboard/scroll dispatch.
func (k EventKind) interactive() bool {
	return k <= EventScroll
}
