// Package worker keeps a stage running in a background context in step with
// the context that owns the visible surface. The two sides exchange Message
// values over a Transport; nothing but plain data crosses it.
package worker

import (
	"encoding/json"
	"image"
	"slices"

	sharc "github.com/gitpushjoe/sharc-sub000"
)

// Type tags a Message.
type Type string

const (
	TypeInit       Type = "init"       // visible -> background: allocate the surface
	TypeReady      Type = "ready"      // background -> visible: surface allocated
	TypeBeginLoop  Type = "beginLoop"  // visible -> background: start rendering
	TypeStageState Type = "stageState" // visible -> background: input snapshot
	TypeStopLoop   Type = "stopLoop"   // either direction: halt the loop
	TypeRender     Type = "render"     // background -> visible: a finished frame
	TypeCustom     Type = "custom"     // either direction: opaque app payload
	TypeError      Type = "error"      // background -> visible: a draw fault
)

// StageState is an input snapshot with the geometry of the visible canvas.
type StageState struct {
	Events []sharc.InputEvent     `json:"events"`
	Canvas sharc.CanvasProperties `json:"canvasProperties"`
}

// Bitmap is a transferable copy of a rendered frame in RGBA order.
type Bitmap struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pix    []byte `json:"pix,omitempty"`
}

// NewBitmap copies img into a Bitmap.
func NewBitmap(img *image.RGBA) *Bitmap {
	b := img.Bounds()
	bm := &Bitmap{Width: b.Dx(), Height: b.Dy(), Pix: make([]byte, 4*b.Dx()*b.Dy())}
	for y := 0; y < bm.Height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(bm.Pix[y*4*bm.Width:], img.Pix[off:off+4*bm.Width])
	}
	return bm
}

// Image wraps the bitmap's pixels in an *image.RGBA without copying.
func (b *Bitmap) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Message is the protocol envelope. Only the fields relevant to Type are set.
type Message struct {
	Type Type `json:"type"`

	// init
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// beginLoop, stageState
	FrameRate float64     `json:"frameRate,omitempty"`
	State     *StageState `json:"stageState,omitempty"`

	// render
	Bitmap       *Bitmap `json:"bitmap,omitempty"`
	LastRenderMs float64 `json:"lastRenderMs,omitempty"`
	CurrentFrame int     `json:"currentFrame,omitempty"`

	// custom
	Payload json.RawMessage `json:"message,omitempty"`

	// error
	Error string `json:"error,omitempty"`
	Stack string `json:"stack,omitempty"`
}

// Clone returns a deep copy of m that shares no memory with it.
func (m Message) Clone() Message {
	if m.State != nil {
		st := *m.State
		st.Events = slices.Clone(st.Events)
		m.State = &st
	}
	if m.Bitmap != nil {
		bm := *m.Bitmap
		bm.Pix = slices.Clone(bm.Pix)
		m.Bitmap = &bm
	}
	m.Payload = slices.Clone(m.Payload)
	return m
}

// --- Constructors ---

// Init asks the background side to allocate a width x height surface.
func Init(width, height int) Message {
	return Message{Type: TypeInit, Width: width, Height: height}
}

// Ready acknowledges Init.
func Ready() Message { return Message{Type: TypeReady} }

// BeginLoop starts the background loop with an initial input snapshot.
func BeginLoop(frameRate float64, state StageState) Message {
	return Message{Type: TypeBeginLoop, FrameRate: frameRate, State: &state}
}

// State carries one input snapshot.
func State(events []sharc.InputEvent, canvas sharc.CanvasProperties) Message {
	return Message{Type: TypeStageState, State: &StageState{Events: events, Canvas: canvas}}
}

// StopLoop halts the receiving side's loop.
func StopLoop() Message { return Message{Type: TypeStopLoop} }

// Render carries a finished frame.
func Render(bm *Bitmap, lastRenderMs float64, currentFrame int) Message {
	return Message{Type: TypeRender, Bitmap: bm, LastRenderMs: lastRenderMs, CurrentFrame: currentFrame}
}

// Custom wraps an application payload. It is passed through unmodified.
func Custom(payload json.RawMessage) Message {
	return Message{Type: TypeCustom, Payload: payload}
}

// Error reports a draw fault.
func Error(message, stack string) Message {
	return Message{Type: TypeError, Error: message, Stack: stack}
}
