package sharc

import (
	"image"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
)

// Surface is the drawing surface a scene tree is rendered onto. Transform
// calls compose onto the current matrix the way a canvas does (the newest
// call applies first to drawn geometry). Matrix reports the accumulated
// local-to-device matrix and is what pointer dispatch inverts.
type Surface interface {
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(radians float64)
	Scale(sx, sy float64)
	Matrix() Matrix

	ClearTo(c Color)
	Width() int
	Height() int
	Image() image.Image

	DrawRectangle(x, y, w, h float64)
	DrawEllipse(x, y, rx, ry float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	SetColor(c Color)
	SetFillStyle(p gg.Pattern)
	SetLineWidth(w float64)
	Fill()
	FillPreserve()
	Stroke()
}

// GGSurface is an off-screen Surface backed by a gg.Context. It mirrors the
// context's transform stack so the current matrix can be read back.
type GGSurface struct {
	dc    *gg.Context
	m     Matrix
	stack []Matrix
}

// NewGGSurface allocates an RGBA surface of the given size.
func NewGGSurface(width, height int) *GGSurface {
	return &GGSurface{dc: gg.NewContext(width, height), m: Identity}
}

// NewGGSurfaceForRGBA wraps an existing RGBA image.
func NewGGSurfaceForRGBA(im *image.RGBA) *GGSurface {
	return &GGSurface{dc: gg.NewContextForRGBA(im), m: Identity}
}

// Context returns the underlying gg.Context for painters that need the full
// gg API. Transform calls made directly on it are not tracked by Matrix.
func (s *GGSurface) Context() *gg.Context { return s.dc }

func (s *GGSurface) Push() {
	s.stack = append(s.stack, s.m)
	s.dc.Push()
}

func (s *GGSurface) Pop() {
	if len(s.stack) == 0 {
		return
	}
	s.m = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.dc.Pop()
}

func (s *GGSurface) Translate(x, y float64) {
	s.m = s.m.Multiply(Translation(x, y))
	s.dc.Translate(x, y)
}

func (s *GGSurface) Rotate(radians float64) {
	s.m = s.m.Multiply(Rotation(radians * 180 / math.Pi))
	s.dc.Rotate(radians)
}

func (s *GGSurface) Scale(sx, sy float64) {
	s.m = s.m.Multiply(Scaling(sx, sy))
	s.dc.Scale(sx, sy)
}

func (s *GGSurface) Matrix() Matrix { return s.m }

// ClearTo fills the whole surface with c, ignoring the current transform.
func (s *GGSurface) ClearTo(c Color) {
	s.dc.SetRGBA(c.R, c.G, c.B, c.A)
	s.dc.Clear()
}

func (s *GGSurface) Width() int         { return s.dc.Width() }
func (s *GGSurface) Height() int        { return s.dc.Height() }
func (s *GGSurface) Image() image.Image { return s.dc.Image() }

func (s *GGSurface) DrawRectangle(x, y, w, h float64) { s.dc.DrawRectangle(x, y, w, h) }
func (s *GGSurface) DrawEllipse(x, y, rx, ry float64) { s.dc.DrawEllipse(x, y, rx, ry) }
func (s *GGSurface) MoveTo(x, y float64)              { s.dc.MoveTo(x, y) }
func (s *GGSurface) LineTo(x, y float64)              { s.dc.LineTo(x, y) }
func (s *GGSurface) ClosePath()                       { s.dc.ClosePath() }
func (s *GGSurface) SetColor(c Color)                 { s.dc.SetRGBA(c.R, c.G, c.B, c.A) }
func (s *GGSurface) SetFillStyle(p gg.Pattern)        { s.dc.SetFillStyle(p) }
func (s *GGSurface) SetLineWidth(w float64)           { s.dc.SetLineWidth(w) }
func (s *GGSurface) Fill()                            { s.dc.Fill() }
func (s *GGSurface) FillPreserve()                    { s.dc.FillPreserve() }
func (s *GGSurface) Stroke()                          { s.dc.Stroke() }

// Snapshot copies the current pixels into a new RGBA image. The copy shares
// nothing with the surface and may be handed to another goroutine.
func (s *GGSurface) Snapshot() *image.RGBA {
	src := s.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// SavePNG writes the current pixels to path.
func (s *GGSurface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}
