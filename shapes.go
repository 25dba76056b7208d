package sharc

import "math"

// Reference painters. Each declares the custom properties it reads, so
// they can be set and tweened like built-ins:
//
//	fill      Color
//	stroke    Color
//	lineWidth float64 (0 disables the stroke)

func declarePaint(n *Node, fill Color) {
	n.Declare("fill", fill)
	n.Declare("stroke", ColorBlack)
	n.Declare("lineWidth", 0.0)
}

// paint fills and strokes the current path with the node's paint settings.
// A node-level Paint pattern replaces the fill color.
func paint(s Surface, p Props) {
	if p.Paint != nil {
		s.SetFillStyle(p.Paint)
	} else {
		fill := p.Color("fill")
		s.SetColor(fill.WithAlpha(p.Opacity))
	}
	lw := p.Float("lineWidth")
	if lw <= 0 {
		s.Fill()
		return
	}
	s.FillPreserve()
	stroke := p.Color("stroke")
	s.SetColor(stroke.WithAlpha(p.Opacity))
	s.SetLineWidth(lw)
	s.Stroke()
}

// NewRect creates a rectangle spanning the corners c1 and c2.
func NewRect(name string, c1, c2 Vec2, fill Color) *Node {
	n := NewNode(name, c1, c2, drawRect)
	declarePaint(n, fill)
	return n
}

func drawRect(s Surface, p Props) Region {
	s.DrawRectangle(-p.Width/2, -p.Height/2, p.Width, p.Height)
	paint(s, p)
	return CenteredRect(p.Width, p.Height)
}

// NewEllipse creates an ellipse inscribed in the corners c1 and c2.
func NewEllipse(name string, c1, c2 Vec2, fill Color) *Node {
	n := NewNode(name, c1, c2, drawEllipse)
	declarePaint(n, fill)
	return n
}

func drawEllipse(s Surface, p Props) Region {
	rx, ry := p.Width/2, p.Height/2
	s.DrawEllipse(0, 0, rx, ry)
	paint(s, p)
	return EllipseRegion{RadiusX: rx, RadiusY: ry}
}

// NewPolygon creates a closed polygon. The points are in the parent's frame;
// the node's corners become their bounding box. The outline follows the box
// when width or height change.
func NewPolygon(name string, points []Vec2, fill Color) *Node {
	if len(points) == 0 {
		n := NewNode(name, Vec2{}, Vec2{}, nil)
		declarePaint(n, fill)
		return n
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	c1, c2 := Vec2{minX, minY}, Vec2{maxX, maxY}
	w0, h0 := maxX-minX, maxY-minY
	center := Vec2{(minX + maxX) / 2, (minY + maxY) / 2}
	local := make([]Vec2, len(points))
	for i, p := range points {
		local[i] = p.Sub(center)
	}
	n := NewNode(name, c1, c2, func(s Surface, p Props) Region {
		sx, sy := 1.0, 1.0
		if w0 > 0 {
			sx = p.Width / w0
		}
		if h0 > 0 {
			sy = p.Height / h0
		}
		outline := make([]Vec2, len(local))
		for i, pt := range local {
			outline[i] = Vec2{pt.X * sx, pt.Y * sy}
			if i == 0 {
				s.MoveTo(outline[i].X, outline[i].Y)
			} else {
				s.LineTo(outline[i].X, outline[i].Y)
			}
		}
		s.ClosePath()
		paint(s, p)
		return PathRegion{Points: outline}
	})
	declarePaint(n, fill)
	return n
}
