package sharc

// Region is a hit-test area in a node's local coordinate space, as produced
// by the node's last draw.
type Region interface {
	Contains(x, y float64) bool
}

// RectRegion is an axis-aligned rectangular region.
type RectRegion struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r RectRegion) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// CenteredRect returns the RectRegion of size w x h centered on the origin,
// which is the local frame every node draws in.
func CenteredRect(w, h float64) RectRegion {
	return RectRegion{X: -w / 2, Y: -h / 2, Width: w, Height: h}
}

// EllipseRegion is an axis-aligned ellipse.
type EllipseRegion struct {
	CenterX, CenterY, RadiusX, RadiusY float64
}

// Contains reports whether (x, y) lies inside or on the ellipse.
func (e EllipseRegion) Contains(x, y float64) bool {
	if e.RadiusX <= 0 || e.RadiusY <= 0 {
		return false
	}
	dx := (x - e.CenterX) / e.RadiusX
	dy := (y - e.CenterY) / e.RadiusY
	return dx*dx+dy*dy <= 1
}

// PathRegion is a closed polygonal path filled with the nonzero winding rule.
// Concave and self-intersecting outlines are allowed.
type PathRegion struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside the path.
func (p PathRegion) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	winding := 0
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (x-a.X)*(b.Y-a.Y)
		if a.Y <= y {
			if b.Y > y && cross > 0 {
				winding++
			}
		} else if b.Y <= y && cross < 0 {
			winding--
		}
	}
	return winding != 0
}

// RegionFunc adapts a function to a Region.
type RegionFunc func(x, y float64) bool

// Contains calls f(x, y).
func (f RegionFunc) Contains(x, y float64) bool { return f(x, y) }
