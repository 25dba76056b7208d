package sharc

import "math"

// Matrix is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translation returns a matrix translating by (x, y).
func Translation(x, y float64) Matrix {
	return Matrix{1, 0, 0, 1, x, y}
}

// Rotation returns a matrix rotating by deg degrees (clockwise on a
// Y-down surface).
func Rotation(deg float64) Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Scaling returns a matrix scaling by (sx, sy).
func Scaling(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * c, i.e. c applied first, then m.
func (m Matrix) Multiply(c Matrix) Matrix {
	return Matrix{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert returns the inverse of m.
// Returns the identity matrix if m is singular (determinant ~ 0).
func (m Matrix) Invert() Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point (x, y) by m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVec is Apply for a Vec2.
func (m Matrix) ApplyVec(v Vec2) Vec2 {
	x, y := m.Apply(v.X, v.Y)
	return Vec2{x, y}
}

// localTransform is the matrix a node applies on top of its parent's frame:
// translate to the node's center, rotate, then scale, all about that center.
func localTransform(n *Node) Matrix {
	c := n.Center()
	return Translation(c.X, c.Y).
		Multiply(Rotation(n.Rotation)).
		Multiply(Scaling(n.Scale.X, n.Scale.Y))
}

// WorldMatrix returns the accumulated local-to-root matrix of n, computed
// from the ancestor chain. The root's own surface transform is not included.
func (n *Node) WorldMatrix() Matrix {
	m := localTransform(n)
	for p := n.parent; p != nil; p = p.parent {
		m = localTransform(p).Multiply(m)
	}
	return m
}

// RootToLocal converts a point in the root's parent space to n's local space.
func (n *Node) RootToLocal(p Vec2) Vec2 {
	return n.WorldMatrix().Invert().ApplyVec(p)
}

// LocalToRoot converts a point in n's local space to the root's parent space.
func (n *Node) LocalToRoot(p Vec2) Vec2 {
	return n.WorldMatrix().ApplyVec(p)
}
