package damage

import "math"

// Matrix is a 2D affine transformation in row-major 2x3 form:
//
//	| a  b  c |
//	| d  e  f |
//
// mapping (x, y) to (a*x + b*y + c, d*x + e*y + f).
//
// Matrix is the coordinate mapping consumed by [Matcher.Transform], e.g. to
// bring device-space damage into the local space of a sub-scene.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate returns a translation by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale returns a scaling by (x, y) around the origin.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate returns a rotation by angle radians around the origin.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformRect returns the axis-aligned bounding box of r's four corners
// after transformation. The result is exact for translations and scales
// and conservative for rotations and shears. Empty rectangles stay empty.
func (m Matrix) TransformRect(r Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	if m.IsTranslation() {
		return Rect{X: r.X + m.C, Y: r.Y + m.F, W: r.W, H: r.H}
	}

	corners := [4]Point{
		m.TransformPoint(Pt(r.X, r.Y)),
		m.TransformPoint(Pt(r.Right(), r.Y)),
		m.TransformPoint(Pt(r.X, r.Bottom())),
		m.TransformPoint(Pt(r.Right(), r.Bottom())),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range corners[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Invert returns the inverse transformation.
// Returns the identity matrix if m is singular.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity reports whether m is the identity transformation.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation reports whether m only translates.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}
