package damage

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle with float64 coordinates.
// A Rect with non-positive width or height is empty.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// R creates a Rect from position and size.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromImage converts an integer rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// Right returns the right edge x-coordinate.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// IsEmpty reports whether the rectangle has no area. Rectangles with
// NaN or infinite components are also empty.
func (r Rect) IsEmpty() bool {
	return !(r.W > 0 && r.H > 0) || !r.finite()
}

func (r Rect) finite() bool {
	return !math.IsNaN(r.X) && !math.IsNaN(r.Y) &&
		!math.IsInf(r.X, 0) && !math.IsInf(r.Y, 0) &&
		!math.IsInf(r.W, 0) && !math.IsInf(r.H, 0)
}

// Area returns W*H, or 0 for an empty rectangle.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.W * r.H
}

// Intersects reports whether r and other share a region of positive area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Intersect returns the intersection of two rectangles.
// Returns the zero Rect if they don't intersect.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.Right(), other.Right())
	y1 := math.Min(r.Bottom(), other.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle containing both r and other.
// Empty rectangles are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.Right(), other.Right())
	y1 := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return other.X >= r.X && other.Right() <= r.Right() &&
		other.Y >= r.Y && other.Bottom() <= r.Bottom()
}

// maxCoord bounds integer coordinates so that sums of rectangle areas
// cannot overflow int64.
const maxCoord = 1 << 29

// Image rounds r outward to the smallest integer rectangle covering it:
// the origin is floored and the far edge is ceiled. Coordinates are
// clamped to [-2^29, 2^29]. Empty rectangles map to the zero
// image.Rectangle.
func (r Rect) Image() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rectangle{
		Min: image.Pt(clampCoord(math.Floor(r.X)), clampCoord(math.Floor(r.Y))),
		Max: image.Pt(clampCoord(math.Ceil(r.Right())), clampCoord(math.Ceil(r.Bottom()))),
	}
}

func clampCoord(v float64) int {
	switch {
	case v < -maxCoord:
		return -maxCoord
	case v > maxCoord:
		return maxCoord
	}
	return int(v)
}
