package damage

import (
	"image"
	"math"
	"testing"
)

func TestRect_Intersects(t *testing.T) {
	a := R(0, 0, 10, 10)
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"same", a, true},
		{"inside", R(2, 2, 2, 2), true},
		{"overlap", R(5, 5, 10, 10), true},
		{"touching right", R(10, 0, 5, 5), false},
		{"touching bottom", R(0, 10, 5, 5), false},
		{"disjoint", R(20, 20, 5, 5), false},
		{"empty inside", R(5, 5, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", a, tt.b, got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.b, a, got, tt.want)
			}
		})
	}
}

func TestRect_IntersectUnion(t *testing.T) {
	a, b := R(0, 0, 10, 10), R(5, 2, 10, 4)

	if got, want := a.Intersect(b), R(5, 2, 5, 4); got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}
	if got, want := a.Union(b), R(0, 0, 15, 10); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := a.Intersect(R(50, 50, 1, 1)); got != (Rect{}) {
		t.Errorf("disjoint Intersect = %v, want zero Rect", got)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union with empty = %v, want %v", got, a)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("empty Union = %v, want %v", got, a)
	}
}

func TestRect_Contains(t *testing.T) {
	a := R(0, 0, 10, 10)
	if !a.Contains(a) {
		t.Error("a rectangle should contain itself")
	}
	if !a.Contains(R(0, 0, 10, 1)) {
		t.Error("edge-aligned rectangle should be contained")
	}
	if a.Contains(R(5, 5, 10, 1)) {
		t.Error("overhanging rectangle should not be contained")
	}
}

func TestRect_Image(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want image.Rectangle
	}{
		{"integer", R(1, 2, 3, 4), image.Rect(1, 2, 4, 6)},
		{"fractional", R(0.1, 0.9, 1, 1), image.Rect(0, 0, 2, 2)},
		{"negative", R(-0.5, -2.5, 1, 1), image.Rect(-1, -3, 1, -1)},
		{"empty", R(1, 1, 0, 1), image.Rectangle{}},
		{"huge", R(-1e20, 0, 2e20, 1), image.Rect(-maxCoord, 0, maxCoord, 1)},
		{"nan", R(math.NaN(), 0, 1, 1), image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Image(); got != tt.want {
				t.Errorf("%v.Image() = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRect_Area(t *testing.T) {
	if got := R(0, 0, 3, 4).Area(); got != 12 {
		t.Errorf("Area() = %v, want 12", got)
	}
	if got := R(0, 0, -3, 4).Area(); got != 0 {
		t.Errorf("Area() of empty = %v, want 0", got)
	}
}
