package damage

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func rectNear(a, b Rect) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance &&
		math.Abs(a.W-b.W) < tolerance && math.Abs(a.H-b.H) < tolerance
}

func TestMatrix_IsTranslation(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"pure translation", Translate(10, 20), true},
		{"negative translation", Translate(-5, -3), true},
		{"uniform scale", Scale(2, 2), false},
		{"scale 1,1", Scale(1, 1), true},
		{"rotation 90deg", Rotate(math.Pi / 2), false},
		{"scale + translate", Scale(2, 3).Multiply(Translate(10, 20)), false},
		{"zero matrix", Matrix{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsTranslation(); got != tt.want {
				t.Errorf("Matrix%+v.IsTranslation() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestMatrix_IsIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if Translate(1, 0).IsIdentity() {
		t.Error("Translate(1, 0).IsIdentity() = true")
	}
	if !Translate(3, 4).Multiply(Translate(-3, -4)).IsIdentity() {
		t.Error("a translation followed by its opposite should be the identity")
	}
}

func TestMatrix_Invert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"translate", Translate(10, -20)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(0.3)},
		{"combined", Translate(5, 5).Multiply(Rotate(1.1)).Multiply(Scale(3, 2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pt(7, -3)
			got := tt.m.Invert().TransformPoint(tt.m.TransformPoint(p))
			if math.Abs(got.X-p.X) > tolerance || math.Abs(got.Y-p.Y) > tolerance {
				t.Errorf("Invert round trip of %v = %v", p, got)
			}
		})
	}

	if got := Scale(0, 1).Invert(); got != Identity() {
		t.Errorf("singular Invert() = %+v, want identity", got)
	}
}

func TestMatrix_TransformRect(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		r    Rect
		want Rect
	}{
		{"identity", Identity(), R(1, 2, 3, 4), R(1, 2, 3, 4)},
		{"translate", Translate(10, -5), R(1, 2, 3, 4), R(11, -3, 3, 4)},
		{"scale", Scale(2, 3), R(1, 2, 3, 4), R(2, 6, 6, 12)},
		{"mirror x", Scale(-1, 1), R(1, 2, 3, 4), R(-4, 2, 3, 4)},
		{"rotate 90", Rotate(math.Pi / 2), R(0, 0, 10, 20), R(-20, 0, 20, 10)},
		{"rotate 45", Rotate(math.Pi / 4), R(0, 0, 2, 2), R(-math.Sqrt2, 0, 2 * math.Sqrt2, 2 * math.Sqrt2)},
		{"device to half", Scale(0.5, 0.5).Multiply(Translate(-100, -100)), R(100, 100, 40, 20), R(0, 0, 20, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformRect(tt.r); !rectNear(got, tt.want) {
				t.Errorf("TransformRect(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestMatrix_TransformRectEmpty(t *testing.T) {
	if got := Scale(2, 2).TransformRect(R(1, 1, 0, 5)); got != (Rect{}) {
		t.Errorf("TransformRect(empty) = %v, want zero Rect", got)
	}
	if got := Scale(0, 1).TransformRect(R(1, 1, 5, 5)); !got.IsEmpty() {
		t.Errorf("TransformRect through a degenerate scale = %v, want empty", got)
	}
}

func BenchmarkMatrixTransformRect(b *testing.B) {
	m := Translate(5, 5).Multiply(Rotate(0.5))
	r := R(10, 20, 30, 40)
	b.ReportAllocs()
	for b.Loop() {
		_ = m.TransformRect(r)
	}
}
