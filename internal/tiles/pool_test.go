package tiles

import (
	"image"
	"image/color"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/damage"
)

func TestNewPool(t *testing.T) {
	p := NewPool(3)
	defer p.Close()
	if p.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", p.Workers())
	}

	d := NewPool(0)
	defer d.Close()
	if d.Workers() < 1 {
		t.Errorf("default Workers() = %d, want >= 1", d.Workers())
	}
}

func TestPoolRunVisitsEveryTile(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var tiles []image.Point
	for ty := range 10 {
		for tx := range 10 {
			tiles = append(tiles, image.Pt(tx, ty))
		}
	}

	var mu sync.Mutex
	var seen []image.Point
	p.Run(tiles, func(tile image.Point) {
		mu.Lock()
		seen = append(seen, tile)
		mu.Unlock()
	})

	if len(seen) != len(tiles) {
		t.Fatalf("visited %d tiles, want %d", len(seen), len(tiles))
	}
	slices.SortFunc(seen, func(a, b image.Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	if !slices.Equal(seen, tiles) {
		t.Error("visited tiles differ from the input")
	}
}

func TestPoolRunAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	var n atomic.Int32
	p.Run([]image.Point{image.Pt(0, 0), image.Pt(1, 0)}, func(image.Point) { n.Add(1) })
	if n.Load() != 2 {
		t.Errorf("Run after Close made %d calls, want 2", n.Load())
	}
}

func TestSetRepaint(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	s := ForViewport(256, 256)
	s.MarkMatcher(damage.NewMatcher(damage.R(10, 10, 100, 20), damage.R(200, 200, 10, 10)))

	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	red := color.RGBA{R: 255, A: 255}
	n := s.Repaint(p, func(b image.Rectangle) {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.SetRGBA(x, y, red)
			}
		}
	})

	if n != 3 {
		t.Errorf("Repaint() = %d tiles, want 3", n)
	}
	if !s.IsEmpty() {
		t.Error("Repaint should drain the set")
	}
	for _, tc := range []struct {
		p    image.Point
		want bool
	}{
		{image.Pt(0, 0), true},
		{image.Pt(127, 63), true},
		{image.Pt(128, 0), false},
		{image.Pt(250, 250), true},
		{image.Pt(0, 100), false},
	} {
		if got := img.RGBAAt(tc.p.X, tc.p.Y) == red; got != tc.want {
			t.Errorf("pixel %v painted = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func BenchmarkPoolRun(b *testing.B) {
	p := NewPool(0)
	defer p.Close()
	tiles := ForViewport(1920, 1080)
	tiles.MarkAll()
	all := tiles.Tiles()
	b.ReportAllocs()
	for b.Loop() {
		p.Run(all, func(image.Point) {})
	}
}
