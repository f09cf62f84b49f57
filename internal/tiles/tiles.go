// Package tiles maps coalesced damage onto the fixed 64x64 tile grid used by
// tiled rasterizers.
//
// A [Set] is a bitmap with one bit per tile packed into atomic uint64 words,
// so rasterizer workers may query and drain it concurrently while the paint
// thread marks it from a [damage.Matcher].
package tiles

import (
	"image"
	"math/bits"
	"sync/atomic"

	"github.com/gogpu/damage"
)

const (
	// Width is the width of a tile in pixels.
	Width = 64

	// Height is the height of a tile in pixels.
	Height = 64
)

// Set tracks which tiles of a grid need redrawing.
// All methods are safe for concurrent use.
type Set struct {
	// words is the bitmap. Bit index = ty*tilesX + tx.
	words []atomic.Uint64

	tilesX int
	tilesY int
}

// New creates a set for a grid of tilesX by tilesY tiles, all clean.
// Returns nil if either dimension is not positive.
func New(tilesX, tilesY int) *Set {
	if tilesX <= 0 || tilesY <= 0 {
		return nil
	}
	return &Set{
		words:  make([]atomic.Uint64, (tilesX*tilesY+63)/64),
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

// ForViewport creates a set covering a width by height pixel viewport.
// Returns nil if either dimension is not positive.
func ForViewport(width, height int) *Set {
	if width <= 0 || height <= 0 {
		return nil
	}
	return New((width+Width-1)/Width, (height+Height-1)/Height)
}

// Mark marks the tile at (tx, ty). Out-of-range tiles are ignored.
func (s *Set) Mark(tx, ty int) {
	if tx < 0 || tx >= s.tilesX || ty < 0 || ty >= s.tilesY {
		return
	}
	idx := ty*s.tilesX + tx
	s.words[idx/64].Or(1 << (idx & 63))
}

// MarkRect marks every tile overlapping the pixel rectangle r.
// The part of r outside the grid is ignored.
func (s *Set) MarkRect(r image.Rectangle) {
	grid := image.Rect(0, 0, s.tilesX*Width, s.tilesY*Height)
	r = r.Intersect(grid)
	if r.Empty() {
		return
	}

	tx0, ty0 := r.Min.X/Width, r.Min.Y/Height
	tx1, ty1 := (r.Max.X-1)/Width, (r.Max.Y-1)/Height
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			s.Mark(tx, ty)
		}
	}
}

// MarkMatcher marks every tile overlapping one of m's rectangles.
// A nil matcher marks nothing.
func (s *Set) MarkMatcher(m *damage.Matcher) {
	for _, r := range m.ImageRects() {
		s.MarkRect(r)
	}
}

// MarkAll marks every tile.
func (s *Set) MarkAll() {
	total := s.tilesX * s.tilesY
	full := total / 64
	for i := range full {
		s.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		s.words[full].Store(1<<rem - 1)
	}
}

// Clear marks every tile clean.
func (s *Set) Clear() {
	for i := range s.words {
		s.words[i].Store(0)
	}
}

// IsDirty reports whether the tile at (tx, ty) is marked.
// Out-of-range tiles are clean.
func (s *Set) IsDirty(tx, ty int) bool {
	if tx < 0 || tx >= s.tilesX || ty < 0 || ty >= s.tilesY {
		return false
	}
	idx := ty*s.tilesX + tx
	return s.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// IsEmpty reports whether no tile is marked.
func (s *Set) IsEmpty() bool {
	for i := range s.words {
		if s.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of marked tiles.
func (s *Set) Count() int {
	n := 0
	for i := range s.words {
		n += bits.OnesCount64(s.words[i].Load())
	}
	return n
}

// Drain returns the marked tiles in row-major order and clears them.
// Each word is swapped atomically, so a tile marked concurrently is either
// returned by this call or left for the next one.
func (s *Set) Drain() []image.Point {
	var out []image.Point
	for wi := range s.words {
		out = s.appendTiles(out, wi, s.words[wi].Swap(0))
	}
	return out
}

// Tiles returns the marked tiles in row-major order without clearing them.
func (s *Set) Tiles() []image.Point {
	var out []image.Point
	for wi := range s.words {
		out = s.appendTiles(out, wi, s.words[wi].Load())
	}
	return out
}

func (s *Set) appendTiles(out []image.Point, wi int, word uint64) []image.Point {
	for word != 0 {
		b := bits.TrailingZeros64(word)
		idx := wi*64 + b
		out = append(out, image.Pt(idx%s.tilesX, idx/s.tilesX))
		word &^= 1 << b
	}
	return out
}

// Bounds returns the pixel rectangle of tile (tx, ty).
func Bounds(tx, ty int) image.Rectangle {
	return image.Rect(tx*Width, ty*Height, (tx+1)*Width, (ty+1)*Height)
}

// TilesX returns the number of tile columns.
func (s *Set) TilesX() int { return s.tilesX }

// TilesY returns the number of tile rows.
func (s *Set) TilesY() int { return s.tilesY }
