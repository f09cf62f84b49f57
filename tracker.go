package damage

import (
	"image"
	"slices"
)

// Tracker accumulates dirty rectangles during a batch of scene edits and
// coalesces them into a small set of rectangles at paint time.
//
// Every registered rectangle is rounded outward to integer coordinates and
// reconciled against the rectangles already tracked in two passes:
//
//   - A lossless pass drops the candidate when an existing rectangle already
//     covers it, drops existing rectangles the candidate covers, and trims
//     one of the pair when they are aligned along one axis and overlap along
//     the other. Partial diagonal overlaps are left alone.
//   - A lossy pass replaces the candidate and an existing rectangle by their
//     bounding rectangle when that wastes less than [Epsilon] square units,
//     then registers the bounding rectangle again.
//
// A Tracker is owned by a single paint surface and is not safe for
// concurrent use.
type Tracker struct {
	// area is the optional active area. Rectangles outside it are rejected
	// and rectangles crossing it are clipped.
	area    image.Rectangle
	hasArea bool

	// entries holds tracked rectangles in registration order. Entries that
	// were subsumed by later ones are zeroed in place and skipped; the
	// buffer is compacted on Flush and Reset.
	entries []image.Rectangle
}

// NewTracker creates an empty tracker. Without options it has no active
// area and an entry buffer of [BufferSize] slots.
func NewTracker(opts ...TrackerOption) *Tracker {
	o := defaultTrackerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tracker{
		entries: make([]image.Rectangle, 0, o.capacity),
	}
	if o.hasArea {
		t.SetArea(o.area)
	}
	return t
}

// SetArea installs the active area. Subsequent Dirty calls ignore
// rectangles outside of it and clip the rest to it. Already tracked
// rectangles are not re-clipped. The area is rounded outward to integer
// coordinates; an empty area rejects everything.
func (t *Tracker) SetArea(r Rect) {
	t.area = r.Image()
	t.hasArea = true
}

// ClearArea removes the active area.
func (t *Tracker) ClearArea() {
	t.area = image.Rectangle{}
	t.hasArea = false
}

// Area returns the active area and whether one is set.
func (t *Tracker) Area() (Rect, bool) {
	if !t.hasArea {
		return Rect{}, false
	}
	return RectFromImage(t.area), true
}

// Dirty registers the rectangle (x, y, w, h) as changed.
// It reports whether the tracked dirty state grew; false means the
// rectangle was empty, outside the active area, or already covered.
// Coordinates are clamped to ±2^29, so coverage is only guaranteed inside
// that range.
func (t *Tracker) Dirty(x, y, w, h float64) bool {
	return t.DirtyRect(Rect{X: x, Y: y, W: w, H: h})
}

// DirtyRect is like Dirty but takes a Rect.
func (t *Tracker) DirtyRect(r Rect) bool {
	if r.IsEmpty() {
		return false
	}
	c := r.Image()
	if c.Empty() {
		return false
	}
	return t.add(c)
}

// add registers an integer rectangle.
func (t *Tracker) add(c image.Rectangle) bool {
	if t.hasArea {
		if !c.Overlaps(t.area) {
			return false
		}
		c = c.Intersect(t.area)
	}

	t.grow()

	c, redundant := t.reduce(c)
	if redundant {
		return false
	}

	for i, cur := range t.entries {
		if cur.Empty() {
			continue
		}
		bounds := c.Union(cur)
		if area(bounds) < area(c)+area(cur)+int64(Epsilon()) {
			t.entries[i] = image.Rectangle{}
			slogger().Debug("damage: merged", "bounds", bounds)
			return t.add(bounds)
		}
	}

	t.entries = append(t.entries, c)
	return true
}

// grow makes room for at least one more entry, growing the buffer by at
// least BufferSize slots and at least doubling it.
func (t *Tracker) grow() {
	if len(t.entries) < cap(t.entries) {
		return
	}
	n := max(BufferSize(), cap(t.entries))
	t.entries = slices.Grow(t.entries, n)
	slogger().Debug("damage: entry buffer grown", "cap", cap(t.entries))
}

// reduce runs the lossless pass for candidate c. It returns the possibly
// trimmed candidate, or redundant=true if an existing entry covers it.
// Existing entries may be zeroed or trimmed in place. Whenever either
// rectangle is trimmed the scan restarts from the first entry.
func (t *Tracker) reduce(c image.Rectangle) (_ image.Rectangle, redundant bool) {
	for changed := true; changed; {
		changed = false
		for i := range t.entries {
			cur := t.entries[i]
			if cur.Empty() {
				continue
			}

			if c.In(cur) {
				return c, true
			}
			if cur.In(c) {
				t.entries[i] = image.Rectangle{}
				continue
			}

			if trimmed, ok := trim(c, cur); ok {
				c = trimmed
				changed = true
				break
			}
			if trimmed, ok := trim(cur, c); ok {
				t.entries[i] = trimmed
				changed = true
				break
			}
		}
	}
	return c, false
}

// trim removes from r the slice covered by other when one of r's edges
// lies within other's extent and other spans r completely along the
// orthogonal axis. The left, right, top and bottom edges are tried in that
// order. The caller guarantees neither rectangle contains the other, so a
// trimmed rectangle is never empty.
func trim(r, other image.Rectangle) (image.Rectangle, bool) {
	spansY := r.Min.Y >= other.Min.Y && r.Max.Y <= other.Max.Y
	spansX := r.Min.X >= other.Min.X && r.Max.X <= other.Max.X

	switch {
	case spansY && r.Min.X >= other.Min.X && r.Min.X < other.Max.X:
		r.Min.X = other.Max.X
	case spansY && r.Max.X > other.Min.X && r.Max.X <= other.Max.X:
		r.Max.X = other.Min.X
	case spansX && r.Min.Y >= other.Min.Y && r.Min.Y < other.Max.Y:
		r.Min.Y = other.Max.Y
	case spansX && r.Max.Y > other.Min.Y && r.Max.Y <= other.Max.Y:
		r.Max.Y = other.Min.Y
	default:
		return r, false
	}
	return r, true
}

// area returns the area of an integer rectangle as int64.
func area(r image.Rectangle) int64 {
	return int64(r.Dx()) * int64(r.Dy())
}

// Len returns the number of live tracked rectangles. It scans the whole
// entry buffer.
func (t *Tracker) Len() int {
	n := 0
	for _, r := range t.entries {
		if !r.Empty() {
			n++
		}
	}
	return n
}

// Flush returns a Matcher holding the live tracked rectangles and resets
// the tracker. It returns nil if nothing is dirty.
func (t *Tracker) Flush() *Matcher {
	var m *Matcher
	if live := t.Len(); live > 0 {
		rects := make([]Rect, 0, live)
		for _, r := range t.entries {
			if !r.Empty() {
				rects = append(rects, RectFromImage(r))
			}
		}
		m = NewMatcher(rects...)
	}
	slogger().Debug("damage: flushed", "rects", m.Len(), "slots", len(t.entries))
	t.Reset()
	return m
}

// Reset discards all tracked rectangles. The entry buffer is kept for reuse.
func (t *Tracker) Reset() {
	t.entries = t.entries[:0]
}
