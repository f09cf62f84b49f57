package damage

import "image"

// Matcher is the coalesced damage of one paint cycle, as returned by
// [Tracker.Flush]. The paint pipeline uses it to cull per-element repaints
// ([Matcher.IsDirty]), to scope clip regions ([Matcher.Rects]), and to move
// damage between coordinate spaces ([Matcher.Transform], [Matcher.Clip]).
//
// Transform and Clip modify the matcher in place and return it for
// chaining. A Matcher is not safe for concurrent use.
type Matcher struct {
	bounds Rect
	rects  []Rect
}

// NewMatcher creates a matcher holding the non-empty rectangles of rects.
// NewMatcher() with no arguments yields an empty matcher, which
// [Matcher.Clip] seeds with the clip area.
func NewMatcher(rects ...Rect) *Matcher {
	m := &Matcher{}
	for _, r := range rects {
		if r.IsEmpty() {
			continue
		}
		m.rects = append(m.rects, r)
		m.bounds = m.bounds.Union(r)
	}
	return m
}

// Len returns the number of rectangles. A nil Matcher has none.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rects)
}

// Bounds returns the bounding rectangle of all rectangles and whether the
// matcher holds any.
func (m *Matcher) Bounds() (Rect, bool) {
	if m.Len() == 0 {
		return Rect{}, false
	}
	return m.bounds, true
}

// Rects returns the dirty rectangles, or nil if there are none.
// The returned slice must not be modified.
func (m *Matcher) Rects() []Rect {
	if m.Len() == 0 {
		return nil
	}
	return m.rects
}

// ImageRects returns the dirty rectangles rounded outward to integer
// pixel rectangles, or nil if there are none.
func (m *Matcher) ImageRects() []image.Rectangle {
	if m.Len() == 0 {
		return nil
	}
	out := make([]image.Rectangle, 0, len(m.rects))
	for _, r := range m.rects {
		out = append(out, r.Image())
	}
	return out
}

// Area returns the summed area of the rectangles. Rectangles may overlap
// partially, so this is an upper bound on the area that gets repainted.
func (m *Matcher) Area() float64 {
	var a float64
	for _, r := range m.Rects() {
		a += r.Area()
	}
	return a
}

// IsDirty reports whether r intersects any dirty rectangle.
// The bounding rectangle is tested first so that most clean elements are
// rejected without scanning.
func (m *Matcher) IsDirty(r Rect) bool {
	if m.Len() == 0 || !m.bounds.Intersects(r) {
		return false
	}
	for _, d := range m.rects {
		if d.Intersects(r) {
			return true
		}
	}
	return false
}

// Transform maps the bounding rectangle and every dirty rectangle through
// t. Each rectangle becomes the axis-aligned bounds of its transformed
// corners, so rotations enlarge the damage rather than lose any of it.
func (m *Matcher) Transform(t Matrix) *Matcher {
	if m.Len() == 0 {
		return m
	}
	m.bounds = t.TransformRect(m.bounds)
	out := m.rects[:0]
	for _, r := range m.rects {
		if tr := t.TransformRect(r); !tr.IsEmpty() {
			out = append(out, tr)
		}
	}
	m.rects = out
	if len(m.rects) == 0 {
		m.bounds = Rect{}
	}
	return m
}

// Clip intersects every dirty rectangle with area and drops the ones that
// fall outside it. A matcher with no rectangles is seeded with area
// itself: when nothing was damaged explicitly, a changed clip boundary
// means the whole clipped region has to be repainted. The bounding
// rectangle is recomputed from the clipped rectangles.
//
// A nil matcher, as returned by a [Tracker.Flush] with nothing dirty, is
// treated as empty: Clip returns a new matcher seeded with area.
func (m *Matcher) Clip(area Rect) *Matcher {
	if m == nil {
		m = &Matcher{}
	}
	if len(m.rects) == 0 {
		m.rects = m.rects[:0]
		m.bounds = Rect{}
		if !area.IsEmpty() {
			m.rects = append(m.rects, area)
			m.bounds = area
		}
		return m
	}

	out := m.rects[:0]
	var bounds Rect
	for _, r := range m.rects {
		if c := r.Intersect(area); !c.IsEmpty() {
			out = append(out, c)
			bounds = bounds.Union(c)
		}
	}
	m.rects = out
	m.bounds = bounds
	return m
}
