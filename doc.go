// Package damage coalesces dirty-rectangle notifications into a small set
// of repaint rectangles.
//
// # Overview
//
// An interactive editor that repaints incrementally cannot afford to
// redraw the whole canvas on every edit, nor to issue one clipped draw
// call per micro-edit. A [Tracker] sits between the two: the invalidation
// system reports every changed region with [Tracker.Dirty], and once per
// paint cycle [Tracker.Flush] hands the paint pipeline a [Matcher] with a
// handful of integer-aligned rectangles covering every changed pixel.
//
//	t := damage.NewTracker(damage.WithArea(damage.R(0, 0, 800, 600)))
//
//	t.Dirty(10, 10, 40, 20)  // true
//	t.Dirty(15, 15, 5, 5)    // false: already covered
//
//	if m := t.Flush(); m != nil {
//	    for _, r := range m.Rects() {
//	        // clip to r and repaint the elements for which m.IsDirty(bbox)
//	    }
//	}
//
// # Coalescing
//
// Rectangles are reconciled as they arrive. Rectangles covered by others
// are dropped and rectangles aligned along one axis are trimmed so that
// no area is tracked twice. Then a candidate is merged with an existing
// rectangle when their bounding rectangle wastes less than [Epsilon]
// square units. The result is a practical cover, not a minimal one.
//
// # Tunables
//
// [SetEpsilon] and [SetBufferSize] are process-wide and default to
// [DefaultEpsilon] and [DefaultBufferSize].
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down, as in
// gogpu/gg.
package damage
