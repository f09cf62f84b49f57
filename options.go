package damage

// TrackerOption configures a Tracker during creation.
//
// Example:
//
//	// Tracker clipped to an 800x600 surface
//	t := damage.NewTracker(damage.WithArea(damage.R(0, 0, 800, 600)))
type TrackerOption func(*trackerOptions)

// trackerOptions holds optional configuration for Tracker creation.
type trackerOptions struct {
	area     Rect
	hasArea  bool
	capacity int
}

// defaultTrackerOptions returns the default tracker options.
func defaultTrackerOptions() trackerOptions {
	return trackerOptions{
		capacity: BufferSize(),
	}
}

// WithArea installs an active area at creation, as [Tracker.SetArea] does.
func WithArea(r Rect) TrackerOption {
	return func(o *trackerOptions) {
		o.area = r
		o.hasArea = true
	}
}

// WithCapacity sets the initial capacity of the entry buffer. Values below
// 1 keep the process-wide [BufferSize].
//
// Example:
//
//	// A widget tree that usually invalidates dozens of rectangles per frame
//	t := damage.NewTracker(damage.WithCapacity(64))
func WithCapacity(n int) TrackerOption {
	return func(o *trackerOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}
