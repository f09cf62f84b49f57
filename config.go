package damage

import "sync/atomic"

const (
	// DefaultEpsilon is the default lossy-merge threshold: the largest
	// over-redrawn area (in square units) accepted when two dirty
	// rectangles are replaced by their bounding rectangle. 2500 is
	// roughly a 50x50 square.
	DefaultEpsilon = 2500

	// DefaultBufferSize is the default initial capacity of a tracker's
	// entry buffer and the minimum increment it grows by.
	DefaultBufferSize = 10
)

var (
	epsilon    atomic.Int64
	bufferSize atomic.Int64
)

func init() {
	epsilon.Store(DefaultEpsilon)
	bufferSize.Store(DefaultBufferSize)
}

// SetEpsilon sets the process-wide lossy-merge threshold used by every
// Tracker. Negative values are treated as 0, which only merges rectangles
// whose bounding rectangle wastes no area at all.
func SetEpsilon(e int) {
	if e < 0 {
		e = 0
	}
	epsilon.Store(int64(e))
	slogger().Debug("damage: epsilon changed", "epsilon", e)
}

// Epsilon returns the current lossy-merge threshold.
func Epsilon() int {
	return int(epsilon.Load())
}

// SetBufferSize sets the process-wide entry buffer increment. It affects
// trackers created or grown after the call. Values below 1 are treated as 1.
func SetBufferSize(n int) {
	if n < 1 {
		n = 1
	}
	bufferSize.Store(int64(n))
	slogger().Debug("damage: buffer size changed", "size", n)
}

// BufferSize returns the current entry buffer increment.
func BufferSize() int {
	return int(bufferSize.Load())
}
