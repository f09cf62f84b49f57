// Package trace loads recorded invalidation traces and replays them
// through a damage.Tracker.
//
// A trace is a TOML document:
//
//	epsilon = 2500           # optional lossy-merge threshold
//	buffer_size = 10         # optional entry buffer increment
//	area = [0, 0, 800, 600]  # optional active area x, y, w, h
//
//	[[frame]]
//	rects = [[0, 0, 10, 10], [5, 5, 3, 3]]
//	clip = [0, 0, 400, 300]  # optional
//
// Each frame's rectangles are registered in order and flushed into one
// damage.Matcher. Unknown keys are rejected.
package trace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/damage"
	"github.com/pelletier/go-toml/v2"
)

// ErrMalformedRect is returned when a rectangle does not have exactly four
// components.
var ErrMalformedRect = errors.New("trace: rectangle must have 4 components")

// Trace is a decoded invalidation trace.
type Trace struct {
	Epsilon    *int      `toml:"epsilon"`
	BufferSize *int      `toml:"buffer_size"`
	Area       []float64 `toml:"area"`
	Frames     []Frame   `toml:"frame"`
}

// Frame is one paint cycle: the rectangles invalidated before it and an
// optional clip applied to the flushed damage.
type Frame struct {
	Rects [][]float64 `toml:"rects"`
	Clip  []float64   `toml:"clip"`
}

// Decode reads a trace from r.
func Decode(r io.Reader) (*Trace, error) {
	var t Trace
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&t); err != nil {
		return nil, fmt.Errorf("trace: decode: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads the trace file at path.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func (t *Trace) validate() error {
	if t.Area != nil && len(t.Area) != 4 {
		return fmt.Errorf("%w: area has %d", ErrMalformedRect, len(t.Area))
	}
	for i, f := range t.Frames {
		for j, r := range f.Rects {
			if len(r) != 4 {
				return fmt.Errorf("%w: frame %d rect %d has %d", ErrMalformedRect, i, j, len(r))
			}
		}
		if f.Clip != nil && len(f.Clip) != 4 {
			return fmt.Errorf("%w: frame %d clip has %d", ErrMalformedRect, i, len(f.Clip))
		}
	}
	return nil
}

func rect(v []float64) damage.Rect {
	return damage.R(v[0], v[1], v[2], v[3])
}

// Replay feeds every frame through a fresh tracker and calls fn with the
// frame index and its flushed damage, which is nil when the frame damaged
// nothing and has no clip. Replay stops at the first error fn returns.
//
// The trace's epsilon and buffer size override the process-wide tunables
// for the duration of the replay.
func (t *Trace) Replay(fn func(frame int, m *damage.Matcher) error) error {
	if t.Epsilon != nil {
		prev := damage.Epsilon()
		damage.SetEpsilon(*t.Epsilon)
		defer damage.SetEpsilon(prev)
	}
	if t.BufferSize != nil {
		prev := damage.BufferSize()
		damage.SetBufferSize(*t.BufferSize)
		defer damage.SetBufferSize(prev)
	}

	var opts []damage.TrackerOption
	if t.Area != nil {
		opts = append(opts, damage.WithArea(rect(t.Area)))
	}
	tr := damage.NewTracker(opts...)

	for i, f := range t.Frames {
		for _, r := range f.Rects {
			tr.DirtyRect(rect(r))
		}
		m := tr.Flush()
		if f.Clip != nil {
			m = m.Clip(rect(f.Clip))
		}
		if err := fn(i, m); err != nil {
			return err
		}
	}
	return nil
}
