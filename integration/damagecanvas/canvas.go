// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package damagecanvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/damage"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("damagecanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("damagecanvas: invalid dimensions")

	// ErrNoUpdater is returned by Flush when the texture accepts neither
	// region nor whole-buffer updates.
	ErrNoUpdater = errors.New("damagecanvas: texture does not accept pixel updates")
)

// bytesPerPixel is the size of an RGBA8 pixel.
const bytesPerPixel = 4

// Canvas is an RGBA back buffer with damage tracking.
type Canvas struct {
	img     *image.RGBA
	tracker *damage.Tracker
	opts    options

	// scratch packs one damaged rectangle into dense rows for upload.
	scratch image.RGBA

	// redrawRequested is set once the window was asked to redraw for the
	// current batch.
	redrawRequested bool
	closed          bool
}

// New creates a width by height canvas. The whole canvas starts dirty so
// that the first Flush uploads it completely.
func New(width, height int, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Canvas{
		tracker: damage.NewTracker(),
		opts:    o,
	}
	c.allocate(width, height)
	return c, nil
}

// allocate replaces the back buffer and marks it completely dirty.
func (c *Canvas) allocate(width, height int) {
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.tracker.Reset()
	c.tracker.SetArea(damage.R(0, 0, float64(width), float64(height)))
	c.InvalidateAll()
}

// Image returns the back buffer. Draw into it and report the changed
// rectangles with Invalidate, or use Draw.
// Returns nil if the canvas is closed.
func (c *Canvas) Image() *image.RGBA {
	if c.closed {
		return nil
	}
	return c.img
}

// Size returns the canvas width and height in pixels, or zeros if the
// canvas is closed.
func (c *Canvas) Size() (width, height int) {
	if c.closed {
		return 0, 0
	}
	return c.img.Rect.Dx(), c.img.Rect.Dy()
}

// Invalidate marks r as changed. It reports whether the pending damage
// grew. The attached window, if any, is asked to redraw once per batch.
func (c *Canvas) Invalidate(r damage.Rect) bool {
	if c.closed || !c.tracker.DirtyRect(r) {
		return false
	}
	if c.opts.window != nil && !c.redrawRequested {
		c.redrawRequested = true
		c.opts.window.RequestRedraw()
	}
	return true
}

// InvalidateAll marks the whole canvas as changed.
func (c *Canvas) InvalidateAll() {
	if c.closed {
		return
	}
	c.Invalidate(damage.RectFromImage(c.img.Rect))
}

// Draw calls fn with the back buffer and invalidates the rectangle it
// returns.
func (c *Canvas) Draw(fn func(img *image.RGBA) damage.Rect) error {
	if c.closed {
		return ErrCanvasClosed
	}
	c.Invalidate(fn(c.img))
	return nil
}

// IsDirty reports whether damage is pending. It is O(n) in the number of
// tracked rectangles.
func (c *Canvas) IsDirty() bool {
	return !c.closed && c.tracker.Len() > 0
}

// Resize changes the canvas dimensions. The back buffer is cleared and
// pending damage is replaced by the whole new canvas.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if w, h := c.Size(); w == width && h == height {
		return nil
	}
	c.allocate(width, height)
	return nil
}

// SyncWindow resizes the canvas to the attached window's physical size.
// It does nothing when no window is attached.
func (c *Canvas) SyncWindow() error {
	if c.opts.window == nil {
		return nil
	}
	w, h := c.opts.window.Size()
	scale := c.opts.window.ScaleFactor()
	return c.Resize(int(float64(w)*scale), int(float64(h)*scale))
}

// Flush coalesces the pending damage, uploads it to tex and returns it.
// A nil matcher with a nil error means there was nothing to upload.
//
// If tex implements [gpucontext.TextureRegionUpdater] and the damaged area
// is below the full-upload threshold, each rectangle is uploaded with
// UpdateRegion. Otherwise, or when a region upload fails, the whole buffer
// is uploaded with [gpucontext.TextureUpdater].
func (c *Canvas) Flush(tex any) (*damage.Matcher, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}

	m := c.tracker.Flush()
	c.redrawRequested = false
	if m == nil {
		return nil, nil
	}

	var regionErr error
	if ru, ok := tex.(gpucontext.TextureRegionUpdater); ok && !c.wantsFullUpload(m) {
		if regionErr = c.uploadRegions(ru, m); regionErr == nil {
			return m, nil
		}
		damage.Logger().Warn("damagecanvas: region upload failed, uploading whole canvas", "err", regionErr)
	}

	u, ok := tex.(gpucontext.TextureUpdater)
	if !ok {
		if regionErr != nil {
			return m, fmt.Errorf("damagecanvas: region upload failed: %w", regionErr)
		}
		return m, ErrNoUpdater
	}
	if err := u.UpdateData(c.img.Pix); err != nil {
		return m, fmt.Errorf("damagecanvas: texture update failed: %w", err)
	}
	return m, nil
}

func (c *Canvas) wantsFullUpload(m *damage.Matcher) bool {
	w, h := c.Size()
	return m.Area() > c.opts.fullUploadThreshold*float64(w*h)
}

func (c *Canvas) uploadRegions(ru gpucontext.TextureRegionUpdater, m *damage.Matcher) error {
	for _, r := range m.ImageRects() {
		r = r.Intersect(c.img.Rect)
		if r.Empty() {
			continue
		}
		if err := ru.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c.pack(r)); err != nil {
			return fmt.Errorf("region %v: %w", r, err)
		}
	}
	return nil
}

// pack copies the pixels of r into densely packed rows. The returned slice
// is reused by the next call.
func (c *Canvas) pack(r image.Rectangle) []byte {
	n := r.Dx() * r.Dy() * bytesPerPixel
	if cap(c.scratch.Pix) < n {
		c.scratch.Pix = make([]byte, n)
	}
	c.scratch.Pix = c.scratch.Pix[:n]
	c.scratch.Stride = r.Dx() * bytesPerPixel
	c.scratch.Rect = image.Rect(0, 0, r.Dx(), r.Dy())
	draw.Copy(&c.scratch, image.Point{}, c.img, r, draw.Src, nil)
	return c.scratch.Pix
}

// Region describes the upload of one damaged rectangle in the terms of a
// WebGPU WriteTexture call. The source data is [Canvas.RegionData].
type Region struct {
	// Rect is the damaged rectangle in canvas pixels.
	Rect image.Rectangle

	// Origin is the destination offset in the texture.
	Origin gputypes.Origin3D

	// Size is the copy extent.
	Size gputypes.Extent3D

	// Layout describes the densely packed RGBA8 source rows.
	Layout gputypes.TextureDataLayout
}

// Regions returns one upload descriptor per rectangle of m, clipped to the
// canvas. It returns nil for a nil or empty matcher.
func (c *Canvas) Regions(m *damage.Matcher) []Region {
	if c.closed {
		return nil
	}
	var out []Region
	for _, r := range m.ImageRects() {
		r = r.Intersect(c.img.Rect)
		if r.Empty() {
			continue
		}
		out = append(out, Region{
			Rect:   r,
			Origin: gputypes.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y)},
			Size:   gputypes.NewExtent2D(uint32(r.Dx()), uint32(r.Dy())),
			Layout: gputypes.TextureDataLayout{
				BytesPerRow:  uint32(r.Dx() * bytesPerPixel),
				RowsPerImage: uint32(r.Dy()),
			},
		})
	}
	return out
}

// RegionData returns a fresh copy of the pixels described by reg, laid out
// as reg.Layout states.
func (c *Canvas) RegionData(reg Region) []byte {
	if c.closed || reg.Rect.Empty() {
		return nil
	}
	data := c.pack(reg.Rect)
	return append([]byte(nil), data...)
}

// Close releases the back buffer and drops pending damage.
// Close is idempotent - multiple calls are safe.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.tracker.Reset()
	c.img = nil
	c.scratch = image.RGBA{}
	return nil
}
