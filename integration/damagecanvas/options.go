// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package damagecanvas

import "github.com/gogpu/gpucontext"

// DefaultFullUploadThreshold is the fraction of the canvas area above which
// Flush uploads the whole buffer instead of individual regions.
const DefaultFullUploadThreshold = 0.5

// Option configures a Canvas during creation.
type Option func(*options)

type options struct {
	window              gpucontext.WindowProvider
	fullUploadThreshold float64
}

func defaultOptions() options {
	return options{
		fullUploadThreshold: DefaultFullUploadThreshold,
	}
}

// WithWindow attaches the canvas to a window. The window is asked to
// redraw the first time a batch becomes dirty, and [Canvas.SyncWindow]
// resizes the canvas to the window's physical size.
func WithWindow(w gpucontext.WindowProvider) Option {
	return func(o *options) {
		o.window = w
	}
}

// WithFullUploadThreshold sets the fraction of the canvas area above which
// Flush uploads the whole buffer. Values are clamped to [0, 1]; 1 always
// uploads regions, 0 always uploads the whole buffer.
func WithFullUploadThreshold(f float64) Option {
	return func(o *options) {
		o.fullUploadThreshold = min(max(f, 0), 1)
	}
}
