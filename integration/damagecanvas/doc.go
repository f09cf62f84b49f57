// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package damagecanvas uploads only the damaged parts of a CPU canvas to a
// GPU texture.
//
// The data flow is:
//
//	draw into *image.RGBA -> Invalidate(rect) -> Flush(texture) -> UpdateRegion per rect
//
// # Architecture
//
// Canvas owns an RGBA back buffer and a [damage.Tracker] whose active area
// is the canvas bounds. Every Invalidate registers a changed rectangle; on
// Flush the tracker coalesces them and each resulting rectangle is packed
// into dense rows and uploaded through [gpucontext.TextureRegionUpdater].
// When the texture only supports whole-buffer updates, or the damage
// covers most of the canvas, Flush falls back to
// [gpucontext.TextureUpdater].
//
// # Usage
//
//	canvas, err := damagecanvas.New(800, 600, damagecanvas.WithWindow(window))
//	if err != nil {
//	    return err
//	}
//	defer canvas.Close()
//
//	canvas.Draw(func(img *image.RGBA) damage.Rect {
//	    draw.Draw(img, cursor, image.White, image.Point{}, draw.Src)
//	    return damage.RectFromImage(cursor)
//	})
//
//	// Once per frame:
//	if _, err := canvas.Flush(texture); err != nil {
//	    return err
//	}
//
// Backends that issue WriteTexture themselves can use [Canvas.Regions] to
// get one copy descriptor per damaged rectangle.
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use.
package damagecanvas
