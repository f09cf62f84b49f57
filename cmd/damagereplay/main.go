// Command damagereplay replays a recorded invalidation trace and reports
// how the damage tracker coalesced each frame.
//
// Usage:
//
//	damagereplay -trace frames.toml [-v] [-png overlay.png] [-width 800 -height 600]
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/internal/tiles"
	"github.com/gogpu/damage/internal/trace"
	"golang.org/x/image/draw"
)

var (
	background = color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}
	tileShade  = color.RGBA{R: 0x30, G: 0x30, B: 0x48, A: 0xff}
	fill       = color.RGBA{R: 0x80, G: 0x20, B: 0x20, A: 0x80}
	outline    = color.RGBA{R: 0xff, G: 0x50, B: 0x50, A: 0xff}
)

type config struct {
	tracePath string
	pngPath   string
	width     int
	height    int
	verbose   bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.tracePath, "trace", "", "trace file (TOML)")
	flag.StringVar(&cfg.pngPath, "png", "", "write an overlay of the last frame's damage")
	flag.IntVar(&cfg.width, "width", 800, "viewport width")
	flag.IntVar(&cfg.height, "height", 600, "viewport height")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Parse()

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("damagereplay: %v", err)
	}
}

func run(cfg config, out io.Writer) error {
	if cfg.tracePath == "" {
		return errors.New("-trace is required")
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", cfg.width, cfg.height)
	}
	if cfg.verbose {
		damage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer damage.SetLogger(nil)
	}

	tr, err := trace.Load(cfg.tracePath)
	if err != nil {
		return err
	}

	set := tiles.ForViewport(cfg.width, cfg.height)
	var last *damage.Matcher
	err = tr.Replay(func(frame int, m *damage.Matcher) error {
		set.Clear()
		set.MarkMatcher(m)
		_, err := fmt.Fprintf(out, "frame %d: rects=%d area=%.0f tiles=%d/%d\n",
			frame, m.Len(), m.Area(), set.Count(), set.TilesX()*set.TilesY())
		last = m
		return err
	})
	if err != nil {
		return err
	}

	if cfg.pngPath == "" {
		return nil
	}
	return writeOverlay(cfg.pngPath, overlay(cfg.width, cfg.height, last))
}

// overlay paints the rectangles of m over a background on which the tiles
// they touch are shaded.
func overlay(width, height int, m *damage.Matcher) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	set := tiles.ForViewport(width, height)
	set.MarkMatcher(m)
	pool := tiles.NewPool(0)
	defer pool.Close()
	shade := image.NewUniform(tileShade)
	set.Repaint(pool, func(b image.Rectangle) {
		draw.Draw(img, b.Intersect(img.Bounds()), shade, image.Point{}, draw.Src)
	})

	for _, r := range m.ImageRects() {
		r = r.Intersect(img.Bounds())
		if r.Empty() {
			continue
		}
		draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Over)
		edge := image.NewUniform(outline)
		for _, e := range []image.Rectangle{
			image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
			image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
			image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
			image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
		} {
			draw.Draw(img, e, edge, image.Point{}, draw.Src)
		}
	}
	return img
}

func writeOverlay(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
