// Package snapshot renders the particle field headlessly.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"

	"github.com/iburimskiy/constellation/internal/field"
	"github.com/iburimskiy/constellation/internal/raster"
)

// ErrInvalidOptions is wrapped by Options.Validate failures.
var ErrInvalidOptions = errors.New("snapshot: invalid options")

const (
	MaxSide   = 4096
	MaxFrames = 10000
)

// Options describes one headless render.
type Options struct {
	Width, Height int
	Frames        int
	Seed          int64
	Params        field.Params
	Style         field.Style
	Background    color.NRGBA
}

// Validate checks the size and frame bounds.
func (o Options) Validate() error {
	if o.Width < 1 || o.Width > MaxSide || o.Height < 1 || o.Height > MaxSide {
		return fmt.Errorf("%w: size %dx%d outside 1..%d", ErrInvalidOptions, o.Width, o.Height, MaxSide)
	}
	if o.Frames < 0 || o.Frames > MaxFrames {
		return fmt.Errorf("%w: frames %d outside 0..%d", ErrInvalidOptions, o.Frames, MaxFrames)
	}
	return nil
}

// fixedHost is a viewport that never changes.
type fixedHost struct{ w, h int }

func (h fixedHost) Viewport() (int, int) { return h.w, h.h }
func (h fixedHost) Subscribe(field.Listener) func() { return func() {} }

// Render mounts a field at the requested size, advances it for the
// requested number of frames and returns the last one. Zero frames yields the
// background only. Only the final frame is rasterized.
func Render(ctx context.Context, opts Options) (*image.RGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	canvas := raster.New(opts.Width, opts.Height, 1, opts.Background)
	canvas.Clear()
	if err := run(ctx, canvas, opts); err != nil {
		return nil, err
	}
	return canvas.Image(), nil
}

const cancelCheckEvery = 64

func run(ctx context.Context, canvas field.Canvas, opts Options) error {
	f := field.New(opts.Params, opts.Style, rand.New(rand.NewSource(opts.Seed)))
	sched := &field.ManualScheduler{}
	loop := field.NewLoop(f, canvas, sched)
	if err := loop.Start(fixedHost{opts.Width, opts.Height}); err != nil {
		return err
	}
	defer loop.Stop()

	if opts.Frames == 0 {
		return nil
	}

	// Frames only run on Tick, so the field is ours between ticks.
	for i := 1; i < opts.Frames; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		f.Step()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !sched.Pending() {
		return errors.New("snapshot: final frame was not scheduled")
	}
	sched.Tick()
	return nil
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}
