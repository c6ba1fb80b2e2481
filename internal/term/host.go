// Package term hosts the particle field in a terminal. Each cell shows two
// vertically stacked image pixels using the upper half block.
package term

import (
	"context"
	"image/color"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/constellation/internal/field"
	"github.com/iburimskiy/constellation/internal/raster"
)

const upperHalf = '▀'

// Host owns a tcell screen and adapts it to field.Host.
type Host struct {
	screen tcell.Screen
	scale  float64

	mu        sync.Mutex
	listeners map[int]field.Listener
	nextID    int
}

// New wraps an initialised screen. scale is the number of surface pixels per
// image pixel.
func New(screen tcell.Screen, scale float64) *Host {
	if scale <= 0 {
		scale = 1
	}
	return &Host{
		screen:    screen,
		scale:     scale,
		listeners: map[int]field.Listener{},
	}
}

// surfaceSize converts a cell grid to surface pixels.
func surfaceSize(cols, rows int, scale float64) (int, int) {
	return int(float64(cols) * scale), int(float64(rows*2) * scale)
}

// Viewport implements field.Host.
func (h *Host) Viewport() (int, int) {
	cols, rows := h.screen.Size()
	return surfaceSize(cols, rows, h.scale)
}

// Subscribe implements field.Host.
func (h *Host) Subscribe(l field.Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *Host) each(fn func(field.Listener)) {
	h.mu.Lock()
	ls := make([]field.Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		ls = append(ls, l)
	}
	h.mu.Unlock()
	for _, l := range ls {
		fn(l)
	}
}

// Run pumps screen events until ctx is done or the user quits. teardown runs
// before the screen is finalised.
func (h *Host) Run(ctx context.Context, teardown func()) error {
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan tcell.Event, 100)

	g.Go(func() error {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer func() {
			cancel()
			teardown()
			h.screen.Fini()
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				if !h.dispatch(ev) {
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// dispatch handles one event and reports whether to keep running.
func (h *Host) dispatch(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		w, hgt := surfaceSize(cols, rows, h.scale)
		log.Printf("term: resized to %dx%d cells (%dx%d surface)", cols, rows, w, hgt)
		h.screen.Sync()
		h.each(func(l field.Listener) { l.Resize(w, hgt) })

	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := (float64(x)+0.5)*h.scale, (float64(y)*2+1)*h.scale
		h.each(func(l field.Listener) { l.PointerMoved(px, py) })
	}
	return true
}

// Canvas returns a canvas that renders into the screen.
func (h *Host) Canvas(background color.NRGBA) *Canvas {
	cols, rows := h.screen.Size()
	return &Canvas{
		Canvas: raster.New(cols, rows*2, h.scale, background),
		screen: h.screen,
	}
}

// Canvas rasterizes at half-cell resolution and blits on Present.
type Canvas struct {
	*raster.Canvas
	screen tcell.Screen
}

// Clear follows the screen size, then clears.
func (c *Canvas) Clear() {
	if c.screen == nil {
		return
	}
	cols, rows := c.screen.Size()
	c.Canvas.Resize(cols, rows*2)
	c.Canvas.Clear()
}

// Present copies the image into cells and shows the screen.
func (c *Canvas) Present() {
	if c.screen == nil {
		return
	}
	img := c.Image()
	b := img.Bounds()
	for y := 0; y+1 < b.Dy(); y += 2 {
		for x := 0; x < b.Dx(); x++ {
			top, bottom := img.RGBAAt(x, y), img.RGBAAt(x, y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			c.screen.SetContent(x, y/2, upperHalf, nil, style)
		}
	}
	c.screen.Show()
}
