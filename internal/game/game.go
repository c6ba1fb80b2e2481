// Package game hosts the particle field in an ebiten window.
package game

import (
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/constellation/internal/field"
)

const frameRingSize = 120

// Game adapts ebiten to the field: it is the canvas, the vsync-paced
// scheduler and the host delivering resize and cursor events.
type Game struct {
	background color.NRGBA
	field      *field.Field

	// viewport
	width, height int

	// cursor edge detection
	cursorX, cursorY int
	cursorKnown      bool

	mu        sync.Mutex
	listeners map[int]field.Listener
	nextID    int
	pending   *frameRequest

	// screen is only set while Draw runs a frame
	screen *ebiten.Image

	tap       *frameTap
	showStats bool
}

// New returns a game for a width x height window.
func New(width, height int, background color.NRGBA) *Game {
	return &Game{
		background: background,
		width:      width,
		height:     height,
		listeners:  map[int]field.Listener{},
		tap:        newFrameTap(frameRingSize),
	}
}

// Watch lets the stats overlay read counts from f. The overlay only reads
// inside Draw, on the same goroutine that runs frames.
func (g *Game) Watch(f *field.Field) { g.field = f }

// ShowStats toggles the debug overlay.
func (g *Game) ShowStats(on bool) { g.showStats = on }

// Viewport implements field.Host.
func (g *Game) Viewport() (int, int) {
	return g.width, g.height
}

// Subscribe implements field.Host.
func (g *Game) Subscribe(l field.Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = l
	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *Game) each(fn func(field.Listener)) {
	g.mu.Lock()
	ls := make([]field.Listener, 0, len(g.listeners))
	for _, l := range g.listeners {
		ls = append(ls, l)
	}
	g.mu.Unlock()
	for _, l := range ls {
		fn(l)
	}
}

type frameRequest struct {
	g  *Game
	fn func()
}

// Cancel implements field.FrameHandle.
func (r *frameRequest) Cancel() bool {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if r.g.pending != r {
		return false
	}
	r.g.pending = nil
	return true
}

// Schedule implements field.Scheduler: fn runs in the next Draw.
func (g *Game) Schedule(fn func()) field.FrameHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	r := &frameRequest{g: g, fn: fn}
	g.pending = r
	return r
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showStats = !g.showStats
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.cursorMoved(mouseX, mouseY)

	return nil
}

func (g *Game) cursorMoved(x, y int) {
	if g.cursorKnown && x == g.cursorX && y == g.cursorY {
		return
	}
	g.cursorX, g.cursorY, g.cursorKnown = x, y, true
	g.each(func(l field.Listener) { l.PointerMoved(float64(x), float64(y)) })
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	req := g.pending
	g.pending = nil
	g.mu.Unlock()
	if req == nil {
		return
	}

	g.screen = screen
	start := time.Now()
	req.fn()
	g.tap.record(time.Since(start))
	g.screen = nil

	if g.showStats {
		g.drawStats(screen)
	}
}

func (g *Game) drawStats(screen *ebiten.Image) {
	status := fmt.Sprintf("frame %s  fps %.0f",
		formatFrameTime(meanDuration(g.tap.snapshot(frameRingSize))), ebiten.ActualFPS())
	if g.field != nil {
		status = fmt.Sprintf("particles %d  links %d  seedings %d  pointer r %.0f  %s",
			len(g.field.Particles), g.field.Links(), g.field.Generation(), g.field.Pointer.Radius, status)
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// Layout follows the outside size so the surface always covers the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		log.Printf("window: resized to %dx%d", outsideWidth, outsideHeight)
		g.each(func(l field.Listener) { l.Resize(outsideWidth, outsideHeight) })
	}
	return outsideWidth, outsideHeight
}

// Clear implements field.Canvas. Drawing outside Draw is a no-op.
func (g *Game) Clear() {
	if g.screen == nil {
		return
	}
	g.screen.Fill(g.background)
}

// FillCircle implements field.Canvas.
func (g *Game) FillCircle(x, y, radius float64, clr color.NRGBA) {
	if g.screen == nil {
		return
	}
	vector.DrawFilledCircle(g.screen, float32(x), float32(y), float32(radius), clr, true)
}

// StrokeLine implements field.Canvas.
func (g *Game) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	if g.screen == nil || clr.A == 0 || (x0 == x1 && y0 == y1) {
		return
	}
	vector.StrokeLine(g.screen, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}
