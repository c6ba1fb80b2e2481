package term

import (
	"context"
	"image/color"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/constellation/internal/field"
)

type recordingListener struct {
	mu       sync.Mutex
	resizes  [][2]int
	pointers [][2]float64
}

func (l *recordingListener) Resize(w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resizes = append(l.resizes, [2]int{w, h})
}

func (l *recordingListener) PointerMoved(x, y float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pointers = append(l.pointers, [2]float64{x, y})
}

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(cols, rows)
	return s
}

func TestSurfaceSize(t *testing.T) {
	tests := []struct {
		cols, rows int
		scale      float64
		w, h       int
	}{
		{80, 24, 1, 80, 48},
		{80, 24, 8, 640, 384},
		{200, 50, 4.5, 900, 450},
	}
	for _, tt := range tests {
		w, h := surfaceSize(tt.cols, tt.rows, tt.scale)
		if w != tt.w || h != tt.h {
			t.Errorf("surfaceSize(%d, %d, %v) = %dx%d, want %dx%d", tt.cols, tt.rows, tt.scale, w, h, tt.w, tt.h)
		}
	}
}

func TestViewport(t *testing.T) {
	s := newScreen(t, 100, 30)
	defer s.Fini()
	h := New(s, 8)
	if w, hgt := h.Viewport(); w != 800 || hgt != 480 {
		t.Errorf("Viewport = %dx%d, want 800x480", w, hgt)
	}
}

func TestDispatch(t *testing.T) {
	s := newScreen(t, 40, 10)
	defer s.Fini()
	h := New(s, 2)
	l := &recordingListener{}
	unsubscribe := h.Subscribe(l)

	if !h.dispatch(tcell.NewEventResize(60, 20)) {
		t.Error("resize stopped the host")
	}
	if len(l.resizes) != 1 || l.resizes[0] != [2]int{120, 80} {
		t.Errorf("resizes = %v, want [[120 80]]", l.resizes)
	}

	h.dispatch(tcell.NewEventMouse(3, 4, tcell.ButtonNone, tcell.ModNone))
	if len(l.pointers) != 1 || l.pointers[0] != [2]float64{7, 18} {
		t.Errorf("pointers = %v, want [[7 18]]", l.pointers)
	}

	if h.dispatch(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q did not stop the host")
	}
	if h.dispatch(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Esc did not stop the host")
	}
	if !h.dispatch(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("x stopped the host")
	}

	unsubscribe()
	h.dispatch(tcell.NewEventResize(10, 10))
	if len(l.resizes) != 1 {
		t.Error("listener notified after unsubscribe")
	}
}

func TestCanvasPresent(t *testing.T) {
	s := newScreen(t, 8, 4)
	defer s.Fini()
	h := New(s, 1)
	c := h.Canvas(color.NRGBA{R: 10, G: 25, B: 47, A: 255})

	c.Clear()
	c.Present()

	mainc, _, style, _ := s.GetContent(3, 2)
	if mainc != upperHalf {
		t.Errorf("cell rune = %q, want %q", mainc, upperHalf)
	}
	fg, bg, _ := style.Decompose()
	want := tcell.NewRGBColor(10, 25, 47)
	if fg != want || bg != want {
		t.Errorf("cell colours = %v/%v, want %v", fg, bg, want)
	}
}

func TestCanvasFollowsScreenSize(t *testing.T) {
	s := newScreen(t, 8, 4)
	defer s.Fini()
	h := New(s, 1)
	c := h.Canvas(color.NRGBA{A: 255})

	s.SetSize(12, 6)
	c.Clear()
	if b := c.Image().Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Errorf("image = %v, want 12x12", b)
	}
}

func TestRunQuitsAndTearsDown(t *testing.T) {
	s := newScreen(t, 40, 12)
	h := New(s, 4)

	f := field.New(field.DefaultParams(), field.DefaultStyle(), rand.New(rand.NewSource(1)))
	loop := field.NewLoop(f, h.Canvas(color.NRGBA{A: 255}), field.NewTimerScheduler(200))
	if err := loop.Start(h); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	tornDown := false
	go func() {
		done <- h.Run(context.Background(), func() {
			loop.Stop()
			tornDown = true
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for loop.Frames() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); err != nil {
		t.Fatalf("post key: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if !tornDown {
		t.Error("teardown not called")
	}
	if loop.State() != field.Stopped {
		t.Errorf("loop state = %v, want stopped", loop.State())
	}
	if len(h.listeners) != 0 {
		t.Errorf("%d listeners left", len(h.listeners))
	}
}

func TestRunStopsOnContext(t *testing.T) {
	s := newScreen(t, 20, 5)
	h := New(s, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, func() {}) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
