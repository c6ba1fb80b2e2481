package game

import (
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/iburimskiy/constellation/internal/field"
)

type countingListener struct {
	resizes  [][2]int
	pointers [][2]float64
}

func (l *countingListener) Resize(w, h int)           { l.resizes = append(l.resizes, [2]int{w, h}) }
func (l *countingListener) PointerMoved(x, y float64) { l.pointers = append(l.pointers, [2]float64{x, y}) }

func TestFrameTapSnapshot(t *testing.T) {
	tap := newFrameTap(4)
	if got := tap.snapshot(10); len(got) != 0 {
		t.Fatalf("empty tap returned %v", got)
	}
	for i := 1; i <= 6; i++ {
		tap.record(time.Duration(i) * time.Millisecond)
	}
	got := tap.snapshot(10)
	want := []time.Duration{3 * time.Millisecond, 4 * time.Millisecond, 5 * time.Millisecond, 6 * time.Millisecond}
	if len(got) != len(want) {
		t.Fatalf("snapshot = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if last := tap.snapshot(2); last[0] != 5*time.Millisecond || last[1] != 6*time.Millisecond {
		t.Errorf("snapshot(2) = %v", last)
	}
}

func TestMeanAndFormat(t *testing.T) {
	if meanDuration(nil) != 0 {
		t.Error("mean of nothing should be 0")
	}
	d := meanDuration([]time.Duration{time.Millisecond, 3 * time.Millisecond})
	if d != 2*time.Millisecond {
		t.Errorf("mean = %v, want 2ms", d)
	}
	if s := formatFrameTime(1500 * time.Microsecond); s != "1.50ms" {
		t.Errorf("formatFrameTime = %q", s)
	}
}

func TestScheduleRunsInDraw(t *testing.T) {
	g := New(640, 480, color.NRGBA{A: 255})
	ran := 0
	g.Schedule(func() { ran++ })

	g.Draw(nil)
	g.Draw(nil)
	if ran != 1 {
		t.Errorf("frame ran %d times, want 1", ran)
	}
	if len(g.tap.snapshot(10)) != 1 {
		t.Error("frame time not recorded")
	}
}

func TestScheduleCancel(t *testing.T) {
	g := New(640, 480, color.NRGBA{A: 255})
	ran := false
	h := g.Schedule(func() { ran = true })
	if !h.Cancel() {
		t.Error("Cancel of pending frame returned false")
	}
	if h.Cancel() {
		t.Error("second Cancel returned true")
	}
	g.Draw(nil)
	if ran {
		t.Error("cancelled frame ran")
	}

	old := g.Schedule(func() {})
	g.Schedule(func() {})
	if old.Cancel() {
		t.Error("superseded handle cancelled the newer frame")
	}
}

func TestLayoutNotifiesResize(t *testing.T) {
	g := New(640, 480, color.NRGBA{A: 255})
	l := &countingListener{}
	unsubscribe := g.Subscribe(l)

	if w, h := g.Layout(640, 480); w != 640 || h != 480 {
		t.Errorf("Layout = %dx%d", w, h)
	}
	if len(l.resizes) != 0 {
		t.Errorf("unchanged layout fired %v", l.resizes)
	}
	g.Layout(800, 600)
	if len(l.resizes) != 1 || l.resizes[0] != [2]int{800, 600} {
		t.Errorf("resizes = %v", l.resizes)
	}
	if w, h := g.Viewport(); w != 800 || h != 600 {
		t.Errorf("Viewport = %dx%d", w, h)
	}

	unsubscribe()
	g.Layout(1024, 768)
	if len(l.resizes) != 1 {
		t.Error("listener notified after unsubscribe")
	}
}

func TestCursorMovedEdges(t *testing.T) {
	g := New(640, 480, color.NRGBA{A: 255})
	l := &countingListener{}
	g.Subscribe(l)

	g.cursorMoved(10, 20)
	g.cursorMoved(10, 20)
	g.cursorMoved(11, 20)
	if len(l.pointers) != 2 {
		t.Fatalf("pointer events = %v, want 2", l.pointers)
	}
	if l.pointers[1] != [2]float64{11, 20} {
		t.Errorf("last pointer = %v", l.pointers[1])
	}
}

func TestCanvasOutsideDrawIsNoop(t *testing.T) {
	g := New(640, 480, color.NRGBA{A: 255})
	g.Clear()
	g.FillCircle(1, 2, 3, color.NRGBA{A: 255})
	g.StrokeLine(0, 0, 10, 10, 1, color.NRGBA{A: 255})
}

func TestLoopDrivenByGame(t *testing.T) {
	g := New(700, 700, color.NRGBA{A: 255})
	f := field.New(field.DefaultParams(), field.DefaultStyle(), rand.New(rand.NewSource(1)))
	g.Watch(f)
	loop := field.NewLoop(f, g, g)
	if err := loop.Start(g); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		g.Draw(nil)
	}
	if loop.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", loop.Frames())
	}

	g.Layout(900, 900)
	g.Draw(nil)
	if len(f.Particles) != 90 {
		t.Errorf("population = %d after resize, want 90", len(f.Particles))
	}

	loop.Stop()
	loop.Stop()
	if len(g.listeners) != 0 {
		t.Errorf("%d listeners left after Stop", len(g.listeners))
	}
	if g.pending != nil {
		t.Error("frame still pending after Stop")
	}
}

func TestUpdateWithoutInput(t *testing.T) {
	g := New(640, 480, color.NRGBA{A: 255})
	l := &countingListener{}
	g.Subscribe(l)

	for i := 0; i < 3; i++ {
		if err := g.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if g.showStats {
		t.Error("stats toggled without a key press")
	}
	if len(l.pointers) != 1 {
		t.Errorf("pointer events = %v, want one for the first cursor read", l.pointers)
	}
}
