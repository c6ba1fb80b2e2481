package field

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrLoopRunning = errors.New("field: loop already started")
	ErrLoopStopped = errors.New("field: loop stopped")
)

// State of a Loop.
type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Listener receives viewport and pointer events from a Host.
type Listener interface {
	Resize(width, height int)
	PointerMoved(x, y float64)
}

// Host is the environment the field is mounted in.
type Host interface {
	Viewport() (width, height int)
	// Subscribe registers l and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
}

// mailbox keeps only the latest resize and the latest pointer position
// queued since the last frame.
type mailbox struct {
	resized       bool
	width, height int
	moved         bool
	x, y          float64
}

// Loop drives a Field frame by frame. Host events are queued and applied at
// the start of the next frame, so only frame callbacks touch the field.
type Loop struct {
	field  *Field
	canvas Canvas
	sched  Scheduler

	mu          sync.Mutex
	state       State
	pending     mailbox
	handle      FrameHandle
	unsubscribe func()

	frameMu sync.Mutex
	frames  atomic.Uint64
}

// NewLoop binds a field to a canvas and a scheduler.
func NewLoop(f *Field, c Canvas, s Scheduler) *Loop {
	return &Loop{field: f, canvas: c, sched: s}
}

// Start mounts the field at the host viewport, subscribes to host events and
// schedules the first frame.
func (l *Loop) Start(h Host) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case Running:
		return ErrLoopRunning
	case Stopped:
		return ErrLoopStopped
	}

	w, hgt := h.Viewport()
	l.frameMu.Lock()
	l.field.Mount(w, hgt)
	l.frameMu.Unlock()

	l.unsubscribe = h.Subscribe(l)
	l.state = Running
	l.handle = l.sched.Schedule(l.frame)
	return nil
}

// Stop detaches from the host and cancels the pending frame. It waits for a
// frame already in progress. Calling Stop more than once is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.state == Stopped {
		l.mu.Unlock()
		return
	}
	l.state = Stopped
	if l.handle != nil {
		l.handle.Cancel()
		l.handle = nil
	}
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
	l.pending = mailbox{}
	l.mu.Unlock()

	l.frameMu.Lock()
	l.frameMu.Unlock()
}

// State returns the current state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Frames returns the number of completed frames.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// Resize queues a viewport change. Only the last resize before a frame is
// applied.
func (l *Loop) Resize(width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Stopped {
		return
	}
	l.pending.resized = true
	l.pending.width, l.pending.height = width, height
}

// PointerMoved queues a pointer position, replacing any queued one.
func (l *Loop) PointerMoved(x, y float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Stopped {
		return
	}
	l.pending.moved = true
	l.pending.x, l.pending.y = x, y
}

func (l *Loop) frame() {
	l.mu.Lock()
	if l.state != Running {
		l.mu.Unlock()
		return
	}
	mb := l.pending
	l.pending = mailbox{}
	l.handle = nil
	l.mu.Unlock()

	l.frameMu.Lock()
	if mb.resized {
		l.field.Resize(mb.width, mb.height)
	}
	if mb.moved {
		l.field.MovePointer(mb.x, mb.y)
	}
	l.field.Frame(l.canvas)
	l.frameMu.Unlock()
	l.frames.Add(1)

	l.mu.Lock()
	if l.state == Running {
		l.handle = l.sched.Schedule(l.frame)
	}
	l.mu.Unlock()
}
