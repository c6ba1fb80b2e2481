package field

import (
	"sync"
	"time"
)

// FrameHandle identifies one scheduled frame.
type FrameHandle interface {
	// Cancel prevents the frame from running. It reports whether the frame
	// was still pending.
	Cancel() bool
}

// Scheduler runs fn once at the next frame boundary.
type Scheduler interface {
	Schedule(fn func()) FrameHandle
}

// TimerScheduler paces frames with a fixed interval.
type TimerScheduler struct {
	Interval time.Duration
}

// NewTimerScheduler returns a scheduler running fps frames per second.
func NewTimerScheduler(fps int) *TimerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TimerScheduler{Interval: time.Second / time.Duration(fps)}
}

func (s *TimerScheduler) Schedule(fn func()) FrameHandle {
	return timerHandle{time.AfterFunc(s.Interval, fn)}
}

type timerHandle struct{ t *time.Timer }

func (h timerHandle) Cancel() bool { return h.t.Stop() }

// ManualScheduler holds at most one pending frame and runs it on Tick.
type ManualScheduler struct {
	mu   sync.Mutex
	next *manualHandle
}

type manualHandle struct {
	s  *ManualScheduler
	fn func()
}

func (s *ManualScheduler) Schedule(fn func()) FrameHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &manualHandle{s: s, fn: fn}
	s.next = h
	return h
}

func (h *manualHandle) Cancel() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if h.s.next != h {
		return false
	}
	h.s.next = nil
	return true
}

// Pending reports whether a frame is waiting.
func (s *ManualScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next != nil
}

// Tick runs the pending frame, if any, and reports whether one ran.
func (s *ManualScheduler) Tick() bool {
	s.mu.Lock()
	h := s.next
	s.next = nil
	s.mu.Unlock()
	if h == nil {
		return false
	}
	h.fn()
	return true
}
