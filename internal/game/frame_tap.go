package game

import (
	"sync"
	"time"
)

// frameTap records the last N frame durations into a ring buffer so the
// overlay can show recent frame timing.
type frameTap struct {
	buffer    []time.Duration
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func newFrameTap(ringSize int) *frameTap {
	return &frameTap{
		buffer: make([]time.Duration, ringSize),
	}
}

func (t *frameTap) record(d time.Duration) {
	t.mu.Lock()
	t.buffer[t.nextIndex] = d
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	if t.filled < len(t.buffer) {
		t.filled++
	}
	t.mu.Unlock()
}

// snapshot returns up to the last n durations (most recent last).
func (t *frameTap) snapshot(n int) []time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > t.filled {
		n = t.filled
	}
	out := make([]time.Duration, 0, n)
	// Walk backwards from nextIndex - 1
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := 0; i < n; i++ {
		out = append(out, t.buffer[idx])
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	// reverse to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
