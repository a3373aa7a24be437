// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit limits how often a section of code is entered within a
// sliding window of time.
package ratelimit

import (
	"context"
	"time"
)

// Window allows at most Max entries within any span of Size. Callers that
// would exceed the limit block in Wait until the oldest entry leaves the
// window. A Window is safe for concurrent use; waiters are served one at a
// time.
type Window struct {
	max  int
	size time.Duration

	// slot is a one-element semaphore guarding enters. A channel is used
	// instead of a mutex so that waiting for the slot honors ctx.
	slot   chan struct{}
	enters []time.Time
}

// NewWindow returns a limiter that admits max entries per size. Non-positive
// values fall back to a single entry per second.
func NewWindow(max int, size time.Duration) *Window {
	if max <= 0 {
		max = 1
	}
	if size <= 0 {
		size = time.Second
	}
	return &Window{
		max:    max,
		size:   size,
		slot:   make(chan struct{}, 1),
		enters: make([]time.Time, 0, max),
	}
}

// Max returns the number of entries allowed per window.
func (w *Window) Max() int { return w.max }

// Size returns the window duration.
func (w *Window) Size() time.Duration { return w.size }

// Wait blocks until an entry is available and records it. It returns
// ctx.Err() if the context is done first; no entry is recorded in that case.
func (w *Window) Wait(ctx context.Context) error {
	select {
	case w.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-w.slot }()

	now := time.Now()
	w.expire(now)

	if len(w.enters) >= w.max {
		delay := w.enters[0].Add(w.size).Sub(now)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		now = time.Now()
		w.expire(now)
	}

	w.enters = append(w.enters, now)
	return nil
}

// InWindow returns the number of entries recorded within the current window.
func (w *Window) InWindow() int {
	w.slot <- struct{}{}
	defer func() { <-w.slot }()

	w.expire(time.Now())
	return len(w.enters)
}

// expire drops entries older than the window. Must be called holding slot.
func (w *Window) expire(now time.Time) {
	cutoff := now.Add(-w.size)
	i := 0
	for i < len(w.enters) && !w.enters[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.enters = append(w.enters[:0], w.enters[i:]...)
	}
}
