// Package loop provides the self-rescheduling frame loop that drives the
// backdrop. A host supplies the "next frame" primitive, either by calling
// Tick from its own update callback or by handing Run a tick channel.
//
// A Loop is owned by a single goroutine. Cross-goroutine shutdown goes
// through the context passed to Run.
package loop

import (
	"context"
	"time"
)

// Loop runs one frame callback per tick until stopped.
type Loop struct {
	frame   func()
	stopped bool
	frames  uint64
}

// New returns a live loop around frame.
func New(frame func()) *Loop {
	return &Loop{frame: frame}
}

// Tick runs one frame unless the loop has been stopped. It reports whether
// the host should schedule another tick.
func (l *Loop) Tick() bool {
	if l.stopped {
		return false
	}
	if l.frame != nil {
		l.frame()
	}
	l.frames++
	return true
}

// Stop cancels the loop. Later ticks are no-ops.
func (l *Loop) Stop() {
	l.stopped = true
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	return l.stopped
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Run calls Tick for every value received on ticks. It returns nil when the
// loop is stopped or ticks is closed, and ctx.Err() when ctx ends first.
func (l *Loop) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if !l.Tick() {
				return nil
			}
		}
	}
}
