// Package effects holds the small timer- and input-driven UI effects that
// decorate the site around the particle backdrop. Each effect is a plain
// state machine advanced by elapsed time from the host's frame loop.
package effects

import "time"

// Countdown timings
const (
	DefaultCountdownSeconds = 3
	countdownStep           = time.Second
	progressStep            = 100 * time.Millisecond
)

// Countdown drives the 404 page redirect: it counts down once per second and
// navigates when it reaches zero, unless cancelled first.
type Countdown struct {
	Seconds  int     // Remaining whole seconds
	Progress float64 // Bar fill, 100 down to 0

	duration  int
	navigate  func()
	cancelled bool
	fired     bool
	tickAcc   time.Duration
	barAcc    time.Duration
}

// NewCountdown starts a countdown of the given length. navigate is called at
// most once.
func NewCountdown(seconds int, navigate func()) *Countdown {
	if seconds <= 0 {
		seconds = DefaultCountdownSeconds
	}
	return &Countdown{
		Seconds:  seconds,
		Progress: 100,
		duration: seconds,
		navigate: navigate,
	}
}

// Advance feeds elapsed time into the countdown.
func (c *Countdown) Advance(dt time.Duration) {
	if c.cancelled || c.fired {
		return
	}

	c.barAcc += dt
	for c.barAcc >= progressStep {
		c.barAcc -= progressStep
		c.Progress -= 100 / float64(c.duration*10)
		if c.Progress < 0 {
			c.Progress = 0
		}
	}

	c.tickAcc += dt
	for c.tickAcc >= countdownStep && !c.fired {
		c.tickAcc -= countdownStep
		c.tick()
	}
}

func (c *Countdown) tick() {
	if c.Seconds <= 1 {
		c.Seconds = 0
		c.fire()
		return
	}
	c.Seconds--
}

// Cancel freezes the countdown. No navigation happens afterwards unless
// GoNow is called.
func (c *Countdown) Cancel() {
	c.cancelled = true
}

// GoNow navigates immediately, once.
func (c *Countdown) GoNow() {
	c.fire()
}

func (c *Countdown) fire() {
	if c.fired {
		return
	}
	c.fired = true
	if c.navigate != nil {
		c.navigate()
	}
}

// Cancelled reports whether the redirect was cancelled. The page swaps its
// control panel when this turns true.
func (c *Countdown) Cancelled() bool {
	return c.cancelled
}

// Fired reports whether navigation has happened.
func (c *Countdown) Fired() bool {
	return c.fired
}
