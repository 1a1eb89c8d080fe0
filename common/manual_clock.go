package common

import "time"

// ManualClock is a simulated Clock. Time only moves when Advance is called,
// which makes sequencing deterministic in tests and offline renders.
type ManualClock struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

// NewManualClock creates a clock positioned at t=0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the simulated time elapsed since creation.
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing due callbacks in scheduled order.
// Callbacks scheduled by callbacks fire in the same call when they fall
// within the window.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.at
		next.done = true
		next.fn()
	}
	c.now = target
	c.compact()
}

// AdvanceTo moves time forward to the absolute instant t.
func (c *ManualClock) AdvanceTo(t time.Duration) {
	if t > c.now {
		c.Advance(t - c.now)
	}
}

func (c *ManualClock) nextDue(target time.Duration) *manualTimer {
	var next *manualTimer
	for _, t := range c.timers {
		if t.done || t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (c *ManualClock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(c.timers); i++ {
		c.timers[i] = nil
	}
	c.timers = live
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}
