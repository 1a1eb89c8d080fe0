//go:build !js
// +build !js

package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simukka/bicial/common"
)

// callMsg carries a callback onto the program's update loop.
type callMsg struct{ f func() }

// loopClock fires timers as messages so callbacks run inside Update, never
// concurrently with key handling.
type loopClock struct {
	send func(tea.Msg)
}

var _ common.Clock = (*loopClock)(nil)

func (c *loopClock) AfterFunc(d time.Duration, f func()) common.Timer {
	t := &loopTimer{}
	t.t = time.AfterFunc(d, func() {
		c.send(callMsg{func() {
			if t.stopped {
				return
			}
			t.fired = true
			f()
		}})
	})
	return t
}

// loopTimer state is only touched on the update loop.
type loopTimer struct {
	t       *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.t.Stop()
	return true
}

// dispatcher hands audio completions from the render thread to the loop
// without blocking the audio callback.
func dispatcher(send func(tea.Msg)) func(func()) {
	return func(f func()) {
		go send(callMsg{f})
	}
}
