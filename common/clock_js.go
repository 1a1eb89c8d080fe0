//go:build js
// +build js

package common

import (
	"time"

	"github.com/gopherjs/gopherjs/js"
)

// BrowserClock schedules callbacks with window.setTimeout.
type BrowserClock struct{}

type browserTimer struct {
	id   *js.Object
	done bool
}

// AfterFunc implements Clock.
func (BrowserClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &browserTimer{}
	t.id = js.Global.Call("setTimeout", func() {
		if t.done {
			return
		}
		t.done = true
		f()
	}, float64(d)/float64(time.Millisecond))
	return t
}

func (t *browserTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	js.Global.Call("clearTimeout", t.id)
	return true
}
