package common

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer; false means it already fired or was stopped.
	Stop() bool
}

// Clock schedules callbacks on the host event loop. Callbacks never run
// concurrently with each other or with the code that scheduled them.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}
