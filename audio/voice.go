package audio

import (
	"math"
	"time"

	"github.com/simukka/bicial/common"
)

// Voice is one sounding tone: an oscillator, its envelope and the routing to
// one ear. Every voice owns its nodes and disconnects them when the
// oscillator ends.
type Voice struct {
	ctx   Context
	ear   common.Ear
	osc   Oscillator
	env   Gain
	nodes []Node

	ended  bool
	onDone []func()
}

func newVoice(ctx Context, freq float64, ear common.Ear) *Voice {
	v := &Voice{
		ctx: ctx,
		ear: ear,
		osc: ctx.CreateOscillator(),
		env: ctx.CreateGain(),
	}
	v.osc.Frequency().SetValue(math.Max(freq, 0))
	v.env.Gain().SetValue(0)
	v.osc.Connect(v.env)
	v.nodes = append([]Node{v.osc, v.env}, route(ctx, v.env, ear)...)
	v.osc.OnEnded(v.release)
	return v
}

// Ear returns the ear the voice is routed to.
func (v *Voice) Ear() common.Ear { return v.ear }

// Ended reports whether the oscillator has stopped and the graph is released.
func (v *Voice) Ended() bool { return v.ended }

// OnDone registers f to run after the voice has been released. If the voice
// has already ended f runs immediately.
func (v *Voice) OnDone(f func()) {
	if v.ended {
		f()
		return
	}
	v.onDone = append(v.onDone, f)
}

// SetFrequency retunes the oscillator immediately.
func (v *Voice) SetFrequency(freq float64) {
	if v.ended {
		return
	}
	v.osc.Frequency().SetValueAtTime(math.Max(freq, 0), v.ctx.CurrentTime())
}

// RampGain moves the envelope from its current value to gain over d.
func (v *Voice) RampGain(gain float64, d time.Duration) {
	if v.ended {
		return
	}
	now := v.ctx.CurrentTime()
	p := v.env.Gain()
	cur := p.Value()
	p.CancelScheduledValues(now)
	p.SetValueAtTime(cur, now)
	p.LinearRampToValueAtTime(common.ClampFloat(gain, 0, 1), now+d.Seconds())
}

// Stop fades the voice out over fade and stops the oscillator after.
func (v *Voice) Stop(fade, after time.Duration) {
	if v.ended {
		return
	}
	v.RampGain(0, fade)
	v.osc.Stop(v.ctx.CurrentTime() + after.Seconds())
}

func (v *Voice) release() {
	if v.ended {
		return
	}
	v.ended = true
	for _, n := range v.nodes {
		n.Disconnect()
	}
	v.nodes = nil
	done := v.onDone
	v.onDone = nil
	for _, f := range done {
		f()
	}
}
