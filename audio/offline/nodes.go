package offline

import (
	"math"

	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
)

// Oscillator is a sine source.
type Oscillator struct {
	*node
	freq        *Param
	start, stop float64
	phase       float64
	ended       bool
	onEnded     []func()
}

var _ audio.Oscillator = (*Oscillator)(nil)

func (o *Oscillator) Frequency() audio.Param { return o.freq }

// Start schedules the oscillator; times in the past start immediately. An
// oscillator can only be started once.
func (o *Oscillator) Start(t float64) {
	c := o.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if o.start >= 0 {
		c.log.Warn("oscillator already started")
		return
	}
	if now := c.now(); t < now {
		t = now
	}
	o.start = t
	c.sources = append(c.sources, o)
}

// Stop schedules the end of the oscillator. It may be called again to move
// the stop time as long as the oscillator has not ended.
func (o *Oscillator) Stop(t float64) {
	c := o.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if o.start < 0 {
		c.log.Warn("stop before start")
		return
	}
	if o.ended {
		return
	}
	if t < o.start {
		t = o.start
	}
	o.stop = t
}

func (o *Oscillator) OnEnded(f func()) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	o.onEnded = append(o.onEnded, f)
}

func (o *Oscillator) process(_ *node, _ int64, t float64) signal {
	if o.start < 0 || o.ended || t < o.start || (o.stop >= 0 && t >= o.stop) {
		return signal{}
	}
	s := math.Sin(2 * math.Pi * o.phase)
	o.phase += o.freq.at(t) / o.ctx.rate
	o.phase -= math.Floor(o.phase)
	return signal{l: s}
}

// Gain scales its input.
type Gain struct {
	*node
	gain *Param
}

var _ audio.Gain = (*Gain)(nil)

func (g *Gain) Gain() audio.Param { return g.gain }

func (g *Gain) process(n *node, frame int64, t float64) signal {
	return n.input(0, frame, t).scale(g.gain.at(t))
}

// Panner is an equal-power stereo panner.
type Panner struct {
	*node
	pan *Param
}

var _ audio.Panner = (*Panner)(nil)

func (p *Panner) Pan() audio.Param { return p.pan }

func (p *Panner) process(n *node, frame int64, t float64) signal {
	in := n.input(0, frame, t)
	pan := common.ClampFloat(p.pan.at(t), -1, 1)
	if !in.stereo {
		x := (pan + 1) / 2 * math.Pi / 2
		return signal{l: in.l * math.Cos(x), r: in.l * math.Sin(x), stereo: true}
	}
	if pan <= 0 {
		x := (pan + 1) * math.Pi / 2
		return signal{l: in.l + in.r*math.Cos(x), r: in.r * math.Sin(x), stereo: true}
	}
	x := pan * math.Pi / 2
	return signal{l: in.l * math.Cos(x), r: in.r + in.l*math.Sin(x), stereo: true}
}
