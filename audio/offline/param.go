package offline

import (
	"math"

	"github.com/simukka/bicial/audio"
)

type eventKind int

const (
	setEvent eventKind = iota
	rampEvent
	targetEvent
)

type event struct {
	kind eventKind
	t    float64
	v    float64
	tc   float64
}

// Param is a sample-accurate AudioParam. Events are kept sorted by time; the
// value before the first event is the static value.
type Param struct {
	ctx    *Context
	def    float64
	events []event
}

var _ audio.Param = (*Param)(nil)

func newParam(c *Context, def float64) *Param {
	return &Param{ctx: c, def: def}
}

// Value returns the value at the current render position.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.at(p.ctx.now())
}

// SetValue replaces the static value and drops all automation.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.def = v
	p.events = nil
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(event{kind: setEvent, t: t, v: v})
}

func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(event{kind: rampEvent, t: t, v: v})
}

// SetTargetAtTime approaches target exponentially from start. A non-positive
// time constant jumps straight to target.
func (p *Param) SetTargetAtTime(target, start, timeConstant float64) {
	if timeConstant <= 0 {
		p.SetValueAtTime(target, start)
		return
	}
	p.insert(event{kind: targetEvent, t: start, v: target, tc: timeConstant})
}

// CancelScheduledValues removes every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	for i, e := range p.events {
		if e.t >= t {
			p.events = p.events[:i]
			return
		}
	}
}

func (p *Param) insert(e event) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.collapse(p.ctx.now())
	i := len(p.events)
	for i > 0 && p.events[i-1].t > e.t {
		i--
	}
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// collapse folds events that are entirely in the past into a single set event
// so that long-lived params do not accumulate history.
func (p *Param) collapse(now float64) {
	k := -1
	for i, e := range p.events {
		if e.t > now {
			break
		}
		if e.kind != targetEvent {
			k = i
		}
	}
	if k <= 0 {
		return
	}
	base := p.events[k]
	base.kind = setEvent
	p.events = append(p.events[:0], p.events[k:]...)
	p.events[0] = base
}

// at evaluates the automation curve at time t. Callers hold ctx.mu.
func (p *Param) at(t float64) float64 {
	v, prev := p.def, 0.0
	for i, e := range p.events {
		switch e.kind {
		case setEvent:
			if e.t > t {
				return v
			}
			v, prev = e.v, e.t
		case rampEvent:
			if e.t > t {
				if e.t <= prev {
					return v
				}
				return v + (e.v-v)*(t-prev)/(e.t-prev)
			}
			v, prev = e.v, e.t
		case targetEvent:
			if e.t > t {
				return v
			}
			end := t
			next := i+1 < len(p.events) && p.events[i+1].t <= t
			if next {
				end = p.events[i+1].t
			}
			v = e.v + (v-e.v)*math.Exp(-(end-e.t)/e.tc)
			prev = end
			if !next {
				return v
			}
		}
	}
	return v
}
