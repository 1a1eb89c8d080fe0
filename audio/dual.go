package audio

import (
	"sort"
	"time"

	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
)

// DualState is the lifecycle of a row's simultaneous L+R session.
type DualState int

const (
	Idle DualState = iota
	Sounding
	// Stopping means the fade-out is running and the session waits for both
	// oscillators to end.
	Stopping
)

func (s DualState) String() string {
	switch s {
	case Sounding:
		return "sounding"
	case Stopping:
		return "stopping"
	}
	return "idle"
}

// Tone is the frequency and effective gain of one channel.
type Tone struct {
	Frequency float64
	Gain      float64
}

type session struct {
	state    DualState
	voices   [2]*Voice
	pending  int
	detached bool
}

// DualPlayer keeps at most one continuous left+right tone pair per row.
type DualPlayer struct {
	engine   *Engine
	sessions map[int]*session
	onChange func(row int, state DualState)
	log      logging.LeveledLogger
}

// NewDualPlayer creates a player on engine.
func NewDualPlayer(engine *Engine) *DualPlayer {
	return &DualPlayer{
		engine:   engine,
		sessions: make(map[int]*session),
		log:      common.Logger("dual"),
	}
}

// OnChange registers f to be told about every state transition.
func (p *DualPlayer) OnChange(f func(row int, state DualState)) {
	p.onChange = f
}

// State returns the state of row.
func (p *DualPlayer) State(row int) DualState {
	if s, ok := p.sessions[row]; ok {
		return s.state
	}
	return Idle
}

// Active reports whether row is sounding.
func (p *DualPlayer) Active(row int) bool {
	return p.State(row) == Sounding
}

// Rows returns the rows with a sounding session in ascending order.
func (p *DualPlayer) Rows() []int {
	var rows []int
	for row, s := range p.sessions {
		if s.state == Sounding {
			rows = append(rows, row)
		}
	}
	sort.Ints(rows)
	return rows
}

// Start begins a session for row. It is a no-op unless row is idle and
// reports whether a session was started.
func (p *DualPlayer) Start(row int, left, right Tone) bool {
	if p.State(row) != Idle {
		p.log.Debugf("row %d already %s", row, p.State(row))
		return false
	}
	ctx := p.engine.Context()
	if ctx == nil {
		return false
	}

	s := &session{state: Sounding}
	now := ctx.CurrentTime()
	for i, tone := range [2]Tone{left, right} {
		v := newVoice(ctx, tone.Frequency, common.Ears[i])
		g := v.env.Gain()
		g.SetValueAtTime(0, now)
		g.LinearRampToValueAtTime(common.ClampFloat(tone.Gain, 0, 1), now+dualAttack)
		v.osc.Start(now)
		s.voices[i] = v
	}
	p.sessions[row] = s
	p.log.Debugf("row %d sounding: L %.0fHz R %.0fHz", row, left.Frequency, right.Frequency)
	p.notify(row, Sounding)
	return true
}

// UpdateFrequency retunes ear of a sounding row immediately.
func (p *DualPlayer) UpdateFrequency(row int, ear common.Ear, freq float64) {
	if s, ok := p.sessions[row]; ok && s.state == Sounding {
		s.voices[ear.Index()].SetFrequency(freq)
	}
}

// UpdateGain ramps ear of a sounding row to gain over 30ms.
func (p *DualPlayer) UpdateGain(row int, ear common.Ear, gain float64) {
	if s, ok := p.sessions[row]; ok && s.state == Sounding {
		s.voices[ear.Index()].RampGain(gain, time.Duration(gainRamp*float64(time.Second)))
	}
}

// Stop fades row out. The session stays in Stopping until both oscillators
// have ended, then becomes Idle. Stopping an idle row does nothing.
func (p *DualPlayer) Stop(row int) {
	s, ok := p.sessions[row]
	if !ok || s.state != Sounding {
		return
	}
	s.state = Stopping
	s.pending = len(s.voices)
	p.notify(row, Stopping)

	fade := time.Duration(dualFade * float64(time.Second))
	after := time.Duration(dualStopAfter * float64(time.Second))
	for _, v := range s.voices {
		v.Stop(fade, after)
		v.OnDone(func() {
			s.pending--
			if s.pending > 0 {
				return
			}
			if s.detached {
				p.log.Debugf("detached session of row %d released", row)
				return
			}
			if p.sessions[row] == s {
				delete(p.sessions, row)
			}
			p.log.Debugf("row %d idle", row)
			p.notify(row, Idle)
		})
	}
}

// StopAll stops every sounding row.
func (p *DualPlayer) StopAll() {
	for _, row := range p.Rows() {
		p.Stop(row)
	}
}

// Detach forgets every session that is fading out. Their voices still finish
// and release their nodes, but the rows become Idle at once and no further
// change is reported for them. Use it when row indices are about to change
// meaning.
func (p *DualPlayer) Detach() {
	for row, s := range p.sessions {
		if s.state != Stopping {
			continue
		}
		s.detached = true
		delete(p.sessions, row)
	}
}

func (p *DualPlayer) notify(row int, state DualState) {
	if p.onChange != nil {
		p.onChange(row, state)
	}
}
