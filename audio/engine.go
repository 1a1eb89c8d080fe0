package audio

import (
	"time"

	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
)

// Envelope timings in seconds.
const (
	attack        = 0.010
	releaseLead   = 0.020
	releaseTC     = 0.010
	dualAttack    = 0.020
	dualFade      = 0.020
	dualStopAfter = 0.060
	gainRamp      = 0.030
)

// Engine synthesises single sine tones. It owns the process-wide audio
// context, which is created on first use.
type Engine struct {
	backend Backend
	ctx     Context
	tried   bool
	log     logging.LeveledLogger
}

// NewEngine returns an engine that obtains its context from backend.
func NewEngine(backend Backend) *Engine {
	return &Engine{
		backend: backend,
		log:     common.Logger("audio"),
	}
}

// Context returns the audio context, creating it on first call and resuming
// it if the host suspended it. It returns nil when audio is unavailable.
func (e *Engine) Context() Context {
	if e.ctx == nil && !e.tried {
		e.tried = true
		if e.backend != nil {
			e.ctx = e.backend()
		}
		if e.ctx == nil {
			e.log.Warn("no audio context available, playback is silent")
		}
	}
	if e.ctx == nil {
		return nil
	}
	if e.ctx.State() == "suspended" {
		e.ctx.Resume()
	}
	return e.ctx
}

// PlayTone plays one sine tone panned hard to ear. The tone ramps in over
// 10ms, decays from 20ms before its end and tears its graph down once the
// oscillator has stopped. It returns nil when nothing could be played.
func (e *Engine) PlayTone(freq float64, ear common.Ear, d time.Duration, gain float64) *Voice {
	if d <= 0 {
		e.log.Debugf("ignoring tone of duration %v", d)
		return nil
	}
	ctx := e.Context()
	if ctx == nil {
		return nil
	}

	v := newVoice(ctx, freq, ear)
	now := ctx.CurrentTime()
	sec := d.Seconds()
	g := v.env.Gain()
	g.SetValueAtTime(0, now)
	g.LinearRampToValueAtTime(common.ClampFloat(gain, 0, 1), now+attack)
	g.SetTargetAtTime(0, now+max(sec-releaseLead, releaseLead), releaseTC)
	v.osc.Start(now)
	v.osc.Stop(now + sec)
	e.log.Tracef("tone %.0fHz %s %v gain %.2f", freq, ear, d, gain)
	return v
}

// route connects src to the destination so that it is heard only on ear,
// through a stereo panner when the backend has one and through a per-channel
// gain split into a two-input merger otherwise. It returns the created nodes.
func route(ctx Context, src Node, ear common.Ear) []Node {
	if p, ok := ctx.CreateStereoPanner(); ok {
		p.Pan().SetValue(ear.Pan())
		src.Connect(p)
		p.Connect(ctx.Destination())
		return []Node{p}
	}

	gl, gr := ctx.CreateGain(), ctx.CreateGain()
	if ear == common.Left {
		gr.Gain().SetValue(0)
	} else {
		gl.Gain().SetValue(0)
	}
	merger := ctx.CreateChannelMerger(2)
	src.Connect(gl)
	src.Connect(gr)
	gl.ConnectInput(merger, 0)
	gr.ConnectInput(merger, 1)
	merger.Connect(ctx.Destination())
	return []Node{gl, gr, merger}
}
