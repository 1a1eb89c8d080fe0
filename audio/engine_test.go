package audio_test

import (
	"testing"
	"time"

	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/audio/offline"
	"github.com/simukka/bicial/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rate = 8000

func newEngine(opts ...offline.Option) (*audio.Engine, *offline.Context) {
	ctx := offline.New(rate, opts...)
	return audio.NewEngine(func() audio.Context { return ctx }), ctx
}

func TestEngine_PlayToneOnOneEar(t *testing.T) {
	for _, opts := range [][]offline.Option{nil, {offline.WithoutStereoPanner()}} {
		for _, ear := range common.Ears {
			engine, ctx := newEngine(opts...)
			v := engine.PlayTone(500, ear, 200*ms, 0.5)
			require.NotNil(t, v)

			tape := offline.NewTape(rate)
			ctx.Record(tape, 300*ms)
			l, r := tape.Peak()

			if ear == common.Left {
				assert.InDelta(t, 0.5, l, 0.01)
				assert.InDelta(t, 0, r, 1e-9)
			} else {
				assert.InDelta(t, 0, l, 1e-9)
				assert.InDelta(t, 0.5, r, 0.01)
			}
			assert.True(t, v.Ended())
			assert.Zero(t, ctx.ConnectedNodes(), "graph released after the tone")
		}
	}
}

func TestEngine_Envelope(t *testing.T) {
	engine, ctx := newEngine()
	engine.PlayTone(1000, common.Right, 500*ms, 1)

	tape := offline.NewTape(rate)
	ctx.Record(tape, 600*ms)
	_, right := tape.Channels()

	frame := func(at time.Duration) int { return int(at.Seconds() * rate) }
	window := func(from, to time.Duration) float64 {
		peak := 0.0
		for _, v := range right[frame(from):frame(to)] {
			peak = max(peak, v, -v)
		}
		return peak
	}

	assert.Less(t, window(0, 2*ms), 0.25, "attack starts from silence")
	assert.InDelta(t, 1, window(20*ms, 470*ms), 0.01)
	assert.Less(t, window(498*ms, 500*ms), 0.2, "release has decayed by the stop time")
	assert.Zero(t, window(500*ms, 600*ms))
}

func TestEngine_ResumesSuspendedContext(t *testing.T) {
	engine, ctx := newEngine(offline.Suspended())
	require.Equal(t, offline.StateSuspended, ctx.State())

	engine.PlayTone(440, common.Left, 100*ms, 1)
	assert.Equal(t, offline.StateRunning, ctx.State())
}

func TestEngine_NoBackendIsSilent(t *testing.T) {
	engine := audio.NewEngine(func() audio.Context { return nil })
	assert.Nil(t, engine.PlayTone(440, common.Left, time.Second, 1))
	assert.Nil(t, engine.Context())

	dual := audio.NewDualPlayer(engine)
	assert.False(t, dual.Start(0, audio.Tone{Frequency: 440, Gain: 1}, audio.Tone{Frequency: 440, Gain: 1}))
	assert.Equal(t, audio.Idle, dual.State(0))
}

func TestEngine_ZeroDurationIgnored(t *testing.T) {
	engine, ctx := newEngine()
	assert.Nil(t, engine.PlayTone(440, common.Left, 0, 1))
	assert.Zero(t, ctx.ConnectedNodes())
}

func TestVoice_OnDoneAfterEnd(t *testing.T) {
	engine, ctx := newEngine()
	v := engine.PlayTone(440, common.Left, 50*ms, 1)
	done := 0
	v.OnDone(func() { done++ })

	ctx.Advance(100 * ms)
	assert.Equal(t, 1, done)

	v.OnDone(func() { done++ })
	assert.Equal(t, 2, done, "registered after the end runs immediately")
}
