package offline

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rate = 8000

func TestParam_Automation(t *testing.T) {
	c := New(rate)
	p := newParam(c, 1)

	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, 0.01)
	p.SetTargetAtTime(0, 0.5, 0.01)

	tests := []struct {
		at   float64
		want float64
	}{
		{0, 0},
		{0.005, 0.5},
		{0.01, 1},
		{0.3, 1},
		{0.5, 1},
		{0.51, math.Exp(-1)},
		{0.6, math.Exp(-10)},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, p.at(tt.at), 1e-9, "t=%v", tt.at)
	}
}

func TestParam_CancelAndRamp(t *testing.T) {
	c := New(rate)
	g := c.CreateGain().(*Gain)
	p := g.gain

	p.SetValueAtTime(0.2, 0)
	p.LinearRampToValueAtTime(0.8, 1)
	c.Advance(500 * time.Millisecond)
	assert.InDelta(t, 0.5, p.Value(), 1e-3)

	now, cur := c.CurrentTime(), p.Value()
	p.CancelScheduledValues(now)
	p.SetValueAtTime(cur, now)
	p.LinearRampToValueAtTime(0, now+0.03)
	c.Advance(40 * time.Millisecond)
	assert.InDelta(t, 0, p.Value(), 1e-9)
}

func TestParam_CollapseKeepsCurve(t *testing.T) {
	c := New(rate)
	p := newParam(c, 0)
	for i := 0; i < 50; i++ {
		p.SetValueAtTime(float64(i), float64(i)/100)
	}
	c.Advance(time.Second)
	p.LinearRampToValueAtTime(100, 2)

	assert.Len(t, p.events, 2)
	ramp := func(x float64) float64 { return 49 + 51*(x-0.49)/1.51 }
	assert.InDelta(t, 49, p.at(0.49), 1e-9)
	assert.InDelta(t, ramp(1), p.at(1), 1e-9)
	assert.InDelta(t, ramp(1.5), p.at(1.5), 1e-9)
	assert.InDelta(t, 100, p.at(3), 1e-9)
}

func TestOscillator_EndsAndFiresOnce(t *testing.T) {
	c := New(rate)
	osc := c.CreateOscillator()
	osc.Connect(c.Destination())
	calls := 0
	osc.OnEnded(func() { calls++ })

	osc.Start(0)
	osc.Stop(0.1)
	assert.Equal(t, 1, c.ActiveSources())

	c.Advance(90 * time.Millisecond)
	assert.Zero(t, calls)
	c.Advance(20 * time.Millisecond)
	assert.Equal(t, 1, calls)
	assert.Zero(t, c.ActiveSources())

	c.Advance(time.Second)
	assert.Equal(t, 1, calls)
}

func TestPanner_HardLeftAndRight(t *testing.T) {
	for _, pan := range []float64{-1, 1} {
		c := New(rate)
		osc := c.CreateOscillator()
		p, ok := c.CreateStereoPanner()
		require.True(t, ok)
		p.Pan().SetValue(pan)
		osc.Connect(p)
		p.Connect(c.Destination())
		osc.Start(0)

		tape := NewTape(rate)
		c.Record(tape, 50*time.Millisecond)
		l, r := tape.Peak()
		if pan < 0 {
			assert.InDelta(t, 1, l, 0.01)
			assert.InDelta(t, 0, r, 1e-9)
		} else {
			assert.InDelta(t, 0, l, 1e-9)
			assert.InDelta(t, 1, r, 0.01)
		}
	}
}

func TestMerger_RoutesInputsToChannels(t *testing.T) {
	c := New(rate, WithoutStereoPanner())
	_, ok := c.CreateStereoPanner()
	assert.False(t, ok)

	osc := c.CreateOscillator()
	gl, gr := c.CreateGain(), c.CreateGain()
	gr.Gain().SetValue(0)
	merger := c.CreateChannelMerger(2)
	osc.Connect(gl)
	osc.Connect(gr)
	gl.ConnectInput(merger, 0)
	gr.ConnectInput(merger, 1)
	merger.Connect(c.Destination())
	osc.Start(0)

	tape := NewTape(rate)
	c.Record(tape, 50*time.Millisecond)
	l, r := tape.Peak()
	assert.InDelta(t, 1, l, 0.01)
	assert.Zero(t, r)
	assert.Equal(t, 4, c.ConnectedNodes())

	for _, n := range []interface{ Disconnect() }{osc, gl, gr, merger} {
		n.Disconnect()
	}
	assert.Zero(t, c.ConnectedNodes())
}

func TestSuspended_RendersSilenceWithoutAdvancing(t *testing.T) {
	c := New(rate, Suspended())
	assert.Equal(t, StateSuspended, c.State())
	osc := c.CreateOscillator()
	osc.Connect(c.Destination())
	osc.Start(0)

	c.Advance(100 * time.Millisecond)
	assert.Zero(t, c.CurrentTime())

	c.Resume()
	assert.Equal(t, StateRunning, c.State())
	c.Advance(100 * time.Millisecond)
	assert.InDelta(t, 0.1, c.CurrentTime(), 1.0/rate)
}

func TestDispatcher_DefersCallbacks(t *testing.T) {
	var queued []func()
	c := New(rate, WithDispatcher(func(f func()) { queued = append(queued, f) }))
	osc := c.CreateOscillator()
	fired := false
	osc.OnEnded(func() { fired = true })
	osc.Start(0)
	osc.Stop(0.01)

	c.Advance(20 * time.Millisecond)
	assert.False(t, fired)
	require.Len(t, queued, 1)
	queued[0]()
	assert.True(t, fired)
}

func TestReadFloat32_Interleaves(t *testing.T) {
	c := New(rate, WithMasterGain(2))
	osc := c.CreateOscillator()
	p, _ := c.CreateStereoPanner()
	p.Pan().SetValue(1)
	osc.Connect(p)
	p.Connect(c.Destination())
	osc.Start(0)

	out := make([]float32, 2*256)
	c.ReadFloat32(out)
	maxR := float32(0)
	for i := 0; i < len(out); i += 2 {
		assert.InDelta(t, 0, out[i], 1e-6)
		assert.LessOrEqual(t, out[i+1], float32(1))
		if out[i+1] > maxR {
			maxR = out[i+1]
		}
	}
	assert.Equal(t, float32(1), maxR, "master gain clips at full scale")
}

func TestTape_WriteWAV(t *testing.T) {
	c := New(rate)
	osc := c.CreateOscillator()
	osc.Connect(c.Destination())
	osc.Start(0)
	tape := NewTape(rate)
	c.Record(tape, 250*time.Millisecond)
	assert.Equal(t, 2000, tape.Frames())
	assert.Equal(t, 250*time.Millisecond, tape.Duration())

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tape.WriteWAV(f))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, rate, buf.Format.SampleRate)
	assert.Len(t, buf.Data, 4000)
}
