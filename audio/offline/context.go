// Package offline renders audio graphs in software. It implements the audio
// graph interfaces sample by sample so that tone playback can run without a
// browser: in tests, when bouncing a sequence to a WAV file, and as the
// source of a live portaudio stream.
package offline

import (
	"sync"

	"github.com/pion/logging"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
)

// DefaultSampleRate is used when New is given a non-positive rate.
const DefaultSampleRate = 48000

// Context states, mirroring AudioContext.state.
const (
	StateRunning   = "running"
	StateSuspended = "suspended"
	StateClosed    = "closed"
)

// Option configures a Context.
type Option func(*Context)

// WithoutStereoPanner makes CreateStereoPanner report no support, as older
// browsers do.
func WithoutStereoPanner() Option {
	return func(c *Context) { c.noPanner = true }
}

// WithDispatcher delivers ended callbacks through dispatch instead of calling
// them on the rendering goroutine. Live output uses it to hop back onto the
// UI event loop.
func WithDispatcher(dispatch func(func())) Option {
	return func(c *Context) { c.dispatch = dispatch }
}

// Suspended creates the context in the suspended state. Rendering produces
// silence and the clock does not advance until Resume.
func Suspended() Option {
	return func(c *Context) { c.state = StateSuspended }
}

// WithMasterGain scales the rendered output.
func WithMasterGain(g float64) Option {
	return func(c *Context) { c.master = g }
}

// Context is a software AudioContext. Graph mutation and rendering may happen
// on different goroutines.
type Context struct {
	mu       sync.Mutex
	rate     float64
	frame    int64
	state    string
	master   float64
	noPanner bool
	dispatch func(func())

	dest    *node
	sources []*Oscillator
	live    map[*node]struct{}
	ended   []func()

	// scratch buffers reused across Render calls
	left, right []float64
	inter       []float64

	log logging.LeveledLogger
}

var _ audio.Context = (*Context)(nil)

// New creates a running context at the given sample rate.
func New(sampleRate float64, opts ...Option) *Context {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	c := &Context{
		rate:   sampleRate,
		state:  StateRunning,
		master: 1,
		live:   make(map[*node]struct{}),
		log:    common.Logger("offline"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.dest = newNode(c, 1, mixStereo)
	return c
}

// CurrentTime returns the render position in seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

func (c *Context) now() float64 {
	return float64(c.frame) / c.rate
}

// SampleRate returns the rate in Hz.
func (c *Context) SampleRate() float64 {
	return c.rate
}

// State returns the context state.
func (c *Context) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resume moves a suspended context to running.
func (c *Context) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSuspended {
		c.state = StateRunning
		c.log.Debug("resumed")
	}
}

// Suspend stops the clock until Resume.
func (c *Context) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		c.state = StateSuspended
	}
}

// Close stops rendering permanently.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
}

// Destination returns the stereo output node.
func (c *Context) Destination() audio.Node {
	return c.dest
}

// CreateOscillator creates a stopped sine oscillator at 440 Hz.
func (c *Context) CreateOscillator() audio.Oscillator {
	o := &Oscillator{}
	o.node = newNode(c, 0, o.process)
	o.freq = newParam(c, 440)
	o.start, o.stop = -1, -1
	return o
}

// CreateGain creates a unity gain node.
func (c *Context) CreateGain() audio.Gain {
	g := &Gain{}
	g.node = newNode(c, 1, g.process)
	g.gain = newParam(c, 1)
	return g
}

// CreateStereoPanner creates a centred equal-power panner, unless the context
// was built WithoutStereoPanner.
func (c *Context) CreateStereoPanner() (audio.Panner, bool) {
	if c.noPanner {
		return nil, false
	}
	p := &Panner{}
	p.node = newNode(c, 1, p.process)
	p.pan = newParam(c, 0)
	return p, true
}

// CreateChannelMerger creates a merger whose input i feeds output channel i.
// Only the first two inputs are audible.
func (c *Context) CreateChannelMerger(inputs int) audio.Node {
	if inputs < 1 {
		inputs = 1
	}
	return newNode(c, inputs, mergeChannels)
}

// ConnectedNodes counts nodes that still have an outgoing connection.
func (c *Context) ConnectedNodes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}

// ActiveSources counts oscillators that were started and have not ended.
func (c *Context) ActiveSources() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, o := range c.sources {
		if o.start >= 0 && !o.ended {
			n++
		}
	}
	return n
}
