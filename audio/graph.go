package audio

// Context is the subset of a Web Audio AudioContext the engine drives. Times
// are in seconds on the context clock.
type Context interface {
	CurrentTime() float64
	SampleRate() float64
	// State reports "running", "suspended" or "closed".
	State() string
	// Resume asks the backend to leave the suspended state. Best effort.
	Resume()
	Destination() Node

	CreateOscillator() Oscillator
	CreateGain() Gain
	// CreateStereoPanner returns false when the backend has no stereo panner.
	CreateStereoPanner() (Panner, bool)
	CreateChannelMerger(inputs int) Node
}

// Node is an audio graph vertex.
type Node interface {
	// Connect routes output 0 into input 0 of dst.
	Connect(dst Node)
	// ConnectInput routes output 0 into the given input of dst.
	ConnectInput(dst Node, input int)
	// Disconnect drops every outgoing connection.
	Disconnect()
}

// Param is an automatable node parameter (AudioParam).
type Param interface {
	// Value is the current computed value.
	Value() float64
	// SetValue sets the static value; use on fresh params only.
	SetValue(v float64)
	SetValueAtTime(v, t float64)
	LinearRampToValueAtTime(v, t float64)
	SetTargetAtTime(target, start, timeConstant float64)
	CancelScheduledValues(t float64)
}

// Oscillator is a sine OscillatorNode.
type Oscillator interface {
	Node
	Frequency() Param
	Start(t float64)
	Stop(t float64)
	// OnEnded registers f to run once the oscillator has stopped.
	OnEnded(f func())
}

// Gain is a GainNode.
type Gain interface {
	Node
	Gain() Param
}

// Panner is a StereoPannerNode.
type Panner interface {
	Node
	Pan() Param
}

// Backend lazily provides the process-wide audio context. It returns nil when
// no audio output is available.
type Backend func() Context
