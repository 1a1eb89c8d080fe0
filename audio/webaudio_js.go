//go:build js
// +build js

package audio

import (
	"github.com/gopherjs/gopherjs/js"
)

// BrowserContext creates a Web Audio context, falling back to the prefixed
// constructor. It returns nil when the browser has no Web Audio support.
func BrowserContext() Context {
	ctor := js.Global.Get("AudioContext")
	if ctor == nil || ctor == js.Undefined {
		ctor = js.Global.Get("webkitAudioContext")
	}
	if ctor == nil || ctor == js.Undefined {
		return nil
	}
	return &webContext{o: ctor.New()}
}

type jsNode interface {
	object() *js.Object
}

type webContext struct {
	o *js.Object
}

func (c *webContext) CurrentTime() float64 { return c.o.Get("currentTime").Float() }
func (c *webContext) SampleRate() float64  { return c.o.Get("sampleRate").Float() }
func (c *webContext) State() string        { return c.o.Get("state").String() }

// Resume ignores the returned promise; a blocked resume leaves the context
// suspended and playback silent.
func (c *webContext) Resume() {
	c.o.Call("resume")
}

func (c *webContext) Destination() Node {
	return &webNode{o: c.o.Get("destination")}
}

func (c *webContext) CreateOscillator() Oscillator {
	o := c.o.Call("createOscillator")
	o.Set("type", "sine")
	return &webOscillator{webNode{o: o}}
}

func (c *webContext) CreateGain() Gain {
	return &webGain{webNode{o: c.o.Call("createGain")}}
}

func (c *webContext) CreateStereoPanner() (Panner, bool) {
	if f := c.o.Get("createStereoPanner"); f == nil || f == js.Undefined {
		return nil, false
	}
	return &webPanner{webNode{o: c.o.Call("createStereoPanner")}}, true
}

func (c *webContext) CreateChannelMerger(inputs int) Node {
	return &webNode{o: c.o.Call("createChannelMerger", inputs)}
}

type webNode struct {
	o *js.Object
}

func (n *webNode) object() *js.Object { return n.o }

func (n *webNode) Connect(dst Node) {
	if d, ok := dst.(jsNode); ok {
		n.o.Call("connect", d.object())
	}
}

func (n *webNode) ConnectInput(dst Node, input int) {
	if d, ok := dst.(jsNode); ok {
		n.o.Call("connect", d.object(), 0, input)
	}
}

func (n *webNode) Disconnect() {
	n.o.Call("disconnect")
}

type webParam struct {
	o *js.Object
}

func (p webParam) Value() float64     { return p.o.Get("value").Float() }
func (p webParam) SetValue(v float64) { p.o.Set("value", v) }

func (p webParam) SetValueAtTime(v, t float64) {
	p.o.Call("setValueAtTime", v, t)
}

func (p webParam) LinearRampToValueAtTime(v, t float64) {
	p.o.Call("linearRampToValueAtTime", v, t)
}

func (p webParam) SetTargetAtTime(target, start, timeConstant float64) {
	p.o.Call("setTargetAtTime", target, start, timeConstant)
}

func (p webParam) CancelScheduledValues(t float64) {
	p.o.Call("cancelScheduledValues", t)
}

type webOscillator struct {
	webNode
}

func (o *webOscillator) Frequency() Param { return webParam{o.o.Get("frequency")} }
func (o *webOscillator) Start(t float64)  { o.o.Call("start", t) }
func (o *webOscillator) Stop(t float64)   { o.o.Call("stop", t) }

func (o *webOscillator) OnEnded(f func()) {
	o.o.Call("addEventListener", "ended", func() { f() })
}

type webGain struct {
	webNode
}

func (g *webGain) Gain() Param { return webParam{g.o.Get("gain")} }

type webPanner struct {
	webNode
}

func (p *webPanner) Pan() Param { return webParam{p.o.Get("pan")} }
