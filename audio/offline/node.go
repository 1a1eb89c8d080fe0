package offline

import (
	"github.com/simukka/bicial/audio"
)

// signal is one frame of node output, mono unless stereo is set.
type signal struct {
	l, r   float64
	stereo bool
}

func (s signal) up() signal {
	if s.stereo {
		return s
	}
	return signal{l: s.l, r: s.l, stereo: true}
}

func (s signal) mono() float64 {
	if !s.stereo {
		return s.l
	}
	return (s.l + s.r) / 2
}

func (s signal) add(o signal) signal {
	if !s.stereo && !o.stereo {
		return signal{l: s.l + o.l}
	}
	a, b := s.up(), o.up()
	return signal{l: a.l + b.l, r: a.r + b.r, stereo: true}
}

func (s signal) scale(g float64) signal {
	return signal{l: s.l * g, r: s.r * g, stereo: s.stereo}
}

type processFunc func(n *node, frame int64, t float64) signal

type edge struct {
	dst   *node
	input int
}

// node is the shared graph plumbing embedded by every node type. Outputs are
// pulled from the destination once per frame and cached so that fan-out does
// not advance a source twice.
type node struct {
	ctx     *Context
	inputs  [][]*node
	outputs []edge
	process processFunc

	cacheFrame int64
	cache      signal
}

type graphNode interface {
	inner() *node
}

func newNode(c *Context, inputs int, process processFunc) *node {
	return &node{
		ctx:        c,
		inputs:     make([][]*node, inputs),
		process:    process,
		cacheFrame: -1,
	}
}

func (n *node) inner() *node { return n }

// Connect routes output 0 into input 0 of dst.
func (n *node) Connect(dst audio.Node) {
	n.ConnectInput(dst, 0)
}

// ConnectInput routes output 0 into input of dst. Connections to nodes of a
// different context are ignored.
func (n *node) ConnectInput(dst audio.Node, input int) {
	g, ok := dst.(graphNode)
	if !ok || g.inner().ctx != n.ctx {
		n.ctx.log.Warnf("connect: %T is not a node of this context", dst)
		return
	}
	d := g.inner()

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	if input < 0 || input >= len(d.inputs) {
		n.ctx.log.Warnf("connect: input %d out of range", input)
		return
	}
	for _, e := range n.outputs {
		if e.dst == d && e.input == input {
			return
		}
	}
	n.outputs = append(n.outputs, edge{dst: d, input: input})
	d.inputs[input] = append(d.inputs[input], n)
	n.ctx.live[n] = struct{}{}
}

// Disconnect drops every outgoing connection.
func (n *node) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	for _, e := range n.outputs {
		srcs := e.dst.inputs[e.input]
		for i, src := range srcs {
			if src == n {
				e.dst.inputs[e.input] = append(srcs[:i:i], srcs[i+1:]...)
				break
			}
		}
	}
	n.outputs = nil
	delete(n.ctx.live, n)
}

func (n *node) pull(frame int64, t float64) signal {
	if n.cacheFrame == frame {
		return n.cache
	}
	s := n.process(n, frame, t)
	n.cacheFrame, n.cache = frame, s
	return s
}

// input sums everything connected to input i.
func (n *node) input(i int, frame int64, t float64) signal {
	var s signal
	for _, src := range n.inputs[i] {
		s = s.add(src.pull(frame, t))
	}
	return s
}

// mixStereo is the destination: speaker up-mix of input 0.
func mixStereo(n *node, frame int64, t float64) signal {
	return n.input(0, frame, t).up()
}

// mergeChannels down-mixes input 0 to the left channel and input 1 to the right.
func mergeChannels(n *node, frame int64, t float64) signal {
	s := signal{stereo: true}
	s.l = n.input(0, frame, t).mono()
	if len(n.inputs) > 1 {
		s.r = n.input(1, frame, t).mono()
	}
	return s
}
