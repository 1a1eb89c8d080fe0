package offline

import (
	"time"

	"github.com/simukka/bicial/common"
	"github.com/tphakala/simd/f64"
)

// Quantum is the block size used by Advance, matching the Web Audio render
// quantum. Ended callbacks are delivered at block boundaries.
const Quantum = 128

// Render produces the next frames of stereo output and advances the clock.
// The returned slices are reused by the next call. A context that is not
// running renders silence without advancing. Render must not be called from
// more than one goroutine at a time.
func (c *Context) Render(frames int) (left, right []float64) {
	c.mu.Lock()
	left, right = c.renderLocked(frames)
	ended := c.ended
	c.ended = nil
	c.mu.Unlock()

	c.deliver(ended)
	return left, right
}

func (c *Context) renderLocked(frames int) (left, right []float64) {
	if cap(c.left) < frames {
		c.left = make([]float64, frames)
		c.right = make([]float64, frames)
	}
	left, right = c.left[:frames], c.right[:frames]
	if c.state != StateRunning {
		clear(left)
		clear(right)
		return left, right
	}

	for i := 0; i < frames; i++ {
		s := c.dest.pull(c.frame, c.now())
		left[i], right[i] = s.l, s.r
		c.frame++
		c.reap()
	}
	if c.master != 1 {
		f64.Scale(left, left, c.master)
		f64.Scale(right, right, c.master)
	}
	return left, right
}

// reap ends oscillators whose stop time has been reached and queues their
// callbacks.
func (c *Context) reap() {
	now := c.now()
	kept := c.sources[:0]
	for _, o := range c.sources {
		if o.stop >= 0 && now >= o.stop {
			o.ended = true
			c.ended = append(c.ended, o.onEnded...)
			o.onEnded = nil
			continue
		}
		kept = append(kept, o)
	}
	clear(c.sources[len(kept):])
	c.sources = kept
}

func (c *Context) deliver(ended []func()) {
	for _, f := range ended {
		if c.dispatch != nil {
			c.dispatch(f)
			continue
		}
		f()
	}
}

// ReadFloat32 fills out with interleaved stereo samples clipped to [-1, 1].
// It is shaped for a portaudio output callback.
func (c *Context) ReadFloat32(out []float32) {
	frames := len(out) / 2
	left, right := c.Render(frames)
	if cap(c.inter) < 2*frames {
		c.inter = make([]float64, 2*frames)
	}
	inter := c.inter[:2*frames]
	f64.Interleave2(inter, left, right)
	for i, v := range inter {
		out[i] = float32(common.ClampFloat(v, -1, 1))
	}
}

// Advance renders d worth of audio in Quantum-sized blocks, discarding it and
// delivering ended callbacks after each block.
func (c *Context) Advance(d time.Duration) {
	frames := int(d.Seconds()*c.rate + 0.5)
	for frames > 0 {
		n := min(frames, Quantum)
		c.Render(n)
		frames -= n
	}
}

// Record renders d worth of audio onto tape.
func (c *Context) Record(tape *Tape, d time.Duration) {
	frames := int(d.Seconds()*c.rate + 0.5)
	for frames > 0 {
		n := min(frames, Quantum)
		tape.Append(c.Render(n))
		frames -= n
	}
}
