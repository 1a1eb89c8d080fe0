package offline

import (
	"io"
	"math"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/floats"
)

// Tape accumulates rendered stereo audio.
type Tape struct {
	rate        int
	left, right []float64
}

// NewTape creates an empty tape at the given sample rate.
func NewTape(sampleRate int) *Tape {
	return &Tape{rate: sampleRate}
}

// Append copies a block of rendered frames onto the tape.
func (t *Tape) Append(left, right []float64) {
	t.left = append(t.left, left...)
	t.right = append(t.right, right...)
}

// Frames returns the number of stereo frames recorded.
func (t *Tape) Frames() int { return len(t.left) }

// Duration returns the recorded length.
func (t *Tape) Duration() time.Duration {
	if t.rate <= 0 {
		return 0
	}
	return time.Duration(len(t.left)) * time.Second / time.Duration(t.rate)
}

// Channels returns the recorded samples. The slices alias the tape.
func (t *Tape) Channels() (left, right []float64) {
	return t.left, t.right
}

// Peak returns the largest absolute sample per channel.
func (t *Tape) Peak() (left, right float64) {
	return peak(t.left), peak(t.right)
}

func peak(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return math.Max(floats.Max(s), -floats.Min(s))
}

// WriteWAV encodes the tape as a 16-bit stereo PCM WAV.
func (t *Tape) WriteWAV(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, t.rate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  t.rate,
		},
		Data:           make([]int, 2*len(t.left)),
		SourceBitDepth: 16,
	}
	for i := range t.left {
		buf.Data[2*i] = toPCM16(t.left[i])
		buf.Data[2*i+1] = toPCM16(t.right[i])
	}
	if err := enc.Write(buf); err != nil {
		return fault.Wrap(err, fmsg.With("wav: write samples"))
	}
	if err := enc.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("wav: finalise header"))
	}
	return nil
}

func toPCM16(v float64) int {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int(math.Round(v * 32767))
}
