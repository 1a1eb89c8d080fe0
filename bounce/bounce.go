// Package bounce renders playback sequences to WAV files. It drives the same
// controller, sequencer and tone engine as live playback, against a simulated
// clock and a software audio context.
package bounce

import (
	"os"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/audio/offline"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
	"github.com/simukka/bicial/table"
)

// Mode selects what to render.
type Mode string

const (
	Alternating      Mode = "alt"
	BatchLeft        Mode = "batch-L"
	BatchRight       Mode = "batch-R"
	BatchAlternating Mode = "batch-alt"
)

// Modes lists the supported modes.
var Modes = []Mode{Alternating, BatchLeft, BatchRight, BatchAlternating}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Options configures a render.
type Options struct {
	Mode Mode
	// Row is the 0-based row for Alternating.
	Row        int
	SampleRate int
	// Limit bounds the render length.
	Limit time.Duration
}

const step = 10 * time.Millisecond

// Render plays the requested sequence from the stored configuration and
// returns the recorded audio. Recording stops once nothing is playing.
func Render(st *store.Store, opts Options) (*offline.Tape, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = offline.DefaultSampleRate
	}
	if opts.Limit <= 0 {
		opts.Limit = 10 * time.Minute
	}
	log := common.Logger("bounce")

	clock := common.NewManualClock()
	ctx := offline.New(float64(opts.SampleRate))
	engine := audio.NewEngine(func() audio.Context { return ctx })
	c := table.NewController(st, engine, clock, &table.Headless{})

	switch opts.Mode {
	case Alternating:
		if opts.Row < 0 || opts.Row >= c.Count() {
			return nil, fault.New("row out of range",
				fmsg.WithDesc("bounce: row", "The row does not exist in this configuration."),
				ftag.With(ftag.InvalidArgument))
		}
		c.PlayAlternating(opts.Row)
	case BatchLeft, BatchRight, BatchAlternating:
		if len(c.Selection()) == 0 {
			return nil, fault.New("empty selection",
				fmsg.WithDesc("bounce: selection", "Select at least one row for batch playback."),
				ftag.With(ftag.InvalidArgument))
		}
		switch opts.Mode {
		case BatchLeft:
			c.PlayAll(c.DisplayedEar(common.Left))
		case BatchRight:
			c.PlayAll(c.DisplayedEar(common.Right))
		default:
			c.AlternateAll()
		}
	default:
		return nil, fault.New("unknown mode "+string(opts.Mode), ftag.With(ftag.InvalidArgument))
	}

	tape := offline.NewTape(opts.SampleRate)
	clock.Advance(0)
	for elapsed := time.Duration(0); elapsed < opts.Limit; elapsed += step {
		ctx.Record(tape, step)
		clock.Advance(step)
		if !c.Playing() && ctx.ActiveSources() == 0 {
			break
		}
	}
	c.StopAll()
	l, r := tape.Peak()
	log.Infof("rendered %v, peak L %.2f R %.2f", tape.Duration(), l, r)
	return tape, nil
}

// WriteFile renders and writes a WAV file to path.
func WriteFile(path string, st *store.Store, opts Options) error {
	tape, err := Render(st, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(err, fmsg.WithDesc("bounce: create", "Could not create the output file."))
	}
	if err := tape.WriteWAV(f); err != nil {
		f.Close()
		return fault.Wrap(err, fmsg.WithDesc("bounce: encode", "Could not write the output file."))
	}
	if err := f.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("bounce: close"))
	}
	return nil
}
