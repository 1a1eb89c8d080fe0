package table

import (
	"io"
	"math"

	"github.com/pion/logging"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
)

// Frequency nudge steps.
const (
	SmallStep = 1
	LargeStep = 10
)

// Controller owns the displayed configuration. Row methods take the displayed
// column and resolve the channel with common.ActualEar.
type Controller struct {
	store  *store.Store
	engine *audio.Engine
	dual   *audio.DualPlayer
	seq    *audio.Sequencer
	view   View
	log    logging.LeveledLogger

	settings store.Settings
	freqs    [2][]int
	adj      [2][]int
	sel      store.Selection
}

// NewController wires a controller and renders the stored configuration.
func NewController(st *store.Store, engine *audio.Engine, clock common.Clock, view View) *Controller {
	if view == nil {
		view = &Headless{}
	}
	c := &Controller{
		store:  st,
		engine: engine,
		dual:   audio.NewDualPlayer(engine),
		seq:    audio.NewSequencer(clock),
		view:   view,
		log:    common.Logger("table"),
	}
	c.dual.OnChange(func(row int, _ audio.DualState) {
		if c.validRow(row) {
			c.view.UpdateRow(c.row(row))
		}
	})
	c.Rebuild()
	return c
}

// Rebuild cancels all playback, reloads the configuration from the store and
// renders it from scratch.
func (c *Controller) Rebuild() {
	c.cancelAll()
	c.dual.Detach()
	c.settings = c.store.Settings()
	n := c.settings.ElectrodeCount
	for _, ear := range common.Ears {
		c.freqs[ear.Index()] = c.store.Frequencies(n, ear)
		c.adj[ear.Index()] = c.store.Adjustments(n, ear)
	}
	c.sel = c.store.Selection(n)
	c.log.Debugf("render %d electrodes, implant %s", n, c.settings.CISide)
	c.view.Render(c.Snapshot())
}

func (c *Controller) cancelAll() {
	c.seq.CancelAll()
	c.dual.StopAll()
}

// StopAll cancels every sequence and fades out every dual session.
func (c *Controller) StopAll() {
	c.cancelAll()
	c.view.UpdateBatch(c.batch())
}

// Snapshot returns the full render model.
func (c *Controller) Snapshot() Snapshot {
	rows := make([]Row, c.Count())
	for i := range rows {
		rows[i] = c.row(i)
	}
	return Snapshot{
		Settings: c.settings,
		Rows:     rows,
		Batch:    c.batch(),
	}
}

// Count returns the displayed electrode count.
func (c *Controller) Count() int { return c.settings.ElectrodeCount }

// Settings returns the global settings in effect.
func (c *Controller) Settings() store.Settings { return c.settings }

// ActualEar resolves a displayed column for the current implant side.
func (c *Controller) ActualEar(displayed common.Ear) common.Ear {
	return common.ActualEar(displayed, c.settings.CISide)
}

// DisplayedEar returns the column showing the actual ear.
func (c *Controller) DisplayedEar(actual common.Ear) common.Ear {
	return common.DisplayedEar(actual, c.settings.CISide)
}

// DualState returns the dual session state of row.
func (c *Controller) DualState(row int) audio.DualState { return c.dual.State(row) }

// Playing reports whether any sequence or dual session is in progress.
func (c *Controller) Playing() bool {
	return c.seq.Active() > 0 || len(c.dual.Rows()) > 0
}

// Alternating reports whether row's alternating sequence is running.
func (c *Controller) Alternating(row int) bool { return c.seq.Running(audio.RowKey(row)) }

func (c *Controller) validRow(row int) bool {
	return row >= 0 && row < c.Count()
}

func (c *Controller) row(i int) Row {
	r := Row{
		Index:       i,
		Electrode:   i + 1,
		Selected:    c.sel.Has(i),
		Alternating: c.Alternating(i),
		Dual:        c.dual.State(i),
	}
	for k, displayed := range common.Ears {
		ear := c.ActualEar(displayed)
		r.Cells[k] = Cell{
			Displayed:  displayed,
			Ear:        ear,
			Implant:    ear == c.settings.CISide,
			Frequency:  c.freqs[ear.Index()][i],
			Adjustment: c.adj[ear.Index()][i],
		}
	}
	return r
}

func (c *Controller) batch() Batch {
	some := len(c.sel) > 0
	b := Batch{AllSelected: c.Count() > 0 && len(c.sel) == c.Count()}
	for k, displayed := range common.Ears {
		on := c.seq.Running(audio.BatchKey(c.ActualEar(displayed)))
		b.Play[k] = Control{Enabled: some && !on, On: on}
	}
	alt := c.seq.Running(audio.BatchAlternatingKey)
	b.Alternate = Control{Enabled: some && !alt, On: alt}
	return b
}

func (c *Controller) tone(row int, ear common.Ear) audio.Tone {
	return audio.Tone{
		Frequency: float64(c.freqs[ear.Index()][row]),
		Gain:      c.gain(row, ear),
	}
}

func (c *Controller) gain(row int, ear common.Ear) float64 {
	return common.EffectiveGain(c.settings.Volume(ear), c.adj[ear.Index()][row])
}

// CommitFrequency stores a frequency typed into a column. Negative values are
// stored as 0. Editing the implant ear also sets the other ear to the same
// value.
func (c *Controller) CommitFrequency(row int, displayed common.Ear, value int) {
	if !c.validRow(row) {
		return
	}
	ear := c.ActualEar(displayed)
	value = max(value, 0)
	c.setFrequency(row, ear, value)
	if ear == c.settings.CISide {
		c.setFrequency(row, ear.Other(), value)
	}
	c.view.UpdateRow(c.row(row))
}

// Nudge moves the non-implant ear's frequency of row by delta Hz.
func (c *Controller) Nudge(row, delta int) {
	if !c.validRow(row) {
		return
	}
	ear := common.NonImplantEar(c.settings.CISide)
	c.setFrequency(row, ear, max(c.freqs[ear.Index()][row]+delta, 0))
	c.view.UpdateRow(c.row(row))
}

func (c *Controller) setFrequency(row int, ear common.Ear, value int) {
	arr := c.freqs[ear.Index()]
	if arr[row] == value {
		return
	}
	arr[row] = value
	c.store.SetFrequencies(c.Count(), ear, arr)
	c.dual.UpdateFrequency(row, ear, float64(value))
}

// SetAdjustment stores a per-row gain trim from a column's slider, clamped to
// [-50, 50], and retargets a sounding dual session.
func (c *Controller) SetAdjustment(row int, displayed common.Ear, value int) {
	if !c.validRow(row) {
		return
	}
	ear := c.ActualEar(displayed)
	arr := c.adj[ear.Index()]
	arr[row] = common.ClampInt(value, store.MinAdjustment, store.MaxAdjustment)
	c.store.SetAdjustments(c.Count(), ear, arr)
	c.dual.UpdateGain(row, ear, c.gain(row, ear))
	c.view.UpdateRow(c.row(row))
}

// SetSelected checks or unchecks row for batch playback.
func (c *Controller) SetSelected(row int, selected bool) {
	if !c.validRow(row) {
		return
	}
	if selected {
		c.sel = c.sel.With(row)
	} else {
		c.sel = c.sel.Without(row)
	}
	c.store.SetSelection(c.Count(), c.sel)
	c.view.UpdateRow(c.row(row))
	c.view.UpdateBatch(c.batch())
}

// SelectAll checks or unchecks every row.
func (c *Controller) SelectAll(selected bool) {
	c.sel = store.Selection{}
	if selected {
		for i := 0; i < c.Count(); i++ {
			c.sel = append(c.sel, i)
		}
	}
	c.store.SetSelection(c.Count(), c.sel)
	c.view.Render(c.Snapshot())
}

// Selection returns the checked rows.
func (c *Controller) Selection() store.Selection { return c.sel.Clone() }

// PlaySingle plays one tone of row on the channel behind the displayed column.
func (c *Controller) PlaySingle(row int, displayed common.Ear) {
	if !c.validRow(row) {
		return
	}
	c.play(audio.Event{Row: row, Ear: c.ActualEar(displayed)})
}

func (c *Controller) play(ev audio.Event) {
	if !c.validRow(ev.Row) {
		return
	}
	t := c.tone(ev.Row, ev.Ear)
	c.engine.PlayTone(t.Frequency, ev.Ear, c.settings.BeepDuration(), t.Gain)
}

// PlayAlternating plays row left then right, beepReps times. A second request
// while the sequence runs is ignored.
func (c *Controller) PlayAlternating(row int) {
	if !c.validRow(row) {
		return
	}
	tl := audio.AlternatingTimeline(row, c.settings.BeepReps, c.settings.BeepDuration())
	h := c.seq.Run(audio.RowKey(row), tl, c.play, func() {
		if c.validRow(row) {
			c.view.UpdateRow(c.row(row))
		}
	})
	if h != nil {
		c.view.UpdateRow(c.row(row))
	}
}

// ToggleDual starts row's simultaneous L+R tone, or stops it if sounding.
func (c *Controller) ToggleDual(row int) {
	if !c.validRow(row) {
		return
	}
	switch c.dual.State(row) {
	case audio.Idle:
		c.dual.Start(row, c.tone(row, common.Left), c.tone(row, common.Right))
	case audio.Sounding:
		c.dual.Stop(row)
	}
}

// PlayAll plays every selected row in turn on the channel behind the
// displayed column.
func (c *Controller) PlayAll(displayed common.Ear) {
	ear := c.ActualEar(displayed)
	tl := audio.BatchTimeline(ear, c.sel, c.settings.BeepDuration())
	c.runBatch(audio.BatchKey(ear), tl)
}

// AlternateAll plays every selected row on the left, then on the right,
// beepReps times.
func (c *Controller) AlternateAll() {
	tl := audio.BatchAlternatingTimeline(c.sel, c.settings.BeepReps, c.settings.BeepDuration())
	c.runBatch(audio.BatchAlternatingKey, tl)
}

func (c *Controller) runBatch(key string, tl audio.Timeline) {
	h := c.seq.Run(key, tl, c.play, func() {
		c.view.UpdateBatch(c.batch())
	})
	if h != nil {
		c.view.UpdateBatch(c.batch())
	}
}

// SetCISide switches the implant ear and re-renders.
func (c *Controller) SetCISide(ear common.Ear) {
	c.cancelAll()
	c.store.SetCISide(ear)
	c.Rebuild()
}

// SetElectrodeCount switches configuration and re-renders. Unsupported
// counts are ignored.
func (c *Controller) SetElectrodeCount(count int) {
	if !store.ValidCount(count) {
		c.log.Warnf("ignoring unsupported electrode count %d", count)
		return
	}
	c.cancelAll()
	c.store.SetElectrodeCount(count)
	c.Rebuild()
}

// SetVolume stores the base volume of ear and retargets every sounding dual
// session.
func (c *Controller) SetVolume(ear common.Ear, volume int) {
	volume = common.ClampInt(volume, 0, store.MaxVolume)
	c.store.SetVolume(ear, volume)
	if ear == common.Left {
		c.settings.VolumeL = volume
	} else {
		c.settings.VolumeR = volume
	}
	for _, row := range c.dual.Rows() {
		c.dual.UpdateGain(row, ear, c.gain(row, ear))
	}
}

// SetBeepDurationMs stores the tone length used by later playback.
func (c *Controller) SetBeepDurationMs(ms int) {
	c.store.SetBeepDurationMs(ms)
	c.settings.BeepDurationMs = c.store.BeepDurationMs()
}

// SetBeepReps stores the repetition count used by later sequences.
func (c *Controller) SetBeepReps(reps int) {
	c.store.SetBeepReps(reps)
	c.settings.BeepReps = c.store.BeepReps()
}

// Reset clears every stored setting and renders the defaults.
func (c *Controller) Reset() {
	c.cancelAll()
	c.store.Reset()
	c.Rebuild()
}

// Export writes the settings document.
func (c *Controller) Export(w io.Writer) error {
	return c.store.Export(w)
}

// Import replaces settings from a document written by Export. On error
// nothing changes and playback continues; use fmsg.GetIssue for the message
// to show. A valid document stops all playback before anything is written.
func (c *Controller) Import(r io.Reader) error {
	doc, err := c.store.Decode(r)
	if err != nil {
		return err
	}
	c.cancelAll()
	doc.Apply()
	c.Rebuild()
	return nil
}

// Frequencies returns a copy of the current frequency map of ear.
func (c *Controller) Frequencies(ear common.Ear) []int {
	return append([]int(nil), c.freqs[ear.Index()]...)
}

// Markers returns the electrode positions of both ears for visualisation.
func (c *Controller) Markers() Markers {
	m := Markers{
		CISide:   c.settings.CISide,
		Selected: c.Selection(),
	}
	for i := 0; i < c.Count(); i++ {
		m.Left = append(m.Left, Marker{Electrode: i + 1, Frequency: c.freqs[0][i]})
		m.Right = append(m.Right, Marker{Electrode: i + 1, Frequency: c.freqs[1][i]})
	}
	return m
}

// FrequencyRange returns the lowest and highest frequency across both ears.
func (c *Controller) FrequencyRange() (lo, hi int) {
	lo, hi = math.MaxInt, 0
	for _, arr := range c.freqs {
		for _, f := range arr {
			lo, hi = min(lo, f), max(hi, f)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
