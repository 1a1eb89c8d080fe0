package audio

import (
	"sort"
	"strconv"
	"time"

	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
)

// CleanupDelay separates a sequence's last sound from its cleanup callback.
const CleanupDelay = 10 * time.Millisecond

// Sequence keys for batch playback. Row sequences use RowKey.
const (
	BatchLeftKey        = "batch:L"
	BatchRightKey       = "batch:R"
	BatchAlternatingKey = "batch:alt"
)

// RowKey names the alternating sequence of row.
func RowKey(row int) string {
	return "row:" + strconv.Itoa(row)
}

// BatchKey names the single-ear batch sequence of ear.
func BatchKey(ear common.Ear) string {
	if ear == common.Left {
		return BatchLeftKey
	}
	return BatchRightKey
}

// Event is one tone onset of a timeline.
type Event struct {
	At  time.Duration
	Row int
	Ear common.Ear
}

// Timeline is an ordered list of tone onsets and the instant its cleanup runs.
type Timeline struct {
	Events []Event
	End    time.Duration
}

// AlternatingTimeline plays row on the left at r*4.5d and on the right 2d
// later, for each repetition r.
func AlternatingTimeline(row, reps int, d time.Duration) Timeline {
	if reps < 1 || d <= 0 {
		return Timeline{}
	}
	period := d * 9 / 2
	tl := Timeline{Events: make([]Event, 0, 2*reps)}
	for r := 0; r < reps; r++ {
		base := time.Duration(r) * period
		tl.Events = append(tl.Events,
			Event{At: base, Row: row, Ear: common.Left},
			Event{At: base + 2*d, Row: row, Ear: common.Right},
		)
	}
	tl.End = time.Duration(reps-1)*period + 3*d + CleanupDelay
	return tl
}

// BatchTimeline plays rows in ascending order on one ear, one onset every 2d.
func BatchTimeline(ear common.Ear, rows []int, d time.Duration) Timeline {
	rows = ascending(rows)
	if len(rows) == 0 || d <= 0 {
		return Timeline{}
	}
	tl := Timeline{Events: make([]Event, len(rows))}
	for k, row := range rows {
		tl.Events[k] = Event{At: time.Duration(k) * 2 * d, Row: row, Ear: ear}
	}
	tl.End = time.Duration(len(rows)-1)*2*d + d + CleanupDelay
	return tl
}

// BatchAlternatingTimeline plays every row on the left, then every row on the
// right, for each repetition. A repetition is budgeted 4Nd + d/2.
func BatchAlternatingTimeline(rows []int, reps int, d time.Duration) Timeline {
	rows = ascending(rows)
	n := time.Duration(len(rows))
	if n == 0 || reps < 1 || d <= 0 {
		return Timeline{}
	}
	budget := 4*n*d + d/2
	tl := Timeline{Events: make([]Event, 0, 2*len(rows)*reps)}
	for r := 0; r < reps; r++ {
		base := time.Duration(r) * budget
		for k, row := range rows {
			tl.Events = append(tl.Events, Event{At: base + time.Duration(k)*2*d, Row: row, Ear: common.Left})
		}
		for k, row := range rows {
			tl.Events = append(tl.Events, Event{At: base + n*2*d + time.Duration(k)*2*d, Row: row, Ear: common.Right})
		}
	}
	tl.End = time.Duration(reps-1)*budget + (2*n-1)*2*d + d + CleanupDelay
	return tl
}

func ascending(rows []int) []int {
	out := append([]int(nil), rows...)
	sort.Ints(out)
	return out
}

// Sequencer runs timelines on a clock, at most one per key.
type Sequencer struct {
	clock   common.Clock
	running map[string]*Handle
	log     logging.LeveledLogger
}

// Handle is a running timeline.
type Handle struct {
	seq      *Sequencer
	key      string
	timers   []common.Timer
	onFinish func()
	done     bool
}

// NewSequencer creates a sequencer scheduling on clock.
func NewSequencer(clock common.Clock) *Sequencer {
	return &Sequencer{
		clock:   clock,
		running: make(map[string]*Handle),
		log:     common.Logger("sequencer"),
	}
}

// Run schedules play for every event of tl and onFinish at tl.End. It returns
// nil without scheduling anything when key is already running or tl is empty.
// onFinish also runs when the handle is cancelled.
func (s *Sequencer) Run(key string, tl Timeline, play func(Event), onFinish func()) *Handle {
	if _, busy := s.running[key]; busy {
		s.log.Debugf("%s already running", key)
		return nil
	}
	if len(tl.Events) == 0 {
		return nil
	}

	h := &Handle{seq: s, key: key, onFinish: onFinish}
	h.timers = make([]common.Timer, 0, len(tl.Events)+1)
	for _, ev := range tl.Events {
		ev := ev
		h.timers = append(h.timers, s.clock.AfterFunc(ev.At, func() {
			if !h.done {
				play(ev)
			}
		}))
	}
	h.timers = append(h.timers, s.clock.AfterFunc(tl.End, h.finish))
	s.running[key] = h
	s.log.Debugf("%s: %d events, cleanup at %v", key, len(tl.Events), tl.End)
	return h
}

// Running reports whether key has a pending timeline.
func (s *Sequencer) Running(key string) bool {
	_, ok := s.running[key]
	return ok
}

// Active returns the number of running timelines.
func (s *Sequencer) Active() int {
	return len(s.running)
}

// Get returns the running handle for key, or nil.
func (s *Sequencer) Get(key string) *Handle {
	return s.running[key]
}

// CancelAll cancels every running timeline.
func (s *Sequencer) CancelAll() {
	keys := make([]string, 0, len(s.running))
	for key := range s.running {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		s.running[key].Cancel()
	}
}

// Key returns the sequence key of h.
func (h *Handle) Key() string { return h.key }

// Done reports whether h finished or was cancelled.
func (h *Handle) Done() bool { return h.done }

// Cancel clears every pending callback of h and runs its finish callback.
// Cancelling a finished handle does nothing.
func (h *Handle) Cancel() {
	if h.done {
		return
	}
	h.seq.log.Debugf("%s cancelled", h.key)
	h.finish()
}

func (h *Handle) finish() {
	if h.done {
		return
	}
	h.done = true
	for _, t := range h.timers {
		t.Stop()
	}
	h.timers = nil
	if h.seq.running[h.key] == h {
		delete(h.seq.running, h.key)
	}
	if h.onFinish != nil {
		h.onFinish()
	}
}
