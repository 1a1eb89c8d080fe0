package audio_test

import (
	"testing"
	"time"

	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

func onsets(tl audio.Timeline) []time.Duration {
	out := make([]time.Duration, len(tl.Events))
	for i, ev := range tl.Events {
		out[i] = ev.At
	}
	return out
}

func TestAlternatingTimeline(t *testing.T) {
	tl := audio.AlternatingTimeline(4, 3, 500*ms)

	assert.Equal(t, []time.Duration{0, 1000 * ms, 2250 * ms, 3250 * ms, 4500 * ms, 5500 * ms}, onsets(tl))
	for i, ev := range tl.Events {
		assert.Equal(t, 4, ev.Row)
		if i%2 == 0 {
			assert.Equal(t, common.Left, ev.Ear)
		} else {
			assert.Equal(t, common.Right, ev.Ear)
		}
	}
	// cleanup at (reps-1)*4.5d + 3d + 10ms
	assert.Equal(t, 6010*ms, tl.End)
}

func TestBatchTimeline(t *testing.T) {
	tl := audio.BatchTimeline(common.Right, []int{7, 2, 5}, time.Second)

	assert.Equal(t, []time.Duration{0, 2000 * ms, 4000 * ms}, onsets(tl))
	assert.Equal(t, []audio.Event{
		{At: 0, Row: 2, Ear: common.Right},
		{At: 2000 * ms, Row: 5, Ear: common.Right},
		{At: 4000 * ms, Row: 7, Ear: common.Right},
	}, tl.Events)
	// cleanup at (N-1)*2d + d + 10ms
	assert.Equal(t, 5010*ms, tl.End)
}

func TestBatchAlternatingTimeline(t *testing.T) {
	tl := audio.BatchAlternatingTimeline([]int{3, 1}, 2, 100*ms)

	assert.Equal(t, []audio.Event{
		{At: 0, Row: 1, Ear: common.Left},
		{At: 200 * ms, Row: 3, Ear: common.Left},
		{At: 400 * ms, Row: 1, Ear: common.Right},
		{At: 600 * ms, Row: 3, Ear: common.Right},
		{At: 850 * ms, Row: 1, Ear: common.Left},
		{At: 1050 * ms, Row: 3, Ear: common.Left},
		{At: 1250 * ms, Row: 1, Ear: common.Right},
		{At: 1450 * ms, Row: 3, Ear: common.Right},
	}, tl.Events)
	assert.Equal(t, 1560*ms, tl.End)
}

func TestTimelines_Empty(t *testing.T) {
	assert.Empty(t, audio.BatchTimeline(common.Left, nil, time.Second).Events)
	assert.Empty(t, audio.BatchAlternatingTimeline([]int{1}, 0, time.Second).Events)
	assert.Empty(t, audio.AlternatingTimeline(0, 3, 0).Events)
}

type recorder struct {
	clock  *common.ManualClock
	events []audio.Event
	at     []time.Duration
}

func (r *recorder) play(ev audio.Event) {
	r.events = append(r.events, ev)
	r.at = append(r.at, r.clock.Now())
}

func TestSequencer_FiresInOrderThenCleansUp(t *testing.T) {
	clock := common.NewManualClock()
	seq := audio.NewSequencer(clock)
	rec := &recorder{clock: clock}
	var finishedAt time.Duration = -1

	h := seq.Run(audio.RowKey(0), audio.AlternatingTimeline(0, 3, 500*ms), rec.play, func() {
		finishedAt = clock.Now()
	})
	require.NotNil(t, h)
	assert.True(t, seq.Running("row:0"))

	clock.Advance(6009 * ms)
	assert.Equal(t, []time.Duration{0, 1000 * ms, 2250 * ms, 3250 * ms, 4500 * ms, 5500 * ms}, rec.at)
	assert.Equal(t, time.Duration(-1), finishedAt)

	clock.Advance(ms)
	assert.Equal(t, 6010*ms, finishedAt)
	assert.False(t, seq.Running("row:0"))
	assert.True(t, h.Done())
	assert.Zero(t, clock.Pending())
}

func TestSequencer_ReentrantRunIsNoop(t *testing.T) {
	clock := common.NewManualClock()
	seq := audio.NewSequencer(clock)
	rec := &recorder{clock: clock}

	first := seq.Run(audio.RowKey(2), audio.AlternatingTimeline(2, 1, 100*ms), rec.play, nil)
	second := seq.Run(audio.RowKey(2), audio.AlternatingTimeline(2, 1, 100*ms), rec.play, nil)
	other := seq.Run(audio.RowKey(3), audio.AlternatingTimeline(3, 1, 100*ms), rec.play, nil)

	assert.NotNil(t, first)
	assert.Nil(t, second)
	assert.NotNil(t, other)

	clock.Advance(time.Second)
	assert.Len(t, rec.events, 4)
}

func TestSequencer_CancelStopsEverything(t *testing.T) {
	clock := common.NewManualClock()
	seq := audio.NewSequencer(clock)
	rec := &recorder{clock: clock}
	finished := 0

	h := seq.Run(audio.BatchLeftKey, audio.BatchTimeline(common.Left, []int{0, 1, 2, 3}, 250*ms), rec.play, func() {
		finished++
	})
	require.NotNil(t, h)

	clock.Advance(600 * ms)
	require.Len(t, rec.events, 2)

	h.Cancel()
	assert.Equal(t, 1, finished)
	assert.False(t, seq.Running(audio.BatchLeftKey))
	assert.Zero(t, clock.Pending())

	clock.Advance(time.Hour)
	assert.Len(t, rec.events, 2)
	assert.Equal(t, 1, finished)

	h.Cancel()
	assert.Equal(t, 1, finished)
}

func TestSequencer_CancelAll(t *testing.T) {
	clock := common.NewManualClock()
	seq := audio.NewSequencer(clock)
	rec := &recorder{clock: clock}

	seq.Run(audio.RowKey(1), audio.AlternatingTimeline(1, 3, 100*ms), rec.play, nil)
	seq.Run(audio.BatchAlternatingKey, audio.BatchAlternatingTimeline([]int{0, 1}, 2, 100*ms), rec.play, nil)
	clock.Advance(50 * ms)
	require.Len(t, rec.events, 2)

	seq.CancelAll()
	clock.Advance(time.Minute)

	assert.Len(t, rec.events, 2)
	assert.False(t, seq.Running(audio.RowKey(1)))
	assert.False(t, seq.Running(audio.BatchAlternatingKey))
}

func TestSequencer_KeyCanRunAgainAfterFinish(t *testing.T) {
	clock := common.NewManualClock()
	seq := audio.NewSequencer(clock)
	rec := &recorder{clock: clock}
	tl := audio.BatchTimeline(common.Right, []int{4}, 100*ms)

	require.NotNil(t, seq.Run(audio.BatchKey(common.Right), tl, rec.play, nil))
	clock.Advance(tl.End)
	require.NotNil(t, seq.Run(audio.BatchKey(common.Right), tl, rec.play, nil))
	clock.Advance(tl.End)

	assert.Len(t, rec.events, 2)
}
