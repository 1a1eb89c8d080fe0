//go:build !js
// +build !js

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/audio/offline"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
	"github.com/simukka/bicial/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	m     *model
	st    *store.Store
	clock *common.ManualClock
	ctx   *offline.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New(store.NewMemoryKV())
	clock := common.NewManualClock()
	ctx := offline.New(8000)
	engine := audio.NewEngine(func() audio.Context { return ctx })
	view := &table.Headless{}
	c := table.NewController(st, engine, clock, view)
	return &fixture{
		m:     newModel(c, view, filepath.Join(t.TempDir(), "doc.json")),
		st:    st,
		clock: clock,
		ctx:   ctx,
	}
}

func (f *fixture) press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = f.m.Update(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	right = tea.KeyMsg{Type: tea.KeyRight}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestModel_RowKeysFollowCursor(t *testing.T) {
	f := newFixture(t)
	before := f.st.Frequencies(12, common.Left)

	f.press(down, down, runes("d"), runes("f"))
	f.press(up, runes("a"))

	got := f.st.Frequencies(12, common.Left)
	assert.Equal(t, before[2]+11, got[2])
	assert.Equal(t, before[1]-10, got[1])
	assert.Equal(t, f.st.Frequencies(12, common.Right), store.DefaultFrequencies(12), "implant ear untouched")
}

func TestModel_CursorClamps(t *testing.T) {
	f := newFixture(t)
	f.press(up)
	assert.Equal(t, 0, f.m.cursor)
	for i := 0; i < 20; i++ {
		f.press(down)
	}
	assert.Equal(t, 11, f.m.cursor)
}

func TestModel_EditImplantColumnMirrors(t *testing.T) {
	f := newFixture(t)
	f.press(right, enter)
	require.True(t, f.m.editing)
	assert.Equal(t, "200", f.m.input.Value())

	f.m.input.SetValue("440")
	f.press(enter)

	assert.False(t, f.m.editing)
	assert.Equal(t, 440, f.st.Frequencies(12, common.Left)[0])
	assert.Equal(t, 440, f.st.Frequencies(12, common.Right)[0])
}

func TestModel_EditRejectsText(t *testing.T) {
	f := newFixture(t)
	f.press(enter)
	f.m.input.SetValue("abc")
	f.press(enter)

	assert.True(t, f.m.failed)
	assert.Equal(t, 200, f.st.Frequencies(12, common.Left)[0])
}

func TestModel_EditKeysDoNotReachRouter(t *testing.T) {
	f := newFixture(t)
	f.press(enter, runes("j"))
	f.clock.Advance(0)
	assert.Zero(t, f.ctx.ActiveSources())
	assert.True(t, f.m.editing)
}

func TestModel_SelectionAndBatch(t *testing.T) {
	f := newFixture(t)
	f.press(runes("1"))
	assert.False(t, f.m.c.Playing(), "nothing selected")

	f.press(space, down, space)
	assert.Equal(t, store.Selection{0, 1}, f.st.Selection(12))

	f.press(runes("1"))
	assert.True(t, f.m.view.Snapshot.Batch.Play[0].On)
	f.press(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, f.m.c.Playing())

	f.press(runes("x"))
	assert.Len(t, f.st.Selection(12), 12)
	f.press(runes("x"))
	assert.Empty(t, f.st.Selection(12))
}

func TestModel_Settings(t *testing.T) {
	f := newFixture(t)

	f.press(runes("i"))
	assert.Equal(t, common.Left, f.st.CISide())

	f.press(runes("r"), runes("}"), runes("["))
	assert.Equal(t, 4, f.st.BeepReps())
	assert.Equal(t, 1100, f.st.BeepDurationMs())
	// first column is the right ear once the implant is on the left
	assert.Equal(t, 75, f.st.Volume(common.Left))
	assert.Equal(t, 45, f.st.Volume(common.Right))

	f.press(runes("="), runes("="))
	assert.Equal(t, 10, f.st.Adjustments(12, common.Right)[0])
}

func TestModel_CountCycleClampsCursor(t *testing.T) {
	f := newFixture(t)
	f.press(runes("n"), runes("n"))
	assert.Equal(t, 22, f.m.c.Count())
	for i := 0; i < 30; i++ {
		f.press(down)
	}
	require.Equal(t, 21, f.m.cursor)

	f.press(runes("n"))
	assert.Equal(t, 12, f.m.c.Count())
	assert.Equal(t, 11, f.m.cursor)
	row, ok := f.m.router.LastRow()
	assert.True(t, ok)
	assert.Equal(t, 11, row)
}

func TestModel_ExportImport(t *testing.T) {
	f := newFixture(t)
	f.press(runes("i"), runes("d"))
	f.press(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.False(t, f.m.failed, f.m.status)

	f.press(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, common.Right, f.st.CISide())

	f.press(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.False(t, f.m.failed, f.m.status)
	assert.Equal(t, common.Left, f.st.CISide())
	assert.Equal(t, 201, f.st.Frequencies(12, common.Right)[0])
}

func TestModel_ImportShowsIssue(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.m.docPath, []byte(`{"ciSide":"Q"}`), 0o644))

	f.press(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.True(t, f.m.failed)
	assert.Equal(t, "Import failed: invalid file.", f.m.status)
}

func TestModel_Quit(t *testing.T) {
	f := newFixture(t)
	f.press(runes(";"))
	require.Equal(t, audio.Sounding, f.m.c.DualState(0))

	cmd := f.press(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, audio.Stopping, f.m.c.DualState(0))
}

func TestModel_View(t *testing.T) {
	f := newFixture(t)
	f.press(space)
	v := f.m.View()
	assert.Contains(t, v, "bicial")
	assert.Contains(t, v, "R Hz (CI)")
	assert.Contains(t, v, "[x]")
	assert.Contains(t, v, "7500")
	assert.True(t, strings.Index(v, "L Hz") < strings.Index(v, "R Hz"))
}

func TestModel_CallMsgRunsOnLoop(t *testing.T) {
	f := newFixture(t)
	ran := false
	f.m.Update(callMsg{func() { ran = true }})
	assert.True(t, ran)
}

func TestLoopClock(t *testing.T) {
	msgs := make(chan tea.Msg, 2)
	c := &loopClock{send: func(m tea.Msg) { msgs <- m }}

	fired := 0
	c.AfterFunc(0, func() { fired++ })
	stopped := c.AfterFunc(0, func() { fired += 10 })

	first := (<-msgs).(callMsg)
	second := (<-msgs).(callMsg)
	assert.True(t, stopped.Stop())
	first.f()
	second.f()

	assert.Equal(t, 1, fired)
	assert.False(t, stopped.Stop())

	late := c.AfterFunc(time.Hour, func() { fired++ })
	assert.True(t, late.Stop())
}
