package table

import (
	"strings"
	"testing"

	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
	"github.com/stretchr/testify/assert"
)

func TestKeyMap(t *testing.T) {
	tests := []struct {
		name string
		key  rune
		want Action
	}{
		{"A nudges down 10", 'a', NudgeDownLarge},
		{"S nudges down 1", 's', NudgeDownSmall},
		{"D nudges up 1", 'd', NudgeUpSmall},
		{"F nudges up 10", 'f', NudgeUpLarge},
		{"J plays left", 'j', PlayLeft},
		{"K plays right", 'K', PlayRight},
		{"L alternates", 'l', Alternate},
		{"semicolon toggles dual", ';', ToggleDual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyMap[KeyCodeForRune(tt.key)])
		})
	}
}

func TestTranslateKeyCode(t *testing.T) {
	assert.Equal(t, 186, TranslateKeyCode(59))
	assert.Equal(t, 65, TranslateKeyCode(65))
	assert.Equal(t, 999, TranslateKeyCode(999))
}

func TestRouter_RequiresLastRow(t *testing.T) {
	f := newFixture(t, nil)
	_, ok := f.r.LastRow()
	assert.False(t, ok)
	assert.False(t, f.r.HandleKeyCode(68, false))
}

func TestRouter_DispatchesToLastRow(t *testing.T) {
	f := newFixture(t, nil)
	f.r.Touch(2)
	f.r.Touch(99)

	row, ok := f.r.LastRow()
	assert.True(t, ok)
	assert.Equal(t, 2, row)

	before := f.c.Frequencies(common.Left)[2]
	assert.True(t, f.r.HandleKeyCode(70, false))
	assert.True(t, f.r.HandleKeyCode(83, false))
	assert.Equal(t, before+9, f.c.Frequencies(common.Left)[2])

	assert.True(t, f.r.HandleKeyCode(59, false))
	assert.Equal(t, audio.Sounding, f.c.DualState(2))
	assert.True(t, f.r.HandleKeyCode(186, false))
	assert.Equal(t, audio.Stopping, f.c.DualState(2))

	assert.True(t, f.r.HandleKeyCode(76, false))
	assert.True(t, f.c.Alternating(2))
}

func TestRouter_IgnoresEditableTargets(t *testing.T) {
	f := newFixture(t, nil)
	f.r.Touch(0)
	before := f.c.Frequencies(common.Left)

	assert.False(t, f.r.HandleKeyCode(65, true))
	assert.False(t, f.r.HandleKeyCode(81, false), "unbound key")
	assert.Equal(t, before, f.c.Frequencies(common.Left))
}

func TestIsEditable(t *testing.T) {
	tests := []struct {
		tag, typ        string
		contentEditable bool
		want            bool
	}{
		{"INPUT", "number", false, true},
		{"input", "", false, true},
		{"INPUT", "text", false, true},
		{"INPUT", "range", false, false},
		{"INPUT", "checkbox", false, false},
		{"INPUT", "radio", false, false},
		{"TEXTAREA", "", false, true},
		{"SELECT", "", false, true},
		{"BUTTON", "", false, false},
		{"DIV", "", true, true},
		{"TD", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEditable(tt.tag, tt.typ, tt.contentEditable))
		})
	}
}

func TestRouter_SliderFocusKeepsShortcuts(t *testing.T) {
	f := newFixture(t, nil)
	f.r.Touch(4)
	f.c.SetAdjustment(4, common.Left, 20)

	assert.True(t, f.r.HandleKeyCode(74, IsEditable("INPUT", "range", false)))
	assert.Equal(t, 1, f.ctx.ActiveSources())
}

func TestRouter_PlaySingle(t *testing.T) {
	f := newFixture(t, nil)
	f.r.Touch(0)

	assert.True(t, f.r.Dispatch(PlayRight))
	assert.Equal(t, 1, f.ctx.ActiveSources())
	f.advance(1100 * ms)
	assert.Zero(t, f.ctx.ActiveSources())
	assert.Zero(t, f.ctx.ConnectedNodes())
}

func TestRouter_LastRowDropsWithShrinkingTable(t *testing.T) {
	f := newFixture(t, func(s *store.Store) { s.SetElectrodeCount(22) })
	f.r.Touch(20)
	f.c.SetElectrodeCount(12)

	_, ok := f.r.LastRow()
	assert.False(t, ok)
	assert.False(t, f.r.Dispatch(PlayLeft))
}

func TestWriteHTML(t *testing.T) {
	f := newFixture(t, func(s *store.Store) {
		s.SetCISide(common.Left)
		s.SetSelection(12, store.NewSelection(3))
	})

	var b strings.Builder
	assert.NoError(t, WriteHTML(&b, f.c.Snapshot()))
	html := b.String()

	assert.Equal(t, 12, strings.Count(html, `class="row-check"`))
	assert.Contains(t, html, "L (CI)")
	assert.Contains(t, html, `data-i="3" checked`)
	assert.Contains(t, html, `data-act="alt-all" title="Alternate checked">`)
	assert.NotContains(t, html, "masterCheck\" checked")
}
