//go:build !js
// +build !js

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
	"github.com/simukka/bicial/table"
)

const (
	adjustStep   = 5
	volumeStep   = 5
	durationStep = 100
	maxReps      = 5
)

type model struct {
	c      *table.Controller
	router *table.Router
	view   *table.Headless

	help    help.Model
	input   textinput.Model
	editing bool

	cursor int
	col    common.Ear
	status string
	failed bool
	// docPath is where export writes and import reads.
	docPath string
}

func newModel(c *table.Controller, view *table.Headless, docPath string) *model {
	ti := textinput.New()
	ti.Prompt = "Hz "
	ti.CharLimit = 6
	ti.Width = 8
	m := &model{
		c:       c,
		router:  table.NewRouter(c),
		view:    view,
		help:    help.New(),
		input:   ti,
		col:     common.Left,
		docPath: docPath,
	}
	m.router.Touch(0)
	return m
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callMsg:
		msg.f()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if m.editing {
			return m, m.updateInput(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		v, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.setError("Not a number: " + m.input.Value())
			return nil
		}
		m.c.CommitFrequency(m.cursor, m.col, v)
		m.setStatus("")
		return nil
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.c.Settings()
	switch {
	case key.Matches(msg, keys.Quit):
		m.c.StopAll()
		return tea.Quit
	case key.Matches(msg, keys.Up):
		m.move(-1)
	case key.Matches(msg, keys.Down):
		m.move(1)
	case key.Matches(msg, keys.Left):
		m.col = common.Left
	case key.Matches(msg, keys.Right):
		m.col = common.Right
	case key.Matches(msg, keys.Edit):
		m.editing = true
		m.input.SetValue(strconv.Itoa(m.cell().Frequency))
		m.input.CursorEnd()
		return m.input.Focus()
	case key.Matches(msg, keys.Select):
		m.c.SetSelected(m.cursor, !m.c.Selection().Has(m.cursor))
	case key.Matches(msg, keys.SelectAll):
		m.c.SelectAll(!m.view.Snapshot.Batch.AllSelected)
	case key.Matches(msg, keys.PlayFirst):
		m.c.PlayAll(common.Left)
	case key.Matches(msg, keys.PlaySecond):
		m.c.PlayAll(common.Right)
	case key.Matches(msg, keys.AlternateAll):
		m.c.AlternateAll()
	case key.Matches(msg, keys.Stop):
		m.c.StopAll()
	case key.Matches(msg, keys.AdjustDown):
		m.c.SetAdjustment(m.cursor, m.col, m.cell().Adjustment-adjustStep)
	case key.Matches(msg, keys.AdjustUp):
		m.c.SetAdjustment(m.cursor, m.col, m.cell().Adjustment+adjustStep)
	case key.Matches(msg, keys.VolumeDown), key.Matches(msg, keys.VolumeUp):
		ear := m.c.ActualEar(m.col)
		step := volumeStep
		if key.Matches(msg, keys.VolumeDown) {
			step = -step
		}
		m.c.SetVolume(ear, st.Volume(ear)+step)
	case key.Matches(msg, keys.Shorter):
		m.c.SetBeepDurationMs(max(st.BeepDurationMs-durationStep, durationStep))
	case key.Matches(msg, keys.Longer):
		m.c.SetBeepDurationMs(st.BeepDurationMs + durationStep)
	case key.Matches(msg, keys.Reps):
		m.c.SetBeepReps(st.BeepReps%maxReps + 1)
	case key.Matches(msg, keys.Implant):
		m.c.SetCISide(st.CISide.Other())
	case key.Matches(msg, keys.Count):
		m.c.SetElectrodeCount(nextCount(st.ElectrodeCount))
		m.move(0)
	case key.Matches(msg, keys.Reset):
		m.c.Reset()
		m.move(0)
		m.setStatus("Settings reset.")
	case key.Matches(msg, keys.Export):
		m.export()
	case key.Matches(msg, keys.Import):
		m.importDoc()
		m.move(0)
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		m.router.HandleKeyCode(table.KeyCodeForRune(msg.Runes[0]), false)
	}
	return nil
}

// move shifts the cursor and keeps the router on the same row.
func (m *model) move(delta int) {
	m.cursor = common.ClampInt(m.cursor+delta, 0, m.c.Count()-1)
	m.router.Touch(m.cursor)
}

func (m *model) cell() table.Cell {
	rows := m.view.Snapshot.Rows
	if m.cursor >= len(rows) {
		return table.Cell{}
	}
	return rows[m.cursor].Cells[m.col.Index()]
}

func nextCount(n int) int {
	for i, c := range store.ElectrodeCounts {
		if c == n {
			return store.ElectrodeCounts[(i+1)%len(store.ElectrodeCounts)]
		}
	}
	return store.DefaultElectrodeCount
}

func (m *model) export() {
	f, err := os.Create(m.docPath)
	if err != nil {
		m.setError(fmt.Sprintf("Export failed: %v", err))
		return
	}
	if err := m.c.Export(f); err != nil {
		f.Close()
		m.setError(fmsg.GetIssue(err))
		return
	}
	if err := f.Close(); err != nil {
		m.setError(fmt.Sprintf("Export failed: %v", err))
		return
	}
	m.setStatus("Exported to " + m.docPath)
}

func (m *model) importDoc() {
	f, err := os.Open(m.docPath)
	if err != nil {
		m.setError(fmt.Sprintf("Import failed: %v", err))
		return
	}
	defer f.Close()
	if err := m.c.Import(f); err != nil {
		m.setError(fmsg.GetIssue(err))
		return
	}
	m.setStatus("Imported " + m.docPath)
}

func (m *model) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *model) setError(s string) {
	m.status, m.failed = s, true
}

func (m *model) View() string {
	st := m.c.Settings()
	var b strings.Builder

	b.WriteString(titleStyle.Render("bicial"))
	b.WriteString(fmt.Sprintf("  implant %s · %d electrodes · vol L %d R %d · %d ms × %d\n\n",
		st.CISide, st.ElectrodeCount, st.VolumeL, st.VolumeR, st.BeepDurationMs, st.BeepReps))

	var rows []string
	rows = append(rows, m.header())
	for _, r := range m.view.Snapshot.Rows {
		rows = append(rows, m.renderRow(r))
	}
	rows = append(rows, m.renderBatch(m.view.Snapshot.Batch))
	b.WriteString(panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else if m.status != "" {
		if m.failed {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(m.status)
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *model) header() string {
	cols := []string{pad("", 3), pad("#", 3)}
	for _, displayed := range common.Ears {
		ear := m.c.ActualEar(displayed)
		label := fmt.Sprintf("%s Hz", ear)
		if ear == m.c.Settings().CISide {
			label += " (CI)"
		}
		cols = append(cols, pad(label, 10), pad("adj", 5))
	}
	cols = append(cols, "play")
	return headerStyle.Render(strings.Join(cols, " "))
}

func (m *model) renderRow(r table.Row) string {
	check := "[ ]"
	if r.Selected {
		check = "[x]"
	}
	cols := []string{check, pad(strconv.Itoa(r.Electrode), 3)}
	for k, cell := range r.Cells {
		freq := pad(strconv.Itoa(cell.Frequency), 10)
		switch {
		case r.Index == m.cursor && k == m.col.Index():
			freq = focusStyle.Render(freq)
		case cell.Implant:
			freq = implantStyle.Render(freq)
		default:
			freq = cellStyle.Render(freq)
		}
		cols = append(cols, freq, pad(fmt.Sprintf("%+d", cell.Adjustment), 5))
	}
	var state []string
	if r.Alternating {
		state = append(state, "alt")
	}
	if r.Dual != audio.Idle {
		state = append(state, "L+R "+r.Dual.String())
	}
	cols = append(cols, playingStyle.Render(strings.Join(state, " ")))
	line := strings.Join(cols, " ")
	if r.Index == m.cursor {
		return cursorStyle.Render(line)
	}
	return line
}

func (m *model) renderBatch(b table.Batch) string {
	all := "[ ]"
	if b.AllSelected {
		all = "[x]"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		all, " ",
		button("1 Play "+string(m.c.ActualEar(common.Left)), b.Play[0]), " ",
		button("2 Play "+string(m.c.ActualEar(common.Right)), b.Play[1]), " ",
		button("3 Alternate", b.Alternate),
	)
}

func button(label string, c table.Control) string {
	switch {
	case c.On:
		return onStyle.Render(label)
	case c.Enabled:
		return offStyle.Render(label)
	}
	return disabledStyle.Render(label)
}

func pad(s string, w int) string {
	return lipgloss.NewStyle().Width(w).Render(s)
}
