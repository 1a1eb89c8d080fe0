// Package table is the electrode table: a controller that keeps the displayed
// configuration in sync with the store and drives playback, and a router that
// maps keys to row actions.
package table

import (
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
)

// Cell is one ear's column in a row.
type Cell struct {
	// Displayed is the column position, Left for the first column.
	Displayed common.Ear
	// Ear is the channel the column controls.
	Ear        common.Ear
	Implant    bool
	Frequency  int
	Adjustment int
}

// Row is the render model of one electrode.
type Row struct {
	Index       int
	Electrode   int
	Cells       [2]Cell
	Selected    bool
	Alternating bool
	Dual        audio.DualState
}

// Control is the state of a batch button.
type Control struct {
	Enabled bool
	On      bool
}

// Batch is the render model of the trailing batch row.
type Batch struct {
	// Play holds the single-ear batch buttons in column order.
	Play        [2]Control
	Alternate   Control
	AllSelected bool
}

// Snapshot is everything a view needs for a full render.
type Snapshot struct {
	Settings store.Settings
	Rows     []Row
	Batch    Batch
}

// View renders controller state. Render rebuilds everything; the update
// methods refresh one part in place.
type View interface {
	Render(Snapshot)
	UpdateRow(Row)
	UpdateBatch(Batch)
}

// Marker places one electrode on the frequency axis.
type Marker struct {
	Electrode int
	Frequency int
}

// Markers is the read model for frequency visualisations.
type Markers struct {
	CISide   common.Ear
	Left     []Marker
	Right    []Marker
	Selected []int
}

// Headless is a View that keeps the last rendered state. It backs the
// terminal front-end and tests.
type Headless struct {
	Snapshot Snapshot
	Renders  int
	Updates  int
}

func (h *Headless) Render(s Snapshot) {
	h.Snapshot = s
	h.Renders++
}

func (h *Headless) UpdateRow(r Row) {
	if r.Index >= 0 && r.Index < len(h.Snapshot.Rows) {
		h.Snapshot.Rows[r.Index] = r
	}
	h.Updates++
}

func (h *Headless) UpdateBatch(b Batch) {
	h.Snapshot.Batch = b
	h.Updates++
}
