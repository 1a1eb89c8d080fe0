package table

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/simukka/bicial/common"
)

//go:embed table.gohtml
var tableSource string

var tableTemplate = template.Must(template.New("table").Parse(tableSource))

type column struct {
	Displayed common.Ear
	Ear       common.Ear
	Implant   bool
}

type page struct {
	Snapshot
	Columns [2]column
}

// WriteHTML renders the electrode table markup for s.
func WriteHTML(w io.Writer, s Snapshot) error {
	p := page{Snapshot: s}
	for k, displayed := range common.Ears {
		ear := common.ActualEar(displayed, s.Settings.CISide)
		p.Columns[k] = column{Displayed: displayed, Ear: ear, Implant: ear == s.Settings.CISide}
	}
	if err := tableTemplate.Execute(w, p); err != nil {
		return fault.Wrap(err, fmsg.With("render table"))
	}
	return nil
}
