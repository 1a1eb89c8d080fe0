//go:build js
// +build js

package main

import (
	"strconv"
	"strings"

	"github.com/Southclaws/fault/fmsg"
	"github.com/gopherjs/gopherjs/js"
	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/table"
)

const exportName = "bicial-settings.json"

// page wires the settings controls around the table.
type page struct {
	doc *js.Object
	c   *table.Controller
	log logging.LeveledLogger
}

func newPage(doc *js.Object, c *table.Controller) *page {
	return &page{doc: doc, c: c, log: common.Logger("page")}
}

func (p *page) byID(id string) *js.Object {
	el := p.doc.Call("getElementById", id)
	if el == nil || el == js.Undefined {
		return nil
	}
	return el
}

func (p *page) radios(name string) []*js.Object {
	list := p.doc.Call("querySelectorAll", `input[name="`+name+`"]`)
	out := make([]*js.Object, list.Length())
	for i := range out {
		out[i] = list.Index(i)
	}
	return out
}

func (p *page) on(id, event string, f func(el *js.Object)) {
	el := p.byID(id)
	if el == nil {
		p.log.Warnf("#%s missing, control disabled", id)
		return
	}
	el.Call("addEventListener", event, func() { f(el) })
}

func intOf(el *js.Object) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(el.Get("value").String()))
	return v, err == nil
}

func (p *page) bind() {
	for _, r := range p.radios("ciSide") {
		r := r
		r.Call("addEventListener", "change", func() {
			if !r.Get("checked").Bool() {
				return
			}
			if ear, ok := common.ParseEar(r.Get("value").String()); ok {
				p.c.SetCISide(ear)
			}
		})
	}
	for _, r := range p.radios("electrodeCount") {
		r := r
		r.Call("addEventListener", "change", func() {
			if !r.Get("checked").Bool() {
				return
			}
			if n, err := strconv.Atoi(r.Get("value").String()); err == nil {
				p.c.SetElectrodeCount(n)
			}
		})
	}
	for _, ear := range common.Ears {
		ear := ear
		p.on("volume"+ear.String(), "input", func(el *js.Object) {
			if v, ok := intOf(el); ok {
				p.c.SetVolume(ear, v)
			}
		})
	}
	p.on("beepDuration", "change", func(el *js.Object) {
		if v, ok := intOf(el); ok {
			p.c.SetBeepDurationMs(v)
		}
		p.sync()
	})
	p.on("beepReps", "change", func(el *js.Object) {
		if v, ok := intOf(el); ok {
			p.c.SetBeepReps(v)
		}
		p.sync()
	})

	p.on("btnExport", "click", func(*js.Object) { p.export() })
	if file := p.byID("importFile"); file != nil {
		p.on("btnImport", "click", func(*js.Object) { file.Call("click") })
		file.Call("addEventListener", "change", func() { p.importFile(file) })
	}
	p.on("btnReset", "click", func(*js.Object) {
		if js.Global.Call("confirm", "Reset all settings to defaults?").Bool() {
			p.c.Reset()
			p.sync()
		}
	})
}

// sync reflects the settings in effect in the controls.
func (p *page) sync() {
	s := p.c.Settings()
	for _, r := range p.radios("ciSide") {
		r.Set("checked", r.Get("value").String() == s.CISide.String())
	}
	for _, r := range p.radios("electrodeCount") {
		r.Set("checked", r.Get("value").String() == strconv.Itoa(s.ElectrodeCount))
	}
	set := func(id string, v int) {
		if el := p.byID(id); el != nil {
			el.Set("value", strconv.Itoa(v))
		}
	}
	set("volumeL", s.VolumeL)
	set("volumeR", s.VolumeR)
	set("beepDuration", s.BeepDurationMs)
	set("beepReps", s.BeepReps)
}

func (p *page) export() {
	var b strings.Builder
	if err := p.c.Export(&b); err != nil {
		p.log.Errorf("export: %v", err)
		js.Global.Call("alert", fmsg.GetIssue(err))
		return
	}
	blob := js.Global.Get("Blob").New([]interface{}{b.String()}, map[string]interface{}{"type": "application/json"})
	url := js.Global.Get("URL").Call("createObjectURL", blob)
	a := p.doc.Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", exportName)
	body := p.doc.Get("body")
	body.Call("appendChild", a)
	a.Call("click")
	body.Call("removeChild", a)
	js.Global.Get("URL").Call("revokeObjectURL", url)
}

func (p *page) importFile(input *js.Object) {
	files := input.Get("files")
	if files == nil || files == js.Undefined || files.Length() == 0 {
		return
	}
	reader := js.Global.Get("FileReader").New()
	reader.Set("onload", func() {
		input.Set("value", "")
		if err := p.c.Import(strings.NewReader(reader.Get("result").String())); err != nil {
			p.log.Warnf("import: %v", err)
			js.Global.Call("alert", fmsg.GetIssue(err))
			return
		}
		p.sync()
	})
	reader.Call("readAsText", files.Index(0))
}
