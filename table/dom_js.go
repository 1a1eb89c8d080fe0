//go:build js
// +build js

package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/gopherjs/gopherjs/js"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
)

// DOM renders the table into a container element and routes its events.
type DOM struct {
	container *js.Object
	c         *Controller
	r         *Router
}

// NewDOM creates a view rendering into container. Call Bind once the
// controller exists.
func NewDOM(container *js.Object) *DOM {
	return &DOM{container: container}
}

func (d *DOM) Render(s Snapshot) {
	var b strings.Builder
	if err := WriteHTML(&b, s); err != nil {
		common.Logger("dom").Errorf("%v", err)
		return
	}
	d.container.Set("innerHTML", b.String())
}

func (d *DOM) find(selector string) *js.Object {
	el := d.container.Call("querySelector", selector)
	if el == nil || el == js.Undefined {
		return nil
	}
	return el
}

// setValue leaves the element alone while the user is editing it.
func setValue(el *js.Object, v int) {
	if el == nil || el == js.Global.Get("document").Get("activeElement") {
		return
	}
	el.Set("value", strconv.Itoa(v))
}

func setControl(el *js.Object, on, enabled bool) {
	if el == nil {
		return
	}
	el.Get("classList").Call("toggle", "is-on", on)
	el.Set("disabled", !enabled)
}

func (d *DOM) UpdateRow(r Row) {
	tr := d.find(`tr[data-row="` + strconv.Itoa(r.Index) + `"]`)
	if tr == nil {
		return
	}
	for _, cell := range r.Cells {
		col := `[data-col="` + cell.Displayed.String() + `"]`
		setValue(tr.Call("querySelector", ".ear-input"+col), cell.Frequency)
		setValue(tr.Call("querySelector", ".adj"+col), cell.Adjustment)
	}
	if cb := tr.Call("querySelector", ".row-check"); cb != nil {
		cb.Set("checked", r.Selected)
	}
	setControl(tr.Call("querySelector", `[data-act="alt"]`), r.Alternating, !r.Alternating)
	setControl(tr.Call("querySelector", `[data-act="both"]`), r.Dual != audio.Idle, true)
}

func (d *DOM) UpdateBatch(b Batch) {
	for k, displayed := range common.Ears {
		setControl(d.find(`[data-act="play-all"][data-col="`+displayed.String()+`"]`), b.Play[k].On, b.Play[k].Enabled)
	}
	setControl(d.find(`[data-act="alt-all"]`), b.Alternate.On, b.Alternate.Enabled)
	if master := d.find("#masterCheck"); master != nil {
		master.Set("checked", b.AllSelected)
	}
}

// Bind attaches delegated listeners to the container and the document key
// handler.
func (d *DOM) Bind(c *Controller, r *Router) {
	d.c, d.r = c, r
	d.container.Call("addEventListener", "click", d.onClick)
	d.container.Call("addEventListener", "change", d.onChange)
	d.container.Call("addEventListener", "input", d.onInput)
	d.container.Call("addEventListener", "focusin", func(e *js.Object) {
		if row, ok := rowOf(e.Get("target")); ok {
			d.r.Touch(row)
		}
	})
	js.Global.Get("document").Call("addEventListener", "keydown", func(e *js.Object) {
		if d.r.HandleKeyCode(e.Get("keyCode").Int(), editable(e.Get("target"))) {
			e.Call("preventDefault")
		}
	})
}

func attr(el *js.Object, name string) string {
	v := el.Call("getAttribute", name)
	if v == nil || v == js.Undefined {
		return ""
	}
	return v.String()
}

func rowOf(el *js.Object) (int, bool) {
	i, err := strconv.Atoi(attr(el, "data-i"))
	return i, err == nil
}

func colOf(el *js.Object) common.Ear {
	ear, ok := common.ParseEar(attr(el, "data-col"))
	if !ok {
		return common.Left
	}
	return ear
}

func intValue(el *js.Object) int {
	f, err := strconv.ParseFloat(el.Get("value").String(), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

func editable(el *js.Object) bool {
	if el == nil || el == js.Undefined {
		return false
	}
	return IsEditable(el.Get("tagName").String(), attr(el, "type"), el.Get("isContentEditable").Bool())
}

func (d *DOM) onClick(e *js.Object) {
	btn := e.Get("target").Call("closest", "button[data-act]")
	if btn == nil {
		return
	}
	row, hasRow := rowOf(btn)
	if hasRow {
		d.r.Touch(row)
	}
	switch attr(btn, "data-act") {
	case "play":
		d.c.PlaySingle(row, colOf(btn))
	case "alt":
		d.c.PlayAlternating(row)
	case "both":
		d.c.ToggleDual(row)
	case "nudge":
		delta, _ := strconv.Atoi(attr(btn, "data-delta"))
		d.c.Nudge(row, delta)
	case "play-all":
		d.c.PlayAll(colOf(btn))
	case "alt-all":
		d.c.AlternateAll()
	}
}

func (d *DOM) onChange(e *js.Object) {
	el := e.Get("target")
	if el.Get("id").String() == "masterCheck" {
		d.c.SelectAll(el.Get("checked").Bool())
		return
	}
	row, ok := rowOf(el)
	if !ok {
		return
	}
	d.r.Touch(row)
	cls := el.Get("classList")
	switch {
	case cls.Call("contains", "ear-input").Bool():
		col := colOf(el)
		d.c.CommitFrequency(row, col, intValue(el))
		el.Set("value", strconv.Itoa(d.c.Frequencies(d.c.ActualEar(col))[row]))
	case cls.Call("contains", "row-check").Bool():
		d.c.SetSelected(row, el.Get("checked").Bool())
	}
}

func (d *DOM) onInput(e *js.Object) {
	el := e.Get("target")
	if !el.Get("classList").Call("contains", "adj").Bool() {
		return
	}
	if row, ok := rowOf(el); ok {
		d.r.Touch(row)
		d.c.SetAdjustment(row, colOf(el), intValue(el))
	}
}
