//go:build js
// +build js

package main

import (
	"github.com/gopherjs/gopherjs/js"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
	"github.com/simukka/bicial/table"
)

func main() {
	common.LoggerFactory = common.ConsoleLoggerFactory{}

	// Get the table container
	doc := js.Global.Get("document")
	container := doc.Call("getElementById", "cfTableContainer")
	if container == nil || container == js.Undefined {
		panic("cfTableContainer element not found")
	}

	st := store.New(store.NewBrowserKV())
	engine := audio.NewEngine(audio.BrowserContext)
	dom := table.NewDOM(container)
	c := table.NewController(st, engine, common.BrowserClock{}, dom)
	dom.Bind(c, table.NewRouter(c))

	p := newPage(doc, c)
	p.bind()
	p.sync()

	// Expose read-only state to page scripts (visualisations)
	js.Global.Set("Bicial", map[string]interface{}{
		"frequencies": func(ear string) []int {
			e, ok := common.ParseEar(ear)
			if !ok {
				return nil
			}
			return c.Frequencies(e)
		},
		"markers": func() map[string]interface{} {
			return markersObject(c.Markers())
		},
		"range": func() []int {
			lo, hi := c.FrequencyRange()
			return []int{lo, hi}
		},
		"stopAll": c.StopAll,
	})

	// Silence everything when the page goes away
	js.Global.Call("addEventListener", "beforeunload", func() {
		c.StopAll()
	})

	select {}
}

func markersObject(m table.Markers) map[string]interface{} {
	side := func(ms []table.Marker) []interface{} {
		out := make([]interface{}, len(ms))
		for i, mk := range ms {
			out[i] = map[string]interface{}{"electrode": mk.Electrode, "frequency": mk.Frequency}
		}
		return out
	}
	return map[string]interface{}{
		"ciSide":   m.CISide.String(),
		"left":     side(m.Left),
		"right":    side(m.Right),
		"selected": []int(m.Selected),
	}
}
