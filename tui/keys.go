//go:build !js
// +build !js

package main

import "github.com/charmbracelet/bubbles/key"

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

// keyMap holds the terminal-only bindings. Row actions (A S D F J K L ;) go
// through the table router and are listed separately in rowHelp.
type keyMap struct {
	Up, Down, Left, Right key.Binding
	Edit, Select, SelectAll key.Binding
	PlayFirst, PlaySecond, AlternateAll, Stop key.Binding
	AdjustDown, AdjustUp, VolumeDown, VolumeUp key.Binding
	Shorter, Longer, Reps key.Binding
	Implant, Count key.Binding
	Reset, Export, Import key.Binding
	Help, Quit key.Binding
}

var keys = keyMap{
	Up:           Key("row up", "up"),
	Down:         Key("row down", "down"),
	Left:         Key("first column", "left"),
	Right:        Key("second column", "right"),
	Edit:         Key("edit frequency", "enter", "e"),
	Select:       Key("select row", " "),
	SelectAll:    Key("select all", "x"),
	PlayFirst:    Key("play all, first column", "1"),
	PlaySecond:   Key("play all, second column", "2"),
	AlternateAll: Key("alternate all", "3"),
	Stop:         Key("stop", "esc"),
	AdjustDown:   Key("level -5", "-"),
	AdjustUp:     Key("level +5", "="),
	VolumeDown:   Key("volume -5", "["),
	VolumeUp:     Key("volume +5", "]"),
	Shorter:      Key("beep -100ms", "{"),
	Longer:       Key("beep +100ms", "}"),
	Reps:         Key("cycle repetitions", "r"),
	Implant:      Key("swap implant side", "i"),
	Count:        Key("cycle electrode count", "n"),
	Reset:        Key("reset everything", "ctrl+r"),
	Export:       Key("export settings", "ctrl+e"),
	Import:       Key("import settings", "ctrl+o"),
	Help:         Key("help", "?"),
	Quit:         Key("quit", "q", "ctrl+c"),
}

var rowHelp = []key.Binding{
	Key("-10 Hz", "a"),
	Key("-1 Hz", "s"),
	Key("+1 Hz", "d"),
	Key("+10 Hz", "f"),
	Key("play first", "j"),
	Key("play second", "k"),
	Key("alternate", "l"),
	Key("L+R", ";"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return append([]key.Binding{k.Up, k.Down, k.Edit, k.Select}, append(rowHelp[4:], k.Help, k.Quit)...)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Edit, k.Select, k.SelectAll},
		rowHelp,
		{k.PlayFirst, k.PlaySecond, k.AlternateAll, k.Stop, k.AdjustDown, k.AdjustUp},
		{k.VolumeDown, k.VolumeUp, k.Shorter, k.Longer, k.Reps, k.Implant, k.Count},
		{k.Reset, k.Export, k.Import, k.Help, k.Quit},
	}
}
