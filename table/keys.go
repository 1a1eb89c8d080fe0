package table

import (
	"strings"

	"github.com/simukka/bicial/common"
)

// Action is a row-scoped keyboard command.
type Action int

const (
	NoAction Action = iota
	NudgeDownLarge
	NudgeDownSmall
	NudgeUpSmall
	NudgeUpLarge
	PlayLeft
	PlayRight
	Alternate
	ToggleDual
)

func (a Action) String() string {
	switch a {
	case NudgeDownLarge:
		return "nudge -10"
	case NudgeDownSmall:
		return "nudge -1"
	case NudgeUpSmall:
		return "nudge +1"
	case NudgeUpLarge:
		return "nudge +10"
	case PlayLeft:
		return "play L"
	case PlayRight:
		return "play R"
	case Alternate:
		return "alternate L/R"
	case ToggleDual:
		return "toggle L+R"
	}
	return "none"
}

// KeyMap maps key codes to row actions.
var KeyMap = map[int]Action{
	65:  NudgeDownLarge, // A
	83:  NudgeDownSmall, // S
	68:  NudgeUpSmall,   // D
	70:  NudgeUpLarge,   // F
	74:  PlayLeft,       // J
	75:  PlayRight,      // K
	76:  Alternate,      // L
	186: ToggleDual,     // ;
}

// keyAliases folds browser-specific key codes onto KeyMap entries.
var keyAliases = map[int]int{
	59: 186, // ; in Firefox
}

// TranslateKeyCode converts alternative key codes to canonical ones.
func TranslateKeyCode(keyCode int) int {
	if mapped, ok := keyAliases[keyCode]; ok {
		return mapped
	}
	return keyCode
}

// KeyCodeForRune returns the key code of a typed character, for front-ends
// that receive text instead of key codes.
func KeyCodeForRune(r rune) int {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a' + 'A')
	case r >= 'A' && r <= 'Z':
		return int(r)
	case r == ';':
		return 186
	}
	return 0
}

// textInputTypes are the input types that take typed characters.
var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"number":   true,
	"search":   true,
	"email":    true,
	"password": true,
	"tel":      true,
	"url":      true,
}

// IsEditable reports whether an element with the given tag name and type
// attribute swallows typed keys. Sliders, checkboxes and buttons do not.
func IsEditable(tag, inputType string, contentEditable bool) bool {
	switch strings.ToUpper(tag) {
	case "TEXTAREA", "SELECT":
		return true
	case "INPUT":
		return textInputTypes[strings.ToLower(inputType)]
	}
	return contentEditable
}

// Router dispatches keyboard actions to the last active row.
type Router struct {
	c       *Controller
	lastRow int
}

// NewRouter creates a router with no active row.
func NewRouter(c *Controller) *Router {
	return &Router{c: c, lastRow: -1}
}

// Touch marks row as the last active row. Front-ends call it on focus or
// input of a row control and on every click carrying a row index.
func (r *Router) Touch(row int) {
	if row >= 0 && row < r.c.Count() {
		r.lastRow = row
	}
}

// LastRow returns the last active row, if it still exists.
func (r *Router) LastRow() (int, bool) {
	if r.lastRow < 0 || r.lastRow >= r.c.Count() {
		return -1, false
	}
	return r.lastRow, true
}

// HandleKeyCode runs the action bound to keyCode. Keys typed into an editable
// field and keys pressed before any row was touched are not handled.
func (r *Router) HandleKeyCode(keyCode int, editable bool) bool {
	if editable {
		return false
	}
	a, ok := KeyMap[TranslateKeyCode(keyCode)]
	if !ok {
		return false
	}
	return r.Dispatch(a)
}

// Dispatch runs a on the last active row.
func (r *Router) Dispatch(a Action) bool {
	row, ok := r.LastRow()
	if !ok {
		return false
	}
	switch a {
	case NudgeDownLarge:
		r.c.Nudge(row, -LargeStep)
	case NudgeDownSmall:
		r.c.Nudge(row, -SmallStep)
	case NudgeUpSmall:
		r.c.Nudge(row, SmallStep)
	case NudgeUpLarge:
		r.c.Nudge(row, LargeStep)
	case PlayLeft:
		r.c.PlaySingle(row, common.Left)
	case PlayRight:
		r.c.PlaySingle(row, common.Right)
	case Alternate:
		r.c.PlayAlternating(row)
	case ToggleDual:
		r.c.ToggleDual(row)
	default:
		return false
	}
	return true
}
