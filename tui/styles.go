//go:build !js
// +build !js

package main

import "github.com/charmbracelet/lipgloss"

// nord
var (
	nord0  = lipgloss.Color("#2E3440")
	nord2  = lipgloss.Color("#434C5E")
	nord3  = lipgloss.Color("#4C566A")
	nord4  = lipgloss.Color("#D8DEE9")
	nord8  = lipgloss.Color("#88C0D0")
	nord9  = lipgloss.Color("#81A1C1")
	nord10 = lipgloss.Color("#5E81AC")
	nord11 = lipgloss.Color("#BF616A")
	nord13 = lipgloss.Color("#EBCB8B")
	nord14 = lipgloss.Color("#A3BE8C")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(nord8)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(nord9)
	implantStyle  = lipgloss.NewStyle().Foreground(nord13)
	cellStyle     = lipgloss.NewStyle().Foreground(nord4)
	focusStyle    = lipgloss.NewStyle().Foreground(nord0).Background(nord13)
	cursorStyle   = lipgloss.NewStyle().Background(nord2)
	onStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(nord0).Background(nord10)
	offStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(nord4).Background(nord2)
	disabledStyle = lipgloss.NewStyle().Padding(0, 1).Faint(true).Foreground(nord3)
	playingStyle  = lipgloss.NewStyle().Foreground(nord14)
	errorStyle    = lipgloss.NewStyle().Foreground(nord11)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(nord3).Padding(0, 1)
)
