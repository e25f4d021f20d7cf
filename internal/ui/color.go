// Package ui formats terminal output: tables, styled labels, highlighted IDs
// and short durations.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Tone selects the color of a styled label.
type Tone int

const (
	ToneMuted Tone = iota
	ToneInfo
	ToneSuccess
	ToneWarning
	ToneDanger
)

var toneStyles = map[Tone]lipgloss.Style{
	ToneMuted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	ToneInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	ToneSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	ToneWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	ToneDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

var idPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// colorEnabled is swapped in tests.
var colorEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColorEnabled reports whether stdout is a terminal that accepts ANSI styling.
func ColorEnabled() bool {
	return colorEnabled()
}

// Paint renders text in tone, or returns it unchanged when color is off.
func Paint(tone Tone, text string) string {
	if text == "" || !colorEnabled() {
		return text
	}
	style, ok := toneStyles[tone]
	if !ok {
		return text
	}
	return style.Render(text)
}

// HighlightID returns an ID with its unique prefix highlighted.
func HighlightID(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) {
		return id
	}
	if !colorEnabled() {
		return id
	}
	return idPrefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}
