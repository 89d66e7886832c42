// Package ui holds the terminal styles of the journal CLI.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#101F38") // dark blue
	Accent      = lipgloss.Color("#8BC34A") // lime green
	MutedColor  = lipgloss.Color("#8a94a6")
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")

	DarkPrimary = lipgloss.Color("#8BC34A")
)

// Styles holds the styled components.
type Styles struct {
	IsDark bool

	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Bar colours the wake-up graph.
	Bar lipgloss.Style
}

// IsDarkTerminal guesses the background from COLORFGBG or JOURNAL_DARK_MODE.
func IsDarkTerminal() bool {
	if os.Getenv("JOURNAL_DARK_MODE") == "1" {
		return true
	}
	parts := strings.Split(os.Getenv("COLORFGBG"), ";")
	if len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil {
			return (bg >= 0 && bg <= 6) || bg == 8
		}
	}
	return false
}

// NewStyles creates the styles for a light or dark terminal.
func NewStyles(dark bool) Styles {
	primary := Primary
	if dark {
		primary = DarkPrimary
	}
	return Styles{
		IsDark: dark,

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(MutedColor),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Bar: lipgloss.NewStyle().
			Foreground(Accent),
	}
}

// DefaultStyles returns styles for the detected terminal.
func DefaultStyles() Styles {
	return NewStyles(IsDarkTerminal())
}
