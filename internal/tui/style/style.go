// Package style defines lipgloss styles for the mixer TUI.
package style

import "github.com/charmbracelet/lipgloss"

// UI styles using lipgloss.
// These are package-level for convenience; lipgloss styles are value types
// and safe for concurrent use.
var (
	// Title is used for the application header.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Active marks routed devices and a live capture session.
	Active = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Warning is used for muted paths and degraded state.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Error is used for error messages in the status line.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Muted is used for de-emphasized text (e.g., inactive devices).
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Cursor is used for the selection marker.
	Cursor = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)
)
