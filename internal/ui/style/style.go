// Package style holds the terminal palette and glyphs shared by the logger and the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Ember  = lipgloss.Color("#F97316")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// TaskName renders a task name in the accent color.
var TaskName = lipgloss.NewStyle().Foreground(Ember).Bold(true)

// Muted renders secondary text such as task descriptions.
var Muted = lipgloss.NewStyle().Foreground(Slate)
