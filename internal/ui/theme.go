package ui

import "github.com/charmbracelet/lipgloss"

// C++ Hub brand colors.
var (
	brandBlue   = lipgloss.Color("#3B82F6")
	brandCyan   = lipgloss.Color("#06B6D4")
	brandYellow = lipgloss.Color("#FACC15")

	BrandStyle = lipgloss.NewStyle().
			Foreground(brandCyan).
			Background(lipgloss.Color("#111827")).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#111827"))

	ActiveTabStyle = lipgloss.NewStyle().
			Background(brandBlue).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(lipgloss.Color("#CCCCCC")).
			Padding(0, 1)

	PremiumBadge = lipgloss.NewStyle().
			Background(brandYellow).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1)
)
