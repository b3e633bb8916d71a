package viz

import "github.com/charmbracelet/lipgloss"

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(8)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusDone    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))

	keyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)
