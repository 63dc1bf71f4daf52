package playerbar

import "github.com/charmbracelet/lipgloss"

var barStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240"))

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c0c0c0"))
	artistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#585858"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#585858"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// The filled part of the progress bar fades between these.
const (
	gradientFrom = lipgloss.Color("#6d5bd0")
	gradientTo   = lipgloss.Color("#42b883")
)
