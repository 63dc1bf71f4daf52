package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/ui/render"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
	minBarWidth = 5
)

// RenderProgressBar renders the bar for a completion percentage.
// Format: ━━━━━─────  1:23 / 4:56
func RenderProgressBar(percent int, position, duration time.Duration, width int) string {
	timeStr := formatDuration(position) + " / " + formatDuration(duration)
	if duration <= 0 {
		timeStr = fmt.Sprintf("%3d%%", percent)
	}

	barWidth := width - lipgloss.Width(timeStr) - 2
	if barWidth < minBarWidth {
		// Too narrow for bar, just show times
		return timeStyle.Render(timeStr)
	}

	percent = min(max(percent, 0), 100)
	filled := barWidth * percent / 100

	return render.Gradient(strings.Repeat(filledBlock, filled), gradientFrom, gradientTo) +
		emptyStyle.Render(strings.Repeat(emptyBlock, barWidth-filled)) +
		"  " + timeStyle.Render(timeStr)
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
