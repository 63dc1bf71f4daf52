package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/ui/headerbar"
	"github.com/llehouerou/tempo/internal/ui/playerbar"
	"github.com/llehouerou/tempo/internal/ui/render"
)

var (
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#303030"))
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#42b883"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	rows := m.renderTracks()
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")

	if m.errorMsg != "" {
		b.WriteString(messageLine(errorStyle, "✗", m.errorMsg, m.width))
		b.WriteString("\n")
	}
	if m.statusMsg != "" {
		b.WriteString(messageLine(playingStyle, "✓", m.statusMsg, m.width))
		b.WriteString("\n")
	}

	b.WriteString(playerbar.Render(playerbar.NewState(m.svc, m.percent), m.width))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	var vol player.VolumeControl
	if v, ok := m.volume(); ok {
		vol = v
	}
	return headerbar.Render(headerbar.NewState(m.svc.Playlist(), vol), m.width)
}

func (m Model) renderTracks() []string {
	tracks := m.svc.Tracks()
	h := m.listHeight()
	rows := make([]string, 0, h)

	if len(tracks) == 0 {
		rows = append(rows, mutedStyle.Render("  (empty playlist)"))
	}

	current := m.svc.CurrentIndex()
	active := m.svc.State() != player.Idle
	for i := m.offset; i < len(tracks) && len(rows) < h; i++ {
		rows = append(rows, m.renderTrack(i, tracks[i], i == current && active))
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return rows
}

func (m Model) renderTrack(i int, t playlist.Track, playing bool) string {
	marker := "  "
	if playing {
		marker = "▶ "
	}
	dur := playlist.FormatDuration(t.Duration)
	label := fmt.Sprintf("%3d. %s", i+1, t.DisplayTitle())
	if t.Artist != "" {
		label += " - " + t.Artist
	}

	width := max(m.width-lipgloss.Width(marker)-lipgloss.Width(dur)-1, 1)
	line := marker + render.TruncatePad(label, width) + " " + dur

	switch {
	case i == m.cursor:
		return cursorStyle.Render(line)
	case playing:
		return playingStyle.Render(line)
	default:
		return line
	}
}

func messageLine(style lipgloss.Style, icon, msg string, width int) string {
	line := style.Bold(true).Render(icon) + " " + style.Render(render.Sanitize(msg))
	return render.TruncateStyled(line, width)
}
