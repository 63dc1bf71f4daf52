// Package playerbar renders the one-line player status shown under the
// playlist.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/ui/render"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
)

// Height is the rendered height: top border, content, bottom border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Status   player.State
	Title    string
	Artist   string
	Index    int // 1-based, 0 when nothing is selected
	Total    int
	Mode     playlist.PlayMode
	Percent  int
	Position time.Duration
	Duration time.Duration
}

// NewState snapshots the sequencer and its engine. percent is the last
// progress value received; the measured track duration is preferred over
// the engine's estimate.
func NewState(svc playback.Service, percent int) State {
	s := State{
		Status:  svc.State(),
		Total:   len(svc.Tracks()),
		Mode:    svc.PlayMode(),
		Percent: percent,
	}

	t := svc.CurrentTrack()
	if t == nil {
		return s
	}
	s.Title = render.Sanitize(t.DisplayTitle())
	s.Artist = render.Sanitize(t.Artist)
	s.Index = svc.CurrentIndex() + 1

	s.Duration = t.Duration
	if s.Duration <= 0 {
		s.Duration = svc.Player().Duration()
	}
	s.Position = s.Duration * time.Duration(percent) / player.ProgressTotal
	return s
}

// Render returns the player bar string for the given width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 0)

	status := stopSymbol
	switch s.Status {
	case player.Playing:
		status = playSymbol
	case player.Paused:
		status = pauseSymbol
	}

	title := s.Title
	if title == "" {
		title = "Nothing playing"
	}

	var meta []string
	if s.Index > 0 {
		meta = append(meta, fmt.Sprintf("%d/%d", s.Index, s.Total))
	}
	meta = append(meta, s.Mode.String())
	metaStr := strings.Join(meta, " · ")

	separator := "   "
	sepWidth := lipgloss.Width(separator)
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(metaStr) + sepWidth*2

	// The bar gets what the title and artist leave, but never less than a third.
	barWidth := max(innerWidth/3, minBarWidth+14)
	textWidth := innerWidth - fixed - barWidth

	var text string
	switch {
	case s.Artist != "" && lipgloss.Width(title)+sepWidth+lipgloss.Width(s.Artist) <= textWidth:
		text = titleStyle.Render(title) + separator + artistStyle.Render(s.Artist)
		barWidth = innerWidth - fixed - lipgloss.Width(title) - sepWidth - lipgloss.Width(s.Artist)
	default:
		clipped := render.Truncate(title, max(textWidth, 1))
		text = titleStyle.Render(clipped)
		barWidth = innerWidth - fixed - lipgloss.Width(clipped)
	}

	var content strings.Builder
	content.WriteString(status)
	content.WriteString("  ")
	content.WriteString(text)
	content.WriteString(separator)
	content.WriteString(metaStyle.Render(metaStr))
	content.WriteString(separator)
	content.WriteString(RenderProgressBar(s.Percent, s.Position, s.Duration, barWidth))

	return barStyle.Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}
