// Package headerbar renders the line above the track list: the loaded
// playlist and the output volume.
package headerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/ui/render"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a78bfa")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	volumeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// State holds everything needed to render the header.
type State struct {
	Name      string
	Owner     string
	Kind      playlist.Kind
	Tracks    int
	HasVolume bool
	Volume    float64
	Muted     bool
}

// NewState snapshots pl and, when v is not nil, the output volume.
func NewState(pl *playlist.Playlist, v player.VolumeControl) State {
	var s State
	if pl != nil {
		s.Name = pl.Name
		s.Owner = pl.Owner
		s.Kind = pl.Kind
		s.Tracks = pl.Len()
	}
	if v != nil {
		s.HasVolume = true
		s.Volume = v.Volume()
		s.Muted = v.Muted()
	}
	return s
}

// Render returns the header bar string for the given width.
// Format: "Evening · me │ 3 tracks │ local          vol  80%"
func Render(s State, width int) string {
	if width <= 0 {
		return ""
	}

	right := ""
	if s.HasVolume {
		right = RenderVolume(s.Volume, s.Muted)
	}
	avail := max(width-lipgloss.Width(right)-1, 1)

	if s.Name == "" {
		return render.Row(nameStyle.Render("tempo"), right, width)
	}

	title := render.Sanitize(s.Name)
	if s.Owner != "" {
		title += " · " + render.Sanitize(s.Owner)
	}
	info := []string{
		trackCount(s.Tracks),
		strings.ToLower(s.Kind.String()),
	}

	separator := separatorStyle.Render(" │ ")
	left := nameStyle.Render(title) + separator + infoStyle.Render(strings.Join(info, " │ "))
	if lipgloss.Width(left) > avail {
		left = nameStyle.Render(render.Truncate(title, avail))
	}
	return render.Row(left, right, width)
}

// RenderVolume renders the volume indicator.
// Format: "vol 100%" or "mute 100%"
func RenderVolume(volume float64, muted bool) string {
	pct := int(volume*100 + 0.5)
	label := "vol"
	if muted {
		label = "mute"
	}
	return volumeStyle.Render(fmt.Sprintf("%s %3d%%", label, pct))
}

func trackCount(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}
