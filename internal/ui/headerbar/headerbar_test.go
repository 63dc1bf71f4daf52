package headerbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/tempo/internal/playlist"
)

type fakeVolume struct {
	level float64
	muted bool
}

func (f *fakeVolume) SetVolume(level float64) { f.level = level }
func (f *fakeVolume) Volume() float64         { return f.level }
func (f *fakeVolume) SetMuted(muted bool)     { f.muted = muted }
func (f *fakeVolume) Muted() bool             { return f.muted }

func TestNewState(t *testing.T) {
	pl := playlist.New("sheet-7", "Night Drive", "dj", playlist.Remote)
	pl.Add(playlist.Track{ID: "a"}, playlist.Track{ID: "b"})

	s := NewState(pl, &fakeVolume{level: 0.5, muted: true})

	if s.Name != "Night Drive" || s.Owner != "dj" || s.Kind != playlist.Remote {
		t.Errorf("NewState() = %+v", s)
	}
	if s.Tracks != 2 {
		t.Errorf("Tracks = %d, want 2", s.Tracks)
	}
	if !s.HasVolume || s.Volume != 0.5 || !s.Muted {
		t.Errorf("volume = %v/%v/%v", s.HasVolume, s.Volume, s.Muted)
	}
}

func TestNewState_NoPlaylistNoVolume(t *testing.T) {
	s := NewState(nil, nil)
	if s.Name != "" || s.HasVolume {
		t.Errorf("NewState(nil, nil) = %+v", s)
	}
}

func TestRender(t *testing.T) {
	s := State{Name: "Evening", Owner: "me", Tracks: 3, HasVolume: true, Volume: 0.8}

	out := ansi.Strip(Render(s, 60))

	if !strings.HasPrefix(out, "Evening · me │ 3 tracks │ local") {
		t.Errorf("Render() = %q", out)
	}
	if !strings.HasSuffix(out, "vol  80%") {
		t.Errorf("Render() = %q, want volume on the right", out)
	}
	if w := lipgloss.Width(out); w != 60 {
		t.Errorf("width = %d, want 60", w)
	}
}

func TestRender_Narrow(t *testing.T) {
	s := State{Name: "A Very Long Playlist Name", Owner: "someone", Tracks: 1}

	out := ansi.Strip(Render(s, 12))

	if out != "A Very Lon… " {
		t.Errorf("Render() = %q", out)
	}
}

func TestRender_Empty(t *testing.T) {
	if out := ansi.Strip(Render(State{}, 20)); !strings.HasPrefix(out, "tempo") {
		t.Errorf("Render() = %q", out)
	}
	if out := Render(State{Name: "x"}, 0); out != "" {
		t.Errorf("Render(width 0) = %q, want empty", out)
	}
}

func TestRenderVolume(t *testing.T) {
	if got := RenderVolume(0.8, false); !strings.Contains(got, "vol  80%") {
		t.Errorf("RenderVolume = %q", got)
	}
	if got := RenderVolume(1, true); !strings.Contains(got, "mute 100%") {
		t.Errorf("RenderVolume muted = %q", got)
	}
}

func TestTrackCount(t *testing.T) {
	if got := trackCount(1); got != "1 track" {
		t.Errorf("trackCount(1) = %q", got)
	}
	if got := trackCount(0); got != "0 tracks" {
		t.Errorf("trackCount(0) = %q", got)
	}
}
