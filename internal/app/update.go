package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/ui/headerbar"
	"github.com/llehouerou/tempo/internal/ui/playerbar"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ProgressMsg:
		m.percent = msg.Current
		return m, m.WatchEngine()

	case EngineStateMsg:
		return m, m.WatchEngine()

	case ServiceTrackChangedMsg:
		m.errorMsg = ""
		m.statusMsg = ""
		m.percent = 0
		m.cursor = max(msg.Index, 0)
		m.scrollToCursor()
		m.saveSession()
		return m, m.WatchServiceEvents()

	case ServicePlaylistChangedMsg:
		if msg.Edited {
			m.moveCursor(0)
			return m, m.WatchServiceEvents()
		}
		m.percent = 0
		m.cursor = max(msg.Index, 0)
		m.offset = 0
		m.scrollToCursor()
		return m, m.WatchServiceEvents()

	case ServiceModeChangedMsg:
		m.saveSession()
		return m, m.WatchServiceEvents()

	case ServiceDurationChangedMsg:
		return m, m.WatchServiceEvents()

	case ServiceErrorMsg:
		m.errorMsg = errmsg.FormatWith(errmsg.PlaybackOp(msg.Operation), msg.TrackID, msg.Err)
		return m, m.WatchServiceEvents()

	case ServiceClosedMsg:
		return m, nil

	case ActionDoneMsg:
		switch {
		case msg.Err != nil:
			m.errorMsg = errmsg.Format(msg.Op, msg.Err)
			m.statusMsg = ""
		case msg.Notice != "":
			m.errorMsg = ""
			m.statusMsg = msg.Notice
		}
		m.scrollToCursor()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveSession()
		m.svc.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		return m, m.runAction(errmsg.OpPlaybackStart, m.svc.Toggle)

	case key.Matches(msg, m.keys.Play):
		index := m.cursor
		return m, m.runAction(errmsg.OpPlaybackStart, func(ctx context.Context) error {
			if err := m.svc.JumpTo(ctx, index); err != nil {
				return err
			}
			if m.svc.State().IsActive() {
				return nil
			}
			return m.svc.Play(ctx)
		})

	case key.Matches(msg, m.keys.Next):
		return m, m.runAction(errmsg.OpPlaybackStart, m.svc.Next)

	case key.Matches(msg, m.keys.Previous):
		return m, m.runAction(errmsg.OpPlaybackStart, m.svc.Previous)

	case key.Matches(msg, m.keys.Mode):
		m.svc.CycleMode()
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		m.svc.Stop()
		m.percent = 0
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		return m.moveTrack(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m.moveTrack(1)

	case key.Matches(msg, m.keys.Remove):
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		index := m.cursor
		return m, m.runAction(errmsg.OpPlaylistEdit, func(ctx context.Context) error {
			return m.svc.RemoveTrack(ctx, index)
		})

	case key.Matches(msg, m.keys.Favorite):
		return m.favorite()

	case key.Matches(msg, m.keys.Download):
		return m.download()

	case key.Matches(msg, m.keys.SaveAll):
		return m.downloadAll()

	case key.Matches(msg, m.keys.VolUp):
		if v, ok := m.volume(); ok {
			v.SetVolume(lo.Clamp(v.Volume()+volumeStep, 0, 1))
		}
		return m, nil

	case key.Matches(msg, m.keys.VolDown):
		if v, ok := m.volume(); ok {
			v.SetVolume(lo.Clamp(v.Volume()-volumeStep, 0, 1))
		}
		return m, nil

	case key.Matches(msg, m.keys.Mute):
		if v, ok := m.volume(); ok {
			v.SetMuted(!v.Muted())
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.scrollToCursor()
		return m, nil
	}
	return m, nil
}

// moveTrack shifts the selected track by delta rows; the cursor follows it.
func (m Model) moveTrack(delta int) (tea.Model, tea.Cmd) {
	from, to := m.cursor, m.cursor+delta
	if to < 0 || to >= len(m.svc.Tracks()) {
		return m, nil
	}
	m.cursor = to
	m.scrollToCursor()
	return m, m.runAction(errmsg.OpPlaylistEdit, func(ctx context.Context) error {
		return m.svc.MoveTrack(ctx, from, to)
	})
}

func (m Model) favorite() (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok || m.playlists == nil {
		return m, nil
	}
	if pl := m.svc.Playlist(); pl != nil && pl.ID == state.FavoritesID {
		m.statusMsg = "Playing Favorites, use x to remove a track"
		return m, nil
	}
	store := m.playlists
	return m, m.runNotice(errmsg.OpFavoriteToggle, func(ctx context.Context) (string, error) {
		on, err := state.ToggleFavorite(ctx, store, t)
		if err != nil {
			return "", err
		}
		if !on {
			return fmt.Sprintf("Removed %q from Favorites", t.DisplayTitle()), nil
		}
		return fmt.Sprintf("Added %q to Favorites", t.DisplayTitle()), nil
	})
}

func (m Model) download() (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok || m.downloader == nil {
		return m, nil
	}
	if !t.IsRemote() {
		m.statusMsg = "Local file, nothing to download"
		return m, nil
	}
	d := m.downloader
	return m, m.runNotice(errmsg.OpTrackDownload, func(ctx context.Context) (string, error) {
		path, err := d.Track(ctx, t)
		if err != nil {
			return "", err
		}
		return "Saved to " + path, nil
	})
}

func (m Model) downloadAll() (tea.Model, tea.Cmd) {
	if m.downloader == nil {
		return m, nil
	}
	tracks := m.svc.Tracks()
	remote := lo.CountBy(tracks, func(t playlist.Track) bool { return t.IsRemote() })
	if remote == 0 {
		m.statusMsg = "No remote tracks to download"
		return m, nil
	}
	d := m.downloader
	m.statusMsg = fmt.Sprintf("Downloading %d tracks…", remote)
	return m, m.runNotice(errmsg.OpTrackDownload, func(ctx context.Context) (string, error) {
		saved, err := d.Playlist(ctx, tracks)
		if err != nil {
			return "", fmt.Errorf("saved %d/%d: %w", saved, remote, err)
		}
		return fmt.Sprintf("Saved %d/%d tracks to %s", saved, remote, d.Dir()), nil
	})
}

func (m *Model) moveCursor(delta int) {
	n := len(m.svc.Tracks())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = lo.Clamp(m.cursor+delta, 0, n-1)
	m.scrollToCursor()
}

// listHeight is the number of track rows that fit above the player bar.
func (m Model) listHeight() int {
	overhead := headerbar.Height + playerbar.Height + 1 // help
	if m.errorMsg != "" {
		overhead++
	}
	if m.statusMsg != "" {
		overhead++
	}
	if m.help.ShowAll {
		overhead += 3
	}
	return max(m.height-overhead, 1)
}

func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(m.offset, 0)
}
