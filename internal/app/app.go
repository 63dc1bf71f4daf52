// Package app is the bubbletea front-end: a playlist view with a player bar
// driven by the playback sequencer's events.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/state"
)

const volumeStep = 0.1

// SessionSaver records where playback is so the next start can resume it.
type SessionSaver interface {
	SaveSession(s state.Session)
}

// Downloader saves remote tracks as regular files.
type Downloader interface {
	Dir() string
	Track(ctx context.Context, t playlist.Track) (string, error)
	Playlist(ctx context.Context, tracks []playlist.Track) (int, error)
}

// Model is the root application model.
type Model struct {
	ctx      context.Context
	svc      playback.Service
	sub      *playback.Subscription
	engine   *player.Subscription
	session    SessionSaver
	playlists  state.PlaylistStore
	downloader Downloader
	autoplay   bool

	keys keyMap
	help help.Model

	percent   int
	cursor    int
	offset    int
	errorMsg  string
	statusMsg string
	width     int
	height    int
}

// Option configures a Model.
type Option func(*Model)

// WithSessionSaver persists the selected track and mode on every change.
func WithSessionSaver(s SessionSaver) Option {
	return func(m *Model) { m.session = s }
}

// WithPlaylists enables the favorite key, which collects tracks in the
// Favorites playlist of store.
func WithPlaylists(store state.PlaylistStore) Option {
	return func(m *Model) { m.playlists = store }
}

// WithDownloader enables the download key for remote tracks.
func WithDownloader(d Downloader) Option {
	return func(m *Model) { m.downloader = d }
}

// WithAutoplay starts the selected track as soon as the program runs.
func WithAutoplay() Option {
	return func(m *Model) { m.autoplay = true }
}

// New creates the model. ctx bounds the control calls it issues.
func New(ctx context.Context, svc playback.Service, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		svc:    svc,
		sub:    svc.Subscribe(),
		engine: svc.Player().Subscribe(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		cursor: max(svc.CurrentIndex(), 0),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.WatchServiceEvents(), m.WatchEngine()}
	if m.autoplay {
		cmds = append(cmds, m.runAction(errmsg.OpPlaybackStart, m.svc.Play))
	}
	return tea.Batch(cmds...)
}

func (m Model) saveSession() {
	if m.session == nil {
		return
	}
	pl := m.svc.Playlist()
	if pl == nil || pl.ID == "" {
		return
	}
	m.session.SaveSession(state.Session{
		PlaylistID: pl.ID,
		TrackIndex: m.svc.CurrentIndex(),
		Mode:       m.svc.PlayMode(),
	})
}

func (m Model) volume() (player.VolumeControl, bool) {
	v, ok := m.svc.Player().(player.VolumeControl)
	return v, ok
}

// selected returns the track under the cursor.
func (m Model) selected() (playlist.Track, bool) {
	tracks := m.svc.Tracks()
	if m.cursor < 0 || m.cursor >= len(tracks) {
		return playlist.Track{}, false
	}
	return tracks[m.cursor], true
}
