package state

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/llehouerou/tempo/internal/playlist"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu        sync.Mutex
	session   *Session
	playlists map[string]*playlist.Playlist
	durations map[string]time.Duration
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		playlists: make(map[string]*playlist.Playlist),
		durations: make(map[string]time.Duration),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
}

func (m *Mock) GetSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *Mock) ListPlaylists() ([]Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Summary, 0, len(m.playlists))
	for _, pl := range m.playlists {
		out = append(out, Summary{ID: pl.ID, Name: pl.Name, Owner: pl.Owner, Kind: pl.Kind, TrackCount: pl.Len()})
	}
	return out, nil
}

func (m *Mock) GetPlaylist(id string) (*playlist.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pl, ok := m.playlists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return pl, nil
}

func (m *Mock) SavePlaylist(_ context.Context, pl *playlist.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists[pl.ID] = pl
	return nil
}

func (m *Mock) DeletePlaylist(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.playlists[id]; !ok {
		return ErrNotFound
	}
	delete(m.playlists, id)
	return nil
}

func (m *Mock) SetTrackDuration(playlistID, trackID string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[playlistID+"|"+trackID] = d
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// TrackDuration returns the duration recorded for a track, if any.
func (m *Mock) TrackDuration(playlistID, trackID string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.durations[playlistID+"|"+trackID]
	return d, ok
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
