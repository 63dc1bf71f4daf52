package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/llehouerou/tempo/internal/playlist"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	SaveSession(s Session)
	GetSession() (*Session, error)
	ListPlaylists() ([]Summary, error)
	GetPlaylist(id string) (*playlist.Playlist, error)
	SavePlaylist(ctx context.Context, pl *playlist.Playlist) error
	DeletePlaylist(id string) error
	SetTrackDuration(playlistID, trackID string, d time.Duration) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
