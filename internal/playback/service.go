package playback

import (
	"context"
	"io"
	"time"

	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
)

// Service defines the playback sequencer contract used by the front-end.
type Service interface {
	// Playlist selection
	SetPlaylist(pl *playlist.Playlist, index int)
	Playlist() *playlist.Playlist
	Tracks() []playlist.Track

	// Playback control
	Play(ctx context.Context) error
	Toggle(ctx context.Context) error
	Pause()
	Stop()
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	JumpTo(ctx context.Context, index int) error

	// Playlist editing
	RemoveTrack(ctx context.Context, index int) error
	MoveTrack(ctx context.Context, from, to int) error

	// State queries
	State() player.State
	CurrentTrack() *playlist.Track
	CurrentIndex() int
	NeedsFreshStream() bool
	Player() player.Interface // direct engine access for progress rendering

	// Mode control
	PlayMode() playlist.PlayMode
	SetPlayMode(mode playlist.PlayMode)
	CycleMode() playlist.PlayMode

	// Events and lifecycle
	Subscribe() *Subscription
	Run(ctx context.Context) error
	Close() error
}

// Cache is the stream cache as seen by the sequencer.
type Cache interface {
	OpenReader(id string) (io.ReadCloser, bool)
	Store(id string, r io.Reader) (string, error)
}

// Fetcher downloads remote tracks by content identifier.
type Fetcher interface {
	FetchTrack(ctx context.Context, id string) (io.ReadCloser, error)
}

// Streamer is implemented by fetchers that can also serve a track for
// immediate playback without a complete download. It is used when there is
// no cache to download into.
type Streamer interface {
	StreamTrack(ctx context.Context, id string) (io.ReadCloser, error)
}

// PlaylistStore persists edits to the active playlist.
type PlaylistStore interface {
	SavePlaylist(ctx context.Context, pl *playlist.Playlist) error
}

// DurationStore persists measured track durations.
type DurationStore interface {
	SetTrackDuration(playlistID, trackID string, d time.Duration) error
}
