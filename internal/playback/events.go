package playback

import (
	"time"

	"github.com/llehouerou/tempo/internal/playlist"
)

// TrackChange is emitted when playback starts on a different track.
//
// Emitted by Play, by Next/Previous when they restart playback and by
// automatic advancement at the end of a track. Navigation while stopped
// does not emit; the UI reads CurrentTrack instead.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// PlaylistChange is emitted when the active playlist is replaced or edited.
type PlaylistChange struct {
	Playlist *playlist.Playlist
	Index    int
	Edited   bool // tracks were removed or reordered in place
}

// ModeChange is emitted when the play mode changes.
type ModeChange struct {
	Mode playlist.PlayMode
}

// DurationChange is emitted when a track's duration has been measured.
type DurationChange struct {
	TrackID  string
	Duration time.Duration
}

// ErrorEvent is emitted when an error occurs during playback.
type ErrorEvent struct {
	Operation string // e.g., "play", "advance"
	TrackID   string
	Err       error
}
