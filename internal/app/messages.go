package app

import (
	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
)

// ProgressMsg carries an engine progress update.
type ProgressMsg player.Progress

// EngineStateMsg is sent when the engine changes state.
type EngineStateMsg player.StateChange

// ServiceTrackChangedMsg is sent when the current track changes.
type ServiceTrackChangedMsg playback.TrackChange

// ServicePlaylistChangedMsg is sent when the playlist is replaced.
type ServicePlaylistChangedMsg playback.PlaylistChange

// ServiceModeChangedMsg is sent when the play mode changes.
type ServiceModeChangedMsg playback.ModeChange

// ServiceDurationChangedMsg is sent when a track duration has been measured.
type ServiceDurationChangedMsg playback.DurationChange

// ServiceErrorMsg is sent when an error occurs in the playback service.
type ServiceErrorMsg playback.ErrorEvent

// ServiceClosedMsg is sent when the playback service is closed.
type ServiceClosedMsg struct{}

// ActionDoneMsg reports the outcome of a control command run off the UI loop.
// Notice, when set, is shown on success.
type ActionDoneMsg struct {
	Op     errmsg.Op
	Err    error
	Notice string
}
