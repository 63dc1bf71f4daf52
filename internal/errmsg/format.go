// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackResume Op = "resume playback"
	OpPlaybackOther  Op = "control playback"

	// Music server operations
	OpSheetsLoad    Op = "load playlists from server"
	OpTrackFetch    Op = "fetch track"
	OpTrackDownload Op = "download track"

	// Stream cache operations
	OpCacheOpen  Op = "open stream cache"
	OpCacheClear Op = "clear stream cache"
	OpCacheStats Op = "read stream cache"

	// Playlist operations
	OpPlaylistLoad   Op = "load playlist"
	OpPlaylistSave   Op = "save playlist"
	OpPlaylistDelete Op = "delete playlist"
	OpPlaylistCreate Op = "create playlist"
	OpPlaylistEdit   Op = "edit playlist"
	OpFavoriteToggle Op = "update favorites"

	// Session operations
	OpSessionRestore Op = "restore last session"

	// File operations
	OpFileLoad Op = "load file"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// PlaybackOp maps the operation name carried by a playback error event.
func PlaybackOp(name string) Op {
	switch name {
	case "play":
		return OpPlaybackStart
	case "resume":
		return OpPlaybackResume
	case "save":
		return OpPlaylistSave
	default:
		return OpPlaybackOther
	}
}
