//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaybackStart,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "server operation",
			op:       OpSheetsLoad,
			err:      errors.New("connection refused"),
			expected: "Failed to load playlists from server: connection refused",
		},
		{
			name:     "cache operation",
			op:       OpCacheClear,
			err:      errors.New("permission denied"),
			expected: "Failed to clear stream cache: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpFileLoad,
			context:  "song.mp3",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpFileLoad,
			context:  "song.mp3",
			err:      errors.New("source not found"),
			expected: "Failed to load file 'song.mp3': source not found",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpFileLoad,
			context:  "",
			err:      errors.New("source not found"),
			expected: "Failed to load file: source not found",
		},
		{
			name:     "track fetch with id context",
			op:       OpTrackFetch,
			context:  "d41d8cd98f00b204e9800998ecf8427e",
			err:      errors.New("not found"),
			expected: "Failed to fetch track 'd41d8cd98f00b204e9800998ecf8427e': not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestPlaybackOp(t *testing.T) {
	tests := []struct {
		name string
		want Op
	}{
		{"play", OpPlaybackStart},
		{"resume", OpPlaybackResume},
		{"save", OpPlaylistSave},
		{"advance", OpPlaybackOther},
		{"", OpPlaybackOther},
	}

	for _, tt := range tests {
		if got := PlaybackOp(tt.name); got != tt.want {
			t.Errorf("PlaybackOp(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpPlaybackStart, OpPlaybackResume, OpPlaybackOther,
		OpSheetsLoad, OpTrackFetch, OpTrackDownload,
		OpCacheOpen, OpCacheClear, OpCacheStats,
		OpPlaylistLoad, OpPlaylistSave, OpPlaylistDelete,
		OpPlaylistCreate, OpPlaylistEdit, OpFavoriteToggle,
		OpSessionRestore,
		OpFileLoad,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
