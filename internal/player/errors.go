package player

import "errors"

var (
	// ErrSourceNotFound is returned when a local file is missing.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceUnavailable is returned by Resume when the paused source was discarded.
	ErrSourceUnavailable = errors.New("source unavailable for resume")
	// ErrDecode wraps malformed audio data, at open time or during playback.
	ErrDecode = errors.New("decode failure")
	// ErrIllegalState is returned for transitions the state machine forbids.
	ErrIllegalState = errors.New("illegal state transition")
	// ErrStreamTooLarge is returned when a remote stream exceeds the buffering limit.
	ErrStreamTooLarge = errors.New("stream too large to buffer")
	// ErrUnsupportedFormat is returned when no codec recognizes the source.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
