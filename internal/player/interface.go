package player

import (
	"io"
	"time"
)

// Interface is the engine contract consumed by the playback sequencer.
type Interface interface {
	PlayLocal(path string) error
	PlayStream(r io.Reader) error
	Pause()
	Resume() error
	Stop()
	State() State
	IsPlaying() bool
	Position() int64
	Length() int64
	Percent() int
	Duration() time.Duration
	Subscribe() *Subscription
}

var _ Interface = (*Player)(nil)
