// internal/player/state.go
package player

// State represents the engine state machine.
//
// The state machine has three states with the following valid transitions:
//
//	┌──────────┐      play       ┌──────────┐
//	│   Idle   │ ───────────────▶│  Playing │◀─┐ play (replay from start)
//	└──────────┘                 └──────────┘──┘
//	     ▲  ▲                         │ │
//	     │  │ stop / end of track     │ │
//	     │  └─────────────────────────┘ │ pause
//	     │                              ▼
//	     │        stop             ┌──────────┐
//	     └─────────────────────────│  Paused  │
//	                               └──────────┘
//	                                    │ resume (reopen + skip to offset)
//	                                    ▼
//	                                 Playing
//
// Valid transitions:
//   - Idle    → Playing (via PlayLocal / PlayStream)
//   - Playing → Paused  (via Pause)
//   - Playing → Idle    (via Stop, natural end or decode failure)
//   - Paused  → Playing (via Resume, or a new PlayLocal / PlayStream)
//   - Paused  → Idle    (via Stop, or Resume on a vanished source)
//
// Invalid/No-op transitions (handled gracefully):
//   - Idle    → Paused  (ignored)
//   - Idle    → Idle    (ignored)
//   - Paused  → Paused  (ignored)
//   - Playing → Playing via Resume (ignored)
//   - Idle    → Playing via Resume (ErrIllegalState)
type State int

const (
	Idle State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
