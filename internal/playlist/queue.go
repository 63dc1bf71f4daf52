package playlist

import "math/rand/v2"

// PlayMode decides which track follows the current one.
type PlayMode int

const (
	Sequential PlayMode = iota
	Shuffle
	RepeatOne
)

// String returns the mode name.
func (m PlayMode) String() string {
	switch m {
	case Sequential:
		return "Sequential"
	case Shuffle:
		return "Shuffle"
	case RepeatOne:
		return "RepeatOne"
	default:
		return "Unknown"
	}
}

// Next returns the mode that follows m when cycling through modes.
func (m PlayMode) Next() PlayMode {
	switch m {
	case Sequential:
		return Shuffle
	case Shuffle:
		return RepeatOne
	default:
		return Sequential
	}
}

// ParsePlayMode converts a config value to a PlayMode.
// Unknown values fall back to Sequential.
func ParsePlayMode(s string) PlayMode {
	switch s {
	case "shuffle", "random":
		return Shuffle
	case "repeat_one", "single_loop":
		return RepeatOne
	default:
		return Sequential
	}
}

// PlayingQueue wraps a Playlist with a play position and mode.
type PlayingQueue struct {
	playlist     *Playlist
	currentIndex int // -1 if nothing selected
	mode         PlayMode
	rng          *rand.Rand
}

// NewQueue creates a new queue over pl. A nil pl gives an empty queue.
// A nil rng uses the global random source.
func NewQueue(pl *Playlist, rng *rand.Rand) *PlayingQueue {
	if pl == nil {
		pl = New("", "", "", Local)
	}
	return &PlayingQueue{
		playlist:     pl,
		currentIndex: -1,
		rng:          rng,
	}
}

// Playlist returns the underlying playlist.
func (q *PlayingQueue) Playlist() *Playlist {
	return q.playlist
}

// Current returns the selected track, or nil if none.
func (q *PlayingQueue) Current() *Track {
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the index of the selected track (-1 if none).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// Mode returns the play mode.
func (q *PlayingQueue) Mode() PlayMode {
	return q.mode
}

// SetMode changes the play mode.
func (q *PlayingQueue) SetMode(m PlayMode) {
	q.mode = m
}

// JumpTo sets the current index to the specified position.
// Returns the track at that position, or nil if invalid.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Next moves to the track following the current one according to the mode
// and returns it. Returns nil on an empty queue.
func (q *PlayingQueue) Next() *Track {
	return q.step(1)
}

// Previous moves to the track preceding the current one according to the
// mode and returns it. Returns nil on an empty queue.
func (q *PlayingQueue) Previous() *Track {
	return q.step(-1)
}

func (q *PlayingQueue) step(dir int) *Track {
	n := q.playlist.Len()
	if n == 0 {
		return nil
	}
	if q.currentIndex < 0 || q.currentIndex >= n {
		q.currentIndex = 0
		return q.Current()
	}

	switch q.mode {
	case RepeatOne:
		// stays on the same index
	case Shuffle:
		q.currentIndex = q.randomOtherIndex(n)
	default:
		q.currentIndex = (q.currentIndex + dir + n) % n
	}
	return q.Current()
}

// randomOtherIndex draws uniformly from [0,n) until the result differs from
// the current index. With a single track the current index is returned.
func (q *PlayingQueue) randomOtherIndex(n int) int {
	if n <= 1 {
		return q.currentIndex
	}
	for {
		i := q.intN(n)
		if i != q.currentIndex {
			return i
		}
	}
}

func (q *PlayingQueue) intN(n int) int {
	if q.rng != nil {
		return q.rng.IntN(n)
	}
	return rand.IntN(n)
}

// Replace swaps the playlist and selects index (clamped to the first track
// when out of range). Returns the selected track, or nil for an empty playlist.
func (q *PlayingQueue) Replace(pl *Playlist, index int) *Track {
	if pl == nil {
		pl = New("", "", "", Local)
	}
	q.playlist = pl
	q.currentIndex = -1
	if pl.Len() == 0 {
		return nil
	}
	if index < 0 || index >= pl.Len() {
		index = 0
	}
	q.currentIndex = index
	return q.Current()
}

// Remove deletes the track at index and keeps the selection on the same
// track. When the selected track itself goes, the one that takes its place
// is selected, or the new last track when it was at the end.
func (q *PlayingQueue) Remove(index int) bool {
	if !q.playlist.Remove(index) {
		return false
	}
	n := q.playlist.Len()
	switch {
	case n == 0:
		q.currentIndex = -1
	case index < q.currentIndex:
		q.currentIndex--
	case q.currentIndex >= n:
		q.currentIndex = n - 1
	}
	return true
}

// Move moves the track at from to to and keeps the selection on the same
// track.
func (q *PlayingQueue) Move(from, to int) bool {
	if !q.playlist.Move(from, to) {
		return false
	}
	cur := q.currentIndex
	switch {
	case cur == from:
		q.currentIndex = to
	case from < cur && to >= cur:
		q.currentIndex--
	case from > cur && to <= cur && cur >= 0:
		q.currentIndex++
	}
	return true
}

// Tracks returns all tracks in the queue.
func (q *PlayingQueue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
