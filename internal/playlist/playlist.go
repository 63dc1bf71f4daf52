package playlist

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind tells where a track's bytes come from.
type Kind int

const (
	Local Kind = iota
	Remote
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Local:
		return "Local"
	case Remote:
		return "Remote"
	default:
		return "Unknown"
	}
}

// Track represents a single track in a playlist.
type Track struct {
	ID       string // file path for local tracks, content hash for remote ones
	Title    string
	Artist   string
	Duration time.Duration // zero until measured
	Kind     Kind
}

// IsRemote returns true if the track is fetched from the music server.
func (t Track) IsRemote() bool {
	return t.Kind == Remote
}

// DisplayTitle returns the title, falling back to the file name.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	base := filepath.Base(t.ID)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Playlist holds an ordered collection of tracks.
type Playlist struct {
	ID        string
	Name      string
	Owner     string
	CreatedAt time.Time
	Kind      Kind
	CoverPath string

	tracks []Track
}

// New creates a new empty playlist.
func New(id, name, owner string, kind Kind) *Playlist {
	return &Playlist{
		ID:        id,
		Name:      name,
		Owner:     owner,
		CreatedAt: time.Now(),
		Kind:      kind,
		tracks:    make([]Track, 0),
	}
}

// IsRemote returns true for playlists backed by the music server.
func (p *Playlist) IsRemote() bool {
	return p.Kind == Remote
}

// Add appends tracks to the playlist.
// Tracks whose ID is already present are skipped.
func (p *Playlist) Add(tracks ...Track) {
	for _, t := range tracks {
		if p.IndexOf(t.ID) >= 0 {
			continue
		}
		p.tracks = append(p.tracks, t)
	}
}

// Remove removes the track at the given index.
// Returns false if index is out of bounds.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.tracks) {
		return false
	}
	p.tracks = append(p.tracks[:index], p.tracks[index+1:]...)
	return true
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at the given index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	t := p.tracks[index]
	return &t
}

// IndexOf returns the index of the track with the given ID, or -1.
func (p *Playlist) IndexOf(id string) int {
	for i := range p.tracks {
		if p.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// SetDuration records a measured duration for the track with the given ID.
// A duration is only set once; returns false if the track is unknown,
// already has a duration, or d is not positive.
func (p *Playlist) SetDuration(id string, d time.Duration) bool {
	if d <= 0 {
		return false
	}
	i := p.IndexOf(id)
	if i < 0 || p.tracks[i].Duration > 0 {
		return false
	}
	p.tracks[i].Duration = d
	return true
}

// Move moves the track at fromIndex to toIndex.
// Returns false if either index is out of bounds.
func (p *Playlist) Move(fromIndex, toIndex int) bool {
	if fromIndex < 0 || fromIndex >= len(p.tracks) {
		return false
	}
	if toIndex < 0 || toIndex >= len(p.tracks) {
		return false
	}
	if fromIndex == toIndex {
		return true
	}

	track := p.tracks[fromIndex]
	p.tracks = append(p.tracks[:fromIndex], p.tracks[fromIndex+1:]...)
	p.tracks = append(p.tracks[:toIndex], append([]Track{track}, p.tracks[toIndex:]...)...)
	return true
}
