package musicserver

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/llehouerou/tempo/internal/playlist"
)

// Sheet is a remote playlist as published by the server.
type Sheet struct {
	ID          int               `json:"id"`
	UUID        string            `json:"uuid"`
	Name        string            `json:"name"`
	Creator     string            `json:"creator"`
	CreatorID   string            `json:"creatorId"`
	DateCreated string            `json:"dateCreated"`
	Picture     string            `json:"picture"`
	MusicItems  map[string]string `json:"musicItems"` // MD5 -> file name
}

var dateLayouts = []string{
	time.DateTime,
	time.RFC3339,
	time.DateOnly,
}

// CreatedAt parses DateCreated, returning the zero time when it can't.
func (s Sheet) CreatedAt() time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s.DateCreated, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Playlist converts the sheet into a remote playlist with tracks ordered by
// file name.
func (s Sheet) Playlist() *playlist.Playlist {
	id := s.UUID
	if id == "" {
		id = strconv.Itoa(s.ID)
	}
	pl := playlist.New("remote:"+id, s.Name, s.Creator, playlist.Remote)
	if t := s.CreatedAt(); !t.IsZero() {
		pl.CreatedAt = t
	}
	pl.CoverPath = s.Picture

	tracks := lo.MapToSlice(s.MusicItems, func(md5, name string) playlist.Track {
		title, artist := splitFileName(name)
		return playlist.Track{ID: md5, Title: title, Artist: artist, Kind: playlist.Remote}
	})
	sort.Slice(tracks, func(i, j int) bool {
		ni, nj := s.MusicItems[tracks[i].ID], s.MusicItems[tracks[j].ID]
		if ni != nj {
			return ni < nj
		}
		return tracks[i].ID < tracks[j].ID
	})
	pl.Add(tracks...)
	return pl
}

// splitFileName turns "Artist - Title.mp3" into its parts. Names without
// a separator are all title.
func splitFileName(name string) (title, artist string) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if a, t, ok := strings.Cut(base, " - "); ok {
		return strings.TrimSpace(t), strings.TrimSpace(a)
	}
	return base, ""
}
