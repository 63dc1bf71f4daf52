package playlist

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// coverNames lists album art file names in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindAlbumArt looks for album art next to a local track.
// Returns an empty string if none is found.
func FindAlbumArt(fsys afero.Fs, trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if ok, _ := afero.Exists(fsys, path); ok {
			return path
		}
	}
	return ""
}

// CoverFor returns the artwork to show for t: the playlist cover for remote
// tracks, album art next to the file for local ones.
func CoverFor(fsys afero.Fs, pl *Playlist, t *Track) string {
	if t == nil {
		return ""
	}
	if t.IsRemote() {
		if pl != nil {
			return pl.CoverPath
		}
		return ""
	}
	if art := FindAlbumArt(fsys, t.ID); art != "" {
		return art
	}
	if pl != nil {
		return pl.CoverPath
	}
	return ""
}
