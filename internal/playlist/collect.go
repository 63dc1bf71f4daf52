package playlist

import (
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/llehouerou/tempo/internal/player"
)

// FromPath creates a local track from a file path by reading its tags.
func FromPath(fsys afero.Fs, path string) Track {
	t := Track{ID: path, Kind: Local}
	info, err := player.ReadTrackInfo(fsys, path)
	if err != nil {
		return t
	}
	t.Title = info.Title
	t.Artist = info.Artist
	return t
}

// CollectFromPaths builds local tracks from files and directories.
// Directories are walked recursively; only music files are kept. Tracks from
// each argument are sorted by path, and arguments keep their order.
// Unreadable entries below a directory are skipped.
func CollectFromPaths(fsys afero.Fs, paths []string) ([]Track, error) {
	var tracks []Track
	for _, root := range paths {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", root, err)
		}
		if !info.IsDir() {
			if player.IsMusicFile(root) {
				tracks = append(tracks, FromPath(fsys, root))
			}
			continue
		}

		var found []Track
		err = afero.Walk(fsys, root, func(path string, fi fs.FileInfo, walkErr error) error {
			if walkErr != nil {
				return nil //nolint:nilerr // skip unreadable entries, keep walking
			}
			if fi.IsDir() || !player.IsMusicFile(path) {
				return nil
			}
			found = append(found, FromPath(fsys, path))
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Slice(found, func(i, j int) bool {
			return found[i].ID < found[j].ID
		})
		tracks = append(tracks, found...)
	}
	return tracks, nil
}

// FormatDuration formats a duration as MM:SS, or --:-- when unknown.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
