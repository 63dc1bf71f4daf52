package player

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// TrackInfo is tag metadata read from an audio file.
type TrackInfo struct {
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Year        int
	Track       int
	Genre       string
}

// ReadTrackInfo reads tags from the file at path. A file without tags
// yields info titled after the file name.
func ReadTrackInfo(fs afero.Fs, path string) (*TrackInfo, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fallback := &TrackInfo{Path: path, Title: titleFromPath(path)}

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return fallback, nil
	}
	if err != nil {
		return nil, err
	}

	info := &TrackInfo{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Year:        m.Year(),
		Genre:       m.Genre(),
	}
	info.Track, _ = m.Track()
	if info.Title == "" {
		info.Title = fallback.Title
	}
	if info.AlbumArtist == "" {
		info.AlbumArtist = info.Artist
	}
	return info, nil
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadDuration decodes the header of the file at path to compute its
// playing time.
func ReadDuration(fs afero.Fs, codecs []Codec, path string) (time.Duration, error) {
	sess, err := openSession(&fileSource{fs: fs, path: path}, codecs, 0)
	if err != nil {
		return 0, err
	}
	defer func() {
		sess.stream.Close()
		sess.file.Close()
	}()

	d := sess.duration()
	if d <= 0 {
		return 0, fmt.Errorf("%w: unknown length", ErrDecode)
	}
	return d, nil
}

// readLimit bounds concurrent decoders in ReadDurations.
const readLimit = 4

// ReadDurations reads every duration concurrently and returns the durations
// that could be computed, keyed by path. Failures are skipped.
func ReadDurations(ctx context.Context, fs afero.Fs, codecs []Codec, paths []string) map[string]time.Duration {
	results := make([]time.Duration, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readLimit)
	for i, path := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d, err := ReadDuration(fs, codecs, path); err == nil {
				results[i] = d
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // only cancellation is reported

	out := make(map[string]time.Duration, len(paths))
	for i, d := range results {
		if d > 0 {
			out[paths[i]] = d
		}
	}
	return out
}
