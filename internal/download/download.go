// Package download saves remote tracks and pictures as regular files.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/tempo/internal/playlist"
)

var (
	// ErrLocalTrack is returned when asked to download a track that is
	// already a local file.
	ErrLocalTrack = errors.New("track is already a local file")
	// ErrNoSource is returned when a track is neither cached nor fetchable.
	ErrNoSource = errors.New("track is not cached and no music server is configured")
)

const (
	partSuffix = ".part"

	// maxParallel bounds concurrent transfers when saving a whole playlist.
	maxParallel = 3
)

// Cache is the stream cache as seen by the downloader.
type Cache interface {
	OpenReader(id string) (io.ReadCloser, bool)
}

// Fetcher downloads remote tracks by content identifier.
type Fetcher interface {
	FetchTrack(ctx context.Context, id string) (io.ReadCloser, error)
}

// Downloader copies remote tracks into a directory, preferring the stream
// cache over the network.
type Downloader struct {
	dir     string
	fs      afero.Fs
	cache   Cache
	fetcher Fetcher
	log     logrus.FieldLogger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithFs sets the filesystem files are written to.
func WithFs(fsys afero.Fs) Option {
	return func(d *Downloader) { d.fs = fsys }
}

// WithCache copies cached tracks instead of fetching them again.
func WithCache(c Cache) Option {
	return func(d *Downloader) { d.cache = c }
}

// WithFetcher sets how uncached tracks are downloaded.
func WithFetcher(f Fetcher) Option {
	return func(d *Downloader) { d.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Downloader) { d.log = l }
}

// New creates a downloader writing into dir.
func New(dir string, opts ...Option) *Downloader {
	d := &Downloader{
		dir: dir,
		fs:  afero.NewOsFs(),
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithField("component", "download")
	return d
}

// Dir returns the download directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// Track saves a remote track as "Artist - Title.mp3" in the download
// directory and returns the file path. A file already there is kept.
func (d *Downloader) Track(ctx context.Context, t playlist.Track) (string, error) {
	if !t.IsRemote() {
		return "", fmt.Errorf("%w: %s", ErrLocalTrack, t.ID)
	}
	dst := filepath.Join(d.dir, FileName(t))
	log := d.log.WithFields(logrus.Fields{"track": t.ID, "path": dst})

	if _, err := d.fs.Stat(dst); err == nil {
		log.Debug("already downloaded")
		return dst, nil
	}

	body, err := d.open(ctx, t.ID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	n, err := Save(d.fs, dst, body)
	if err != nil {
		return "", err
	}
	log.WithField("bytes", n).Info("downloaded track")
	return dst, nil
}

// Playlist saves every remote track of tracks, keeping going past failures.
// It returns how many remote tracks are now in the download directory along
// with the joined errors of the others.
func (d *Downloader) Playlist(ctx context.Context, tracks []playlist.Track) (int, error) {
	remote := lo.Filter(tracks, func(t playlist.Track, _ int) bool { return t.IsRemote() })

	var saved atomic.Int64
	var mu sync.Mutex
	var errs []error
	var g errgroup.Group
	g.SetLimit(maxParallel)
	for _, t := range remote {
		g.Go(func() error {
			if _, err := d.Track(ctx, t); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", t.DisplayTitle(), err))
				mu.Unlock()
				return nil
			}
			saved.Add(1)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // failures are collected in errs

	d.log.WithFields(logrus.Fields{"saved": saved.Load(), "failed": len(errs)}).Info("downloaded playlist")
	return int(saved.Load()), errors.Join(errs...)
}

func (d *Downloader) open(ctx context.Context, id string) (io.ReadCloser, error) {
	if d.cache != nil {
		if rc, ok := d.cache.OpenReader(id); ok {
			return rc, nil
		}
	}
	if d.fetcher == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, id)
	}
	return d.fetcher.FetchTrack(ctx, id)
}

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// FileName returns the file name a remote track is saved under.
func FileName(t playlist.Track) string {
	name := t.DisplayTitle()
	if t.Artist != "" {
		name = t.Artist + " - " + name
	}
	name = strings.TrimSpace(nameReplacer.Replace(name))
	if name == "" || strings.HasPrefix(name, ".") {
		name = "track-" + t.ID
	}
	return name + ".mp3"
}

// Save writes r to dst. The bytes go to a temporary file next to dst which
// is renamed into place once complete, so dst never holds a partial file.
func Save(fsys afero.Fs, dst string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dst)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(dst)+"-*"+partSuffix)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err == nil && n == 0 {
		err = errors.New("empty body")
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fsys.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}

	if err := fsys.Rename(tmpPath, dst); err != nil {
		_ = fsys.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return 0, fmt.Errorf("publish %s: %w", dst, err)
	}
	return n, nil
}
