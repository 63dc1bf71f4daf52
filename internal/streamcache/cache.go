// Package streamcache turns one-shot network streams into replayable local
// files keyed by content identifier.
//
// Entries are written to a temporary file in the cache directory and renamed
// into place once complete, so a lookup never observes a partial download.
package streamcache

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/tempo/internal/metrics"
)

const (
	bufferSize  = 32 * 1024
	entryPrefix = "music_"
	entrySuffix = ".mp3"
	tempPrefix  = "temp_"
	tempSuffix  = ".part"
	maxIDLength = 128
)

var (
	// ErrWrite is wrapped by every Store failure.
	ErrWrite = errors.New("cache write failed")
	// ErrInvalidID is returned for identifiers that cannot name a cache file.
	ErrInvalidID = errors.New("invalid content id")
)

// Cache is a content-addressed on-disk cache of downloaded tracks.
type Cache struct {
	dir     string
	fs      afero.Fs
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	entries map[string]string
	storeMu map[string]*sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithFs sets the filesystem backing the cache (defaults to the OS).
func WithFs(fs afero.Fs) Option {
	return func(c *Cache) { c.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Cache) { c.log = l }
}

// WithMetrics records hits, misses and writes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New creates a cache rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Cache, error) {
	c := &Cache{
		dir:     dir,
		fs:      afero.NewOsFs(),
		log:     logrus.StandardLogger(),
		entries: make(map[string]string),
		storeMu: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "streamcache")

	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// validID reports whether id can safely be used in a file name.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return false
	}
	return true
}

func (c *Cache) entryPath(id string) string {
	return filepath.Join(c.dir, entryPrefix+id+entrySuffix)
}

// complete reports whether path is a regular non-empty file.
func (c *Cache) complete(path string) bool {
	info, err := c.fs.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Lookup returns the path of the complete entry for id, if any.
// Absence is a normal outcome and is indistinguishable from "never stored".
func (c *Cache) Lookup(id string) mo.Option[string] {
	if !validID(id) {
		c.metrics.CacheMiss()
		return mo.None[string]()
	}

	c.mu.RLock()
	path, indexed := c.entries[id]
	c.mu.RUnlock()

	if !indexed {
		path = c.entryPath(id)
	}
	if !c.complete(path) {
		if indexed {
			c.mu.Lock()
			delete(c.entries, id)
			c.mu.Unlock()
		}
		c.metrics.CacheMiss()
		return mo.None[string]()
	}

	if !indexed {
		c.mu.Lock()
		c.entries[id] = path
		c.mu.Unlock()
	}
	c.metrics.CacheHit()
	return mo.Some(path)
}

// OpenReader returns a fresh buffered reader positioned at the start of the
// entry for id. The caller must close it.
func (c *Cache) OpenReader(id string) (io.ReadCloser, bool) {
	path, ok := c.Lookup(id).Get()
	if !ok {
		return nil, false
	}
	f, err := c.fs.Open(path)
	if err != nil {
		c.log.WithError(err).WithField("id", id).Warn("open cached entry")
		return nil, false
	}
	return &bufferedFile{Reader: bufio.NewReaderSize(f, bufferSize), file: f}, true
}

type bufferedFile struct {
	*bufio.Reader
	file afero.File
}

func (b *bufferedFile) Close() error {
	return b.file.Close()
}

// lockID serializes Store calls for the same id.
func (c *Cache) lockID(id string) func() {
	c.mu.Lock()
	m, ok := c.storeMu[id]
	if !ok {
		m = &sync.Mutex{}
		c.storeMu[id] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Store drains r into the cache under id and returns the entry path.
// The entry only becomes visible once every byte is on disk and at least one
// byte was written; on failure the previous entry (if any) is left untouched.
func (c *Cache) Store(id string, r io.Reader) (string, error) {
	if !validID(id) {
		c.metrics.CacheStoreFailed()
		return "", fmt.Errorf("%w: %w: %q", ErrWrite, ErrInvalidID, id)
	}

	unlock := c.lockID(id)
	defer unlock()

	log := c.log.WithField("id", id)

	tmp, err := afero.TempFile(c.fs, c.dir, tempPrefix+id+"-*"+tempSuffix)
	if err != nil {
		return "", c.storeFailed(log, fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	published := false
	defer func() {
		if !published {
			_ = c.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		}
	}()

	n, err := writeAll(tmp, r)
	if err != nil {
		return "", c.storeFailed(log, err)
	}
	if n == 0 {
		return "", c.storeFailed(log, errors.New("empty stream"))
	}

	dst := c.entryPath(id)
	if err := c.fs.Rename(tmpPath, dst); err != nil {
		return "", c.storeFailed(log, fmt.Errorf("publish entry: %w", err))
	}
	published = true

	c.mu.Lock()
	c.entries[id] = dst
	c.mu.Unlock()

	c.metrics.CacheStored()
	log.WithField("bytes", n).Debug("cached stream")
	return dst, nil
}

// writeAll copies r into f through a fixed-size buffer, then syncs and closes f.
func writeAll(f afero.File, r io.Reader) (int64, error) {
	w := bufio.NewWriterSize(f, bufferSize)
	n, err := io.Copy(w, bufio.NewReaderSize(r, bufferSize))
	if err != nil {
		f.Close()
		return n, fmt.Errorf("copy stream: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return n, fmt.Errorf("flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return n, fmt.Errorf("sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close: %w", err)
	}
	return n, nil
}

func (c *Cache) storeFailed(log logrus.FieldLogger, err error) error {
	c.metrics.CacheStoreFailed()
	log.WithError(err).Warn("discarded cache write")
	return fmt.Errorf("%w: %w", ErrWrite, err)
}

// Clear removes every entry and leftover temp file from memory and disk.
// Callers must stop playback first.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]string)
	c.mu.Unlock()

	files, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("list cache dir: %w", err)
	}

	var errs []error
	for _, fi := range files {
		if !ownedFile(fi) {
			continue
		}
		if err := c.fs.Remove(filepath.Join(c.dir, fi.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	c.log.WithField("files", len(files)).Info("cleared stream cache")
	return errors.Join(errs...)
}

func ownedFile(fi os.FileInfo) bool {
	if !fi.Mode().IsRegular() {
		return false
	}
	name := fi.Name()
	return strings.HasPrefix(name, entryPrefix) || strings.HasPrefix(name, tempPrefix)
}

// Stats returns the number of complete entries on disk and their total size.
func (c *Cache) Stats() (entries int, size int64, err error) {
	files, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return 0, 0, err
	}
	for _, fi := range files {
		name := fi.Name()
		if !fi.Mode().IsRegular() || fi.Size() == 0 ||
			!strings.HasPrefix(name, entryPrefix) || !strings.HasSuffix(name, entrySuffix) {
			continue
		}
		entries++
		size += fi.Size()
	}
	return entries, size, nil
}
