// Package notify announces new tracks with desktop notifications.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/playlist"
)

// Urgency is the freedesktop notification urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// trackTimeout is how long a track notification stays up, in ms.
const trackTimeout = 5000

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// Watcher shows a notification each time playback starts a new track.
// Consecutive notifications replace each other.
type Watcher struct {
	svc    playback.Service
	sub    *playback.Subscription
	n      Notifier
	fs     afero.Fs
	log    logrus.FieldLogger
	lastID uint32
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFs sets the filesystem album art is looked up on.
func WithFs(fsys afero.Fs) Option {
	return func(w *Watcher) { w.fs = fsys }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) { w.log = l }
}

// NewWatcher creates a watcher announcing svc's tracks through n.
func NewWatcher(svc playback.Service, n Notifier, opts ...Option) *Watcher {
	w := &Watcher{
		svc: svc,
		n:   n,
		fs:  afero.NewOsFs(),
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithField("component", "notify")
	w.sub = svc.Subscribe()
	return w
}

// Run announces track changes until ctx is cancelled or the service closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.sub.Done:
			return nil
		case e := <-w.sub.TrackChanged:
			w.announce(e.Current)
		}
	}
}

func (w *Watcher) announce(t *playlist.Track) {
	if t == nil {
		return
	}
	n := TrackNotification(w.fs, w.svc.Playlist(), t)
	n.ReplacesID = w.lastID
	id, err := w.n.Notify(n)
	if err != nil {
		w.log.WithError(err).Debug("send notification")
		return
	}
	w.lastID = id
}

// TrackNotification builds the "now playing" notification for t.
func TrackNotification(fsys afero.Fs, pl *playlist.Playlist, t *playlist.Track) Notification {
	body := t.Artist
	if pl != nil && pl.Name != "" {
		if body != "" {
			body += " · "
		}
		body += pl.Name
	}
	return Notification{
		Title:   t.DisplayTitle(),
		Body:    body,
		Icon:    playlist.CoverFor(fsys, pl, t),
		Timeout: trackTimeout,
		Urgency: UrgencyLow,
	}
}
