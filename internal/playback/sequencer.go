// Package playback sequences tracks of a playlist through the player.
//
// The Sequencer owns the play position and mode, resolves each track to a
// byte source (local file, cached download or network fetch) and advances
// when the engine reports that a track finished.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
)

var (
	// ErrNoTrack is returned when playing an empty playlist.
	ErrNoTrack = errors.New("no track to play")
	// ErrNoFetcher is returned when a remote track is neither cached nor fetchable.
	ErrNoFetcher = errors.New("no fetcher configured for remote tracks")
	// ErrIndexOutOfRange is returned when editing a track that doesn't exist.
	ErrIndexOutOfRange = errors.New("track index out of range")
)

// Verify Sequencer implements Service at compile time.
var _ Service = (*Sequencer)(nil)

// Sequencer drives the player through a playlist.
type Sequencer struct {
	mu sync.Mutex

	player    player.Interface
	engineSub *player.Subscription
	queue     *playlist.PlayingQueue
	cache     Cache
	fetcher   Fetcher
	store     DurationStore
	playlists PlaylistStore
	fs        afero.Fs
	codecs    []player.Codec
	log       logrus.FieldLogger

	stale     bool
	lastTrack *playlist.Track
	lastIndex int

	scanCancel context.CancelFunc
	scans      sync.WaitGroup

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithCache resolves remote tracks through c before the network.
func WithCache(c Cache) Option {
	return func(s *Sequencer) { s.cache = c }
}

// WithFetcher sets how remote tracks are downloaded.
func WithFetcher(f Fetcher) Option {
	return func(s *Sequencer) { s.fetcher = f }
}

// WithStore persists measured durations.
func WithStore(d DurationStore) Option {
	return func(s *Sequencer) { s.store = d }
}

// WithPlaylistStore saves the active playlist after every edit.
func WithPlaylistStore(p PlaylistStore) Option {
	return func(s *Sequencer) { s.playlists = p }
}

// WithFs sets the filesystem local tracks are checked and read on.
func WithFs(fsys afero.Fs) Option {
	return func(s *Sequencer) { s.fs = fsys }
}

// WithCodecs sets the codecs used to measure local durations.
func WithCodecs(codecs ...player.Codec) Option {
	return func(s *Sequencer) { s.codecs = codecs }
}

// WithRand sets the random source used by shuffle.
func WithRand(r *rand.Rand) Option {
	return func(s *Sequencer) { s.queue = playlist.NewQueue(nil, r) }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sequencer) { s.log = l }
}

// New creates a sequencer over p with an empty playlist.
func New(p player.Interface, opts ...Option) *Sequencer {
	s := &Sequencer{
		player:    p,
		queue:     playlist.NewQueue(nil, nil),
		fs:        afero.NewOsFs(),
		codecs:    player.DefaultCodecs(),
		log:       logrus.StandardLogger(),
		lastIndex: -1,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "playback")
	s.engineSub = p.Subscribe()
	return s
}

// Player returns the engine.
func (s *Sequencer) Player() player.Interface {
	return s.player
}

// State returns the engine state.
func (s *Sequencer) State() player.State {
	return s.player.State()
}

// Playlist returns the active playlist. Track data must be read through
// Tracks, which is safe against concurrent duration updates.
func (s *Sequencer) Playlist() *playlist.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Playlist()
}

// Tracks returns a copy of the active playlist's tracks.
func (s *Sequencer) Tracks() []playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

// CurrentTrack returns the selected track, or nil if none.
func (s *Sequencer) CurrentTrack() *playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

// CurrentIndex returns the selected index, -1 if none.
func (s *Sequencer) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

// NeedsFreshStream reports whether the selected remote track must be fetched
// again rather than resumed.
func (s *Sequencer) NeedsFreshStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Playlist().IsRemote() && s.stale
}

// PlayMode returns the play mode.
func (s *Sequencer) PlayMode() playlist.PlayMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Mode()
}

// SetPlayMode changes the play mode without touching playback.
func (s *Sequencer) SetPlayMode(mode playlist.PlayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Mode() == mode {
		return
	}
	s.queue.SetMode(mode)
	s.emitMode(ModeChange{Mode: mode})
}

// CycleMode switches to the next play mode and returns it.
func (s *Sequencer) CycleMode() playlist.PlayMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := s.queue.Mode().Next()
	s.queue.SetMode(mode)
	s.emitMode(ModeChange{Mode: mode})
	return mode
}

// SetPlaylist replaces the active playlist and selects index. The engine is
// stopped and all per-playlist state is reset, so a resume offset or buffer
// never carries over between playlists.
func (s *Sequencer) SetPlaylist(pl *playlist.Playlist, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.Stop()
	s.stale = false
	s.lastTrack = nil
	s.lastIndex = -1
	s.queue.Replace(pl, index)
	s.emitPlaylist(PlaylistChange{Playlist: s.queue.Playlist(), Index: s.queue.CurrentIndex()})
	s.log.WithFields(logrus.Fields{
		"playlist": s.queue.Playlist().Name,
		"tracks":   s.queue.Len(),
	}).Info("playlist selected")

	s.startDurationScanLocked()
}

// Play starts the selected track from the beginning, selecting the first
// track when none is.
func (s *Sequencer) Play(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playLocked(ctx)
}

// Toggle pauses when playing, resumes a paused track unless its stream is
// stale and otherwise plays the selected track.
func (s *Sequencer) Toggle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.player.State()
	switch {
	case st.CanPause():
		s.player.Pause()
		return nil
	case st.CanResume() && !s.stale:
		if err := s.player.Resume(); err != nil {
			s.reportLocked("resume", err)
			return err
		}
		return nil
	}
	return s.playLocked(ctx)
}

// Pause pauses the engine.
func (s *Sequencer) Pause() {
	s.player.Pause()
}

// Stop stops the engine. The selection is kept.
func (s *Sequencer) Stop() {
	s.player.Stop()
}

// Next selects the following track per the play mode. Playback restarts on
// the new track if the engine was playing or paused.
func (s *Sequencer) Next(ctx context.Context) error {
	return s.step(ctx, (*playlist.PlayingQueue).Next)
}

// Previous selects the preceding track per the play mode. Playback restarts
// on the new track if the engine was playing or paused.
func (s *Sequencer) Previous(ctx context.Context) error {
	return s.step(ctx, (*playlist.PlayingQueue).Previous)
}

// JumpTo selects index. Playback restarts on the new track if the engine was
// playing or paused.
func (s *Sequencer) JumpTo(ctx context.Context, index int) error {
	return s.step(ctx, func(q *playlist.PlayingQueue) *playlist.Track {
		return q.JumpTo(index)
	})
}

func (s *Sequencer) step(ctx context.Context, move func(*playlist.PlayingQueue) *playlist.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.IsEmpty() {
		return nil
	}
	wasActive := s.player.State().IsActive()
	s.player.Stop()

	if move(s.queue) == nil {
		return nil
	}
	if s.queue.Playlist().IsRemote() {
		s.stale = true
	}
	if !wasActive {
		return nil
	}
	return s.playLocked(ctx)
}

// RemoveTrack deletes the track at index from the active playlist and saves
// it. Removing the selected track stops the engine and selects the track
// that takes its place.
func (s *Sequencer) RemoveTrack(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.queue.Len() {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if index == s.queue.CurrentIndex() {
		s.player.Stop()
		if s.queue.Playlist().IsRemote() {
			s.stale = true
		}
	}
	s.queue.Remove(index)
	return s.editedLocked(ctx)
}

// MoveTrack moves the track at from to position to and saves the playlist.
// Playback is not interrupted.
func (s *Sequencer) MoveTrack(ctx context.Context, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.queue.Move(from, to) {
		return fmt.Errorf("%w: %d -> %d", ErrIndexOutOfRange, from, to)
	}
	return s.editedLocked(ctx)
}

// editedLocked publishes and persists a change to the active playlist.
func (s *Sequencer) editedLocked(ctx context.Context) error {
	pl := s.queue.Playlist()
	s.lastIndex = -1
	if s.lastTrack != nil {
		s.lastIndex = pl.IndexOf(s.lastTrack.ID)
		if s.lastIndex < 0 {
			s.lastTrack = nil
		}
	}
	s.emitPlaylist(PlaylistChange{Playlist: pl, Index: s.queue.CurrentIndex(), Edited: true})

	if s.playlists == nil || pl.ID == "" {
		return nil
	}
	if err := s.playlists.SavePlaylist(ctx, pl); err != nil {
		s.reportLocked("save", err)
		return err
	}
	return nil
}

// playLocked resolves the current track and hands it to the engine.
func (s *Sequencer) playLocked(ctx context.Context) error {
	tr := s.queue.Current()
	if tr == nil {
		tr = s.queue.JumpTo(0)
	}
	if tr == nil {
		return ErrNoTrack
	}

	log := s.log.WithField("track", tr.ID)
	var err error
	if tr.IsRemote() {
		err = s.playRemote(ctx, tr)
	} else {
		err = s.playLocal(tr)
	}
	if err != nil {
		s.reportLocked("play", err)
		return err
	}
	s.stale = false

	index := s.queue.CurrentIndex()
	if s.lastTrack == nil || s.lastTrack.ID != tr.ID || s.lastIndex != index {
		s.emitTrack(TrackChange{
			Previous:      s.lastTrack,
			Current:       tr,
			PreviousIndex: s.lastIndex,
			Index:         index,
		})
	}
	s.lastTrack = tr
	s.lastIndex = index
	log.WithField("title", tr.DisplayTitle()).Debug("track started")
	return nil
}

func (s *Sequencer) playLocal(tr *playlist.Track) error {
	if _, err := s.fs.Stat(tr.ID); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", player.ErrSourceNotFound, tr.ID)
		}
		return fmt.Errorf("stat %s: %w", tr.ID, err)
	}
	return s.player.PlayLocal(tr.ID)
}

// playRemote plays from the cache, downloading into it on a miss. Without a
// cache the track is streamed to the engine directly.
func (s *Sequencer) playRemote(ctx context.Context, tr *playlist.Track) error {
	if s.cache != nil {
		if rc, ok := s.cache.OpenReader(tr.ID); ok {
			defer rc.Close()
			s.log.WithField("track", tr.ID).Debug("playing from cache")
			return s.player.PlayStream(rc)
		}
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}

	if s.cache == nil {
		return s.streamRemote(ctx, tr)
	}

	body, err := s.fetcher.FetchTrack(ctx, tr.ID)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", tr.ID, err)
	}
	defer body.Close()

	if _, err := s.cache.Store(tr.ID, body); err != nil {
		return err
	}
	rc, ok := s.cache.OpenReader(tr.ID)
	if !ok {
		return fmt.Errorf("cached %s disappeared before playback", tr.ID)
	}
	defer rc.Close()
	return s.player.PlayStream(rc)
}

// streamRemote hands a remote track to the engine without caching it,
// through the fetcher's streaming endpoint when it has one.
func (s *Sequencer) streamRemote(ctx context.Context, tr *playlist.Track) error {
	open := s.fetcher.FetchTrack
	if st, ok := s.fetcher.(Streamer); ok {
		open = st.StreamTrack
	}
	body, err := open(ctx, tr.ID)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", tr.ID, err)
	}
	defer body.Close()
	return s.player.PlayStream(body)
}

// Run advances through the playlist as tracks finish until ctx is done or
// the sequencer is closed.
func (s *Sequencer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-s.engineSub.Done:
			return nil
		case f := <-s.engineSub.Finished:
			s.handleFinished(ctx, f)
		}
	}
}

func (s *Sequencer) handleFinished(ctx context.Context, f player.Finished) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer session was started before this event was handled.
	if s.player.State() != player.Idle {
		return
	}
	if f.Err != nil {
		s.reportLocked("play", f.Err)
		return
	}
	if s.queue.IsEmpty() {
		return
	}

	s.queue.Next()
	if s.queue.Playlist().IsRemote() && s.queue.Mode() != playlist.RepeatOne {
		s.stale = true
	}
	_ = s.playLocked(ctx) //nolint:errcheck // reported through the Error channel
}

func (s *Sequencer) reportLocked(op string, err error) {
	id := ""
	if tr := s.queue.Current(); tr != nil {
		id = tr.ID
	}
	s.log.WithError(err).WithFields(logrus.Fields{"op": op, "track": id}).Warn("playback error")
	s.emitError(ErrorEvent{Operation: op, TrackID: id, Err: err})
}

// Subscribe creates a new event subscription.
func (s *Sequencer) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback, cancels duration probing and closes subscriptions.
func (s *Sequencer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	if s.scanCancel != nil {
		s.scanCancel()
	}
	s.mu.Unlock()

	s.scans.Wait()
	s.player.Stop()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

func (s *Sequencer) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *Sequencer) emitPlaylist(e PlaylistChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPlaylist(e)
	}
}

func (s *Sequencer) emitMode(e ModeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *Sequencer) emitDuration(e DurationChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendDuration(e)
	}
}

func (s *Sequencer) emitError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
