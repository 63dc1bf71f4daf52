package playback

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/streamcache"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeFetcher serves fixed bodies and counts requests per id.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	calls  map[string]int
	err    error
}

func newFakeFetcher(bodies map[string][]byte) *fakeFetcher {
	return &fakeFetcher{bodies: bodies, calls: make(map[string]int)}
}

func (f *fakeFetcher) FetchTrack(_ context.Context, id string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.bodies[id]
	if !ok {
		return nil, errors.New("404")
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (f *fakeFetcher) Calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func localPlaylist(t *testing.T, fs afero.Fs, paths ...string) *playlist.Playlist {
	t.Helper()
	pl := playlist.New("local", "Local", "me", playlist.Local)
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fs, p, []byte("audio"), 0o644))
		pl.Add(playlist.Track{ID: p, Kind: playlist.Local})
	}
	return pl
}

func remotePlaylist(ids ...string) *playlist.Playlist {
	pl := playlist.New("remote", "Top", "server", playlist.Remote)
	for _, id := range ids {
		pl.Add(playlist.Track{ID: id, Kind: playlist.Remote})
	}
	return pl
}

func newTestSequencer(t *testing.T, opts ...Option) (*Sequencer, *player.Mock) {
	t.Helper()
	p := player.NewMock()
	opts = append([]Option{WithLogger(quietLogger()), WithFs(afero.NewMemMapFs())}, opts...)
	s := New(p, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, p
}

func TestPlay_EmptyPlaylist(t *testing.T) {
	s, p := newTestSequencer(t)

	err := s.Play(context.Background())

	require.ErrorIs(t, err, ErrNoTrack)
	assert.Empty(t, p.LocalCalls())
}

func TestNextPrevious_EmptyPlaylistIsNoOp(t *testing.T) {
	s, p := newTestSequencer(t)
	s.SetPlaylist(playlist.New("", "", "", playlist.Local), 0)
	p.ResetCalls()

	require.NoError(t, s.Next(context.Background()))
	require.NoError(t, s.Previous(context.Background()))

	assert.Empty(t, p.Calls())
	assert.Nil(t, s.CurrentTrack())
}

func TestNext_StopsCurrentBeforeStartingNext(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)
	p.ResetCalls()

	require.NoError(t, s.Play(context.Background()))
	require.NoError(t, s.Next(context.Background()))

	assert.Equal(t, []string{"PlayLocal /a.mp3", "Stop", "PlayLocal /b.mp3"}, p.Calls())
	assert.Equal(t, "/b.mp3", s.CurrentTrack().ID)
	assert.Equal(t, player.Playing, s.State())
}

func TestNext_WhileStoppedOnlySelects(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)

	require.NoError(t, s.Next(context.Background()))

	assert.Empty(t, p.LocalCalls())
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, player.Idle, s.State())
}

func TestPrevious_WrapsSequentially(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3", "/c.mp3"), 0)

	require.NoError(t, s.Previous(context.Background()))

	assert.Equal(t, "/c.mp3", s.CurrentTrack().ID)
}

func TestNext_ShuffleNeverRepeatsCurrent(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newTestSequencer(t, WithFs(fs), WithRand(rand.New(rand.NewPCG(7, 7))))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3", "/c.mp3"), 0)
	s.SetPlayMode(playlist.Shuffle)

	for range 100 {
		prev := s.CurrentIndex()
		require.NoError(t, s.Next(context.Background()))
		require.NotEqual(t, prev, s.CurrentIndex())
	}
}

func TestNext_SingleTrackReplaysInEveryMode(t *testing.T) {
	for _, mode := range []playlist.PlayMode{playlist.Sequential, playlist.Shuffle, playlist.RepeatOne} {
		t.Run(mode.String(), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s, p := newTestSequencer(t, WithFs(fs))
			s.SetPlaylist(localPlaylist(t, fs, "/only.mp3"), 0)
			s.SetPlayMode(mode)

			require.NoError(t, s.Play(context.Background()))
			require.NoError(t, s.Next(context.Background()))

			assert.Equal(t, []string{"/only.mp3", "/only.mp3"}, p.LocalCalls())
		})
	}
}

func TestPlay_MissingLocalFileIsReported(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	pl := localPlaylist(t, fs, "/a.mp3")
	require.NoError(t, fs.Remove("/a.mp3"))
	s.SetPlaylist(pl, 0)
	sub := s.Subscribe()

	err := s.Play(context.Background())

	require.ErrorIs(t, err, player.ErrSourceNotFound)
	assert.Empty(t, p.LocalCalls())
	select {
	case e := <-sub.Error:
		assert.Equal(t, "play", e.Operation)
		assert.Equal(t, "/a.mp3", e.TrackID)
	default:
		t.Fatal("no error event")
	}
}

func TestToggle(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3"), 0)
	p.ResetCalls()
	ctx := context.Background()

	require.NoError(t, s.Toggle(ctx))
	assert.Equal(t, player.Playing, s.State())
	require.NoError(t, s.Toggle(ctx))
	assert.Equal(t, player.Paused, s.State())
	require.NoError(t, s.Toggle(ctx))
	assert.Equal(t, player.Playing, s.State())

	assert.Equal(t, []string{"PlayLocal /a.mp3", "Pause", "Resume"}, p.Calls())
}

func TestToggle_ResumeFailureIsReported(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3"), 0)
	require.NoError(t, s.Play(context.Background()))
	s.Pause()
	p.SetResumeError(player.ErrSourceUnavailable)

	err := s.Toggle(context.Background())

	require.ErrorIs(t, err, player.ErrSourceUnavailable)
	assert.Equal(t, player.Idle, s.State())
}

func TestRemote_SecondPlayIsServedFromCache(t *testing.T) {
	cache, err := streamcache.New("/cache", streamcache.WithFs(afero.NewMemMapFs()), streamcache.WithLogger(quietLogger()))
	require.NoError(t, err)
	fetcher := newFakeFetcher(map[string][]byte{"abc": []byte("remote audio")})
	s, p := newTestSequencer(t, WithCache(cache), WithFetcher(fetcher))
	s.SetPlaylist(remotePlaylist("abc"), 0)

	require.NoError(t, s.Play(context.Background()))
	s.Stop()
	require.NoError(t, s.Play(context.Background()))

	assert.Equal(t, 1, fetcher.Calls("abc"))
	assert.Equal(t, [][]byte{[]byte("remote audio"), []byte("remote audio")}, p.StreamCalls())
}

func TestRemote_WithoutCacheStreamsDirectly(t *testing.T) {
	fetcher := newFakeFetcher(map[string][]byte{"abc": []byte("remote audio")})
	s, p := newTestSequencer(t, WithFetcher(fetcher))
	s.SetPlaylist(remotePlaylist("abc"), 0)

	require.NoError(t, s.Play(context.Background()))
	require.NoError(t, s.Play(context.Background()))

	assert.Equal(t, 2, fetcher.Calls("abc"))
	assert.Len(t, p.StreamCalls(), 2)
}

func TestRemote_FetchFailure(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	fetcher.err = errors.New("connection refused")
	s, p := newTestSequencer(t, WithFetcher(fetcher))
	s.SetPlaylist(remotePlaylist("abc"), 0)

	err := s.Play(context.Background())

	require.ErrorContains(t, err, "connection refused")
	assert.Empty(t, p.StreamCalls())
	assert.Equal(t, player.Idle, s.State())
}

func TestRemote_NoFetcher(t *testing.T) {
	s, _ := newTestSequencer(t)
	s.SetPlaylist(remotePlaylist("abc"), 0)

	require.ErrorIs(t, s.Play(context.Background()), ErrNoFetcher)
}

func TestNeedsFreshStream(t *testing.T) {
	fetcher := newFakeFetcher(map[string][]byte{"a": []byte("A"), "b": []byte("B")})
	s, _ := newTestSequencer(t, WithFetcher(fetcher))
	ctx := context.Background()
	s.SetPlaylist(remotePlaylist("a", "b"), 0)

	assert.False(t, s.NeedsFreshStream(), "fresh playlist")

	require.NoError(t, s.Play(ctx))
	assert.False(t, s.NeedsFreshStream(), "after play")

	s.Stop()
	require.NoError(t, s.Next(ctx))
	assert.True(t, s.NeedsFreshStream(), "after next on remote playlist")

	require.NoError(t, s.Toggle(ctx))
	assert.False(t, s.NeedsFreshStream(), "after playing the new track")
	assert.Equal(t, 2, fetcher.Calls("a")+fetcher.Calls("b"))
}

func TestNeedsFreshStream_FalseForLocalPlaylists(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)

	require.NoError(t, s.Next(context.Background()))

	assert.False(t, s.NeedsFreshStream())
}

func TestSetPlaylist_ResetsEngineAndStaleFlag(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetcher := newFakeFetcher(map[string][]byte{"a": []byte("A"), "b": []byte("B")})
	s, p := newTestSequencer(t, WithFs(fs), WithFetcher(fetcher))
	ctx := context.Background()

	s.SetPlaylist(remotePlaylist("a", "b"), 0)
	require.NoError(t, s.Play(ctx))
	s.Pause()

	s.SetPlaylist(localPlaylist(t, fs, "/x.mp3"), 0)

	assert.Equal(t, player.Idle, s.State())
	assert.False(t, s.NeedsFreshStream())
	require.NoError(t, s.Toggle(ctx))
	assert.Equal(t, []string{"/x.mp3"}, p.LocalCalls())
}

func TestSetPlayMode_HasNoPlaybackSideEffects(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 1)
	require.NoError(t, s.Play(context.Background()))
	sub := s.Subscribe()
	p.ResetCalls()

	s.SetPlayMode(playlist.RepeatOne)

	assert.Empty(t, p.Calls())
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, player.Playing, s.State())
	assert.Equal(t, ModeChange{Mode: playlist.RepeatOne}, <-sub.ModeChanged)
}

func TestCycleMode(t *testing.T) {
	s, _ := newTestSequencer(t)

	assert.Equal(t, playlist.Shuffle, s.CycleMode())
	assert.Equal(t, playlist.RepeatOne, s.CycleMode())
	assert.Equal(t, playlist.Sequential, s.CycleMode())
}

func runSequencer(t *testing.T, s *Sequencer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestRun_AdvancesOnNaturalEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)
	sub := s.Subscribe()
	runSequencer(t, s)
	require.NoError(t, s.Play(context.Background()))
	<-sub.TrackChanged

	p.SimulateFinished(nil)

	change := <-sub.TrackChanged
	assert.Equal(t, "/b.mp3", change.Current.ID)
	assert.Equal(t, "/a.mp3", change.Previous.ID)
	assert.Equal(t, []string{"/a.mp3", "/b.mp3"}, p.LocalCalls())
}

func TestRun_RepeatOneReplays(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)
	s.SetPlayMode(playlist.RepeatOne)
	runSequencer(t, s)
	require.NoError(t, s.Play(context.Background()))

	p.SimulateFinished(nil)

	assert.Eventually(t, func() bool {
		return len(p.LocalCalls()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"/a.mp3", "/a.mp3"}, p.LocalCalls())
}

func TestRun_DecodeFailureStops(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)
	sub := s.Subscribe()
	runSequencer(t, s)
	require.NoError(t, s.Play(context.Background()))

	p.SimulateFinished(player.ErrDecode)

	e := <-sub.Error
	require.ErrorIs(t, e.Err, player.ErrDecode)
	assert.Equal(t, "/a.mp3", e.TrackID)
	assert.Equal(t, []string{"/a.mp3"}, p.LocalCalls())
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestRun_IgnoresFinishedWhenANewTrackAlreadyStarted(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)
	require.NoError(t, s.Play(context.Background()))
	p.SimulateFinished(nil)
	p.SetState(player.Playing)

	runSequencer(t, s)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, []string{"/a.mp3"}, p.LocalCalls())
}

// lenCodec decodes anything as a fixed-length silent stream.
func lenCodec(samples int) player.Codec {
	return player.Codec{
		Name:       "LEN",
		Extensions: []string{".mp3"},
		Decode: func(io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return &silentStream{n: samples}, beep.Format{SampleRate: 1000, NumChannels: 2, Precision: 2}, nil
		},
	}
}

type silentStream struct{ n int }

func (s *silentStream) Stream([][2]float64) (int, bool) { return 0, false }
func (s *silentStream) Err() error                      { return nil }
func (s *silentStream) Len() int                        { return s.n }
func (s *silentStream) Position() int                   { return 0 }
func (s *silentStream) Seek(int) error                  { return nil }
func (s *silentStream) Close() error                    { return nil }

type recordingStore struct {
	mu   sync.Mutex
	rows map[string]time.Duration
}

func (r *recordingStore) SetTrackDuration(playlistID, trackID string, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows == nil {
		r.rows = make(map[string]time.Duration)
	}
	r.rows[playlistID+"|"+trackID] = d
	return nil
}

func (r *recordingStore) Get(key string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[key]
}

func TestSetPlaylist_MeasuresAndPersistsDurations(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := &recordingStore{}
	s, _ := newTestSequencer(t, WithFs(fs), WithCodecs(lenCodec(2000)), WithStore(store))
	sub := s.Subscribe()

	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3"), 0)

	e := <-sub.DurationChanged
	assert.Equal(t, DurationChange{TrackID: "/a.mp3", Duration: 2 * time.Second}, e)
	assert.Equal(t, 2*time.Second, s.Tracks()[0].Duration)
	assert.Equal(t, 2*time.Second, store.Get("local|/a.mp3"))
}

// streamingFetcher serves every track from its streaming endpoint.
type streamingFetcher struct {
	*fakeFetcher
	streamed []string
}

func (f *streamingFetcher) StreamTrack(_ context.Context, id string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamed = append(f.streamed, id)
	return io.NopCloser(bytes.NewReader([]byte("streamed " + id))), nil
}

func TestRemote_WithoutCacheUsesStreamingEndpoint(t *testing.T) {
	fetcher := &streamingFetcher{fakeFetcher: newFakeFetcher(nil)}
	s, p := newTestSequencer(t, WithFetcher(fetcher))
	s.SetPlaylist(remotePlaylist("abc"), 0)

	require.NoError(t, s.Play(context.Background()))

	assert.Equal(t, []string{"abc"}, fetcher.streamed)
	assert.Zero(t, fetcher.Calls("abc"), "full download used without a cache")
	assert.Equal(t, [][]byte{[]byte("streamed abc")}, p.StreamCalls())
}

func TestRemote_CacheDownloadsInsteadOfStreaming(t *testing.T) {
	cache, err := streamcache.New("/cache", streamcache.WithFs(afero.NewMemMapFs()), streamcache.WithLogger(quietLogger()))
	require.NoError(t, err)
	fetcher := &streamingFetcher{fakeFetcher: newFakeFetcher(map[string][]byte{"abc": []byte("remote audio")})}
	s, _ := newTestSequencer(t, WithCache(cache), WithFetcher(fetcher))
	s.SetPlaylist(remotePlaylist("abc"), 0)

	require.NoError(t, s.Play(context.Background()))

	assert.Equal(t, 1, fetcher.Calls("abc"))
	assert.Empty(t, fetcher.streamed)
}

type savedPlaylists struct {
	mu    sync.Mutex
	saved [][]string
	err   error
}

func (r *savedPlaylists) SavePlaylist(_ context.Context, pl *playlist.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	ids := make([]string, 0, pl.Len())
	for _, t := range pl.Tracks() {
		ids = append(ids, t.ID)
	}
	r.saved = append(r.saved, ids)
	return nil
}

func (r *savedPlaylists) Last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return nil
	}
	return r.saved[len(r.saved)-1]
}

func TestRemoveTrack_OtherTrackKeepsPlaying(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := &savedPlaylists{}
	s, p := newTestSequencer(t, WithFs(fs), WithPlaylistStore(store))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3", "/c.mp3"), 1)
	require.NoError(t, s.Play(context.Background()))
	p.ResetCalls()
	sub := s.Subscribe()

	require.NoError(t, s.RemoveTrack(context.Background(), 0))

	assert.Empty(t, p.Calls())
	assert.Equal(t, player.Playing, s.State())
	assert.Equal(t, "/b.mp3", s.CurrentTrack().ID)
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, []string{"/b.mp3", "/c.mp3"}, store.Last())
	e := <-sub.PlaylistChanged
	assert.Equal(t, 0, e.Index)
}

func TestRemoveTrack_SelectedStopsAndSelectsNext(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, p := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3", "/c.mp3"), 1)
	require.NoError(t, s.Play(context.Background()))
	p.ResetCalls()
	sub := s.Subscribe()

	require.NoError(t, s.RemoveTrack(context.Background(), 1))

	assert.Equal(t, []string{"Stop"}, p.Calls())
	assert.Equal(t, player.Idle, s.State())
	assert.Equal(t, "/c.mp3", s.CurrentTrack().ID)

	require.NoError(t, s.Play(context.Background()))
	e := <-sub.TrackChanged
	assert.Nil(t, e.Previous, "removed track reported as previous")
	assert.Equal(t, "/c.mp3", e.Current.ID)
}

func TestRemoveTrack_OutOfRange(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := &savedPlaylists{}
	s, _ := newTestSequencer(t, WithFs(fs), WithPlaylistStore(store))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3"), 0)

	require.ErrorIs(t, s.RemoveTrack(context.Background(), 3), ErrIndexOutOfRange)
	require.ErrorIs(t, s.RemoveTrack(context.Background(), -1), ErrIndexOutOfRange)
	assert.Len(t, s.Tracks(), 1)
	assert.Nil(t, store.Last())
}

func TestRemoveTrack_SaveFailureIsReported(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := &savedPlaylists{err: errors.New("disk full")}
	s, _ := newTestSequencer(t, WithFs(fs), WithPlaylistStore(store))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)
	sub := s.Subscribe()

	err := s.RemoveTrack(context.Background(), 1)

	require.ErrorContains(t, err, "disk full")
	e := <-sub.Error
	assert.Equal(t, "save", e.Operation)
	assert.Len(t, s.Tracks(), 1, "edit kept in memory")
}

func TestMoveTrack_KeepsPlayingTrackSelected(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := &savedPlaylists{}
	s, p := newTestSequencer(t, WithFs(fs), WithPlaylistStore(store))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3", "/c.mp3"), 0)
	require.NoError(t, s.Play(context.Background()))
	p.ResetCalls()
	sub := s.Subscribe()

	require.NoError(t, s.MoveTrack(context.Background(), 0, 2))

	e := <-sub.PlaylistChanged
	assert.True(t, e.Edited)
	assert.Equal(t, 2, e.Index)
	assert.Empty(t, p.Calls())
	assert.Equal(t, 2, s.CurrentIndex())
	assert.Equal(t, "/a.mp3", s.CurrentTrack().ID)
	assert.Equal(t, []string{"/b.mp3", "/c.mp3", "/a.mp3"}, store.Last())

	require.NoError(t, s.Next(context.Background()))
	assert.Equal(t, "/b.mp3", s.CurrentTrack().ID, "next follows the new order")
}

func TestMoveTrack_OutOfRange(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newTestSequencer(t, WithFs(fs))
	s.SetPlaylist(localPlaylist(t, fs, "/a.mp3", "/b.mp3"), 0)

	require.ErrorIs(t, s.MoveTrack(context.Background(), 0, 2), ErrIndexOutOfRange)
}
