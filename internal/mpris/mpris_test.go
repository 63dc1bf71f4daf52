//go:build linux

package mpris

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
)

func newAdapter(t *testing.T) (*playerAdapter, *playback.Sequencer, *player.Mock) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/music/cover.jpg", nil, 0o644))

	pl := playlist.New("local", "Evening", "me", playlist.Local)
	for _, name := range []string{"Ceremony", "Blue Monday"} {
		path := "/music/" + name + ".mp3"
		require.NoError(t, afero.WriteFile(fs, path, []byte("audio"), 0o644))
		pl.Add(playlist.Track{ID: path, Title: name, Artist: "New Order", Duration: 2 * time.Minute})
	}

	mock := player.NewMock()
	svc := playback.New(mock, playback.WithLogger(log), playback.WithFs(fs))
	t.Cleanup(func() { svc.Close() })
	svc.SetPlaylist(pl, 0)

	return &playerAdapter{ctx: context.Background(), svc: svc, fs: fs}, svc, mock
}

func TestPlayerAdapter_PlayPauseStop(t *testing.T) {
	p, svc, _ := newAdapter(t)

	require.NoError(t, p.Play())
	assert.Equal(t, player.Playing, svc.State())
	status, _ := p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	require.NoError(t, p.Play())
	assert.Equal(t, player.Playing, svc.State(), "Play while playing is a no-op")

	require.NoError(t, p.PlayPause())
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPaused, status)

	require.NoError(t, p.Stop())
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusStopped, status)
}

func TestPlayerAdapter_Next(t *testing.T) {
	p, svc, mock := newAdapter(t)

	require.NoError(t, p.Play())
	require.NoError(t, p.Next())

	assert.Equal(t, 1, svc.CurrentIndex())
	assert.Contains(t, mock.Calls(), "PlayLocal /music/Blue Monday.mp3")
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	p, _, _ := newAdapter(t)

	meta, err := p.Metadata()
	require.NoError(t, err)

	assert.Equal(t, "Ceremony", meta.Title)
	assert.Equal(t, []string{"New Order"}, meta.Artist)
	assert.Equal(t, "Evening", meta.Album)
	assert.Equal(t, 1, meta.TrackNumber)
	assert.Equal(t, types.Microseconds((2 * time.Minute).Microseconds()), meta.Length)
	assert.Equal(t, "file:///music/cover.jpg", meta.ArtUrl)
	assert.True(t, strings.HasPrefix(string(meta.TrackId), "/org/mpris/MediaPlayer2/Track/"))
}

func TestPlayerAdapter_MetadataEmptyPlaylist(t *testing.T) {
	p, svc, _ := newAdapter(t)
	svc.SetPlaylist(playlist.New("", "", "", playlist.Local), 0)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title)

	canPlay, _ := p.CanPlay()
	assert.False(t, canPlay)
}

func TestPlayerAdapter_Position(t *testing.T) {
	p, _, mock := newAdapter(t)
	mock.SetProgress(25, 4*time.Minute)

	pos, err := p.Position()
	require.NoError(t, err)
	assert.Equal(t, time.Minute.Microseconds(), pos)
}

func TestPlayerAdapter_LoopStatus(t *testing.T) {
	p, svc, _ := newAdapter(t)

	require.NoError(t, p.SetLoopStatus(types.LoopStatusTrack))
	assert.Equal(t, playlist.RepeatOne, svc.PlayMode())
	status, _ := p.LoopStatus()
	assert.Equal(t, types.LoopStatusTrack, status)

	require.NoError(t, p.SetLoopStatus(types.LoopStatusNone))
	assert.Equal(t, playlist.Sequential, svc.PlayMode())
	status, _ = p.LoopStatus()
	assert.Equal(t, types.LoopStatusNone, status)
}

func TestPlayerAdapter_Shuffle(t *testing.T) {
	p, svc, _ := newAdapter(t)

	require.NoError(t, p.SetShuffle(true))
	assert.Equal(t, playlist.Shuffle, svc.PlayMode())
	on, _ := p.Shuffle()
	assert.True(t, on)

	require.NoError(t, p.SetShuffle(false))
	assert.Equal(t, playlist.Sequential, svc.PlayMode())

	svc.SetPlayMode(playlist.RepeatOne)
	require.NoError(t, p.SetShuffle(false))
	assert.Equal(t, playlist.RepeatOne, svc.PlayMode(), "turning shuffle off keeps repeat")
}

func TestPlayerAdapter_VolumeWithoutControl(t *testing.T) {
	p, _, _ := newAdapter(t)

	require.NoError(t, p.SetVolume(0.3))
	v, err := p.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 0.0001)
}

func TestFormatTrackID(t *testing.T) {
	a := formatTrackID("/music/a.mp3")
	assert.Equal(t, a, formatTrackID("/music/a.mp3"))
	assert.NotEqual(t, a, formatTrackID("/music/b.mp3"))
}

func TestPlaybackStatus(t *testing.T) {
	assert.Equal(t, types.PlaybackStatusStopped, playbackStatus(player.Idle))
	assert.Equal(t, types.PlaybackStatusPlaying, playbackStatus(player.Playing))
	assert.Equal(t, types.PlaybackStatusPaused, playbackStatus(player.Paused))
}
