//go:build linux

// Package mpris exposes the playback sequencer on the session bus as an
// MPRIS media player, so desktop media keys and widgets can drive it.
package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
)

const busName = "tempo"

// Adapter connects a playback.Service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts an MPRIS adapter. Control calls made through the
// bus run under ctx.
func New(ctx context.Context, svc playback.Service, log logrus.FieldLogger) (*Adapter, error) {
	log = log.WithField("component", "mpris")
	pa := &playerAdapter{ctx: ctx, svc: svc, fs: afero.NewOsFs()}
	a := &Adapter{server: server.NewServer(busName, rootAdapter{}, pa)}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.WithError(err).Warn("mpris server stopped")
		}
	}()
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (rootAdapter) Raise() error { return nil }

func (rootAdapter) Quit() error { return nil }

func (rootAdapter) CanQuit() (bool, error) { return false, nil }

func (rootAdapter) CanRaise() (bool, error) { return false, nil }

func (rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (rootAdapter) Identity() (string, error) { return "Tempo", nil }

//nolint:revive // Method name required by interface.
func (rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter plus the
// optional loop status and shuffle interfaces.
type playerAdapter struct {
	ctx context.Context
	svc playback.Service
	fs  afero.Fs
}

func (p *playerAdapter) Next() error {
	return p.svc.Next(p.ctx)
}

func (p *playerAdapter) Previous() error {
	return p.svc.Previous(p.ctx)
}

func (p *playerAdapter) Pause() error {
	p.svc.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.svc.Toggle(p.ctx)
}

func (p *playerAdapter) Stop() error {
	p.svc.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.svc.State() == player.Playing {
		return nil
	}
	return p.svc.Toggle(p.ctx)
}

// The engine cannot seek; CanSeek reports false so clients never call these.
func (p *playerAdapter) Seek(types.Microseconds) error { return nil }

func (p *playerAdapter) SetPosition(string, types.Microseconds) error { return nil }

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.svc.State()), nil
}

func playbackStatus(st player.State) types.PlaybackStatus {
	switch st {
	case player.Playing:
		return types.PlaybackStatusPlaying
	case player.Paused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) SetRate(float64) error { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.svc.CurrentTrack()
	if track == nil {
		return types.Metadata{}, nil
	}

	length := track.Duration
	if length <= 0 {
		length = p.svc.Player().Duration()
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.ID)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   track.DisplayTitle(),
	}
	if track.Artist != "" {
		meta.Artist = []string{track.Artist}
	}
	pl := p.svc.Playlist()
	if pl != nil {
		meta.Album = pl.Name
	}
	if idx := p.svc.CurrentIndex(); idx >= 0 {
		meta.TrackNumber = idx + 1
	}
	if art := playlist.CoverFor(p.fs, pl, track); art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if v, ok := p.svc.Player().(player.VolumeControl); ok {
		return v.Volume(), nil
	}
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	if v, ok := p.svc.Player().(player.VolumeControl); ok {
		v.SetVolume(min(max(level, 0), 1))
	}
	return nil
}

// Position is derived from the engine's progress percentage.
func (p *playerAdapter) Position() (int64, error) {
	e := p.svc.Player()
	return (e.Duration() * time.Duration(e.Percent()) / 100).Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) CanGoNext() (bool, error) {
	return len(p.svc.Tracks()) > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return len(p.svc.Tracks()) > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.svc.Tracks()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) { return true, nil }

func (p *playerAdapter) CanSeek() (bool, error) { return false, nil }

func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.svc.PlayMode() == playlist.RepeatOne {
		return types.LoopStatusTrack, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// Playlist looping maps to sequential play, which already wraps around.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusTrack:
		p.svc.SetPlayMode(playlist.RepeatOne)
	case types.LoopStatusNone, types.LoopStatusPlaylist:
		if p.svc.PlayMode() == playlist.RepeatOne {
			p.svc.SetPlayMode(playlist.Sequential)
		}
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.svc.PlayMode() == playlist.Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	switch {
	case shuffle:
		p.svc.SetPlayMode(playlist.Shuffle)
	case p.svc.PlayMode() == playlist.Shuffle:
		p.svc.SetPlayMode(playlist.Sequential)
	}
	return nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
