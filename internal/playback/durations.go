package playback

import (
	"context"
	"time"

	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/playlist"
)

// startDurationScanLocked fills in unknown durations of local tracks in the
// background. A previous scan is cancelled. Caller holds mu.
func (s *Sequencer) startDurationScanLocked() {
	if s.scanCancel != nil {
		s.scanCancel()
		s.scanCancel = nil
	}

	pl := s.queue.Playlist()
	var paths []string
	for _, t := range pl.Tracks() {
		if !t.IsRemote() && t.Duration <= 0 {
			paths = append(paths, t.ID)
		}
	}
	if len(paths) == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.scanCancel = cancel
	s.scans.Add(1)
	go func() {
		defer s.scans.Done()
		durations := player.ReadDurations(ctx, s.fs, s.codecs, paths)
		if ctx.Err() != nil {
			return
		}
		s.applyDurations(pl, durations)
	}()
}

func (s *Sequencer) applyDurations(pl *playlist.Playlist, durations map[string]time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Playlist() != pl {
		return
	}
	for id, d := range durations {
		if !pl.SetDuration(id, d) {
			continue
		}
		s.emitDuration(DurationChange{TrackID: id, Duration: d})
		if s.store == nil || pl.ID == "" {
			continue
		}
		if err := s.store.SetTrackDuration(pl.ID, id, d); err != nil {
			s.log.WithError(err).WithField("track", id).Warn("persist duration")
		}
	}
}
