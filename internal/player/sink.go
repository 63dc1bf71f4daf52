package player

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// Sink renders decoded samples.
//
// Play reads s until it is drained (returns s.Err()), ctx is cancelled
// (returns ctx.Err()) or the device fails. Once Play returns, s is no
// longer read.
type Sink interface {
	Play(ctx context.Context, s beep.Streamer, format beep.Format) error
}

// VolumeControl is implemented by sinks with adjustable output level.
type VolumeControl interface {
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
}

const (
	speakerBuffer   = 100 * time.Millisecond
	resampleQuality = 4
)

// SpeakerSink plays through the system audio device using beep's speaker.
// The device is initialized on first use at the first source's sample
// rate; later sources are resampled to it.
type SpeakerSink struct {
	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
	level       float64
	muted       bool
	current     *effects.Volume
}

// NewSpeakerSink creates a sink at full volume.
func NewSpeakerSink() *SpeakerSink {
	return &SpeakerSink{level: 1}
}

func (s *SpeakerSink) init(rate beep.SampleRate) error {
	if s.initialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	s.sampleRate = rate
	s.initialized = true
	return nil
}

// Play implements Sink.
func (s *SpeakerSink) Play(ctx context.Context, st beep.Streamer, format beep.Format) error {
	s.mu.Lock()
	if err := s.init(format.SampleRate); err != nil {
		s.mu.Unlock()
		return err
	}
	out := st
	if format.SampleRate != s.sampleRate {
		out = beep.Resample(resampleQuality, format.SampleRate, s.sampleRate, st)
	}
	vol := &effects.Volume{
		Streamer: out,
		Base:     2,
		Volume:   levelToVolume(s.level),
		Silent:   s.muted,
	}
	s.current = vol
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
	}()

	drained := make(chan struct{})
	speaker.Play(beep.Seq(vol, beep.Callback(func() { close(drained) })))

	select {
	case <-drained:
		return st.Err()
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// SetVolume sets the level (0.0 to 1.0), clamping out-of-range values.
func (s *SpeakerSink) SetVolume(level float64) {
	level = max(0, min(1, level))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	if s.current != nil {
		speaker.Lock()
		s.current.Volume = levelToVolume(level)
		speaker.Unlock()
	}
}

// Volume returns the level (0.0 to 1.0).
func (s *SpeakerSink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// SetMuted silences output without forgetting the level.
func (s *SpeakerSink) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	if s.current != nil {
		speaker.Lock()
		s.current.Silent = muted
		speaker.Unlock()
	}
}

// Muted reports whether output is silenced.
func (s *SpeakerSink) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// levelToVolume maps a 0.0-1.0 level onto beep's base-2 scale:
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
