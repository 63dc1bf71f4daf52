// Package player plays one audio source at a time, local file or buffered
// network stream, and reports progress as a percentage of bytes consumed.
//
// Control methods are serialized by an internal mutex. Each session runs one
// decode goroutine feeding the Sink and one goroutine reporting progress;
// both are cancelled and joined before a control method returns.
package player

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/tempo/internal/metrics"
)

const (
	// DefaultProgressInterval is how often progress is reported while playing.
	DefaultProgressInterval = 100 * time.Millisecond
	// DefaultMaxStreamSize caps how much of a network stream is buffered.
	DefaultMaxStreamSize = 64 << 20
)

// Player is the playback engine.
type Player struct {
	fs        afero.Fs
	sink      Sink
	codecs    []Codec
	interval  time.Duration
	maxStream int64
	log       logrus.FieldLogger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	state    State
	src      source // loaded source, nil when Idle
	sess     *session
	offset   int64 // resume point while Paused
	total    int64
	duration time.Duration

	subsMu sync.RWMutex
	subs   []*Subscription
}

// Option configures a Player.
type Option func(*Player)

// WithFs sets the filesystem local sources are opened from.
func WithFs(fs afero.Fs) Option {
	return func(p *Player) { p.fs = fs }
}

// WithSink sets the audio output. Defaults to a SpeakerSink.
func WithSink(s Sink) Option {
	return func(p *Player) { p.sink = s }
}

// WithCodecs replaces the codec registry.
func WithCodecs(codecs ...Codec) Option {
	return func(p *Player) { p.codecs = codecs }
}

// WithProgressInterval sets the progress reporting cadence.
func WithProgressInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxStreamSize caps PlayStream buffering at n bytes.
func WithMaxStreamSize(n int64) Option {
	return func(p *Player) {
		if n > 0 {
			p.maxStream = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Player) { p.log = l }
}

// WithMetrics records sessions and failures on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Player) { p.metrics = m }
}

// New creates an idle player.
func New(opts ...Option) *Player {
	p := &Player{
		fs:        afero.NewOsFs(),
		codecs:    DefaultCodecs(),
		interval:  DefaultProgressInterval,
		maxStream: DefaultMaxStreamSize,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink == nil {
		p.sink = NewSpeakerSink()
	}
	p.log = p.log.WithField("component", "player")
	return p
}

// State returns the current state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsPlaying reports whether a session is actively decoding.
func (p *Player) IsPlaying() bool {
	return p.State() == Playing
}

// Position returns the number of source bytes consumed so far.
func (p *Player) Position() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.sess != nil:
		return p.sess.position()
	case p.state == Paused:
		return p.offset
	default:
		return 0
	}
}

// Length returns the byte length of the loaded source, 0 when Idle.
func (p *Player) Length() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Percent returns consumed bytes as a percentage of Length.
func (p *Player) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.sess != nil:
		return p.sess.percent()
	case p.state == Paused:
		return percentOf(p.offset, p.total)
	default:
		return 0
	}
}

// Duration returns the decoded length of the loaded source, if the codec
// knows it.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// SetVolume sets the output level (0.0 to 1.0) when the sink supports it.
func (p *Player) SetVolume(level float64) {
	if v, ok := p.sink.(VolumeControl); ok {
		v.SetVolume(level)
	}
}

// Volume returns the output level, 1 when the sink has no volume control.
func (p *Player) Volume() float64 {
	if v, ok := p.sink.(VolumeControl); ok {
		return v.Volume()
	}
	return 1
}

// SetMuted silences output when the sink supports it.
func (p *Player) SetMuted(muted bool) {
	if v, ok := p.sink.(VolumeControl); ok {
		v.SetMuted(muted)
	}
}

// Muted reports whether output is silenced.
func (p *Player) Muted() bool {
	if v, ok := p.sink.(VolumeControl); ok {
		return v.Muted()
	}
	return false
}

// Subscribe returns a new event subscription.
func (p *Player) Subscribe() *Subscription {
	s := newSubscription()
	p.subsMu.Lock()
	p.subs = append(p.subs, s)
	p.subsMu.Unlock()
	return s
}

// Close stops playback and closes every subscription.
func (p *Player) Close() {
	p.Stop()

	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, s := range p.subs {
		s.close()
	}
	p.subs = nil
}

func (p *Player) emitProgress(e Progress) {
	p.subsMu.RLock()
	defer p.subsMu.RUnlock()
	for _, s := range p.subs {
		s.sendProgress(e)
	}
}

func (p *Player) emitFinished(e Finished) {
	p.subsMu.RLock()
	defer p.subsMu.RUnlock()
	for _, s := range p.subs {
		s.sendFinished(e)
	}
}

// setStateLocked changes state and notifies subscribers. Caller holds mu.
func (p *Player) setStateLocked(st State) {
	if p.state == st {
		return
	}
	prev := p.state
	p.state = st
	p.metrics.SetPlaying(st == Playing)

	p.subsMu.RLock()
	defer p.subsMu.RUnlock()
	for _, s := range p.subs {
		s.sendState(StateChange{Previous: prev, Current: st})
	}
}
