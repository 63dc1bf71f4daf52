package player

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// PlayLocal starts playing the file at path from the beginning. Any current
// session is torn down first; playing the loaded path again restarts it.
func (p *Player) PlayLocal(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cur, ok := p.src.(*fileSource); ok && cur.path == path {
		p.log.WithField("path", path).Debug("replaying from start")
	}
	p.stopLocked()
	return p.startLocked(&fileSource{fs: p.fs, path: path}, p.log.WithField("path", path))
}

// PlayStream buffers r completely, then plays it from the beginning. Any
// current session is torn down before r is read.
func (p *Player) PlayStream(r io.Reader) error {
	p.Stop()

	data, err := readAllLimited(r, p.maxStream)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty stream", ErrDecode)
	}
	p.metrics.StreamBuffered(len(data))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return p.startLocked(&memorySource{data: data}, p.log.WithField("bytes", len(data)))
}

// Pause stops decoding and remembers how far the source was consumed.
// It does nothing unless Playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.CanPause() || p.sess == nil {
		return
	}
	s := p.sess
	s.stop()
	p.sess = nil
	p.offset = s.position()
	p.setStateLocked(Paused)
	p.log.WithField("offset", p.offset).Debug("paused")
}

// Resume continues a paused source from its saved offset. It does nothing
// when already Playing and fails with ErrIllegalState when Idle. If the
// source can no longer be opened the engine goes Idle and ErrSourceUnavailable
// is returned.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Playing {
		return nil
	}
	if !p.state.CanResume() {
		return fmt.Errorf("%w: resume while %s", ErrIllegalState, p.state)
	}

	log := p.log.WithField("offset", p.offset)
	sess, err := openSession(p.src, p.codecs, p.offset)
	switch {
	case errors.Is(err, errAtEnd):
		// Paused after the last byte was consumed.
		p.resetLocked()
		p.emitProgress(Progress{Current: 0, Total: ProgressTotal})
		p.emitFinished(Finished{})
		return nil
	case errors.Is(err, ErrSourceNotFound):
		p.resetLocked()
		log.WithError(err).Warn("source gone on resume")
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	case err != nil:
		p.resetLocked()
		p.failed(log, err)
		return err
	}

	p.runLocked(sess)
	log.Debug("resumed")
	return nil
}

// Stop ends playback and discards the loaded source. Safe to call in any state.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.sess != nil {
		p.sess.stop()
	}
	p.resetLocked()
}

// resetLocked returns to Idle, forgetting the source and resume offset.
func (p *Player) resetLocked() {
	p.sess = nil
	p.src = nil
	p.offset = 0
	p.total = 0
	p.duration = 0
	p.setStateLocked(Idle)
}

func (p *Player) startLocked(src source, log logrus.FieldLogger) error {
	sess, err := openSession(src, p.codecs, 0)
	if err != nil {
		p.failed(log, err)
		return err
	}
	p.src = src
	p.runLocked(sess)
	log.WithField("codec", sess.codec).Info("playing")
	return nil
}

func (p *Player) runLocked(sess *session) {
	p.sess = sess
	p.offset = 0
	p.total = sess.total
	p.duration = sess.duration()
	p.metrics.SessionStarted()
	sess.run(p.sink, p.interval, p.emitProgress, p.finish)
	p.setStateLocked(Playing)
}

// finish handles a session that ended on its own. It is a no-op when the
// session was already stopped or replaced.
func (p *Player) finish(sess *session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess != sess {
		return
	}

	sess.stop()
	err := sess.err
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrDecode, sess.codec, err)
		p.failed(p.log, err)
	} else {
		p.log.Debug("finished")
	}
	p.resetLocked()
	p.emitProgress(Progress{Current: 0, Total: ProgressTotal})
	p.emitFinished(Finished{Err: err})
}

func (p *Player) failed(log logrus.FieldLogger, err error) {
	if errors.Is(err, ErrDecode) || errors.Is(err, ErrUnsupportedFormat) {
		p.metrics.DecodeFailed()
	}
	log.WithError(err).Warn("playback failed")
}
