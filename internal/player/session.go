package player

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
)

// errAtEnd is returned when a source is reopened at or past its last byte.
var errAtEnd = errors.New("offset at end of source")

// session is one decode run over an opened source. It owns the source
// handle and the decoder; both are released by stop.
type session struct {
	file   sourceFile
	stream beep.StreamSeekCloser
	format beep.Format
	codec  string
	total  int64
	pos    atomic.Int64

	cancel     context.CancelFunc
	decodeDone chan struct{}
	pollDone   chan struct{}
	err        error // sink result; valid once decodeDone is closed
}

// openSession opens src and prepares a decoder positioned at offset.
func openSession(src source, codecs []Codec, offset int64) (*session, error) {
	file, total, err := src.open()
	if err != nil {
		return nil, err
	}
	if offset > 0 && offset >= total {
		file.Close()
		return nil, errAtEnd
	}

	codec, err := selectCodec(codecs, src.name(), file)
	if err != nil {
		file.Close()
		return nil, err
	}

	s := &session{file: file, codec: codec.Name, total: total}

	start := int64(0)
	if codec.FrameSynced {
		start = offset
	}
	stream, format, err := codec.Decode(newTrackedReader(file, start, total, &s.pos))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, codec.Name, err)
	}

	if offset > 0 && !codec.FrameSynced {
		if n := stream.Len(); n > 0 {
			sample := int(int64(n) * offset / total)
			if err := stream.Seek(sample); err != nil {
				stream.Close()
				file.Close()
				return nil, fmt.Errorf("%w: seek to resume point: %w", ErrDecode, err)
			}
		}
	}

	s.stream = stream
	s.format = format
	return s, nil
}

// run starts the decode and progress goroutines. onEnd is called from the
// decode goroutine when the sink returns without the session being stopped.
func (s *session) run(sink Sink, interval time.Duration, progress func(Progress), onEnd func(*session)) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.decodeDone = make(chan struct{})
	s.pollDone = make(chan struct{})

	go func() {
		err := sink.Play(ctx, s.stream, s.format)
		if err == nil {
			err = s.stream.Err()
		}
		s.err = err
		close(s.decodeDone)
		if ctx.Err() == nil {
			onEnd(s)
		}
	}()

	go func() {
		defer close(s.pollDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				progress(Progress{Current: s.percent(), Total: ProgressTotal})
			}
		}
	}()
}

// stop cancels both goroutines, waits for them and releases the decoder and
// source. No progress is reported once stop returns.
func (s *session) stop() {
	s.cancel()
	<-s.pollDone
	<-s.decodeDone
	s.stream.Close()
	s.file.Close()
}

// position returns the absolute byte position consumed by the decoder.
func (s *session) position() int64 {
	return min(s.pos.Load(), s.total)
}

// percent returns consumed bytes as a percentage of the source length.
func (s *session) percent() int {
	return percentOf(s.position(), s.total)
}

func (s *session) duration() time.Duration {
	return s.format.SampleRate.D(s.stream.Len())
}

func percentOf(consumed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(max(0, min(ProgressTotal, consumed*ProgressTotal/total)))
}
