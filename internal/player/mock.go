package player

import (
	"io"
	"sync"
	"time"
)

// Mock is a test double for Player. Play calls succeed unless an error is
// set and move the mock to Playing; SimulateFinished delivers Finished to
// subscribers.
type Mock struct {
	mu          sync.Mutex
	state       State
	playErr     error
	resumeErr   error
	localCalls  []string
	streamCalls [][]byte
	stopCalls   int
	calls       []string
	percent     int
	duration    time.Duration
	subs        []*Subscription
}

// NewMock creates an idle mock player.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) PlayLocal(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.localCalls = append(m.localCalls, path)
	m.calls = append(m.calls, "PlayLocal "+path)
	if m.playErr != nil {
		m.state = Idle
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) PlayStream(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamCalls = append(m.streamCalls, data)
	m.calls = append(m.calls, "PlayStream")
	if m.playErr != nil {
		m.state = Idle
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
		m.calls = append(m.calls, "Pause")
	}
}

func (m *Mock) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Idle:
		return ErrIllegalState
	case Paused:
		if m.resumeErr != nil {
			m.state = Idle
			return m.resumeErr
		}
		m.state = Playing
		m.calls = append(m.calls, "Resume")
	}
	return nil
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.calls = append(m.calls, "Stop")
	m.state = Idle
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) IsPlaying() bool { return m.State() == Playing }

func (m *Mock) Position() int64 { return 0 }

func (m *Mock) Length() int64 { return 0 }

func (m *Mock) Percent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.percent
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Subscribe() *Subscription {
	s := newSubscription()
	m.mu.Lock()
	m.subs = append(m.subs, s)
	m.mu.Unlock()
	return s
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// SetProgress sets what Percent and Duration report.
func (m *Mock) SetProgress(percent int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.percent = percent
	m.duration = d
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetResumeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeErr = err
}

// LocalCalls returns the paths passed to PlayLocal.
func (m *Mock) LocalCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.localCalls...)
}

// StreamCalls returns the bytes read by each PlayStream call.
func (m *Mock) StreamCalls() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.streamCalls...)
}

// Calls returns every control call in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ResetCalls forgets recorded calls.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.localCalls = nil
	m.streamCalls = nil
	m.stopCalls = 0
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

// SimulateFinished ends the current session as the engine would.
func (m *Mock) SimulateFinished(err error) {
	m.mu.Lock()
	m.state = Idle
	subs := append([]*Subscription(nil), m.subs...)
	m.mu.Unlock()
	for _, s := range subs {
		s.sendProgress(Progress{Current: 0, Total: ProgressTotal})
		s.sendFinished(Finished{Err: err})
	}
}

var _ Interface = (*Mock)(nil)
