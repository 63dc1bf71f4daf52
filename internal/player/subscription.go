package player

const eventBufferSize = 16

// ProgressTotal is the Total reported by every Progress event.
const ProgressTotal = 100

// Progress reports how much of the current source has been consumed.
// Current is a percentage in [0, Total].
type Progress struct {
	Current int
	Total   int
}

// Finished is emitted when a session ends on its own: the source was fully
// played (Err is nil) or decoding failed (Err wraps ErrDecode).
// Stop, Pause and starting another source never emit Finished.
type Finished struct {
	Err error
}

// StateChange reports an engine state transition.
type StateChange struct {
	Previous State
	Current  State
}

// Subscription provides event channels for a subscriber.
// Sends never block the engine: a full buffer drops the event.
type Subscription struct {
	Progress     <-chan Progress
	Finished     <-chan Finished
	StateChanged <-chan StateChange
	Done         <-chan struct{}

	progressCh chan Progress
	finishedCh chan Finished
	stateCh    chan StateChange
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		progressCh: make(chan Progress, eventBufferSize),
		finishedCh: make(chan Finished, eventBufferSize),
		stateCh:    make(chan StateChange, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.Progress = s.progressCh
	s.Finished = s.finishedCh
	s.StateChanged = s.stateCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendProgress(e Progress) {
	select {
	case s.progressCh <- e:
	default:
	}
}

func (s *Subscription) sendFinished(e Finished) {
	select {
	case s.finishedCh <- e:
	default:
	}
}

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}
