package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	TrackChanged    <-chan TrackChange
	PlaylistChanged <-chan PlaylistChange
	ModeChanged     <-chan ModeChange
	DurationChanged <-chan DurationChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	trackCh    chan TrackChange
	playlistCh chan PlaylistChange
	modeCh     chan ModeChange
	durationCh chan DurationChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		trackCh:    make(chan TrackChange, eventBufferSize),
		playlistCh: make(chan PlaylistChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		durationCh: make(chan DurationChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.TrackChanged = s.trackCh
	s.PlaylistChanged = s.playlistCh
	s.ModeChanged = s.modeCh
	s.DurationChanged = s.durationCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendPlaylist(e PlaylistChange) {
	select {
	case s.playlistCh <- e:
	default:
	}
}

func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
	}
}

func (s *Subscription) sendDuration(e DurationChange) {
	select {
	case s.durationCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
