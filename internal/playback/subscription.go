package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged   <-chan StateChange
	StationChanged <-chan StationChange
	TitleChanged   <-chan TitleChange
	VolumeChanged  <-chan VolumeChange
	Error          <-chan ErrorEvent
	Done           <-chan struct{}

	// Internal write channels
	stateCh   chan StateChange
	stationCh chan StationChange
	titleCh   chan TitleChange
	volumeCh  chan VolumeChange
	errorCh   chan ErrorEvent
	doneCh    chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:   make(chan StateChange, eventBufferSize),
		stationCh: make(chan StationChange, eventBufferSize),
		titleCh:   make(chan TitleChange, eventBufferSize),
		volumeCh:  make(chan VolumeChange, eventBufferSize),
		errorCh:   make(chan ErrorEvent, eventBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.StationChanged = s.stationCh
	s.TitleChanged = s.titleCh
	s.VolumeChanged = s.volumeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendStation sends a station change event (non-blocking).
func (s *Subscription) sendStation(e StationChange) {
	select {
	case s.stationCh <- e:
	default:
	}
}

// sendTitle sends a title change event (non-blocking).
func (s *Subscription) sendTitle(e TitleChange) {
	select {
	case s.titleCh <- e:
	default:
	}
}

// sendVolume sends a volume change event (non-blocking).
func (s *Subscription) sendVolume(e VolumeChange) {
	select {
	case s.volumeCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
