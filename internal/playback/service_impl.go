package playback

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/llehouerou/tuner/internal/player"
	"github.com/llehouerou/tuner/internal/station"
)

var (
	// ErrNoStations is returned when playback is requested with an empty
	// station list.
	ErrNoStations = errors.New("no stations configured")

	// ErrStreamDropped reports a stream that ended on the server side.
	ErrStreamDropped = errors.New("stream dropped by server")
)

// Store persists stations and player state between sessions.
type Store interface {
	Stations() ([]station.Station, error)
	Add(name, url, icon string) (*station.Station, error)
	Remove(id int64) error
	PlayerState() (*station.PlayerState, error)
	SavePlayerState(state station.PlayerState)
}

// Options configures the playback service.
type Options struct {
	// VolumeStep is the increment applied by VolumeUp and VolumeDown.
	VolumeStep float64
	// DefaultVolume is used when no saved player state exists.
	DefaultVolume float64
}

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.RWMutex

	player player.Interface
	store  Store
	log    *zap.SugaredLogger

	volumeStep float64

	// Guarded by mu.
	stations []station.Station
	current  int // index into stations, -1 when nothing is tuned
	title    string
	state    State
	volume   float64
	muted    bool
	gen      uint64 // play session counter, stamps player callbacks
	closed   bool

	subs   []*Subscription
	subsMu sync.RWMutex

	// playMu serializes player mutations. Connecting to a stream can take
	// seconds, so state reads go through mu and never wait here.
	playMu sync.Mutex

	titleCh   chan titleUpdate
	stoppedCh chan uint64
	done      chan struct{}
	wg        sync.WaitGroup
}

type titleUpdate struct {
	gen   uint64
	title string
}

// New creates a playback service backed by p, with stations and the previous
// session's volume and tuned station loaded from store. The service owns the
// player's callbacks from here on.
func New(p player.Interface, store Store, opts Options, log *zap.SugaredLogger) (Service, error) {
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = 0.05
	}

	s := &serviceImpl{
		player:     p,
		store:      store,
		log:        log,
		volumeStep: opts.VolumeStep,
		current:    -1,
		state:      StateStopped,
		titleCh:    make(chan titleUpdate, eventBufferSize),
		stoppedCh:  make(chan uint64, 1),
		done:       make(chan struct{}),
	}

	stations, err := store.Stations()
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	s.stations = stations

	s.restoreState(opts)

	s.wg.Add(1)
	go s.run()

	return s, nil
}

func (s *serviceImpl) restoreState(opts Options) {
	saved, err := s.store.PlayerState()
	if err != nil {
		s.log.Warnw("failed to load player state", "error", err)
	}

	volume := opts.DefaultVolume
	muted := false
	if saved != nil {
		volume = saved.Volume
		muted = saved.Muted
		if saved.LastStationID != nil {
			for i := range s.stations {
				if s.stations[i].ID == *saved.LastStationID {
					s.current = i
					break
				}
			}
		}
	}

	s.volume = clampLevel(volume)
	s.muted = muted
	s.player.SetVolume(s.volume)
	s.player.SetMuted(s.muted)
}

// run consumes player callbacks. It is the only goroutine that reacts to
// stream termination, which keeps player teardown off the audio pipeline.
func (s *serviceImpl) run() {
	defer s.wg.Done()
	for {
		select {
		case u := <-s.titleCh:
			s.handleTitle(u)
		case gen := <-s.stoppedCh:
			s.handleStreamEnd(gen)
		case <-s.done:
			return
		}
	}
}

func (s *serviceImpl) handleTitle(u titleUpdate) {
	s.mu.Lock()
	if u.gen != s.gen || u.title == s.title {
		s.mu.Unlock()
		return
	}
	s.title = u.title
	s.mu.Unlock()

	s.log.Debugw("stream title", "title", u.title)
	s.forEachSub(func(sub *Subscription) {
		sub.sendTitle(TitleChange{Title: u.title})
	})
}

// handleStreamEnd runs when a stream ends on its own. Live streams never
// finish, so this always means the connection was lost. Notifications from
// sessions that were already replaced are discarded.
func (s *serviceImpl) handleStreamEnd(gen uint64) {
	s.playMu.Lock()
	s.mu.RLock()
	stale := gen != s.gen
	s.mu.RUnlock()
	if stale {
		s.playMu.Unlock()
		return
	}
	s.player.Stop()
	s.playMu.Unlock()

	s.mu.Lock()
	prev := s.state
	s.state = StateStopped
	s.title = ""
	var url string
	if s.current >= 0 && s.current < len(s.stations) {
		url = s.stations[s.current].URL
	}
	s.mu.Unlock()

	s.log.Warnw("stream ended unexpectedly", "url", url)

	if prev != StateStopped {
		s.forEachSub(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: prev, Current: StateStopped})
		})
	}
	s.forEachSub(func(sub *Subscription) {
		sub.sendError(ErrorEvent{Operation: "stream", URL: url, Err: ErrStreamDropped})
	})
}

// Play starts the tuned station, or the first one when nothing was tuned
// yet. It blocks until the stream is connected.
func (s *serviceImpl) Play() error {
	s.playMu.Lock()
	defer s.playMu.Unlock()

	s.mu.RLock()
	idx := s.current
	count := len(s.stations)
	s.mu.RUnlock()

	if count == 0 {
		return ErrNoStations
	}
	if idx < 0 || idx >= count {
		idx = 0
	}
	return s.playIndex(idx)
}

// PlayStation starts the station with the given id.
func (s *serviceImpl) PlayStation(id int64) error {
	s.playMu.Lock()
	defer s.playMu.Unlock()

	s.mu.RLock()
	idx := -1
	for i := range s.stations {
		if s.stations[i].ID == id {
			idx = i
			break
		}
	}
	s.mu.RUnlock()

	if idx < 0 {
		return fmt.Errorf("station %d not found", id)
	}
	return s.playIndex(idx)
}

// playIndex connects to the station at idx. playMu must be held.
func (s *serviceImpl) playIndex(idx int) error {
	s.mu.Lock()
	st := s.stations[idx]
	prev := s.currentStationLocked()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	// Stamp the callbacks with this session so leftovers from the previous
	// stream cannot clobber the new one.
	s.player.OnTitle(func(title string) {
		select {
		case s.titleCh <- titleUpdate{gen: gen, title: title}:
		default:
		}
	})
	s.player.OnStopped(func() {
		select {
		case s.stoppedCh <- gen:
		default:
		}
	})

	s.setState(StateConnecting)
	s.log.Infow("connecting", "station", st.Name, "url", st.URL)

	if err := s.player.Play(st.URL); err != nil {
		s.setState(StateStopped)
		s.log.Errorw("failed to play station",
			"station", st.Name,
			"url", st.URL,
			"error", err)
		s.forEachSub(func(sub *Subscription) {
			sub.sendError(ErrorEvent{Operation: "play", URL: st.URL, Err: err})
		})
		return err
	}

	s.mu.Lock()
	s.current = idx
	s.title = ""
	s.mu.Unlock()

	s.setState(StatePlaying)
	s.forEachSub(func(sub *Subscription) {
		sub.sendStation(StationChange{Previous: prev, Current: &st})
	})
	s.persistState()
	s.log.Infow("playing", "station", st.Name)
	return nil
}

// Stop ends playback. The tuned station is kept so Play resumes it.
func (s *serviceImpl) Stop() {
	s.playMu.Lock()
	defer s.playMu.Unlock()
	s.stopLocked()
}

// stopLocked tears down the stream. playMu must be held.
func (s *serviceImpl) stopLocked() {
	s.player.Stop()

	s.mu.Lock()
	s.title = ""
	s.mu.Unlock()

	s.setState(StateStopped)
}

// Toggle starts playback when stopped and stops it otherwise.
func (s *serviceImpl) Toggle() error {
	if s.State() == StateStopped {
		return s.Play()
	}
	s.Stop()
	return nil
}

// NextStation tunes to the next station in list order, wrapping at the end,
// and starts playing it.
func (s *serviceImpl) NextStation() error {
	return s.step(1)
}

// PreviousStation tunes to the previous station in list order, wrapping at
// the start, and starts playing it.
func (s *serviceImpl) PreviousStation() error {
	return s.step(-1)
}

func (s *serviceImpl) step(delta int) error {
	s.playMu.Lock()
	defer s.playMu.Unlock()

	s.mu.RLock()
	count := len(s.stations)
	idx := s.current
	s.mu.RUnlock()

	if count == 0 {
		return ErrNoStations
	}
	if idx < 0 {
		// Nothing tuned yet: next starts at the top, previous at the bottom.
		if delta > 0 {
			idx = 0
		} else {
			idx = count - 1
		}
	} else {
		idx = (idx + delta + count) % count
	}
	return s.playIndex(idx)
}

// SetVolume sets the output volume (0.0 to 1.0) and persists it.
func (s *serviceImpl) SetVolume(level float64) {
	level = clampLevel(level)

	s.playMu.Lock()
	s.player.SetVolume(level)
	s.playMu.Unlock()

	s.mu.Lock()
	s.volume = level
	muted := s.muted
	s.mu.Unlock()

	s.forEachSub(func(sub *Subscription) {
		sub.sendVolume(VolumeChange{Level: level, Muted: muted})
	})
	s.persistState()
}

// Volume returns the current volume level.
func (s *serviceImpl) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// VolumeUp raises the volume by one step.
func (s *serviceImpl) VolumeUp() {
	s.SetVolume(s.Volume() + s.volumeStep)
}

// VolumeDown lowers the volume by one step.
func (s *serviceImpl) VolumeDown() {
	s.SetVolume(s.Volume() - s.volumeStep)
}

// ToggleMute flips the mute flag without touching the volume level.
func (s *serviceImpl) ToggleMute() {
	s.mu.Lock()
	s.muted = !s.muted
	muted := s.muted
	level := s.volume
	s.mu.Unlock()

	s.playMu.Lock()
	s.player.SetMuted(muted)
	s.playMu.Unlock()

	s.forEachSub(func(sub *Subscription) {
		sub.sendVolume(VolumeChange{Level: level, Muted: muted})
	})
	s.persistState()
}

// Muted returns whether output is muted.
func (s *serviceImpl) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

// State returns the current playback state.
func (s *serviceImpl) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsPlaying reports whether a stream is connected and audible.
func (s *serviceImpl) IsPlaying() bool {
	return s.State() == StatePlaying
}

// IsStopped reports whether playback is fully stopped.
func (s *serviceImpl) IsStopped() bool {
	return s.State() == StateStopped
}

// CurrentStation returns the tuned station, or nil when nothing was tuned.
func (s *serviceImpl) CurrentStation() *station.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentStationLocked()
}

func (s *serviceImpl) currentStationLocked() *station.Station {
	if s.current < 0 || s.current >= len(s.stations) {
		return nil
	}
	st := s.stations[s.current]
	return &st
}

// NowPlaying returns the current stream title, or "" when none was reported.
func (s *serviceImpl) NowPlaying() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// StreamInfo returns the connected stream's metadata, or nil when stopped.
func (s *serviceImpl) StreamInfo() *player.StreamInfo {
	s.playMu.Lock()
	defer s.playMu.Unlock()
	return s.player.StreamInfo()
}

// BytesReceived reports the bytes read from the current stream connection.
func (s *serviceImpl) BytesReceived() int64 {
	s.playMu.Lock()
	defer s.playMu.Unlock()
	return s.player.BytesReceived()
}

// Stations returns a copy of the station list in display order.
func (s *serviceImpl) Stations() []station.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]station.Station, len(s.stations))
	copy(result, s.stations)
	return result
}

// AddStation persists a new station and refreshes the list.
func (s *serviceImpl) AddStation(name, url, icon string) (*station.Station, error) {
	s.playMu.Lock()
	defer s.playMu.Unlock()

	st, err := s.store.Add(name, url, icon)
	if err != nil {
		return nil, err
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	s.log.Infow("station added", "name", st.Name, "url", st.URL)
	return st, nil
}

// RemoveStation deletes a station. Removing the tuned station stops playback
// first.
func (s *serviceImpl) RemoveStation(id int64) error {
	s.playMu.Lock()
	defer s.playMu.Unlock()

	s.mu.RLock()
	tuned := s.current >= 0 && s.current < len(s.stations) && s.stations[s.current].ID == id
	s.mu.RUnlock()

	if tuned {
		s.stopLocked()
	}
	if err := s.store.Remove(id); err != nil {
		return err
	}
	if err := s.reload(); err != nil {
		return err
	}
	s.log.Infow("station removed", "id", id)
	return nil
}

// reload refreshes the cached station list from the store, keeping the tuned
// station by id when it survived.
func (s *serviceImpl) reload() error {
	stations, err := s.store.Stations()
	if err != nil {
		return err
	}

	s.mu.Lock()
	var currentID int64
	if s.current >= 0 && s.current < len(s.stations) {
		currentID = s.stations[s.current].ID
	}
	s.stations = stations
	s.current = -1
	for i := range stations {
		if stations[i].ID == currentID {
			s.current = i
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback and shuts down the service.
func (s *serviceImpl) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()

	s.playMu.Lock()
	s.player.Stop()
	s.playMu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
}

func (s *serviceImpl) setState(next State) {
	s.mu.Lock()
	prev := s.state
	if prev == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()

	s.forEachSub(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: next})
	})
}

func (s *serviceImpl) persistState() {
	s.mu.RLock()
	state := station.PlayerState{Volume: s.volume, Muted: s.muted}
	if s.current >= 0 && s.current < len(s.stations) {
		id := s.stations[s.current].ID
		state.LastStationID = &id
	}
	s.mu.RUnlock()
	s.store.SavePlayerState(state)
}

func (s *serviceImpl) forEachSub(fn func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}

func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
