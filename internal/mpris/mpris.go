//go:build linux

// Package mpris exposes the playback service as an MPRIS player on the
// session bus, so desktop media widgets and playerctl can see and control
// the app. Like the media keys, it is best-effort: a missing bus only costs
// remote control.
package mpris

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"

	"github.com/llehouerou/tuner/internal/playback"
)

const noTrackObjectPath = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

var (
	errNotStarted   = errors.New("not started")
	errNotSupported = errors.New("operation not supported")
)

// Adapter bridges the playback service and the MPRIS server.
type Adapter struct {
	service playback.Service
	server  *server.Server
	evt     *events.EventHandler
	sub     *playback.Subscription
	log     *zap.SugaredLogger

	mu      sync.Mutex
	connErr error

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New builds the adapter without touching the bus. Start connects.
func New(service playback.Service, log *zap.SugaredLogger) *Adapter {
	a := &Adapter{
		service: service,
		log:     log,
		connErr: errNotStarted,
		done:    make(chan struct{}),
	}

	a.server = server.NewServer("tuner", &rootAdapter{}, &playerAdapter{service: service})
	a.evt = events.NewEventHandler(a.server)
	a.sub = service.Subscribe()

	return a
}

// Start registers the player on the session bus and begins forwarding
// playback events. Connection errors are logged, never returned.
func (a *Adapter) Start() {
	a.setConnErr(nil)

	go func() {
		// Listen blocks until Stop; an early return means the bus or the
		// name request failed.
		if err := a.server.Listen(); err != nil {
			a.setConnErr(err)
			a.log.Warnw("mpris unavailable", "error", err)
		}
	}()

	a.wg.Add(1)
	go a.loop()
}

// Stop deregisters from the bus and stops event forwarding. Safe to call
// more than once.
func (a *Adapter) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		a.wg.Wait()

		if a.connected() {
			if err := a.server.Stop(); err != nil {
				a.log.Debugw("failed to stop mpris server", "error", err)
			}
		}
		a.setConnErr(errors.New("stopped"))
	})
}

// loop forwards playback events to the bus as property changes. The
// adapters answer with current service state when a widget then asks.
func (a *Adapter) loop() {
	defer a.wg.Done()

	for {
		select {
		case <-a.sub.StateChanged:
			if a.connected() {
				a.evt.Player.OnPlayPause()
			}
		case <-a.sub.StationChanged:
			if a.connected() {
				a.evt.Player.OnTitle()
			}
		case <-a.sub.TitleChanged:
			if a.connected() {
				a.evt.Player.OnTitle()
			}
		case <-a.sub.VolumeChanged:
			if a.connected() {
				a.evt.Player.OnVolume()
			}
		case <-a.sub.Error:
			// Nothing to surface over MPRIS.
		case <-a.sub.Done:
			return
		case <-a.done:
			return
		}
	}
}

func (a *Adapter) connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connErr == nil
}

func (a *Adapter) setConnErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connErr = err
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tuner", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "application/ogg", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Next() error {
	return p.service.NextStation()
}

func (p *playerAdapter) Previous() error {
	return p.service.PreviousStation()
}

func (p *playerAdapter) Pause() error {
	// Live streams cannot pause; the closest honest behavior is a stop.
	p.service.Stop()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.service.Toggle()
}

func (p *playerAdapter) Stop() error {
	p.service.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.service.IsStopped() {
		return p.service.Play()
	}
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return errNotSupported
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return errNotSupported
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return errNotSupported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.State() {
	case playback.StatePlaying, playback.StateConnecting:
		// Connecting reads as playing; the stream is coming up.
		return types.PlaybackStatusPlaying, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	st := p.service.CurrentStation()
	if st == nil {
		return types.Metadata{TrackId: noTrackObjectPath}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(st.ID)),
		Title:   st.Name,
		Artist:  []string{st.Name},
	}

	// The ICY title is the closest thing a stream has to a track title.
	if title := p.service.NowPlaying(); title != "" {
		meta.Title = title
	}

	if info := p.service.StreamInfo(); info != nil && info.Genre != "" {
		meta.Genre = []string{info.Genre}
	}

	if st.Icon != "" {
		meta.ArtUrl = artURL(st.Icon)
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.service.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.service.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil // Live streams have no position
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return len(p.service.Stations()) > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return len(p.service.Stations()) > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.service.Stations()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	// Desktop widgets hide their toggle without it; Pause acts as Stop.
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(id int64) string {
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", id)
}

func artURL(icon string) string {
	if strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") {
		return icon
	}
	return "file://" + icon
}
