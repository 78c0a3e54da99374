// Package playback provides a centralized service for radio playback control.
//
// The service wraps the low-level player with station awareness: it knows
// which station is tuned, moves between stations, persists volume and the
// last played station, and broadcasts events to subscribers (UI, media
// remote, desktop notifications).
package playback

import (
	"github.com/llehouerou/tuner/internal/player"
	"github.com/llehouerou/tuner/internal/station"
)

// Service defines the interface for playback control.
type Service interface {
	// Playback control
	Play() error
	PlayStation(id int64) error
	Stop()
	Toggle() error
	NextStation() error
	PreviousStation() error

	// Volume control
	SetVolume(level float64)
	Volume() float64
	VolumeUp()
	VolumeDown()
	ToggleMute()
	Muted() bool

	// State queries
	State() State
	IsPlaying() bool
	IsStopped() bool
	CurrentStation() *station.Station
	NowPlaying() string
	StreamInfo() *player.StreamInfo
	BytesReceived() int64

	// Station list
	Stations() []station.Station
	AddStation(name, url, icon string) (*station.Station, error)
	RemoveStation(id int64) error

	// Events
	Subscribe() *Subscription

	// Lifecycle
	Close()
}
