package playback

import "github.com/llehouerou/tuner/internal/station"

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// StationChange is emitted when playback starts on a station.
//
// Emitted by:
//   - Play/PlayStation: on every successful connect, including replaying
//     the tuned station
//   - NextStation/PreviousStation: when navigating
//
// NOT emitted by:
//   - Stop or a stream drop: ending playback does not emit StationChange
//
// Previous is the station that was tuned before, nil on the first play. The
// app handles all station-related side effects (notifications, the
// now-playing line, media remote metadata) in response to this event.
type StationChange struct {
	Previous *station.Station
	Current  *station.Station
}

// TitleChange is emitted when the stream reports a new now-playing title.
type TitleChange struct {
	Title string
}

// VolumeChange is emitted when the volume level or mute flag changes.
type VolumeChange struct {
	Level float64
	Muted bool
}

// ErrorEvent is emitted when an error occurs during playback.
type ErrorEvent struct {
	Operation string // e.g., "play", "stream"
	URL       string // stream url if applicable
	Err       error
}
