package playback

// State represents the playback state as seen by the rest of the app.
type State int

const (
	StateStopped State = iota
	StateConnecting
	StatePlaying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateConnecting:
		return "Connecting"
	case StatePlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a stream is being fetched or played.
func (s State) IsActive() bool {
	return s == StateConnecting || s == StatePlaying
}
