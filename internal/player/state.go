package player

// State represents the stream playback state machine.
//
// Live streams have no pause: once the connection is torn down the server
// keeps broadcasting, so "resume" would rejoin live anyway. Stop is the only
// way out of playback.
//
//	┌──────────┐     play      ┌────────────┐   decoder ready   ┌──────────┐
//	│  Stopped │ ─────────────▶│ Connecting │ ─────────────────▶│  Playing │
//	└──────────┘               └────────────┘                   └──────────┘
//	     ▲                            │                              │
//	     │        connect failed      │           stop / drop        │
//	     └────────────────────────────┴──────────────────────────────┘
//
// Valid transitions:
//   - Stopped    → Connecting (via Play)
//   - Connecting → Playing    (decoder initialized)
//   - Connecting → Stopped    (connection or decoder failure)
//   - Playing    → Stopped    (via Stop, or the stream dropping)
type State int

const (
	Stopped State = iota
	Connecting
	Playing
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Connecting:
		return "Connecting"
	case Playing:
		return "Playing"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a stream is being fetched or played.
func (s State) IsActive() bool {
	return s == Connecting || s == Playing
}
