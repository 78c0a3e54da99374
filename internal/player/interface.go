package player

// Interface defines the player contract for dependency injection and testing.
type Interface interface {
	Play(url string) error
	Stop()
	State() State
	StreamInfo() *StreamInfo
	BytesReceived() int64
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
	OnTitle(fn func(string))
	OnStopped(fn func())
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
