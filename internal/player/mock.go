package player

// Mock is a test double for Player.
type Mock struct {
	state     State
	info      *StreamInfo
	bytes     int64
	volume    float64
	muted     bool
	playErr   error
	playCalls []string
	stopCalls int
	onTitle   func(string)
	onStopped func()
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Stopped,
		volume: 1.0,
	}
}

func (m *Mock) Play(url string) error {
	m.playCalls = append(m.playCalls, url)
	if m.playErr != nil {
		m.state = Stopped
		return m.playErr
	}
	m.state = Playing
	m.info = &StreamInfo{URL: url, Format: "MP3"}
	return nil
}

func (m *Mock) Stop() {
	m.stopCalls++
	m.state = Stopped
	m.info = nil
}

func (m *Mock) State() State { return m.state }

func (m *Mock) StreamInfo() *StreamInfo { return m.info }

func (m *Mock) BytesReceived() int64 { return m.bytes }

func (m *Mock) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	m.volume = level
}

func (m *Mock) Volume() float64 { return m.volume }

func (m *Mock) SetMuted(muted bool) { m.muted = muted }

func (m *Mock) Muted() bool { return m.muted }

func (m *Mock) OnTitle(fn func(string)) { m.onTitle = fn }

func (m *Mock) OnStopped(fn func()) { m.onStopped = fn }

// Test helpers

func (m *Mock) SetState(s State) { m.state = s }

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) PlayCalls() []string { return m.playCalls }

func (m *Mock) StopCalls() int { return m.stopCalls }

func (m *Mock) SetStreamInfo(info *StreamInfo) { m.info = info }

func (m *Mock) SetBytesReceived(n int64) { m.bytes = n }

// SimulateTitle feeds a stream title through the registered callback.
func (m *Mock) SimulateTitle(title string) {
	if m.onTitle != nil {
		m.onTitle(title)
	}
}

// SimulateStopped simulates the stream dropping on its own.
func (m *Mock) SimulateStopped() {
	m.state = Stopped
	m.info = nil
	if m.onStopped != nil {
		m.onStopped()
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
