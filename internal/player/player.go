// Package player plays internet radio streams through the system speaker.
package player

import (
	"io"
	"net/http"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

type Player struct {
	state    State
	streamer beep.StreamCloser
	format   beep.Format
	body     io.ReadCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	volumeLevel float64
	muted       bool

	info    *StreamInfo
	counter *countingReader

	done      chan struct{}
	closeDone func()

	onTitle   func(string)
	onStopped func()

	client *http.Client
}

var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

func New() *Player {
	return &Player{
		state:       Stopped,
		volumeLevel: 1.0,
		client:      newStreamClient(),
	}
}

// Stop tears down the stream connection and releases resources.
func (p *Player) Stop() {
	if p.state == Stopped {
		return
	}

	speaker.Clear()

	if p.closeDone != nil {
		p.closeDone()
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.body != nil {
		p.body.Close()
		p.body = nil
	}

	p.ctrl = nil
	p.volume = nil
	p.info = nil
	p.counter = nil
	p.state = Stopped
}

// State returns the current playback state.
func (p *Player) State() State { return p.state }

// StreamInfo returns the connected stream's metadata, or nil when stopped.
func (p *Player) StreamInfo() *StreamInfo { return p.info }

// BytesReceived returns the number of raw bytes read from the current
// connection.
func (p *Player) BytesReceived() int64 {
	if p.counter == nil {
		return 0
	}
	return p.counter.Count()
}

// OnTitle registers a callback for stream title changes. Each Play captures
// the callback registered at that moment. The callback runs on the audio
// pipeline goroutine.
func (p *Player) OnTitle(fn func(string)) {
	p.onTitle = fn
}

// OnStopped registers a callback invoked when the stream ends on its own
// (connection drop or decoder failure). It does not fire for Stop. Each Play
// captures the callback registered at that moment, so it can be swapped
// between sessions from the goroutine that calls Play. The callback runs on
// the speaker goroutine.
func (p *Player) OnStopped(fn func()) {
	p.onStopped = fn
}

// armDone prepares the end-of-stream signal for a new play session. The
// returned closer is idempotent so Stop and the stream callback can race
// safely.
func (p *Player) armDone() (chan struct{}, func()) {
	done := make(chan struct{})
	closeDone := sync.OnceFunc(func() { close(done) })
	p.done = done
	p.closeDone = closeDone
	return done, closeDone
}
