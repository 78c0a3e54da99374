package player

import (
	"io"
	"strconv"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/tuner/internal/icy"
)

// Play connects to the given stream URL and starts playback. It blocks until
// the connection is up and the decoder has produced a format, then hands the
// stream to the speaker.
func (p *Player) Play(url string) error {
	p.Stop()

	// Small delay to let any pending Beep callback complete after speaker.Clear()
	time.Sleep(10 * time.Millisecond)

	p.state = Connecting

	resp, err := p.resolveStream(url)
	if err != nil {
		p.state = Stopped
		return err
	}

	info := readStreamInfo(resp, url)
	counter := &countingReader{r: resp.Body}

	// Strip interleaved metadata when the server announces it
	var audio io.Reader = counter
	if metaint, _ := strconv.Atoi(resp.Header.Get("Icy-Metaint")); metaint > 0 {
		audio = icy.NewReader(counter, metaint, p.onTitle)
	}

	decode, formatName, err := decoderFor(resp.Header.Get("Content-Type"))
	if err != nil {
		resp.Body.Close()
		p.state = Stopped
		return err
	}
	info.Format = formatName

	streamer, format, err := decode(readCloser{audio, resp.Body})
	if err != nil {
		resp.Body.Close()
		p.state = Stopped
		return err
	}

	if !speakerInitialized {
		speakerSampleRate = format.SampleRate
		err = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
		if err != nil {
			streamer.Close()
			p.state = Stopped
			return err
		}
		speakerInitialized = true
	}

	p.body = resp.Body
	p.streamer = streamer
	p.format = format
	p.info = info
	p.counter = counter

	// Resample if the stream's sample rate differs from the speaker's
	var playStreamer beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: false}
	p.volume = newVolumeEffect(p.ctrl, p.volumeLevel, p.muted)

	p.state = Playing
	done, closeDone := p.armDone()

	// The callback registered at this point is the one notified for this
	// stream, even if OnStopped is swapped before the next Play.
	onStopped := p.onStopped
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		select {
		case <-done:
			// Torn down by Stop; nothing to report
		default:
			closeDone()
			if onStopped != nil {
				onStopped()
			}
		}
	})))

	return nil
}

// readCloser pairs the metadata-stripping reader with the connection body so
// the decoder's Close tears down the network connection.
type readCloser struct {
	io.Reader
	io.Closer
}
