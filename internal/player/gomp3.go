package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/llehouerou/go-mp3"
)

type decodeFunc func(io.ReadCloser) (beep.StreamCloser, beep.Format, error)

// decoderFor picks a decoder from the stream's Content-Type. Radio servers
// misreport or omit the type often enough that unknown-but-plausible values
// fall back to MP3, the dominant stream codec.
func decoderFor(contentType string) (decodeFunc, string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch ct {
	case "audio/mpeg", "audio/mp3", "audio/x-mpeg":
		return decodeMP3Stream, "MP3", nil
	case "application/ogg", "audio/ogg", "audio/vorbis", "application/x-ogg":
		return decodeVorbisStream, "OGG", nil
	case "", "application/octet-stream":
		return decodeMP3Stream, "MP3", nil
	}

	return nil, "", fmt.Errorf("unsupported stream type %q", contentType)
}

func decodeVorbisStream(rc io.ReadCloser) (beep.StreamCloser, beep.Format, error) {
	s, format, err := vorbis.Decode(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return s, format, nil
}

// mp3StreamDecoder wraps llehouerou/go-mp3 to implement beep.StreamCloser.
// The source is a live connection, so unlike a file decoder there is no
// length and no seeking.
type mp3StreamDecoder struct {
	decoder *mp3.Decoder
	closer  io.Closer
	err     error
	readBuf []byte // reusable buffer for reading
}

// decodeMP3Stream decodes an MP3 stream using the llehouerou/go-mp3 library.
func decodeMP3Stream(rc io.ReadCloser) (beep.StreamCloser, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2, // go-mp3 always outputs stereo
		Precision:   2, // 16-bit
	}

	d := &mp3StreamDecoder{
		decoder: decoder,
		closer:  rc,
		readBuf: make([]byte, 8192),
	}

	return d, format, nil
}

// Stream reads audio samples into the provided buffer.
func (d *mp3StreamDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	// 4 bytes per sample (stereo 16-bit)
	bytesNeeded := len(samples) * 4
	if len(d.readBuf) < bytesNeeded {
		d.readBuf = make([]byte, bytesNeeded)
	}

	// Read from decoder
	bytesRead, err := io.ReadFull(d.decoder, d.readBuf[:bytesNeeded])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	// Calculate samples read (4 bytes per sample)
	samplesRead := bytesRead / 4
	if samplesRead == 0 {
		return 0, false
	}

	// Convert to float64 stereo samples
	for i := 0; i < samplesRead && i < len(samples); i++ {
		offset := i * 4
		if offset+4 <= bytesRead {
			left := int16(binary.LittleEndian.Uint16(d.readBuf[offset:]))    //nolint:gosec // audio samples
			right := int16(binary.LittleEndian.Uint16(d.readBuf[offset+2:])) //nolint:gosec // audio samples
			samples[i][0] = float64(left) / 32768.0
			samples[i][1] = float64(right) / 32768.0
		}
		n++
	}

	return n, true
}

// Err returns any error that occurred during streaming.
func (d *mp3StreamDecoder) Err() error {
	return d.err
}

// Close closes the decoder and underlying connection.
func (d *mp3StreamDecoder) Close() error {
	return d.closer.Close()
}
