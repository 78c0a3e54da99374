package player

import (
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
)

// StreamInfo describes the connected stream, filled from the server's ICY
// response headers.
type StreamInfo struct {
	URL         string
	Name        string // icy-name, the station name as the server reports it
	Description string // icy-description
	Genre       string // icy-genre
	Bitrate     int    // icy-br, in kbit/s, 0 when not reported
	ContentType string
	Format      string // decoder in use: "MP3" or "OGG"
}

func readStreamInfo(resp *http.Response, url string) *StreamInfo {
	bitrate, _ := strconv.Atoi(resp.Header.Get("Icy-Br"))

	return &StreamInfo{
		URL:         url,
		Name:        resp.Header.Get("Icy-Name"),
		Description: resp.Header.Get("Icy-Description"),
		Genre:       resp.Header.Get("Icy-Genre"),
		Bitrate:     bitrate,
		ContentType: resp.Header.Get("Content-Type"),
	}
}

// countingReader counts raw connection bytes for the status display.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func (c *countingReader) Count() int64 {
	return c.n.Load()
}
