package player

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

const userAgent = "tuner/0.1 (+https://github.com/llehouerou/tuner)"

// newStreamClient builds an HTTP client suitable for endless bodies: the
// dial and header phases time out, the body never does.
func newStreamClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
		},
	}
}

func (p *Player) fetch(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	// Ask SHOUTcast-style servers to interleave title metadata
	req.Header.Set("Icy-MetaData", "1")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("server status %s", resp.Status)
	}

	return resp, nil
}

// resolveStream fetches the URL and follows at most one playlist indirection
// (.pls/.m3u files that carry the actual stream URL).
func (p *Player) resolveStream(url string) (*http.Response, error) {
	resp, err := p.fetch(url)
	if err != nil {
		return nil, err
	}

	if !isPlaylist(resp.Header.Get("Content-Type"), url) {
		return resp, nil
	}

	target, err := readPlaylistTarget(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	return p.fetch(target)
}
