package player

import (
	"bufio"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
)

// Playlist files are tiny; anything bigger is not a playlist.
const maxPlaylistSize = 64 * 1024

// isPlaylist reports whether the response is a .pls/.m3u playlist rather
// than the stream itself. Station directories commonly hand out playlist
// URLs that wrap the actual stream.
func isPlaylist(contentType, rawURL string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch ct {
	case "audio/x-scpls", "application/pls+xml":
		return true
	case "audio/x-mpegurl", "audio/mpegurl", "application/x-mpegurl", "application/vnd.apple.mpegurl":
		return true
	}

	if u, err := url.Parse(rawURL); err == nil {
		switch strings.ToLower(path.Ext(u.Path)) {
		case ".pls", ".m3u", ".m3u8":
			return true
		}
	}

	return false
}

// readPlaylistTarget extracts the first stream URL from a playlist body.
// Handles both PLS ("File1=http://...") and M3U (bare URL lines) formats.
func readPlaylistTarget(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(io.LimitReader(r, maxPlaylistSize))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}

		// PLS entry lines look like File1=URL; other keys (Title1, Length1) are skipped
		if i := strings.Index(line, "="); i >= 0 {
			key := strings.ToLower(line[:i])
			if !strings.HasPrefix(key, "file") {
				continue
			}
			line = strings.TrimSpace(line[i+1:])
		}

		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", errors.New("playlist contains no stream url")
}
