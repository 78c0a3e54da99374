// Package icy strips interleaved ICY metadata from SHOUTcast-style streams.
//
// Servers announce metadata with an "icy-metaint" response header: every
// metaint audio bytes, the stream carries one length byte followed by
// length*16 bytes of zero-padded metadata ("StreamTitle='...';").
package icy

import (
	"io"
	"strings"
)

// Reader passes the audio bytes of an ICY stream through and reports
// stream titles as they change. With metaint <= 0 it is a plain passthrough.
type Reader struct {
	src       io.Reader
	metaint   int
	remaining int
	onTitle   func(string)
	lastTitle string
	hasTitle  bool
}

// NewReader wraps src. onTitle may be nil; it is called from Read whenever
// the embedded StreamTitle changes.
func NewReader(src io.Reader, metaint int, onTitle func(string)) *Reader {
	return &Reader{
		src:       src,
		metaint:   metaint,
		remaining: metaint,
		onTitle:   onTitle,
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.metaint <= 0 {
		return r.src.Read(p)
	}

	if r.remaining == 0 {
		if err := r.readMetadata(); err != nil {
			return 0, err
		}
		r.remaining = r.metaint
	}

	if len(p) > r.remaining {
		p = p[:r.remaining]
	}

	n, err := r.src.Read(p)
	r.remaining -= n
	return n, err
}

func (r *Reader) readMetadata() error {
	var length [1]byte
	if _, err := io.ReadFull(r.src, length[:]); err != nil {
		return err
	}

	size := int(length[0]) * 16
	if size == 0 {
		return nil
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return err
	}

	if title, ok := parseStreamTitle(string(buf)); ok {
		if !r.hasTitle || title != r.lastTitle {
			r.hasTitle = true
			r.lastTitle = title
			if r.onTitle != nil {
				r.onTitle(title)
			}
		}
	}

	return nil
}

// parseStreamTitle extracts the StreamTitle value from a metadata block.
// Titles may contain single quotes, so the value ends at the last "';"
// terminator rather than the first quote.
func parseStreamTitle(meta string) (string, bool) {
	meta = strings.TrimRight(meta, "\x00")

	const key = "StreamTitle='"
	start := strings.Index(meta, key)
	if start < 0 {
		return "", false
	}

	rest := meta[start+len(key):]
	if end := strings.Index(rest, "';"); end >= 0 {
		return rest[:end], true
	}
	// Some servers omit the trailing semicolon on the last field
	if end := strings.LastIndex(rest, "'"); end >= 0 {
		return rest[:end], true
	}
	return "", false
}
