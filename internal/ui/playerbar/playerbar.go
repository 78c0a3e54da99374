// Package playerbar renders the playback status bar at the bottom of the
// screen, in a compact single line or an expanded multi line form.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tuner/internal/icons"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/ui"
	"github.com/llehouerou/tuner/internal/ui/render"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// DisplayMode selects between the compact and expanded bar.
type DisplayMode int

const (
	ModeCompact DisplayMode = iota
	ModeExpanded
)

// State is a snapshot of everything the bar displays. Snapshotting keeps
// rendering free of service calls.
type State struct {
	Playing     bool
	Connecting  bool
	Station     string
	StreamTitle string
	Genre       string
	Format      string
	Bitrate     int // kbit/s, 0 when the server does not report one
	Bytes       int64
	Volume      float64
	Muted       bool
	Spinner     string // pre-rendered spinner frame, shown while connecting
	Mode        DisplayMode
}

// NewState captures the current playback state of the service.
func NewState(svc playback.Service, mode DisplayMode, spinner string) State {
	s := State{Mode: mode, Spinner: spinner}

	switch svc.State() {
	case playback.StateConnecting:
		s.Connecting = true
	case playback.StatePlaying:
		s.Playing = true
	case playback.StateStopped:
		return s
	}

	if cur := svc.CurrentStation(); cur != nil {
		s.Station = cur.Name
	}
	s.StreamTitle = render.Sanitize(svc.NowPlaying())
	if info := svc.StreamInfo(); info != nil {
		s.Genre = info.Genre
		s.Format = info.Format
		s.Bitrate = info.Bitrate
	}
	s.Bytes = svc.BytesReceived()
	s.Volume = svc.Volume()
	s.Muted = svc.Muted()
	return s
}

// Height returns the number of terminal rows the bar occupies in the given
// mode, border included.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 4 + ui.BorderHeight
	}
	return 1 + ui.BorderHeight
}

// Render renders the bar. Returns "" when nothing is tuned.
func Render(s State, width int) string {
	if !s.Playing && !s.Connecting {
		return ""
	}
	innerWidth := width - ui.BorderHeight
	if innerWidth < ui.MinVolumeBarWidth {
		return ""
	}

	mode := s.Mode
	if mode == ModeExpanded && width < ui.MinExpandedWidth {
		mode = ModeCompact
	}

	var content string
	if mode == ModeExpanded {
		content = renderExpanded(s, innerWidth)
	} else {
		content = renderCompact(s, innerWidth)
	}

	return styles.PanelStyle(false).Width(innerWidth).Render(content)
}

func renderCompact(s State, width int) string {
	st := styles.T().S()

	left := statusSymbol(s) + " " + st.Playing.Render(render.Truncate(s.Station, width/3))
	if s.StreamTitle != "" {
		left += st.Muted.Render("  ") + st.Base.Render(render.TruncateEllipsis(s.StreamTitle, width/2))
	}

	right := renderVolume(s.Volume, s.Muted, volumeBarWidth)
	if tech := techSummary(s); tech != "" {
		right = st.Muted.Render(tech) + "  " + right
	}

	return render.Row(left, right, width)
}

func renderExpanded(s State, width int) string {
	st := styles.T().S()
	lines := make([]string, 0, 4)

	// Station name with the volume bar on the right
	lines = append(lines, render.Row(
		statusSymbol(s)+" "+st.Playing.Render(render.Truncate(s.Station, width/2)),
		renderVolume(s.Volume, s.Muted, volumeBarWidth),
		width,
	))

	if s.StreamTitle != "" {
		note := icons.Note()
		if note != "" {
			note += " "
		}
		lines = append(lines, st.Base.Render(note+render.TruncateEllipsis(s.StreamTitle, width-2)))
	} else {
		lines = append(lines, st.Subtle.Render("(no title)"))
	}

	genre := render.Truncate(s.Genre, width-2)
	if genre == "" {
		genre = " "
	}
	lines = append(lines, st.Muted.Render(genre))

	lines = append(lines, st.Muted.Render(render.Truncate(techDetail(s), width)))

	return strings.Join(lines, "\n")
}

// statusSymbol returns the spinner while buffering, the play marker on air.
func statusSymbol(s State) string {
	if s.Connecting {
		if s.Spinner != "" {
			return s.Spinner
		}
		return styles.T().S().Warning.Render("…")
	}
	return styles.T().S().Playing.Render(icons.Play())
}

// techSummary is the short bitrate/bytes block for the compact bar.
func techSummary(s State) string {
	parts := make([]string, 0, 2)
	if s.Bitrate > 0 {
		parts = append(parts, fmt.Sprintf("%d kbps", s.Bitrate))
	}
	if s.Bytes > 0 {
		parts = append(parts, humanize.IBytes(uint64(s.Bytes))) //nolint:gosec // byte counter is non-negative
	}
	return strings.Join(parts, " · ")
}

// techDetail is the full format line for the expanded bar.
func techDetail(s State) string {
	parts := make([]string, 0, 3)
	if s.Format != "" {
		parts = append(parts, s.Format)
	}
	if s.Bitrate > 0 {
		parts = append(parts, fmt.Sprintf("%d kbps", s.Bitrate))
	}
	if s.Bytes > 0 {
		parts = append(parts, humanize.IBytes(uint64(s.Bytes))+" received") //nolint:gosec // byte counter is non-negative
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, " · ")
}
