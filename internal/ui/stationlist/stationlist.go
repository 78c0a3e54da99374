// Package stationlist renders the scrollable list of saved stations.
package stationlist

import (
	"fmt"
	"strings"

	"github.com/llehouerou/tuner/internal/icons"
	"github.com/llehouerou/tuner/internal/station"
	"github.com/llehouerou/tuner/internal/ui"
	"github.com/llehouerou/tuner/internal/ui/cursor"
	"github.com/llehouerou/tuner/internal/ui/render"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// markerWidth is the column reserved for the playback indicator.
const markerWidth = 2

// Model is the station list panel.
type Model struct {
	ui.Base
	stations   []station.Station
	cursor     cursor.Cursor
	playingID  int64 // 0 when nothing is tuned
	connecting bool
}

// New creates an empty station list.
func New() Model {
	return Model{cursor: cursor.New(ui.ScrollMargin)}
}

// SetStations replaces the list contents, keeping the cursor in bounds.
func (m *Model) SetStations(stations []station.Station) {
	m.stations = stations
	m.cursor.ClampToBounds(len(stations))
}

// SetSize resizes the panel and rescrolls so the cursor row stays visible.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.cursor.EnsureVisible(len(m.stations), m.listHeight())
}

// Len returns the number of stations in the list.
func (m Model) Len() int {
	return len(m.stations)
}

// Selected returns the station under the cursor.
func (m Model) Selected() (station.Station, bool) {
	if len(m.stations) == 0 {
		return station.Station{}, false
	}
	return m.stations[m.cursor.Pos()], true
}

// SelectByID moves the cursor to the station with the given id, if present.
func (m *Model) SelectByID(id int64) {
	for i, s := range m.stations {
		if s.ID == id {
			m.cursor.Jump(i, len(m.stations), m.listHeight())
			return
		}
	}
}

// SetPlaying marks the station currently on air. Pass 0 to clear.
func (m *Model) SetPlaying(id int64, connecting bool) {
	m.playingID = id
	m.connecting = connecting
}

// PlayingID returns the id of the station marked as on air, 0 for none.
func (m Model) PlayingID() int64 {
	return m.playingID
}

// Connecting reports whether the marked station is still buffering.
func (m Model) Connecting() bool {
	return m.connecting
}

// HandleKey applies a navigation key and reports whether it was handled.
func (m *Model) HandleKey(key string) bool {
	return m.cursor.HandleKey(key, len(m.stations), m.listHeight())
}

func (m Model) listHeight() int {
	return m.ListHeight(ui.PanelOverhead)
}

// View renders the bordered panel.
func (m Model) View() string {
	if m.Width() <= ui.BorderHeight || m.Height() <= ui.PanelOverhead {
		return ""
	}

	innerWidth := m.Width() - ui.BorderHeight
	s := styles.T().S()

	header := render.Row(
		s.Title.Render("Stations"),
		s.Muted.Render(fmt.Sprintf("%d", len(m.stations))),
		innerWidth,
	)
	content := header + "\n" + s.Subtle.Render(render.Separator(innerWidth)) +
		"\n" + m.renderList(innerWidth, m.listHeight())

	return styles.PanelStyle(m.IsFocused()).Width(innerWidth).Render(content)
}

// renderList renders exactly listHeight rows, padding past the end of the
// station list so the panel height stays stable.
func (m Model) renderList(innerWidth, listHeight int) string {
	lines := make([]string, 0, listHeight)
	for i := range listHeight {
		idx := i + m.cursor.Offset()
		if idx >= len(m.stations) {
			if idx == 0 && i == 0 {
				lines = append(lines, m.renderEmpty(innerWidth))
				continue
			}
			lines = append(lines, render.EmptyLine(innerWidth))
			continue
		}
		lines = append(lines, m.renderRow(idx, innerWidth))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i, width int) string {
	s := styles.T().S()
	st := m.stations[i]

	marker := "  "
	if st.ID == m.playingID && m.playingID != 0 {
		if m.connecting {
			marker = s.Warning.Render(render.Pad("…", markerWidth))
		} else {
			marker = s.Playing.Render(render.Pad(icons.Play(), markerWidth))
		}
	}

	name := render.TruncateAndPad(icons.FormatStation(st.Name), width-markerWidth)
	switch {
	case i == m.cursor.Pos():
		return marker + s.Cursor.Render(name)
	case st.ID == m.playingID && m.playingID != 0:
		return marker + s.Playing.Render(name)
	default:
		return marker + s.Base.Render(name)
	}
}

func (m Model) renderEmpty(width int) string {
	s := styles.T().S()
	return s.Muted.Render(render.TruncateAndPad("No stations yet. Press a to add one.", width))
}
