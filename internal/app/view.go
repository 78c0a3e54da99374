package app

import (
	"fmt"
	"strings"

	"github.com/llehouerou/tuner/internal/ui/headerbar"
	"github.com/llehouerou/tuner/internal/ui/overlay"
	"github.com/llehouerou/tuner/internal/ui/playerbar"
	"github.com/llehouerou/tuner/internal/ui/render"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

const (
	headerHeight = headerbar.Height
	footerHeight = 1
)

// View renders the whole screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	view := headerbar.Render(m.width, m.headerStatus())
	view += "\n" + m.stations.View()

	if m.service.State().IsActive() {
		bar := playerbar.Render(playerbar.NewState(m.service, m.barMode, m.spinner.View()), m.width)
		if bar != "" {
			view += "\n" + bar
		}
	}

	view += "\n" + m.renderFooter()
	view = enforceHeight(view, m.height)

	if m.addForm.Active() {
		box := overlay.Center(m.addForm.View(), m.width, m.height)
		view = overlay.Compose(view, box, m.width, m.height)
	}

	return view
}

func (m Model) headerStatus() string {
	if n := m.stations.Len(); n != 1 {
		return fmt.Sprintf("%d stations", n)
	}
	return "1 station"
}

func (m Model) renderFooter() string {
	s := styles.T().S()
	if m.errorMsg != "" {
		return s.Error.Render(render.Truncate(m.errorMsg, m.width))
	}
	return s.Subtle.Render(render.Truncate(footerHints(), m.width))
}

// enforceHeight pads or truncates the view to exactly targetHeight lines.
func enforceHeight(view string, targetHeight int) string {
	lines := strings.Split(view, "\n")
	if len(lines) == targetHeight {
		return view
	}
	if len(lines) > targetHeight {
		return strings.Join(lines[:targetHeight], "\n")
	}
	for len(lines) < targetHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
