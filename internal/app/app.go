// Package app wires the terminal interface together: the station list, the
// player bar, the add station form, and the playback service events that
// feed them.
package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/tuner/internal/config"
	"github.com/llehouerou/tuner/internal/notify"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/ui/addstation"
	"github.com/llehouerou/tuner/internal/ui/playerbar"
	"github.com/llehouerou/tuner/internal/ui/stationlist"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// Model is the bubbletea root model.
type Model struct {
	cfg      *config.Config
	service  playback.Service
	notifier notify.Notifier
	icons    *notify.IconCache
	log      *zap.SugaredLogger

	sub *playback.Subscription

	stations stationlist.Model
	addForm  addstation.Model
	spinner  spinner.Model
	barMode  playerbar.DisplayMode

	width, height int
	errorMsg      string
	lastNotifyID  uint32
}

// New builds the root model. notifier and iconCache may be nil when desktop
// notifications are disabled or unavailable.
func New(cfg *config.Config, service playback.Service, notifier notify.Notifier, iconCache *notify.IconCache, log *zap.SugaredLogger) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.T().S().Warning),
	)

	stations := stationlist.New()
	stations.SetFocused(true)
	stations.SetStations(service.Stations())

	return Model{
		cfg:      cfg,
		service:  service,
		notifier: notifier,
		icons:    iconCache,
		log:      log,
		sub:      service.Subscribe(),
		stations: stations,
		addForm:  addstation.New(),
		spinner:  sp,
	}
}

// Init starts watching playback service events.
func (m Model) Init() tea.Cmd {
	return m.watchService()
}

// layout distributes the window height between the panels. The player bar
// only takes space while a stream is up, so the list grows back on stop.
func (m *Model) layout() {
	barHeight := 0
	if m.service.State().IsActive() {
		barHeight = playerbar.Height(m.barMode)
	}
	listHeight := m.height - headerHeight - footerHeight - barHeight
	m.stations.SetSize(m.width, listHeight)
}
