package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/ui/addstation"
	"github.com/llehouerou/tuner/internal/ui/playerbar"
)

// Update routes messages to the matching handler.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		// The spinner only animates while a station is buffering
		if m.service.State() == playback.StateConnecting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case TickMsg:
		if m.service.State().IsActive() {
			return m, tickCmd()
		}
		return m, nil

	case ServiceStateMsg:
		return m.handleStateChange(playback.StateChange(msg))

	case ServiceStationMsg:
		return m.handleStationChange(playback.StationChange(msg))

	case ServiceTitleMsg:
		return m.handleTitleChange(playback.TitleChange(msg))

	case ServiceVolumeMsg:
		// The bar reads volume straight from the service on render
		return m, m.watchService()

	case ServiceErrorMsg:
		m.errorMsg = errmsg.FormatWith(errmsg.Op(msg.Operation), msg.URL, msg.Err)
		return m, m.watchService()

	case ServiceClosedMsg:
		return m, tea.Quit

	case addstation.ResultMsg:
		return m.handleAddResult(msg)

	case NotificationSentMsg:
		if msg.Err != nil {
			m.log.Debugw("desktop notification failed", "error", msg.Err)
			return m, nil
		}
		m.lastNotifyID = msg.ID
		return m, nil

	case commandErrMsg:
		m.errorMsg = errmsg.Format(msg.op, msg.err)
		return m, nil
	}

	return m, nil
}

func (m Model) handleStateChange(e playback.StateChange) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.watchService()}

	switch e.Current {
	case playback.StateConnecting:
		if cur := m.service.CurrentStation(); cur != nil {
			m.stations.SetPlaying(cur.ID, true)
		}
		cmds = append(cmds, m.spinner.Tick)
	case playback.StatePlaying:
		if cur := m.service.CurrentStation(); cur != nil {
			m.stations.SetPlaying(cur.ID, false)
		}
		m.errorMsg = ""
		cmds = append(cmds, tickCmd())
	case playback.StateStopped:
		m.stations.SetPlaying(0, false)
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

func (m Model) handleStationChange(e playback.StationChange) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.watchService()}

	if e.Current != nil {
		connecting := m.service.State() == playback.StateConnecting
		m.stations.SetPlaying(e.Current.ID, connecting)
		m.stations.SelectByID(e.Current.ID)
		if cmd := m.notifyCmd(e.Current.Name, "", e.Current.Icon); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleTitleChange(e playback.TitleChange) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.watchService()}

	if cur := m.service.CurrentStation(); cur != nil {
		if cmd := m.notifyCmd(cur.Name, e.Title, cur.Icon); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleAddResult(res addstation.ResultMsg) (tea.Model, tea.Cmd) {
	if res.Canceled {
		return m, nil
	}

	st, err := m.service.AddStation(res.Name, res.URL, "")
	if err != nil {
		m.errorMsg = errmsg.FormatWith(errmsg.OpStationAdd, res.Name, err)
		return m, nil
	}

	m.stations.SetStations(m.service.Stations())
	if st != nil {
		m.stations.SelectByID(st.ID)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open form captures all input
	if m.addForm.Active() {
		var cmd tea.Cmd
		m.addForm, cmd = m.addForm.Update(msg)
		return m, cmd
	}

	key := msg.String()

	// Any key dismisses a visible error first
	if m.errorMsg != "" {
		m.errorMsg = ""
		return m, nil
	}

	handlers := []func(string) (bool, tea.Cmd){
		m.handleGlobalKeys,
		m.handleVolumeKeys,
		m.handlePlaybackKeys,
		m.handleListKeys,
	}
	for _, h := range handlers {
		if handled, cmd := h(key); handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) handleGlobalKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return true, tea.Quit
	case "a":
		return true, m.addForm.Open()
	case "d":
		return true, m.removeSelected()
	case "v":
		if m.barMode == playerbar.ModeCompact {
			m.barMode = playerbar.ModeExpanded
		} else {
			m.barMode = playerbar.ModeCompact
		}
		m.layout()
		return true, nil
	}
	return false, nil
}

func (m *Model) handleVolumeKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "+", "=":
		m.service.VolumeUp()
		return true, nil
	case "-", "_":
		m.service.VolumeDown()
		return true, nil
	case "m":
		m.service.ToggleMute()
		return true, nil
	}
	return false, nil
}

func (m *Model) handlePlaybackKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "enter":
		sel, ok := m.stations.Selected()
		if !ok {
			return true, nil
		}
		id := sel.ID
		svc := m.service
		return true, playbackCmd(errmsg.OpPlayStation, func() error { return svc.PlayStation(id) })
	case " ":
		svc := m.service
		return true, playbackCmd(errmsg.OpTogglePlay, svc.Toggle)
	case "s":
		m.service.Stop()
		return true, nil
	case "n":
		svc := m.service
		return true, playbackCmd(errmsg.OpNextStation, svc.NextStation)
	case "p":
		svc := m.service
		return true, playbackCmd(errmsg.OpPrevStation, svc.PreviousStation)
	}
	return false, nil
}

func (m *Model) handleListKeys(key string) (bool, tea.Cmd) {
	return m.stations.HandleKey(key), nil
}

func (m *Model) removeSelected() tea.Cmd {
	sel, ok := m.stations.Selected()
	if !ok {
		return nil
	}
	if err := m.service.RemoveStation(sel.ID); err != nil {
		m.errorMsg = errmsg.FormatWith(errmsg.OpStationRemove, sel.Name, err)
		return nil
	}
	m.stations.SetStations(m.service.Stations())
	return nil
}
