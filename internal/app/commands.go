package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/notify"
)

// tickCmd schedules the next refresh tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchService waits for the next playback service event. Every handler of
// a service message re-arms the watch by returning this command again.
func (m Model) watchService() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateMsg(e)
		case e := <-sub.StationChanged:
			return ServiceStationMsg(e)
		case e := <-sub.TitleChanged:
			return ServiceTitleMsg(e)
		case e := <-sub.VolumeChanged:
			return ServiceVolumeMsg(e)
		case e := <-sub.Error:
			return ServiceErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// playbackCmd runs a blocking playback operation off the update loop, so
// connecting to a slow stream never freezes the interface.
func playbackCmd(op errmsg.Op, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return commandErrMsg{op: op, err: err}
		}
		return nil
	}
}

// notifyCmd sends the now playing notification for the given station and
// title. Returns nil when notifications are disabled or unavailable.
func (m Model) notifyCmd(stationName, title, icon string) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	nc := m.cfg.GetNotifications()
	if !nc.IsEnabled() {
		return nil
	}

	notifier := m.notifier
	cache := m.icons
	log := m.log
	replaces := m.lastNotifyID
	showIcon := nc.ShouldShowStationIcon()
	timeout := nc.Timeout()

	return func() tea.Msg {
		iconPath := ""
		if showIcon {
			p, err := cache.Resolve(icon)
			if err != nil {
				log.Debugw("could not prepare station icon", "icon", icon, "error", err)
			}
			iconPath = p
		}
		n := notify.NowPlaying(stationName, title, iconPath, timeout)
		n.ReplacesID = replaces
		id, err := notifier.Notify(n)
		return NotificationSentMsg{ID: id, Err: err}
	}
}
