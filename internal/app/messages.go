package app

import (
	"time"

	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/playback"
)

// TickMsg drives the once a second refresh of the byte counter while a
// stream is active.
type TickMsg time.Time

// Playback service events, bridged from the subscription channels.
type (
	ServiceStateMsg   playback.StateChange
	ServiceStationMsg playback.StationChange
	ServiceTitleMsg   playback.TitleChange
	ServiceVolumeMsg  playback.VolumeChange
	ServiceErrorMsg   playback.ErrorEvent

	// ServiceClosedMsg means the playback service shut down and the
	// interface should exit.
	ServiceClosedMsg struct{}
)

// NotificationSentMsg reports the outcome of a desktop notification, so the
// next one can replace it instead of stacking.
type NotificationSentMsg struct {
	ID  uint32
	Err error
}

// commandErrMsg carries the failure of a playback command issued by a key.
type commandErrMsg struct {
	op  errmsg.Op
	err error
}
