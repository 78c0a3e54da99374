// Package notify sends desktop notifications about the playing station.
package notify

import "time"

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// NowPlaying composes the notification shown when a station starts playing
// or its stream title changes. The station name is the summary and the
// stream title the body; the body is empty right after a station connects,
// before the first title arrives.
func NowPlaying(station, title, icon string, timeout time.Duration) Notification {
	return Notification{
		Title:   station,
		Body:    title,
		Icon:    icon,
		Timeout: int32(timeout.Milliseconds()), //nolint:gosec // timeouts are seconds-scale, no overflow risk
		Urgency: UrgencyLow,
	}
}
