// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants shown in the status line when something fails.
// Errors relayed from the playback service carry their own operation
// verb and are converted to an Op at the call site.
const (
	// Playback operations
	OpPlayStation Op = "play station"
	OpTogglePlay  Op = "toggle playback"
	OpNextStation Op = "switch to the next station"
	OpPrevStation Op = "switch to the previous station"

	// Station list operations
	OpStationAdd    Op = "add station"
	OpStationRemove Op = "remove station"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
