//go:build !linux

// Package stderr is a no-op off Linux, where the audio backends do not
// write directly to file descriptor 2.
package stderr

// Messages is never written on platforms without the capture.
var Messages = make(chan string)

// Start is a no-op on non-Linux platforms.
func Start() error { return nil }

// Stop is a no-op on non-Linux platforms.
func Stop() {}
