package app

import "strings"

// KeyBinding describes a single key binding for documentation.
type KeyBinding struct {
	Keys        []string
	Description string
	Context     string // "global", "stations", "playback", "volume"
}

// KeyMap contains all key bindings for help generation.
var KeyMap = []KeyBinding{
	// Global
	{[]string{"q", "ctrl+c"}, "Quit", "global"},
	{[]string{"a"}, "Add station", "global"},
	{[]string{"d"}, "Delete station", "global"},
	{[]string{"v"}, "Toggle player display", "global"},

	// Stations
	{[]string{"j", "down"}, "Move down", "stations"},
	{[]string{"k", "up"}, "Move up", "stations"},
	{[]string{"g", "home"}, "First station", "stations"},
	{[]string{"G", "end"}, "Last station", "stations"},
	{[]string{"ctrl+d"}, "Half page down", "stations"},
	{[]string{"ctrl+u"}, "Half page up", "stations"},

	// Playback
	{[]string{"enter"}, "Play selected", "playback"},
	{[]string{"space"}, "Toggle playback", "playback"},
	{[]string{"s"}, "Stop", "playback"},
	{[]string{"n"}, "Next station", "playback"},
	{[]string{"p"}, "Previous station", "playback"},

	// Volume
	{[]string{"+", "="}, "Volume up", "volume"},
	{[]string{"-", "_"}, "Volume down", "volume"},
	{[]string{"m"}, "Mute", "volume"},
}

// KeysByContext returns key bindings filtered by context.
func KeysByContext(context string) []KeyBinding {
	var result []KeyBinding
	for _, kb := range KeyMap {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// footerHints is the one line cheat sheet shown at the bottom of the screen.
func footerHints() string {
	hints := []string{
		"enter play",
		"space toggle",
		"s stop",
		"a add",
		"d delete",
		"+/- volume",
		"m mute",
		"q quit",
	}
	return strings.Join(hints, "  ·  ")
}
