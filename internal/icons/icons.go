// Package icons selects the glyph set used by the terminal interface.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs for the current style.
type Icons struct {
	Play       string
	Stop       string
	Station    string
	Note       string
	Volume     string
	VolumeMute string
}

var (
	nerdIcons = Icons{
		Play:       "", // nf-fa-play
		Stop:       "", // nf-fa-stop
		Station:    " ", // nf-fa-rss
		Note:       "", // nf-fa-music
		Volume:     "", // nf-fa-volume_up
		VolumeMute: "", // nf-fa-volume_off
	}

	unicodeIcons = Icons{
		Play:       "▶",
		Stop:       "■",
		Station:    "📻 ",
		Note:       "♪",
		Volume:     "🔊",
		VolumeMute: "🔇",
	}

	noneIcons = Icons{
		Play:       ">",
		Stop:       "[]",
		Station:    "",
		Note:       "",
		Volume:     "vol",
		VolumeMute: "mute",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Play returns the playback indicator shown next to the tuned station.
func Play() string {
	return current.Play
}

// Stop returns the stopped indicator.
func Stop() string {
	return current.Stop
}

// Note returns the musical note shown before stream titles.
func Note() string {
	return current.Note
}

// Volume returns the speaker glyph for the volume display.
func Volume() string {
	return current.Volume
}

// VolumeMute returns the muted speaker glyph.
func VolumeMute() string {
	return current.VolumeMute
}

// FormatStation formats a station name with the radio icon prefix.
func FormatStation(name string) string {
	if current.Station == "" {
		return name
	}
	return current.Station + name
}
