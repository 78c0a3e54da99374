package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Icons      string   `koanf:"icons"`       // "unicode" or "none"
	Volume     *float64 `koanf:"volume"`      // initial volume on first run (0.0-1.0, default: 0.8)
	VolumeStep float64  `koanf:"volume_step"` // volume increment per step (default: 0.05)

	// Media key bindings (GNOME settings daemon integration)
	MediaKeys MediaKeysConfig `koanf:"mediakeys"`

	// Desktop notification settings
	Notifications NotificationsConfig `koanf:"notifications"`

	// Log settings
	Log LogConfig `koanf:"log"`

	// Seed stations merged into the station store on startup
	Stations []StationConfig `koanf:"stations"`
}

// MediaKeysConfig holds the media-key grab configuration.
type MediaKeysConfig struct {
	Enabled              *bool  `koanf:"enabled"`                 // grab media keys at all (default: true)
	MapExtraKeys         *bool  `koanf:"map_extra_keys"`          // route volume/station keys in addition to Play/Stop (default: true)
	VolumeUpKey          string `koanf:"volume_up_key"`           // default: "XF86AudioRaiseVolume"
	VolumeDownKey        string `koanf:"volume_down_key"`         // default: "XF86AudioLowerVolume"
	NextStationKey       string `koanf:"next_station_key"`        // default: "XF86AudioNext"
	PreviousStationKey   string `koanf:"previous_station_key"`    // default: "XF86AudioPrev"
	UseLegacyServiceName *bool  `koanf:"use_legacy_service_name"` // force daemon name variant; unset = detect from desktop
}

// NotificationsConfig holds desktop notification configuration.
type NotificationsConfig struct {
	Enabled         *bool `koanf:"enabled"`           // send now-playing notifications (default: true)
	TimeoutMs       int   `koanf:"timeout_ms"`        // notification expiry in ms (default: 5000)
	ShowStationIcon *bool `koanf:"show_station_icon"` // attach the station icon when one is configured (default: true)
}

// LogConfig holds log output configuration.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // override log file path (default: state dir)
}

// StationConfig is a station seeded from the config file.
type StationConfig struct {
	Name string `koanf:"name"`
	URL  string `koanf:"url"`
	Icon string `koanf:"icon"` // path to an image file shown in notifications
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in log file override
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	// Expand ~ in station icon paths
	for i, s := range cfg.Stations {
		cfg.Stations[i].Icon = expandPath(s.Icon)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tuner/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tuner", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetVolume returns the initial volume with the default applied.
func (c *Config) GetVolume() float64 {
	if c.Volume == nil || *c.Volume < 0 || *c.Volume > 1 {
		return 0.8
	}
	return *c.Volume
}

// GetVolumeStep returns the volume step with the default applied.
func (c *Config) GetVolumeStep() float64 {
	if c.VolumeStep <= 0 || c.VolumeStep > 1 {
		return 0.05
	}
	return c.VolumeStep
}

// GetMediaKeys returns the media-key configuration with key-name defaults applied.
func (c *Config) GetMediaKeys() MediaKeysConfig {
	cfg := c.MediaKeys

	if cfg.VolumeUpKey == "" {
		cfg.VolumeUpKey = "XF86AudioRaiseVolume"
	}
	if cfg.VolumeDownKey == "" {
		cfg.VolumeDownKey = "XF86AudioLowerVolume"
	}
	if cfg.NextStationKey == "" {
		cfg.NextStationKey = "XF86AudioNext"
	}
	if cfg.PreviousStationKey == "" {
		cfg.PreviousStationKey = "XF86AudioPrev"
	}

	return cfg
}

// IsEnabled reports whether media keys should be grabbed at all.
func (m MediaKeysConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// ShouldMapExtraKeys reports whether volume/station keys are routed in
// addition to Play/Stop.
func (m MediaKeysConfig) ShouldMapExtraKeys() bool {
	return m.MapExtraKeys == nil || *m.MapExtraKeys
}

// GetNotifications returns the notification configuration with defaults applied.
func (c *Config) GetNotifications() NotificationsConfig {
	cfg := c.Notifications

	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 5000
	}

	return cfg
}

// IsEnabled reports whether now-playing notifications should be sent.
func (n NotificationsConfig) IsEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// ShouldShowStationIcon reports whether station icons are attached to
// notifications.
func (n NotificationsConfig) ShouldShowStationIcon() bool {
	return n.ShowStationIcon == nil || *n.ShowStationIcon
}

// Timeout returns the notification expiry as a duration.
func (n NotificationsConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutMs) * time.Millisecond
}

// GetLogLevel returns the configured log level with the default applied.
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}
