package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/app"
	"github.com/llehouerou/tuner/internal/config"
	"github.com/llehouerou/tuner/internal/icons"
	"github.com/llehouerou/tuner/internal/logging"
	"github.com/llehouerou/tuner/internal/mediakeys"
	"github.com/llehouerou/tuner/internal/mpris"
	"github.com/llehouerou/tuner/internal/notify"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/player"
	"github.com/llehouerou/tuner/internal/station"
	"github.com/llehouerou/tuner/internal/stderr"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, flush, err := logging.New(cfg.GetLogLevel(), cfg.Log.File)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer flush()

	// ALSA writes underrun noise straight to fd 2, which would tear up the
	// alternate screen. Capture it before the audio backend initializes.
	if err := stderr.Start(); err != nil {
		log.Warnw("stderr capture unavailable", "error", err)
	}
	defer stderr.Stop()
	go func() {
		for line := range stderr.Messages {
			log.Debugw("audio backend", "stderr", line)
		}
	}()

	icons.Init(cfg.Icons)

	store, err := station.Open()
	if err != nil {
		return fmt.Errorf("opening station store: %w", err)
	}
	defer store.Close()

	if err := store.SeedStations(seedsFromConfig(cfg.Stations)); err != nil {
		log.Warnw("seeding stations from config failed", "error", err)
	}

	svc, err := playback.New(player.New(), store, playback.Options{
		VolumeStep:    cfg.GetVolumeStep(),
		DefaultVolume: cfg.GetVolume(),
	}, log.Named("playback"))
	if err != nil {
		return fmt.Errorf("starting playback service: %w", err)
	}
	defer svc.Close()

	// Desktop integrations are best-effort: a missing session bus or
	// notification daemon must never keep the terminal UI from starting.
	var notifier notify.Notifier
	var iconCache *notify.IconCache
	if cfg.GetNotifications().IsEnabled() {
		notifier, err = notify.New()
		if err != nil {
			log.Warnw("desktop notifications unavailable", "error", err)
			notifier = nil
		}
		iconCache, err = notify.NewIconCache("")
		if err != nil {
			log.Warnw("station icon cache unavailable", "error", err)
			iconCache = nil
		}
	}

	adapter := mpris.New(svc, log.Named("mpris"))
	adapter.Start()
	defer adapter.Stop()

	if mk := cfg.GetMediaKeys(); mk.IsEnabled() {
		binder := mediakeys.Bind(svc, mediakeys.Options{
			MapExtraKeys:     mk.ShouldMapExtraKeys(),
			VolumeUpKey:      mk.VolumeUpKey,
			VolumeDownKey:    mk.VolumeDownKey,
			NextStationKey:   mk.NextStationKey,
			PrevStationKey:   mk.PreviousStationKey,
			UseLegacyService: mk.UseLegacyServiceName,
		}, log.Named("mediakeys"))
		defer binder.Close()
	}

	m := app.New(cfg, svc, notifier, iconCache, log.Named("app"))
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func seedsFromConfig(stations []config.StationConfig) []station.Seed {
	seeds := make([]station.Seed, 0, len(stations))
	for _, s := range stations {
		if s.Name == "" || s.URL == "" {
			continue
		}
		seeds = append(seeds, station.Seed{Name: s.Name, URL: s.URL, Icon: s.Icon})
	}
	return seeds
}
