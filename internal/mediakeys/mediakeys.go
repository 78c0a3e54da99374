// Package mediakeys binds the GNOME media keys to playback commands.
//
// The settings daemon delivers media-key presses to the application holding
// the grab. The Binder takes the grab for the lifetime of the process and
// routes presses to the player. Grabbing is best-effort: on a desktop
// without the daemon the binder stays inert and the rest of the app is
// unaffected.
package mediakeys

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	primaryDest = "org.gnome.SettingsDaemon.MediaKeys"
	legacyDest  = "org.gnome.SettingsDaemon"

	mediaKeysPath      = "/org/gnome/SettingsDaemon/MediaKeys"
	mediaKeysInterface = "org.gnome.SettingsDaemon.MediaKeys"

	keyPressedSignal = mediaKeysInterface + ".MediaPlayerKeyPressed"
	grabMethod       = mediaKeysInterface + ".GrabMediaPlayerKeys"
	releaseMethod    = mediaKeysInterface + ".ReleaseMediaPlayerKeys"

	signalBufferSize = 16
)

// Player is the playback surface the media keys drive. Command errors are
// logged and absorbed; a key press never fails the caller.
type Player interface {
	Play() error
	Stop()
	IsStopped() bool
	VolumeUp()
	VolumeDown()
	NextStation() error
	PreviousStation() error
}

// Options configures the binder. Key names come from the config file with
// the XF86 defaults already applied.
type Options struct {
	MapExtraKeys     bool
	VolumeUpKey      string
	VolumeDownKey    string
	NextStationKey   string
	PrevStationKey   string
	UseLegacyService *bool // nil = detect from XDG_CURRENT_DESKTOP
}

// Binder holds the media-key grab and dispatches key presses to the player.
type Binder struct {
	player Player
	log    *zap.SugaredLogger

	appID     string
	useLegacy *bool
	keys      map[string]func()

	connect func() (Conn, error)

	ready chan struct{}
	stop  chan struct{}
	done  chan struct{}

	closeOnce sync.Once
}

// Bind grabs the media keys and starts the listener. It blocks until the
// listener has signalled readiness. Bus failures are logged, never
// returned: the Binder comes back valid but inert, and hardware keys
// simply do nothing.
func Bind(player Player, opts Options, log *zap.SugaredLogger) *Binder {
	return bind(player, opts, log, connectSessionBus)
}

func bind(player Player, opts Options, log *zap.SugaredLogger, connect func() (Conn, error)) *Binder {
	b := &Binder{
		player:    player,
		log:       log,
		appID:     "tuner-" + strconv.Itoa(os.Getpid()),
		useLegacy: opts.UseLegacyService,
		connect:   connect,
		ready:     make(chan struct{}),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	if opts.MapExtraKeys {
		b.keys = b.buildKeyMap(opts)
	}

	go b.run()
	<-b.ready

	return b
}

// Close releases the grab and waits for the listener to exit. Safe to call
// more than once.
func (b *Binder) Close() {
	b.closeOnce.Do(func() {
		close(b.stop)
		<-b.done
	})
}

// buildKeyMap binds the configured key names, lower-cased, to playback
// commands. Dispatch lower-cases incoming keys too, so mapped-key matching
// is case-insensitive.
func (b *Binder) buildKeyMap(opts Options) map[string]func() {
	keys := map[string]func(){
		strings.ToLower(opts.VolumeUpKey):   b.player.VolumeUp,
		strings.ToLower(opts.VolumeDownKey): b.player.VolumeDown,
		strings.ToLower(opts.NextStationKey): func() {
			if err := b.player.NextStation(); err != nil {
				b.log.Errorw("failed to switch to next station", "error", err)
			}
		},
		strings.ToLower(opts.PrevStationKey): func() {
			if err := b.player.PreviousStation(); err != nil {
				b.log.Errorw("failed to switch to previous station", "error", err)
			}
		},
	}

	b.log.Infow("mapping media keys",
		"volume_up", opts.VolumeUpKey,
		"volume_down", opts.VolumeDownKey,
		"next_station", opts.NextStationKey,
		"previous_station", opts.PrevStationKey)

	return keys
}

func (b *Binder) run() {
	defer close(b.done)

	dest := b.serviceName()
	b.log.Infow("starting media key listener", "app", b.appID, "service", dest)

	conn, err := b.connect()
	if err != nil {
		b.log.Errorw("could not connect to session bus, media keys disabled", "error", err)
		close(b.ready)
		return
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mediaKeysPath),
		dbus.WithMatchInterface(mediaKeysInterface),
	); err != nil {
		b.log.Errorw("could not subscribe to media key signals, media keys disabled", "error", err)
		conn.Close()
		close(b.ready)
		return
	}

	signals := make(chan *dbus.Signal, signalBufferSize)
	conn.Signal(signals)

	obj := conn.Object(dest, mediaKeysPath)
	obj.Go(grabMethod, dbus.FlagNoAutoStart|dbus.FlagNoReplyExpected, nil, b.appID, uint32(0))

	close(b.ready)

	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				b.log.Error("session bus connection lost, media keys disabled")
				conn.Close()
				return
			}
			b.handleSignal(sig)
		case <-b.stop:
			b.log.Info("stopping media key listener")
			obj.Go(releaseMethod, dbus.FlagNoAutoStart|dbus.FlagNoReplyExpected, nil, b.appID)
			conn.RemoveSignal(signals)
			conn.Close()
			return
		}
	}
}

// serviceName picks the settings daemon bus name. An explicit override
// wins; otherwise desktops that do not look like GNOME get the legacy
// name.
func (b *Binder) serviceName() string {
	if b.useLegacy != nil {
		if *b.useLegacy {
			return legacyDest
		}
		return primaryDest
	}

	desktop, ok := os.LookupEnv("XDG_CURRENT_DESKTOP")
	if !ok {
		b.log.Warn("could not read XDG_CURRENT_DESKTOP environment variable")
		return primaryDest
	}
	if !strings.Contains(strings.ToLower(desktop), "gnome") {
		return legacyDest
	}
	return primaryDest
}

// handleSignal routes one key press. At most one command runs per event.
func (b *Binder) handleSignal(sig *dbus.Signal) {
	if sig.Name != keyPressedSignal {
		b.log.Debugw("ignoring signal", "name", sig.Name)
		return
	}
	if len(sig.Body) != 2 {
		b.log.Errorw("invalid media key signal, ignoring event", "args", len(sig.Body))
		return
	}
	key, ok := sig.Body[1].(string)
	if !ok {
		b.log.Error("failed to extract media key, ignoring event")
		return
	}

	b.log.Debugw("media key pressed", "key", key)

	switch key {
	case "Stop":
		b.player.Stop()
	case "Play":
		b.playOrStop()
	default:
		if cmd, ok := b.keys[strings.ToLower(key)]; ok {
			cmd()
			return
		}
		b.log.Debugw("ignoring media key", "key", key)
	}
}

// playOrStop makes the Play key a toggle: it starts playback only from a
// full stop and otherwise acts like Stop.
func (b *Binder) playOrStop() {
	if !b.player.IsStopped() {
		b.player.Stop()
		return
	}
	if err := b.player.Play(); err != nil {
		b.log.Errorw("failed to start playback", "error", err)
	}
}
