package mediakeys

import (
	"github.com/godbus/dbus/v5"
)

// Conn is the subset of *dbus.Conn the binder uses. The indirection lets
// tests run the whole listener loop against a fake bus.
type Conn interface {
	AddMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	Close() error
}

var _ Conn = (*dbus.Conn)(nil)

// connectSessionBus opens a private connection. Closing a shared one on
// shutdown would break other bus users in the process.
func connectSessionBus() (Conn, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}
