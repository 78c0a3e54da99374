// Package station persists the station list and the player state between runs.
package station

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "tuner"
	dbFileName   = "tuner.db"
	saveDebounce = 500 * time.Millisecond
)

// Station is a stored radio station.
type Station struct {
	ID       int64
	Name     string
	URL      string
	Icon     string // path to an image file, may be empty
	Position int
	AddedAt  time.Time
}

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *PlayerState
}

func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending state
	if pending != nil {
		_ = savePlayerState(m.db, *pending)
	}

	return m.db.Close()
}

// Stations returns all stored stations ordered by position.
func (m *Manager) Stations() ([]Station, error) {
	return listStations(m.db)
}

// Station returns the station with the given id, or nil when absent.
func (m *Manager) Station(id int64) (*Station, error) {
	return getStation(m.db, id)
}

// Add appends a station at the end of the list.
func (m *Manager) Add(name, url, icon string) (*Station, error) {
	return addStation(m.db, name, url, icon)
}

// Remove deletes a station. Removing an unknown id is not an error.
func (m *Manager) Remove(id int64) error {
	_, err := m.db.Exec(`DELETE FROM stations WHERE id = ?`, id)
	return err
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func listStations(db *sql.DB) ([]Station, error) {
	rows, err := db.Query(`
		SELECT id, name, url, icon, position, added_at
		FROM stations
		ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var s Station
		var icon sql.NullString
		var addedAt int64
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &icon, &s.Position, &addedAt); err != nil {
			return nil, err
		}
		if icon.Valid {
			s.Icon = icon.String
		}
		s.AddedAt = time.Unix(addedAt, 0)
		stations = append(stations, s)
	}

	return stations, rows.Err()
}

func getStation(db *sql.DB, id int64) (*Station, error) {
	var s Station
	var icon sql.NullString
	var addedAt int64

	row := db.QueryRow(`
		SELECT id, name, url, icon, position, added_at
		FROM stations
		WHERE id = ?
	`, id)
	err := row.Scan(&s.ID, &s.Name, &s.URL, &icon, &s.Position, &addedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if icon.Valid {
		s.Icon = icon.String
	}
	s.AddedAt = time.Unix(addedAt, 0)
	return &s, nil
}

func addStation(db *sql.DB, name, url, icon string) (*Station, error) {
	now := time.Now()

	res, err := db.Exec(`
		INSERT INTO stations (name, url, icon, position, added_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM stations), ?)
	`, name, url, nullString(icon), now.Unix())
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return getStation(db, id)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// withTx executes fn within a transaction. It handles Begin, Rollback on
// error, and Commit on success.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
