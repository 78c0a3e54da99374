package station

import (
	"database/sql"
	"time"
)

// PlayerState is the saved player state restored on the next run.
type PlayerState struct {
	LastStationID *int64
	Volume        float64
	Muted         bool
}

// PlayerState returns the saved player state, or nil when none has been
// saved yet.
func (m *Manager) PlayerState() (*PlayerState, error) {
	var stationID sql.NullInt64
	var volume float64
	var muted bool

	row := m.db.QueryRow(`SELECT last_station_id, volume, muted FROM player_state WHERE id = 1`)
	err := row.Scan(&stationID, &volume, &muted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &PlayerState{Volume: volume, Muted: muted}
	if stationID.Valid {
		state.LastStationID = &stationID.Int64
	}
	return state, nil
}

// SavePlayerState persists the player state. Writes are debounced because
// volume changes arrive in bursts from key repeats.
func (m *Manager) SavePlayerState(state PlayerState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = savePlayerState(m.db, *pending)
		}
	})
}

func savePlayerState(db *sql.DB, state PlayerState) error {
	var stationID sql.NullInt64
	if state.LastStationID != nil {
		stationID = sql.NullInt64{Int64: *state.LastStationID, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO player_state (id, last_station_id, volume, muted)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_station_id = excluded.last_station_id,
			volume = excluded.volume,
			muted = excluded.muted
	`, stationID, state.Volume, state.Muted)
	return err
}
