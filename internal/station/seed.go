package station

import (
	"database/sql"
	"strings"
	"time"
)

// Seed is a station declared in the config file.
type Seed struct {
	Name string
	URL  string
	Icon string
}

// SeedStations merges config-declared stations into the store. Stations are
// matched by URL: new URLs are appended, existing ones get their name and
// icon refreshed. Stations added at runtime are never touched, and seeds
// with an empty name or URL are skipped.
func (m *Manager) SeedStations(seeds []Seed) error {
	return withTx(m.db, func(tx *sql.Tx) error {
		for _, seed := range seeds {
			name := strings.TrimSpace(seed.Name)
			url := strings.TrimSpace(seed.URL)
			if name == "" || url == "" {
				continue
			}

			var id int64
			err := tx.QueryRow(`SELECT id FROM stations WHERE url = ?`, url).Scan(&id)
			switch {
			case err == sql.ErrNoRows:
				_, err = tx.Exec(`
					INSERT INTO stations (name, url, icon, position, added_at)
					VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM stations), ?)
				`, name, url, nullString(seed.Icon), time.Now().Unix())
				if err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				_, err = tx.Exec(`
					UPDATE stations SET name = ?, icon = ? WHERE id = ?
				`, name, nullString(seed.Icon), id)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}
