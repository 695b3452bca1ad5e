package store

import (
	"database/sql"
	"errors"
)

const sourceCols = `id, name, source_type, url, target_sections, is_active, last_fetched`

func scanSource(row interface{ Scan(...any) error }) (*Source, error) {
	var src Source
	err := row.Scan(&src.ID, &src.Name, &src.SourceType, &src.URL,
		&src.TargetSections, &src.IsActive, &src.LastFetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// UpsertSource registers a content source, keyed by URL. Re-registering an
// existing URL refreshes its name, type, and targeting.
func (s *Store) UpsertSource(name, sourceType, url, targetSections string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM sources WHERE url = ?`, url).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.insertID(
			`INSERT INTO sources (name, source_type, url, target_sections) VALUES (?, ?, ?, ?)`,
			name, sourceType, url, targetSections)
	case err != nil:
		return 0, err
	}
	err = s.update("sources", id, map[string]any{
		"name":            name,
		"source_type":     sourceType,
		"target_sections": targetSections,
		"is_active":       1,
	}, false)
	return id, err
}

// ActiveSources returns every active content source.
func (s *Store) ActiveSources() ([]*Source, error) {
	rows, err := s.db.Query(`SELECT ` + sourceCols + ` FROM sources WHERE is_active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// TouchSourceFetched stamps a source's last successful fetch time.
func (s *Store) TouchSourceFetched(id int64) error {
	_, err := s.db.Exec(`UPDATE sources SET last_fetched = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// SetSourceActive enables or disables a source.
func (s *Store) SetSourceActive(id int64, active bool) error {
	return s.update("sources", id, map[string]any{"is_active": boolInt(active)}, false)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
