package store

import (
	"database/sql"
	"errors"
	"strings"
)

// SetSendSlot configures the section mix for a weekday. Days are stored
// lowercase; re-setting a day replaces its plan.
func (s *Store) SetSendSlot(day, label string, sectionSlugs []string) (int64, error) {
	day = strings.ToLower(strings.TrimSpace(day))
	csv := JoinSlugs(sectionSlugs)

	var id int64
	err := s.db.QueryRow(`SELECT id FROM send_schedule WHERE day_of_week = ?`, day).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.insertID(
			`INSERT INTO send_schedule (day_of_week, label, section_slugs) VALUES (?, ?, ?)`,
			day, label, csv)
	case err != nil:
		return 0, err
	}
	err = s.update("send_schedule", id, map[string]any{
		"label":         label,
		"section_slugs": csv,
		"is_active":     1,
	}, false)
	return id, err
}

// SlotForDay returns the active plan for a weekday, or ErrNotFound when the
// day has no send.
func (s *Store) SlotForDay(day string) (*SendSlot, error) {
	var slot SendSlot
	err := s.db.QueryRow(
		`SELECT id, day_of_week, label, section_slugs, is_active
		 FROM send_schedule WHERE day_of_week = ? AND is_active = 1`,
		strings.ToLower(strings.TrimSpace(day))).Scan(
		&slot.ID, &slot.DayOfWeek, &slot.Label, &slot.SectionSlugs, &slot.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// ActiveSendSlots returns every active weekday plan.
func (s *Store) ActiveSendSlots() ([]*SendSlot, error) {
	rows, err := s.db.Query(
		`SELECT id, day_of_week, label, section_slugs, is_active
		 FROM send_schedule WHERE is_active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SendSlot
	for rows.Next() {
		var slot SendSlot
		if err := rows.Scan(&slot.ID, &slot.DayOfWeek, &slot.Label,
			&slot.SectionSlugs, &slot.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &slot)
	}
	return out, rows.Err()
}
