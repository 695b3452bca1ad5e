package store

import (
	"database/sql"
	"errors"
)

// SetEditorialInput records (or replaces) the human steering for one section
// of one issue. Last write wins.
func (s *Store) SetEditorialInput(issueID int64, slug, topic, notes, referenceURLs string) (int64, error) {
	var existing int64
	err := s.db.QueryRow(
		`SELECT id FROM editorial_inputs WHERE issue_id = ? AND section_slug = ?`,
		issueID, slug).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.insertID(
			`INSERT INTO editorial_inputs (issue_id, section_slug, topic, notes, reference_urls)
			 VALUES (?, ?, ?, ?, ?)`,
			issueID, slug, topic, notes, referenceURLs)
	case err != nil:
		return 0, err
	}
	err = s.update("editorial_inputs", existing, map[string]any{
		"topic":          topic,
		"notes":          notes,
		"reference_urls": referenceURLs,
	}, false)
	return existing, err
}

// GetEditorialInput fetches the steering for one section of one issue, or
// ErrNotFound when the editors left it blank.
func (s *Store) GetEditorialInput(issueID int64, slug string) (*EditorialInput, error) {
	var ei EditorialInput
	err := s.db.QueryRow(
		`SELECT id, issue_id, section_slug, topic, notes, reference_urls, created_at
		 FROM editorial_inputs WHERE issue_id = ? AND section_slug = ?`,
		issueID, slug).Scan(&ei.ID, &ei.IssueID, &ei.SectionSlug, &ei.Topic, &ei.Notes,
		&ei.ReferenceURLs, &ei.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ei, nil
}
