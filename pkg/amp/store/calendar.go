package store

import (
	"database/sql"
	"errors"
)

// CreateCalendarEntry opens a plan row on the editorial calendar.
func (s *Store) CreateCalendarEntry(e *CalendarEntry) (int64, error) {
	if e.SectionAssignments == "" {
		e.SectionAssignments = "{}"
	}
	if e.AgentAssignments == "" {
		e.AgentAssignments = "{}"
	}
	if e.Status == "" {
		e.Status = "draft"
	}
	return s.insertID(
		`INSERT INTO editorial_calendar
		 (issue_id, planned_date, theme, notes, section_assignments, agent_assignments, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullID(e.IssueID), e.PlannedDate, e.Theme, e.Notes,
		e.SectionAssignments, e.AgentAssignments, e.Status)
}

// CalendarForIssue returns the plan row for an issue.
func (s *Store) CalendarForIssue(issueID int64) (*CalendarEntry, error) {
	var e CalendarEntry
	err := s.db.QueryRow(
		`SELECT id, COALESCE(issue_id, 0), planned_date, theme, notes,
		        section_assignments, agent_assignments, status, created_at
		 FROM editorial_calendar WHERE issue_id = ? ORDER BY id DESC LIMIT 1`,
		issueID).Scan(&e.ID, &e.IssueID, &e.PlannedDate, &e.Theme, &e.Notes,
		&e.SectionAssignments, &e.AgentAssignments, &e.Status, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateCalendarEntry applies a partial field update to a plan row.
func (s *Store) UpdateCalendarEntry(id int64, fields map[string]any) error {
	return s.update("editorial_calendar", id, fields, true)
}
