package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const issueCols = `id, issue_number, title, status, publish_date, week_id, send_day, issue_template, created_at, updated_at`

func scanIssue(row interface{ Scan(...any) error }) (*Issue, error) {
	var is Issue
	err := row.Scan(&is.ID, &is.IssueNumber, &is.Title, &is.Status, &is.PublishDate,
		&is.WeekID, &is.SendDay, &is.IssueTemplate, &is.CreatedAt, &is.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &is, nil
}

// CreateIssue inserts a new issue in planning status.
func (s *Store) CreateIssue(issueNumber int, title, publishDate, weekID, sendDay string) (*Issue, error) {
	id, err := s.insertID(
		`INSERT INTO issues (issue_number, title, publish_date, week_id, send_day) VALUES (?, ?, ?, ?, ?)`,
		issueNumber, title, publishDate, weekID, sendDay)
	if err != nil {
		return nil, fmt.Errorf("creating issue #%d: %w", issueNumber, err)
	}
	return s.GetIssue(id)
}

// GetIssue fetches an issue by ID.
func (s *Store) GetIssue(id int64) (*Issue, error) {
	return scanIssue(s.db.QueryRow(`SELECT `+issueCols+` FROM issues WHERE id = ?`, id))
}

// GetIssueByNumber fetches an issue by its public issue number.
func (s *Store) GetIssueByNumber(n int) (*Issue, error) {
	return scanIssue(s.db.QueryRow(`SELECT `+issueCols+` FROM issues WHERE issue_number = ?`, n))
}

// CurrentIssue returns the most recent issue that has not been sent, or
// ErrNotFound when every issue is out the door.
func (s *Store) CurrentIssue() (*Issue, error) {
	return scanIssue(s.db.QueryRow(
		`SELECT ` + issueCols + ` FROM issues WHERE status != 'sent' ORDER BY issue_number DESC LIMIT 1`))
}

// NextIssueNumber returns max(issue_number)+1, starting at 1.
func (s *Store) NextIssueNumber() (int, error) {
	var n sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(issue_number) FROM issues`).Scan(&n); err != nil {
		return 0, err
	}
	return int(n.Int64) + 1, nil
}

// ListIssues returns issues newest first.
func (s *Store) ListIssues(limit int) ([]*Issue, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT `+issueCols+` FROM issues ORDER BY issue_number DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Issue
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

// UpdateIssueStatus moves an issue to a new pipeline status.
func (s *Store) UpdateIssueStatus(id int64, status string) error {
	return s.update("issues", id, map[string]any{"status": status}, true)
}

// UpdateIssue applies a partial field update to an issue.
func (s *Store) UpdateIssue(id int64, fields map[string]any) error {
	return s.update("issues", id, fields, true)
}
