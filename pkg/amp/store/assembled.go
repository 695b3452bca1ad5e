package store

import (
	"database/sql"
	"errors"
)

const assembledCols = `id, issue_id, html_content, plain_text, beehiiv_post_id, assembled_at, published_at`

func scanAssembled(row interface{ Scan(...any) error }) (*AssembledIssue, error) {
	var a AssembledIssue
	err := row.Scan(&a.ID, &a.IssueID, &a.HTMLContent, &a.PlainText,
		&a.BeehiivPostID, &a.AssembledAt, &a.PublishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveAssembled stores a rendered issue snapshot. Each assembly run appends
// a new snapshot; LatestAssembled always sees the freshest one.
func (s *Store) SaveAssembled(issueID int64, htmlContent, plainText string) (int64, error) {
	return s.insertID(
		`INSERT INTO assembled_issues (issue_id, html_content, plain_text) VALUES (?, ?, ?)`,
		issueID, htmlContent, plainText)
}

// LatestAssembled returns the most recent snapshot for an issue.
func (s *Store) LatestAssembled(issueID int64) (*AssembledIssue, error) {
	return scanAssembled(s.db.QueryRow(
		`SELECT `+assembledCols+` FROM assembled_issues
		 WHERE issue_id = ? ORDER BY id DESC LIMIT 1`, issueID))
}

// MarkAssembledPublished stamps the delivery platform's post ID and the
// publish time onto a snapshot.
func (s *Store) MarkAssembledPublished(id int64, beehiivPostID string) error {
	_, err := s.db.Exec(
		`UPDATE assembled_issues SET beehiiv_post_id = ?, published_at = CURRENT_TIMESTAMP WHERE id = ?`,
		beehiivPostID, id)
	return err
}
