package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const draftCols = `id, issue_id, section_slug, version, content, ai_model, prompt_used,
	status, reviewer_notes, created_at`

func scanDraft(row interface{ Scan(...any) error }) (*Draft, error) {
	var d Draft
	err := row.Scan(&d.ID, &d.IssueID, &d.SectionSlug, &d.Version, &d.Content,
		&d.AIModel, &d.PromptUsed, &d.Status, &d.ReviewerNotes, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDraft persists a new draft version for (issue, section). The version
// is always max(existing)+1; earlier versions are never overwritten.
func (s *Store) CreateDraft(issueID int64, slug, content, aiModel, promptUsed string) (*Draft, error) {
	var maxVersion sql.NullInt64
	if err := s.db.QueryRow(
		`SELECT MAX(version) FROM drafts WHERE issue_id = ? AND section_slug = ?`,
		issueID, slug).Scan(&maxVersion); err != nil {
		return nil, err
	}
	version := int(maxVersion.Int64) + 1

	id, err := s.insertID(
		`INSERT INTO drafts (issue_id, section_slug, version, content, ai_model, prompt_used)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		issueID, slug, version, content, aiModel, promptUsed)
	if err != nil {
		return nil, fmt.Errorf("creating draft %s v%d: %w", slug, version, err)
	}
	return s.GetDraft(id)
}

// ReviseDraft persists a regeneration of an existing draft as a new version
// in revised status. The prior version is left untouched.
func (s *Store) ReviseDraft(draftID int64, content, aiModel, promptUsed string) (*Draft, error) {
	old, err := s.GetDraft(draftID)
	if err != nil {
		return nil, err
	}
	d, err := s.CreateDraft(old.IssueID, old.SectionSlug, content, aiModel, promptUsed)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateDraftStatus(d.ID, DraftRevised); err != nil {
		return nil, err
	}
	return s.GetDraft(d.ID)
}

// GetDraft fetches a draft by ID.
func (s *Store) GetDraft(id int64) (*Draft, error) {
	return scanDraft(s.db.QueryRow(`SELECT `+draftCols+` FROM drafts WHERE id = ?`, id))
}

// LatestDraft returns the newest version for (issue, section).
func (s *Store) LatestDraft(issueID int64, slug string) (*Draft, error) {
	return scanDraft(s.db.QueryRow(
		`SELECT `+draftCols+` FROM drafts
		 WHERE issue_id = ? AND section_slug = ?
		 ORDER BY version DESC LIMIT 1`, issueID, slug))
}

// DraftsForIssue returns only the latest version of each section's draft.
func (s *Store) DraftsForIssue(issueID int64) ([]*Draft, error) {
	rows, err := s.db.Query(
		`SELECT `+draftCols+` FROM drafts d
		 WHERE d.issue_id = ?
		   AND d.version = (SELECT MAX(version) FROM drafts
		                    WHERE issue_id = d.issue_id AND section_slug = d.section_slug)
		 ORDER BY d.section_slug ASC`, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateDraftStatus moves a draft between pending, approved, and rejected.
func (s *Store) UpdateDraftStatus(id int64, status string) error {
	return s.update("drafts", id, map[string]any{"status": status}, false)
}

// SetReviewerNotes attaches editor feedback to a draft.
func (s *Store) SetReviewerNotes(id int64, notes string) error {
	return s.update("drafts", id, map[string]any{"reviewer_notes": notes}, false)
}

// ApproveLatestDrafts approves the latest version of every section draft in
// an issue and returns how many rows changed.
func (s *Store) ApproveLatestDrafts(issueID int64) (int, error) {
	res, err := s.db.Exec(
		`UPDATE drafts SET status = ?
		 WHERE issue_id = ?
		   AND version = (SELECT MAX(version) FROM drafts d2
		                  WHERE d2.issue_id = drafts.issue_id
		                    AND d2.section_slug = drafts.section_slug)
		   AND status != ?`,
		DraftApproved, issueID, DraftApproved)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
