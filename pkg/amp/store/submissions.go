package store

import (
	"database/sql"
	"errors"
)

const submissionCols = `id, reference, artist_name, artist_email, artist_website, artist_social,
	submission_type, intake_method, title, description, release_date, genre,
	links_json, attachments_json, review_state, COALESCE(target_issue_id, 0),
	target_section_slug, COALESCE(draft_id, 0), api_source, created_at`

func scanSubmission(row interface{ Scan(...any) error }) (*Submission, error) {
	var sub Submission
	err := row.Scan(&sub.ID, &sub.Reference, &sub.ArtistName, &sub.ArtistEmail,
		&sub.ArtistWebsite, &sub.ArtistSocial, &sub.SubmissionType, &sub.IntakeMethod,
		&sub.Title, &sub.Description, &sub.ReleaseDate, &sub.Genre, &sub.LinksJSON,
		&sub.AttachmentsJSON, &sub.ReviewState, &sub.TargetIssueID,
		&sub.TargetSectionSlug, &sub.DraftID, &sub.APISource, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubmission stores a new artist submission in the submitted state.
func (s *Store) CreateSubmission(sub *Submission) (int64, error) {
	if sub.SubmissionType == "" {
		sub.SubmissionType = "new_release"
	}
	if sub.IntakeMethod == "" {
		sub.IntakeMethod = "web_form"
	}
	if sub.LinksJSON == "" {
		sub.LinksJSON = "[]"
	}
	if sub.AttachmentsJSON == "" {
		sub.AttachmentsJSON = "[]"
	}
	return s.insertID(
		`INSERT INTO artist_submissions
		 (reference, artist_name, artist_email, artist_website, artist_social,
		  submission_type, intake_method, title, description, release_date, genre,
		  links_json, attachments_json, api_source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.Reference, sub.ArtistName, sub.ArtistEmail, sub.ArtistWebsite, sub.ArtistSocial,
		sub.SubmissionType, sub.IntakeMethod, sub.Title, sub.Description, sub.ReleaseDate,
		sub.Genre, sub.LinksJSON, sub.AttachmentsJSON, sub.APISource)
}

// GetSubmission fetches a submission by ID.
func (s *Store) GetSubmission(id int64) (*Submission, error) {
	return scanSubmission(s.db.QueryRow(
		`SELECT `+submissionCols+` FROM artist_submissions WHERE id = ?`, id))
}

// GetSubmissionByReference fetches a submission by its public reference code.
func (s *Store) GetSubmissionByReference(ref string) (*Submission, error) {
	return scanSubmission(s.db.QueryRow(
		`SELECT `+submissionCols+` FROM artist_submissions WHERE reference = ?`, ref))
}

// SubmissionsByState lists submissions in one review state, oldest first so
// the queue drains fairly.
func (s *Store) SubmissionsByState(state string) ([]*Submission, error) {
	rows, err := s.db.Query(
		`SELECT `+submissionCols+` FROM artist_submissions
		 WHERE review_state = ? ORDER BY id ASC`, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// SubmissionByDraft finds the artist submission behind a draft, if any.
func (s *Store) SubmissionByDraft(draftID int64) (*Submission, error) {
	return scanSubmission(s.db.QueryRow(
		`SELECT `+submissionCols+` FROM artist_submissions WHERE draft_id = ?`, draftID))
}

// UpdateSubmission applies a partial field update. Review-state transitions
// are validated by the submissions package before reaching here.
func (s *Store) UpdateSubmission(id int64, fields map[string]any) error {
	return s.update("artist_submissions", id, fields, true)
}
