package store

import (
	"database/sql"
	"errors"
)

// CreateGuestContact adds a person to the guest contributor rolodex.
func (s *Store) CreateGuestContact(name, email, organization, role, website, notes string) (int64, error) {
	return s.insertID(
		`INSERT INTO guest_contacts (name, email, organization, role, website, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, email, organization, role, website, notes)
}

// ListGuestContacts returns the rolodex, newest first.
func (s *Store) ListGuestContacts() ([]*GuestContact, error) {
	rows, err := s.db.Query(
		`SELECT id, name, email, organization, role, website, notes, created_at
		 FROM guest_contacts ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*GuestContact
	for rows.Next() {
		var c GuestContact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Organization, &c.Role,
			&c.Website, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

const guestArticleCols = `id, COALESCE(contact_id, 0), title, author_name, author_bio, original_url,
	content_full, content_summary, display_mode, permission_state,
	COALESCE(target_issue_id, 0), target_section_slug, COALESCE(draft_id, 0), created_at`

func scanGuestArticle(row interface{ Scan(...any) error }) (*GuestArticle, error) {
	var g GuestArticle
	err := row.Scan(&g.ID, &g.ContactID, &g.Title, &g.AuthorName, &g.AuthorBio,
		&g.OriginalURL, &g.ContentFull, &g.ContentSummary, &g.DisplayMode,
		&g.PermissionState, &g.TargetIssueID, &g.TargetSectionSlug, &g.DraftID,
		&g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGuestArticle opens a guest piece in the requested permission state.
func (s *Store) CreateGuestArticle(g *GuestArticle) (int64, error) {
	if g.DisplayMode == "" {
		g.DisplayMode = "full"
	}
	if g.PermissionState == "" {
		g.PermissionState = GuestRequested
	}
	return s.insertID(
		`INSERT INTO guest_articles
		 (contact_id, title, author_name, author_bio, original_url, content_full,
		  content_summary, display_mode, permission_state, target_issue_id, target_section_slug)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(g.ContactID), g.Title, g.AuthorName, g.AuthorBio, g.OriginalURL,
		g.ContentFull, g.ContentSummary, g.DisplayMode, g.PermissionState,
		nullID(g.TargetIssueID), g.TargetSectionSlug)
}

// GetGuestArticle fetches one guest piece by ID.
func (s *Store) GetGuestArticle(id int64) (*GuestArticle, error) {
	return scanGuestArticle(s.db.QueryRow(
		`SELECT `+guestArticleCols+` FROM guest_articles WHERE id = ?`, id))
}

// GuestArticlesByState lists guest pieces in one permission state.
func (s *Store) GuestArticlesByState(state string) ([]*GuestArticle, error) {
	rows, err := s.db.Query(
		`SELECT `+guestArticleCols+` FROM guest_articles
		 WHERE permission_state = ? ORDER BY id DESC`, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*GuestArticle
	for rows.Next() {
		g, err := scanGuestArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GuestArticleByDraft finds the guest piece behind a draft, if any.
func (s *Store) GuestArticleByDraft(draftID int64) (*GuestArticle, error) {
	return scanGuestArticle(s.db.QueryRow(
		`SELECT `+guestArticleCols+` FROM guest_articles WHERE draft_id = ?`, draftID))
}

// UpdateGuestArticle applies a partial field update. Permission transitions
// are validated by the guests package before reaching here.
func (s *Store) UpdateGuestArticle(id int64, fields map[string]any) error {
	return s.update("guest_articles", id, fields, true)
}
