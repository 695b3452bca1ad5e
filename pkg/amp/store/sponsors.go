package store

import (
	"database/sql"
	"errors"
)

// CreateSponsor adds a sponsor to the CRM.
func (s *Store) CreateSponsor(name, contactName, contactEmail, website, notes string) (int64, error) {
	return s.insertID(
		`INSERT INTO sponsors (name, contact_name, contact_email, website, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		name, contactName, contactEmail, website, notes)
}

// GetSponsor fetches one sponsor by ID.
func (s *Store) GetSponsor(id int64) (*Sponsor, error) {
	var sp Sponsor
	err := s.db.QueryRow(
		`SELECT id, name, contact_name, contact_email, website, notes, is_active, created_at
		 FROM sponsors WHERE id = ?`, id).Scan(
		&sp.ID, &sp.Name, &sp.ContactName, &sp.ContactEmail, &sp.Website,
		&sp.Notes, &sp.IsActive, &sp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// ActiveSponsors lists every active sponsor.
func (s *Store) ActiveSponsors() ([]*Sponsor, error) {
	rows, err := s.db.Query(
		`SELECT id, name, contact_name, contact_email, website, notes, is_active, created_at
		 FROM sponsors WHERE is_active = 1 ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Sponsor
	for rows.Next() {
		var sp Sponsor
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.ContactName, &sp.ContactEmail,
			&sp.Website, &sp.Notes, &sp.IsActive, &sp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &sp)
	}
	return out, rows.Err()
}

// CreateBooking opens a pipeline entry for a sponsor slot.
func (s *Store) CreateBooking(sponsorID, issueID int64, position, status string, rateCents int64, notes string) (int64, error) {
	if status == "" {
		status = "inquiry"
	}
	return s.insertID(
		`INSERT INTO sponsor_bookings (sponsor_id, issue_id, position, status, rate_cents, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sponsorID, nullID(issueID), position, status, rateCents, notes)
}

// UpdateBookingStatus advances a booking through the sales pipeline.
func (s *Store) UpdateBookingStatus(id int64, status string) error {
	return s.update("sponsor_bookings", id, map[string]any{"status": status}, true)
}

// BookingsForSponsor lists a sponsor's bookings, newest first.
func (s *Store) BookingsForSponsor(sponsorID int64) ([]*SponsorBooking, error) {
	rows, err := s.db.Query(
		`SELECT id, sponsor_id, COALESCE(issue_id, 0), position, status, rate_cents, notes, booked_at
		 FROM sponsor_bookings WHERE sponsor_id = ? ORDER BY id DESC`, sponsorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SponsorBooking
	for rows.Next() {
		var b SponsorBooking
		if err := rows.Scan(&b.ID, &b.SponsorID, &b.IssueID, &b.Position, &b.Status,
			&b.RateCents, &b.Notes, &b.BookedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// CreateSponsorBlock places an ad block in an issue.
func (s *Store) CreateSponsorBlock(b *SponsorBlock) (int64, error) {
	if b.Position == "" {
		b.Position = PositionMid
	}
	if b.CTAText == "" {
		b.CTAText = "Learn More"
	}
	return s.insertID(
		`INSERT INTO sponsor_blocks
		 (issue_id, position, sponsor_name, headline, body_html, cta_url, cta_text, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.IssueID, b.Position, b.SponsorName, b.Headline, b.BodyHTML,
		b.CTAURL, b.CTAText, b.ImageURL)
}

// SponsorBlocksForIssue returns the active ad blocks for an issue, in
// insertion order.
func (s *Store) SponsorBlocksForIssue(issueID int64) ([]*SponsorBlock, error) {
	rows, err := s.db.Query(
		`SELECT id, issue_id, position, sponsor_name, headline, body_html,
		        cta_url, cta_text, image_url, is_active
		 FROM sponsor_blocks WHERE issue_id = ? AND is_active = 1 ORDER BY id ASC`, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SponsorBlock
	for rows.Next() {
		var b SponsorBlock
		if err := rows.Scan(&b.ID, &b.IssueID, &b.Position, &b.SponsorName, &b.Headline,
			&b.BodyHTML, &b.CTAURL, &b.CTAText, &b.ImageURL, &b.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
