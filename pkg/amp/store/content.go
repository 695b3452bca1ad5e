package store

import (
	"database/sql"
	"errors"
)

const rawContentCols = `id, COALESCE(source_id, 0), title, url, author, summary, full_text,
	published_at, fetched_at, relevance_score, matched_sections, is_used`

func scanRawContent(row interface{ Scan(...any) error }) (*RawContent, error) {
	var rc RawContent
	err := row.Scan(&rc.ID, &rc.SourceID, &rc.Title, &rc.URL, &rc.Author, &rc.Summary,
		&rc.FullText, &rc.PublishedAt, &rc.FetchedAt, &rc.RelevanceScore,
		&rc.MatchedSections, &rc.IsUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// InsertRawContent stores a discovered item. Items whose URL is already on
// file are skipped; the returned bool reports whether a row was inserted.
func (s *Store) InsertRawContent(rc *RawContent) (int64, bool, error) {
	if rc.URL != "" {
		var existing int64
		err := s.db.QueryRow(`SELECT id FROM raw_content WHERE url = ?`, rc.URL).Scan(&existing)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, false, err
		}
	}
	id, err := s.insertID(
		`INSERT INTO raw_content
		 (source_id, title, url, author, summary, full_text, published_at, relevance_score, matched_sections)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(rc.SourceID), rc.Title, rc.URL, rc.Author, rc.Summary, rc.FullText,
		rc.PublishedAt, rc.RelevanceScore, rc.MatchedSections)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// UnscoredContent returns items whose relevance has not been computed yet.
func (s *Store) UnscoredContent(limit int) ([]*RawContent, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.queryRawContent(
		`WHERE relevance_score = 0 AND matched_sections = '' ORDER BY fetched_at DESC LIMIT ?`, limit)
}

// SetContentScore writes the relevance verdict onto an item.
func (s *Store) SetContentScore(id int64, score float64, matchedSections string) error {
	return s.update("raw_content", id, map[string]any{
		"relevance_score":  score,
		"matched_sections": matchedSections,
	}, false)
}

// TopContentForSection returns the highest scoring unused items matched to a
// section, newest first within equal scores.
func (s *Store) TopContentForSection(slug string, limit int) ([]*RawContent, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.queryRawContent(
		`WHERE is_used = 0
		   AND (',' || matched_sections || ',') LIKE '%,' || ? || ',%'
		 ORDER BY relevance_score DESC, fetched_at DESC LIMIT ?`, slug, limit)
}

// ContentMissingFullText returns items from scrape sources whose article
// body has not been fetched yet, newest first.
func (s *Store) ContentMissingFullText(limit int) ([]*RawContent, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRawContent(
		`WHERE full_text = '' AND url != ''
		   AND source_id IN (SELECT id FROM sources WHERE source_type = 'scrape')
		 ORDER BY fetched_at DESC LIMIT ?`, limit)
}

// SetContentFullText stores a scraped article body on an item. An empty
// summary leaves the existing one alone.
func (s *Store) SetContentFullText(id int64, fullText, summary string) error {
	fields := map[string]any{"full_text": fullText}
	if summary != "" {
		fields["summary"] = summary
	}
	return s.update("raw_content", id, fields, false)
}

// MarkContentUsed flags items as consumed so later briefs skip them.
func (s *Store) MarkContentUsed(ids []int64) error {
	for _, id := range ids {
		if _, err := s.db.Exec(`UPDATE raw_content SET is_used = 1 WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) queryRawContent(where string, args ...any) ([]*RawContent, error) {
	rows, err := s.db.Query(`SELECT `+rawContentCols+` FROM raw_content `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RawContent
	for rows.Next() {
		rc, err := scanRawContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// nullID maps 0 to NULL for optional foreign keys.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
