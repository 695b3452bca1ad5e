package store

// LogRotation records the rotation decision for an issue: one row per
// rotating slug that made the cut.
func (s *Store) LogRotation(issueID int64, slugs []string) error {
	for _, slug := range slugs {
		if err := s.LogRotationDecision(issueID, slug, true); err != nil {
			return err
		}
	}
	return nil
}

// LogRotationDecision records one rotating section's fate for an issue.
// Sections that lost the draw are logged too, with was_included = 0, so the
// history shows what was considered.
func (s *Store) LogRotationDecision(issueID int64, slug string, included bool) error {
	_, err := s.db.Exec(
		`INSERT INTO section_rotation_log (issue_id, section_slug, was_included) VALUES (?, ?, ?)`,
		issueID, slug, boolInt(included))
	return err
}

// RotationCounts returns how many times each rotating slug appeared across
// the most recent lookback issues that have rotation history. Slugs with no
// appearances in the window are absent from the map.
func (s *Store) RotationCounts(lookback int) (map[string]int, error) {
	if lookback <= 0 {
		return map[string]int{}, nil
	}
	rows, err := s.db.Query(
		`SELECT section_slug, COUNT(*) FROM section_rotation_log
		 WHERE was_included = 1 AND issue_id IN (
		     SELECT DISTINCT issue_id FROM section_rotation_log
		     ORDER BY issue_id DESC LIMIT ?
		 )
		 GROUP BY section_slug`, lookback)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slug string
		var n int
		if err := rows.Scan(&slug, &n); err != nil {
			return nil, err
		}
		counts[slug] = n
	}
	return counts, rows.Err()
}

// RotationForIssue returns the slugs logged for an issue, insertion order.
func (s *Store) RotationForIssue(issueID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT section_slug FROM section_rotation_log
		 WHERE issue_id = ? AND was_included = 1 ORDER BY id ASC`, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		out = append(out, slug)
	}
	return out, rows.Err()
}
