package store

// CreateSocialPost stores one platform-specific post in draft status.
func (s *Store) CreateSocialPost(platform, content string, issueID, agentTaskID int64) (int64, error) {
	return s.insertID(
		`INSERT INTO social_posts (platform, content, issue_id, agent_task_id)
		 VALUES (?, ?, ?, ?)`,
		platform, content, nullID(issueID), nullID(agentTaskID))
}

// SocialPostsForIssue lists the posts attached to an issue.
func (s *Store) SocialPostsForIssue(issueID int64) ([]*SocialPost, error) {
	rows, err := s.db.Query(
		`SELECT id, platform, content, COALESCE(issue_id, 0), status, scheduled_at,
		        posted_at, COALESCE(agent_task_id, 0), created_at
		 FROM social_posts WHERE issue_id = ? ORDER BY id ASC`, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SocialPost
	for rows.Next() {
		var p SocialPost
		if err := rows.Scan(&p.ID, &p.Platform, &p.Content, &p.IssueID, &p.Status,
			&p.ScheduledAt, &p.PostedAt, &p.AgentTaskID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// UpdateSocialPostStatus moves a post between draft, scheduled, and posted.
func (s *Store) UpdateSocialPostStatus(id int64, status string) error {
	return s.update("social_posts", id, map[string]any{"status": status}, false)
}
