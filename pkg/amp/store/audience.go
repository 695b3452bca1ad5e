package store

import (
	"database/sql"
	"errors"
)

// UpsertSubscriber syncs one subscriber from the delivery platform, keyed by
// email. Returns the local row ID.
func (s *Store) UpsertSubscriber(email, beehiivID, status, subscribedAt string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM subscribers WHERE email = ?`, email).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.insertID(
			`INSERT INTO subscribers (email, beehiiv_id, status, subscribed_at, synced_at)
			 VALUES (?, ?, ?, COALESCE(NULLIF(?, ''), CURRENT_TIMESTAMP), CURRENT_TIMESTAMP)`,
			email, beehiivID, status, subscribedAt)
	case err != nil:
		return 0, err
	}
	_, err = s.db.Exec(
		`UPDATE subscribers SET beehiiv_id = ?, status = ?, synced_at = CURRENT_TIMESTAMP WHERE id = ?`,
		beehiivID, status, id)
	return id, err
}

// CountActiveSubscribers returns the current active subscriber count.
func (s *Store) CountActiveSubscribers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM subscribers WHERE status = 'active'`).Scan(&n)
	return n, err
}

// SaveEngagement records per-issue engagement pulled from the platform.
func (s *Store) SaveEngagement(m *EngagementMetrics) (int64, error) {
	return s.insertID(
		`INSERT INTO engagement_metrics
		 (issue_id, beehiiv_post_id, sends, opens, clicks, open_rate, click_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.IssueID, m.BeehiivPostID, m.Sends, m.Opens, m.Clicks, m.OpenRate, m.ClickRate)
}

// SaveGrowthSnapshot appends one daily growth rollup.
func (s *Store) SaveGrowthSnapshot(g *GrowthMetrics) (int64, error) {
	return s.insertID(
		`INSERT INTO growth_metrics
		 (metric_date, total_subscribers, new_subscribers, churned_subscribers,
		  open_rate_avg, click_rate_avg, referral_count, social_impressions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.MetricDate, g.TotalSubscribers, g.NewSubscribers, g.ChurnedSubscribers,
		g.OpenRateAvg, g.ClickRateAvg, g.ReferralCount, g.SocialImpressions)
}

// RecentGrowth returns the newest growth snapshots, most recent first.
func (s *Store) RecentGrowth(limit int) ([]*GrowthMetrics, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.Query(
		`SELECT id, metric_date, total_subscribers, new_subscribers, churned_subscribers,
		        open_rate_avg, click_rate_avg, referral_count, social_impressions
		 FROM growth_metrics ORDER BY metric_date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*GrowthMetrics
	for rows.Next() {
		var g GrowthMetrics
		if err := rows.Scan(&g.ID, &g.MetricDate, &g.TotalSubscribers, &g.NewSubscribers,
			&g.ChurnedSubscribers, &g.OpenRateAvg, &g.ClickRateAvg, &g.ReferralCount,
			&g.SocialImpressions); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}
