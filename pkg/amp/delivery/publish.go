package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// Publisher pushes assembled issues to beehiiv and syncs audience data back.
type Publisher struct {
	store  *store.Store
	client *BeehiivClient
	cfg    *config.AppConfig
	logger *slog.Logger
}

// NewPublisher builds a publisher.
func NewPublisher(s *store.Store, client *BeehiivClient, cfg *config.AppConfig, logger *slog.Logger) *Publisher {
	return &Publisher{store: s, client: client, cfg: cfg, logger: logger.With("component", "delivery")}
}

// Push uploads the latest assembled snapshot of an issue to beehiiv. With
// send=false the post lands as a beehiiv draft for a final human look; with
// send=true it is confirmed and the issue moves to sent.
func (p *Publisher) Push(ctx context.Context, issueID int64, send bool) (*Post, error) {
	if p.cfg.Beehiiv.APIKey == "" || p.cfg.Beehiiv.PublicationID == "" {
		return nil, fmt.Errorf("beehiiv not configured: set BEEHIIV_API_KEY and BEEHIIV_PUBLICATION_ID")
	}

	issue, err := p.store.GetIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("loading issue: %w", err)
	}
	assembled, err := p.store.LatestAssembled(issueID)
	if err != nil {
		return nil, fmt.Errorf("no assembled snapshot for issue #%d: %w", issue.IssueNumber, err)
	}

	title := fmt.Sprintf("%s #%d", p.cfg.Newsletter.Name, issue.IssueNumber)
	if issue.Title != "" {
		title += " — " + issue.Title
	}

	post, err := p.client.CreatePost(ctx, title, p.cfg.Newsletter.Tagline, assembled.HTMLContent, send)
	if err != nil {
		return nil, fmt.Errorf("creating beehiiv post: %w", err)
	}

	if err := p.store.MarkAssembledPublished(assembled.ID, post.ID); err != nil {
		return nil, err
	}
	if send {
		if err := p.store.UpdateIssueStatus(issueID, store.IssueSent); err != nil {
			return nil, err
		}
	}
	p.logger.Info("pushed to beehiiv", "issue", issue.IssueNumber, "post_id", post.ID, "sent", send)
	return post, nil
}

// SyncResult summarizes one subscriber sync run.
type SyncResult struct {
	Synced int
	New    int
	Total  int
}

// SyncSubscribers pulls the active subscriber list from beehiiv and upserts
// it locally.
func (p *Publisher) SyncSubscribers(ctx context.Context) (*SyncResult, error) {
	before, err := p.store.CountActiveSubscribers()
	if err != nil {
		return nil, err
	}

	subs, err := p.client.AllSubscribers(ctx, "active")
	if err != nil {
		return nil, fmt.Errorf("listing beehiiv subscribers: %w", err)
	}

	synced := 0
	for _, sub := range subs {
		if sub.Email == "" {
			continue
		}
		status := sub.Status
		if status == "" {
			status = "active"
		}
		subscribedAt := ""
		if sub.Created > 0 {
			subscribedAt = time.Unix(sub.Created, 0).UTC().Format(time.RFC3339)
		}
		if _, err := p.store.UpsertSubscriber(sub.Email, sub.ID, status, subscribedAt); err != nil {
			return nil, err
		}
		synced++
	}

	after, err := p.store.CountActiveSubscribers()
	if err != nil {
		return nil, err
	}
	newCount := after - before
	if newCount < 0 {
		newCount = 0
	}
	p.logger.Info("subscribers synced", "synced", synced, "new", newCount, "total", after)
	return &SyncResult{Synced: synced, New: newCount, Total: after}, nil
}

// FetchEngagement pulls post stats for a published issue into
// engagement_metrics.
func (p *Publisher) FetchEngagement(ctx context.Context, issueID int64) (*store.EngagementMetrics, error) {
	assembled, err := p.store.LatestAssembled(issueID)
	if err != nil {
		return nil, err
	}
	if assembled.BeehiivPostID == "" {
		return nil, fmt.Errorf("issue has no beehiiv post yet")
	}

	stats, err := p.client.GetPostStats(ctx, assembled.BeehiivPostID)
	if err != nil {
		return nil, fmt.Errorf("fetching post stats: %w", err)
	}

	m := &store.EngagementMetrics{
		IssueID:       issueID,
		BeehiivPostID: assembled.BeehiivPostID,
		Sends:         stats.Recipients,
		Opens:         stats.UniqueOpens,
		Clicks:        stats.UniqueClicks,
		OpenRate:      stats.OpenRate,
		ClickRate:     stats.ClickRate,
	}
	if _, err := p.store.SaveEngagement(m); err != nil {
		return nil, err
	}
	return m, nil
}
