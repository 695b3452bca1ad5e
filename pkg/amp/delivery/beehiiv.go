// Package delivery publishes assembled issues through the beehiiv API v2
// and syncs subscriber and engagement data back into the store.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
)

// BeehiivClient talks to the beehiiv API v2.
type BeehiivClient struct {
	cfg        config.BeehiivConfig
	httpClient *http.Client
}

// NewBeehiivClient builds a client from the delivery configuration.
func NewBeehiivClient(cfg config.BeehiivConfig) *BeehiivClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &BeehiivClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Post is one beehiiv post record.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Status      string `json:"status"`
	PublishDate int64  `json:"publish_date"`
	WebURL      string `json:"web_url"`
}

// Subscription is one beehiiv subscriber record.
type Subscription struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Created int64  `json:"created"`
}

// PostStats is the engagement rollup for a post.
type PostStats struct {
	Recipients   int     `json:"recipients"`
	Opens        int     `json:"opens"`
	UniqueOpens  int     `json:"unique_opens"`
	Clicks       int     `json:"clicks"`
	UniqueClicks int     `json:"unique_clicks"`
	OpenRate     float64 `json:"open_rate"`
	ClickRate    float64 `json:"click_rate"`
}

func (c *BeehiivClient) pubURL(path string) string {
	return fmt.Sprintf("%s/publications/%s%s", c.cfg.BaseURL, c.cfg.PublicationID, path)
}

func (c *BeehiivClient) do(ctx context.Context, method, rawURL string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("beehiiv API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// CreatePost creates a post. send=false saves a draft; send=true confirms it
// for delivery.
func (c *BeehiivClient) CreatePost(ctx context.Context, title, subtitle, htmlContent string, send bool) (*Post, error) {
	status := "draft"
	if send {
		status = "confirmed"
	}
	payload := map[string]any{
		"title":        title,
		"subtitle":     subtitle,
		"content":      htmlContent,
		"content_type": "html",
		"status":       status,
	}
	var wrapper struct {
		Data Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, c.pubURL("/posts"), payload, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// GetPost fetches a post by ID.
func (c *BeehiivClient) GetPost(ctx context.Context, postID string) (*Post, error) {
	var wrapper struct {
		Data Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.pubURL("/posts/"+postID), nil, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// GetPostStats fetches engagement stats for a post.
func (c *BeehiivClient) GetPostStats(ctx context.Context, postID string) (*PostStats, error) {
	var wrapper struct {
		Data PostStats `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.pubURL("/posts/"+postID+"/stats"), nil, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// subscriptionsPage is one page of the subscriptions listing.
type subscriptionsPage struct {
	Data         []Subscription `json:"data"`
	TotalResults int            `json:"total_results"`
}

func (c *BeehiivClient) listSubscriptions(ctx context.Context, status string, limit, page int) (*subscriptionsPage, error) {
	q := url.Values{}
	q.Set("status", status)
	q.Set("limit", strconv.Itoa(limit))
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out subscriptionsPage
	if err := c.do(ctx, http.MethodGet, c.pubURL("/subscriptions")+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscriberCount returns the total active subscriber count.
func (c *BeehiivClient) SubscriberCount(ctx context.Context) (int, error) {
	page, err := c.listSubscriptions(ctx, "active", 1, 0)
	if err != nil {
		return 0, err
	}
	return page.TotalResults, nil
}

// AllSubscribers pages through the full subscriber list.
func (c *BeehiivClient) AllSubscribers(ctx context.Context, status string) ([]Subscription, error) {
	var all []Subscription
	for page := 1; ; page++ {
		resp, err := c.listSubscriptions(ctx, status, 100, page)
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			break
		}
		all = append(all, resp.Data...)
		if len(all) >= resp.TotalResults {
			break
		}
	}
	return all, nil
}
