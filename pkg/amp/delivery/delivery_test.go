package delivery

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreatePost(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "post_123", "status": "draft"}})
	}))
	defer srv.Close()

	c := NewBeehiivClient(config.BeehiivConfig{APIKey: "bk", PublicationID: "pub_1", BaseURL: srv.URL})
	post, err := c.CreatePost(context.Background(), "Title", "Sub", "<p>hi</p>", false)
	require.NoError(t, err)
	assert.Equal(t, "post_123", post.ID)
	assert.Equal(t, "/publications/pub_1/posts", gotPath)
	assert.Equal(t, "Bearer bk", gotAuth)
	assert.Equal(t, "draft", gotPayload["status"])
	assert.Equal(t, "html", gotPayload["content_type"])
}

func TestAllSubscribers_Paginates(t *testing.T) {
	pagesServed := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		page := r.URL.Query().Get("page")
		var data []Subscription
		if page == "1" {
			data = []Subscription{{ID: "s1", Email: "a@example.com"}, {ID: "s2", Email: "b@example.com"}}
		} else {
			data = []Subscription{{ID: "s3", Email: "c@example.com"}}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data, "total_results": 3})
	}))
	defer srv.Close()

	c := NewBeehiivClient(config.BeehiivConfig{APIKey: "bk", PublicationID: "pub_1", BaseURL: srv.URL})
	subs, err := c.AllSubscribers(context.Background(), "active")
	require.NoError(t, err)
	assert.Len(t, subs, 3)
	assert.Equal(t, 2, pagesServed)
}

func publisherFixture(t *testing.T, handler http.Handler) (*store.Store, *Publisher) {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Beehiiv = config.BeehiivConfig{APIKey: "bk", PublicationID: "pub_1", BaseURL: srv.URL}
	client := NewBeehiivClient(cfg.Beehiiv)
	return s, NewPublisher(s, client, cfg, testLogger())
}

func TestPush_SendMarksIssueSent(t *testing.T) {
	s, p := publisherFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		assert.Equal(t, "confirmed", payload["status"])
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "post_9"}})
	}))

	issue, err := s.CreateIssue(3, "Hooks", "", "", "")
	require.NoError(t, err)
	_, err = s.SaveAssembled(issue.ID, "<html>issue</html>", "issue")
	require.NoError(t, err)

	post, err := p.Push(context.Background(), issue.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "post_9", post.ID)

	got, err := s.GetIssue(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, store.IssueSent, got.Status)

	snap, err := s.LatestAssembled(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "post_9", snap.BeehiivPostID)
	assert.NotEmpty(t, snap.PublishedAt)
}

func TestPush_RequiresAssembledSnapshot(t *testing.T) {
	s, p := publisherFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API call expected")
	}))
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	_, err = p.Push(context.Background(), issue.ID, false)
	require.Error(t, err)
}

func TestSyncSubscribers(t *testing.T) {
	s, p := publisherFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []Subscription{
				{ID: "b1", Email: "one@example.com", Status: "active", Created: 1756000000},
				{ID: "b2", Email: "", Status: "active"}, // skipped
			},
			"total_results": 2,
		})
	}))

	res, err := p.SyncSubscribers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 1, res.New)
	assert.Equal(t, 1, res.Total)

	n, err := s.CountActiveSubscribers()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFetchEngagement(t *testing.T) {
	s, p := publisherFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/publications/pub_1/posts/post_7/stats", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"data": PostStats{
			Recipients: 100, UniqueOpens: 40, UniqueClicks: 10, OpenRate: 0.4, ClickRate: 0.1,
		}})
	}))

	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)
	snapID, err := s.SaveAssembled(issue.ID, "<html></html>", "")
	require.NoError(t, err)
	require.NoError(t, s.MarkAssembledPublished(snapID, "post_7"))

	m, err := p.FetchEngagement(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, m.Sends)
	assert.Equal(t, 40, m.Opens)
	assert.InDelta(t, 0.4, m.OpenRate, 1e-9)
}
