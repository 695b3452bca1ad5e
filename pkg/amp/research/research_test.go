package research

import (
	"context"
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

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Indie Music News</title>
    <item>
      <title>Streaming payouts explained</title>
      <link>https://example.com/payouts</link>
      <description>&lt;p&gt;How &lt;b&gt;royalties&lt;/b&gt; actually flow.&lt;/p&gt;</description>
      <pubDate>Mon, 24 Aug 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second piece</title>
      <link>https://example.com/second</link>
      <description>Plain summary.</description>
    </item>
  </channel>
</rss>`

func TestFetchFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, testFeed)
	}))
	defer srv.Close()

	items, err := FetchFeed(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Streaming payouts explained", items[0].Title)
	assert.Equal(t, "https://example.com/payouts", items[0].URL)
	assert.Equal(t, "How royalties actually flow.", items[0].Summary, "markup stripped from summary")
	assert.NotEmpty(t, items[0].PublishedAt)
	assert.Empty(t, items[1].PublishedAt, "missing dates stay empty")
}

const testListing = `<html><body>
<article><a href="/posts/one">First Great Article</a></article>
<article><a href="/posts/one">First Great Article (dup)</a></article>
<h2><a href="https://other.example.com/two">Second Article Elsewhere</a></h2>
<h3><a href="#skip">Anchor link</a></h3>
<h2><a href="/short">abc</a></h2>
</body></html>`

func TestScrapeListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, testListing)
	}))
	defer srv.Close()

	items, err := ScrapeListing(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "First Great Article", items[0].Title)
	assert.Equal(t, srv.URL+"/posts/one", items[0].URL, "relative links resolved against base")
	assert.Equal(t, "https://other.example.com/two", items[1].URL)
}

func TestScrapeArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><head><title>Fallback Title</title></head><body>
<h1>Proper Title</h1>
<span class="author-name">Casey Writer</span>
<article><p>First paragraph of the piece.</p><p>Second paragraph with <strong>emphasis</strong>.</p></article>
</body></html>`)
	}))
	defer srv.Close()

	item, err := ScrapeArticle(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Proper Title", item.Title)
	assert.Equal(t, "Casey Writer", item.Author)
	assert.Contains(t, item.FullText, "First paragraph of the piece.")
	assert.Contains(t, item.FullText, "**emphasis**", "body converted to markdown")
}

func TestFetchAll_IsolatesBrokenSources(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, testFeed)
	}))
	defer good.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer broken.Close()

	f := NewFetcher(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	added, err := f.SyncSources([]config.SourceEntry{
		{Name: "good feed", Type: "rss", URL: good.URL, TargetSections: "industry_pulse"},
		{Name: "broken feed", Type: "rss", URL: broken.URL},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	results, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, results["good feed"])
	assert.Equal(t, 0, results["broken feed"], "broken source reports zero, run continues")

	// Second run adds nothing: URLs already on file.
	results, err = f.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, results["good feed"])

	items, err := f.store.TopContentForSection("industry_pulse", 10)
	require.NoError(t, err)
	assert.Len(t, items, 2, "items pre-tagged with the source's target sections")
}

func TestEnrichFullText(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><h1>Sync Licensing 101</h1>
<article><p>Everything about placing songs in film and TV.</p></article>
</body></html>`)
	}))
	defer srv.Close()

	scrapeID, err := s.UpsertSource("indie blog", "scrape", srv.URL, "")
	require.NoError(t, err)
	rssID, err := s.UpsertSource("some feed", "rss", srv.URL+"/feed", "")
	require.NoError(t, err)

	listed, _, err := s.InsertRawContent(&store.RawContent{
		SourceID: scrapeID, Title: "Sync Licensing 101", URL: srv.URL + "/sync",
	})
	require.NoError(t, err)
	fromFeed, _, err := s.InsertRawContent(&store.RawContent{
		SourceID: rssID, Title: "Feed item", URL: srv.URL + "/feed-item",
	})
	require.NoError(t, err)

	f := NewFetcher(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	enriched, err := f.EnrichFullText(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, enriched, "only scrape-sourced items are enriched")

	items, err := s.ContentMissingFullText(0)
	require.NoError(t, err)
	assert.Empty(t, items)

	got := findContent(t, s, listed)
	assert.Contains(t, got.FullText, "placing songs in film and TV")
	assert.NotEmpty(t, got.Summary, "summary backfilled from the article body")

	feedItem := findContent(t, s, fromFeed)
	assert.Empty(t, feedItem.FullText)

	// A second pass finds nothing left to do.
	enriched, err = f.EnrichFullText(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, enriched)
}

func findContent(t *testing.T, s *store.Store, id int64) *store.RawContent {
	t.Helper()
	items, err := s.UnscoredContent(0)
	require.NoError(t, err)
	for _, item := range items {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("content %d not found", id)
	return nil
}

func TestScorePending(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	id, _, err := s.InsertRawContent(&store.RawContent{
		Title:   "Songwriting advice: melody and chorus hooks",
		URL:     "https://example.com/songcraft-piece",
		Summary: "chord progression tips and the creative process",
	})
	require.NoError(t, err)

	f := NewFetcher(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	scored, err := f.ScorePending()
	require.NoError(t, err)
	assert.Equal(t, 1, scored)

	items, err := s.TopContentForSection("songcraft", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Greater(t, items[0].RelevanceScore, 0.0)
}
