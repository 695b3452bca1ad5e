// Package research discovers content candidates for the newsletter: RSS
// feeds and scraped article listings, deduplicated by URL and handed to the
// relevance scorer.
package research

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Item is one discovered content candidate, source-agnostic.
type Item struct {
	Title       string
	URL         string
	Author      string
	Summary     string
	FullText    string
	PublishedAt string // RFC 3339, empty when the source omits it
}

// FetchFeed parses an RSS/Atom feed into items. Summaries are flattened to
// plain text and capped at 1000 characters.
func FetchFeed(ctx context.Context, url string) ([]*Item, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		published := ""
		switch {
		case entry.PublishedParsed != nil:
			published = entry.PublishedParsed.UTC().Format(time.RFC3339)
		case entry.UpdatedParsed != nil:
			published = entry.UpdatedParsed.UTC().Format(time.RFC3339)
		}

		summary := stripTags(entry.Description)
		if summary == "" && entry.Content != "" {
			summary = stripTags(entry.Content)
		}
		if len(summary) > 1000 {
			summary = summary[:1000]
		}

		author := ""
		if len(entry.Authors) > 0 {
			author = entry.Authors[0].Name
		}

		items = append(items, &Item{
			Title:       entry.Title,
			URL:         entry.Link,
			Author:      author,
			Summary:     summary,
			PublishedAt: published,
		})
	}
	return items, nil
}

// stripTags flattens markup to whitespace-normalized text. Good enough for
// feed summaries; article bodies go through the markdown converter instead.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
