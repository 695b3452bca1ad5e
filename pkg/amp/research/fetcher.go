package research

import (
	"context"
	"log/slog"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/relevance"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// Fetcher pulls content from every registered source into raw_content.
type Fetcher struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFetcher builds a fetcher over the store.
func NewFetcher(s *store.Store, logger *slog.Logger) *Fetcher {
	return &Fetcher{store: s, logger: logger.With("component", "research")}
}

// SyncSources registers the configured sources, returning how many were new.
func (f *Fetcher) SyncSources(entries []config.SourceEntry) (int, error) {
	existing := map[string]bool{}
	sources, err := f.store.ActiveSources()
	if err != nil {
		return 0, err
	}
	for _, src := range sources {
		existing[src.URL] = true
	}

	added := 0
	for _, e := range entries {
		if existing[e.URL] {
			continue
		}
		if _, err := f.store.UpsertSource(e.Name, e.Type, e.URL, e.TargetSections); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// FetchAll pulls from every active source. A broken source is logged and
// skipped; it never takes down the run. Returns items added per source name.
func (f *Fetcher) FetchAll(ctx context.Context) (map[string]int, error) {
	sources, err := f.store.ActiveSources()
	if err != nil {
		return nil, err
	}

	results := map[string]int{}
	for _, src := range sources {
		var items []*Item
		var fetchErr error
		switch src.SourceType {
		case "rss":
			items, fetchErr = FetchFeed(ctx, src.URL)
		case "scrape":
			items, fetchErr = ScrapeListing(ctx, src.URL)
		default:
			f.logger.Warn("unknown source type", "source", src.Name, "type", src.SourceType)
			results[src.Name] = 0
			continue
		}
		if fetchErr != nil {
			f.logger.Error("fetch failed", "source", src.Name, "error", fetchErr)
			results[src.Name] = 0
			continue
		}

		added, err := f.storeItems(src, items)
		if err != nil {
			return results, err
		}
		results[src.Name] = added
		if err := f.store.TouchSourceFetched(src.ID); err != nil {
			return results, err
		}
		f.logger.Info("source fetched", "source", src.Name, "items", len(items), "added", added)
	}
	return results, nil
}

// storeItems inserts new items (URL-deduplicated) pre-tagged with the
// source's target sections.
func (f *Fetcher) storeItems(src *store.Source, items []*Item) (int, error) {
	added := 0
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		_, inserted, err := f.store.InsertRawContent(&store.RawContent{
			SourceID:        src.ID,
			Title:           item.Title,
			URL:             item.URL,
			Author:          item.Author,
			Summary:         item.Summary,
			FullText:        item.FullText,
			PublishedAt:     item.PublishedAt,
			MatchedSections: src.TargetSections,
		})
		if err != nil {
			return added, err
		}
		if inserted {
			added++
		}
	}
	return added, nil
}

// EnrichFullText scrapes article bodies for scrape-sourced items that only
// have listing metadata. A failed scrape is logged and skipped. Returns how
// many items were enriched.
func (f *Fetcher) EnrichFullText(ctx context.Context, limit int) (int, error) {
	pending, err := f.store.ContentMissingFullText(limit)
	if err != nil {
		return 0, err
	}
	enriched := 0
	for _, item := range pending {
		article, err := ScrapeArticle(ctx, item.URL)
		if err != nil {
			f.logger.Warn("article scrape failed", "url", item.URL, "error", err)
			continue
		}
		if article.FullText == "" {
			continue
		}
		summary := ""
		if item.Summary == "" {
			summary = article.Summary
		}
		if err := f.store.SetContentFullText(item.ID, article.FullText, summary); err != nil {
			return enriched, err
		}
		enriched++
	}
	return enriched, nil
}

// ScorePending runs the relevance scorer over unscored items. Returns how
// many were tagged.
func (f *Fetcher) ScorePending() (int, error) {
	pending, err := f.store.UnscoredContent(0)
	if err != nil {
		return 0, err
	}
	scored := 0
	for _, item := range pending {
		if err := relevance.ScoreAndTag(f.store, item.ID, item.Title, item.Summary); err != nil {
			return scored, err
		}
		scored++
	}
	return scored, nil
}
