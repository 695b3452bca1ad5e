package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

const (
	maxScrapedArticles = 10
	maxFullTextChars   = 5000
	userAgent          = "truefans-amp/1.0 (+https://truefans.com)"
)

var scraperClient = &http.Client{Timeout: 30 * time.Second}

func fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := scraperClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// ScrapeListing pulls article links off a site's blog/homepage using common
// listing patterns. Only titles and URLs; bodies come from ScrapeArticle.
func ScrapeListing(ctx context.Context, baseURL string) ([]*Item, error) {
	doc, err := fetchDocument(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var items []*Item
	seen := map[string]bool{}
	doc.Find("article a[href], .post a[href], h2 a[href], h3 a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return true
		}
		seen[abs] = true

		title := strings.TrimSpace(sel.Text())
		if len(title) < 5 {
			return true
		}
		items = append(items, &Item{Title: title, URL: abs})
		return len(items) < maxScrapedArticles
	})
	return items, nil
}

// ScrapeArticle fetches a single article page and extracts its title,
// author, and body. The body is converted to Markdown so it drops straight
// into research briefs and prompts.
func ScrapeArticle(ctx context.Context, articleURL string) (*Item, error) {
	doc, err := fetchDocument(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	author := ""
	doc.Find("[class*=author], [class*=Author]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		author = strings.TrimSpace(sel.Text())
		return author == ""
	})

	content := doc.Find("article").First()
	if content.Length() == 0 {
		content = doc.Find("[class*=content], [class*=Content]").First()
	}
	if content.Length() == 0 {
		content = doc.Find("[class*=post], [class*=Post]").First()
	}

	fullText := ""
	if content.Length() > 0 {
		if html, err := content.Html(); err == nil {
			if md, err := htmltomarkdown.ConvertString(html); err == nil {
				fullText = strings.TrimSpace(md)
			}
		}
	}
	if len(fullText) > maxFullTextChars {
		fullText = fullText[:maxFullTextChars]
	}

	summary := fullText
	if len(summary) > 500 {
		summary = summary[:500]
	}

	return &Item{
		Title:    title,
		URL:      articleURL,
		Author:   author,
		Summary:  summary,
		FullText: fullText,
	}, nil
}
