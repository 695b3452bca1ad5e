package assembly

import "github.com/microcosm-cc/bluemonday"

// policy is the newsletter content allow-list: structural and inline markup
// survives, scripts, event handlers, and non-http(s)/mailto URLs do not.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "h1", "h2", "h3", "h4", "h5", "h6",
		"a", "strong", "em", "b", "i", "u",
		"ul", "ol", "li",
		"blockquote", "br", "hr",
		"img",
		"code", "pre",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span",
		"dl", "dt", "dd",
		"sup", "sub",
		"abbr",
	)

	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("colspan", "rowspan", "align").OnElements("td", "th")
	p.AllowAttrs("title").OnElements("abbr")

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)

	return p
}

// Sanitize strips everything outside the content allow-list. Text inside
// removed elements is kept; the markup itself is dropped.
func Sanitize(rawHTML string) string {
	return policy.Sanitize(rawHTML)
}
