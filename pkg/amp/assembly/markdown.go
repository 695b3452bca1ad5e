// Package assembly turns approved drafts into the final newsletter: markdown
// rendering, XSS sanitization, sponsor splicing, and the email HTML shell.
package assembly

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders draft content. GFM covers the tables/strikethrough/autolink
// behavior editors expect; unsafe raw HTML passes through here and is caught
// by the sanitizer immediately after.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts draft markdown to sanitized HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return Sanitize(buf.String()), nil
}
