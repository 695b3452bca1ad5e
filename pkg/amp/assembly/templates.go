package assembly

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// Templates are inline-styled for email clients. Section content arrives
// already sanitized, so it is injected as trusted HTML.

var sectionTmpl = template.Must(template.New("section").Parse(`<div class="section">
  <h2 style="color:#1a1a2e;border-bottom:2px solid #e94560;padding-bottom:8px;letter-spacing:1px;">{{.DisplayName}}</h2>
  <div class="section-body">{{.Content}}</div>
</div>`))

var guestSectionTmpl = template.Must(template.New("guest").Parse(`<div class="section guest-section">
  <h2 style="color:#1a1a2e;border-bottom:2px solid #e94560;padding-bottom:8px;letter-spacing:1px;">GUEST COLUMN</h2>
  <div class="section-body">{{.Content}}</div>
  <div class="guest-attribution" style="background:#f4f4f8;border-left:4px solid #e94560;padding:12px 16px;margin-top:16px;">
    {{if .AuthorName}}<p style="margin:0;"><strong>{{.AuthorName}}</strong></p>{{end}}
    {{if .AuthorBio}}<p style="margin:4px 0 0;font-size:14px;color:#555;">{{.AuthorBio}}</p>{{end}}
    {{if .OriginalURL}}<p style="margin:4px 0 0;font-size:14px;"><a href="{{.OriginalURL}}">Read the original</a></p>{{end}}
  </div>
</div>`))

var submissionSectionTmpl = template.Must(template.New("submission").Parse(`<div class="section submission-section">
  <h2 style="color:#1a1a2e;border-bottom:2px solid #e94560;padding-bottom:8px;letter-spacing:1px;">{{.SectionTitle}}</h2>
  <div class="section-body">{{.Content}}</div>
  <div class="artist-info" style="background:#f4f4f8;border-left:4px solid #0f3460;padding:12px 16px;margin-top:16px;">
    {{if .ArtistName}}<p style="margin:0;"><strong>{{.ArtistName}}</strong></p>{{end}}
    {{if .ArtistWebsite}}<p style="margin:4px 0 0;font-size:14px;"><a href="{{.ArtistWebsite}}">{{.ArtistWebsite}}</a></p>{{end}}
    {{if .ArtistSocial}}<p style="margin:4px 0 0;font-size:14px;color:#555;">{{.ArtistSocial}}</p>{{end}}
  </div>
</div>`))

var sponsorBlockTmpl = template.Must(template.New("sponsor").Parse(`<div class="sponsor-block" style="background:#fffbe6;border:1px solid #f0e1a0;border-radius:8px;padding:16px;margin:24px 0;">
  <p style="margin:0 0 8px;font-size:11px;text-transform:uppercase;letter-spacing:2px;color:#999;">Sponsored{{if .SponsorName}} &middot; {{.SponsorName}}{{end}}</p>
  {{if .Headline}}<h3 style="margin:0 0 8px;color:#1a1a2e;">{{.Headline}}</h3>{{end}}
  {{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.SponsorName}}" style="max-width:100%;border-radius:4px;margin-bottom:8px;">{{end}}
  {{if .Body}}<div>{{.Body}}</div>{{end}}
  {{if .CTAURL}}<p style="margin:12px 0 0;"><a href="{{.CTAURL}}" style="background:#e94560;color:#fff;padding:10px 20px;border-radius:4px;text-decoration:none;display:inline-block;">{{.CTAText}}</a></p>{{end}}
</div>`))

var newsletterTmpl = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.NewsletterName}} #{{.IssueNumber}}</title>
</head>
<body style="margin:0;padding:0;background:#f0f0f5;font-family:Georgia,'Times New Roman',serif;color:#222;">
<div style="max-width:640px;margin:0 auto;background:#ffffff;padding:32px 24px;">
  <div class="header" style="text-align:center;margin-bottom:32px;">
    {{if .HeaderImageURL}}<img src="{{.HeaderImageURL}}" alt="{{.NewsletterName}}" style="max-width:100%;">{{end}}
    <h1 style="margin:8px 0 0;color:#1a1a2e;letter-spacing:2px;">{{.NewsletterName}}</h1>
    {{if .Tagline}}<p style="margin:4px 0 0;color:#888;font-style:italic;">{{.Tagline}}</p>{{end}}
    <p style="margin:12px 0 0;font-size:13px;color:#aaa;text-transform:uppercase;letter-spacing:2px;">Issue #{{.IssueNumber}}{{if .Title}} &middot; {{.Title}}{{end}}</p>
  </div>
  {{if .IntroCopy}}<div class="intro" style="margin-bottom:24px;">{{.IntroCopy}}</div>{{end}}
  {{range .Sections}}{{.}}
  {{end}}
  <div class="footer" style="margin-top:40px;padding-top:16px;border-top:1px solid #ddd;font-size:13px;color:#888;text-align:center;">
    {{if .FooterHTML}}{{.FooterHTML}}{{else}}<p>You are receiving this because you subscribed to {{.NewsletterName}}.</p>{{end}}
  </div>
</div>
</body>
</html>`))

func execTemplate(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func renderSection(displayName string, content template.HTML) (string, error) {
	return execTemplate(sectionTmpl, struct {
		DisplayName string
		Content     template.HTML
	}{displayName, content})
}

func renderGuestSection(content template.HTML, g *store.GuestArticle) (string, error) {
	return execTemplate(guestSectionTmpl, struct {
		Content     template.HTML
		AuthorName  string
		AuthorBio   string
		OriginalURL string
	}{content, g.AuthorName, g.AuthorBio, g.OriginalURL})
}

func renderSubmissionSection(content template.HTML, sectionTitle string, sub *store.Submission) (string, error) {
	return execTemplate(submissionSectionTmpl, struct {
		Content       template.HTML
		SectionTitle  string
		ArtistName    string
		ArtistWebsite string
		ArtistSocial  string
	}{content, sectionTitle, sub.ArtistName, sub.ArtistWebsite, sub.ArtistSocial})
}

func renderSponsorBlock(b *store.SponsorBlock) (string, error) {
	return execTemplate(sponsorBlockTmpl, struct {
		SponsorName string
		Headline    string
		Body        template.HTML
		CTAURL      string
		CTAText     string
		ImageURL    string
	}{b.SponsorName, b.Headline, template.HTML(Sanitize(b.BodyHTML)), b.CTAURL, b.CTAText, b.ImageURL})
}

// newsletterData is the shell's fill.
type newsletterData struct {
	NewsletterName string
	Tagline        string
	IssueNumber    int
	Title          string
	Sections       []template.HTML
	HeaderImageURL string
	IntroCopy      string
	FooterHTML     template.HTML
}

func renderNewsletter(data newsletterData) (string, error) {
	return execTemplate(newsletterTmpl, data)
}
