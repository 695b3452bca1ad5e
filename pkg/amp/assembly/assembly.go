package assembly

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// Assembler renders issues from their approved drafts.
type Assembler struct {
	store *store.Store
	cfg   *config.AppConfig
}

// NewAssembler builds an assembler over the store.
func NewAssembler(s *store.Store, cfg *config.AppConfig) *Assembler {
	return &Assembler{store: s, cfg: cfg}
}

// Output is one rendered issue.
type Output struct {
	HTML      string
	PlainText string
	Sections  int
}

// Assemble renders the approved drafts of an issue into the final HTML and
// plain-text documents. Only approved or revised drafts (latest version per
// section) make the cut; sponsor blocks are spliced at their booked
// positions.
func (a *Assembler) Assemble(issueID int64) (*Output, error) {
	issue, err := a.store.GetIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("loading issue: %w", err)
	}

	drafts, err := a.store.DraftsForIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("loading drafts: %w", err)
	}

	sortOrder, displayNames, err := a.sectionLookup()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return orderOf(sortOrder, drafts[i].SectionSlug) < orderOf(sortOrder, drafts[j].SectionSlug)
	})

	var sections []template.HTML
	var plainParts []string
	for _, draft := range drafts {
		if draft.Status != store.DraftApproved && draft.Status != store.DraftRevised {
			continue
		}

		display := displayNames[draft.SectionSlug]
		if display == "" {
			display = strings.ToUpper(draft.SectionSlug)
		}

		contentHTML, err := RenderMarkdown(draft.Content)
		if err != nil {
			return nil, err
		}

		sectionHTML, err := a.renderDraftSection(draft, display, template.HTML(contentHTML))
		if err != nil {
			return nil, err
		}
		sections = append(sections, template.HTML(sectionHTML))
		plainParts = append(plainParts, fmt.Sprintf("=== %s ===\n\n%s\n", display, draft.Content))
	}
	sectionCount := len(sections)

	blocks, err := a.store.SponsorBlocksForIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("loading sponsor blocks: %w", err)
	}
	if len(blocks) > 0 {
		sections, err = spliceSponsors(sections, blocks)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			plainParts = append(plainParts,
				fmt.Sprintf("--- SPONSORED: %s ---\n%s\n%s\n", b.SponsorName, b.Headline, b.CTAURL))
		}
	}

	html, err := renderNewsletter(newsletterData{
		NewsletterName: a.cfg.Newsletter.Name,
		Tagline:        a.cfg.Newsletter.Tagline,
		IssueNumber:    issue.IssueNumber,
		Title:          issue.Title,
		Sections:       sections,
		HeaderImageURL: a.cfg.Newsletter.HeaderImageURL,
		IntroCopy:      a.cfg.Newsletter.IntroCopy,
		FooterHTML:     template.HTML(Sanitize(a.cfg.Newsletter.FooterHTML)),
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		HTML:      html,
		PlainText: strings.Join(plainParts, "\n\n"),
		Sections:  sectionCount,
	}, nil
}

// AssembleAndSave renders an issue and stores the snapshot.
func (a *Assembler) AssembleAndSave(issueID int64) (*Output, int64, error) {
	out, err := a.Assemble(issueID)
	if err != nil {
		return nil, 0, err
	}
	snapshotID, err := a.store.SaveAssembled(issueID, out.HTML, out.PlainText)
	if err != nil {
		return nil, 0, fmt.Errorf("saving snapshot: %w", err)
	}
	return out, snapshotID, nil
}

// renderDraftSection picks the template by the draft's provenance: guest
// pieces get an attribution block, submissions get the artist info block.
func (a *Assembler) renderDraftSection(draft *store.Draft, display string, content template.HTML) (string, error) {
	guest, err := a.store.GuestArticleByDraft(draft.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	if guest != nil {
		return renderGuestSection(content, guest)
	}

	sub, err := a.store.SubmissionByDraft(draft.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	if sub != nil {
		return renderSubmissionSection(content, display, sub)
	}

	return renderSection(display, content)
}

// spliceSponsors injects rendered sponsor blocks: top blocks before the
// first section, mid blocks at the section midpoint, bottom blocks after
// the last section.
func spliceSponsors(sections []template.HTML, blocks []*store.SponsorBlock) ([]template.HTML, error) {
	var top, mid, bottom []template.HTML
	for _, b := range blocks {
		html, err := renderSponsorBlock(b)
		if err != nil {
			return nil, err
		}
		switch b.Position {
		case store.PositionTop:
			top = append(top, template.HTML(html))
		case store.PositionBottom:
			bottom = append(bottom, template.HTML(html))
		default:
			mid = append(mid, template.HTML(html))
		}
	}

	midpoint := len(sections) / 2
	out := make([]template.HTML, 0, len(sections)+len(blocks))
	out = append(out, top...)
	out = append(out, sections[:midpoint]...)
	out = append(out, mid...)
	out = append(out, sections[midpoint:]...)
	out = append(out, bottom...)
	return out, nil
}

func (a *Assembler) sectionLookup() (map[string]int, map[string]string, error) {
	secs, err := a.store.ListSections()
	if err != nil {
		return nil, nil, fmt.Errorf("loading sections: %w", err)
	}
	order := map[string]int{}
	names := map[string]string{}
	for _, sec := range secs {
		order[sec.Slug] = sec.SortOrder
		names[sec.Slug] = sec.DisplayName
	}
	return order, names, nil
}

func orderOf(order map[string]int, slug string) int {
	if n, ok := order[slug]; ok {
		return n
	}
	return 99
}
