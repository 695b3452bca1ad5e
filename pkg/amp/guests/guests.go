// Package guests manages guest contributor articles: permission tracking
// from request through publication, and turning approved pieces into drafts.
package guests

import (
	"context"
	"fmt"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// permissionTransitions is the guest permission state machine. Published is
// final; declined can only be resurrected back into requested.
var permissionTransitions = map[string][]string{
	store.GuestRequested: {store.GuestReceived, store.GuestDeclined},
	store.GuestReceived:  {store.GuestApproved, store.GuestDeclined},
	store.GuestApproved:  {store.GuestPublished, store.GuestDeclined},
	store.GuestPublished: {},
	store.GuestDeclined:  {store.GuestRequested},
}

// CanTransition reports whether a permission state change is allowed.
func CanTransition(from, to string) bool {
	for _, next := range permissionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Manager runs the guest article lifecycle.
type Manager struct {
	store *store.Store
	gen   generate.Generator
}

// NewManager builds a manager. The generator is only used to summarize full
// articles when a piece runs in summary mode.
func NewManager(s *store.Store, gen generate.Generator) *Manager {
	return &Manager{store: s, gen: gen}
}

// RequestArticle opens a guest article in the requested state, addressed to
// a rolodex contact.
func (m *Manager) RequestArticle(contactID int64, topic, targetSection string) (int64, error) {
	contacts, err := m.store.ListGuestContacts()
	if err != nil {
		return 0, err
	}
	var contact *store.GuestContact
	for _, c := range contacts {
		if c.ID == contactID {
			contact = c
			break
		}
	}
	if contact == nil {
		return 0, fmt.Errorf("contact %d: %w", contactID, store.ErrNotFound)
	}
	if targetSection == "" {
		targetSection = "guest_column"
	}
	return m.store.CreateGuestArticle(&store.GuestArticle{
		ContactID:         contactID,
		Title:             topic,
		AuthorName:        contact.Name,
		PermissionState:   store.GuestRequested,
		TargetSectionSlug: targetSection,
	})
}

// TrackPermission moves an article's permission state, enforcing the state
// machine.
func (m *Manager) TrackPermission(articleID int64, newState string) error {
	article, err := m.store.GetGuestArticle(articleID)
	if err != nil {
		return err
	}
	if !CanTransition(article.PermissionState, newState) {
		return fmt.Errorf("cannot transition guest article from %q to %q",
			article.PermissionState, newState)
	}
	return m.store.UpdateGuestArticle(articleID, map[string]any{"permission_state": newState})
}

// Approve moves an article to approved and optionally pins it to an issue
// and section.
func (m *Manager) Approve(articleID, issueID int64, sectionSlug string) error {
	if err := m.TrackPermission(articleID, store.GuestApproved); err != nil {
		return err
	}
	fields := map[string]any{}
	if issueID != 0 {
		fields["target_issue_id"] = issueID
	}
	if sectionSlug != "" {
		fields["target_section_slug"] = sectionSlug
	}
	if len(fields) == 0 {
		return nil
	}
	return m.store.UpdateGuestArticle(articleID, fields)
}

// CreateDraft turns an approved guest article into a section draft for its
// target issue. Display mode picks the content: full text, summary
// (AI-generated when none was supplied), or a 500-character excerpt. The
// author attribution line is always appended.
func (m *Manager) CreateDraft(ctx context.Context, articleID int64) (*store.Draft, error) {
	article, err := m.store.GetGuestArticle(articleID)
	if err != nil {
		return nil, err
	}
	if article.TargetIssueID == 0 {
		return nil, fmt.Errorf("guest article %d has no target issue", articleID)
	}
	section := article.TargetSectionSlug
	if section == "" {
		section = "guest_column"
	}

	var content string
	switch article.DisplayMode {
	case "summary":
		content = article.ContentSummary
		if content == "" && article.ContentFull != "" {
			content, err = m.summarize(ctx, article)
			if err != nil {
				return nil, err
			}
		}
	case "excerpt":
		content = article.ContentFull
		if len(content) > 500 {
			content = content[:500]
		}
	default: // full
		content = article.ContentFull
	}

	attribution := fmt.Sprintf("\n\n---\n*By %s", article.AuthorName)
	if article.AuthorBio != "" {
		attribution += " — " + article.AuthorBio
	}
	attribution += "*"
	content += attribution

	draft, err := m.store.CreateDraft(article.TargetIssueID, section, content, "guest",
		fmt.Sprintf("Guest article by %s", article.AuthorName))
	if err != nil {
		return nil, err
	}
	if err := m.store.UpdateGuestArticle(articleID, map[string]any{"draft_id": draft.ID}); err != nil {
		return nil, err
	}
	return draft, nil
}

func (m *Manager) summarize(ctx context.Context, article *store.GuestArticle) (string, error) {
	if m.gen == nil {
		return "", fmt.Errorf("no generator configured for guest summaries")
	}
	body := article.ContentFull
	if len(body) > 3000 {
		body = body[:3000]
	}
	prompt := fmt.Sprintf(
		"Summarize this guest article for TrueFans AMP Magazine in 200-300 words. "+
			"Preserve the author's key points and voice.\n\nTitle: %s\nAuthor: %s\n\n%s",
		article.Title, article.AuthorName, body)
	res, err := m.gen.Generate(ctx, "", prompt, 800)
	if err != nil {
		return "", fmt.Errorf("summarizing guest article: %w", err)
	}
	return res.Text, nil
}
