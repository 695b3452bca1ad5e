// Package submissions handles artist submission intake (web form, email,
// API) and the review workflow that turns accepted submissions into drafts.
package submissions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// NewReference mints a public submission reference code. Artists quote it
// in follow-ups, so it is short and unambiguous.
func NewReference() string {
	return "sub-" + strings.Split(uuid.NewString(), "-")[0]
}

// WebForm is the public web form payload.
type WebForm struct {
	ArtistName     string `json:"artist_name"`
	ArtistEmail    string `json:"artist_email"`
	ArtistWebsite  string `json:"artist_website"`
	ArtistSocial   string `json:"artist_social"`
	SubmissionType string `json:"submission_type"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ReleaseDate    string `json:"release_date"`
	Genre          string `json:"genre"`
	Links          string `json:"links"` // newline-separated in the form
}

// Email is a parsed email intake payload.
type Email struct {
	FromName    string   `json:"from_name"`
	FromEmail   string   `json:"from_email"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Links       []string `json:"links"`
	Attachments []string `json:"attachments"`
}

// APIPayload is the TrueFans CONNECT API intake shape.
type APIPayload struct {
	ArtistName     string   `json:"artist_name"`
	ArtistEmail    string   `json:"artist_email"`
	ArtistWebsite  string   `json:"artist_website"`
	ArtistSocial   string   `json:"artist_social"`
	SubmissionType string   `json:"submission_type"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ReleaseDate    string   `json:"release_date"`
	Genre          string   `json:"genre"`
	Links          []string `json:"links"`
	Attachments    []string `json:"attachments"`
	APISource      string   `json:"api_source"`
}

// Intake processes submissions from the three entry points.
type Intake struct {
	store *store.Store
}

// NewIntake builds an intake over the store.
func NewIntake(s *store.Store) *Intake {
	return &Intake{store: s}
}

// FromWebForm stores a web form submission. Links arrive newline-separated
// and are normalized to a JSON array.
func (in *Intake) FromWebForm(form *WebForm) (*store.Submission, error) {
	var links []string
	for _, line := range strings.Split(form.Links, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			links = append(links, l)
		}
	}
	return in.create(&store.Submission{
		Reference:      NewReference(),
		ArtistName:     form.ArtistName,
		ArtistEmail:    form.ArtistEmail,
		ArtistWebsite:  form.ArtistWebsite,
		ArtistSocial:   form.ArtistSocial,
		SubmissionType: form.SubmissionType,
		IntakeMethod:   "web_form",
		Title:          form.Title,
		Description:    form.Description,
		ReleaseDate:    form.ReleaseDate,
		Genre:          form.Genre,
		LinksJSON:      jsonList(links),
	})
}

// FromEmail stores an email submission.
func (in *Intake) FromEmail(email *Email) (*store.Submission, error) {
	return in.create(&store.Submission{
		Reference:       NewReference(),
		ArtistName:      email.FromName,
		ArtistEmail:     email.FromEmail,
		IntakeMethod:    "email",
		Title:           email.Subject,
		Description:     email.Body,
		LinksJSON:       jsonList(email.Links),
		AttachmentsJSON: jsonList(email.Attachments),
	})
}

// FromAPI stores a submission arriving over the CONNECT API.
func (in *Intake) FromAPI(payload *APIPayload) (*store.Submission, error) {
	source := payload.APISource
	if source == "" {
		source = "truefans_connect"
	}
	return in.create(&store.Submission{
		Reference:       NewReference(),
		ArtistName:      payload.ArtistName,
		ArtistEmail:     payload.ArtistEmail,
		ArtistWebsite:   payload.ArtistWebsite,
		ArtistSocial:    payload.ArtistSocial,
		SubmissionType:  payload.SubmissionType,
		IntakeMethod:    "api",
		Title:           payload.Title,
		Description:     payload.Description,
		ReleaseDate:     payload.ReleaseDate,
		Genre:           payload.Genre,
		LinksJSON:       jsonList(payload.Links),
		AttachmentsJSON: jsonList(payload.Attachments),
		APISource:       source,
	})
}

func (in *Intake) create(sub *store.Submission) (*store.Submission, error) {
	if sub.ArtistName == "" {
		return nil, fmt.Errorf("submission requires an artist name")
	}
	id, err := in.store.CreateSubmission(sub)
	if err != nil {
		return nil, err
	}
	return in.store.GetSubmission(id)
}

func jsonList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Reviewer runs the review workflow over stored submissions.
type Reviewer struct {
	store *store.Store
	gen   generate.Generator
}

// NewReviewer builds a reviewer. The generator writes the feature copy when
// a submission is turned into a draft.
func NewReviewer(s *store.Store, gen generate.Generator) *Reviewer {
	return &Reviewer{store: s, gen: gen}
}

// MarkReviewed flags a submission as looked at.
func (r *Reviewer) MarkReviewed(id int64) error {
	return r.store.UpdateSubmission(id, map[string]any{"review_state": store.SubmissionReviewed})
}

// Approve accepts a submission for future scheduling.
func (r *Reviewer) Approve(id int64) error {
	return r.store.UpdateSubmission(id, map[string]any{"review_state": store.SubmissionApproved})
}

// Reject declines a submission.
func (r *Reviewer) Reject(id int64) error {
	return r.store.UpdateSubmission(id, map[string]any{"review_state": store.SubmissionRejected})
}

// Schedule pins an approved submission to an issue and section.
func (r *Reviewer) Schedule(id, issueID int64, sectionSlug string) error {
	if sectionSlug == "" {
		sectionSlug = "artist_spotlight"
	}
	return r.store.UpdateSubmission(id, map[string]any{
		"review_state":        store.SubmissionScheduled,
		"target_issue_id":     issueID,
		"target_section_slug": sectionSlug,
	})
}

// CreateDraft generates the artist feature for a scheduled submission and
// moves it to published.
func (r *Reviewer) CreateDraft(ctx context.Context, id int64) (*store.Draft, error) {
	sub, err := r.store.GetSubmission(id)
	if err != nil {
		return nil, err
	}
	if sub.TargetIssueID == 0 {
		return nil, fmt.Errorf("submission %d has no target issue", id)
	}
	section := sub.TargetSectionSlug
	if section == "" {
		section = "artist_spotlight"
	}

	prompt := fmt.Sprintf(
		"Write a newsletter section about this artist submission for TrueFans AMP Magazine.\n\n"+
			"Artist: %s\nTitle: %s\nType: %s\nGenre: %s\nDescription: %s\nWebsite: %s\nRelease Date: %s\n\n"+
			"Write a compelling feature that introduces this artist to our audience of independent "+
			"musicians and songwriters. Highlight what makes them interesting and include a "+
			"call-to-action for readers.",
		sub.ArtistName, sub.Title, sub.SubmissionType, orNA(sub.Genre), sub.Description,
		orNA(sub.ArtistWebsite), orNA(sub.ReleaseDate))

	res, err := r.gen.Generate(ctx, "", prompt, 0)
	if err != nil {
		return nil, fmt.Errorf("generating submission feature: %w", err)
	}

	draft, err := r.store.CreateDraft(sub.TargetIssueID, section, res.Text, res.Model,
		fmt.Sprintf("Artist submission: %s", sub.ArtistName))
	if err != nil {
		return nil, err
	}
	if err := r.store.UpdateSubmission(id, map[string]any{
		"draft_id":     draft.ID,
		"review_state": store.SubmissionPublished,
	}); err != nil {
		return nil, err
	}
	return draft, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
