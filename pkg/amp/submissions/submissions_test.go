package submissions

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

type stubGen struct{ lastPrompt string }

func (g *stubGen) Generate(_ context.Context, _, prompt string, _ int) (*generate.Result, error) {
	g.lastPrompt = prompt
	return &generate.Result{Text: "Feature copy.", Model: "stub-model"}, nil
}

func newFixture(t *testing.T) (*store.Store, *Intake, *Reviewer, *stubGen) {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	gen := &stubGen{}
	return s, NewIntake(s), NewReviewer(s, gen), gen
}

func TestNewReference(t *testing.T) {
	a, b := NewReference(), NewReference()
	assert.True(t, strings.HasPrefix(a, "sub-"))
	assert.Len(t, a, 12, "sub- plus 8 hex chars")
	assert.NotEqual(t, a, b)
}

func TestFromWebForm(t *testing.T) {
	_, in, _, _ := newFixture(t)

	sub, err := in.FromWebForm(&WebForm{
		ArtistName:  "Neon Harbor",
		ArtistEmail: "band@example.com",
		Title:       "Debut EP",
		Links:       "https://example.com/a\n\n  https://example.com/b  \n",
	})
	require.NoError(t, err)
	assert.Equal(t, "web_form", sub.IntakeMethod)
	assert.Equal(t, store.SubmissionSubmitted, sub.ReviewState)
	assert.Equal(t, `["https://example.com/a","https://example.com/b"]`, sub.LinksJSON)
	assert.NotEmpty(t, sub.Reference)
}

func TestFromWebForm_RequiresArtistName(t *testing.T) {
	_, in, _, _ := newFixture(t)
	_, err := in.FromWebForm(&WebForm{Title: "anonymous"})
	require.Error(t, err)
}

func TestFromEmailAndAPI(t *testing.T) {
	_, in, _, _ := newFixture(t)

	email, err := in.FromEmail(&Email{
		FromName: "Casey", FromEmail: "c@example.com", Subject: "New single",
		Body: "Please feature us", Attachments: []string{"presskit.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "email", email.IntakeMethod)
	assert.Equal(t, "New single", email.Title)
	assert.Equal(t, `["presskit.pdf"]`, email.AttachmentsJSON)

	api, err := in.FromAPI(&APIPayload{ArtistName: "Dotted Line"})
	require.NoError(t, err)
	assert.Equal(t, "api", api.IntakeMethod)
	assert.Equal(t, "truefans_connect", api.APISource, "default API source applied")
}

func TestReviewWorkflow(t *testing.T) {
	s, in, rev, gen := newFixture(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	sub, err := in.FromWebForm(&WebForm{ArtistName: "Neon Harbor", Title: "Debut EP", Genre: "dream pop"})
	require.NoError(t, err)

	require.NoError(t, rev.MarkReviewed(sub.ID))
	require.NoError(t, rev.Approve(sub.ID))
	require.NoError(t, rev.Schedule(sub.ID, issue.ID, ""))

	got, err := s.GetSubmission(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, store.SubmissionScheduled, got.ReviewState)
	assert.Equal(t, "artist_spotlight", got.TargetSectionSlug, "default section applied")

	draft, err := rev.CreateDraft(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feature copy.", draft.Content)
	assert.Equal(t, "stub-model", draft.AIModel)
	assert.Contains(t, gen.lastPrompt, "Neon Harbor")
	assert.Contains(t, gen.lastPrompt, "dream pop")

	got, err = s.GetSubmission(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, store.SubmissionPublished, got.ReviewState)
	assert.Equal(t, draft.ID, got.DraftID)
}

func TestCreateDraft_RequiresTargetIssue(t *testing.T) {
	_, in, rev, _ := newFixture(t)
	sub, err := in.FromWebForm(&WebForm{ArtistName: "Nowhere Band"})
	require.NoError(t, err)

	_, err = rev.CreateDraft(context.Background(), sub.ID)
	require.Error(t, err)
}
