package guests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

type stubGen struct{ text string }

func (g *stubGen) Generate(_ context.Context, _, _ string, _ int) (*generate.Result, error) {
	return &generate.Result{Text: g.text, Model: "stub"}, nil
}

func newManager(t *testing.T) (*store.Store, *Manager) {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, NewManager(s, &stubGen{text: "A tight summary."})
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{store.GuestRequested, store.GuestReceived},
		{store.GuestRequested, store.GuestDeclined},
		{store.GuestReceived, store.GuestApproved},
		{store.GuestReceived, store.GuestDeclined},
		{store.GuestApproved, store.GuestPublished},
		{store.GuestApproved, store.GuestDeclined},
		{store.GuestDeclined, store.GuestRequested},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc[0], tc[1]), "%s -> %s should be allowed", tc[0], tc[1])
	}

	forbidden := [][2]string{
		{store.GuestRequested, store.GuestApproved}, // must be received first
		{store.GuestRequested, store.GuestPublished},
		{store.GuestPublished, store.GuestDeclined}, // published is final
		{store.GuestPublished, store.GuestRequested},
		{store.GuestDeclined, store.GuestApproved}, // resurrection only via requested
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransition(tc[0], tc[1]), "%s -> %s should be forbidden", tc[0], tc[1])
	}
}

func TestRequestAndTrackPermission(t *testing.T) {
	s, m := newManager(t)
	contactID, err := s.CreateGuestContact("Dana Expert", "dana@example.com", "", "", "", "")
	require.NoError(t, err)

	articleID, err := m.RequestArticle(contactID, "The state of sync licensing", "")
	require.NoError(t, err)

	article, err := s.GetGuestArticle(articleID)
	require.NoError(t, err)
	assert.Equal(t, store.GuestRequested, article.PermissionState)
	assert.Equal(t, "Dana Expert", article.AuthorName)
	assert.Equal(t, "guest_column", article.TargetSectionSlug)

	require.NoError(t, m.TrackPermission(articleID, store.GuestReceived))
	err = m.TrackPermission(articleID, store.GuestPublished)
	require.Error(t, err, "received -> published skips approval")

	require.NoError(t, m.TrackPermission(articleID, store.GuestApproved))
	require.NoError(t, m.TrackPermission(articleID, store.GuestPublished))
	err = m.TrackPermission(articleID, store.GuestDeclined)
	require.Error(t, err, "published is final")
}

func TestRequestArticle_UnknownContact(t *testing.T) {
	_, m := newManager(t)
	_, err := m.RequestArticle(999, "", "")
	require.Error(t, err)
}

func TestCreateDraft_FullMode(t *testing.T) {
	s, m := newManager(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	articleID, err := s.CreateGuestArticle(&store.GuestArticle{
		AuthorName:      "Dana Expert",
		AuthorBio:       "A&R veteran",
		ContentFull:     "The complete guest piece.",
		PermissionState: store.GuestReceived,
	})
	require.NoError(t, err)
	require.NoError(t, m.Approve(articleID, issue.ID, "guest_column"))

	draft, err := m.CreateDraft(context.Background(), articleID)
	require.NoError(t, err)
	assert.Contains(t, draft.Content, "The complete guest piece.")
	assert.Contains(t, draft.Content, "*By Dana Expert — A&R veteran*")
	assert.Equal(t, "guest", draft.AIModel)

	article, err := s.GetGuestArticle(articleID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, article.DraftID, "article linked back to its draft")
}

func TestCreateDraft_SummaryModeUsesGenerator(t *testing.T) {
	s, m := newManager(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	articleID, err := s.CreateGuestArticle(&store.GuestArticle{
		AuthorName:      "Dana Expert",
		DisplayMode:     "summary",
		ContentFull:     "A very long original piece that needs summarizing.",
		PermissionState: store.GuestReceived,
	})
	require.NoError(t, err)
	require.NoError(t, m.Approve(articleID, issue.ID, ""))

	draft, err := m.CreateDraft(context.Background(), articleID)
	require.NoError(t, err)
	assert.Contains(t, draft.Content, "A tight summary.")
}

func TestCreateDraft_RequiresTargetIssue(t *testing.T) {
	s, m := newManager(t)
	articleID, err := s.CreateGuestArticle(&store.GuestArticle{AuthorName: "X"})
	require.NoError(t, err)

	_, err = m.CreateDraft(context.Background(), articleID)
	require.Error(t, err)
}
