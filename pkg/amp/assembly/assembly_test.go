package assembly

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

func TestSanitize_StripsDangerousMarkup(t *testing.T) {
	cases := []struct{ in, mustNotContain string }{
		{`<p>ok</p><script>alert(1)</script>`, "<script"},
		{`<img src="x" onerror="alert(1)">`, "onerror"},
		{`<a href="javascript:alert(1)">click</a>`, "javascript:"},
		{`<iframe src="https://evil.example.com"></iframe>`, "<iframe"},
		{`<p style="background:url(javascript:x)">styled</p>`, "style="},
	}
	for _, tc := range cases {
		out := Sanitize(tc.in)
		assert.NotContains(t, out, tc.mustNotContain, "input: %s", tc.in)
	}
}

func TestSanitize_PreservesContentMarkup(t *testing.T) {
	in := `<h2>Heading</h2><p>Text with <strong>bold</strong> and <em>italics</em>.</p>` +
		`<a href="https://example.com" title="t">link</a>` +
		`<table><tr><td colspan="2" align="left">cell</td></tr></table>` +
		`<img src="https://example.com/pic.png" alt="pic" width="100">` +
		`<blockquote>quote</blockquote><ul><li>item</li></ul>`
	out := Sanitize(in)
	for _, want := range []string{
		"<h2>", "<strong>", "<em>", `href="https://example.com"`,
		`colspan="2"`, `src="https://example.com/pic.png"`, "<blockquote>", "<li>",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSanitize_KeepsTextOfStrippedTags(t *testing.T) {
	out := Sanitize(`<form><button>press me</button></form>`)
	assert.NotContains(t, out, "<button")
	assert.Contains(t, out, "press me")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("## Title\n\nSome **bold** text and a [link](https://example.com).\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.NotContains(t, out, "<script")
}

func testAssembler(t *testing.T) (*store.Store, *Assembler) {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.SeedSections()
	require.NoError(t, err)
	return s, NewAssembler(s, config.Default())
}

func approvedDraft(t *testing.T, s *store.Store, issueID int64, slug, content string) *store.Draft {
	t.Helper()
	d, err := s.CreateDraft(issueID, slug, content, "test-model", "")
	require.NoError(t, err)
	require.NoError(t, s.UpdateDraftStatus(d.ID, store.DraftApproved))
	return d
}

func TestAssemble_OnlyApprovedDrafts(t *testing.T) {
	s, a := testAssembler(t)
	issue, err := s.CreateIssue(7, "The Hook Issue", "", "", "")
	require.NoError(t, err)

	approvedDraft(t, s, issue.ID, "coaching", "Keep practicing.")
	_, err = s.CreateDraft(issue.ID, "tech_talk", "Still pending.", "m", "")
	require.NoError(t, err)

	out, err := a.Assemble(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Sections)
	assert.Contains(t, out.HTML, "COACHING")
	assert.NotContains(t, out.HTML, "Still pending.")
	assert.Contains(t, out.HTML, "Issue #7")
	assert.Contains(t, out.PlainText, "=== COACHING ===")
}

func TestAssemble_RevisedLatestVersionCounts(t *testing.T) {
	s, a := testAssembler(t)
	issue, err := s.CreateIssue(3, "", "", "", "")
	require.NoError(t, err)

	first := approvedDraft(t, s, issue.ID, "coaching", "First take.")
	revised, err := s.ReviseDraft(first.ID, "Second take.", "m", "")
	require.NoError(t, err)
	require.Equal(t, store.DraftRevised, revised.Status)

	out, err := a.Assemble(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Sections)
	assert.Contains(t, out.HTML, "Second take.")
	assert.NotContains(t, out.HTML, "First take.")
}

func TestAssemble_SectionsFollowSortOrder(t *testing.T) {
	s, a := testAssembler(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	// Insert out of lineup order; output must follow sort_order.
	approvedDraft(t, s, issue.ID, "ps_from_ps", "Sign-off.")
	approvedDraft(t, s, issue.ID, "backstage_pass", "Opening story.")

	out, err := a.Assemble(issue.ID)
	require.NoError(t, err)
	first := strings.Index(out.HTML, "BACKSTAGE PASS")
	second := strings.Index(out.HTML, "PS FROM PS")
	require.Greater(t, first, -1)
	require.Greater(t, second, -1)
	assert.Less(t, first, second)
}

func TestAssemble_SponsorSplicePositions(t *testing.T) {
	s, a := testAssembler(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	// Four sections, in lineup order.
	for _, slug := range []string{"backstage_pass", "coaching", "tech_talk", "recommends"} {
		approvedDraft(t, s, issue.ID, slug, "Body for "+slug)
	}
	for _, pos := range []string{store.PositionTop, store.PositionMid, store.PositionBottom} {
		_, err := s.CreateSponsorBlock(&store.SponsorBlock{
			IssueID: issue.ID, Position: pos,
			SponsorName: "Sponsor " + pos, Headline: "H " + pos, CTAURL: "https://example.com/" + pos,
		})
		require.NoError(t, err)
	}

	out, err := a.Assemble(issue.ID)
	require.NoError(t, err)

	idx := func(sub string) int { return strings.Index(out.HTML, sub) }
	top := idx("Sponsor top")
	mid := idx("Sponsor mid")
	bottom := idx("Sponsor bottom")
	s1 := idx("BACKSTAGE PASS")
	s2 := idx("COACHING")
	s3 := idx("TECH TALK")
	s4 := idx("RECOMMENDS")
	for _, i := range []int{top, mid, bottom, s1, s2, s3, s4} {
		require.Greater(t, i, -1)
	}

	assert.Less(t, top, s1, "top sponsor before first section")
	assert.Less(t, s2, mid, "mid sponsor after the midpoint section")
	assert.Less(t, mid, s3, "mid sponsor before the second half")
	assert.Greater(t, bottom, s4, "bottom sponsor after last section")

	assert.Contains(t, out.PlainText, "--- SPONSORED: Sponsor top ---")
}

func TestAssemble_GuestAndSubmissionAttribution(t *testing.T) {
	s, a := testAssembler(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	guestDraft := approvedDraft(t, s, issue.ID, "guest_column", "Guest words.")
	guestID, err := s.CreateGuestArticle(&store.GuestArticle{
		AuthorName: "Dana Expert", AuthorBio: "A&R veteran", OriginalURL: "https://example.com/orig",
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateGuestArticle(guestID, map[string]any{"draft_id": guestDraft.ID}))

	subDraft := approvedDraft(t, s, issue.ID, "artist_spotlight", "Artist feature.")
	subID, err := s.CreateSubmission(&store.Submission{
		Reference: "sub-xyz", ArtistName: "Neon Harbor", ArtistWebsite: "https://neonharbor.example.com",
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateSubmission(subID, map[string]any{"draft_id": subDraft.ID}))

	out, err := a.Assemble(issue.ID)
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "Dana Expert")
	assert.Contains(t, out.HTML, "Read the original")
	assert.Contains(t, out.HTML, "Neon Harbor")
	assert.Contains(t, out.HTML, "https://neonharbor.example.com")
}

func TestAssembleAndSave(t *testing.T) {
	s, a := testAssembler(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)
	approvedDraft(t, s, issue.ID, "coaching", "Words.")

	out, snapshotID, err := a.AssembleAndSave(issue.ID)
	require.NoError(t, err)
	require.NotZero(t, snapshotID)

	snap, err := s.LatestAssembled(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshotID, snap.ID)
	assert.Equal(t, out.HTML, snap.HTMLContent)
	assert.Equal(t, out.PlainText, snap.PlainText)
}
