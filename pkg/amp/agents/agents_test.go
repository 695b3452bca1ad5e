package agents

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

type stubGen struct {
	calls   int
	prompts []string
	text    string
}

func (g *stubGen) Generate(_ context.Context, _, prompt string, _ int) (*generate.Result, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	text := g.text
	if text == "" {
		text = "Generated copy."
	}
	return &generate.Result{Text: text, Model: "stub-model"}, nil
}

func newFixture(t *testing.T) (*store.Store, *config.AppConfig, *stubGen, *Staff) {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.SeedSections()
	require.NoError(t, err)

	cfg := config.Default()
	gen := &stubGen{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return s, cfg, gen, NewStaff(s, cfg, gen, logger)
}

func TestExecute_UnknownTaskTypeIsSoftFailure(t *testing.T) {
	s, _, _, staff := newFixture(t)

	created, err := staff.Assign(task.AgentWriter, task.Type("compose_symphony"), nil, 0, "", 0)
	require.NoError(t, err)

	out, err := staff.Execute(context.Background(), task.AgentWriter, created.ID)
	require.NoError(t, err, "unknown type is a data problem, not an execution fault")

	errRes, ok := out.(task.ErrorResult)
	require.True(t, ok)
	assert.Contains(t, errRes.Error, "compose_symphony")

	got, err := s.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(task.StateReview), got.State, "task reaches the review checkpoint, never failed")
}

func TestExecute_SkipsReviewWhenNotRequired(t *testing.T) {
	s, cfg, _, staff := newFixture(t)
	cfg.Agents.ReviewRequired = false

	created, err := staff.Assign(task.AgentSales, task.TypeUpdatePipeline, nil, 0, "", 0)
	require.NoError(t, err)
	_, err = staff.Execute(context.Background(), task.AgentSales, created.ID)
	require.NoError(t, err)

	got, err := s.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(task.StateComplete), got.State)
}

func TestWriteSection(t *testing.T) {
	s, _, gen, staff := newFixture(t)
	issue, err := s.CreateIssue(1, "Creative Momentum", "", "", "")
	require.NoError(t, err)

	_, err = s.SetEditorialInput(issue.ID, "songcraft", "co-writing", "mention the workshop", "")
	require.NoError(t, err)
	itemID, _, err := s.InsertRawContent(&store.RawContent{
		Title: "Co-writing trends", URL: "https://example.com/cowriting",
		Summary: "More artists are splitting publishing.", MatchedSections: "songcraft",
	})
	require.NoError(t, err)

	out, err := staff.TriggerAgent(context.Background(), task.AgentWriter, task.TypeWriteSection, nil, issue.ID, "songcraft")
	require.NoError(t, err)

	result, ok := out.(task.WriteSectionResult)
	require.True(t, ok)
	assert.Equal(t, "songcraft", result.Section)
	assert.Equal(t, 2, result.WordCount)

	draft, err := s.GetDraft(result.DraftID)
	require.NoError(t, err)
	assert.Equal(t, 1, draft.Version)
	assert.Equal(t, "stub-model", draft.AIModel)

	prompt := gen.prompts[len(gen.prompts)-1]
	assert.Contains(t, prompt, "co-writing")
	assert.Contains(t, prompt, "mention the workshop")
	assert.Contains(t, prompt, "Co-writing trends")

	// Consumed research is not offered twice.
	remaining, err := s.TopContentForSection("songcraft", 5)
	require.NoError(t, err)
	for _, item := range remaining {
		assert.NotEqual(t, itemID, item.ID)
	}
}

func TestWriteSection_AuditRecordsPromptTokens(t *testing.T) {
	s, _, _, staff := newFixture(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	out, err := staff.TriggerAgent(context.Background(), task.AgentWriter, task.TypeWriteSection, nil, issue.ID, "songcraft")
	require.NoError(t, err)
	_, ok := out.(task.WriteSectionResult)
	require.True(t, ok)

	tasks, err := s.TasksInState(task.StateReview)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	entries, err := s.OutputsForTask(tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "draft", entries[0].OutputType)

	var meta struct {
		Model        string `json:"model"`
		PromptTokens int    `json:"prompt_tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(entries[0].MetadataJSON), &meta))
	assert.Equal(t, "stub-model", meta.Model)
	assert.Greater(t, meta.PromptTokens, 0, "prompt token estimate lands in the audit record")
}

func TestWriteSection_UnknownSlugIsSoftFailure(t *testing.T) {
	s, _, _, staff := newFixture(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)

	out, err := staff.TriggerAgent(context.Background(), task.AgentWriter, task.TypeWriteSection, nil, issue.ID, "no_such_section")
	require.NoError(t, err)

	errRes, ok := out.(task.ErrorResult)
	require.True(t, ok)
	assert.Contains(t, errRes.Error, "no_such_section")
}

func TestRewrite_CreatesRevisedVersion(t *testing.T) {
	s, _, _, staff := newFixture(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)
	original, err := s.CreateDraft(issue.ID, "songcraft", "first pass", "m", "")
	require.NoError(t, err)

	out, err := staff.TriggerAgent(context.Background(), task.AgentWriter, task.TypeRewrite,
		task.RewriteInput{DraftID: original.ID, Feedback: "tighten the intro"}, issue.ID, "")
	require.NoError(t, err)

	result, ok := out.(task.RewriteResult)
	require.True(t, ok)
	assert.True(t, result.Rewritten)
	assert.NotEqual(t, original.ID, result.DraftID)

	revised, err := s.GetDraft(result.DraftID)
	require.NoError(t, err)
	assert.Equal(t, 2, revised.Version)
	assert.Equal(t, store.DraftRevised, revised.Status)

	unchanged, err := s.GetDraft(original.ID)
	require.NoError(t, err)
	assert.Equal(t, "first pass", unchanged.Content)
}

func TestApproveIssue(t *testing.T) {
	s, _, _, staff := newFixture(t)
	issue, err := s.CreateIssue(1, "", "", "", "")
	require.NoError(t, err)
	d1, err := s.CreateDraft(issue.ID, "songcraft", "a", "m", "")
	require.NoError(t, err)
	_, err = s.CreateDraft(issue.ID, "backstage_pass", "b", "m", "")
	require.NoError(t, err)

	out, err := staff.TriggerAgent(context.Background(), task.AgentEditorInChief, task.TypeApproveIssue, nil, issue.ID, "")
	require.NoError(t, err)

	result, ok := out.(task.ApproveIssueResult)
	require.True(t, ok)
	assert.Equal(t, 2, result.Approved)

	approved, err := s.GetDraft(d1.ID)
	require.NoError(t, err)
	assert.Equal(t, store.DraftApproved, approved.Status)

	got, err := s.GetIssue(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, store.IssueReview, got.Status)
}

func TestDraftSocialPosts_FansOutIdenticalContent(t *testing.T) {
	s, _, gen, staff := newFixture(t)
	gen.text = "Issue 3 is out!"
	issue, err := s.CreateIssue(3, "Hooks", "", "", "")
	require.NoError(t, err)
	_, err = s.CreateDraft(issue.ID, "songcraft", "a", "m", "")
	require.NoError(t, err)

	out, err := staff.TriggerAgent(context.Background(), task.AgentGrowth, task.TypeDraftSocialPosts, nil, issue.ID, "")
	require.NoError(t, err)

	result, ok := out.(task.SocialPostsResult)
	require.True(t, ok)
	assert.Equal(t, 4, result.PostsCreated)

	posts, err := s.SocialPostsForIssue(issue.ID)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	platforms := map[string]bool{}
	for _, p := range posts {
		platforms[p.Platform] = true
		assert.Equal(t, "Issue 3 is out!", p.Content)
	}
	assert.Len(t, platforms, 4)
}

func TestUpdatePipeline_NoAICall(t *testing.T) {
	s, _, gen, staff := newFixture(t)
	spID, err := s.CreateSponsor("PluginCo", "Ana", "ana@example.com", "", "")
	require.NoError(t, err)
	_, err = s.CreateBooking(spID, 0, "top", "booked", 25000, "")
	require.NoError(t, err)

	out, err := staff.TriggerAgent(context.Background(), task.AgentSales, task.TypeUpdatePipeline, nil, 0, "")
	require.NoError(t, err)

	result, ok := out.(task.UpdatePipelineResult)
	require.True(t, ok)
	assert.Equal(t, 1, result.SponsorsReviewed)
	require.Len(t, result.Pipeline, 1)
	assert.Equal(t, []string{"booked"}, result.Pipeline[0].Statuses)
	assert.Zero(t, gen.calls)
}

func TestRunCycle(t *testing.T) {
	s, _, _, staff := newFixture(t)
	issue, err := s.CreateIssue(1, "Kickoff", "", "", "")
	require.NoError(t, err)

	result, err := staff.RunCycle(context.Background(), issue.ID)
	require.NoError(t, err)

	assert.Empty(t, result.Research.Error)
	assert.Empty(t, result.Planning.Error)
	assert.Empty(t, result.Assignments.Error)

	plan, ok := result.Planning.Output.(task.PlanIssueResult)
	require.True(t, ok)
	assert.NotEmpty(t, plan.Sections)

	cal, err := s.CalendarForIssue(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "planned", cal.Status)

	assigned, ok := result.Assignments.Output.(task.AssignSectionsResult)
	require.True(t, ok)
	assert.Greater(t, assigned.Assigned, 0)
	assert.Len(t, result.Writing, assigned.Assigned, "writer drained every task it was assigned")
	for _, w := range result.Writing {
		assert.Empty(t, w.Error)
	}

	drafts, err := s.DraftsForIssue(issue.ID)
	require.NoError(t, err)
	assert.Len(t, drafts, assigned.Assigned)

	assert.Greater(t, result.PendingReviews, 0, "cycle ends at the review checkpoint")
}

func TestReviewCheckpointActions(t *testing.T) {
	s, _, _, staff := newFixture(t)

	created, err := staff.Assign(task.AgentGrowth, task.TypeAnalyzeMetrics, nil, 0, "", 0)
	require.NoError(t, err)
	_, err = staff.Execute(context.Background(), task.AgentGrowth, created.ID)
	require.NoError(t, err)

	reviews, err := staff.PendingReviews()
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	require.NoError(t, staff.RejectTask(created.ID))
	got, err := s.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(task.StateFailed), got.State)

	require.NoError(t, staff.OverrideTask(created.ID, "metrics were fine"))
	got, err = s.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(task.StateComplete), got.State)
	assert.True(t, got.HumanOverride)
	assert.Equal(t, "metrics were fine", got.HumanNotes)
}

func TestStaffStatus(t *testing.T) {
	_, _, _, staff := newFixture(t)
	_, err := staff.EnsureAll()
	require.NoError(t, err)

	created, err := staff.Assign(task.AgentResearcher, task.TypeFindGuestCandidates, nil, 0, "", 0)
	require.NoError(t, err)
	_, err = staff.Execute(context.Background(), task.AgentResearcher, created.ID)
	require.NoError(t, err)

	status, err := staff.StaffStatus()
	require.NoError(t, err)
	require.Len(t, status, 5)

	byRole := map[string]StatusEntry{}
	for _, entry := range status {
		byRole[entry.Agent.AgentType] = entry
	}
	researcher := byRole[string(task.AgentResearcher)]
	assert.Equal(t, 1, researcher.InReview)
	assert.Equal(t, 1, researcher.Total)
	assert.True(t, strings.Contains(researcher.Agent.Persona, "researcher"))
}
