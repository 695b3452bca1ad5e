package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// editor plans issues, assigns sections, reviews drafts, and approves the
// lineup.
type editor struct {
	*deps
	runner *runner
}

func newEditor(d *deps, r *runner) *Agent {
	e := &editor{deps: d, runner: r}
	return &Agent{
		role:    task.AgentEditorInChief,
		name:    "Editor-in-Chief",
		persona: "Experienced magazine editor with a keen eye for compelling content and audience engagement.",
		systemPrompt: "You are the Editor-in-Chief of TrueFans AMP Magazine. " +
			"You plan issues, assign sections to writers, review drafts for quality, " +
			"and ensure each issue tells a cohesive story for independent artists.",
		ops: map[task.Type]Op{
			task.TypePlanIssue:      e.planIssue,
			task.TypeAssignSections: e.assignSections,
			task.TypeReviewDrafts:   e.reviewDrafts,
			task.TypeApproveIssue:   e.approveIssue,
		},
	}
}

// planIssue resolves the section lineup (core + a fresh rotating draw) and
// records it on the editorial calendar.
func (e *editor) planIssue(_ context.Context, t *store.AgentTask) (any, error) {
	if t.IssueID == 0 {
		return task.ErrorResult{Error: "No issue attached to task"}, nil
	}
	issue, err := e.store.GetIssue(t.IssueID)
	if errors.Is(err, store.ErrNotFound) {
		return task.ErrorResult{Error: fmt.Sprintf("Issue %d not found", t.IssueID)}, nil
	}
	if err != nil {
		return nil, err
	}

	sections, err := e.selector.SectionsForIssue(t.IssueID, nil)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(sections))
	for _, sec := range sections {
		slugs = append(slugs, sec.Slug)
	}

	if _, err := e.store.CreateCalendarEntry(&store.CalendarEntry{
		IssueID:            t.IssueID,
		PlannedDate:        issue.PublishDate,
		Theme:              issue.Title,
		SectionAssignments: task.Marshal(slugs),
		Status:             "planned",
	}); err != nil {
		return nil, err
	}

	result := task.PlanIssueResult{IssueID: t.IssueID, Sections: slugs}
	e.runner.logOutput(t, "plan", task.Marshal(result), 0)
	return result, nil
}

// assignSections creates one writer task per active section. Sections with
// a writer task already in flight for this issue are counted as skipped.
func (e *editor) assignSections(_ context.Context, t *store.AgentTask) (any, error) {
	if t.IssueID == 0 {
		return task.ErrorResult{Error: "No issue attached to task"}, nil
	}
	writer, err := e.store.ActiveAgentByType(string(task.AgentWriter))
	if errors.Is(err, store.ErrNotFound) {
		return task.ErrorResult{Error: "No writer agent found"}, nil
	}
	if err != nil {
		return nil, err
	}

	sections, err := e.store.ActiveSections()
	if err != nil {
		return nil, err
	}

	result := task.AssignSectionsResult{}
	for _, sec := range sections {
		created, err := e.store.CreateAgentTask(writer.ID, string(task.TypeWriteSection),
			3, "{}", t.IssueID, sec.Slug)
		if errors.Is(err, store.ErrTaskInFlight) {
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Assigned++
		result.Tasks = append(result.Tasks, task.SectionAssignment{TaskID: created.ID, Section: sec.Slug})
	}

	e.runner.logOutput(t, "assignments", task.Marshal(result.Tasks), 0)
	return result, nil
}

// reviewDrafts AI-critiques each pending or revised draft in the issue. A
// generation failure for one draft is recorded in its review entry and the
// rest proceed.
func (e *editor) reviewDrafts(ctx context.Context, t *store.AgentTask) (any, error) {
	if t.IssueID == 0 {
		return task.ErrorResult{Error: "No issue attached to task"}, nil
	}
	drafts, err := e.store.DraftsForIssue(t.IssueID)
	if err != nil {
		return nil, err
	}

	result := task.ReviewDraftsResult{}
	for _, draft := range drafts {
		if draft.Status != store.DraftPending && draft.Status != store.DraftRevised {
			continue
		}
		prompt := fmt.Sprintf(
			"Review this newsletter section draft. Rate it 1-10 for quality, "+
				"relevance, and tone. Suggest specific improvements if needed.\n\n"+
				"Section: %s\nContent:\n%s",
			draft.SectionSlug, firstN(draft.Content, 2000))

		review := task.DraftReview{DraftID: draft.ID, Section: draft.SectionSlug}
		res, err := e.gen.Generate(ctx, "", prompt, 500)
		if err != nil {
			review.Error = err.Error()
		} else {
			review.Review = res.Text
		}
		result.Reviews = append(result.Reviews, review)
		result.Reviewed++
	}

	e.runner.logOutput(t, "reviews", task.Marshal(result.Reviews), 0)
	return result, nil
}

// approveIssue bulk-approves the pending latest drafts and moves the issue
// into review.
func (e *editor) approveIssue(_ context.Context, t *store.AgentTask) (any, error) {
	if t.IssueID == 0 {
		return task.ErrorResult{Error: "No issue attached to task"}, nil
	}
	drafts, err := e.store.DraftsForIssue(t.IssueID)
	if err != nil {
		return nil, err
	}

	approved := 0
	for _, draft := range drafts {
		if draft.Status != store.DraftPending {
			continue
		}
		if err := e.store.UpdateDraftStatus(draft.ID, store.DraftApproved); err != nil {
			return nil, err
		}
		approved++
	}
	if err := e.store.UpdateIssueStatus(t.IssueID, store.IssueReview); err != nil {
		return nil, err
	}

	result := task.ApproveIssueResult{IssueID: t.IssueID, Approved: approved}
	e.runner.logOutput(t, "approval", task.Marshal(result), 0)
	return result, nil
}
