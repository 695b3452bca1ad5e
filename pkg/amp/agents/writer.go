package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// writer generates and regenerates section drafts.
type writer struct {
	*deps
	runner *runner
}

func newWriter(d *deps, r *runner) *Agent {
	w := &writer{deps: d, runner: r}
	return &Agent{
		role:    task.AgentWriter,
		name:    "Staff Writer",
		persona: "Versatile music journalist who can adapt tone and style to any section.",
		systemPrompt: "You are a staff writer for TrueFans AMP Magazine. " +
			"You write compelling, accurate content for independent artists and songwriters. " +
			"Match the tone and style specified for each section.",
		ops: map[task.Type]Op{
			task.TypeWriteSection: w.writeSection,
			task.TypeRewrite:      w.rewrite,
			task.TypeAdaptTone:    w.adaptTone,
		},
	}
}

// writeSection fills the section's prompt template from editorial inputs
// and the top unused research items, generates at the section's word-count
// budget, and persists the result as a new draft version.
func (w *writer) writeSection(ctx context.Context, t *store.AgentTask) (any, error) {
	if t.IssueID == 0 || t.SectionSlug == "" {
		return task.ErrorResult{Error: "issue_id and section_slug required"}, nil
	}
	section, err := w.store.GetSection(t.SectionSlug)
	if errors.Is(err, store.ErrNotFound) {
		return task.ErrorResult{Error: fmt.Sprintf("Section %s not found", t.SectionSlug)}, nil
	}
	if err != nil {
		return nil, err
	}

	template := w.cfg.PromptTemplate(t.SectionSlug)

	topic, notes, refs := "", "", ""
	if input, err := w.store.GetEditorialInput(t.IssueID, t.SectionSlug); err == nil {
		topic, notes, refs = input.Topic, input.Notes, input.ReferenceURLs
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	items, err := w.store.TopContentForSection(t.SectionSlug, 3)
	if err != nil {
		return nil, err
	}
	var refLines []string
	for _, item := range items {
		refLines = append(refLines, fmt.Sprintf("- %s: %s", item.Title, firstN(item.Summary, 200)))
	}
	referenceContent := strings.Join(refLines, "\n")
	if referenceContent == "" {
		referenceContent = refs
	}

	prompt := config.FillPrompt(template, map[string]string{
		"newsletter_name":   w.cfg.Newsletter.Name,
		"topic":             topic,
		"notes":             notes,
		"reference_content": referenceContent,
	}, section.TargetWordCount, section.WordCountLabel)

	maxTokens := generate.MaxTokensForLabel(section.WordCountLabel)
	res, err := w.gen.Generate(ctx, "", prompt, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", t.SectionSlug, err)
	}

	draft, err := w.store.CreateDraft(t.IssueID, t.SectionSlug, res.Text, res.Model, firstN(prompt, 500))
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	if err := w.store.MarkContentUsed(ids); err != nil {
		return nil, err
	}

	w.runner.logGeneration(t, "draft", prompt, res)
	return task.WriteSectionResult{
		DraftID:   draft.ID,
		Section:   t.SectionSlug,
		WordCount: generate.CountWords(res.Text),
	}, nil
}

// rewrite regenerates a draft with free-text feedback folded in. The result
// lands as a new revised version.
func (w *writer) rewrite(ctx context.Context, t *store.AgentTask) (any, error) {
	var input task.RewriteInput
	if err := task.Unmarshal(t.InputJSON, &input); err != nil {
		return nil, err
	}
	if input.DraftID == 0 {
		return task.ErrorResult{Error: "draft_id required"}, nil
	}
	draft, err := w.store.GetDraft(input.DraftID)
	if errors.Is(err, store.ErrNotFound) {
		return task.ErrorResult{Error: fmt.Sprintf("Draft %d not found", input.DraftID)}, nil
	}
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Rewrite the following newsletter section incorporating this feedback:\n\n"+
			"Feedback: %s\n\nOriginal content:\n%s",
		input.Feedback, draft.Content)

	res, err := w.gen.Generate(ctx, "", prompt, 0)
	if err != nil {
		return nil, fmt.Errorf("rewriting draft %d: %w", input.DraftID, err)
	}

	revised, err := w.store.ReviseDraft(input.DraftID, res.Text, res.Model, firstN(prompt, 500))
	if err != nil {
		return nil, err
	}

	w.runner.logGeneration(t, "rewrite", prompt, res)
	return task.RewriteResult{DraftID: revised.ID, Rewritten: true}, nil
}

// adaptTone regenerates a draft shifting its voice while preserving the
// substance.
func (w *writer) adaptTone(ctx context.Context, t *store.AgentTask) (any, error) {
	var input task.AdaptToneInput
	if err := task.Unmarshal(t.InputJSON, &input); err != nil {
		return nil, err
	}
	if input.DraftID == 0 {
		return task.ErrorResult{Error: "draft_id required"}, nil
	}
	draft, err := w.store.GetDraft(input.DraftID)
	if errors.Is(err, store.ErrNotFound) {
		return task.ErrorResult{Error: fmt.Sprintf("Draft %d not found", input.DraftID)}, nil
	}
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Adjust the tone of this newsletter section. Direction: %s\n"+
			"Keep the core content the same but shift the voice/tone as directed.\n\n"+
			"Content:\n%s",
		input.ToneDirection, draft.Content)

	res, err := w.gen.Generate(ctx, "", prompt, 1500)
	if err != nil {
		return nil, fmt.Errorf("adapting tone of draft %d: %w", input.DraftID, err)
	}

	revised, err := w.store.ReviseDraft(input.DraftID, res.Text, res.Model, firstN(prompt, 500))
	if err != nil {
		return nil, err
	}

	w.runner.logGeneration(t, "tone_adapt", prompt, res)
	return task.AdaptToneResult{DraftID: revised.ID, ToneAdapted: true}, nil
}
