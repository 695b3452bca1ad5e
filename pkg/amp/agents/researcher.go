package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// researcher discovers content, compiles briefs, and brainstorms guest
// contributors.
type researcher struct {
	*deps
	runner *runner
}

func newResearcher(d *deps, r *runner) *Agent {
	re := &researcher{deps: d, runner: r}
	return &Agent{
		role:    task.AgentResearcher,
		name:    "Research Analyst",
		persona: "Thorough music industry researcher with deep knowledge of trends and emerging artists.",
		systemPrompt: "You are a research analyst for TrueFans AMP Magazine. " +
			"You discover relevant content, compile research briefs, " +
			"and identify potential guest contributors.",
		ops: map[task.Type]Op{
			task.TypeDiscoverContent:     re.discoverContent,
			task.TypeCompileBrief:        re.compileBrief,
			task.TypeFindGuestCandidates: re.findGuestCandidates,
		},
	}
}

// discoverContent fetches from every active source and relevance-scores
// whatever is still untagged.
func (re *researcher) discoverContent(ctx context.Context, t *store.AgentTask) (any, error) {
	results, err := re.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	fetched := 0
	for _, n := range results {
		fetched += n
	}

	scored, err := re.fetcher.ScorePending()
	if err != nil {
		return nil, err
	}

	result := task.DiscoverContentResult{Fetched: fetched, Scored: scored}
	re.runner.logOutput(t, "discovery", task.Marshal(result), 0)
	return result, nil
}

// compileBrief aggregates the top unused items matched to a section into a
// narrative research brief.
func (re *researcher) compileBrief(ctx context.Context, t *store.AgentTask) (any, error) {
	if t.SectionSlug == "" {
		return task.ErrorResult{Error: "section_slug required"}, nil
	}

	items, err := re.store.TopContentForSection(t.SectionSlug, 10)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return task.CompileBriefResult{Section: t.SectionSlug, Brief: "No relevant content found.", Items: 0}, nil
	}

	var parts []string
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("### %s\n%s\nSource: %s",
			item.Title, firstN(item.Summary, 300), item.URL))
	}

	prompt := fmt.Sprintf(
		"Compile a research brief for the %s section of TrueFans AMP Magazine. "+
			"Summarize the key themes, identify the most newsworthy angles, "+
			"and suggest a specific topic/angle for this week's article.\n\n"+
			"Available content:\n%s",
		t.SectionSlug, strings.Join(parts, "\n\n"))

	res, err := re.gen.Generate(ctx, "", prompt, 800)
	if err != nil {
		return nil, fmt.Errorf("compiling brief for %s: %w", t.SectionSlug, err)
	}

	re.runner.logGeneration(t, "brief", prompt, res)
	return task.CompileBriefResult{Section: t.SectionSlug, Brief: res.Text, Items: len(items)}, nil
}

// findGuestCandidates is a freeform AI brainstorm over the active section
// lineup; nothing structured backs it.
func (re *researcher) findGuestCandidates(ctx context.Context, t *store.AgentTask) (any, error) {
	sections, err := re.store.ActiveSections()
	if err != nil {
		return nil, err
	}
	var names []string
	for i, sec := range sections {
		if i >= 10 {
			break
		}
		names = append(names, sec.DisplayName)
	}

	prompt := fmt.Sprintf(
		"Suggest 5 types of guest contributors who would be ideal for "+
			"TrueFans AMP Magazine, a publication for independent artists and songwriters. "+
			"Our sections include: %s. "+
			"For each, suggest: role/title, what they'd write about, "+
			"and why our audience would value their perspective.",
		strings.Join(names, ", "))

	res, err := re.gen.Generate(ctx, "", prompt, 800)
	if err != nil {
		return nil, fmt.Errorf("finding guest candidates: %w", err)
	}

	re.runner.logGeneration(t, "guest_candidates", prompt, res)
	return task.TextResult{Text: res.Text}, nil
}
