package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// growth analyzes audience metrics, suggests tactics, and promotes issues
// on social platforms.
type growth struct {
	*deps
	runner *runner
}

// socialPlatforms is the fan-out target list for draft_social_posts. One
// generation is stored per platform; per-platform tailoring is a human
// editing step downstream.
var socialPlatforms = []string{"twitter", "instagram", "linkedin", "threads"}

func newGrowth(d *deps, r *runner) *Agent {
	g := &growth{deps: d, runner: r}
	return &Agent{
		role:    task.AgentGrowth,
		name:    "Growth Manager",
		persona: "Data-driven growth strategist specializing in newsletter and community growth.",
		systemPrompt: "You are the Growth Manager for TrueFans AMP Magazine. " +
			"You analyze subscriber metrics, suggest growth tactics, " +
			"create social media content, and plan referral campaigns.",
		ops: map[task.Type]Op{
			task.TypeAnalyzeMetrics:   g.analyzeMetrics,
			task.TypeSuggestTactics:   g.suggestTactics,
			task.TypeDraftSocialPosts: g.draftSocialPosts,
			task.TypePlanReferral:     g.planReferral,
		},
	}
}

// analyzeMetrics is a pure aggregation over the growth snapshots. No AI.
func (g *growth) analyzeMetrics(_ context.Context, t *store.AgentTask) (any, error) {
	subscribers, err := g.store.CountActiveSubscribers()
	if err != nil {
		return nil, err
	}
	trend, err := g.store.RecentGrowth(30)
	if err != nil {
		return nil, err
	}

	result := task.MetricsResult{
		CurrentSubscribers: subscribers,
		DataPoints:         len(trend),
	}
	if len(trend) > 0 {
		latest := trend[0]
		result.LatestOpenRate = latest.OpenRateAvg
		result.LatestNewSubs = latest.NewSubscribers
		result.LatestChurned = latest.ChurnedSubscribers
	}

	g.runner.logOutput(t, "metrics_analysis", task.Marshal(result), 0)
	return result, nil
}

func (g *growth) suggestTactics(ctx context.Context, t *store.AgentTask) (any, error) {
	subscribers, err := g.store.CountActiveSubscribers()
	if err != nil {
		return nil, err
	}
	trend, err := g.store.RecentGrowth(7)
	if err != nil {
		return nil, err
	}

	var lines []string
	for i := len(trend) - 1; i >= 0; i-- { // oldest first for the prompt
		p := trend[i]
		lines = append(lines, fmt.Sprintf("- %s: %d subs, %.1f%% open rate",
			p.MetricDate, p.TotalSubscribers, p.OpenRateAvg*100))
	}
	trendText := strings.Join(lines, "\n")
	if trendText == "" {
		trendText = "No data yet"
	}

	prompt := fmt.Sprintf(
		"Suggest 5 growth tactics for TrueFans AMP Magazine, "+
			"a newsletter for independent artists with %d subscribers.\n\n"+
			"Recent trends:\n%s\n\n"+
			"Focus on: subscriber acquisition, retention, engagement, "+
			"and referral strategies specific to the music creator audience.",
		subscribers, trendText)

	res, err := g.gen.Generate(ctx, "", prompt, 800)
	if err != nil {
		return nil, fmt.Errorf("suggesting tactics: %w", err)
	}

	g.runner.logGeneration(t, "growth_tactics", prompt, res)
	return task.TextResult{Text: res.Text}, nil
}

// draftSocialPosts generates promotional copy for an issue and fans it out
// into one post row per platform.
func (g *growth) draftSocialPosts(ctx context.Context, t *store.AgentTask) (any, error) {
	if t.IssueID == 0 {
		return task.ErrorResult{Error: "No issue attached to task"}, nil
	}
	issue, err := g.store.GetIssue(t.IssueID)
	if errors.Is(err, store.ErrNotFound) {
		return task.ErrorResult{Error: fmt.Sprintf("Issue %d not found", t.IssueID)}, nil
	}
	if err != nil {
		return nil, err
	}

	drafts, err := g.store.DraftsForIssue(t.IssueID)
	if err != nil {
		return nil, err
	}
	var names []string
	for i, d := range drafts {
		if i >= 5 {
			break
		}
		names = append(names, titleCase(d.SectionSlug))
	}

	title := issue.Title
	if title == "" {
		title = "Latest Issue"
	}
	prompt := fmt.Sprintf(
		"Create social media posts promoting Issue #%d of TrueFans AMP Magazine.\n\n"+
			"Issue title: %s\nSections: %s\n\n"+
			"Write one post each for: Twitter (280 chars), Instagram (caption), "+
			"LinkedIn (professional), and Threads (conversational). "+
			"Include relevant hashtags.",
		issue.IssueNumber, title, strings.Join(names, ", "))

	res, err := g.gen.Generate(ctx, "", prompt, 1000)
	if err != nil {
		return nil, fmt.Errorf("drafting social posts: %w", err)
	}

	created := 0
	for _, platform := range socialPlatforms {
		if _, err := g.store.CreateSocialPost(platform, res.Text, t.IssueID, t.ID); err != nil {
			return nil, err
		}
		created++
	}

	g.runner.logGeneration(t, "social_posts", prompt, res)
	return task.SocialPostsResult{PostsCreated: created, Content: res.Text}, nil
}

func (g *growth) planReferral(ctx context.Context, t *store.AgentTask) (any, error) {
	subscribers, err := g.store.CountActiveSubscribers()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Design a referral campaign for TrueFans AMP Magazine "+
			"(%d current subscribers). "+
			"Our audience: independent artists, songwriters, music creators.\n\n"+
			"Include: campaign concept, reward tiers, messaging, "+
			"and implementation steps. Keep it practical for a small team.",
		subscribers)

	res, err := g.gen.Generate(ctx, "", prompt, 800)
	if err != nil {
		return nil, fmt.Errorf("planning referral campaign: %w", err)
	}

	g.runner.logGeneration(t, "referral_plan", prompt, res)
	return task.TextResult{Text: res.Text}, nil
}

// titleCase turns a section slug into a display phrase: artist_spotlight →
// Artist Spotlight.
func titleCase(slug string) string {
	words := strings.Split(slug, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
