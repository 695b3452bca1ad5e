package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// sales identifies sponsor prospects, drafts outreach, and tracks the
// booking pipeline.
type sales struct {
	*deps
	runner *runner
}

func newSales(d *deps, r *runner) *Agent {
	s := &sales{deps: d, runner: r}
	return &Agent{
		role:    task.AgentSales,
		name:    "Sales Director",
		persona: "Strategic sales professional with deep understanding of the music industry advertising landscape.",
		systemPrompt: "You are the Sales Director for TrueFans AMP Magazine. " +
			"You identify potential sponsors, draft outreach emails, " +
			"and manage the sponsorship pipeline.",
		ops: map[task.Type]Op{
			task.TypeIdentifyProspects: s.identifyProspects,
			task.TypeDraftOutreach:     s.draftOutreach,
			task.TypeUpdatePipeline:    s.updatePipeline,
		},
	}
}

func (s *sales) identifyProspects(ctx context.Context, t *store.AgentTask) (any, error) {
	subscribers, err := s.store.CountActiveSubscribers()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Suggest 5 types of companies that would be ideal sponsors for "+
			"TrueFans AMP Magazine, a newsletter/magazine for independent artists "+
			"and songwriters with %d subscribers. "+
			"For each, suggest: company type, why they'd sponsor, "+
			"estimated budget range, and a pitch angle.",
		subscribers)

	res, err := s.gen.Generate(ctx, "", prompt, 800)
	if err != nil {
		return nil, fmt.Errorf("identifying prospects: %w", err)
	}

	s.runner.logGeneration(t, "prospects", prompt, res)
	return task.TextResult{Text: res.Text}, nil
}

// draftOutreach writes a personalized sponsorship email for one sponsor
// record.
func (s *sales) draftOutreach(ctx context.Context, t *store.AgentTask) (any, error) {
	var input task.DraftOutreachInput
	if err := task.Unmarshal(t.InputJSON, &input); err != nil {
		return nil, err
	}
	if input.SponsorID == 0 {
		return task.ErrorResult{Error: "sponsor_id required"}, nil
	}
	sponsor, err := s.store.GetSponsor(input.SponsorID)
	if errors.Is(err, store.ErrNotFound) {
		return task.ErrorResult{Error: fmt.Sprintf("Sponsor %d not found", input.SponsorID)}, nil
	}
	if err != nil {
		return nil, err
	}

	subscribers, err := s.store.CountActiveSubscribers()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Write a personalized sponsorship outreach email for TrueFans AMP Magazine.\n\n"+
			"Sponsor: %s\nContact: %s\nWebsite: %s\nNotes: %s\n\n"+
			"Our stats: %d subscribers, weekly publication, "+
			"audience of independent artists and songwriters.\n"+
			"Available positions: top, mid, bottom of newsletter.\n\n"+
			"Write a warm, professional email that highlights the alignment "+
			"between their brand and our audience.",
		sponsor.Name, orNA(sponsor.ContactName), orNA(sponsor.Website), sponsor.Notes, subscribers)

	res, err := s.gen.Generate(ctx, "", prompt, 800)
	if err != nil {
		return nil, fmt.Errorf("drafting outreach for %s: %w", sponsor.Name, err)
	}

	s.runner.logGeneration(t, "outreach_email", prompt, res)
	return task.OutreachResult{SponsorID: input.SponsorID, Email: res.Text}, nil
}

// updatePipeline aggregates booking status across every active sponsor. No
// AI call; pure rollup.
func (s *sales) updatePipeline(_ context.Context, t *store.AgentTask) (any, error) {
	sponsors, err := s.store.ActiveSponsors()
	if err != nil {
		return nil, err
	}

	result := task.UpdatePipelineResult{}
	for _, sponsor := range sponsors {
		bookings, err := s.store.BookingsForSponsor(sponsor.ID)
		if err != nil {
			return nil, err
		}
		entry := task.SponsorPipelineEntry{Sponsor: sponsor.Name, Bookings: len(bookings)}
		for _, b := range bookings {
			entry.Statuses = append(entry.Statuses, b.Status)
		}
		result.Pipeline = append(result.Pipeline, entry)
	}
	result.SponsorsReviewed = len(sponsors)

	s.runner.logOutput(t, "pipeline_review", task.Marshal(result.Pipeline), 0)
	return result, nil
}
