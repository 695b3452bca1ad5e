// Package task – payload.go defines the typed input and output payloads that
// ride on agent tasks. Inputs are written when a task is assigned; outputs
// are serialized into the task record when it reaches a terminal state. Both
// keep a plain-JSON wire form so rows stay readable with raw SQL.
package task

import "encoding/json"

// ─── Inputs ───

// RewriteInput asks the writer to regenerate a draft with feedback folded in.
type RewriteInput struct {
	DraftID  int64  `json:"draft_id"`
	Feedback string `json:"feedback,omitempty"`
}

// AdaptToneInput asks the writer to shift a draft's voice without changing
// its substance.
type AdaptToneInput struct {
	DraftID       int64  `json:"draft_id"`
	ToneDirection string `json:"tone_direction,omitempty"`
}

// DraftOutreachInput names the sponsor to write an outreach email for.
type DraftOutreachInput struct {
	SponsorID int64 `json:"sponsor_id"`
}

// ─── Outputs ───

// ErrorResult is the soft-failure payload: the task still terminates
// successfully, but its output records what went wrong. Used for caller
// mistakes (unknown task type, missing entity) that are data problems, not
// execution faults.
type ErrorResult struct {
	Error string `json:"error"`
}

// PlanIssueResult lists the sections chosen for an issue.
type PlanIssueResult struct {
	IssueID  int64    `json:"issue_id"`
	Sections []string `json:"sections"`
}

// SectionAssignment pairs a created writer task with its section.
type SectionAssignment struct {
	TaskID  int64  `json:"task_id"`
	Section string `json:"section"`
}

// AssignSectionsResult reports the writer tasks created for an issue.
type AssignSectionsResult struct {
	Assigned int                 `json:"assigned"`
	Skipped  int                 `json:"skipped,omitempty"`
	Tasks    []SectionAssignment `json:"tasks"`
}

// DraftReview is one AI critique of a draft, or the per-draft error that
// replaced it when generation failed.
type DraftReview struct {
	DraftID int64  `json:"draft_id"`
	Section string `json:"section"`
	Review  string `json:"review,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReviewDraftsResult aggregates per-draft critiques.
type ReviewDraftsResult struct {
	Reviewed int           `json:"reviewed"`
	Reviews  []DraftReview `json:"reviews"`
}

// ApproveIssueResult reports the bulk approval outcome.
type ApproveIssueResult struct {
	IssueID  int64 `json:"issue_id"`
	Approved int   `json:"approved"`
}

// WriteSectionResult reports a newly persisted draft version.
type WriteSectionResult struct {
	DraftID   int64  `json:"draft_id"`
	Section   string `json:"section"`
	WordCount int    `json:"word_count"`
}

// RewriteResult confirms a regeneration.
type RewriteResult struct {
	DraftID   int64 `json:"draft_id"`
	Rewritten bool  `json:"rewritten"`
}

// AdaptToneResult confirms a tone pass.
type AdaptToneResult struct {
	DraftID     int64 `json:"draft_id"`
	ToneAdapted bool  `json:"tone_adapted"`
}

// DiscoverContentResult counts fetched and newly scored items.
type DiscoverContentResult struct {
	Fetched int `json:"fetched"`
	Scored  int `json:"scored"`
}

// CompileBriefResult carries a narrative research brief for a section.
type CompileBriefResult struct {
	Section string `json:"section"`
	Brief   string `json:"brief"`
	Items   int    `json:"items"`
}

// TextResult is the shared shape for freeform AI outputs (guest candidate
// brainstorms, prospect lists, tactics, referral plans).
type TextResult struct {
	Text string `json:"text"`
}

// OutreachResult carries a personalized sponsor email.
type OutreachResult struct {
	SponsorID int64  `json:"sponsor_id"`
	Email     string `json:"email"`
}

// SponsorPipelineEntry summarizes one sponsor's bookings.
type SponsorPipelineEntry struct {
	Sponsor  string   `json:"sponsor"`
	Bookings int      `json:"bookings"`
	Statuses []string `json:"statuses"`
}

// UpdatePipelineResult aggregates booking status across all sponsors.
type UpdatePipelineResult struct {
	SponsorsReviewed int                    `json:"sponsors_reviewed"`
	Pipeline         []SponsorPipelineEntry `json:"pipeline"`
}

// MetricsResult summarizes subscriber counts and the latest trend point.
type MetricsResult struct {
	CurrentSubscribers int     `json:"current_subscribers"`
	DataPoints         int     `json:"data_points"`
	LatestOpenRate     float64 `json:"latest_open_rate,omitempty"`
	LatestNewSubs      int     `json:"latest_new_subs,omitempty"`
	LatestChurned      int     `json:"latest_churned,omitempty"`
}

// SocialPostsResult reports the fan-out of one generation into platform rows.
type SocialPostsResult struct {
	PostsCreated int    `json:"posts_created"`
	Content      string `json:"content"`
}

// Marshal serializes any payload to its JSON wire form. A nil payload
// marshals to an empty object so task rows never hold literal NULLs.
func Marshal(v any) string {
	if v == nil {
		return "{}"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Unmarshal decodes a payload column into dst. Empty columns decode as a
// zero value.
func Unmarshal(data string, dst any) error {
	if data == "" {
		data = "{}"
	}
	return json.Unmarshal([]byte(data), dst)
}
