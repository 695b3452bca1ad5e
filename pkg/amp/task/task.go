// Package task – task.go defines the agent task state machine: states,
// the allowed transition table, and the typed task identifiers each role
// understands. The store validates every state change against this table.
package task

import (
	"fmt"
)

// AgentType identifies one of the five fixed staff roles.
type AgentType string

const (
	AgentEditorInChief AgentType = "editor_in_chief"
	AgentWriter        AgentType = "writer"
	AgentResearcher    AgentType = "researcher"
	AgentSales         AgentType = "sales"
	AgentGrowth        AgentType = "growth"
)

// AgentTypes lists all roles in dispatch order.
var AgentTypes = []AgentType{
	AgentEditorInChief,
	AgentWriter,
	AgentResearcher,
	AgentSales,
	AgentGrowth,
}

// Valid reports whether t is one of the five known roles.
func (t AgentType) Valid() bool {
	switch t {
	case AgentEditorInChief, AgentWriter, AgentResearcher, AgentSales, AgentGrowth:
		return true
	}
	return false
}

// State represents where a task sits in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateAssigned  State = "assigned"
	StateWorking   State = "working"
	StateReview    State = "review"
	StateComplete  State = "complete"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further transitions may leave this state,
// except for the human-override path out of failed.
func (s State) Terminal() bool {
	switch s {
	case StateComplete, StateFailed, StateCancelled:
		return true
	}
	return false
}

// transitions is the allowed edge set. A task never re-enters assigned, and
// review/complete are only reachable through working. The override edges
// (failed→complete, review→complete) carry the human checkpoint decisions.
var transitions = map[State][]State{
	StateAssigned: {StateWorking, StateCancelled},
	StateWorking:  {StateReview, StateComplete, StateFailed},
	StateReview:   {StateComplete, StateFailed},
	StateFailed:   {StateComplete}, // human override only
}

// CanTransition reports whether moving from → to is an allowed edge.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ErrInvalidTransition is returned when a state change is attempted along an
// edge not present in the transition table.
type ErrInvalidTransition struct {
	From State
	To   State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid task transition %s -> %s", e.From, e.To)
}

// Type names one operation an agent can run. Each role owns a disjoint set;
// dispatch is by table lookup, so an unrecognized Type is surfaced as a
// structured error result rather than a failed task.
type Type string

// Editor-in-chief operations.
const (
	TypePlanIssue      Type = "plan_issue"
	TypeAssignSections Type = "assign_sections"
	TypeReviewDrafts   Type = "review_drafts"
	TypeApproveIssue   Type = "approve_issue"
)

// Writer operations.
const (
	TypeWriteSection Type = "write_section"
	TypeRewrite      Type = "rewrite"
	TypeAdaptTone    Type = "adapt_tone"
)

// Researcher operations.
const (
	TypeDiscoverContent     Type = "discover_content"
	TypeCompileBrief        Type = "compile_brief"
	TypeFindGuestCandidates Type = "find_guest_candidates"
)

// Sales operations.
const (
	TypeIdentifyProspects Type = "identify_prospects"
	TypeDraftOutreach     Type = "draft_outreach"
	TypeUpdatePipeline    Type = "update_pipeline"
)

// Growth operations.
const (
	TypeAnalyzeMetrics   Type = "analyze_metrics"
	TypeSuggestTactics   Type = "suggest_tactics"
	TypeDraftSocialPosts Type = "draft_social_posts"
	TypePlanReferral     Type = "plan_referral"
)

// DefaultPriority is assigned to tasks created without an explicit priority.
// Lower values are more urgent.
const DefaultPriority = 5
