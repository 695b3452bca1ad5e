package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/research"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/rotation"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// Staff coordinates the five agents: it runs the production cycle, triggers
// individual tasks out of band, and surfaces the review queue.
type Staff struct {
	deps   *deps
	runner *runner
	agents map[task.AgentType]*Agent
}

// NewStaff wires the five role agents over the shared store and generator.
func NewStaff(s *store.Store, cfg *config.AppConfig, gen generate.Generator, logger *slog.Logger) *Staff {
	d := &deps{
		store:    s,
		cfg:      cfg,
		gen:      gen,
		fetcher:  research.NewFetcher(s, logger),
		selector: rotation.NewSelector(s, cfg.Rotation),
		logger:   logger.With("component", "agents"),
	}
	r := &runner{deps: d}
	return &Staff{
		deps:   d,
		runner: r,
		agents: map[task.AgentType]*Agent{
			task.AgentEditorInChief: newEditor(d, r),
			task.AgentWriter:        newWriter(d, r),
			task.AgentResearcher:    newResearcher(d, r),
			task.AgentSales:         newSales(d, r),
			task.AgentGrowth:        newGrowth(d, r),
		},
	}
}

// Agent returns the executor for a role.
func (st *Staff) Agent(role task.AgentType) (*Agent, error) {
	a, ok := st.agents[role]
	if !ok {
		return nil, fmt.Errorf("unknown agent type %q", role)
	}
	return a, nil
}

// EnsureAll creates the database rows for every role that does not have one
// yet. Returns the full roster.
func (st *Staff) EnsureAll() ([]*store.Agent, error) {
	var roster []*store.Agent
	for _, role := range task.AgentTypes {
		row, err := st.agents[role].ensure(st.deps)
		if err != nil {
			return nil, err
		}
		roster = append(roster, row)
	}
	return roster, nil
}

// Assign creates an assigned task for a role without executing it.
func (st *Staff) Assign(role task.AgentType, taskType task.Type, input any, issueID int64, sectionSlug string, priority int) (*store.AgentTask, error) {
	a, err := st.Agent(role)
	if err != nil {
		return nil, err
	}
	return st.runner.assign(a, taskType, input, issueID, sectionSlug, priority)
}

// Execute runs one assigned task for a role to a terminal state.
func (st *Staff) Execute(ctx context.Context, role task.AgentType, taskID int64) (any, error) {
	a, err := st.Agent(role)
	if err != nil {
		return nil, err
	}
	return st.runner.execute(ctx, a, taskID)
}

// TriggerAgent is the out-of-band escape hatch: exactly one assign+execute
// for a (role, task type) pair, outside the fixed cycle.
func (st *Staff) TriggerAgent(ctx context.Context, role task.AgentType, taskType task.Type, input any, issueID int64, sectionSlug string) (any, error) {
	t, err := st.Assign(role, taskType, input, issueID, sectionSlug, 0)
	if err != nil {
		return nil, err
	}
	return st.Execute(ctx, role, t.ID)
}

// StepResult captures one fault-isolated cycle step: its output when it
// succeeded, or the error text when it did not.
type StepResult struct {
	Output any    `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CycleResult is the outcome of one production cycle.
type CycleResult struct {
	IssueID        int64        `json:"issue_id"`
	Research       StepResult   `json:"research"`
	Planning       StepResult   `json:"planning"`
	Assignments    StepResult   `json:"assignments"`
	Writing        []StepResult `json:"writing"`
	PendingReviews int          `json:"pending_reviews"`
}

// RunCycle executes the fixed production sequence for an issue: the
// researcher discovers content, the editor plans the issue and assigns
// sections, and the writer drains its pending tasks for the issue. Each
// step is fault-isolated; a failure is captured in the result and later
// steps still run. The cycle always ends at the review checkpoint — nothing
// is auto-approved.
func (st *Staff) RunCycle(ctx context.Context, issueID int64) (*CycleResult, error) {
	if issueID == 0 {
		issue, err := st.deps.store.CurrentIssue()
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no current issue; create one first")
		}
		if err != nil {
			return nil, err
		}
		issueID = issue.ID
	}
	// The editor's assignment step looks the writer up by role, so the
	// roster must exist before the cycle starts.
	if _, err := st.EnsureAll(); err != nil {
		return nil, err
	}
	result := &CycleResult{IssueID: issueID}

	result.Research = st.step(ctx, task.AgentResearcher, task.TypeDiscoverContent, issueID, "")
	result.Planning = st.step(ctx, task.AgentEditorInChief, task.TypePlanIssue, issueID, "")
	result.Assignments = st.step(ctx, task.AgentEditorInChief, task.TypeAssignSections, issueID, "")
	result.Writing = st.drainWriter(ctx, issueID)

	reviews, err := st.PendingReviews()
	if err != nil {
		return nil, err
	}
	result.PendingReviews = len(reviews)
	return result, nil
}

func (st *Staff) step(ctx context.Context, role task.AgentType, taskType task.Type, issueID int64, sectionSlug string) StepResult {
	out, err := st.TriggerAgent(ctx, role, taskType, nil, issueID, sectionSlug)
	if err != nil {
		return StepResult{Error: err.Error()}
	}
	return StepResult{Output: out}
}

// drainWriter executes every pending writer task belonging to the issue, in
// queue order. Tasks for other issues stay untouched.
func (st *Staff) drainWriter(ctx context.Context, issueID int64) []StepResult {
	writerAgent := st.agents[task.AgentWriter]
	row, err := writerAgent.ensure(st.deps)
	if err != nil {
		return []StepResult{{Error: err.Error()}}
	}
	pending, err := st.deps.store.PendingTasksForAgent(row.ID)
	if err != nil {
		return []StepResult{{Error: err.Error()}}
	}

	var results []StepResult
	for _, t := range pending {
		if t.IssueID != issueID {
			continue
		}
		out, err := st.runner.execute(ctx, writerAgent, t.ID)
		if err != nil {
			results = append(results, StepResult{Error: err.Error()})
			continue
		}
		results = append(results, StepResult{Output: out})
	}
	return results
}

// PendingReviews returns the tasks waiting at the human review checkpoint.
func (st *Staff) PendingReviews() ([]*store.AgentTask, error) {
	return st.deps.store.TasksInState(task.StateReview)
}

// ApproveTask completes a task sitting in review.
func (st *Staff) ApproveTask(taskID int64) error {
	return st.deps.store.UpdateTaskState(taskID, task.StateComplete)
}

// RejectTask fails a task sitting in review.
func (st *Staff) RejectTask(taskID int64) error {
	return st.deps.store.UpdateTaskState(taskID, task.StateFailed)
}

// OverrideTask is the human escape hatch for a failed task.
func (st *Staff) OverrideTask(taskID int64, notes string) error {
	return st.deps.store.OverrideTask(taskID, notes)
}

// StatusEntry is one agent's workload summary.
type StatusEntry struct {
	Agent     *store.Agent `json:"agent"`
	Active    int          `json:"active_tasks"`
	InReview  int          `json:"review_tasks"`
	Completed int          `json:"completed_tasks"`
	Failed    int          `json:"failed_tasks"`
	Total     int          `json:"total_tasks"`
}

// StaffStatus summarizes every agent's task counts.
func (st *Staff) StaffStatus() ([]StatusEntry, error) {
	rows, err := st.deps.store.ListAgents()
	if err != nil {
		return nil, err
	}
	var out []StatusEntry
	for _, row := range rows {
		counts, err := st.deps.store.TaskStateCounts(row.ID)
		if err != nil {
			return nil, err
		}
		entry := StatusEntry{
			Agent:     row,
			Active:    counts[task.StateAssigned] + counts[task.StateWorking],
			InReview:  counts[task.StateReview],
			Completed: counts[task.StateComplete],
			Failed:    counts[task.StateFailed],
		}
		for _, n := range counts {
			entry.Total += n
		}
		out = append(out, entry)
	}
	return out, nil
}
