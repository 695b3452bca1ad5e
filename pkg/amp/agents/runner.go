// Package agents implements the five-role AI staff: editor-in-chief,
// writer, researcher, sales, and growth. Each role owns a dispatch table
// mapping task types to operations; the shared runner drives every task
// through the lifecycle state machine and records its output.
package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/research"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/rotation"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// Op executes one task type. A returned error means the execution itself
// broke and the task fails; data problems (missing entity, bad input) are
// reported as a task.ErrorResult value instead, so the task still reaches a
// terminal success state with the problem on record.
type Op func(ctx context.Context, t *store.AgentTask) (any, error)

// deps bundles what every role needs. Role constructors pick what they use.
type deps struct {
	store    *store.Store
	cfg      *config.AppConfig
	gen      generate.Generator
	fetcher  *research.Fetcher
	selector *rotation.Selector
	logger   *slog.Logger
}

// Agent is one role-specialized executor: its staff identity plus the
// dispatch table of operations it knows how to run.
type Agent struct {
	role         task.AgentType
	name         string
	persona      string
	systemPrompt string
	ops          map[task.Type]Op
}

// Role returns the agent's role identifier.
func (a *Agent) Role() task.AgentType { return a.role }

// ensure returns the agent's database row, creating it on first use.
func (a *Agent) ensure(d *deps) (*store.Agent, error) {
	return d.store.EnsureAgent(string(a.role), a.name, a.persona, a.systemPrompt,
		d.cfg.Agents.DefaultAutonomy)
}

// runner drives tasks through assigned → working → review/complete/failed.
type runner struct {
	*deps
}

// assign creates an assigned task for an agent. input may be nil.
func (r *runner) assign(a *Agent, taskType task.Type, input any, issueID int64, sectionSlug string, priority int) (*store.AgentTask, error) {
	row, err := a.ensure(r.deps)
	if err != nil {
		return nil, err
	}
	return r.store.CreateAgentTask(row.ID, string(taskType), priority,
		task.Marshal(input), issueID, sectionSlug)
}

// execute runs one assigned task to a terminal state. The task moves to
// working first; on success the output payload is recorded and the task
// lands in review (when the review checkpoint is enabled) or complete. On
// error the task is failed with the error on record, and the error is
// returned to the caller.
func (r *runner) execute(ctx context.Context, a *Agent, taskID int64) (any, error) {
	t, err := r.store.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := r.store.UpdateTaskState(taskID, task.StateWorking); err != nil {
		return nil, err
	}

	result, err := r.dispatch(ctx, a, t)
	if err != nil {
		r.logger.Error("task failed", "agent", a.role, "task", t.TaskType, "task_id", taskID, "error", err)
		if serr := r.store.SetTaskOutput(taskID, task.Marshal(task.ErrorResult{Error: err.Error()})); serr != nil {
			return nil, serr
		}
		if serr := r.store.UpdateTaskState(taskID, task.StateFailed); serr != nil {
			return nil, serr
		}
		return nil, err
	}

	if err := r.store.SetTaskOutput(taskID, task.Marshal(result)); err != nil {
		return nil, err
	}
	next := task.StateComplete
	if r.cfg.Agents.ReviewRequired {
		next = task.StateReview
	}
	if err := r.store.UpdateTaskState(taskID, next); err != nil {
		return nil, err
	}
	r.logger.Info("task done", "agent", a.role, "task", t.TaskType, "task_id", taskID, "state", next)
	return result, nil
}

// dispatch looks up the operation for the task's type. An unknown type is a
// caller mistake, not an execution fault: the task succeeds with an error
// payload so the queue never wedges on a typo.
func (r *runner) dispatch(ctx context.Context, a *Agent, t *store.AgentTask) (any, error) {
	op, ok := a.ops[task.Type(t.TaskType)]
	if !ok {
		return task.ErrorResult{Error: fmt.Sprintf("Unknown task type: %s", t.TaskType)}, nil
	}
	return op(ctx, t)
}

// logOutput appends an audit record for a task's output.
func (r *runner) logOutput(t *store.AgentTask, outputType, content string, tokensUsed int) {
	if _, err := r.store.LogOutput(t.ID, t.AgentID, outputType, content, "", tokensUsed); err != nil {
		r.logger.Error("logging output", "task_id", t.ID, "error", err)
	}
}

// generationMeta is the audit metadata stored alongside generated text.
// PromptTokens is a local tokenizer estimate of the prompt; the input and
// output counts are the provider's own usage report.
type generationMeta struct {
	Model        string `json:"model"`
	PromptTokens int    `json:"prompt_tokens"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// logGeneration appends an audit record for one model call.
func (r *runner) logGeneration(t *store.AgentTask, outputType, prompt string, res *generate.Result) {
	meta := generationMeta{
		Model:        res.Model,
		PromptTokens: generate.CountTokens(prompt),
		InputTokens:  res.Usage.InputTokens,
		OutputTokens: res.Usage.OutputTokens,
	}
	if _, err := r.store.LogOutput(t.ID, t.AgentID, outputType, res.Text,
		task.Marshal(meta), res.Usage.OutputTokens); err != nil {
		r.logger.Error("logging output", "task_id", t.ID, "error", err)
	}
}

// firstN truncates s to at most n bytes, for audit columns that only need
// the head of a prompt.
func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
