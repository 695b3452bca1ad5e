package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

const taskCols = `id, agent_id, task_type, state, priority, input_json, output_json,
	COALESCE(issue_id, 0), section_slug, human_override, human_notes, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*AgentTask, error) {
	var t AgentTask
	err := row.Scan(&t.ID, &t.AgentID, &t.TaskType, &t.State, &t.Priority,
		&t.InputJSON, &t.OutputJSON, &t.IssueID, &t.SectionSlug,
		&t.HumanOverride, &t.HumanNotes, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateAgentTask assigns a new task to an agent. When the task names a
// section and an assigned/working task already exists for the same (agent,
// issue, section), the partial unique index fires and ErrTaskInFlight is
// returned instead of a duplicate row.
func (s *Store) CreateAgentTask(agentID int64, taskType string, priority int, inputJSON string, issueID int64, sectionSlug string) (*AgentTask, error) {
	if priority <= 0 {
		priority = task.DefaultPriority
	}
	if inputJSON == "" {
		inputJSON = "{}"
	}
	id, err := s.insertID(
		`INSERT INTO agent_tasks (agent_id, task_type, state, priority, input_json, issue_id, section_slug)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agentID, taskType, task.StateAssigned, priority, inputJSON, nullID(issueID), sectionSlug)
	if err != nil {
		var sqErr sqlite3.Error
		if errors.As(err, &sqErr) && sqErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrTaskInFlight
		}
		return nil, fmt.Errorf("creating %s task: %w", taskType, err)
	}
	return s.GetTask(id)
}

// GetTask fetches one task by ID.
func (s *Store) GetTask(id int64) (*AgentTask, error) {
	return scanTask(s.db.QueryRow(`SELECT `+taskCols+` FROM agent_tasks WHERE id = ?`, id))
}

// UpdateTaskState moves a task along the lifecycle. Illegal transitions are
// rejected before any write.
func (s *Store) UpdateTaskState(id int64, to task.State) error {
	t, err := s.GetTask(id)
	if err != nil {
		return err
	}
	from := task.State(t.State)
	if !task.CanTransition(from, to) {
		return &task.ErrInvalidTransition{From: from, To: to}
	}
	return s.update("agent_tasks", id, map[string]any{"state": string(to)}, true)
}

// SetTaskOutput writes the serialized result payload onto a task.
func (s *Store) SetTaskOutput(id int64, outputJSON string) error {
	if outputJSON == "" {
		outputJSON = "{}"
	}
	return s.update("agent_tasks", id, map[string]any{"output_json": outputJSON}, true)
}

// OverrideTask is the human escape hatch: it forces a task to complete with
// the override flag and the operator's notes, regardless of prior failure.
func (s *Store) OverrideTask(id int64, notes string) error {
	t, err := s.GetTask(id)
	if err != nil {
		return err
	}
	if task.State(t.State) == task.StateComplete {
		return nil
	}
	return s.update("agent_tasks", id, map[string]any{
		"state":          string(task.StateComplete),
		"human_override": 1,
		"human_notes":    notes,
	}, true)
}

// PendingTasksForAgent returns assigned tasks for an agent, highest priority
// first (lower number wins), newest first within a priority.
func (s *Store) PendingTasksForAgent(agentID int64) ([]*AgentTask, error) {
	return s.queryTasks(
		`WHERE agent_id = ? AND state = ? ORDER BY priority ASC, created_at DESC`,
		agentID, task.StateAssigned)
}

// TasksInState returns every task in the given state, oldest first.
func (s *Store) TasksInState(state task.State) ([]*AgentTask, error) {
	return s.queryTasks(`WHERE state = ? ORDER BY created_at ASC`, state)
}

// TasksForIssue returns every task attached to an issue.
func (s *Store) TasksForIssue(issueID int64) ([]*AgentTask, error) {
	return s.queryTasks(`WHERE issue_id = ? ORDER BY priority ASC, id ASC`, issueID)
}

func (s *Store) queryTasks(where string, args ...any) ([]*AgentTask, error) {
	rows, err := s.db.Query(`SELECT `+taskCols+` FROM agent_tasks `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*AgentTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TaskStateCounts returns how many of an agent's tasks sit in each state.
func (s *Store) TaskStateCounts(agentID int64) (map[task.State]int, error) {
	rows, err := s.db.Query(
		`SELECT state, COUNT(*) FROM agent_tasks WHERE agent_id = ? GROUP BY state`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[task.State]int{}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[task.State(state)] = n
	}
	return counts, rows.Err()
}

// LogOutput appends one audit record of agent output.
func (s *Store) LogOutput(taskID, agentID int64, outputType, content, metadataJSON string, tokensUsed int) (int64, error) {
	if metadataJSON == "" {
		metadataJSON = "{}"
	}
	return s.insertID(
		`INSERT INTO agent_output_log (task_id, agent_id, output_type, content, metadata_json, tokens_used)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		taskID, agentID, outputType, content, metadataJSON, tokensUsed)
}

// OutputsForTask returns a task's audit records, oldest first.
func (s *Store) OutputsForTask(taskID int64) ([]*OutputLogEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, agent_id, output_type, content, metadata_json, tokens_used, created_at
		 FROM agent_output_log WHERE task_id = ? ORDER BY id ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*OutputLogEntry
	for rows.Next() {
		var e OutputLogEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.AgentID, &e.OutputType, &e.Content,
			&e.MetadataJSON, &e.TokensUsed, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
