package store

import (
	"database/sql"
	"errors"
)

const agentCols = `id, agent_type, name, persona, system_prompt, autonomy_level, config_json, is_active, created_at`

func scanAgent(row interface{ Scan(...any) error }) (*Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.AgentType, &a.Name, &a.Persona, &a.SystemPrompt,
		&a.AutonomyLevel, &a.ConfigJSON, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// EnsureAgent returns the active agent record of the given type, creating it
// with the supplied identity on first use.
func (s *Store) EnsureAgent(agentType, name, persona, systemPrompt, autonomy string) (*Agent, error) {
	a, err := s.ActiveAgentByType(agentType)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	id, err := s.insertID(
		`INSERT INTO ai_agents (agent_type, name, persona, system_prompt, autonomy_level)
		 VALUES (?, ?, ?, ?, ?)`,
		agentType, name, persona, systemPrompt, autonomy)
	if err != nil {
		return nil, err
	}
	return s.GetAgent(id)
}

// GetAgent fetches one agent by ID.
func (s *Store) GetAgent(id int64) (*Agent, error) {
	return scanAgent(s.db.QueryRow(`SELECT `+agentCols+` FROM ai_agents WHERE id = ?`, id))
}

// ActiveAgentByType fetches the active agent of a role.
func (s *Store) ActiveAgentByType(agentType string) (*Agent, error) {
	return scanAgent(s.db.QueryRow(
		`SELECT `+agentCols+` FROM ai_agents
		 WHERE agent_type = ? AND is_active = 1 ORDER BY id ASC LIMIT 1`, agentType))
}

// ListAgents returns every agent record.
func (s *Store) ListAgents() ([]*Agent, error) {
	rows, err := s.db.Query(`SELECT ` + agentCols + ` FROM ai_agents ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetAgentActive enables or disables an agent record.
func (s *Store) SetAgentActive(id int64, active bool) error {
	return s.update("ai_agents", id, map[string]any{"is_active": boolInt(active)}, false)
}
