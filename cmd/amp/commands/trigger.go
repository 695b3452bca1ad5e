package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/task"
)

// newTriggerCmd creates `amp trigger`: one out-of-band assign+execute for a
// single (role, task type) pair.
func newTriggerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger <agent> <task-type>",
		Short: "Run a single agent task outside the production cycle",
		Long: `Trigger one agent to run one task immediately.

Examples:
  amp trigger researcher discover_content
  amp trigger writer write_section --issue 3 --section songcraft
  amp trigger writer rewrite --input '{"draft_id": 12, "feedback": "shorter"}'
  amp trigger sales draft_outreach --input '{"sponsor_id": 4}'`,
		Args: cobra.ExactArgs(2),
		RunE: runTrigger,
	}
	cmd.Flags().Int64("issue", 0, "issue ID to attach the task to")
	cmd.Flags().String("section", "", "section slug to attach the task to")
	cmd.Flags().String("input", "", "JSON input payload for the task")
	return cmd
}

func runTrigger(cmd *cobra.Command, args []string) error {
	role := task.AgentType(args[0])
	if !role.Valid() {
		return fmt.Errorf("unknown agent %q (editor_in_chief, writer, researcher, sales, growth)", args[0])
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	staff, err := newStaff(cmd, cfg, s)
	if err != nil {
		return err
	}

	issueID, _ := cmd.Flags().GetInt64("issue")
	section, _ := cmd.Flags().GetString("section")
	rawInput, _ := cmd.Flags().GetString("input")

	var input any
	if rawInput != "" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(rawInput), &payload); err != nil {
			return fmt.Errorf("parsing --input: %w", err)
		}
		input = payload
	}

	result, err := staff.TriggerAgent(cmd.Context(), role, task.Type(args[1]), input, issueID, section)
	if err != nil {
		return err
	}
	return printJSON(result)
}
