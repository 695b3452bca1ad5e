package commands

import (
	"github.com/spf13/cobra"
)

// newCycleCmd creates `amp cycle`: one full production cycle for an issue.
func newCycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run one production cycle (research → plan → assign → write)",
		Long: `Run the fixed production sequence for an issue. The cycle always
stops at the review checkpoint; approve tasks with "amp review".`,
		RunE: runCycle,
	}
	cmd.Flags().Int64("issue", 0, "issue ID (default: current issue)")
	return cmd
}

func runCycle(cmd *cobra.Command, _ []string) error {
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
	result, err := staff.RunCycle(cmd.Context(), issueID)
	if err != nil {
		return err
	}
	return printJSON(result)
}
