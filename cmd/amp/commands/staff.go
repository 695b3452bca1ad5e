package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStaffCmd creates `amp staff`: the AI staff workload overview.
func newStaffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "staff",
		Short: "Show the AI staff and their task counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			if _, err := staff.EnsureAll(); err != nil {
				return err
			}
			status, err := staff.StaffStatus()
			if err != nil {
				return err
			}

			fmt.Printf("%-18s %-16s %7s %7s %9s %7s %6s\n",
				"AGENT", "ROLE", "ACTIVE", "REVIEW", "COMPLETE", "FAILED", "TOTAL")
			for _, entry := range status {
				fmt.Printf("%-18s %-16s %7d %7d %9d %7d %6d\n",
					entry.Agent.Name, entry.Agent.AgentType,
					entry.Active, entry.InReview, entry.Completed, entry.Failed, entry.Total)
			}
			return nil
		},
	}
}
