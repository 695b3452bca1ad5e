package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// newReviewCmd creates the `amp review` command group: the human checkpoint
// over agent work.
func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review the tasks waiting at the human checkpoint",
	}
	cmd.AddCommand(
		newReviewListCmd(),
		newReviewApproveCmd(),
		newReviewRejectCmd(),
		newReviewOverrideCmd(),
	)
	return cmd
}

func newReviewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks awaiting review",
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
			pending, err := staff.PendingReviews()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("Nothing waiting for review.")
				return nil
			}
			for _, t := range pending {
				scope := ""
				if t.IssueID != 0 {
					scope = fmt.Sprintf(" issue=%d", t.IssueID)
				}
				if t.SectionSlug != "" {
					scope += " section=" + t.SectionSlug
				}
				fmt.Printf("task %-5d %-20s%s\n", t.ID, t.TaskType, scope)
			}
			return nil
		},
	}
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}

func newReviewApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <task-id>",
		Short: "Approve a reviewed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewAction(cmd, args[0], "approved", func(staffAction staffActions, id int64) error {
				return staffAction.ApproveTask(id)
			})
		},
	}
}

func newReviewRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <task-id>",
		Short: "Reject a reviewed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewAction(cmd, args[0], "rejected", func(staffAction staffActions, id int64) error {
				return staffAction.RejectTask(id)
			})
		},
	}
}

func newReviewOverrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override <task-id>",
		Short: "Force a failed task to complete with operator notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, _ := cmd.Flags().GetString("notes")
			return reviewAction(cmd, args[0], "overridden", func(staffAction staffActions, id int64) error {
				return staffAction.OverrideTask(id, notes)
			})
		},
	}
	cmd.Flags().String("notes", "", "why the override is safe")
	return cmd
}

// staffActions is the slice of Staff used by the review commands.
type staffActions interface {
	ApproveTask(id int64) error
	RejectTask(id int64) error
	OverrideTask(id int64, notes string) error
}

func reviewAction(cmd *cobra.Command, arg, verb string, action func(staffActions, int64) error) error {
	id, err := parseTaskID(arg)
	if err != nil {
		return err
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
	if err := action(staff, id); err != nil {
		return err
	}
	fmt.Printf("Task %d %s\n", id, verb)
	return nil
}
