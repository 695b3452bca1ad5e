package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

// newIssueCmd creates the `amp issue` command group.
func newIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage newsletter issues",
	}
	cmd.AddCommand(
		newIssueNewCmd(),
		newIssueListCmd(),
		newIssueApproveCmd(),
	)
	return cmd
}

func newIssueNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Open the next issue in planning status",
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

			title, _ := cmd.Flags().GetString("title")
			publishDate, _ := cmd.Flags().GetString("date")

			n, err := s.NextIssueNumber()
			if err != nil {
				return err
			}
			sendDay := ""
			if len(cfg.Schedule.SendDays) > 0 {
				sendDay = cfg.Schedule.SendDays[0]
			}
			issue, err := s.CreateIssue(n, title, publishDate, "", sendDay)
			if err != nil {
				return err
			}
			fmt.Printf("Issue #%d created (id %d, status %s)\n", issue.IssueNumber, issue.ID, issue.Status)
			return nil
		},
	}
	cmd.Flags().String("title", "", "issue title/theme")
	cmd.Flags().String("date", "", "planned publish date (YYYY-MM-DD)")
	return cmd
}

func newIssueListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recent issues",
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

			issues, err := s.ListIssues(20)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Println("No issues yet. Run `amp issue new`.")
				return nil
			}
			for _, is := range issues {
				title := is.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("#%-4d %-12s %s\n", is.IssueNumber, is.Status, title)
			}
			return nil
		},
	}
}

func newIssueApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve the latest drafts of an issue and mark it approved",
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

			issue, err := resolveIssue(cmd, s)
			if err != nil {
				return err
			}
			n, err := s.ApproveLatestDrafts(issue.ID)
			if err != nil {
				return err
			}
			if err := s.UpdateIssueStatus(issue.ID, store.IssueApproved); err != nil {
				return err
			}
			fmt.Printf("Issue #%d approved (%d drafts)\n", issue.IssueNumber, n)
			return nil
		},
	}
	cmd.Flags().Int64("issue", 0, "issue ID (default: current issue)")
	return cmd
}

// resolveIssue returns the issue named by --issue, or the current issue.
func resolveIssue(cmd *cobra.Command, s *store.Store) (*store.Issue, error) {
	id, _ := cmd.Flags().GetInt64("issue")
	if id > 0 {
		return s.GetIssue(id)
	}
	return s.CurrentIssue()
}
