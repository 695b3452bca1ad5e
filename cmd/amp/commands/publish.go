package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/delivery"
)

// newPublishCmd creates the `amp publish` command group: pushing assembled
// issues to beehiiv and syncing audience data back.
func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish issues and sync audience data through beehiiv",
	}
	cmd.AddCommand(
		newPublishPushCmd(),
		newPublishSubscribersCmd(),
		newPublishEngagementCmd(),
	)
	return cmd
}

func newPublisher(cmd *cobra.Command) (*delivery.Publisher, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	client := delivery.NewBeehiivClient(cfg.Beehiiv)
	p := delivery.NewPublisher(s, client, cfg, newLogger(cmd))
	return p, func() { s.Close() }, nil
}

func newPublishPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload the latest assembled snapshot of an issue",
		Long: `Push an issue's assembled HTML to beehiiv. Without --send the post
lands as a beehiiv draft for a final look; with --send it is
confirmed for delivery and the issue is marked sent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, closeStore, err := newPublisher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			issueID, _ := cmd.Flags().GetInt64("issue")
			if issueID == 0 {
				return fmt.Errorf("--issue is required")
			}
			send, _ := cmd.Flags().GetBool("send")

			post, err := p.Push(cmd.Context(), issueID, send)
			if err != nil {
				return err
			}
			state := "draft"
			if send {
				state = "sent"
			}
			fmt.Printf("Pushed to beehiiv as %s (post %s)\n", state, post.ID)
			return nil
		},
	}
	cmd.Flags().Int64("issue", 0, "issue ID")
	cmd.Flags().Bool("send", false, "confirm the post for delivery")
	return cmd
}

func newPublishSubscribersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribers",
		Short: "Sync the subscriber list from beehiiv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, closeStore, err := newPublisher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			res, err := p.SyncSubscribers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Synced %d subscribers (%d new, %d total active)\n", res.Synced, res.New, res.Total)
			return nil
		},
	}
}

func newPublishEngagementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engagement",
		Short: "Pull engagement stats for a published issue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, closeStore, err := newPublisher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			issueID, _ := cmd.Flags().GetInt64("issue")
			if issueID == 0 {
				return fmt.Errorf("--issue is required")
			}
			m, err := p.FetchEngagement(cmd.Context(), issueID)
			if err != nil {
				return err
			}
			fmt.Printf("Sends %d | opens %d (%.1f%%) | clicks %d (%.1f%%)\n",
				m.Sends, m.Opens, m.OpenRate*100, m.Clicks, m.ClickRate*100)
			return nil
		},
	}
	cmd.Flags().Int64("issue", 0, "issue ID")
	return cmd
}
