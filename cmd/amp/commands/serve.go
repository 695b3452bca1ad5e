package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/scheduler"
)

// newServeCmd creates `amp serve`: the long-running cycle scheduler. On each
// configured send day it opens the next issue if needed and runs one
// production cycle, leaving the result at the review checkpoint.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the send-day scheduler",
		Long: `Run as a daemon that fires one production cycle on each configured
send day. The cycle never publishes on its own — assembled output
still waits for "amp review" and "amp publish push".`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := newLogger(cmd)
	staff, err := newStaff(cmd, cfg, s)
	if err != nil {
		return err
	}

	sched := scheduler.New(cfg.Schedule, func(day string) {
		ctx := cmd.Context()
		issue, err := s.CurrentIssue()
		if err != nil {
			n, err := s.NextIssueNumber()
			if err != nil {
				logger.Error("resolving issue number", "error", err)
				return
			}
			issue, err = s.CreateIssue(n, "", "", "", day)
			if err != nil {
				logger.Error("opening issue", "error", err)
				return
			}
			logger.Info("opened issue", "issue", issue.IssueNumber)
		}

		result, err := staff.RunCycle(ctx, issue.ID)
		if err != nil {
			logger.Error("cycle failed", "issue", issue.IssueNumber, "error", err)
			return
		}
		logger.Info("cycle finished", "issue", issue.IssueNumber,
			"pending_reviews", result.PendingReviews)
	}, logger)

	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	fmt.Printf("Scheduler running (send days: %v). Ctrl-C to stop.\n", cfg.Schedule.SendDays)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down.")
	return nil
}
