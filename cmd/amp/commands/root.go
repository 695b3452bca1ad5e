// Package commands wires the amp CLI: newsletter production driven from the
// terminal. Each subcommand lives in its own file and is registered on the
// root command here.
package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/agents"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/generate"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/store"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amp",
		Short: "TrueFans AMP Magazine — AI-staffed newsletter production",
		Long: `amp runs the TrueFans AMP Magazine newsletter: an AI staff
(researcher, editor, writers, sales, growth) produces each issue,
humans review at the checkpoint, and the assembled issue ships
through beehiiv.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "path to config YAML (default config/default.yaml)")
	cmd.PersistentFlags().Bool("verbose", false, "debug logging")

	cmd.AddCommand(
		newAdminCmd(),
		newInitCmd(),
		newIssueCmd(),
		newCycleCmd(),
		newTriggerCmd(),
		newReviewCmd(),
		newAssembleCmd(),
		newPublishCmd(),
		newResearchCmd(),
		newStaffCmd(),
		newServeCmd(),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	// .env before config so env overrides see it. A missing file is fine.
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

// loadConfig resolves the app configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.Load(path)
}

// newLogger builds the process logger honoring --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the SQLite store at the configured path.
func openStore(cfg *config.AppConfig) (*store.Store, error) {
	return store.Open(cfg.DBPath)
}

// newStaff assembles the agent staff for a command invocation.
func newStaff(cmd *cobra.Command, cfg *config.AppConfig, s *store.Store) (*agents.Staff, error) {
	gen, err := generate.New(cfg.AI)
	if err != nil {
		return nil, err
	}
	return agents.NewStaff(s, cfg, gen, newLogger(cmd)), nil
}

// printJSON renders a result as indented JSON on stdout.
func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
