package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/research"
)

// newInitCmd creates `amp init`: database schema, section seed, agent
// roster, and source registry.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the database, sections, agents, and sources",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	seeded, err := s.SeedSections()
	if err != nil {
		return fmt.Errorf("seeding sections: %w", err)
	}
	fmt.Printf("Sections seeded: %d new\n", seeded)

	staff, err := newStaff(cmd, cfg, s)
	if err != nil {
		return err
	}
	roster, err := staff.EnsureAll()
	if err != nil {
		return fmt.Errorf("creating agent roster: %w", err)
	}
	for _, agent := range roster {
		fmt.Printf("Agent ready: %s (%s)\n", agent.Name, agent.AgentType)
	}

	entries, err := config.LoadSources(filepath.Join("config", "sources.yaml"))
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		fetcher := research.NewFetcher(s, newLogger(cmd))
		added, err := fetcher.SyncSources(entries)
		if err != nil {
			return fmt.Errorf("registering sources: %w", err)
		}
		fmt.Printf("Sources registered: %d new of %d configured\n", added, len(entries))
	}

	fmt.Printf("Database ready at %s\n", cfg.DBPath)
	return nil
}
