package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/research"
)

// newResearchCmd creates the `amp research` command group.
func newResearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Fetch and score content from registered sources",
	}
	cmd.AddCommand(
		newResearchFetchCmd(),
		newResearchScoreCmd(),
	)
	return cmd
}

func newFetcher(cmd *cobra.Command) (*research.Fetcher, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return research.NewFetcher(s, newLogger(cmd)), func() { s.Close() }, nil
}

func newResearchFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Pull new items from every active source, then score them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher, closeStore, err := newFetcher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := config.LoadSources(filepath.Join("config", "sources.yaml"))
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				if _, err := fetcher.SyncSources(entries); err != nil {
					return err
				}
			}

			results, err := fetcher.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			total := 0
			for name, n := range results {
				fmt.Printf("%-30s %d new\n", name, n)
				total += n
			}
			fmt.Printf("Fetched %d new items from %d sources\n", total, len(results))

			scored, err := fetcher.ScorePending()
			if err != nil {
				return err
			}
			fmt.Printf("Scored %d items\n", scored)

			if fullText, _ := cmd.Flags().GetBool("full-text"); fullText {
				enriched, err := fetcher.EnrichFullText(cmd.Context(), 0)
				if err != nil {
					return err
				}
				fmt.Printf("Fetched full text for %d items\n", enriched)
			}
			return nil
		},
	}
	cmd.Flags().Bool("full-text", false, "scrape article bodies for items that only have listing metadata")
	return cmd
}

func newResearchScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Relevance-score items that have not been scored yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher, closeStore, err := newFetcher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			scored, err := fetcher.ScorePending()
			if err != nil {
				return err
			}
			fmt.Printf("Scored %d items\n", scored)
			return nil
		},
	}
}
