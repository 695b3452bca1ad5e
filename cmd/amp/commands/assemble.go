package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/assembly"
)

// newAssembleCmd creates `amp assemble`: render an issue's approved drafts
// into the final HTML + plain text snapshot.
func newAssembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble an issue's approved drafts into HTML",
		RunE:  runAssemble,
	}
	cmd.Flags().Int64("issue", 0, "issue ID (default: current issue)")
	cmd.Flags().String("out", "", "also write the HTML to a file")
	return cmd
}

func runAssemble(cmd *cobra.Command, _ []string) error {
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

	assembler := assembly.NewAssembler(s, cfg)
	out, snapID, err := assembler.AssembleAndSave(issue.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Issue #%d assembled: %d sections, snapshot %d\n", issue.IssueNumber, out.Sections, snapID)

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := os.WriteFile(path, []byte(out.HTML), 0o644); err != nil {
			return err
		}
		fmt.Printf("HTML written to %s\n", path)
	}
	return nil
}
