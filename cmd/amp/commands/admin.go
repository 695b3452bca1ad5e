package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/security"
)

// newAdminCmd creates the `amp admin` command group: managing the admin
// credential used by review tooling.
func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the admin credential",
	}
	cmd.AddCommand(
		newAdminHashCmd(),
		newAdminCheckCmd(),
	)
	return cmd
}

func newAdminHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Print the bcrypt hash for AMP_ADMIN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := security.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newAdminCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <password>",
		Short: "Verify a password against the configured admin hash",
		Long: `Check a password against AMP_ADMIN_HASH through the same throttled
authenticator the review surface uses. Repeated failures within the
configured window are locked out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := newAuthenticator(cfg).Login("cli", args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

// newAuthenticator wires the configured admin hash and throttling knobs.
func newAuthenticator(cfg *config.AppConfig) *security.Authenticator {
	attempts := security.NewAttemptStore(cfg.Security.MaxAttempts,
		time.Duration(cfg.Security.WindowSeconds)*time.Second)
	return security.NewAuthenticator(cfg.Security.AdminHash, attempts)
}
