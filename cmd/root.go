package cmd

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/bibdedup/internal/dedupcmd"
	"github.com/lehigh-university-libraries/bibdedup/internal/logging"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	opts := &dedupcmd.Options{}
	var logCloser io.Closer

	cmd := &cobra.Command{
		Use:   "bibdedup",
		Short: "Duplicate detection for bibliographic libraries",
		Long: `Bibdedup decides whether two bibliographic entries describe the same
publication, using shared identifiers (DOI, ISBN, PMID, eprint) and a
type-aware weighted comparison of their fields.

It can compare two entries, scan a whole library for duplicate pairs, and
calibrate the comparison policies against labeled pairs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if err := dedupcmd.ApplyEnv(cmd.Flags()); err != nil {
				return err
			}

			closer, err := logging.Setup(opts.LoggingConfig(), os.Stderr)
			if err != nil {
				return err
			}
			logCloser = closer
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
	}

	opts.BindFlags(cmd.PersistentFlags())

	// Add subcommands
	cmd.AddCommand(dedupcmd.NewCheckCmd(opts))
	cmd.AddCommand(dedupcmd.NewScanCmd(opts))
	cmd.AddCommand(dedupcmd.NewCorrelateCmd())
	cmd.AddCommand(dedupcmd.NewCalibrateCmd(opts))
	cmd.AddCommand(dedupcmd.NewPolicyCmd(opts))

	return cmd
}
