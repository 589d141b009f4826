package dedupcmd

import (
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command for comparing two entries
func NewCheckCmd(opts *Options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check <a.json> <b.json>",
		Short: "Decide whether two entries describe the same publication",
		Long: `Compare two entries, each stored as a JSON object of the form
{"key": "...", "type": "article", "fields": {"title": "...", ...}}.

The report shows the verdict, the weighted score with every rule's
contribution, and the strict field-by-field agreement.`,
		Example: `  # Compare two entries
  bibdedup check a.json b.json

  # Use a custom policy and BibLaTeX identifiers
  bibdedup check --policy policy.yaml --mode biblatex a.json b.json --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			return executeCheck(cmd, opts, args[0], args[1], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "Output format (text, json, csv)")

	return cmd
}

func executeCheck(cmd *cobra.Command, opts *Options, pathA, pathB, format string) error {
	e, err := opts.engine()
	if err != nil {
		return err
	}

	a, err := readEntryFile(pathA)
	if err != nil {
		return err
	}
	b, err := readEntryFile(pathB)
	if err != nil {
		return err
	}

	return writeCheckReport(cmd.OutOrStdout(), newCheckReport(e, a, b), format)
}
