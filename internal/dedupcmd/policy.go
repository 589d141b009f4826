package dedupcmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewPolicyCmd creates the policy command that prints the effective policies
func NewPolicyCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective comparison policies as YAML",
		Long: `Print the policies in effect: the built-in defaults, or the file named by
--policy after validation. The output is a valid policy file and a starting
point for custom tuning.`,
		Example: `  bibdedup policy > policy.yaml
  bibdedup policy --policy policy.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine()
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(e.checker.Scorer().Policies()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
