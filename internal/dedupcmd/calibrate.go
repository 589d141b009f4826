package dedupcmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/bibdedup/internal/calibration"
	"github.com/lehigh-university-libraries/bibdedup/internal/dataset"
	"github.com/spf13/cobra"
)

// NewCalibrateCmd creates the calibrate command for measuring the checker
// against labeled pairs
func NewCalibrateCmd(opts *Options) *cobra.Command {
	var pairsPath string
	var outputJSON string

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Measure accuracy against labeled entry pairs",
		Long: `Run the duplicate checker over labeled pairs and report the confusion
matrix, precision, recall and mean scores per class.

JSONL pair files hold one {"expected": bool, "note": "...", "a": {...}, "b": {...}}
object per line; Parquet files use the same columns with entry rows.`,
		Example: `  # Check the built-in policies
  bibdedup calibrate --pairs pairs.jsonl

  # Try a candidate policy and keep the full report
  bibdedup calibrate --pairs pairs.parquet --policy candidate.yaml --output-json calibration.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(pairsPath); os.IsNotExist(err) {
				return fmt.Errorf("pairs file not found: %s", pairsPath)
			}
			return executeCalibrate(cmd, opts, pairsPath, outputJSON)
		},
	}

	cmd.Flags().StringVar(&pairsPath, "pairs", "", "Path to a JSONL or Parquet file of labeled pairs (required)")
	cmd.Flags().StringVar(&outputJSON, "output-json", "", "Path to write the full JSON report")

	_ = cmd.MarkFlagRequired("pairs")
	return cmd
}

func executeCalibrate(cmd *cobra.Command, opts *Options, pairsPath, outputJSON string) error {
	e, err := opts.engine()
	if err != nil {
		return err
	}

	pairs, err := dataset.NewLoader(pairsPath).LoadPairs()
	if err != nil {
		return fmt.Errorf("failed to load pairs: %w", err)
	}

	report, err := calibration.Run(cmd.Context(), e.checker, pairs, calibration.Options{
		Mode:         e.mode,
		PolicySource: e.policySource,
		DatasetPath:  pairsPath,
	})
	if err != nil {
		return err
	}

	report.PrintSummary(cmd.OutOrStdout())

	if outputJSON != "" {
		if err := report.SaveToJSON(outputJSON); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nReport saved to: %s\n", outputJSON)
	}
	return nil
}
