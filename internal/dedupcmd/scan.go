package dedupcmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/lehigh-university-libraries/bibdedup/internal/dataset"
	"github.com/lehigh-university-libraries/bibdedup/internal/duplicates"
	"github.com/lehigh-university-libraries/bibdedup/internal/results"
	"github.com/spf13/cobra"
)

type scanFlags struct {
	datasetPath string
	sampleSize  int
	concurrency int
	outputDir   string
	format      string
}

// NewScanCmd creates the scan command for finding duplicates in a library
func NewScanCmd(opts *Options) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find every duplicate pair in a library file",
		Long: `Compare every pair of entries in a JSONL or Parquet library and list the
pairs judged to be the same publication.

JSONL files hold one entry object per line. Parquet files hold rows of
{key, type, fields: list<{name, value}>}.`,
		Example: `  # Scan a JSONL export
  bibdedup scan --dataset library.jsonl

  # Scan the first 500 entries of a Parquet file and keep a YAML record
  bibdedup scan --dataset library.parquet --sample 500 --output-dir scans`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(f.format); err != nil {
				return err
			}
			if _, err := os.Stat(f.datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", f.datasetPath)
			}
			return executeScan(cmd, opts, f)
		},
	}

	cmd.Flags().StringVar(&f.datasetPath, "dataset", "", "Path to a JSONL or Parquet library (required)")
	cmd.Flags().IntVar(&f.sampleSize, "sample", -1, "Number of entries to scan (-1 for all)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Rows compared in parallel (0 for one per CPU)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Directory for a YAML record of the scan")
	cmd.Flags().StringVar(&f.format, "format", formatText, "Output format (text, json, csv)")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func executeScan(cmd *cobra.Command, opts *Options, f scanFlags) error {
	e, err := opts.engine()
	if err != nil {
		return err
	}

	entries, err := loadEntries(f.datasetPath, f.sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Scanning library", "dataset", f.datasetPath, "entries", len(entries), "mode", e.mode.String())

	pairs, err := e.checker.FindDuplicates(cmd.Context(), entries, e.mode, duplicates.ScanOptions{Concurrency: f.concurrency})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	slog.Info("Scan complete", "duplicates", len(pairs))

	if err := writePairs(cmd.OutOrStdout(), pairs, f.format); err != nil {
		return err
	}

	if f.outputDir != "" {
		run := results.NewScanRun(results.ScanConfig{
			Mode:         e.mode.String(),
			Threshold:    e.checker.Scorer().Policies().Threshold(),
			PolicySource: e.policySource,
			DatasetPath:  f.datasetPath,
			Entries:      len(entries),
		}, pairs)
		path, err := results.SaveToYAML(f.outputDir, run)
		if err != nil {
			return err
		}
		slog.Info("Scan results saved", "path", path, "run_id", run.Config.RunID)
	}

	return nil
}

func loadEntries(path string, sample int) ([]*bib.Entry, error) {
	loader := dataset.NewLoader(path)
	if sample > 0 {
		return loader.LoadSample(sample)
	}
	return loader.Load()
}
