// Package results writes duplicate scan runs to YAML files.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/bibdedup/internal/duplicates"
	"gopkg.in/yaml.v3"
)

// ScanConfig represents the configuration section of the scan YAML
type ScanConfig struct {
	RunID        string  `yaml:"runid"`
	Mode         string  `yaml:"mode"`
	Threshold    float64 `yaml:"threshold"`
	PolicySource string  `yaml:"policysource"`
	DatasetPath  string  `yaml:"datasetpath"`
	Entries      int     `yaml:"entries"`
	Timestamp    string  `yaml:"timestamp"`
}

// DuplicateResult is one duplicate pair found by a scan.
type DuplicateResult struct {
	Left       int     `yaml:"left"`
	Right      int     `yaml:"right"`
	LeftLabel  string  `yaml:"leftlabel"`
	RightLabel string  `yaml:"rightlabel"`
	Reason     string  `yaml:"reason"`
	Identifier string  `yaml:"identifier,omitempty"`
	Score      float64 `yaml:"score,omitempty"`
}

// ScanRun is the YAML record of one scan
type ScanRun struct {
	Config     ScanConfig        `yaml:"config"`
	Duplicates []DuplicateResult `yaml:"duplicates"`
}

// NewScanRun builds the YAML document for a scan. A missing run id or
// timestamp is filled in.
func NewScanRun(cfg ScanConfig, pairs []duplicates.Pair) ScanRun {
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	run := ScanRun{
		Config:     cfg,
		Duplicates: make([]DuplicateResult, 0, len(pairs)),
	}
	for _, p := range pairs {
		run.Duplicates = append(run.Duplicates, DuplicateResult{
			Left:       p.Left,
			Right:      p.Right,
			LeftLabel:  p.A.Label(),
			RightLabel: p.B.Label(),
			Reason:     string(p.Verdict.Reason),
			Identifier: string(p.Verdict.Identifier),
			Score:      p.Verdict.Score,
		})
	}
	return run
}

// SaveToYAML writes run into dir, creating it if needed, and returns the
// path of the new file.
func SaveToYAML(dir string, run ScanRun) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	runID := run.Config.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	filename := filepath.Join(dir, fmt.Sprintf("scan-%s-%s.yaml", run.Config.Timestamp, runID))

	data, err := yaml.Marshal(&run)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}

// LoadYAML reads a scan file written by SaveToYAML.
func LoadYAML(path string) (ScanRun, error) {
	var run ScanRun
	data, err := os.ReadFile(path)
	if err != nil {
		return run, fmt.Errorf("failed to read results file: %w", err)
	}
	if err := yaml.Unmarshal(data, &run); err != nil {
		return run, fmt.Errorf("failed to parse results file: %w", err)
	}
	return run, nil
}
