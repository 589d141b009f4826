// Package calibration measures a duplicate checker against labeled pairs.
package calibration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/lehigh-university-libraries/bibdedup/internal/dataset"
	"github.com/lehigh-university-libraries/bibdedup/internal/duplicates"
)

// Outcome is the checker's verdict on one labeled pair.
type Outcome struct {
	Index      int     `json:"index"`
	Left       string  `json:"left"`
	Right      string  `json:"right"`
	Note       string  `json:"note,omitempty"`
	Expected   bool    `json:"expected"`
	Predicted  bool    `json:"predicted"`
	Reason     string  `json:"reason"`
	Identifier string  `json:"identifier,omitempty"`
	Score      float64 `json:"score"`
}

// Correct reports whether the prediction matches the label.
func (o Outcome) Correct() bool {
	return o.Expected == o.Predicted
}

// Report aggregates outcomes into a confusion matrix.
type Report struct {
	Date         time.Time `json:"date"`
	Mode         string    `json:"mode"`
	Threshold    float64   `json:"threshold"`
	PolicySource string    `json:"policy_source"`
	DatasetPath  string    `json:"dataset_path"`

	Total          int `json:"total"`
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
	// IdentifierMatches counts verdicts settled by a shared identifier.
	IdentifierMatches int `json:"identifier_matches"`

	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	// Mean scores only cover pairs decided by score.
	MeanScoreDuplicates float64 `json:"mean_score_duplicates"`
	MeanScoreDistinct   float64 `json:"mean_score_distinct"`

	Duration time.Duration `json:"duration"`
	Outcomes []Outcome     `json:"outcomes"`
}

// Options describes the run for the report header.
type Options struct {
	Mode         bib.Mode
	PolicySource string
	DatasetPath  string
}

// Run checks every pair and aggregates the outcomes.
func Run(ctx context.Context, checker *duplicates.Checker, pairs []dataset.Pair, opts Options) (*Report, error) {
	slog.Info("Starting calibration run", "pairs", len(pairs), "mode", opts.Mode.String())

	start := time.Now()
	outcomes := make([]Outcome, 0, len(pairs))
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("calibration interrupted after %d pairs: %w", i, err)
		}

		v := checker.Compare(p.A, p.B, opts.Mode)
		outcomes = append(outcomes, Outcome{
			Index:      i + 1,
			Left:       p.A.Label(),
			Right:      p.B.Label(),
			Note:       p.Note,
			Expected:   p.Expected,
			Predicted:  v.Duplicate,
			Reason:     string(v.Reason),
			Identifier: string(v.Identifier),
			Score:      v.Score,
		})

		if (i+1)%1000 == 0 {
			slog.Debug("Calibration progress", "pairs_checked", i+1)
		}
	}

	r := Aggregate(outcomes)
	r.Mode = opts.Mode.String()
	r.Threshold = checker.Scorer().Policies().Threshold()
	r.PolicySource = opts.PolicySource
	r.DatasetPath = opts.DatasetPath
	r.Duration = time.Since(start)

	slog.Info("Calibration finished", "accuracy", r.Accuracy, "precision", r.Precision, "recall", r.Recall)
	return r, nil
}

// Aggregate builds a report from outcomes.
func Aggregate(outcomes []Outcome) *Report {
	r := &Report{
		Date:     time.Now(),
		Total:    len(outcomes),
		Outcomes: outcomes,
	}

	var dupScores, distinctScores []float64
	for _, o := range outcomes {
		switch {
		case o.Expected && o.Predicted:
			r.TruePositives++
		case !o.Expected && o.Predicted:
			r.FalsePositives++
		case !o.Expected && !o.Predicted:
			r.TrueNegatives++
		default:
			r.FalseNegatives++
		}

		switch o.Reason {
		case string(duplicates.ReasonIdentifier):
			r.IdentifierMatches++
		case string(duplicates.ReasonScore):
			if o.Expected {
				dupScores = append(dupScores, o.Score)
			} else {
				distinctScores = append(distinctScores, o.Score)
			}
		}
	}

	r.Accuracy = ratio(r.TruePositives+r.TrueNegatives, r.Total)
	r.Precision = ratio(r.TruePositives, r.TruePositives+r.FalsePositives)
	r.Recall = ratio(r.TruePositives, r.TruePositives+r.FalseNegatives)
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	r.MeanScoreDuplicates = calculateAverage(dupScores)
	r.MeanScoreDistinct = calculateAverage(distinctScores)

	return r
}

// Misclassified returns the outcomes whose prediction disagrees with the
// label.
func (r *Report) Misclassified() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Correct() {
			out = append(out, o)
		}
	}
	return out
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0.0
	}
	return float64(n) / float64(d)
}

// calculateAverage calculates the average of a slice of scores
func calculateAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, score := range scores {
		sum += score
	}

	return sum / float64(len(scores))
}

// PrintSummary writes a human-readable summary of the run to w.
func (r *Report) PrintSummary(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(w, "DUPLICATE DETECTION CALIBRATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Run Date: %s\n", r.Date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Mode: %s\n", r.Mode)
	fmt.Fprintf(w, "Threshold: %.3f\n", r.Threshold)
	if r.PolicySource != "" {
		fmt.Fprintf(w, "Policy: %s\n", r.PolicySource)
	}
	if r.DatasetPath != "" {
		fmt.Fprintf(w, "Dataset: %s\n", r.DatasetPath)
	}
	fmt.Fprintf(w, "Pairs: %d\n", r.Total)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CONFUSION MATRIX")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "True Positives:  %d\n", r.TruePositives)
	fmt.Fprintf(w, "False Positives: %d\n", r.FalsePositives)
	fmt.Fprintf(w, "True Negatives:  %d\n", r.TrueNegatives)
	fmt.Fprintf(w, "False Negatives: %d\n", r.FalseNegatives)
	fmt.Fprintf(w, "Identifier Matches: %d\n", r.IdentifierMatches)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SCORES")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Accuracy:  %.2f%% (%.3f)\n", r.Accuracy*100, r.Accuracy)
	fmt.Fprintf(w, "Precision: %.2f%% (%.3f)\n", r.Precision*100, r.Precision)
	fmt.Fprintf(w, "Recall:    %.2f%% (%.3f)\n", r.Recall*100, r.Recall)
	fmt.Fprintf(w, "F1:        %.3f\n", r.F1)
	fmt.Fprintf(w, "Mean score (duplicates): %.3f\n", r.MeanScoreDuplicates)
	fmt.Fprintf(w, "Mean score (distinct):   %.3f\n", r.MeanScoreDistinct)

	if missed := r.Misclassified(); len(missed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "MISCLASSIFIED PAIRS")
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for _, o := range missed {
			fmt.Fprintf(w, "#%d %s / %s expected=%t score=%.3f %s\n", o.Index, o.Left, o.Right, o.Expected, o.Score, o.Note)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

// SaveToJSON saves the report to a JSON file
func (r *Report) SaveToJSON(filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode results to JSON: %w", err)
	}

	return nil
}
