package dedupcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/lehigh-university-libraries/bibdedup/internal/duplicates"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

func validFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatCSV:
		return nil
	}
	return fmt.Errorf("unsupported output format: %s (supported: text, json, csv)", f)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// verdictLabel renders a verdict for terminals.
func verdictLabel(v duplicates.Verdict) string {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	if !v.Duplicate {
		return red("DISTINCT")
	}
	switch v.Reason {
	case duplicates.ReasonIdentifier:
		return green("DUPLICATE") + gray(" (shared "+string(v.Identifier)+")")
	case duplicates.ReasonSameRecord:
		return green("DUPLICATE") + gray(" (same record)")
	default:
		return green("DUPLICATE")
	}
}

// ruleReport is one line of a score breakdown.
type ruleReport struct {
	Field      string  `json:"field"`
	Kind       string  `json:"kind"`
	Weight     float64 `json:"weight"`
	Similarity float64 `json:"similarity,omitempty"`
	Earned     float64 `json:"earned"`
	Skipped    bool    `json:"skipped,omitempty"`
	Mismatch   bool    `json:"mismatch,omitempty"`
}

// checkReport is the result of comparing two entries.
type checkReport struct {
	Left         string       `json:"left"`
	Right        string       `json:"right"`
	Mode         string       `json:"mode"`
	Duplicate    bool         `json:"duplicate"`
	Reason       string       `json:"reason"`
	Identifier   string       `json:"identifier,omitempty"`
	Score        float64      `json:"score"`
	Threshold    float64      `json:"threshold"`
	TypeMatch    bool         `json:"type_match"`
	HardMismatch string       `json:"hard_mismatch,omitempty"`
	Strict       float64      `json:"strict"`
	Rules        []ruleReport `json:"rules"`

	verdict duplicates.Verdict
}

func newCheckReport(e *engine, a, b *bib.Entry) checkReport {
	v := e.checker.Compare(a, b, e.mode)
	bd := e.checker.Scorer().Explain(a, b)

	r := checkReport{
		Left:         a.Label(),
		Right:        b.Label(),
		Mode:         e.mode.String(),
		Duplicate:    v.Duplicate,
		Reason:       string(v.Reason),
		Identifier:   string(v.Identifier),
		Score:        bd.Score,
		Threshold:    e.checker.Scorer().Policies().Threshold(),
		TypeMatch:    bd.TypeMatch,
		HardMismatch: string(bd.HardMismatch),
		Strict:       duplicates.CompareStrictly(a, b),
		verdict:      v,
	}
	for _, c := range bd.Rules {
		r.Rules = append(r.Rules, ruleReport{
			Field:      string(c.Field),
			Kind:       c.Kind.String(),
			Weight:     c.Weight,
			Similarity: c.Similarity,
			Earned:     c.Earned,
			Skipped:    c.Skipped,
			Mismatch:   c.Mismatch,
		})
	}
	return r
}

func writeCheckReport(w io.Writer, r checkReport, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case formatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{
			"field", "kind", "weight", "similarity", "earned", "skipped", "mismatch",
			"duplicate", "reason", "identifier", "score",
		})
		// Every row repeats the verdict so a single line stands on its own.
		verdict := []string{strconv.FormatBool(r.Duplicate), r.Reason, r.Identifier, formatScore(r.Score)}
		for _, rule := range r.Rules {
			row := []string{
				rule.Field, rule.Kind, formatScore(rule.Weight), formatScore(rule.Similarity),
				formatScore(rule.Earned), strconv.FormatBool(rule.Skipped), strconv.FormatBool(rule.Mismatch),
			}
			_ = cw.Write(append(row, verdict...))
		}
		cw.Flush()
		return cw.Error()
	}

	fmt.Fprintf(w, "%s\n  vs\n%s\n\n", r.Left, r.Right)

	rows := make([][]string, 0, len(r.Rules)+1)
	for _, rule := range r.Rules {
		note := ""
		switch {
		case rule.Skipped:
			note = "skipped"
		case rule.Mismatch:
			note = "mismatch"
		}
		sim := ""
		if rule.Kind == duplicates.KindFuzzyText.String() {
			sim = formatScore(rule.Similarity)
		}
		rows = append(rows, []string{rule.Field, rule.Kind, formatScore(rule.Weight), sim, formatScore(rule.Earned), note})
	}
	typeNote := "types differ"
	if r.TypeMatch {
		typeNote = "types agree"
	}
	rows = append(rows, []string{"(type)", "", "", "", "", typeNote})

	fmt.Fprintln(w, renderTable(
		[]string{"Field", "Kind", "Weight", "Similarity", "Earned", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintln(w)

	if r.HardMismatch != "" {
		fmt.Fprintf(w, "Hard mismatch on %s\n", r.HardMismatch)
	}
	fmt.Fprintf(w, "Score:     %s (threshold %s)\n", formatScore(r.Score), formatScore(r.Threshold))
	fmt.Fprintf(w, "Strict:    %s\n", formatScore(r.Strict))
	fmt.Fprintf(w, "Verdict:   %s\n", verdictLabel(r.verdict))
	return nil
}

// pairReport is one scan result.
type pairReport struct {
	Left       int     `json:"left"`
	Right      int     `json:"right"`
	LeftLabel  string  `json:"left_label"`
	RightLabel string  `json:"right_label"`
	Reason     string  `json:"reason"`
	Identifier string  `json:"identifier,omitempty"`
	Score      float64 `json:"score"`
}

func pairReports(pairs []duplicates.Pair) []pairReport {
	out := make([]pairReport, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, pairReport{
			Left:       p.Left,
			Right:      p.Right,
			LeftLabel:  p.A.Label(),
			RightLabel: p.B.Label(),
			Reason:     string(p.Verdict.Reason),
			Identifier: string(p.Verdict.Identifier),
			Score:      p.Verdict.Score,
		})
	}
	return out
}

func writePairs(w io.Writer, pairs []duplicates.Pair, format string) error {
	reports := pairReports(pairs)

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case formatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"left", "right", "left_label", "right_label", "reason", "identifier", "score"})
		for _, p := range reports {
			_ = cw.Write([]string{
				strconv.Itoa(p.Left), strconv.Itoa(p.Right), p.LeftLabel, p.RightLabel,
				p.Reason, p.Identifier, formatScore(p.Score),
			})
		}
		cw.Flush()
		return cw.Error()
	}

	if len(reports) == 0 {
		fmt.Fprintln(w, color.New(color.FgGreen).Sprint("No duplicates found"))
		return nil
	}

	rows := make([][]string, 0, len(reports))
	for _, p := range reports {
		evidence := formatScore(p.Score)
		if p.Identifier != "" {
			evidence = p.Identifier
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Left), p.LeftLabel,
			strconv.Itoa(p.Right), p.RightLabel,
			p.Reason, evidence,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Entry", "#", "Duplicate of", "Reason", "Evidence"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight},
	))
	fmt.Fprintln(w, color.New(color.FgYellow).Sprintf("%d duplicate pair(s)", len(reports)))
	return nil
}
