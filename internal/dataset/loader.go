// Package dataset loads bibliographic entries and labeled entry pairs from
// JSONL or Parquet files.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/parquet-go/parquet-go"
)

// Loader reads one dataset file. The format follows the file extension:
// .jsonl/.json for one JSON object per line, .parquet for columnar rows.
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.datasetPath
}

// Load reads every entry in the file.
func (l *Loader) Load() ([]*bib.Entry, error) {
	return l.loadEntries(0)
}

// LoadSample reads at most limit entries. Malformed JSONL lines are skipped.
func (l *Loader) LoadSample(limit int) ([]*bib.Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("sample limit must be positive, got %d", limit)
	}
	return l.loadEntries(limit)
}

// LoadPairs reads labeled pairs. JSONL lines have the shape
// {"expected": bool, "note": "...", "a": {entry}, "b": {entry}}.
func (l *Loader) LoadPairs() ([]Pair, error) {
	format, err := l.format()
	if err != nil {
		return nil, err
	}

	if format == formatParquet {
		rows, err := readParquet[PairRow](l.datasetPath, 0)
		if err != nil {
			return nil, err
		}
		pairs := make([]Pair, 0, len(rows))
		for _, r := range rows {
			pairs = append(pairs, r.pair())
		}
		return pairs, nil
	}

	pairs, err := readJSONL[Pair](l.datasetPath, 0)
	if err != nil {
		return nil, err
	}
	for i, p := range pairs {
		if p.A == nil || p.B == nil {
			return nil, fmt.Errorf("pair %d is missing an entry", i+1)
		}
	}
	return pairs, nil
}

type fileFormat int

const (
	formatJSONL fileFormat = iota
	formatParquet
)

func (l *Loader) format() (fileFormat, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))
	switch ext {
	case ".parquet":
		return formatParquet, nil
	case ".jsonl", ".json":
		return formatJSONL, nil
	default:
		return 0, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func (l *Loader) loadEntries(limit int) ([]*bib.Entry, error) {
	format, err := l.format()
	if err != nil {
		return nil, err
	}

	if format == formatParquet {
		rows, err := readParquet[EntryRow](l.datasetPath, limit)
		if err != nil {
			return nil, err
		}
		entries := make([]*bib.Entry, 0, len(rows))
		for _, r := range rows {
			entries = append(entries, r.Entry())
		}
		return entries, nil
	}

	records, err := readJSONL[bib.Entry](l.datasetPath, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]*bib.Entry, 0, len(records))
	for i := range records {
		entries = append(entries, &records[i])
	}
	return entries, nil
}

// readJSONL decodes one T per non-empty line. With limit == 0 every line
// must parse; otherwise malformed lines are skipped until limit records are
// read.
func readJSONL[T any](path string, limit int) ([]T, error) {
	slog.Debug("Opening JSONL file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []T
	scanner := bufio.NewScanner(file)

	// Entries with long abstracts can exceed the default token size.
	const maxCapacity = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		if limit > 0 && len(records) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			if limit == 0 {
				return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
			}
			slog.Warn("Skipping malformed line", "path", path, "line", lineNum, "err", err)
			continue
		}

		records = append(records, record)

		if lineNum%1000 == 0 {
			slog.Debug("Reading JSONL", "lines_read", lineNum)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(records), "total_lines", lineNum)

	return records, nil
}

// readParquet reads rows of T in batches, stopping after limit rows when
// limit > 0.
func readParquet[T any](path string, limit int) ([]T, error) {
	slog.Debug("Opening Parquet file", "path", path, "limit", limit)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	var records []T
	rows := make([]T, 128)
	batchNum := 0

	for limit == 0 || len(records) < limit {
		n, err := reader.Read(rows)
		if n > 0 {
			batchNum++
			if limit > 0 && n > limit-len(records) {
				n = limit - len(records)
			}
			records = append(records, rows[:n]...)
			slog.Debug("Read batch from Parquet", "batch", batchNum, "rows_in_batch", n, "total_rows_read", len(records))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records), "total_batches", batchNum)

	return records, nil
}
