package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/parquet-go/parquet-go"
)

// WriteEntries stores entries at path in the format implied by its
// extension, so that a Loader can read them back.
func WriteEntries(path string, entries []*bib.Entry) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		rows := make([]EntryRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, RowFor(e))
		}
		if err := parquet.WriteFile(path, rows); err != nil {
			return fmt.Errorf("failed to write parquet file: %w", err)
		}
		return nil
	case ".jsonl", ".json":
		return writeJSONL(path, entries)
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", filepath.Ext(path))
	}
}

// WritePairs stores labeled pairs as Parquet or JSONL.
func WritePairs(path string, pairs []Pair) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		rows := make([]PairRow, 0, len(pairs))
		for _, p := range pairs {
			rows = append(rows, PairRow{Expected: p.Expected, Note: p.Note, A: RowFor(p.A), B: RowFor(p.B)})
		}
		if err := parquet.WriteFile(path, rows); err != nil {
			return fmt.Errorf("failed to write parquet file: %w", err)
		}
		return nil
	case ".jsonl", ".json":
		return writeJSONL(path, pairs)
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", filepath.Ext(path))
	}
}

func writeJSONL[T any](path string, records []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for i, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i+1, err)
		}
	}
	return file.Close()
}
