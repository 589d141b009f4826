package duplicates

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"golang.org/x/sync/errgroup"
)

// Pair is a duplicate found by FindDuplicates. Left < Right index into the
// scanned slice.
type Pair struct {
	Left    int
	Right   int
	A       *bib.Entry
	B       *bib.Entry
	Verdict Verdict
}

// ScanOptions tunes FindDuplicates.
type ScanOptions struct {
	// Concurrency bounds the number of rows compared in parallel.
	// Zero means GOMAXPROCS.
	Concurrency int
}

// ContainsDuplicate returns the first entry in entries that duplicates e.
// e itself is skipped when it is part of entries.
func (c *Checker) ContainsDuplicate(entries []*bib.Entry, e *bib.Entry, mode bib.Mode) (*bib.Entry, bool) {
	for _, other := range entries {
		if other == e {
			continue
		}
		if c.IsDuplicate(e, other, mode) {
			return other, true
		}
	}
	return nil, false
}

// FindDuplicates compares every unordered pair of entries and returns the
// duplicates ordered by (Left, Right). Rows are compared concurrently; the
// entries must not be modified while the scan runs.
func (c *Checker) FindDuplicates(ctx context.Context, entries []*bib.Entry, mode bib.Mode, opts ScanOptions) ([]Pair, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	rows := make([][]Pair, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range entries {
		g.Go(func() error {
			for j := i + 1; j < len(entries); j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				v := c.Compare(entries[i], entries[j], mode)
				if v.Duplicate {
					rows[i] = append(rows[i], Pair{Left: i, Right: j, A: entries[i], B: entries[j], Verdict: v})
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, row := range rows {
		pairs = append(pairs, row...)
	}

	slog.Debug("Duplicate scan finished",
		"entries", len(entries),
		"comparisons", len(entries)*(len(entries)-1)/2,
		"duplicates", len(pairs),
		"concurrency", limit,
		"elapsed", time.Since(start))

	return pairs, nil
}
