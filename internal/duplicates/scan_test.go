package duplicates

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanLibrary() []*bib.Entry {
	return []*bib.Entry{
		simpleArticle().WithCitationKey("a1"),
		unrelatedArticle().WithCitationKey("u1"),
		simpleArticle().WithCitationKey("a2"),
		simpleInBook().WithCitationKey("b1"),
		simpleInBook().WithCitationKey("b2").WithField(bib.FieldChapter, ""),
		simpleInCollection().WithCitationKey("c1"),
	}
}

func TestFindDuplicates(t *testing.T) {
	c := NewChecker(nil)
	entries := scanLibrary()

	for _, n := range []int{0, 1, 4} {
		pairs, err := c.FindDuplicates(context.Background(), entries, bib.ModeBibTeX, ScanOptions{Concurrency: n})
		require.NoError(t, err)
		require.Len(t, pairs, 2)

		assert.Equal(t, 0, pairs[0].Left)
		assert.Equal(t, 2, pairs[0].Right)
		assert.Equal(t, "a1", pairs[0].A.CitationKey)
		assert.Equal(t, "a2", pairs[0].B.CitationKey)
		assert.Equal(t, ReasonScore, pairs[0].Verdict.Reason)

		assert.Equal(t, 3, pairs[1].Left)
		assert.Equal(t, 4, pairs[1].Right)
	}
}

func TestFindDuplicates_Empty(t *testing.T) {
	pairs, err := NewChecker(nil).FindDuplicates(context.Background(), nil, bib.ModeBibTeX, ScanOptions{})
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestFindDuplicates_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pairs, err := NewChecker(nil).FindDuplicates(ctx, scanLibrary(), bib.ModeBibTeX, ScanOptions{Concurrency: 2})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, pairs)
}

func TestContainsDuplicate(t *testing.T) {
	c := NewChecker(nil)
	entries := scanLibrary()

	t.Run("entry itself is skipped", func(t *testing.T) {
		dup, ok := c.ContainsDuplicate(entries, entries[0], bib.ModeBibTeX)
		require.True(t, ok)
		assert.Same(t, entries[2], dup)
	})

	t.Run("outside entry", func(t *testing.T) {
		candidate := simpleInCollection()
		dup, ok := c.ContainsDuplicate(entries, candidate, bib.ModeBibTeX)
		require.True(t, ok)
		assert.Same(t, entries[5], dup)
	})

	t.Run("no duplicate", func(t *testing.T) {
		dup, ok := c.ContainsDuplicate(entries, entries[1], bib.ModeBibTeX)
		assert.False(t, ok)
		assert.Nil(t, dup)
	})
}
