package duplicates

import (
	"testing"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_IdenticalEntries(t *testing.T) {
	s := NewScorer(nil)
	for _, e := range []*bib.Entry{simpleArticle(), simpleInBook(), effectiveJava("2001"), billyBob(bib.TypeMisc)} {
		t.Run(e.Label(), func(t *testing.T) {
			assert.InDelta(t, 1.0, s.Score(e, e.Clone()), 1e-9)
		})
	}
}

func TestScore_Symmetric(t *testing.T) {
	s := NewScorer(nil)
	pairs := [][2]*bib.Entry{
		{simpleArticle(), unrelatedArticle()},
		{simpleArticle(), simpleInBook()},
		{effectiveJava("2001"), effectiveJava("2008").WithField(bib.FieldEdition, "2")},
		{billyBob(bib.TypeArticle), billyBob(bib.TypeBook)},
		{simpleInBook(), simpleInCollection()},
		{billyBob(bib.EntryType("custom")), billyBob(bib.TypeArticle)},
	}
	for _, p := range pairs {
		assert.InDelta(t, s.Score(p[0], p[1]), s.Score(p[1], p[0]), 1e-12, "%s / %s", p[0].Label(), p[1].Label())
	}
}

func TestScore_Penalty(t *testing.T) {
	s := NewScorer(nil)
	a := billyBob(bib.TypeArticle).
		WithField(bib.FieldJournal, "A").
		WithField(bib.FieldNumber, "1").
		WithField(bib.FieldVolume, "21").
		WithField(bib.FieldPages, "334--337")
	b := a.Clone()
	b.SetField(bib.FieldVolume, "22")

	// 2.5 + 6 + 1 + 1.5 + 1 - 1 + 1 + 2 over 2.5 + 6 + 1 + 1.5 + 1 + 1 + 1 + 2
	assert.InDelta(t, 14.0/16.0, s.Score(a, b), 1e-9)
}

func TestScore_TypeCase(t *testing.T) {
	c := NewChecker(nil)
	title := "Pattern Recognition and Machine Learning"

	a := bib.NewEntry(bib.TypeArticle).WithField(bib.FieldTitle, title)
	tests := []struct {
		name string
		b    *bib.Entry
	}{
		{"constructed", bib.NewEntry("Article").WithField(bib.FieldTitle, title)},
		{"assigned", &bib.Entry{Type: "ARTICLE"}},
	}
	tests[1].b.SetField(bib.FieldTitle, title)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Blank year is never earned; blank author and journal compare equal.
			assert.InDelta(t, 12.0/13.0, c.Scorer().Score(a, tt.b), 1e-9)
			assert.True(t, c.Scorer().Explain(a, tt.b).TypeMatch)
			assertVerdict(t, c, true, a, tt.b)
		})
	}
}

func TestExplain(t *testing.T) {
	s := NewScorer(nil)

	t.Run("different types keep the shared baseline", func(t *testing.T) {
		a := bib.NewEntry(bib.TypeArticle).WithField(bib.FieldAuthor, "Billy Bob")
		b := bib.NewEntry(bib.TypeBook).WithField(bib.FieldAuthor, "Billy Bob")

		bd := s.Explain(a, b)
		require.Len(t, bd.Rules, 3)
		assert.Equal(t, bib.FieldAuthor, bd.Rules[0].Field)
		assert.Equal(t, bib.FieldTitle, bd.Rules[1].Field)
		assert.Equal(t, bib.FieldYear, bd.Rules[2].Field)
		assert.False(t, bd.TypeMatch)
		assert.InDelta(t, 8.5, bd.Earned, 1e-9)
		assert.InDelta(t, 11.5, bd.Considered, 1e-9)
		assert.InDelta(t, 8.5/11.5, bd.Score, 1e-9)
		assert.Equal(t, s.Score(a, b), bd.Score)
	})

	t.Run("hard mismatch", func(t *testing.T) {
		a := simpleInBook()
		b := simpleInBook().WithField(bib.FieldChapter, "Chapter Two")

		bd := s.Explain(a, b)
		assert.Equal(t, bib.FieldChapter, bd.HardMismatch)
		assert.Equal(t, 0.0, bd.Score)
		last := bd.Rules[len(bd.Rules)-1]
		assert.True(t, last.Mismatch)
		assert.Equal(t, bib.FieldChapter, last.Field)
	})

	t.Run("skipped optional fields", func(t *testing.T) {
		a := billyBob(bib.TypeArticle).WithField(bib.FieldNumber, "1")
		b := billyBob(bib.TypeArticle)

		bd := s.Explain(a, b)
		for _, c := range bd.Rules {
			if c.Kind == KindOptionalExact {
				assert.True(t, c.Skipped, c.Field)
				assert.Zero(t, c.Earned)
			}
		}
		assert.True(t, bd.TypeMatch)
	})
}

func TestScore_YearFromDate(t *testing.T) {
	s := NewScorer(nil)
	a := effectiveJava("2008-05-28")
	b := effectiveJava("").WithField(bib.FieldYear, "2008")

	bd := s.Explain(a, b)
	for _, c := range bd.Rules {
		if c.Field == bib.FieldYear {
			assert.Equal(t, 1.0, c.Earned)
		}
	}
	assert.InDelta(t, 1.0, bd.Score, 1e-9)
}

func TestComparableValue(t *testing.T) {
	tests := []struct {
		name  string
		field bib.Field
		value string
		want  string
	}{
		{"absent", bib.FieldTitle, "", ""},
		{"blank", bib.FieldTitle, "   ", ""},
		{"author separators", bib.FieldAuthor, "Sutton, Richard S and Barto, Andrew G", "Sutton, Richard S Barto, Andrew G"},
		{"editor separators are case insensitive", bib.FieldEditor, "Doe AND Roe", "Doe Roe"},
		{"journal dots", bib.FieldJournal, "J. Chem. Phys.", "J Chem Phys"},
		{"page range dashes", bib.FieldPages, "334 -- 337", "334-337"},
		{"page range en dash", bib.FieldPages, "334–337", "334-337"},
		{"chapter word", bib.FieldChapter, "Chapter 9", "9"},
		{"plain field is trimmed", bib.FieldPublisher, "  MIT Press ", "MIT Press"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := bib.NewEntry(bib.TypeMisc)
			if tt.value != "" {
				e.SetField(tt.field, tt.value)
			}
			assert.Equal(t, tt.want, comparableValue(e, tt.field))
		})
	}

	t.Run("year falls back to date", func(t *testing.T) {
		e := bib.NewEntry(bib.TypeMisc).WithField(bib.FieldDate, "1998-03")
		assert.Equal(t, "1998", comparableValue(e, bib.FieldYear))
	})

	t.Run("year wins over date", func(t *testing.T) {
		e := bib.NewEntry(bib.TypeMisc).
			WithField(bib.FieldYear, "2001").
			WithField(bib.FieldDate, "1998-03")
		assert.Equal(t, "2001", comparableValue(e, bib.FieldYear))
	})
}

func TestCorrelateByWords(t *testing.T) {
	assert.Equal(t, 1.0, CorrelateByWords("A title", "a title"))
	assert.InDelta(t, 10.0/18.0, CorrelateByWords("A title", "Another title"), 1e-9)
}
