package duplicates

import (
	"testing"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/stretchr/testify/assert"
)

func TestCompareStrictly(t *testing.T) {
	tests := []struct {
		name string
		a, b *bib.Entry
		want float64
	}{
		{
			name: "identical",
			a:    billyBob(bib.TypeArticle).WithField(bib.FieldJournal, "A"),
			b:    billyBob(bib.TypeArticle).WithField(bib.FieldJournal, "A"),
			want: StrictIdentical,
		},
		{
			name: "types are ignored",
			a:    billyBob(bib.TypeArticle),
			b:    billyBob(bib.TypeBook),
			want: StrictIdentical,
		},
		{
			name: "two empty entries",
			a:    bib.NewEntry(bib.TypeMisc),
			b:    bib.NewEntry(bib.TypeMisc),
			want: StrictIdentical,
		},
		{
			name: "one of four fields differs",
			a:    billyBob(bib.TypeArticle).WithField(bib.FieldJournal, "A"),
			b:    billyBob(bib.TypeArticle).WithField(bib.FieldJournal, "B"),
			want: 0.75,
		},
		{
			name: "field present on one side only",
			a:    bib.NewEntry(bib.TypeMisc).WithField(bib.FieldTitle, "x"),
			b:    bib.NewEntry(bib.TypeMisc).WithField(bib.FieldTitle, "x").WithField(bib.FieldYear, ""),
			want: 0.5,
		},
		{
			name: "values compared raw",
			a:    bib.NewEntry(bib.TypeMisc).WithField(bib.FieldTitle, "x"),
			b:    bib.NewEntry(bib.TypeMisc).WithField(bib.FieldTitle, "x "),
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompareStrictly(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, CompareStrictly(tt.b, tt.a), 1e-9)
		})
	}
}
