package duplicates

import (
	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
)

// StrictIdentical is returned by CompareStrictly when every field matches.
// It sits just above 1 so callers can test "score > 1" for identity.
const StrictIdentical = 1.01

// CompareStrictly returns the fraction of fields, over the union of both
// entries' fields, whose raw values are identical. A field present on one
// side only counts as different. Entries that agree on every field,
// including two empty entries, score StrictIdentical. Entry types are
// ignored.
func CompareStrictly(a, b *bib.Entry) float64 {
	union := make(map[bib.Field]struct{})
	for _, f := range a.Fields() {
		union[f] = struct{}{}
	}
	for _, f := range b.Fields() {
		union[f] = struct{}{}
	}

	same := 0
	for f := range union {
		va, okA := a.Field(f)
		vb, okB := b.Field(f)
		if okA == okB && va == vb {
			same++
		}
	}

	if same == len(union) {
		return StrictIdentical
	}
	return float64(same) / float64(len(union))
}
