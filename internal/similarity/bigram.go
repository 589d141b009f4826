// Package similarity provides the fuzzy text comparison used by duplicate
// detection: a Dice coefficient over character bigram multisets.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Correlate returns the Dice coefficient of the bigram multisets of a and b
// after normalization. The result is in [0, 1]; two strings that normalize
// to empty correlate as 1, a single empty side as 0.
func Correlate(a, b string) float64 {
	ga := Bigrams(a)
	gb := Bigrams(b)

	if len(ga) == 0 && len(gb) == 0 {
		return 1.0
	}
	if len(ga) == 0 || len(gb) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(ga))
	for _, g := range ga {
		counts[g]++
	}

	shared := 0
	for _, g := range gb {
		if counts[g] > 0 {
			counts[g]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(ga)+len(gb))
}

// Bigrams returns the overlapping two-rune substrings of the normalized
// form of s. A one-rune string is padded with spaces so it still yields
// bigrams; an empty string yields none.
func Bigrams(s string) []string {
	r := []rune(Normalize(s))
	switch len(r) {
	case 0:
		return nil
	case 1:
		r = []rune{' ', r[0], ' '}
	}

	out := make([]string, 0, len(r)-1)
	for i := 0; i+1 < len(r); i++ {
		out = append(out, string(r[i:i+2]))
	}
	return out
}

// Normalize folds s for comparison: compatibility decomposition with
// combining marks dropped, lower case, and every run of non-alphanumeric
// characters replaced by a single space.
func Normalize(s string) string {
	// Transformers carry state; build them per call so Normalize is safe
	// for concurrent use.
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), cases.Lower(language.Und)),
		s,
	)
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, c := range folded {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(c)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}
