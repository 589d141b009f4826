package duplicates

import (
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"github.com/lehigh-university-libraries/bibdedup/internal/similarity"
)

var (
	nameSeparator = regexp.MustCompile(`(?i)\s+and\s+`)
	pageDashes    = regexp.MustCompile(`[-\x{2013}\x{2014} ]+`)
	chapterWord   = regexp.MustCompile(`(?i)chapter`)
	leadingYear   = regexp.MustCompile(`^\s*(\d{4})`)
)

// Contribution records how one rule affected a score.
type Contribution struct {
	Field  bib.Field
	Kind   Kind
	Weight float64
	// Earned is the amount added to the numerator; negative for an
	// optional-exact mismatch.
	Earned float64
	// Similarity is the bigram correlation for fuzzy-text rules.
	Similarity float64
	Skipped    bool
	Mismatch   bool
}

// Breakdown is the full evidence behind a score.
type Breakdown struct {
	Rules      []Contribution
	TypeMatch  bool
	Earned     float64
	Considered float64
	// HardMismatch names the field that forced the score to zero, if any.
	HardMismatch bib.Field
	Score        float64
}

// Scorer computes similarity scores for entry pairs. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	policies *Policies
}

// NewScorer creates a scorer. A nil policy table selects the defaults.
func NewScorer(p *Policies) *Scorer {
	if p == nil {
		p = DefaultPolicies()
	}
	return &Scorer{policies: p}
}

// Policies returns the table the scorer was built with.
func (s *Scorer) Policies() *Policies {
	return s.policies
}

// Score returns the weighted similarity of a and b. Identical entries score
// 1; a hard chapter or pages mismatch scores 0; penalties can push
// unrelated pairs below 0.
func (s *Scorer) Score(a, b *bib.Entry) float64 {
	return s.score(a, b, nil)
}

// Explain returns the score together with every rule's contribution.
func (s *Scorer) Explain(a, b *bib.Entry) Breakdown {
	var bd Breakdown
	bd.Score = s.score(a, b, &bd)
	return bd
}

func (s *Scorer) score(a, b *bib.Entry, bd *Breakdown) float64 {
	// Type may have been assigned directly, bypassing NewEntry.
	ta, tb := bib.ParseEntryType(string(a.Type)), bib.ParseEntryType(string(b.Type))
	rules := s.policies.Resolve(ta, tb)

	var earned, considered float64
	for _, r := range rules {
		va := comparableValue(a, r.Field)
		vb := comparableValue(b, r.Field)
		c := Contribution{Field: r.Field, Kind: r.Kind, Weight: r.Weight}

		switch r.Kind {
		case KindFuzzyText:
			c.Similarity = similarity.Correlate(va, vb)
			c.Earned = r.Weight * c.Similarity
		case KindExact:
			if va != "" && va == vb {
				c.Earned = r.Weight
			} else {
				c.Mismatch = va != "" && vb != ""
			}
		case KindOptionalExact:
			if va == "" || vb == "" {
				c.Skipped = true
				break
			}
			if va == vb {
				c.Earned = r.Weight
				break
			}
			c.Mismatch = true
			if r.Hard {
				if bd != nil {
					bd.Rules = append(bd.Rules, c)
					bd.HardMismatch = r.Field
				}
				return 0.0
			}
			c.Earned = -r.Penalty * r.Weight
		}

		if !c.Skipped {
			earned += c.Earned
			considered += r.Weight
		}
		if bd != nil {
			bd.Rules = append(bd.Rules, c)
		}
	}

	typeMatch := ta == tb
	considered += s.policies.typeWeight
	if typeMatch {
		earned += s.policies.typeWeight
	}

	if bd != nil {
		bd.TypeMatch = typeMatch
		bd.Earned = earned
		bd.Considered = considered
	}

	if considered == 0 {
		return 0.0
	}
	return earned / considered
}

// comparableValue returns the prepared value of f, "" when absent or blank.
func comparableValue(e *bib.Entry, f bib.Field) string {
	v := e.Text(f)
	if v == "" && f == bib.FieldYear {
		if m := leadingYear.FindStringSubmatch(e.Text(bib.FieldDate)); m != nil {
			v = m[1]
		}
	}
	if v == "" {
		return ""
	}

	switch f {
	case bib.FieldAuthor, bib.FieldEditor:
		v = nameSeparator.ReplaceAllString(v, " ")
	case bib.FieldJournal:
		v = strings.ReplaceAll(v, ".", "")
	case bib.FieldPages:
		v = pageDashes.ReplaceAllString(v, "-")
	case bib.FieldChapter:
		v = chapterWord.ReplaceAllString(v, "")
	}
	return strings.TrimSpace(v)
}

// CorrelateByWords is the historical name of the text similarity used for
// fuzzy-text rules. Despite the name it compares character bigrams, not
// words; see similarity.Correlate.
func CorrelateByWords(a, b string) float64 {
	return similarity.Correlate(a, b)
}
