// Package duplicates decides whether two bibliographic entries describe the
// same publication.
//
// A pair is a duplicate when it shares a non-empty identifier (DOI, ISBN,
// PMID, eprint; plus ISRN in BibLaTeX mode) or when its weighted field
// score reaches the policy threshold. Scoring is type-aware: the rule table
// for the pair's entry type decides which fields count and how missing
// values are treated.
package duplicates

import (
	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
)

// Reason explains how a verdict was reached.
type Reason string

const (
	ReasonSameRecord Reason = "same-record"
	ReasonIdentifier Reason = "identifier"
	ReasonScore      Reason = "score"
)

// Verdict is the outcome of comparing two entries.
type Verdict struct {
	Duplicate bool
	Reason    Reason
	// Identifier is the field that matched when Reason is ReasonIdentifier.
	Identifier bib.Field
	// Score is only computed when Reason is ReasonScore.
	Score float64
}

// Checker applies identifier shortcuts and score thresholds. It is
// stateless and safe for concurrent use.
type Checker struct {
	scorer *Scorer
}

// NewChecker creates a checker. A nil policy table selects the defaults.
func NewChecker(p *Policies) *Checker {
	return &Checker{scorer: NewScorer(p)}
}

// Scorer returns the underlying scorer.
func (c *Checker) Scorer() *Scorer {
	return c.scorer
}

// IsDuplicate reports whether a and b represent the same publication.
func (c *Checker) IsDuplicate(a, b *bib.Entry, mode bib.Mode) bool {
	return c.Compare(a, b, mode).Duplicate
}

// Compare returns the verdict for a and b along with its evidence.
func (c *Checker) Compare(a, b *bib.Entry, mode bib.Mode) Verdict {
	if a == b {
		return Verdict{Duplicate: true, Reason: ReasonSameRecord}
	}
	if f, ok := SharedIdentifier(a, b, mode); ok {
		return Verdict{Duplicate: true, Reason: ReasonIdentifier, Identifier: f}
	}

	score := c.scorer.Score(a, b)
	return Verdict{
		Duplicate: score >= c.scorer.policies.threshold,
		Reason:    ReasonScore,
		Score:     score,
	}
}

// SharedIdentifier returns the first identifier field holding the same
// non-empty value on both entries. Values are compared after trimming and
// are otherwise case- and character-exact.
func SharedIdentifier(a, b *bib.Entry, mode bib.Mode) (bib.Field, bool) {
	for _, f := range mode.IdentifierFields() {
		va := a.Text(f)
		if va != "" && va == b.Text(f) {
			return f, true
		}
	}
	return "", false
}
