package bib

import (
	"fmt"
	"strings"
)

// Mode is the record format a library is kept in. It changes which
// identifier fields are recognized.
type Mode int

const (
	ModeBibTeX Mode = iota
	ModeBibLaTeX
)

// ParseMode parses "bibtex" or "biblatex" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bibtex":
		return ModeBibTeX, nil
	case "biblatex":
		return ModeBibLaTeX, nil
	default:
		return ModeBibTeX, fmt.Errorf("unsupported mode: %s (supported: bibtex, biblatex)", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeBibLaTeX:
		return "biblatex"
	default:
		return "bibtex"
	}
}

// IdentifierFields returns the fields whose exact equality alone marks two
// entries as the same publication.
func (m Mode) IdentifierFields() []Field {
	ids := []Field{FieldDOI, FieldISBN, FieldPMID, FieldEprint}
	if m == ModeBibLaTeX {
		ids = append(ids, FieldISRN)
	}
	return ids
}
