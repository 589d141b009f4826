package bib

import "strings"

// EntryType tags an entry (article, book, ...). The vocabulary is open:
// unrecognized names are preserved as-is.
type EntryType string

const (
	TypeArticle       EntryType = "article"
	TypeBook          EntryType = "book"
	TypeBooklet       EntryType = "booklet"
	TypeInBook        EntryType = "inbook"
	TypeInCollection  EntryType = "incollection"
	TypeInProceedings EntryType = "inproceedings"
	TypeManual        EntryType = "manual"
	TypeMastersThesis EntryType = "mastersthesis"
	TypeMisc          EntryType = "misc"
	TypePhdThesis     EntryType = "phdthesis"
	TypeProceedings   EntryType = "proceedings"
	TypeTechReport    EntryType = "techreport"
	TypeUnpublished   EntryType = "unpublished"
)

var standardTypes = map[EntryType]struct{}{
	TypeArticle: {}, TypeBook: {}, TypeBooklet: {}, TypeInBook: {},
	TypeInCollection: {}, TypeInProceedings: {}, TypeManual: {},
	TypeMastersThesis: {}, TypeMisc: {}, TypePhdThesis: {},
	TypeProceedings: {}, TypeTechReport: {}, TypeUnpublished: {},
}

// ParseEntryType normalizes a raw type name ("@Article", " InBook").
func ParseEntryType(s string) EntryType {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	return EntryType(strings.ToLower(s))
}

// IsStandard reports whether t is one of the standard BibTeX types.
func (t EntryType) IsStandard() bool {
	_, ok := standardTypes[t]
	return ok
}

func (t EntryType) String() string {
	return string(t)
}
