package bib

import "strings"

// Field names a bibliographic field. Standard fields are declared below;
// any other key is kept verbatim (lower-cased) so entries from custom
// styles still round-trip.
type Field string

// Standard fields
const (
	FieldAddress   Field = "address"
	FieldAuthor    Field = "author"
	FieldBookTitle Field = "booktitle"
	FieldChapter   Field = "chapter"
	FieldComment   Field = "comment"
	FieldDate      Field = "date"
	FieldDOI       Field = "doi"
	FieldEdition   Field = "edition"
	FieldEditor    Field = "editor"
	FieldEprint    Field = "eprint"
	FieldISBN      Field = "isbn"
	FieldISRN      Field = "isrn"
	FieldISSN      Field = "issn"
	FieldJournal   Field = "journal"
	FieldLanguage  Field = "language"
	FieldNote      Field = "note"
	FieldNumber    Field = "number"
	FieldPages     Field = "pages"
	FieldPMID      Field = "pmid"
	FieldPublisher Field = "publisher"
	FieldTitle     Field = "title"
	FieldURL       Field = "url"
	FieldVolume    Field = "volume"
	FieldYear      Field = "year"
)

var standardFields = map[Field]struct{}{
	FieldAddress: {}, FieldAuthor: {}, FieldBookTitle: {}, FieldChapter: {},
	FieldComment: {}, FieldDate: {}, FieldDOI: {}, FieldEdition: {},
	FieldEditor: {}, FieldEprint: {}, FieldISBN: {}, FieldISRN: {},
	FieldISSN: {}, FieldJournal: {}, FieldLanguage: {}, FieldNote: {},
	FieldNumber: {}, FieldPages: {}, FieldPMID: {}, FieldPublisher: {},
	FieldTitle: {}, FieldURL: {}, FieldVolume: {}, FieldYear: {},
}

// FieldFor returns the Field for a raw key. Lookup is case-insensitive.
func FieldFor(name string) Field {
	return Field(strings.ToLower(strings.TrimSpace(name)))
}

// IsStandard reports whether f belongs to the standard vocabulary.
func (f Field) IsStandard() bool {
	_, ok := standardFields[f]
	return ok
}

func (f Field) String() string {
	return string(f)
}
