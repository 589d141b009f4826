package dataset

import (
	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
)

// FieldValue is one field of an entry in the Parquet layout.
type FieldValue struct {
	Name  string `json:"name" parquet:"name"`
	Value string `json:"value" parquet:"value"`
}

// EntryRow is the Parquet layout of a bibliographic entry. JSONL files use
// the entry's own JSON form instead.
type EntryRow struct {
	Key    string       `json:"key" parquet:"key"`
	Type   string       `json:"type" parquet:"type"`
	Fields []FieldValue `json:"fields" parquet:"fields,list"`
}

// PairRow is a labeled pair in the Parquet layout.
type PairRow struct {
	Expected bool     `parquet:"expected"`
	Note     string   `parquet:"note"`
	A        EntryRow `parquet:"a"`
	B        EntryRow `parquet:"b"`
}

// Pair is a labeled pair of entries used for calibration.
type Pair struct {
	// Expected is the ground truth: true when A and B are the same work.
	Expected bool       `json:"expected"`
	Note     string     `json:"note,omitempty"`
	A        *bib.Entry `json:"a"`
	B        *bib.Entry `json:"b"`
}

// Entry converts the row into an entry.
func (r EntryRow) Entry() *bib.Entry {
	e := bib.NewEntry(bib.ParseEntryType(r.Type)).WithCitationKey(r.Key)
	for _, f := range r.Fields {
		e.SetField(bib.FieldFor(f.Name), f.Value)
	}
	return e
}

// RowFor converts an entry into its Parquet row. Fields are kept in sorted
// order.
func RowFor(e *bib.Entry) EntryRow {
	row := EntryRow{Key: e.CitationKey, Type: string(e.Type)}
	for _, f := range e.Fields() {
		v, _ := e.Field(f)
		row.Fields = append(row.Fields, FieldValue{Name: string(f), Value: v})
	}
	return row
}

func (r PairRow) pair() Pair {
	return Pair{Expected: r.Expected, Note: r.Note, A: r.A.Entry(), B: r.B.Entry()}
}
