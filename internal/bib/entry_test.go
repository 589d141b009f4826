package bib

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_AbsentVersusEmpty(t *testing.T) {
	e := NewEntry(TypeInBook).WithField(FieldChapter, "")

	v, ok := e.Field(FieldChapter)
	assert.True(t, ok, "empty field should be present")
	assert.Equal(t, "", v)
	assert.False(t, e.HasValue(FieldChapter))

	_, ok = e.Field(FieldPages)
	assert.False(t, ok, "unset field should be absent")

	e.ClearField(FieldChapter)
	_, ok = e.Field(FieldChapter)
	assert.False(t, ok)
}

func TestEntry_CloneIsIndependent(t *testing.T) {
	orig := NewEntry(TypeArticle).WithField(FieldTitle, "A title")
	cp := orig.Clone()
	cp.SetField(FieldTitle, "Another title")
	cp.SetType(TypeBook)

	assert.Equal(t, "A title", orig.Text(FieldTitle))
	assert.Equal(t, TypeArticle, orig.Type)
}

func TestEntry_FieldsSorted(t *testing.T) {
	e := NewEntry(TypeArticle).
		WithField(FieldYear, "2005").
		WithField(FieldAuthor, "Billy Bob").
		WithField(FieldTitle, "A title")

	assert.Equal(t, []Field{FieldAuthor, FieldTitle, FieldYear}, e.Fields())
}

func TestEntry_JSON(t *testing.T) {
	raw := `{"key":"Bob2005","type":"Article","fields":{"AUTHOR":"Billy Bob","Journal":""}}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &e))

	assert.Equal(t, TypeArticle, e.Type)
	assert.Equal(t, "Bob2005", e.CitationKey)
	assert.Equal(t, "Billy Bob", e.Text(FieldAuthor))
	_, ok := e.Field(FieldJournal)
	assert.True(t, ok)

	out, err := json.Marshal(&e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"Bob2005","type":"article","fields":{"author":"Billy Bob","journal":""}}`, string(out))
}

func TestEntry_TypeNormalized(t *testing.T) {
	e := NewEntry("@Article")
	assert.Equal(t, TypeArticle, e.Type)

	e.SetType(" InCollection")
	assert.Equal(t, TypeInCollection, e.Type)
}

func TestParseEntryType(t *testing.T) {
	tests := []struct {
		in       string
		want     EntryType
		standard bool
	}{
		{"Article", TypeArticle, true},
		{" @InBook ", TypeInBook, true},
		{"dataset", EntryType("dataset"), false},
		{"", EntryType(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseEntryType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.standard, got.IsStandard())
		})
	}
}

func TestFieldFor(t *testing.T) {
	assert.Equal(t, FieldDOI, FieldFor("DOI"))
	assert.True(t, FieldFor(" Title ").IsStandard())

	custom := FieldFor("Mendeley-Tags")
	assert.Equal(t, Field("mendeley-tags"), custom)
	assert.False(t, custom.IsStandard())
}

func TestMode(t *testing.T) {
	m, err := ParseMode("BibLaTeX")
	require.NoError(t, err)
	assert.Equal(t, ModeBibLaTeX, m)
	assert.Contains(t, m.IdentifierFields(), FieldISRN)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeBibTeX, m)
	assert.Equal(t, []Field{FieldDOI, FieldISBN, FieldPMID, FieldEprint}, m.IdentifierFields())

	_, err = ParseMode("ris")
	assert.Error(t, err)
}
