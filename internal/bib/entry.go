package bib

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Entry is a single bibliographic record. A field that was never set is
// absent; a field set to "" is present but empty.
type Entry struct {
	Type        EntryType
	CitationKey string
	fields      map[Field]string
}

// NewEntry creates an empty entry of the given type. The type name is
// normalized with ParseEntryType.
func NewEntry(t EntryType) *Entry {
	return &Entry{
		Type:   ParseEntryType(string(t)),
		fields: make(map[Field]string),
	}
}

// WithField sets a field and returns the entry for chaining.
func (e *Entry) WithField(f Field, value string) *Entry {
	e.SetField(f, value)
	return e
}

// WithCitationKey sets the citation key and returns the entry for chaining.
func (e *Entry) WithCitationKey(key string) *Entry {
	e.CitationKey = key
	return e
}

func (e *Entry) SetField(f Field, value string) {
	if e.fields == nil {
		e.fields = make(map[Field]string)
	}
	e.fields[f] = value
}

func (e *Entry) ClearField(f Field) {
	delete(e.fields, f)
}

func (e *Entry) SetType(t EntryType) {
	e.Type = ParseEntryType(string(t))
}

// Field returns the raw value and whether the field is present at all.
func (e *Entry) Field(f Field) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.fields[f]
	return v, ok
}

// Text returns the trimmed value of f, or "" when absent.
func (e *Entry) Text(f Field) string {
	v, _ := e.Field(f)
	return strings.TrimSpace(v)
}

// HasValue reports whether f is present with a non-blank value.
func (e *Entry) HasValue(f Field) bool {
	return e.Text(f) != ""
}

// Fields returns the names of all present fields in sorted order.
func (e *Entry) Fields() []Field {
	if e == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(e.fields))
}

// Clone returns a deep copy.
func (e *Entry) Clone() *Entry {
	return &Entry{
		Type:        e.Type,
		CitationKey: e.CitationKey,
		fields:      maps.Clone(e.fields),
	}
}

// Label is a short human-readable reference used in logs and reports.
func (e *Entry) Label() string {
	if e.CitationKey != "" {
		return e.CitationKey
	}
	title := []rune(e.Text(FieldTitle))
	if len(title) > 40 {
		title = append(title[:37], []rune("...")...)
	}
	return fmt.Sprintf("%s:%q", e.Type, string(title))
}

type entryJSON struct {
	Key    string            `json:"key,omitempty"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields"`
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		Key:    e.CitationKey,
		Type:   string(e.Type),
		Fields: make(map[string]string, len(e.fields)),
	}
	for f, v := range e.fields {
		out.Fields[string(f)] = v
	}
	return json.Marshal(out)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.Type = ParseEntryType(in.Type)
	e.CitationKey = in.Key
	e.fields = make(map[Field]string, len(in.Fields))
	for k, v := range in.Fields {
		e.fields[FieldFor(k)] = v
	}
	return nil
}
