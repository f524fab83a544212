// Package render turns homogeneous API results into boxed terminal tables.
//
// Callers describe the shape of a row once with a Schema and hand over
// Records that follow it positionally. Identifier columns can carry a link
// target which is emitted as an OSC 8 hyperlink, and narrative columns are
// word-wrapped so the table stays within a target width.
package render

import (
	"errors"
	"fmt"
)

// Column describes one visible column of a table.
type Column struct {
	// Name is the header text.
	Name string
	// Wrap marks the column as eligible for word wrapping.
	// Linked columns are never wrapped.
	Wrap bool
	// Linked marks the column as link-bearing.
	Linked bool
}

// Schema is the ordered column set shared by every record of one table.
type Schema []Column

// Validate reports whether the schema can be rendered.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return errors.New("render: schema has no columns")
	}
	for i, c := range s {
		if c.Name == "" {
			return fmt.Errorf("render: column %d has no name", i)
		}
	}
	return nil
}

// Names returns the header names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

type fieldKind uint8

const (
	kindPlain fieldKind = iota
	kindLink
)

// Field is a single cell value: either plain text or a label with a link target.
// The zero value is an empty plain field.
type Field struct {
	kind  fieldKind
	label string
	url   string
}

// Plain returns a field that renders text verbatim.
func Plain(text string) Field {
	return Field{kind: kindPlain, label: text}
}

// Plainf formats according to a format specifier and returns a plain field.
func Plainf(format string, args ...any) Field {
	return Plain(fmt.Sprintf(format, args...))
}

// Link returns a field that renders label as a hyperlink to url.
// An empty url renders the label as plain text.
func Link(label, url string) Field {
	return Field{kind: kindLink, label: label, url: url}
}

// Label returns the visible text of the field.
func (f Field) Label() string { return f.label }

// URL returns the link target, or "" for plain fields.
func (f Field) URL() string { return f.url }

// IsLink reports whether the field renders as a hyperlink: it was built with
// Link and has a non-empty url.
func (f Field) IsLink() bool { return f.kind == kindLink && f.url != "" }

// Record is one row of fields, positional against a Schema.
type Record []Field

// Recorder is implemented by value types that know how to present themselves
// as a table row. Schema must not depend on the receiver's contents so that it
// can be taken from the zero value.
type Recorder interface {
	Schema() Schema
	Record() Record
}

// Collect converts items into a schema and its records. The schema comes from
// the zero value of T, so an empty slice still yields a header.
func Collect[T Recorder](items []T) (Schema, []Record) {
	var zero T
	schema := zero.Schema()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.Record())
	}
	return schema, records
}

// SchemaMismatchError is returned when a record does not have one field per
// schema column.
type SchemaMismatchError struct {
	Row  int
	Want int
	Got  int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("render: row %d has %d fields, schema has %d columns", e.Row, e.Got, e.Want)
}

// checkRecords verifies that every record matches the schema width.
func checkRecords(schema Schema, rows []Record) error {
	for i, row := range rows {
		if len(row) != len(schema) {
			return &SchemaMismatchError{Row: i, Want: len(schema), Got: len(row)}
		}
	}
	return nil
}
