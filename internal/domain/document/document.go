// Package document holds the raw records a search backend returns.
package document

import (
	"fmt"
	"strconv"
)

// Document is a single raw search hit. Field values keep the backend's
// string form; typed accessors convert on read.
type Document struct {
	ID     string
	Score  float64
	Fields map[string]string
}

// New creates a document, copying fields.
func New(id string, score float64, fields map[string]string) Document {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Document{ID: id, Score: score, Fields: cp}
}

// Get returns the raw value of a field.
func (d Document) Get(name string) (string, bool) {
	v, ok := d.Fields[name]
	return v, ok
}

// String returns the field value or "" when absent.
func (d Document) String(name string) string {
	return d.Fields[name]
}

// Float parses a field as a float.
func (d Document) Float(name string) (float64, error) {
	v, ok := d.Fields[name]
	if !ok {
		return 0, fmt.Errorf("field %q is missing", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return f, nil
}

// ResultSet is a backend response: the documents of the requested window in
// backend order plus the number of documents matching the filter.
type ResultSet struct {
	Documents []Document
	NumFound  int
}
