// Package model describes how raw search documents become typed models:
// which model type a document maps to, how the type is populated, and what
// the type declares about its attributes and identity.
package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/dataprovider/internal/domain/document"
)

// Model is an application object populated from a search document.
// Field exposes attribute values by name for key extraction.
type Model interface {
	Field(name string) (any, bool)
}

// Type describes one model type.
type Type[M Model] struct {
	// Name identifies the type in a Registry.
	Name string
	// Populate builds a fully populated model from a document.
	Populate func(doc document.Document) (M, error)
	// Attributes lists the attributes the type exposes, in display order.
	Attributes []string
	// Labels overrides generated display labels per attribute.
	Labels map[string]string
	// Identity lists the fields that identify a model: none, one (scalar key)
	// or several (composite key).
	Identity []string
}

// AttributeLabel returns the display label for attr: the configured label,
// or one generated from the attribute name ("first_name" → "First Name").
func (t Type[M]) AttributeLabel(attr string) string {
	if l, ok := t.Labels[attr]; ok && l != "" {
		return l
	}
	return GenerateLabel(attr)
}

// GenerateLabel turns an attribute name into a human-readable label.
func GenerateLabel(attr string) string {
	words := strings.FieldsFunc(attr, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
