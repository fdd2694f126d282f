package model

import (
	"fmt"

	"github.com/kailas-cloud/dataprovider/internal/domain/document"
)

// Resolver picks the model type name for a document. It is either fixed
// (every document maps to one type) or computed per document.
type Resolver struct {
	fixed string
	fn    func(doc document.Document) (string, error)
}

// Fixed maps every document to the named type.
func Fixed(name string) Resolver {
	return Resolver{fixed: name}
}

// ByDocument computes the type name from each document.
func ByDocument(fn func(doc document.Document) (string, error)) Resolver {
	return Resolver{fn: fn}
}

// ByField reads the type name from a document field.
func ByField(field string) Resolver {
	return ByDocument(func(doc document.Document) (string, error) {
		v, ok := doc.Get(field)
		if !ok || v == "" {
			return "", fmt.Errorf("type field %q is missing", field)
		}
		return v, nil
	})
}

// IsZero reports whether the resolver was never configured.
func (r Resolver) IsZero() bool { return r.fixed == "" && r.fn == nil }

// Static returns the fixed type name, if the resolver is fixed.
func (r Resolver) Static() (string, bool) {
	if r.fn != nil || r.fixed == "" {
		return "", false
	}
	return r.fixed, true
}

// Resolve returns the type name for doc.
func (r Resolver) Resolve(doc document.Document) (string, error) {
	if r.fn != nil {
		return r.fn(doc)
	}
	if r.fixed == "" {
		return "", fmt.Errorf("resolver is not configured")
	}
	return r.fixed, nil
}
