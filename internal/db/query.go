package db

import (
	"errors"
	"slices"
)

// MatchAll is the filter that selects every document in an index.
const MatchAll = "*"

// SortOrder is a backend-native sort directive.
type SortOrder string

const (
	// SortAsc orders ascending.
	SortAsc SortOrder = "ASC"
	// SortDesc orders descending.
	SortDesc SortOrder = "DESC"
)

// SortKey is a single (field, order) sort directive.
type SortKey struct {
	Field string
	Order SortOrder
}

// Window restricts a query to a slice of the matching documents.
type Window struct {
	Offset int
	Limit  int
}

// Query is a search query against one index. The zero window and empty sort
// mean "backend defaults".
type Query struct {
	Index        string
	Filter       string
	ReturnFields []string

	window *Window
	sort   []SortKey
}

// NewQuery creates a query for index with the given filter.
// An empty filter selects everything.
func NewQuery(index, filter string) *Query {
	if filter == "" {
		filter = MatchAll
	}
	return &Query{Index: index, Filter: filter}
}

// Return sets the fields the backend should return for each hit.
func (q *Query) Return(fields ...string) *Query {
	q.ReturnFields = append(q.ReturnFields, fields...)
	return q
}

// SetWindow restricts the query to limit documents starting at offset.
func (q *Query) SetWindow(offset, limit int) *Query {
	q.window = &Window{Offset: offset, Limit: limit}
	return q
}

// ClearWindow removes any row window.
func (q *Query) ClearWindow() *Query {
	q.window = nil
	return q
}

// Window returns the row window, or nil if none is set.
func (q *Query) Window() *Window {
	if q.window == nil {
		return nil
	}
	w := *q.window
	return &w
}

// AddSort appends a sort directive after the existing ones.
func (q *Query) AddSort(field string, order SortOrder) *Query {
	q.sort = append(q.sort, SortKey{Field: field, Order: order})
	return q
}

// ClearSort removes all sort directives.
func (q *Query) ClearSort() *Query {
	q.sort = nil
	return q
}

// Sort returns the sort directives in application order.
func (q *Query) Sort() []SortKey {
	return slices.Clone(q.sort)
}

// Clone returns a deep copy that shares no mutable state with q.
func (q *Query) Clone() *Query {
	c := &Query{
		Index:        q.Index,
		Filter:       q.Filter,
		ReturnFields: slices.Clone(q.ReturnFields),
		sort:         slices.Clone(q.sort),
	}
	if q.window != nil {
		w := *q.window
		c.window = &w
	}
	return c
}

// Validate checks that the query can be sent to a backend.
func (q *Query) Validate() error {
	if q.Index == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(q.Index) {
		return errors.New("index name contains invalid characters")
	}
	if q.Filter == "" {
		return errors.New("filter is required")
	}
	if q.window != nil && (q.window.Offset < 0 || q.window.Limit < 0) {
		return errors.New("window offset and limit must be non-negative")
	}
	for _, k := range q.sort {
		if k.Field == "" {
			return errors.New("sort field is required")
		}
		if k.Order != SortAsc && k.Order != SortDesc {
			return errors.New("sort order must be ASC or DESC")
		}
	}
	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
