// Package sort holds the sort state of a result listing: which attributes
// may be sorted on and which orders the caller requested.
package sort

import (
	"fmt"
	"strings"
)

// Direction is the order applied to one attribute.
type Direction int

const (
	// Ascending sorts low to high.
	Ascending Direction = iota
	// Descending sorts high to low.
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Order is one (attribute, direction) pair.
type Order struct {
	Attribute string
	Direction Direction
}

// Attribute describes how a sortable attribute orders results.
// Asc and Desc are the column orders applied for each direction.
type Attribute struct {
	Asc   []Order
	Desc  []Order
	Label string
}

// Sort is the sort state for one listing. The zero value has no attributes
// and no requested orders.
type Sort struct {
	attributes   map[string]Attribute
	names        []string
	requested    []Order
	defaultOrder []Order
	multiSort    bool
}

// New creates a sort state with the given attributes, each sortable on itself.
func New(attributes ...string) *Sort {
	s := &Sort{}
	for _, name := range attributes {
		s.Define(name, Attribute{})
	}
	return s
}

// Define declares a sortable attribute. Empty Asc/Desc default to the
// attribute itself; an empty label defaults to the attribute name.
// Redefining an attribute replaces it in place.
func (s *Sort) Define(name string, attr Attribute) *Sort {
	if s.attributes == nil {
		s.attributes = make(map[string]Attribute)
	}
	if len(attr.Asc) == 0 {
		attr.Asc = []Order{{Attribute: name, Direction: Ascending}}
	}
	if len(attr.Desc) == 0 {
		attr.Desc = []Order{{Attribute: name, Direction: Descending}}
	}
	if attr.Label == "" {
		attr.Label = name
	}
	if _, ok := s.attributes[name]; !ok {
		s.names = append(s.names, name)
	}
	s.attributes[name] = attr
	return s
}

// IsEmpty reports whether no attribute is declared.
func (s *Sort) IsEmpty() bool { return len(s.names) == 0 }

// Attributes returns the declared attribute names in declaration order.
func (s *Sort) Attributes() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Attribute returns the definition of a declared attribute.
func (s *Sort) Attribute(name string) (Attribute, bool) {
	a, ok := s.attributes[name]
	return a, ok
}

// Label returns the display label of an attribute, or its name when undeclared.
func (s *Sort) Label(name string) string {
	if a, ok := s.attributes[name]; ok {
		return a.Label
	}
	return name
}

// Request sets the orders asked for by the caller, replacing earlier requests.
func (s *Sort) Request(orders ...Order) *Sort {
	s.requested = append([]Order(nil), orders...)
	return s
}

// RequestParam parses and requests a sort parameter such as "-year,title".
func (s *Sort) RequestParam(param string) *Sort {
	return s.Request(ParseParam(param)...)
}

// SetDefaultOrder sets the orders used when nothing valid was requested.
func (s *Sort) SetDefaultOrder(orders ...Order) *Sort {
	s.defaultOrder = append([]Order(nil), orders...)
	return s
}

// SetMultiSort allows more than one requested attribute to apply.
func (s *Sort) SetMultiSort(enabled bool) *Sort {
	s.multiSort = enabled
	return s
}

// AttributeOrders returns the requested orders restricted to declared
// attributes, in request order. Without multi-sort only the first one is kept.
// Falls back to the default order when no requested attribute is declared.
func (s *Sort) AttributeOrders() []Order {
	var out []Order
	seen := make(map[string]bool)
	for _, o := range s.requested {
		if _, ok := s.attributes[o.Attribute]; !ok || seen[o.Attribute] {
			continue
		}
		seen[o.Attribute] = true
		out = append(out, o)
		if !s.multiSort {
			break
		}
	}
	if len(out) == 0 {
		return append([]Order(nil), s.defaultOrder...)
	}
	return out
}

// Orders expands AttributeOrders into column orders using each attribute's
// Asc/Desc definition.
func (s *Sort) Orders() []Order {
	var out []Order
	for _, o := range s.AttributeOrders() {
		attr, ok := s.attributes[o.Attribute]
		if !ok {
			out = append(out, o)
			continue
		}
		if o.Direction == Descending {
			out = append(out, attr.Desc...)
		} else {
			out = append(out, attr.Asc...)
		}
	}
	return out
}

// Param renders orders back into the "-year,title" form.
func Param(orders []Order) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		if o.Direction == Descending {
			parts[i] = "-" + o.Attribute
			continue
		}
		parts[i] = o.Attribute
	}
	return strings.Join(parts, ",")
}

// ParseParam reads a comma-separated list of attributes, each optionally
// prefixed with "-" for descending. Blank entries are skipped.
func ParseParam(param string) []Order {
	var out []Order
	for _, part := range strings.Split(param, ",") {
		part = strings.TrimSpace(part)
		dir := Ascending
		if strings.HasPrefix(part, "-") {
			dir = Descending
			part = strings.TrimSpace(part[1:])
		}
		if part == "" {
			continue
		}
		out = append(out, Order{Attribute: part, Direction: dir})
	}
	return out
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s", o.Attribute, o.Direction)
}
