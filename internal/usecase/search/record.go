package search

import (
	"maps"

	"github.com/kailas-cloud/dataprovider/internal/domain/document"
	"github.com/kailas-cloud/dataprovider/internal/domain/model"
)

// Record is a search hit tagged with its model type.
type Record struct {
	ID     string
	Type   string
	Score  float64
	Fields map[string]string
}

// Field returns a stored field. "id" always resolves to the document ID.
func (r Record) Field(name string) (any, bool) {
	if name == "id" {
		return r.ID, true
	}
	v, ok := r.Fields[name]
	return v, ok
}

// TypeSpec declares one record type.
type TypeSpec struct {
	Name       string
	Attributes []string
	Labels     map[string]string
	Identity   []string
}

// RecordType builds the model type for spec. Populate copies the document
// as-is; only the declared identity fields must be present.
func RecordType(spec TypeSpec) model.Type[Record] {
	return model.Type[Record]{
		Name:       spec.Name,
		Attributes: spec.Attributes,
		Labels:     spec.Labels,
		Identity:   spec.Identity,
		Populate: func(doc document.Document) (Record, error) {
			return Record{
				ID:     doc.ID,
				Type:   spec.Name,
				Score:  doc.Score,
				Fields: maps.Clone(doc.Fields),
			}, nil
		},
	}
}
