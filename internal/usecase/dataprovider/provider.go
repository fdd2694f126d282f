// Package dataprovider turns a search query into a page of typed models.
//
// A Provider computes three values lazily and at most once: the total number
// of matches, the models of the current page and one key per model. It is
// built for a single request and must be discarded when its query, sort or
// pagination changes.
package dataprovider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain"
	"github.com/kailas-cloud/dataprovider/internal/domain/document"
	"github.com/kailas-cloud/dataprovider/internal/domain/model"
	"github.com/kailas-cloud/dataprovider/internal/domain/search/pagination"
	domsort "github.com/kailas-cloud/dataprovider/internal/domain/search/sort"
	"github.com/kailas-cloud/dataprovider/internal/logger"
)

// Config configures a Provider. Pagination and Sort are optional; nil
// disables them.
type Config[M model.Model] struct {
	Query      *db.Query
	Types      *model.Registry[M]
	Resolver   model.Resolver
	Key        KeySpec[M]
	Pagination *pagination.Pagination
	Sort       *domsort.Sort
}

// Provider is a lazily evaluated page of search results. Not safe for
// concurrent use.
type Provider[M model.Model] struct {
	backend    Backend
	query      *db.Query
	types      *model.Registry[M]
	resolver   model.Resolver
	key        KeySpec[M]
	pagination *pagination.Pagination
	sort       *domsort.Sort

	totalCount  *int
	models      []M
	modelTypes  []model.Type[M]
	modelsReady bool
	keys        []any
	keysReady   bool
}

// New creates a provider. The sort state is assigned through SetSort, so an
// empty sort is populated from the model type right away.
func New[M model.Model](backend Backend, cfg Config[M]) *Provider[M] {
	p := &Provider[M]{
		backend:    backend,
		query:      cfg.Query,
		types:      cfg.Types,
		resolver:   cfg.Resolver,
		key:        cfg.Key,
		pagination: cfg.Pagination,
	}
	p.SetSort(cfg.Sort)
	return p
}

// Pagination returns the pagination state, or nil when disabled.
func (p *Provider[M]) Pagination() *pagination.Pagination { return p.pagination }

// Sort returns the sort state, or nil when disabled.
func (p *Provider[M]) Sort() *domsort.Sort { return p.sort }

// SetSort assigns the sort state. When s declares no attributes and the
// resolver maps every document to one type, each attribute of that type
// becomes sortable in both directions, labeled by the type.
func (p *Provider[M]) SetSort(s *domsort.Sort) {
	p.sort = s
	if s == nil || !s.IsEmpty() {
		return
	}
	t, ok := p.staticType()
	if !ok {
		return
	}
	for _, attr := range t.Attributes {
		s.Define(attr, domsort.Attribute{Label: t.AttributeLabel(attr)})
	}
}

// TotalCount returns the number of documents matching the query filter.
// It runs a separate query without window or sort unless already known.
func (p *Provider[M]) TotalCount(ctx context.Context) (int, error) {
	if p.totalCount != nil {
		return *p.totalCount, nil
	}

	q, err := p.template()
	if err != nil {
		return 0, err
	}

	cq := q.Clone().ClearWindow().ClearSort()
	n, err := count(ctx, p.backend, cq)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	logger.FromContext(ctx).Debug("Total count computed",
		zap.String("index", cq.Index),
		zap.String("filter", cq.Filter),
		zap.Int("total", n),
	)

	p.totalCount = &n
	return n, nil
}

// Models returns the models of the current page in backend order.
func (p *Provider[M]) Models(ctx context.Context) ([]M, error) {
	if p.modelsReady {
		return p.models, nil
	}

	q, err := p.template()
	if err != nil {
		return nil, err
	}
	if p.types == nil {
		return nil, domain.NewConfigurationError("types", "model registry is required")
	}
	if p.resolver.IsZero() {
		return nil, domain.NewConfigurationError("resolver", "model resolver is required")
	}

	work := q.Clone()
	if p.pagination != nil {
		total, err := p.TotalCount(ctx)
		if err != nil {
			return nil, err
		}
		p.pagination.SetTotalCount(total)
		if limit := p.pagination.Limit(); limit >= 0 {
			work.SetWindow(p.pagination.Offset(), limit)
		}
	}
	if p.sort != nil {
		for _, o := range p.sort.Orders() {
			work.AddSort(o.Attribute, nativeOrder(o.Direction))
		}
	}

	rs, err := p.backend.Execute(ctx, work)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	models := make([]M, 0, len(rs.Documents))
	types := make([]model.Type[M], 0, len(rs.Documents))
	for _, doc := range rs.Documents {
		t, err := p.resolve(doc)
		if err != nil {
			return nil, err
		}
		m, err := t.Populate(doc)
		if err != nil {
			return nil, &domain.ResolutionError{DocumentID: doc.ID, Type: t.Name, Err: err}
		}
		models = append(models, m)
		types = append(types, t)
	}

	logger.FromContext(ctx).Debug("Models prepared",
		zap.String("index", work.Index),
		zap.Int("models", len(models)),
		zap.Int("num_found", rs.NumFound),
	)

	p.models, p.modelTypes, p.modelsReady = models, types, true
	return models, nil
}

// Keys returns one key per model, in the same order as Models.
func (p *Provider[M]) Keys(ctx context.Context) ([]any, error) {
	if p.keysReady {
		return p.keys, nil
	}

	models, err := p.Models(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]any, len(models))
	for i, m := range models {
		k, err := p.key.keyOf(i, m, p.modelTypes[i].Identity)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	p.keys, p.keysReady = keys, true
	return keys, nil
}

// Count returns the number of models on the current page.
func (p *Provider[M]) Count(ctx context.Context) (int, error) {
	models, err := p.Models(ctx)
	if err != nil {
		return 0, err
	}
	return len(models), nil
}

func (p *Provider[M]) template() (*db.Query, error) {
	if p.query == nil {
		return nil, domain.NewConfigurationError("query", "query template is required")
	}
	if err := p.query.Validate(); err != nil {
		return nil, domain.NewConfigurationError("query", err.Error())
	}
	return p.query, nil
}

func (p *Provider[M]) staticType() (model.Type[M], bool) {
	name, ok := p.resolver.Static()
	if !ok || p.types == nil {
		return model.Type[M]{}, false
	}
	return p.types.Lookup(name)
}

func (p *Provider[M]) resolve(doc document.Document) (model.Type[M], error) {
	name, err := p.resolver.Resolve(doc)
	if err != nil {
		return model.Type[M]{}, &domain.ResolutionError{DocumentID: doc.ID, Err: err}
	}
	t, ok := p.types.Lookup(name)
	if !ok {
		return model.Type[M]{}, &domain.ResolutionError{
			DocumentID: doc.ID,
			Type:       name,
			Err:        fmt.Errorf("type is not registered"),
		}
	}
	return t, nil
}

func nativeOrder(d domsort.Direction) db.SortOrder {
	if d == domsort.Descending {
		return db.SortDesc
	}
	return db.SortAsc
}
