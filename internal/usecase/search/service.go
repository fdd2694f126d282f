package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain/model"
	"github.com/kailas-cloud/dataprovider/internal/domain/search/pagination"
	domsort "github.com/kailas-cloud/dataprovider/internal/domain/search/sort"
	"github.com/kailas-cloud/dataprovider/internal/usecase/dataprovider"
)

// Settings describes the served index.
type Settings struct {
	Index           string
	Filter          string // base filter; db.MatchAll when empty
	ReturnFields    []string
	DefaultPageSize int // pagination.DefaultPageSize when zero
	MaxPageSize     int // no cap when zero
	KeyField        string
	TypeField       string // per-document type; DefaultType is used when empty
	DefaultType     string
	DefaultSort     string
	MultiSort       bool
}

// Request is one page request. Page is 1-based; zero values fall back to
// the first page and the default page size.
type Request struct {
	Query   string
	Page    int
	PerPage int
	Sort    string
}

// Item is one record of a result page.
type Item struct {
	Key    any
	Record Record
}

// Page is a result page.
type Page struct {
	Items     []Item
	Total     int
	Page      int // 1-based, after clamping to the last page
	PageCount int
	PerPage   int
	Sort      []domsort.Order
}

// Service answers paged searches over one index. Each call builds its own
// data provider, so the service itself is safe for concurrent use.
type Service struct {
	backend  Backend
	types    *model.Registry[Record]
	settings Settings
}

// New creates a search service over the given record types.
func New(backend Backend, settings Settings, types ...TypeSpec) (*Service, error) {
	reg, err := model.NewRegistry[Record]()
	if err != nil {
		return nil, err
	}
	for _, spec := range types {
		if err := reg.Register(RecordType(spec)); err != nil {
			return nil, fmt.Errorf("register type %q: %w", spec.Name, err)
		}
	}
	if settings.Filter == "" {
		settings.Filter = db.MatchAll
	}
	if settings.DefaultPageSize <= 0 {
		settings.DefaultPageSize = pagination.DefaultPageSize
	}
	return &Service{backend: backend, types: reg, settings: settings}, nil
}

// Search returns one page of records matching req.
func (s *Service) Search(ctx context.Context, req Request) (Page, error) {
	pg := s.pagination(req)
	p := dataprovider.New(s.backend, dataprovider.Config[Record]{
		Query:      db.NewQuery(s.settings.Index, s.filter(req.Query)).Return(s.settings.ReturnFields...),
		Types:      s.types,
		Resolver:   s.resolver(),
		Key:        s.key(),
		Pagination: pg,
		Sort:       s.sort(req.Sort),
	})

	models, err := p.Models(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("models: %w", err)
	}
	keys, err := p.Keys(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("keys: %w", err)
	}

	items := make([]Item, len(models))
	for i, m := range models {
		items[i] = Item{Key: keys[i], Record: m}
	}

	return Page{
		Items:     items,
		Total:     pg.TotalCount(),
		Page:      pg.Page() + 1,
		PageCount: pg.PageCount(),
		PerPage:   pg.PageSize(),
		Sort:      p.Sort().AttributeOrders(),
	}, nil
}

func (s *Service) pagination(req Request) *pagination.Pagination {
	size := s.settings.DefaultPageSize
	if req.PerPage > 0 {
		size = req.PerPage
	}
	if s.settings.MaxPageSize > 0 && size > s.settings.MaxPageSize {
		size = s.settings.MaxPageSize
	}
	return pagination.New(0).SetPageSize(size).SetPage(req.Page - 1)
}

// filter combines the base filter with the user query.
func (s *Service) filter(q string) string {
	q = strings.TrimSpace(q)
	switch {
	case q == "":
		return s.settings.Filter
	case s.settings.Filter == db.MatchAll:
		return q
	default:
		return s.settings.Filter + " " + q
	}
}

func (s *Service) resolver() model.Resolver {
	if s.settings.TypeField != "" {
		return model.ByField(s.settings.TypeField)
	}
	return model.Fixed(s.settings.DefaultType)
}

func (s *Service) key() dataprovider.KeySpec[Record] {
	if s.settings.KeyField == "" {
		return dataprovider.KeySpec[Record]{}
	}
	return dataprovider.KeyByField[Record](s.settings.KeyField)
}

// sort builds the sort state. With a fixed type the provider declares the
// type's attributes itself; with per-document types every attribute of
// every type is declared here.
func (s *Service) sort(param string) *domsort.Sort {
	st := domsort.New().SetMultiSort(s.settings.MultiSort)
	if s.settings.DefaultSort != "" {
		st.SetDefaultOrder(domsort.ParseParam(s.settings.DefaultSort)...)
	}
	st.RequestParam(param)

	if s.settings.TypeField == "" {
		return st
	}
	for _, name := range s.types.Names() {
		t, _ := s.types.Lookup(name)
		for _, attr := range t.Attributes {
			if _, ok := st.Attribute(attr); !ok {
				st.Define(attr, domsort.Attribute{Label: t.AttributeLabel(attr)})
			}
		}
	}
	return st
}
