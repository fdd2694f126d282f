package dataprovider

import (
	"context"
	"fmt"

	domsort "github.com/kailas-cloud/dataprovider/internal/domain/search/sort"
	searchuc "github.com/kailas-cloud/dataprovider/internal/usecase/search"
)

// SearchRequest asks for one page. Page is 1-based; zero values select the
// first page and the default page size. Sort uses the "-year,title" form.
type SearchRequest struct {
	Query   string
	Page    int
	PerPage int
	Sort    string
}

// Record is one search hit.
type Record struct {
	Key    any
	Type   string
	ID     string
	Score  float64
	Fields map[string]string
}

// Page is one page of records with its position in the full result.
type Page struct {
	Records   []Record
	Total     int
	Page      int
	PageCount int
	PerPage   int
	Sort      string
}

// Search returns one page of records.
func (c *Client) Search(ctx context.Context, req SearchRequest) (Page, error) {
	res, err := c.svc.Search(ctx, searchuc.Request{
		Query:   req.Query,
		Page:    req.Page,
		PerPage: req.PerPage,
		Sort:    req.Sort,
	})
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return pageFromUsecase(res), nil
}

func pageFromUsecase(p searchuc.Page) Page {
	records := make([]Record, len(p.Items))
	for i, it := range p.Items {
		records[i] = Record{
			Key:    it.Key,
			Type:   it.Record.Type,
			ID:     it.Record.ID,
			Score:  it.Record.Score,
			Fields: it.Record.Fields,
		}
	}
	return Page{
		Records:   records,
		Total:     p.Total,
		Page:      p.Page,
		PageCount: p.PageCount,
		PerPage:   p.PerPage,
		Sort:      domsort.Param(p.Sort),
	}
}
