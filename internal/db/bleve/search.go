package bleve

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/dataprovider/internal/db"
)

// defaultSize mirrors bleve.NewSearchRequest when the query has no window.
const defaultSize = 10

// Search runs q against the index. Sort keys map to bleve sort strings,
// the window maps to from/size.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if err := s.check(q); err != nil {
		return nil, err
	}

	size, from := defaultSize, 0
	if w := q.Window(); w != nil {
		size, from = w.Limit, w.Offset
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q.Filter), size, from, false)
	if keys := q.Sort(); len(keys) > 0 {
		req.SortBy(sortStrings(keys))
	}
	req.Fields = []string{"*"}
	if len(q.ReturnFields) > 0 {
		req.Fields = q.ReturnFields
	}

	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpBleveSearch, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		entries = append(entries, db.SearchEntry{
			Key:    hit.ID,
			Score:  hit.Score,
			Fields: stringFields(hit.Fields),
		})
	}

	return &db.SearchResult{Total: int(res.Total), Entries: entries}, nil
}

// SearchCount returns the number of documents matching q's filter with a
// zero-size request.
func (s *Store) SearchCount(ctx context.Context, q *db.Query) (int, error) {
	if err := s.check(q); err != nil {
		return 0, err
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q.Filter), 0, 0, false)
	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return 0, &db.Error{Op: db.OpBleveSearch, Err: err}
	}
	return int(res.Total), nil
}

func (s *Store) check(q *db.Query) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%w: %w", db.ErrInvalidQuery, err)
	}
	if q.Index != s.name {
		return &db.Error{Op: db.OpBleveSearch, Err: fmt.Errorf("%w: %s", db.ErrIndexNotFound, q.Index)}
	}
	return nil
}

func buildQuery(filter string) query.Query {
	if filter == db.MatchAll {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewQueryStringQuery(filter)
}

// sortStrings converts sort keys into bleve's "-field" notation.
func sortStrings(keys []db.SortKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if k.Order == db.SortDesc {
			out[i] = "-" + k.Field
			continue
		}
		out[i] = k.Field
	}
	return out
}

// stringFields flattens stored field values into their string form.
func stringFields(in map[string]interface{}) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
