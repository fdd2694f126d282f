package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/dataprovider/internal/db"
)

// Search runs q via FT.SEARCH, applying RETURN, SORTBY and LIMIT when set.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	args, err := searchArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, searchError(err)
	}

	return parseListResult(raw)
}

// SearchCount returns the number of documents matching q's filter via
// FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, q *db.Query) (int, error) {
	if err := q.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", db.ErrInvalidQuery, err)
	}

	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(q.Index, q.Filter, "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, searchError(err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// searchArgs builds the FT.SEARCH argument list for q.
// FT.SEARCH accepts a single SORTBY field.
func searchArgs(q *db.Query) ([]string, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", db.ErrInvalidQuery, err)
	}

	args := []string{q.Index, q.Filter}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	switch keys := q.Sort(); len(keys) {
	case 0:
	case 1:
		args = append(args, "SORTBY", keys[0].Field, string(keys[0].Order))
	default:
		return nil, fmt.Errorf("%w: FT.SEARCH sorts by one field, got %d", db.ErrUnsupportedSort, len(keys))
	}

	if w := q.Window(); w != nil {
		args = append(args, "LIMIT", strconv.Itoa(w.Offset), strconv.Itoa(w.Limit))
	}

	return append(args, "DIALECT", "2"), nil
}

func searchError(err error) error {
	if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
		return &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %w", db.ErrIndexNotFound, err)}
	}
	return &db.Error{Op: db.OpSearch, Err: err}
}

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
