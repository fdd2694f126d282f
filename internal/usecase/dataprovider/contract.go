package dataprovider

import (
	"context"

	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain/document"
)

// Backend executes queries against a search service.
// Implementations must not retain or mutate q.
type Backend interface {
	Execute(ctx context.Context, q *db.Query) (document.ResultSet, error)
}

// Counter is implemented by backends that can count matches without
// fetching documents.
type Counter interface {
	Count(ctx context.Context, q *db.Query) (int, error)
}

// count returns the number of matches for q, preferring Counter.
func count(ctx context.Context, b Backend, q *db.Query) (int, error) {
	if c, ok := b.(Counter); ok {
		return c.Count(ctx, q)
	}
	rs, err := b.Execute(ctx, q)
	if err != nil {
		return 0, err
	}
	return rs.NumFound, nil
}
