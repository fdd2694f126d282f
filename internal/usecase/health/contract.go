package health

import (
	"context"

	"github.com/kailas-cloud/dataprovider/internal/db"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexCounter counts matches on the served index.
type IndexCounter interface {
	Count(ctx context.Context, q *db.Query) (int, error)
}
