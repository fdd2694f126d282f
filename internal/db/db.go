package db

import (
	"context"
	"time"
)

// Store is the database facade a search driver provides.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs queries against a search index.
type Searcher interface {
	// Search executes q as-is: window and sort keys are applied when present.
	Search(ctx context.Context, q *Query) (*SearchResult, error)
	// SearchCount returns the number of documents matching q's filter.
	// Window and sort keys are ignored.
	SearchCount(ctx context.Context, q *Query) (int, error)
}
