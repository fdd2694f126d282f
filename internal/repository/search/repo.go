package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain/document"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	SearchCount(ctx context.Context, q *db.Query) (int, error)
}

// Repo implements usecase/dataprovider.Backend and Counter on top of a
// search driver.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a search repository. keyPrefix is stripped from entry keys to
// form document IDs (e.g. "book:" turns "book:42" into "42").
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Execute runs q and converts the hits into documents, in backend order.
func (r *Repo) Execute(ctx context.Context, q *db.Query) (document.ResultSet, error) {
	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return document.ResultSet{}, fmt.Errorf("search %s: %w", q.Index, err)
	}
	if sr == nil {
		return document.ResultSet{}, nil
	}

	docs := make([]document.Document, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docs = append(docs, document.New(r.docID(entry.Key), entry.Score, entry.Fields))
	}

	return document.ResultSet{Documents: docs, NumFound: max(sr.Total, 0)}, nil
}

// Count returns the number of documents matching q's filter.
func (r *Repo) Count(ctx context.Context, q *db.Query) (int, error) {
	n, err := r.store.SearchCount(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Index, err)
	}
	return n, nil
}

func (r *Repo) docID(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return strings.TrimPrefix(key, r.keyPrefix)
}
