// Package bleve implements db.Store on top of an embedded bleve index.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/kailas-cloud/dataprovider/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds the location of an on-disk index.
type Config struct {
	Path string
}

// Store implements db.Store over a single bleve index. The index name of a
// query must match the store's name.
type Store struct {
	name string
	idx  bleve.Index
}

// NewStore opens the index at cfg.Path, creating it with the default mapping
// when it does not exist yet.
func NewStore(name string, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	idx, err := bleve.Open(cfg.Path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(cfg.Path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpBleveOpen, Err: err}
	}

	return &Store{name: name, idx: idx}, nil
}

// NewMemStore creates a store backed by an in-memory index.
func NewMemStore(name string) (*Store, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, &db.Error{Op: db.OpBleveOpen, Err: err}
	}
	return &Store{name: name, idx: idx}, nil
}

// Index stores fields under id, replacing any previous document.
func (s *Store) Index(_ context.Context, id string, fields map[string]any) error {
	if err := s.idx.Index(id, fields); err != nil {
		return &db.Error{Op: db.OpBleveIndex, Err: err}
	}
	return nil
}

// Ping checks that the index is readable.
func (s *Store) Ping(_ context.Context) error {
	if _, err := s.idx.DocCount(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close closes the underlying index.
func (s *Store) Close() {
	_ = s.idx.Close()
}

// WaitForReady returns once the index answers Ping. An embedded index is
// either ready immediately or broken, so there is no polling.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}
