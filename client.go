// Package dataprovider is the embedded client: it pages through a search
// index without running the HTTP server.
package dataprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/dataprovider/internal/db"
	dbBleve "github.com/kailas-cloud/dataprovider/internal/db/bleve"
	dbRedis "github.com/kailas-cloud/dataprovider/internal/db/redis"
	searchrepo "github.com/kailas-cloud/dataprovider/internal/repository/search"
	searchuc "github.com/kailas-cloud/dataprovider/internal/usecase/search"
)

const (
	driverRedis = "redis"
	driverBleve = "bleve"

	defaultReadinessTimeout = 10 * time.Second
)

// ErrNotIndexable is returned by Index for drivers that are read-only here.
var ErrNotIndexable = errors.New("dataprovider: driver does not support indexing")

type indexer interface {
	Index(ctx context.Context, id string, fields map[string]any) error
}

// Client is the dataprovider SDK entry point.
type Client struct {
	store db.Store
	svc   *searchuc.Service
}

// New creates a Client and connects to the search backend.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.index == "" {
		return nil, errors.New("dataprovider: index required (use WithIndex)")
	}
	if len(cfg.types) == 0 {
		return nil, errors.New("dataprovider: at least one record type required (use WithType)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("dataprovider: database not ready: %w", err)
	}

	return wireClient(store, cfg)
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverRedis:
		if len(cfg.addrs) == 0 {
			return nil, errors.New("dataprovider: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("dataprovider: create redis store: %w", err)
		}
		return s, nil
	case driverBleve:
		s, err := dbBleve.NewStore(cfg.index, dbBleve.Config{Path: cfg.blevePath})
		if err != nil {
			return nil, fmt.Errorf("dataprovider: create bleve store: %w", err)
		}
		return s, nil
	case "":
		return nil, errors.New("dataprovider: backend required (use WithRedis or WithBleve)")
	default:
		return nil, fmt.Errorf("dataprovider: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	specs := make([]searchuc.TypeSpec, 0, len(cfg.types))
	for _, name := range cfg.types {
		tc := cfg.typeConfigs[name]
		specs = append(specs, searchuc.TypeSpec{
			Name:       name,
			Attributes: tc.attributes,
			Labels:     tc.labels,
			Identity:   tc.identity,
		})
	}

	defaultType := cfg.defaultType
	if cfg.typeField != "" {
		defaultType = ""
	}

	svc, err := searchuc.New(searchrepo.New(store, cfg.keyPrefix), searchuc.Settings{
		Index:           cfg.index,
		Filter:          cfg.filter,
		ReturnFields:    cfg.returnFields,
		DefaultPageSize: cfg.defaultPageSize,
		MaxPageSize:     cfg.maxPageSize,
		KeyField:        cfg.keyField,
		TypeField:       cfg.typeField,
		DefaultType:     defaultType,
		DefaultSort:     cfg.defaultSort,
		MultiSort:       cfg.multiSort,
	}, specs...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("dataprovider: %w", err)
	}

	return &Client{store: store, svc: svc}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Index stores a document. Only the bleve driver accepts writes.
func (c *Client) Index(ctx context.Context, id string, fields map[string]any) error {
	ix, ok := c.store.(indexer)
	if !ok {
		return ErrNotIndexable
	}
	if err := ix.Index(ctx, id, fields); err != nil {
		return fmt.Errorf("index %s: %w", id, err)
	}
	return nil
}
