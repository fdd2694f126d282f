package dataprovider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain/document"
	"github.com/kailas-cloud/dataprovider/internal/metrics"
)

const (
	pathModels = "models"
	pathCount  = "count"
)

// InstrumentedBackend wraps a Backend with query metrics and logging.
// It always offers Count; when the inner backend has no Counter the count
// falls back to Execute.
type InstrumentedBackend struct {
	inner   Backend
	backend string
	logger  *zap.Logger
}

// NewInstrumentedBackend wraps inner. name labels log entries (redis, bleve).
func NewInstrumentedBackend(inner Backend, name string, logger *zap.Logger) *InstrumentedBackend {
	return &InstrumentedBackend{inner: inner, backend: name, logger: logger}
}

// Execute delegates to the inner backend and records the query.
func (b *InstrumentedBackend) Execute(ctx context.Context, q *db.Query) (document.ResultSet, error) {
	start := time.Now()
	rs, err := b.inner.Execute(ctx, q)
	b.observe(pathModels, q, time.Since(start), err)
	if err != nil {
		return document.ResultSet{}, err
	}

	metrics.BackendDocumentsTotal.Add(float64(len(rs.Documents)))
	return rs, nil
}

// Count delegates to the inner backend and records the query.
func (b *InstrumentedBackend) Count(ctx context.Context, q *db.Query) (int, error) {
	start := time.Now()
	n, err := count(ctx, b.inner, q)
	b.observe(pathCount, q, time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (b *InstrumentedBackend) observe(path string, q *db.Query, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.BackendQueriesTotal.WithLabelValues(path, status).Inc()
	metrics.BackendQueryDuration.WithLabelValues(path).Observe(d.Seconds())

	if err != nil {
		b.logger.Error("Backend query failed",
			zap.String("backend", b.backend),
			zap.String("path", path),
			zap.String("index", q.Index),
			zap.Duration("duration", d),
			zap.Error(err),
		)
		return
	}
	b.logger.Debug("Backend query completed",
		zap.String("backend", b.backend),
		zap.String("path", path),
		zap.String("index", q.Index),
		zap.Duration("duration", d),
	)
}
