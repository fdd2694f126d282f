package health

import (
	"context"

	"github.com/kailas-cloud/dataprovider/internal/db"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the database answers but the index does not.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped indicates a check that depends on a failed one.
	CheckSkipped CheckResult = "skipped"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Documents int // matches in the served index, when known
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	counter IndexCounter
	index   string
}

// New creates a Service. counter can be nil, which skips the index probe.
func New(db DBPinger, counter IndexCounter, index string) *Service {
	return &Service{db: db, counter: counter, index: index}
}

// Check pings the database, then probes the served index with a match-all count.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: map[string]CheckResult{"database": CheckOK}}

	if err := s.db.Ping(ctx); err != nil {
		r.Checks["database"] = CheckError
		r.Status = Unhealthy
		if s.counter != nil {
			r.Checks["index"] = CheckSkipped
		}
		return r
	}

	if s.counter == nil {
		return r
	}

	n, err := s.counter.Count(ctx, db.NewQuery(s.index, db.MatchAll))
	if err != nil {
		r.Checks["index"] = CheckError
		r.Status = Degraded
		return r
	}
	r.Checks["index"] = CheckOK
	r.Documents = n
	return r
}
