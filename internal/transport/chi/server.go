package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain"
	domsort "github.com/kailas-cloud/dataprovider/internal/domain/search/sort"
	healthuc "github.com/kailas-cloud/dataprovider/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dataprovider/internal/usecase/search"
)

// Searcher answers paged searches.
type Searcher interface {
	Search(ctx context.Context, req searchuc.Request) (searchuc.Page, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorCode is the machine-readable error code of an error response.
type errorCode string

const (
	codeBadRequest    errorCode = "bad_request"
	codeUnauthorized  errorCode = "unauthorized"
	codeConfiguration errorCode = "configuration_error"
	codeResolution    errorCode = "resolution_failed"
	codeKeyExtraction errorCode = "key_extraction_failed"
	codeIndexNotFound errorCode = "index_not_found"
	codeBackend       errorCode = "backend_error"
	codeInternal      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchItem struct {
	Key    any               `json:"key"`
	Type   string            `json:"type"`
	ID     string            `json:"id"`
	Score  float64           `json:"score"`
	Fields map[string]string `json:"fields"`
}

type searchResponse struct {
	Items     []searchItem `json:"items"`
	Total     int          `json:"total"`
	Page      int          `json:"page"`
	PageCount int          `json:"page_count"`
	PerPage   int          `json:"per_page"`
	Sort      string       `json:"sort,omitempty"`
}

type healthResponse struct {
	Status    healthuc.Status                 `json:"status"`
	Checks    map[string]healthuc.CheckResult `json:"checks"`
	Documents int                             `json:"documents"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search API.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{search: search, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrConfiguration, http.StatusBadRequest, codeConfiguration),
		sentinelHandler(db.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(db.ErrUnsupportedSort, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrResolution, http.StatusUnprocessableEntity, codeResolution),
		sentinelHandler(domain.ErrKeyExtraction, http.StatusInternalServerError, codeKeyExtraction),
		sentinelHandler(db.ErrIndexNotFound, http.StatusBadGateway, codeIndexNotFound),
		backendErrorHandler,
	}
	return s
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	page, err := intParam(params.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "page must be a positive integer")
		return
	}
	perPage, err := intParam(params.Get("per_page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "per_page must be a positive integer")
		return
	}

	res, err := s.search.Search(r.Context(), searchuc.Request{
		Query:   params.Get("q"),
		Page:    page,
		PerPage: perPage,
		Sort:    params.Get("sort"),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(res))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    report.Status,
		Checks:    report.Checks,
		Documents: report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// intParam parses an optional positive integer query parameter.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err //nolint:wrapcheck // only reported as a 400
	}
	if n < 1 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

func pageToResponse(p searchuc.Page) searchResponse {
	items := make([]searchItem, len(p.Items))
	for i, it := range p.Items {
		fields := it.Record.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		items[i] = searchItem{
			Key:    it.Key,
			Type:   it.Record.Type,
			ID:     it.Record.ID,
			Score:  it.Record.Score,
			Fields: fields,
		}
	}
	return searchResponse{
		Items:     items,
		Total:     p.Total,
		Page:      p.Page,
		PageCount: p.PageCount,
		PerPage:   p.PerPage,
		Sort:      domsort.Param(p.Sort),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Only the sentinel text reaches the client.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// backendErrorHandler maps driver failures to 502 with the failed operation.
func backendErrorHandler(w http.ResponseWriter, err error) bool {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, codeBackend, "search backend failed: "+dbErr.Op)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
