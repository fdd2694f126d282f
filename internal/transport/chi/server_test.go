package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dataprovider/internal/db"
	blevestore "github.com/kailas-cloud/dataprovider/internal/db/bleve"
	"github.com/kailas-cloud/dataprovider/internal/domain"
	searchrepo "github.com/kailas-cloud/dataprovider/internal/repository/search"
	healthuc "github.com/kailas-cloud/dataprovider/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dataprovider/internal/usecase/search"
)

// --- Mocks ---

type mockSearcher struct {
	searchFn func(ctx context.Context, req searchuc.Request) (searchuc.Page, error)
	last     searchuc.Request
}

func (m *mockSearcher) Search(ctx context.Context, req searchuc.Request) (searchuc.Page, error) {
	m.last = req
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return searchuc.Page{}, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestServer(s Searcher, h HealthChecker, keys ...string) http.Handler {
	if h == nil {
		h = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}
	return NewServer(s, h, zap.NewNop()).Router(keys)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", target, http.NoBody))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// --- Tests ---

func TestSearch_PassesParams(t *testing.T) {
	ms := &mockSearcher{searchFn: func(context.Context, searchuc.Request) (searchuc.Page, error) {
		return searchuc.Page{
			Items: []searchuc.Item{{
				Key:    "isbn-1",
				Record: searchuc.Record{ID: "1", Type: "book", Score: 1.5, Fields: map[string]string{"title": "Dune"}},
			}},
			Total: 21, Page: 3, PageCount: 3, PerPage: 10,
		}, nil
	}}
	rr := get(t, newTestServer(ms, nil), "/v1/search?q=dune&page=3&per_page=10&sort=-year")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	want := searchuc.Request{Query: "dune", Page: 3, PerPage: 10, Sort: "-year"}
	if ms.last != want {
		t.Errorf("request = %+v, want %+v", ms.last, want)
	}

	resp := decode[searchResponse](t, rr)
	if resp.Total != 21 || resp.Page != 3 || resp.PageCount != 3 || resp.PerPage != 10 {
		t.Errorf("unexpected meta: %+v", resp)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	it := resp.Items[0]
	if it.Key != "isbn-1" || it.Type != "book" || it.ID != "1" || it.Fields["title"] != "Dune" {
		t.Errorf("unexpected item: %+v", it)
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	h := newTestServer(&mockSearcher{}, nil)
	for _, target := range []string{"/v1/search?page=abc", "/v1/search?page=0", "/v1/search?per_page=-5"} {
		rr := get(t, h, target)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rr.Code)
		}
		if resp := decode[errorResponse](t, rr); resp.Code != codeBadRequest {
			t.Errorf("%s: code = %s", target, resp.Code)
		}
	}
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   errorCode
	}{
		{"configuration", domain.NewConfigurationError("query", "index is required"), http.StatusBadRequest, codeConfiguration},
		{"invalid query", fmt.Errorf("count: %w", db.ErrInvalidQuery), http.StatusBadRequest, codeBadRequest},
		{"resolution", &domain.ResolutionError{DocumentID: "1", Type: "magazine"}, http.StatusUnprocessableEntity, codeResolution},
		{"key extraction", &domain.KeyExtractionError{Field: "isbn"}, http.StatusInternalServerError, codeKeyExtraction},
		{"index not found", &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}, http.StatusBadGateway, codeIndexNotFound},
		{"backend", &db.Error{Op: db.OpSearch, Err: fmt.Errorf("connection reset")}, http.StatusBadGateway, codeBackend},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, codeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ms := &mockSearcher{searchFn: func(context.Context, searchuc.Request) (searchuc.Page, error) {
				return searchuc.Page{}, tc.err
			}}
			rr := get(t, newTestServer(ms, nil), "/v1/search")

			if rr.Code != tc.status {
				t.Errorf("status = %d, want %d", rr.Code, tc.status)
			}
			if resp := decode[errorResponse](t, rr); resp.Code != tc.code {
				t.Errorf("code = %s, want %s", resp.Code, tc.code)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		status healthuc.Status
		want   int
	}{
		{healthuc.Healthy, http.StatusOK},
		{healthuc.Degraded, http.StatusServiceUnavailable},
		{healthuc.Unhealthy, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			h := &mockHealth{report: healthuc.Report{
				Status:    tc.status,
				Checks:    map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
				Documents: 3,
			}}
			rr := get(t, newTestServer(&mockSearcher{}, h, "secret"), "/health")

			if rr.Code != tc.want {
				t.Errorf("status = %d, want %d", rr.Code, tc.want)
			}
			resp := decode[healthResponse](t, rr)
			if resp.Status != tc.status || resp.Documents != 3 {
				t.Errorf("unexpected body: %+v", resp)
			}
		})
	}
}

func TestRouter_AuthAndNotFound(t *testing.T) {
	h := newTestServer(&mockSearcher{}, nil, "secret")

	if rr := get(t, h, "/v1/search"); rr.Code != http.StatusUnauthorized {
		t.Errorf("search without token: %d", rr.Code)
	}

	req := httptest.NewRequest("GET", "/v1/search", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("search with token: %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	req = httptest.NewRequest("GET", "/v2/unknown", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown route: %d", rr.Code)
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	ms := &mockSearcher{searchFn: func(context.Context, searchuc.Request) (searchuc.Page, error) {
		panic("boom")
	}}
	rr := get(t, newTestServer(ms, nil), "/v1/search")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if resp := decode[errorResponse](t, rr); resp.Code != codeInternal {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestSearch_EndToEndOverBleve(t *testing.T) {
	store, err := blevestore.NewMemStore("catalog")
	if err != nil {
		t.Fatalf("NewMemStore: %v", err)
	}
	t.Cleanup(store.Close)
	for i := 1; i <= 25; i++ {
		err := store.Index(context.Background(), fmt.Sprintf("catalog:%d", i), map[string]any{
			"kind":  "book",
			"title": fmt.Sprintf("Book %02d", i),
			"isbn":  fmt.Sprintf("isbn-%02d", i),
			"year":  float64(1990 + i),
		})
		if err != nil {
			t.Fatalf("Index: %v", err)
		}
	}

	svc, err := searchuc.New(searchrepo.New(store, "catalog:"), searchuc.Settings{
		Index: "catalog", DefaultPageSize: 10, MaxPageSize: 50, DefaultType: "book",
	}, searchuc.TypeSpec{Name: "book", Attributes: []string{"title", "year"}, Identity: []string{"isbn"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rr := get(t, newTestServer(svc, nil), "/v1/search?page=2&sort=year")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	resp := decode[searchResponse](t, rr)
	if resp.Total != 25 || resp.Page != 2 || resp.PageCount != 3 || len(resp.Items) != 10 {
		t.Fatalf("unexpected page: total %d page %d count %d items %d",
			resp.Total, resp.Page, resp.PageCount, len(resp.Items))
	}
	if resp.Items[0].Key != "isbn-11" || resp.Items[9].Key != "isbn-20" {
		t.Errorf("unexpected keys: %v .. %v", resp.Items[0].Key, resp.Items[9].Key)
	}
	if resp.Items[0].ID != "11" || resp.Items[0].Type != "book" {
		t.Errorf("unexpected first item: %+v", resp.Items[0])
	}
	if resp.Sort != "year" {
		t.Errorf("sort = %q, want year", resp.Sort)
	}
}
