package dataprovider

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain/document"
	"github.com/kailas-cloud/dataprovider/internal/domain/model"
)

// mockBackend records every query it executes. Without executeFn it serves
// a window of docs and reports len(docs) as NumFound.
type mockBackend struct {
	docs      []document.Document
	executeFn func(ctx context.Context, q *db.Query) (document.ResultSet, error)
	queries   []*db.Query
}

func (m *mockBackend) Execute(ctx context.Context, q *db.Query) (document.ResultSet, error) {
	m.queries = append(m.queries, q.Clone())
	if m.executeFn != nil {
		return m.executeFn(ctx, q)
	}
	docs := m.docs
	if w := q.Window(); w != nil {
		docs = window(docs, w.Offset, w.Limit)
	}
	return document.ResultSet{Documents: docs, NumFound: len(m.docs)}, nil
}

// counterBackend adds a Counter to mockBackend.
type counterBackend struct {
	mockBackend
	countFn    func(ctx context.Context, q *db.Query) (int, error)
	countCalls []*db.Query
}

func (m *counterBackend) Count(ctx context.Context, q *db.Query) (int, error) {
	m.countCalls = append(m.countCalls, q.Clone())
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return len(m.docs), nil
}

func window(docs []document.Document, offset, limit int) []document.Document {
	if offset >= len(docs) {
		return nil
	}
	end := offset + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[offset:end]
}

// item is the test model.
type item struct {
	kind   string
	fields map[string]any
}

func (i *item) Field(name string) (any, bool) {
	v, ok := i.fields[name]
	return v, ok
}

func populateItem(kind string) func(doc document.Document) (*item, error) {
	return func(doc document.Document) (*item, error) {
		fields := map[string]any{"id": doc.ID}
		for k, v := range doc.Fields {
			fields[k] = v
		}
		return &item{kind: kind, fields: fields}, nil
	}
}

func bookType() model.Type[*item] {
	return model.Type[*item]{
		Name:       "book",
		Populate:   populateItem("book"),
		Attributes: []string{"title", "published_year"},
		Labels:     map[string]string{"title": "Book Title"},
	}
}

func newRegistry(t *testing.T, types ...model.Type[*item]) *model.Registry[*item] {
	t.Helper()
	if len(types) == 0 {
		types = []model.Type[*item]{bookType()}
	}
	r, err := model.NewRegistry(types...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

// makeDocs returns n documents with ids "1".."n".
func makeDocs(n int) []document.Document {
	docs := make([]document.Document, n)
	for i := range docs {
		id := fmt.Sprintf("%d", i+1)
		docs[i] = document.New(id, 1, map[string]string{
			"title": "Book " + id,
			"isbn":  "isbn-" + id,
			"kind":  "book",
		})
	}
	return docs
}

func newQuery() *db.Query {
	return db.NewQuery("books", "@kind:{book}").Return("title", "isbn", "kind")
}
