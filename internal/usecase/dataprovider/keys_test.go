package dataprovider

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/dataprovider/internal/domain"
	"github.com/kailas-cloud/dataprovider/internal/domain/model"
)

func TestKeySpec_Precedence(t *testing.T) {
	m := &item{fields: map[string]any{"id": "7", "isbn": "x-7", "edition": 2}}

	tests := []struct {
		name     string
		spec     KeySpec[*item]
		identity []string
		want     any
	}{
		{"field beats identity", KeyByField[*item]("isbn"), []string{"id"}, "x-7"},
		{"func beats identity", KeyByFunc(func(m *item) any { return "fn" }), []string{"id"}, "fn"},
		{"single identity", KeySpec[*item]{}, []string{"id"}, "7"},
		{"composite identity", KeySpec[*item]{}, []string{"isbn", "edition"}, map[string]any{"isbn": "x-7", "edition": 2}},
		{"position", KeySpec[*item]{}, nil, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.spec.keyOf(3, m, tc.identity)
			if err != nil {
				t.Fatalf("keyOf: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("key = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestKeySpec_MissingField(t *testing.T) {
	m := &item{fields: map[string]any{"id": "1"}}

	for _, tc := range []struct {
		name     string
		spec     KeySpec[*item]
		identity []string
	}{
		{"explicit", KeyByField[*item]("sku"), nil},
		{"identity", KeySpec[*item]{}, []string{"sku"}},
		{"composite", KeySpec[*item]{}, []string{"id", "sku"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.spec.keyOf(4, m, tc.identity)
			var ke *domain.KeyExtractionError
			if !errors.As(err, &ke) {
				t.Fatalf("expected KeyExtractionError, got %v", err)
			}
			if ke.Field != "sku" || ke.Index != 4 {
				t.Errorf("unexpected details: %+v", ke)
			}
		})
	}
}

func TestProvider_KeysFollowModels(t *testing.T) {
	book := bookType()
	book.Identity = []string{"isbn"}
	p := New(&mockBackend{docs: makeDocs(6)}, Config[*item]{
		Query: newQuery(), Types: newRegistry(t, book), Resolver: model.Fixed("book"),
	})
	ctx := context.Background()

	keys, err := p.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	models, err := p.Models(ctx)
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(keys) != len(models) {
		t.Fatalf("len(keys) = %d, len(models) = %d", len(keys), len(models))
	}
	for i, m := range models {
		v, _ := m.Field("isbn")
		if keys[i] != v {
			t.Errorf("keys[%d] = %v, model isbn = %v", i, keys[i], v)
		}
	}
}

func TestProvider_KeyFieldBeatsIdentity(t *testing.T) {
	book := bookType()
	book.Identity = []string{"isbn"}
	p := New(&mockBackend{docs: makeDocs(2)}, Config[*item]{
		Query: newQuery(), Types: newRegistry(t, book), Resolver: model.Fixed("book"),
		Key: KeyByField[*item]("id"),
	})

	keys, err := p.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []any{"1", "2"}) {
		t.Errorf("keys = %v", keys)
	}
}

func TestProvider_KeyErrorNotMemoized(t *testing.T) {
	p := New(&mockBackend{docs: makeDocs(2)}, Config[*item]{
		Query: newQuery(), Types: newRegistry(t), Resolver: model.Fixed("book"),
		Key: KeyByField[*item]("sku"),
	})
	ctx := context.Background()

	for range 2 {
		if _, err := p.Keys(ctx); !errors.Is(err, domain.ErrKeyExtraction) {
			t.Fatalf("expected ErrKeyExtraction, got %v", err)
		}
	}
	// Models stay usable.
	if n, err := p.Count(ctx); err != nil || n != 2 {
		t.Errorf("Count = %d, %v", n, err)
	}
}
