package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/dataprovider/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- search.go tests ---

func TestSearch_PlainQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "books", "*", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("lib:books:1"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("Dune")),
			mock.RedisString("lib:books:2"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("Emma")),
		)))

	s := NewStoreForTest(c)
	result, err := s.Search(context.Background(), db.NewQuery("books", "*"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Key != "lib:books:1" || result.Entries[0].Fields["title"] != "Dune" {
		t.Errorf("unexpected first entry: %+v", result.Entries[0])
	}
	if result.Entries[1].Key != "lib:books:2" {
		t.Errorf("order not preserved: %+v", result.Entries)
	}
}

func TestSearch_WindowSortAndReturn(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "books", "@lang:{go}",
			"RETURN", "2", "title", "year",
			"SORTBY", "year", "DESC",
			"LIMIT", "10", "5",
			"DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	q := db.NewQuery("books", "@lang:{go}").Return("title", "year")
	q.SetWindow(10, 5).AddSort("year", db.SortDesc)

	s := NewStoreForTest(c)
	result, err := s.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestSearch_MultipleSortKeysRejected(t *testing.T) {
	s := &Store{}
	q := db.NewQuery("books", "*").AddSort("year", db.SortAsc).AddSort("title", db.SortAsc)

	_, err := s.Search(context.Background(), q)
	if !errors.Is(err, db.ErrUnsupportedSort) {
		t.Fatalf("expected ErrUnsupportedSort, got %v", err)
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	s := &Store{}
	_, err := s.Search(context.Background(), db.NewQuery("", "*"))
	if !errors.Is(err, db.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), db.NewQuery("books", "*"))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *db.Error, got %T", err)
	}
	if dbErr.Op != db.OpSearch {
		t.Errorf("expected op %s, got %s", db.OpSearch, dbErr.Op)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected wrapped DeadlineExceeded")
	}
}

func TestSearch_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), db.NewQuery("books", "*"))
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearchCount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "books", "@lang:{go}", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	q := db.NewQuery("books", "@lang:{go}")
	q.SetWindow(20, 10).AddSort("year", db.SortAsc)

	s := NewStoreForTest(c)
	count, err := s.SearchCount(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}
}

func TestSearchCount_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray()))

	s := NewStoreForTest(c)
	count, err := s.SearchCount(context.Background(), db.NewQuery("books", "*"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}

func TestParseFieldPairs_OddLength(t *testing.T) {
	m := parseFieldPairs([]rueidis.RedisMessage{
		mock.RedisString("a"), mock.RedisString("1"),
		mock.RedisString("dangling"),
	})
	if len(m) != 1 || m["a"] != "1" {
		t.Errorf("unexpected pairs: %v", m)
	}
}

func TestIsRedisErr(t *testing.T) {
	if isRedisErr(errors.New("plain"), "plain") {
		t.Error("non-redis error must not match")
	}
}
