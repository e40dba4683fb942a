//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a throwaway Postgres and returns a migrated
// store against it.
func startPostgres(t *testing.T) *Postgres {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	postgresC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("chatd_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}
	t.Cleanup(func() {
		postgresC.Terminate(context.Background())
	})

	url, err := postgresC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pg, err := ConnectPostgres(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pg.Close)

	if err := pg.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pg
}

func TestPostgresStoreContract(t *testing.T) {
	pg := startPostgres(t)
	ctx := context.Background()

	t.Run("SetGetDelete", func(t *testing.T) {
		if err := pg.Set(ctx, "things", "a", map[string]any{"name": "one"}); err != nil {
			t.Fatalf("Set: %v", err)
		}
		fields, err := pg.Get(ctx, "things", "a")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if fields["name"] != "one" {
			t.Fatalf("fields = %v", fields)
		}

		// Set overwrites completely.
		if err := pg.Set(ctx, "things", "a", map[string]any{"other": true}); err != nil {
			t.Fatalf("Set overwrite: %v", err)
		}
		fields, _ = pg.Get(ctx, "things", "a")
		if _, ok := fields["name"]; ok {
			t.Fatal("overwrite kept old field")
		}

		if err := pg.Delete(ctx, "things", "a"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := pg.Get(ctx, "things", "a"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get after delete = %v, want ErrNotFound", err)
		}
		// Idempotent delete.
		if err := pg.Delete(ctx, "things", "a"); err != nil {
			t.Fatalf("second Delete: %v", err)
		}
	})

	t.Run("CreateConflict", func(t *testing.T) {
		if err := pg.Create(ctx, "claims", "k", map[string]any{"v": 1}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := pg.Create(ctx, "claims", "k", map[string]any{"v": 2}); !errors.Is(err, ErrExists) {
			t.Fatalf("second Create = %v, want ErrExists", err)
		}
		fields, _ := pg.Get(ctx, "claims", "k")
		if asInt(t, fields["v"]) != 1 {
			t.Fatalf("losing create overwrote: %v", fields)
		}
	})

	t.Run("UpdateMerges", func(t *testing.T) {
		pg.Set(ctx, "things", "m", map[string]any{"a": 1, "b": 2})
		if err := pg.Update(ctx, "things", "m", map[string]any{"b": 3, "c": 4}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		fields, _ := pg.Get(ctx, "things", "m")
		if asInt(t, fields["a"]) != 1 || asInt(t, fields["b"]) != 3 || asInt(t, fields["c"]) != 4 {
			t.Fatalf("merge = %v", fields)
		}

		if err := pg.Update(ctx, "things", "missing", map[string]any{"x": 1}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Update missing = %v, want ErrNotFound", err)
		}
	})

	t.Run("AddAndQuery", func(t *testing.T) {
		ids := map[string]bool{}
		for i, owner := range []string{"p1", "p1", "p2"} {
			id, err := pg.Add(ctx, "rows", map[string]any{"owner": owner, "n": i})
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if ids[id] {
				t.Fatalf("duplicate generated id %s", id)
			}
			ids[id] = true
		}

		docs, err := pg.Query(ctx, "rows", Query{
			Filters: []Filter{{Field: "owner", Value: "p1"}},
		})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("got %d docs, want 2", len(docs))
		}

		docs, err = pg.Query(ctx, "rows", Query{OrderBy: "n", Limit: 2})
		if err != nil {
			t.Fatalf("Query ordered: %v", err)
		}
		if len(docs) != 2 || asInt(t, docs[0].Fields["n"]) != 0 || asInt(t, docs[1].Fields["n"]) != 1 {
			t.Fatalf("ordered docs = %+v", docs)
		}
	})

	t.Run("IncrementIsSequential", func(t *testing.T) {
		pg.Set(ctx, "counters", "c", map[string]any{"label": "keep"})
		for want := int64(1); want <= 5; want++ {
			got, err := pg.Increment(ctx, "counters", "c", "seq")
			if err != nil {
				t.Fatalf("Increment: %v", err)
			}
			if got != want {
				t.Fatalf("Increment = %d, want %d", got, want)
			}
		}
		fields, _ := pg.Get(ctx, "counters", "c")
		if fields["label"] != "keep" {
			t.Fatal("Increment dropped sibling field")
		}

		if _, err := pg.Increment(ctx, "counters", "missing", "seq"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Increment missing = %v, want ErrNotFound", err)
		}
	})

	t.Run("IncrementUnderContention", func(t *testing.T) {
		pg.Set(ctx, "counters", "race", map[string]any{})

		const n = 20
		results := make(chan int64, n)
		for i := 0; i < n; i++ {
			go func() {
				v, err := pg.Increment(ctx, "counters", "race", "seq")
				if err != nil {
					results <- -1
					return
				}
				results <- v
			}()
		}

		seen := map[int64]bool{}
		for i := 0; i < n; i++ {
			v := <-results
			if v < 1 || seen[v] {
				t.Fatalf("duplicate or invalid sequence %d", v)
			}
			seen[v] = true
		}
	})
}

func asInt(t *testing.T, v any) int64 {
	t.Helper()
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		t.Fatalf("not a number: %T %v", v, v)
		return 0
	}
}
