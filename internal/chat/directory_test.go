package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/chatmesh/chatd/internal/domain"
	"github.com/chatmesh/chatd/internal/store"
)

func TestCreateDirect_Dedup(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory())

	first, existed, err := d.CreateDirect(ctx, "p1", "alice", "bob")
	if err != nil {
		t.Fatalf("CreateDirect: %v", err)
	}
	if existed {
		t.Fatal("first creation reported existed=true")
	}
	if first.PairKey != "alice:bob" {
		t.Fatalf("pair_key = %q, want alice:bob", first.PairKey)
	}

	// Reversed argument order resolves to the same chat.
	second, existed, err := d.CreateDirect(ctx, "p1", "bob", "alice")
	if err != nil {
		t.Fatalf("CreateDirect reversed: %v", err)
	}
	if !existed {
		t.Fatal("second creation reported existed=false")
	}
	if second.ID != first.ID {
		t.Fatalf("dedup failed: %s != %s", second.ID, first.ID)
	}
	if second.PairKey != first.PairKey {
		t.Fatalf("pair keys differ: %q vs %q", second.PairKey, first.PairKey)
	}
}

func TestCreateDirect_Validation(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	d := NewDirectory(s)

	tests := []struct {
		name string
		a, b string
	}{
		{"same user", "alice", "alice"},
		{"empty user", "alice", ""},
		{"both empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := d.CreateDirect(ctx, "p1", tt.a, tt.b)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("CreateDirect(%q, %q) = %v, want ErrInvalidArgument", tt.a, tt.b, err)
			}
		})
	}

	// Rejection happens before any store write.
	docs, _ := s.Query(ctx, collection, store.Query{})
	if len(docs) != 0 {
		t.Fatalf("invalid requests wrote %d chats", len(docs))
	}
}

func TestCreateDirect_RaceLoserTakesExistedPath(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	d := NewDirectory(s)

	winner, _, err := d.CreateDirect(ctx, "p1", "alice", "bob")
	if err != nil {
		t.Fatalf("CreateDirect: %v", err)
	}

	// Simulate a concurrent creation that slipped past the scan: the chat
	// document exists but our caller never saw it, so it inserts its own
	// and then loses the pair-index claim.
	fields, _ := store.Encode(domain.Chat{
		ProjectID: "p1",
		Type:      domain.ChatDirect,
		Users:     []string{"alice", "bob"},
		PairKey:   domain.PairKey("alice", "bob"),
	})
	delete(fields, "id")
	loserID, _ := s.Add(ctx, collection, fields)

	err = s.Create(ctx, pairIndex, pairIndexID("p1", "alice:bob"), map[string]any{"chat_id": loserID})
	if !errors.Is(err, store.ErrExists) {
		t.Fatalf("pair index claim = %v, want ErrExists", err)
	}

	// A follow-up CreateDirect still resolves to exactly one chat.
	got, existed, err := d.CreateDirect(ctx, "p1", "bob", "alice")
	if err != nil {
		t.Fatalf("CreateDirect after race: %v", err)
	}
	if !existed {
		t.Fatal("expected existed=true")
	}
	if got.ID != winner.ID && got.ID != loserID {
		t.Fatalf("resolved to unknown chat %s", got.ID)
	}
}

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory())

	t.Run("dedupes and sorts members", func(t *testing.T) {
		c, err := d.CreateGroup(ctx, "p1", []string{"u1", "u2", "u1"}, "team")
		if err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}
		if len(c.Users) != 2 || c.Users[0] != "u1" || c.Users[1] != "u2" {
			t.Fatalf("users = %v, want [u1 u2]", c.Users)
		}
		if c.Title != "team" {
			t.Fatalf("title = %q", c.Title)
		}
		if c.PairKey != "" {
			t.Fatalf("group chat has pair_key %q", c.PairKey)
		}
	})

	t.Run("identical membership allowed twice", func(t *testing.T) {
		a, _ := d.CreateGroup(ctx, "p1", []string{"x", "y"}, "")
		b, err := d.CreateGroup(ctx, "p1", []string{"x", "y"}, "")
		if err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}
		if a.ID == b.ID {
			t.Fatal("group chats must not dedup")
		}
	})

	t.Run("rejects fewer than 2 distinct users", func(t *testing.T) {
		_, err := d.CreateGroup(ctx, "p1", []string{"solo", "solo"}, "")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("CreateGroup = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory())

	c1, _, err := d.CreateDirect(ctx, "p1", "alice", "bob")
	if err != nil {
		t.Fatalf("CreateDirect: %v", err)
	}

	// Same pair under another project is a distinct chat.
	c2, existed, err := d.CreateDirect(ctx, "p2", "alice", "bob")
	if err != nil {
		t.Fatalf("CreateDirect p2: %v", err)
	}
	if existed || c2.ID == c1.ID {
		t.Fatal("pair dedup leaked across projects")
	}

	// p1's chat never shows up in p2's listing.
	chats, err := d.List(ctx, "p2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, c := range chats {
		if c.ID == c1.ID {
			t.Fatal("chat listed under wrong project")
		}
	}

	// Direct lookup works cross-tenant, Authorize does not.
	if _, err := d.Get(ctx, c1.ID); err != nil {
		t.Fatalf("Get is a raw accessor, got %v", err)
	}
	_, err = d.Authorize(ctx, "p2", c1.ID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Authorize cross-tenant = %v, want ErrUnauthorized", err)
	}
}

func TestGetMissing(t *testing.T) {
	d := NewDirectory(store.NewMemory())
	_, err := d.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
}
