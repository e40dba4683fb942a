// Package chat implements the chat directory: direct-chat creation with
// pair dedup, group chats, listing and lookup.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatmesh/chatd/internal/domain"
	"github.com/chatmesh/chatd/internal/store"
)

const (
	collection = "chats"

	// pairIndex is a uniqueness-index collection keyed by
	// "<project_id>:<pair_key>". Writing it with create-if-absent closes
	// the check-then-insert race on direct-chat dedup: whoever wins the
	// index insert owns the chat, everyone else takes the "existed" path.
	pairIndex = "chat_pairs"
)

// Directory manages chats on top of the document store.
type Directory struct {
	store store.Store
}

// NewDirectory creates a Directory.
func NewDirectory(s store.Store) *Directory {
	return &Directory{store: s}
}

func pairIndexID(projectID, pairKey string) string {
	return projectID + ":" + pairKey
}

// CreateDirect returns the project's direct chat for the unordered pair
// (userA, userB), creating it if absent. The returned bool is true when
// the chat already existed; an existing chat is returned unchanged, no
// fields are refreshed.
func (d *Directory) CreateDirect(ctx context.Context, projectID, userA, userB string) (*domain.Chat, bool, error) {
	users := domain.NormalizeUsers([]string{userA, userB})
	if len(users) != 2 {
		return nil, false, fmt.Errorf("direct chat requires exactly 2 distinct users: %w", domain.ErrInvalidArgument)
	}

	pair := domain.PairKey(users[0], users[1])

	existing, err := d.findDirect(ctx, projectID, pair)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	c := domain.Chat{
		ProjectID: projectID,
		Type:      domain.ChatDirect,
		Users:     users,
		PairKey:   pair,
		CreatedAt: time.Now().UTC(),
	}
	fields, err := store.Encode(c)
	if err != nil {
		return nil, false, err
	}
	delete(fields, "id")

	id, err := d.store.Add(ctx, collection, fields)
	if err != nil {
		return nil, false, wrapStoreErr("create direct chat", err)
	}
	c.ID = id

	// Claim the pair. Losing the claim means a concurrent caller created
	// the same chat between our scan and our insert; back out ours and
	// return the winner's.
	err = d.store.Create(ctx, pairIndex, pairIndexID(projectID, pair), map[string]any{"chat_id": id})
	if errors.Is(err, store.ErrExists) {
		if delErr := d.store.Delete(ctx, collection, id); delErr != nil {
			slog.Warn("failed to remove duplicate direct chat", "chat_id", id, "error", delErr)
		}
		winner, findErr := d.findDirect(ctx, projectID, pair)
		if findErr != nil {
			return nil, false, findErr
		}
		if winner == nil {
			return nil, false, fmt.Errorf("direct chat for pair %s vanished: %w", pair, domain.ErrNotFound)
		}
		return winner, true, nil
	}
	if err != nil {
		return nil, false, wrapStoreErr("claim chat pair", err)
	}

	slog.Info("direct chat created", "chat_id", id, "project_id", projectID, "pair_key", pair)
	return &c, false, nil
}

func (d *Directory) findDirect(ctx context.Context, projectID, pair string) (*domain.Chat, error) {
	docs, err := d.store.Query(ctx, collection, store.Query{
		Filters: []store.Filter{
			{Field: "project_id", Value: projectID},
			{Field: "type", Value: string(domain.ChatDirect)},
			{Field: "pair_key", Value: pair},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, wrapStoreErr("find direct chat", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeChat(docs[0])
}

// CreateGroup creates a group chat. Members are deduped and sorted; two
// group chats with identical membership are allowed.
func (d *Directory) CreateGroup(ctx context.Context, projectID string, users []string, title string) (*domain.Chat, error) {
	members := domain.NormalizeUsers(users)
	if len(members) < 2 {
		return nil, fmt.Errorf("group chat requires at least 2 distinct users: %w", domain.ErrInvalidArgument)
	}

	c := domain.Chat{
		ProjectID: projectID,
		Type:      domain.ChatGroup,
		Users:     members,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	fields, err := store.Encode(c)
	if err != nil {
		return nil, err
	}
	delete(fields, "id")

	id, err := d.store.Add(ctx, collection, fields)
	if err != nil {
		return nil, wrapStoreErr("create group chat", err)
	}
	c.ID = id

	slog.Info("group chat created", "chat_id", id, "project_id", projectID, "members", len(members))
	return &c, nil
}

// List returns all chats owned by the project, in no particular order.
func (d *Directory) List(ctx context.Context, projectID string) ([]domain.Chat, error) {
	docs, err := d.store.Query(ctx, collection, store.Query{
		Filters: []store.Filter{{Field: "project_id", Value: projectID}},
	})
	if err != nil {
		return nil, wrapStoreErr("list chats", err)
	}

	out := make([]domain.Chat, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeChat(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Get returns a chat by id regardless of project. It is a raw accessor:
// callers must check the returned chat's ProjectID against the
// authenticated tenant before exposing it.
func (d *Directory) Get(ctx context.Context, chatID string) (*domain.Chat, error) {
	fields, err := d.store.Get(ctx, collection, chatID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, wrapStoreErr("get chat", err)
	}

	var c domain.Chat
	if err := store.Decode(fields, &c); err != nil {
		return nil, err
	}
	c.ID = chatID
	return &c, nil
}

// Authorize returns the chat if it exists and belongs to projectID.
// A tenant mismatch is an authorization failure, not a not-found.
func (d *Directory) Authorize(ctx context.Context, projectID, chatID string) (*domain.Chat, error) {
	c, err := d.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if c.ProjectID != projectID {
		return nil, fmt.Errorf("chat %s belongs to another project: %w", chatID, domain.ErrUnauthorized)
	}
	return c, nil
}

func decodeChat(doc store.Document) (*domain.Chat, error) {
	var c domain.Chat
	if err := store.Decode(doc.Fields, &c); err != nil {
		return nil, err
	}
	c.ID = doc.ID
	return &c, nil
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, domain.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
