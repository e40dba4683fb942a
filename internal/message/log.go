// Package message implements the per-chat append-only message log.
package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatmesh/chatd/internal/domain"
	"github.com/chatmesh/chatd/internal/store"
)

const chatCollection = "chats"

// Notifier receives message-appended events after the append is durable.
// Implementations must be safe for concurrent use; errors are logged and
// discarded, never surfaced to the appending caller.
type Notifier interface {
	MessageAppended(ctx context.Context, ev domain.MessageAppended) error
}

// Log manages message append/list on top of the document store.
type Log struct {
	store    store.Store
	notifier Notifier
}

// NewLog creates a Log. notifier may be nil.
func NewLog(s store.Store, notifier Notifier) *Log {
	return &Log{store: s, notifier: notifier}
}

func messages(chatID string) string {
	return chatCollection + "/" + chatID + "/messages"
}

// Add appends a message to the chat. Ordering comes from a per-chat
// sequence counter incremented atomically on the chat document, so two
// appends never tie or invert regardless of clock skew. The sender is
// stored as given; membership is not checked here.
func (l *Log) Add(ctx context.Context, projectID, chatID, senderID, text string) (*domain.Message, error) {
	if senderID == "" {
		return nil, fmt.Errorf("sender_id is required: %w", domain.ErrInvalidArgument)
	}

	seq, err := l.store.Increment(ctx, chatCollection, chatID, "message_seq")
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, wrapStoreErr("assign message sequence", err)
	}

	m := domain.Message{
		SenderID:  senderID,
		Text:      text,
		Seq:       seq,
		Timestamp: time.Now().UTC(),
	}
	fields, err := store.Encode(m)
	if err != nil {
		return nil, err
	}
	delete(fields, "id")

	id, err := l.store.Add(ctx, messages(chatID), fields)
	if err != nil {
		return nil, wrapStoreErr("append message", err)
	}
	m.ID = id

	l.notify(ctx, domain.MessageAppended{
		ProjectID: projectID,
		ChatID:    chatID,
		MessageID: m.ID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		Timestamp: m.Timestamp,
	})

	return &m, nil
}

// notify emits the appended event. Notification delivery is best effort:
// a failure here must never fail or roll back the append.
func (l *Log) notify(ctx context.Context, ev domain.MessageAppended) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.MessageAppended(ctx, ev); err != nil {
		slog.Warn("message notification failed",
			"chat_id", ev.ChatID,
			"message_id", ev.MessageID,
			"error", err,
		)
	}
}

// List returns all messages in the chat in ascending sequence order.
func (l *Log) List(ctx context.Context, chatID string) ([]domain.Message, error) {
	docs, err := l.store.Query(ctx, messages(chatID), store.Query{OrderBy: "seq"})
	if err != nil {
		return nil, wrapStoreErr("list messages", err)
	}

	out := make([]domain.Message, 0, len(docs))
	for _, doc := range docs {
		var m domain.Message
		if err := store.Decode(doc.Fields, &m); err != nil {
			return nil, err
		}
		m.ID = doc.ID
		out = append(out, m)
	}
	return out, nil
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, domain.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
