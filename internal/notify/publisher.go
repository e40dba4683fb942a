// Package notify is the notification sink: it carries message-appended
// events over JetStream and fans them out as push notifications to the
// registered devices of the chat's other members. Delivery is best
// effort end to end — a dropped notification is never a correctness
// failure and no error here reaches the message-append caller.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chatmesh/chatd/internal/domain"
	"github.com/nats-io/nats.go/jetstream"
)

// AppendedSubject is the JetStream subject for message-appended events.
const AppendedSubject = "notify.message.appended"

// Publisher publishes message-appended events to JetStream. It satisfies
// the message log's Notifier interface.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// MessageAppended publishes the event with the message id as MsgID so
// retried appends dedupe on the stream.
func (p *Publisher) MessageAppended(ctx context.Context, ev domain.MessageAppended) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal appended event: %w", err)
	}

	ack, err := p.js.Publish(ctx, AppendedSubject, data,
		jetstream.WithMsgID(ev.MessageID),
	)
	if err != nil {
		return fmt.Errorf("publish to JetStream: %w", err)
	}

	slog.Debug("appended event published",
		"message_id", ev.MessageID,
		"chat_id", ev.ChatID,
		"stream", ack.Stream,
		"seq", ack.Sequence,
	)
	return nil
}
