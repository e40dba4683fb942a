package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/chatmesh/chatd/internal/chat"
	"github.com/chatmesh/chatd/internal/domain"
	"github.com/nats-io/nats.go/jetstream"
)

// pushRequest is the payload POSTed to the push gateway, one per device.
type pushRequest struct {
	Token     string `json:"token"`
	Platform  string `json:"platform,omitempty"`
	ProjectID string `json:"project_id"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text"`
}

// Worker consumes message-appended events and fans out push
// notifications. Every failure path logs and acks: the sink must never
// hold up or replay into the core's write path.
type Worker struct {
	directory  *chat.Directory
	devices    *Devices
	gateway    *GatewayConfig
	httpClient *http.Client
	stream     jetstream.Stream
}

// NewWorker creates a delivery worker.
func NewWorker(stream jetstream.Stream, directory *chat.Directory, devices *Devices, gateway *GatewayConfig) *Worker {
	return &Worker{
		directory: directory,
		devices:   devices,
		gateway:   gateway,
		httpClient: &http.Client{
			Timeout: gateway.Timeout,
		},
		stream: stream,
	}
}

// Start begins consuming appended events until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	consumer, err := w.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "push-worker",
		FilterSubject: AppendedSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       time.Minute,
		MaxDeliver:    1, // lossy by design
	})
	if err != nil {
		return fmt.Errorf("create push consumer: %w", err)
	}

	consCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		w.processMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("start push consumer: %w", err)
	}

	slog.Info("push delivery worker started", "gateway", w.gateway.URL)

	<-ctx.Done()
	consCtx.Stop()
	return nil
}

func (w *Worker) processMessage(ctx context.Context, msg jetstream.Msg) {
	defer msg.Ack()

	var ev domain.MessageAppended
	if err := json.Unmarshal(msg.Data(), &ev); err != nil {
		slog.Error("push: failed to unmarshal appended event", "error", err)
		return
	}

	w.Deliver(ctx, ev)
}

// Deliver resolves chat membership and pushes to every member except the
// sender. Errors are logged and swallowed.
func (w *Worker) Deliver(ctx context.Context, ev domain.MessageAppended) {
	c, err := w.directory.Get(ctx, ev.ChatID)
	if err != nil {
		slog.Warn("push: chat lookup failed", "chat_id", ev.ChatID, "error", err)
		return
	}

	for _, user := range c.Users {
		if user == ev.SenderID {
			continue
		}
		devs, err := w.devices.ListForUser(ctx, ev.ProjectID, user)
		if err != nil {
			slog.Warn("push: device lookup failed", "user_id", user, "error", err)
			continue
		}
		for _, dev := range devs {
			if err := w.push(ctx, dev, ev); err != nil {
				slog.Warn("push: delivery failed",
					"user_id", user,
					"device_id", dev.ID,
					"error", err,
				)
			}
		}
	}
}

func (w *Worker) push(ctx context.Context, dev domain.Device, ev domain.MessageAppended) error {
	body, err := json.Marshal(pushRequest{
		Token:     dev.Token,
		Platform:  dev.Platform,
		ProjectID: ev.ProjectID,
		ChatID:    ev.ChatID,
		SenderID:  ev.SenderID,
		Text:      ev.Text,
	})
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.gateway.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.gateway.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+w.gateway.AuthToken)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver push: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	return nil
}
