package domain

import "time"

// Message is owned by its chat and immutable once appended. Seq is a
// per-chat monotonically increasing sequence number assigned at append
// time; it, not the wall-clock timestamp, defines list order.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageAppended is the event published after a message is durably
// stored. Delivery is best effort; consumers must tolerate loss.
type MessageAppended struct {
	ProjectID string    `json:"project_id"`
	ChatID    string    `json:"chat_id"`
	MessageID string    `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Device is a registered push target for a user within a project.
type Device struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
