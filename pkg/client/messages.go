package client

import (
	"context"
	"net/http"
	"time"
)

// Message represents a chat message.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageList is the response from listing messages.
type MessageList struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}

// AddMessage appends a message to a chat.
func (c *Client) AddMessage(ctx context.Context, chatID, senderID, text string) (*Message, error) {
	var m Message
	err := c.do(ctx, http.MethodPost, "/chats/"+chatID+"/messages", map[string]string{
		"sender_id": senderID,
		"text":      text,
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns the chat's messages in append order.
func (c *Client) ListMessages(ctx context.Context, chatID string) (*MessageList, error) {
	var list MessageList
	if err := c.do(ctx, http.MethodGet, "/chats/"+chatID+"/messages", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
