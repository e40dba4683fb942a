package client

import (
	"context"
	"net/http"
	"time"
)

// Chat represents a chat.
type Chat struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Type      string    `json:"type"`
	Users     []string  `json:"users"`
	PairKey   string    `json:"pair_key,omitempty"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DirectChatResult is the response from creating a direct chat.
// Existed is true when the pair already had a chat.
type DirectChatResult struct {
	Chat    Chat `json:"chat"`
	Existed bool `json:"existed"`
}

// ChatList is the response from listing chats.
type ChatList struct {
	Chats []Chat `json:"chats"`
	Count int    `json:"count"`
}

// CreateDirectChat returns the direct chat for the pair, creating it
// if absent.
func (c *Client) CreateDirectChat(ctx context.Context, userA, userB string) (*DirectChatResult, error) {
	var res DirectChatResult
	err := c.do(ctx, http.MethodPost, "/chats/direct", map[string]string{
		"user_a": userA,
		"user_b": userB,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateGroupChat creates a group chat.
func (c *Client) CreateGroupChat(ctx context.Context, users []string, title string) (*Chat, error) {
	var chat Chat
	err := c.do(ctx, http.MethodPost, "/chats/group", map[string]any{
		"users": users,
		"title": title,
	}, &chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChats lists the project's chats.
func (c *Client) ListChats(ctx context.Context) (*ChatList, error) {
	var list ChatList
	if err := c.do(ctx, http.MethodGet, "/chats", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetChat retrieves one of the project's chats by id.
func (c *Client) GetChat(ctx context.Context, id string) (*Chat, error) {
	var chat Chat
	if err := c.do(ctx, http.MethodGet, "/chats/"+id, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}
