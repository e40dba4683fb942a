package domain

import (
	"sort"
	"strings"
	"time"
)

// ChatType distinguishes two-party chats from group chats.
type ChatType string

const (
	ChatDirect ChatType = "direct"
	ChatGroup  ChatType = "group"
)

// Chat is owned by exactly one project. Direct chats carry a PairKey used
// to deduplicate per unordered user pair; group chats carry an optional
// title. Users is always stored sorted for deterministic comparison.
type Chat struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Type      ChatType  `json:"type"`
	Users     []string  `json:"users"`
	PairKey   string    `json:"pair_key,omitempty"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PairKey computes the canonical dedup key for a direct chat: the two user
// identifiers sorted lexicographically and joined by ":".
func PairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

// NormalizeUsers collapses duplicates and returns the members sorted.
func NormalizeUsers(users []string) []string {
	seen := make(map[string]struct{}, len(users))
	out := make([]string, 0, len(users))
	for _, u := range users {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
