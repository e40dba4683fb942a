package domain

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
)

// APIKeyLength is the length of a project API key.
const APIKeyLength = 48

// apiKeyAlphabet is the 62-symbol alphabet API keys are drawn from.
const apiKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Project is a tenant: an isolated namespace of chats authenticated by a
// shared API key. ID and APIKey are generated at creation and never change.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerateProjectID creates a fresh project identifier.
func GenerateProjectID() string {
	return uuid.NewString()
}

// GenerateAPIKey creates a 48-character API key from a cryptographically
// secure source. The key is a secret credential, not a display id.
func GenerateAPIKey() string {
	b := make([]byte, APIKeyLength)
	rand.Read(b)
	for i := range b {
		b[i] = apiKeyAlphabet[int(b[i])%len(apiKeyAlphabet)]
	}
	return string(b)
}
