package domain

import "errors"

// Error kinds surfaced by the core services. Services wrap these with
// fmt.Errorf("...: %w", ...) so callers can branch with errors.Is while
// keeping the failing operation in the message.
var (
	// ErrNotFound means the requested project or chat does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the API key does not match the project, or a
	// chat belongs to a different tenant than the authenticated caller.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument means the input is malformed (e.g. a direct chat
	// with anything other than two distinct users).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable means the document store failed. It is propagated
	// as-is; the core performs no retries.
	ErrStoreUnavailable = errors.New("store unavailable")
)
