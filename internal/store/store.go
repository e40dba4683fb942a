// Package store defines the document-store contract the core services are
// written against, plus a Postgres implementation and an in-memory fake.
//
// The contract mirrors a document database: schemaless JSON documents in
// named collections, per-document atomicity, no cross-document
// transactions. Sub-collections are expressed as path-shaped collection
// names (e.g. "chats/<id>/messages").
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrExists is returned by Create when the id is already taken.
	ErrExists = errors.New("document already exists")

	// ErrUnavailable wraps transport/backend failures.
	ErrUnavailable = errors.New("store unavailable")
)

// Filter is an equality predicate on a top-level document field.
type Filter struct {
	Field string
	Value any
}

// Query describes a filtered, optionally ordered scan over a collection.
// OrderBy sorts ascending by the named field; Limit <= 0 means no limit.
type Query struct {
	Filters []Filter
	OrderBy string
	Limit   int
}

// Document is a stored document together with its id.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the document-store adapter. Implementations must make each
// single-document write atomic; nothing stronger is assumed by callers.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]any, error)

	// Set writes the full document, overwriting any existing fields.
	Set(ctx context.Context, collection, id string, fields map[string]any) error

	// Create writes the document only if the id is absent, returning
	// ErrExists otherwise. This is the primitive uniqueness indexes are
	// built on.
	Create(ctx context.Context, collection, id string, fields map[string]any) error

	// Update merges the given fields into an existing document, returning
	// ErrNotFound if it does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes the document. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Add inserts a document under a store-generated id and returns it.
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Increment atomically adds 1 to a numeric field (treating a missing
	// field as 0) and returns the new value. ErrNotFound if the document
	// does not exist.
	Increment(ctx context.Context, collection, id, field string) (int64, error)

	// Query scans a collection with equality filters, optional ascending
	// order and optional limit.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
}
