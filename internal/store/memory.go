package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by unit tests and as a reference
// implementation of the contract. All operations are guarded by a single
// mutex, which trivially gives per-document atomicity.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]map[string]any)}
}

func (m *Memory) coll(name string) map[string]map[string]any {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		m.collections[name] = c
	}
	return c
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.([]string); ok {
			out[k] = append([]string(nil), s...)
			continue
		}
		if s, ok := v.([]any); ok {
			out[k] = append([]any(nil), s...)
			continue
		}
		out[k] = v
	}
	return out
}

func (m *Memory) Get(_ context.Context, collection, id string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.coll(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneFields(doc), nil
}

func (m *Memory) Set(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coll(collection)[id] = cloneFields(fields)
	return nil
}

func (m *Memory) Create(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(collection)
	if _, ok := c[id]; ok {
		return ErrExists
	}
	c[id] = cloneFields(fields)
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.coll(collection)[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range cloneFields(fields) {
		doc[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.coll(collection), id)
	return nil
}

func (m *Memory) Add(_ context.Context, collection string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.coll(collection)[id] = cloneFields(fields)
	return id, nil
}

func (m *Memory) Increment(_ context.Context, collection, id, field string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.coll(collection)[id]
	if !ok {
		return 0, ErrNotFound
	}
	next := asInt64(doc[field]) + 1
	doc[field] = next
	return next, nil
}

func (m *Memory) Query(_ context.Context, collection string, q Query) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Document
	for id, doc := range m.coll(collection) {
		if matches(doc, q.Filters) {
			out = append(out, Document{ID: id, Fields: cloneFields(doc)})
		}
	}

	if q.OrderBy != "" {
		sort.Slice(out, func(i, j int) bool {
			return less(out[i].Fields[q.OrderBy], out[j].Fields[q.OrderBy])
		})
	} else {
		// Deterministic scans make tests stable.
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(doc map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field]
		if !ok {
			return false
		}
		if !equal(v, f.Value) {
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	if na, aok := asFloat(a); aok {
		nb, bok := asFloat(b)
		return bok && na == nb
	}
	return a == b
}

func less(a, b any) bool {
	if na, aok := asFloat(a); aok {
		nb, _ := asFloat(b)
		return na < nb
	}
	sa, _ := a.(string)
	sb, _ := b.(string)
	return sa < sb
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
