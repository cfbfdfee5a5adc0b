package publish

import (
	"context"
	"sync"
)

// Memory is an in-process document store with merge semantics
type Memory struct {
	mu    sync.Mutex
	docs  map[string]map[string]any
	calls int
}

// NewMemory creates an empty store
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]any)}
}

// Publish implements Publisher
func (m *Memory) Publish(ctx context.Context, path string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	doc, ok := m.docs[path]
	if !ok {
		doc = make(map[string]any, len(fields))
		m.docs[path] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// Document returns a copy of the document at path
func (m *Memory) Document(path string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[path]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// Calls reports how many times Publish was invoked
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
