package drafts

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type memoryEntry struct {
	schema  model.FormSchema
	expires time.Time
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

var _ Store = (*Memory)(nil)

// NewMemory returns a Memory store; ttl <= 0 selects DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Put stores a copy of schema.
func (m *Memory) Put(ctx context.Context, schema model.FormSchema) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token := newToken()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.entries[token] = memoryEntry{schema: schema.Clone(), expires: m.now().Add(m.ttl)}
	return token, nil
}

// Take removes and returns the draft.
func (m *Memory) Take(ctx context.Context, token string) (model.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return model.FormSchema{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[token]
	if !ok {
		return model.FormSchema{}, ErrNotFound
	}
	delete(m.entries, token)
	if !m.now().Before(entry.expires) {
		return model.FormSchema{}, ErrNotFound
	}
	return entry.schema, nil
}

// sweep drops expired entries. Callers hold mu.
func (m *Memory) sweep() {
	now := m.now()
	for token, entry := range m.entries {
		if !now.Before(entry.expires) {
			delete(m.entries, token)
		}
	}
}
