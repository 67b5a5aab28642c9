// Package builder exposes editor sessions over HTTP: a client drives one
// server-side editor per session with discrete actions, previews the result
// and publishes it through the gateway.
package builder

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = time.Hour

// ErrSessionNotFound reports an unknown or expired editing session.
var ErrSessionNotFound = errors.New("builder: session not found")

// Session is one editor plus the lock that serialises access to it.
type Session struct {
	ID string

	mu      sync.Mutex
	editor  *editor.Editor
	touched time.Time
}

// Do runs fn with exclusive access to the editor.
func (s *Session) Do(fn func(*editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

// Manager owns the live editing sessions.
type Manager struct {
	mu       sync.Mutex
	registry *components.Registry
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

// NewManager returns a manager whose editors instantiate from registry.
// A non-positive idle timeout uses DefaultIdleTimeout.
func NewManager(registry *components.Registry, idle time.Duration) *Manager {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Manager{
		registry: registry,
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

// Registry returns the component registry shared by every session.
func (m *Manager) Registry() *components.Registry {
	return m.registry
}

// Create opens a session seeded with schema.
func (m *Manager) Create(schema model.FormSchema) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	s := &Session{
		ID:      uuid.NewString(),
		editor:  editor.New(m.registry, editor.WithSchema(schema)),
		touched: m.now(),
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns a live session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touched = m.now()
	return s, nil
}

// Close discards a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweep drops idle sessions. Callers hold m.mu.
func (m *Manager) sweep() {
	cutoff := m.now().Add(-m.idle)
	for id, s := range m.sessions {
		if s.touched.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
