package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a session ID is unknown.
var ErrNotFound = errors.New("session: not found")

// Factory builds the per-session value for a freshly minted session ID.
type Factory[T any] func(id string) (T, error)

// DisposeFunc releases a per-session value.
type DisposeFunc[T any] func(value T) error

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// Manager maps ULID session IDs to per-session values.
type Manager[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	factory Factory[T]
	dispose DisposeFunc[T]
	now     func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption[T any] func(*Manager[T])

// WithDispose registers the hook run when a session is disposed or swept.
func WithDispose[T any](fn DisposeFunc[T]) ManagerOption[T] {
	return func(m *Manager[T]) {
		m.dispose = fn
	}
}

// WithClock overrides the time source used for idle tracking.
func WithClock[T any](now func() time.Time) ManagerOption[T] {
	return func(m *Manager[T]) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager constructs a manager creating values with factory.
func NewManager[T any](factory Factory[T], opts ...ManagerOption[T]) (*Manager[T], error) {
	if factory == nil {
		return nil, fmt.Errorf("session: factory is required")
	}
	m := &Manager[T]{
		entries: make(map[string]*entry[T]),
		factory: factory,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m, nil
}

// NewID mints a new session identifier.
func NewID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Create mints a session ID and builds its value.
func (m *Manager[T]) Create() (string, T, error) {
	id := NewID()
	value, err := m.factory(id)
	if err != nil {
		var zero T
		return "", zero, fmt.Errorf("session: create %s: %w", id, err)
	}

	m.mu.Lock()
	m.entries[id] = &entry[T]{value: value, lastSeen: m.now()}
	m.mu.Unlock()
	return id, value, nil
}

// Get returns the value for id and refreshes its idle timer.
func (m *Manager[T]) Get(id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	e.lastSeen = m.now()
	return e.value, nil
}

// GetOrCreate returns the value for id, creating a new session when id is
// empty, malformed or unknown. The returned ID is the one to hand back to the
// client.
func (m *Manager[T]) GetOrCreate(id string) (string, T, error) {
	if _, err := ulid.ParseStrict(id); err == nil {
		if value, err := m.Get(id); err == nil {
			return id, value, nil
		}
	}
	return m.Create()
}

// Dispose removes the session and runs the dispose hook.
func (m *Manager[T]) Dispose(id string) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return m.runDispose(id, e.value)
}

// Sweep disposes every session idle for longer than idle and returns how many
// were removed.
func (m *Manager[T]) Sweep(idle time.Duration) (int, error) {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	expired := make(map[string]T)
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			expired[id] = e.value
			delete(m.entries, id)
		}
	}
	m.mu.Unlock()

	var errs []error
	for id, value := range expired {
		if err := m.runDispose(id, value); err != nil {
			errs = append(errs, err)
		}
	}
	return len(expired), errors.Join(errs...)
}

// Close disposes every session.
func (m *Manager[T]) Close() error {
	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[string]*entry[T])
	m.mu.Unlock()

	var errs []error
	for id, e := range entries {
		if err := m.runDispose(id, e.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IDs returns the live session IDs sorted (ULIDs sort by creation time).
func (m *Manager[T]) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of live sessions.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager[T]) runDispose(id string, value T) error {
	if m.dispose == nil {
		return nil
	}
	if err := m.dispose(value); err != nil {
		return fmt.Errorf("session: dispose %s: %w", id, err)
	}
	return nil
}
