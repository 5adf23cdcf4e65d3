package session

import (
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

type scope struct {
	id       string
	disposed bool
}

func newTestManager(t *testing.T, now *time.Time) *Manager[*scope] {
	t.Helper()
	m, err := NewManager[*scope](
		func(id string) (*scope, error) { return &scope{id: id}, nil },
		WithDispose[*scope](func(s *scope) error {
			s.disposed = true
			return nil
		}),
		WithClock[*scope](func() time.Time { return *now }),
	)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestManager_CreateAndGet(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := newTestManager(t, &now)

	id, created, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ulid.ParseStrict(id); err != nil {
		t.Fatalf("expected ULID session id, got %q: %v", id, err)
	}
	if created.id != id {
		t.Fatalf("factory received %q, want %q", created.id, id)
	}

	got, err := m.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != created {
		t.Fatalf("expected same scope instance")
	}
}

func TestManager_GetOrCreateReplacesUnknownIDs(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := newTestManager(t, &now)

	id, _, err := m.GetOrCreate("not-a-ulid")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	again, _, err := m.GetOrCreate(id)
	if err != nil {
		t.Fatalf("get or create existing: %v", err)
	}
	if again != id {
		t.Fatalf("expected existing id %q, got %q", id, again)
	}
	if m.Len() != 1 {
		t.Fatalf("expected one session, got %d", m.Len())
	}
}

func TestManager_DisposeRunsHook(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := newTestManager(t, &now)

	id, s, _ := m.Create()
	if err := m.Dispose(id); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if !s.disposed {
		t.Fatalf("expected dispose hook to run")
	}
	if _, err := m.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.Dispose(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second dispose, got %v", err)
	}
}

func TestManager_SweepDisposesIdleSessions(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := newTestManager(t, &now)

	idleID, idle, _ := m.Create()
	now = now.Add(20 * time.Minute)
	activeID, active, _ := m.Create()

	removed, err := m.Sweep(10 * time.Minute)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected one removal, got %d", removed)
	}
	if !idle.disposed || active.disposed {
		t.Fatalf("unexpected dispose state idle=%v active=%v", idle.disposed, active.disposed)
	}
	if _, err := m.Get(idleID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle session gone")
	}
	if _, err := m.Get(activeID); err != nil {
		t.Fatalf("expected active session kept: %v", err)
	}
}
