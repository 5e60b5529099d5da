package service

import (
	"testing"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/platform/logger"

	"github.com/google/uuid"
)

func newTestSession() *form.Session {
	return form.NewSession(form.Deps{Logger: logger.New("development")})
}

func TestRegistryPutGet(t *testing.T) {
	r := NewRegistry(time.Minute, logger.New("development"))

	id := uuid.New()
	sess := newTestSession()
	r.Put(id, sess)

	got, ok := r.Get(id)
	if !ok {
		t.Fatal("session not found after Put")
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	if _, ok := r.Get(uuid.New()); ok {
		t.Error("Get returned a session for an unknown id")
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(time.Minute, logger.New("development"))

	id := uuid.New()
	r.Put(id, newTestSession())
	r.Delete(id)

	if _, ok := r.Get(id); ok {
		t.Error("session still present after Delete")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	r := NewRegistry(time.Minute, logger.New("development"))

	stale := uuid.New()
	fresh := uuid.New()
	r.Put(stale, newTestSession())
	r.Put(fresh, newTestSession())

	// Sweeping from two TTLs in the future evicts everything that has not
	// been touched since.
	future := time.Now().Add(2 * time.Minute)
	r.Get(fresh)

	if evicted := r.Sweep(future); evicted != 2 {
		t.Errorf("Sweep evicted %d, want 2", evicted)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after sweep, want 0", r.Len())
	}
}

func TestRegistryGetRefreshesIdleClock(t *testing.T) {
	r := NewRegistry(time.Hour, logger.New("development"))

	id := uuid.New()
	r.Put(id, newTestSession())

	if evicted := r.Sweep(time.Now().Add(30 * time.Minute)); evicted != 0 {
		t.Errorf("Sweep evicted %d sessions inside the TTL, want 0", evicted)
	}
	if _, ok := r.Get(id); !ok {
		t.Error("session evicted inside the TTL")
	}
}
