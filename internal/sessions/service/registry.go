package service

import (
	"context"
	"sync"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Registry holds the live form sessions in memory, keyed by session id.
// Sessions have no persistence; an entry idle longer than the TTL is evicted
// by the janitor.
type Registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	ttl     time.Duration
	log     *logger.Logger
}

type entry struct {
	sess     *form.Session
	lastSeen time.Time
}

// NewRegistry creates an empty registry with the given idle TTL.
func NewRegistry(ttl time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		entries: make(map[uuid.UUID]*entry),
		ttl:     ttl,
		log:     log,
	}
}

// Put registers a session under a fresh id.
func (r *Registry) Put(id uuid.UUID, sess *form.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry{sess: sess, lastSeen: time.Now()}
}

// Get returns the session for the id and refreshes its idle clock.
func (r *Registry) Get(id uuid.UUID) (*form.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.sess, true
}

// Delete removes the session for the id.
func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts sessions idle longer than the TTL and returns how many.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// Run periodically sweeps idle sessions until the context is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := r.Sweep(time.Now()); evicted > 0 {
				r.log.Info("idle sessions evicted", "count", evicted)
			}
		}
	}
}
