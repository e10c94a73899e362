package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	c       *Controller
	expires time.Time
}

// Registry keeps live wizards by id. Idle wizards expire after ttl and are closed.
type Registry struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(ttl time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{ttl: ttl, now: now, entries: make(map[string]*entry)}
}

func (r *Registry) Put(c *Controller) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = &entry{c: c, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return id
}

// Get returns the wizard and extends its lifetime.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := r.now()
	if !now.Before(e.expires) {
		delete(r.entries, id)
		e.c.Close()
		return nil, ErrNotFound
	}
	e.expires = now.Add(r.ttl)
	return e.c, nil
}

// Remove discards the wizard and its draft.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok {
		e.c.Close()
	}
	return ok
}

// Sweep drops expired wizards and reports how many went.
func (r *Registry) Sweep() int {
	now := r.now()
	var expired []*Controller
	r.mu.Lock()
	for id, e := range r.entries {
		if !now.Before(e.expires) {
			expired = append(expired, e.c)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()
	for _, c := range expired {
		c.Close()
	}
	return len(expired)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration, onSweep func(n int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
