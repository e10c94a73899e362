package repository

import (
	"context"
	"sync"
	"time"

	"hostel-booking/internal/data/entity"

	"go.uber.org/zap"
)

// memorySessionRepository keeps sessions in process when no database is configured.
// Sessions do not survive a restart.
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	now      func() time.Time
	log      *zap.Logger
}

func NewMemorySessionRepository(log *zap.Logger) SessionRepository {
	return newMemorySessionRepository(log, time.Now)
}

func newMemorySessionRepository(log *zap.Logger, now func() time.Time) *memorySessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*entity.Session),
		now:      now,
		log:      log.With(zap.String("repository", "session_memory")),
	}
}

func (r *memorySessionRepository) Create(_ context.Context, session *entity.Session) error {
	stored := *session
	r.mu.Lock()
	r.sessions[session.Token.String()] = &stored
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok || !s.Valid(r.now()) {
		return nil, nil
	}
	found := *s
	return &found, nil
}

func (r *memorySessionRepository) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || s.RevokedAt != nil {
		return ErrSessionNotFound
	}
	now := r.now()
	s.RevokedAt = &now
	return nil
}

func (r *memorySessionRepository) CleanExpiredSessions(_ context.Context) (int64, error) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for token, s := range r.sessions {
		if !s.Valid(now) {
			delete(r.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		r.log.Debug("Cleaned sessions", zap.Int64("removed", removed))
	}
	return removed, nil
}
