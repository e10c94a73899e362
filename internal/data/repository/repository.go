package repository

import (
	"hostel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session SessionRepository
}

// NewRepository stores sessions in Postgres when db is set, in memory otherwise.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	if db == nil {
		log.Warn("No database configured, sessions are kept in memory")
		return &Repository{Session: NewMemorySessionRepository(log)}
	}
	return &Repository{
		Session: NewSessionRepository(db, log),
	}
}
