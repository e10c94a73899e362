package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session maps the opaque token handed to the browser onto the bearer token
// issued by the hostel API.
type Session struct {
	BaseSimple
	Token         uuid.UUID  `db:"token"`
	UpstreamToken string     `db:"upstream_token"`
	UserID        string     `db:"user_id"`
	Email         string     `db:"email"`
	UserAgent     *string    `db:"user_agent"`
	IPAddress     *string    `db:"ip_address"`
	ExpiresAt     time.Time  `db:"expires_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
}

func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
