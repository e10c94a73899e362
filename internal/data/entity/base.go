package entity

import (
	"time"

	"github.com/google/uuid"
)

// BaseSimple is the identity every stored row carries.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// NewBase stamps a fresh row identity at now.
func NewBase(now time.Time) BaseSimple {
	return BaseSimple{ID: uuid.New(), CreatedAt: now}
}
