package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the single refresh token record a user may hold.
// A login creates or overwrites it in place, a refresh rotates the
// token value only. There is never more than one per user.
type RefreshToken struct {
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}
