package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRole is assigned to every user at registration.
// It must exist in the roles table, a registration fails otherwise.
const DefaultRole = "User"

type User struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Login        string
	PasswordHash string

	// Role names, sorted. Never empty for a registered user.
	Roles []string
}

type Role struct {
	ID   int64
	Name string
}
