package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vkarpov/identity/internal/models"
)

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

type CreateUserParams struct {
	Login        string
	PasswordHash string

	// Names of roles to assign, must exist already
	Roles []string
}

type UserRepo interface {
	// Create user with its roles
	// Must return ErrUserAlreadyExists if the login is taken
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id or login, roles included
	// Must return ErrUserNotFound if no such user
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByLogin(ctx context.Context, login string) (models.User, error)
}

type RoleRepo interface {
	// Must return ErrRoleNotFound if no such role
	GetRoleByName(ctx context.Context, name string) (models.Role, error)
}

type RefreshTokenRepo interface {
	// Get the user's refresh token record even if expired
	// Must return ErrRefreshTokenNotFound if the user has none
	Get(ctx context.Context, userID uuid.UUID) (models.RefreshToken, error)

	// Create the record or overwrite both token and expiry in place.
	// The upsert is a single statement, so concurrent writers can't
	// leave the record half updated (last writer wins).
	Upsert(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (models.RefreshToken, error)

	// Rotate the token value keeping the stored expiry
	// Must return ErrRefreshTokenNotFound if the user has none
	UpdateToken(ctx context.Context, userID uuid.UUID, token string) (models.RefreshToken, error)
}

// Storage is the facade over all repositories
type Storage interface {
	User() UserRepo
	Role() RoleRepo
	Refresh() RefreshTokenRepo

	// Run fn within a db transaction
	// fn receives a Storage bound to that transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
