package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vkarpov/identity/internal/models"
	"github.com/vkarpov/identity/internal/repository"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const getRefreshToken = `-- name: GetRefreshToken
SELECT user_id, token, created_at, updated_at, expires_at
FROM refresh_tokens
WHERE user_id = $1
`

// Get returns the record even if its expiry has passed.
// Expiry is a service level decision, not a storage one.
func (r *RefreshTokenRepo) Get(ctx context.Context, userID uuid.UUID) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getRefreshToken, userID)
	return collectRefreshToken(rows)
}

const upsertRefreshToken = `-- name: UpsertRefreshToken
INSERT INTO refresh_tokens (user_id, token, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, updated_at = now()
RETURNING user_id, token, created_at, updated_at, expires_at
`

// Upsert creates the record on first login or overwrites token and
// expiry in place on later ones. A single statement, so two concurrent
// logins can't interleave: the last committed writer wins whole.
func (r *RefreshTokenRepo) Upsert(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, upsertRefreshToken, userID, token, expiresAt)
	return collectRefreshToken(rows)
}

const updateRefreshToken = `-- name: UpdateRefreshToken
UPDATE refresh_tokens
SET token = $2, updated_at = now()
WHERE user_id = $1
RETURNING user_id, token, created_at, updated_at, expires_at
`

// UpdateToken rotates the token value only, the stored expiry stays.
func (r *RefreshTokenRepo) UpdateToken(ctx context.Context, userID uuid.UUID, token string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, updateRefreshToken, userID, token)
	return collectRefreshToken(rows)
}

func collectRefreshToken(rows pgx.Rows) (models.RefreshToken, error) {
	token, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.RefreshToken, error) {
		var t models.RefreshToken
		err := row.Scan(&t.UserID, &t.Token, &t.CreatedAt, &t.UpdatedAt, &t.ExpiresAt)
		return t, err
	})

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, repository.ErrRefreshTokenNotFound
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}
