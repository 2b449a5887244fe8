package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vkarpov/identity/internal/models"
	"github.com/vkarpov/identity/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (login, password_hash)
VALUES ($1, $2)
RETURNING id, created_at, updated_at, login, password_hash
`

const assignRoles = `-- name: AssignRoles
INSERT INTO user_roles (user_id, role_id)
SELECT $1, id FROM roles WHERE name = ANY($2)
`

// Create user and assign the given roles in two statements.
// Run it inside Storage.InTx, otherwise a failed role assignment
// leaves a user with no roles behind.
func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, arg.Login, arg.PasswordHash)
	user, err := pgx.CollectOneRow(rows, rowToUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, repository.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	tag, err := r.DB.Exec(ctx, assignRoles, user.ID, arg.Roles)
	if err != nil {
		return user, fmt.Errorf("db error: %w", err)
	}
	if int(tag.RowsAffected()) != len(arg.Roles) {
		return user, repository.ErrRoleNotFound
	}

	user.Roles = append(user.Roles, arg.Roles...)
	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT u.id, u.created_at, u.updated_at, u.login, u.password_hash,
       COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles
FROM users u
LEFT JOIN user_roles ur ON ur.user_id = u.id
LEFT JOIN roles r ON r.id = ur.role_id
WHERE u.id = $1
GROUP BY u.id
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUserWithRoles(rows)
}

const getUserByLogin = `-- name: GetUserByLogin
SELECT u.id, u.created_at, u.updated_at, u.login, u.password_hash,
       COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles
FROM users u
LEFT JOIN user_roles ur ON ur.user_id = u.id
LEFT JOIN roles r ON r.id = ur.role_id
WHERE u.login = $1
GROUP BY u.id
`

func (r *UserRepo) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByLogin, login)
	return collectUserWithRoles(rows)
}

func collectUserWithRoles(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.User, error) {
		var u models.User
		err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Login, &u.PasswordHash, &u.Roles)
		return u, err
	})

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, repository.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Login, &u.PasswordHash)
	return u, err
}
