package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vkarpov/identity/internal/models"
	"github.com/vkarpov/identity/internal/repository"
)

type RoleRepo struct {
	DB DBTX
}

const getRoleByName = `-- name: GetRoleByName
SELECT id, name FROM roles
WHERE name = $1
`

func (r *RoleRepo) GetRoleByName(ctx context.Context, name string) (models.Role, error) {
	rows, _ := r.DB.Query(ctx, getRoleByName, name)
	role, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Role, error) {
		var ro models.Role
		err := row.Scan(&ro.ID, &ro.Name)
		return ro, err
	})

	switch {
	case err == nil:
		return role, nil
	case errors.Is(err, pgx.ErrNoRows):
		return role, repository.ErrRoleNotFound
	default:
		return role, fmt.Errorf("db error: %w", err)
	}
}
