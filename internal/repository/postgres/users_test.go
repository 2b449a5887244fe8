package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpov/identity/internal/repository"
	"github.com/vkarpov/identity/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createParams := repository.CreateUserParams{
		Login:        "alice1",
		PasswordHash: "stored-digest",
		Roles:        []string{"User"},
	}

	t.Run("create user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}

			user, err := repo.CreateUser(t.Context(), createParams)

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID)
			assert.Equal(t, "alice1", user.Login)
			assert.Equal(t, "stored-digest", user.PasswordHash)
			assert.Equal(t, []string{"User"}, user.Roles)
			assert.False(t, user.CreatedAt.IsZero())
		})
	})

	t.Run("create fails if login taken", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}

			_, err := repo.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			_, err = repo.CreateUser(t.Context(), createParams)
			require.ErrorIs(t, err, repository.ErrUserAlreadyExists)
		})
	})

	t.Run("create fails if role unknown", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}

			_, err := repo.CreateUser(t.Context(), repository.CreateUserParams{
				Login:        "alice1",
				PasswordHash: "stored-digest",
				Roles:        []string{"Nonexistent"},
			})

			require.ErrorIs(t, err, repository.ErrRoleNotFound)
		})
	})

	t.Run("get by login with roles sorted", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}

			_, err := repo.CreateUser(t.Context(), repository.CreateUserParams{
				Login:        "alice1",
				PasswordHash: "stored-digest",
				Roles:        []string{"User", "Admin"},
			})
			require.NoError(t, err)

			user, err := repo.GetUserByLogin(t.Context(), "alice1")

			require.NoError(t, err)
			assert.Equal(t, "alice1", user.Login)
			assert.Equal(t, []string{"Admin", "User"}, user.Roles, "roles should be aggregated sorted by name")
		})
	})

	t.Run("get by id", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}

			created, err := repo.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			user, err := repo.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
			assert.Equal(t, []string{"User"}, user.Roles)
		})
	})

	t.Run("login is case sensitive", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}

			_, err := repo.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			_, err = repo.GetUserByLogin(t.Context(), "Alice1")
			require.ErrorIs(t, err, repository.ErrUserNotFound)
		})
	})

	t.Run("get missing user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &UserRepo{DB: tx}

			_, err := repo.GetUserByLogin(t.Context(), "nobody")
			require.ErrorIs(t, err, repository.ErrUserNotFound)

			_, err = repo.GetUserByID(t.Context(), uuid.New())
			require.ErrorIs(t, err, repository.ErrUserNotFound)
		})
	})
}

func Test_RoleRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("seeded roles present", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &RoleRepo{DB: tx}

			for _, name := range []string{"User", "Admin"} {
				role, err := repo.GetRoleByName(t.Context(), name)

				require.NoError(t, err)
				assert.Equal(t, name, role.Name)
				assert.NotZero(t, role.ID)
			}
		})
	})

	t.Run("missing role", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &RoleRepo{DB: tx}

			_, err := repo.GetRoleByName(t.Context(), "Overlord")
			require.ErrorIs(t, err, repository.ErrRoleNotFound)
		})
	})
}
