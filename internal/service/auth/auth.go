package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkarpov/identity/internal/apperrors"
	"github.com/vkarpov/identity/internal/models"
	"github.com/vkarpov/identity/internal/repository"
	"github.com/vkarpov/identity/internal/service/auth/tokenmanager"
)

type Config struct {
	// Hasher used during registration and login
	// Defaults to SHA256Hasher, see its doc before changing
	Hasher PasswordHasher

	// Role assigned at registration, defaults to models.DefaultRole
	DefaultRole string
}

// AuthService orchestrates registration, login and refresh token
// rotation. The only component with multi step business logic and
// store interaction.
type AuthService struct {
	token       *tokenmanager.TokenManager
	hasher      PasswordHasher
	storage     repository.Storage
	defaultRole string
}

func NewService(cfg Config, token *tokenmanager.TokenManager, storage repository.Storage) (*AuthService, error) {
	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = SHA256Hasher{}
	}

	defaultRole := cfg.DefaultRole
	if defaultRole == "" {
		defaultRole = models.DefaultRole
	}

	return &AuthService{
		token:       token,
		hasher:      hasher,
		storage:     storage,
		defaultRole: defaultRole,
	}, nil
}

// Register creates a user with the default role.
// Password confirmation and format rules run before any store access.
func (s *AuthService) Register(ctx context.Context, login string, password string, passwordConfirm string) (models.User, error) {
	var user models.User

	if password != passwordConfirm {
		return user, apperrors.ErrPasswordMismatch
	}

	if err := validateRegisterInput(login, password); err != nil {
		return user, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		_, err := st.User().GetUserByLogin(ctx, login)
		switch {
		case err == nil:
			return apperrors.ErrUserAlreadyExists
		case !errors.Is(err, repository.ErrUserNotFound):
			return err
		}

		role, err := st.Role().GetRoleByName(ctx, s.defaultRole)
		if err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				// Administrative data invariant violation, the default
				// role has to be seeded before anyone can register
				return apperrors.ErrRoleNotFound
			}
			return err
		}

		user, err = st.User().CreateUser(ctx, repository.CreateUserParams{
			Login:        login,
			PasswordHash: hash,
			Roles:        []string{role.Name},
		})
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			// Unique index backstop for two concurrent registrations
			return apperrors.ErrUserAlreadyExists
		}
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login verifies credentials and issues a fresh token pair.
// The user's refresh record is created on first login or overwritten
// whole (token and expiry) on every later one.
func (s *AuthService) Login(ctx context.Context, login string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.storage.User().GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return pair, apperrors.ErrUserNotFound
		}
		return pair, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return pair, err
	}

	access, err := s.token.MintAccess(BuildClaims(user))
	if err != nil {
		return pair, err
	}
	refresh, err := s.token.MintRefresh()
	if err != nil {
		return pair, err
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		_, err := st.Refresh().Upsert(ctx, user.ID, refresh, time.Now().Add(s.token.RefreshTTL()))
		return err
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges an expired (or still valid) access token plus the
// matching refresh token for a new pair.
//
// The new access token is minted from the claims recovered from the
// presented token, roles are deliberately not re-read from the store.
// Rotation replaces the stored token value only, the record keeps its
// original expiry, so refreshing can't extend a session forever; only
// a login resets the window.
//
// Every failure is the same generic fault on purpose: the caller must
// not learn whether the account, the token or the expiry was wrong.
// Two concurrent refreshes race on the row update, the transaction
// makes the read-check-rotate atomic so at most one outcome persists.
func (s *AuthService) Refresh(ctx context.Context, access string, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	claims, err := s.token.ParseExpired(access)
	if err != nil {
		return pair, err
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		user, err := st.User().GetUserByLogin(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return apperrors.ErrInvalidClientRequest
			}
			return err
		}

		record, err := st.Refresh().Get(ctx, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return apperrors.ErrInvalidClientRequest
			}
			return err
		}

		if record.Token != refresh || !record.ExpiresAt.After(time.Now()) {
			return apperrors.ErrInvalidClientRequest
		}

		newAccess, err := s.token.MintAccess(claims)
		if err != nil {
			return err
		}
		newRefresh, err := s.token.MintRefresh()
		if err != nil {
			return err
		}

		if _, err := st.Refresh().UpdateToken(ctx, user.ID, newRefresh); err != nil {
			return err
		}

		pair = models.TokenPair{Access: newAccess, Refresh: newRefresh}
		return nil
	})
	if err != nil {
		return models.TokenPair{}, err
	}

	return pair, nil
}
