package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vkarpov/identity/internal/apperrors"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must return apperrors.ErrWrongPassword if they don't match
	Compare(hashedPassword string, password string) error
}

// SHA256Hasher stores base64(sha256(password)) with no salt.
// This matches the historical stored digest format and keeps old
// digests verifiable. It is a known weak scheme: identical passwords
// produce identical digests. Prefer BcryptHasher for new deployments
// that can afford the digest format change.
type SHA256Hasher struct{}

func (h SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	computed := base64.StdEncoding.EncodeToString(sum[:])

	if subtle.ConstantTimeCompare([]byte(hashedPassword), []byte(computed)) != 1 {
		return apperrors.ErrWrongPassword
	}
	return nil
}

// BcryptHasher prehashes with sha256 to lift bcrypt's 72 byte limit
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:]); err != nil {
		return apperrors.ErrWrongPassword
	}
	return nil
}

// NewHasher returns a hasher by its config name.
// Empty name means the default sha256 scheme.
func NewHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}
