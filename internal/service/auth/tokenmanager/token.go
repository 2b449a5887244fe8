package tokenmanager

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vkarpov/identity/internal/apperrors"
)

const (
	defaultSigningMethod   = "HS256"
	defaultAccessTokenTTL  = 10 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	refreshTokenBytesLen = 32
)

// Claims carried by an access token payload
type Claims struct {
	// User login
	Subject string

	// Role names, at least one for any registered user
	Roles []string
}

type accessTokenClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"role"`
}

// Token manager with sensible defaults
type Config struct {
	// Secret key to sign access token payload
	// Required to be set
	SecretKey string

	// Issuer and audience embedded in and required from every token
	// Required to be set
	Issuer   string
	Audience string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set then default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenManager struct {
	key      []byte
	alg      jwt.SigningMethod
	issuer   string
	audience string

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("issuer and audience must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		key:        []byte(cfg.SecretKey),
		alg:        jwt.GetSigningMethod(cfg.Alg),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// RefreshTTL is the window a freshly issued refresh token is valid for.
// Tracked outside the token itself, the opaque string carries nothing.
func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// MintAccess signs a token carrying the claims, issuer, audience
// and expiry = now + access TTL
func (m *TokenManager) MintAccess(c Claims) (string, error) {
	now := time.Now().Truncate(time.Second)

	token := jwt.NewWithClaims(
		m.alg,
		accessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   c.Subject,
				Issuer:    m.issuer,
				Audience:  jwt.ClaimStrings{m.audience},
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			},
			Roles: c.Roles,
		},
	)

	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return signed, nil
}

// MintRefresh returns an opaque token: 32 random bytes base64 encoded.
// Callers must never parse or decode it.
func (m *TokenManager) MintRefresh() (string, error) {
	b := make([]byte, refreshTokenBytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating refresh token. Err: %w", err)
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// ParseAccess verifies signature, algorithm, issuer, audience and
// expiry of an externally presented access token and returns its
// claims. Fails with the first violated check.
func (m *TokenManager) ParseAccess(access string) (Claims, error) {
	claims := &accessTokenClaims{}

	_, err := jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
		return Claims{Subject: claims.Subject, Roles: claims.Roles}, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrTokenSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrTokenIssuerOrAudience, err)
	default:
		return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidClientRequest, err)
	}
}

// ParseExpired recovers claims from a well formed access token
// tolerating an elapsed expiry. Signature, algorithm, issuer and
// audience are still enforced. Used only by the refresh flow, where
// an expired but legitimately signed token justifies issuing a new
// one. Any failure is the generic invalid client request fault.
func (m *TokenManager) ParseExpired(access string) (Claims, error) {
	claims := &accessTokenClaims{}

	_, err := jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidClientRequest, err)
	}

	// Claims validation is off above, check issuer and audience by hand
	if claims.Issuer != m.issuer || !slices.Contains(claims.Audience, m.audience) {
		return Claims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidClientRequest, apperrors.ErrTokenIssuerOrAudience)
	}

	return Claims{Subject: claims.Subject, Roles: claims.Roles}, nil
}
