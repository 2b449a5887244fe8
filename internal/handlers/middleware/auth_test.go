package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpov/identity/internal/apperrors"
	"github.com/vkarpov/identity/internal/handlers/authctx"
	"github.com/vkarpov/identity/internal/service/auth/tokenmanager"
)

type fakeParser struct {
	claims tokenmanager.Claims
	err    error
}

func (p fakeParser) ParseAccess(access string) (tokenmanager.Claims, error) {
	return p.claims, p.err
}

func Test_Auth(t *testing.T) {
	claims := tokenmanager.Claims{Subject: "alice1", Roles: []string{"User"}}

	// Final handler records whether it was reached and with what claims
	var gotClaims tokenmanager.Claims
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotClaims, _ = authctx.FromContext(r.Context())
	})

	tests := []struct {
		name       string
		header     string
		parser     fakeParser
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer some-token",
			parser:     fakeParser{claims: claims},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "scheme is case insensitive",
			header:     "bearer some-token",
			parser:     fakeParser{claims: claims},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			header:     "",
			parser:     fakeParser{claims: claims},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwd2Q=",
			parser:     fakeParser{claims: claims},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer some-token",
			parser:     fakeParser{err: apperrors.ErrTokenExpired},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad signature",
			header:     "Bearer some-token",
			parser:     fakeParser{err: apperrors.ErrTokenSignatureInvalid},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			gotClaims = tokenmanager.Claims{}

			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			Auth(tt.parser)(next).ServeHTTP(w, r)

			require.Equal(t, tt.wantStatus, w.Code)
			require.Equal(t, tt.wantNext, reached)
			if tt.wantNext {
				assert.Equal(t, claims, gotClaims, "claims should be stored in the request context")
			}
		})
	}
}

func Test_RequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name       string
		claims     *tokenmanager.Claims
		wantStatus int
	}{
		{
			name:       "has role",
			claims:     &tokenmanager.Claims{Subject: "alice1", Roles: []string{"User", "Admin"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "lacks role",
			claims:     &tokenmanager.Claims{Subject: "alice1", Roles: []string{"User"}},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no claims in context",
			claims:     nil,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.claims != nil {
				r = r.WithContext(authctx.NewContext(r.Context(), *tt.claims))
			}
			w := httptest.NewRecorder()

			RequireRole("Admin")(next).ServeHTTP(w, r)

			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
