package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/vkarpov/identity/internal/handlers/authctx"
	"github.com/vkarpov/identity/internal/handlers/render"
	"github.com/vkarpov/identity/internal/service/auth/tokenmanager"
)

type tokenParser interface {
	// Verify signature, issuer, audience and expiry, return claims
	ParseAccess(access string) (tokenmanager.Claims, error)
}

// Auth rejects requests without a valid unexpired bearer access token
// and stores the token claims in the request context.
func Auth(parser tokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := parser.ParseAccess(token)
			if err != nil {
				render.Fault(w, err)
				return
			}

			ctx := authctx.NewContext(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose claims lack the role.
// Must be mounted inside Auth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authctx.FromContext(r.Context())
			if !ok || !slices.Contains(claims.Roles, role) {
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
