package auth

import (
	"sort"

	"github.com/vkarpov/identity/internal/models"
	"github.com/vkarpov/identity/internal/service/auth/tokenmanager"
)

// BuildClaims derives the claim set for an authenticated user:
// the login as subject plus one role entry per owned role.
// Roles are sorted so identical users always produce identical
// token payloads.
func BuildClaims(user models.User) tokenmanager.Claims {
	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)
	sort.Strings(roles)

	return tokenmanager.Claims{
		Subject: user.Login,
		Roles:   roles,
	}
}
