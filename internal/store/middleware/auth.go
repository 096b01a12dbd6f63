package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"

	"github.com/BYJDG/byjudge-main1/pkg/jwtfactory"
)

const (
	AdminRole = "admin"
	UserRole  = "user"
)

var errNoIdentity = errors.New("no identity in context")

// Identity is what the authentication collaborator yields for an
// authenticated call: an opaque user id plus a role.
type Identity struct {
	UserID int
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == AdminRole
}

// IdentityFromContext extracts the identity from verified token claims.
// Must run below the jwtauth Verifier/Authenticator pair.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, err //nolint:wrapcheck // unnecessary
	}

	rawUserID, ok := claims[jwtfactory.UserIDClaim].(string)
	if !ok {
		return Identity{}, errNoIdentity
	}
	userID, err := strconv.Atoi(rawUserID)
	if err != nil {
		return Identity{}, errNoIdentity
	}

	role, ok := claims[jwtfactory.RoleClaim].(string)
	if !ok {
		return Identity{}, errNoIdentity
	}

	return Identity{UserID: userID, Role: role}, nil
}

type RoleGuard struct {
	allowed map[string]bool
}

// NewRoleGuard builds a middleware rejecting authenticated callers whose
// role is not in the allowed set. Admins are allowed wherever plain
// users are.
func NewRoleGuard(roles ...string) *RoleGuard {
	allowed := make(map[string]bool, len(roles)+1)
	for _, role := range roles {
		allowed[role] = true
	}
	if allowed[UserRole] {
		allowed[AdminRole] = true
	}
	return &RoleGuard{allowed: allowed}
}

func (rg *RoleGuard) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if !rg.allowed[identity.Role] {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
