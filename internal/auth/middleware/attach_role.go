// internal/auth/middleware/attach_role.go
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/rbac"
)

type UserGetter interface {
	GetUser(ctx context.Context, id int64) (bank.User, error)
}

// AttachRoleFromDB replaces the role claim with the stored role, so a role change
// or a deleted account takes effect before the token expires.
// allowClaimFallback keeps the claim when the lookup itself fails (dev only).
func AttachRoleFromDB(users UserGetter, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := UserID(ctx)
			if id == 0 {
				writeErr(w, http.StatusUnauthorized, "bad subject")
				return
			}
			u, err := users.GetUser(ctx, id)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, u.Role)))
			case errors.Is(err, bank.ErrNotFound):
				writeErr(w, http.StatusUnauthorized, "account no longer exists")
			case allowClaimFallback && rbac.RoleFromContext(ctx) != "":
				log.Printf("attach role: user %d: %v (using token claim)", id, err)
				next.ServeHTTP(w, r)
			default:
				writeErr(w, http.StatusForbidden, "forbidden")
			}
		})
	}
}
