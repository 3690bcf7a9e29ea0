package rbac

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/qbank/internal/bank"
)

var defaultChecker = NewChecker(nil)

// Require enforces a single permission.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !defaultChecker.Has(role, perm) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny enforces that the role has at least one of the permissions.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !defaultChecker.Any(role, perms...) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAll enforces that the role has all of the permissions.
func RequireAll(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !defaultChecker.All(role, perms...) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwnerOr passes a role holding perm, or a role holding ownPerm when
// isOwner reports the request targets the caller's own data.
func RequireOwnerOr(perm, ownPerm string, isOwner func(r *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if defaultChecker.Has(role, perm) || (defaultChecker.Has(role, ownPerm) && isOwner(r)) {
				next.ServeHTTP(w, r)
				return
			}
			forbidden(w)
		})
	}
}

// Can reports whether the role on the request carries perm.
func Can(r *http.Request, perm string) bool {
	return defaultChecker.Has(RoleFromContext(r.Context()), perm)
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(bank.Response[any]{StatusCode: http.StatusForbidden, Message: "forbidden"})
}
