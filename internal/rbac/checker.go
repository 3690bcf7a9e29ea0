package rbac

import (
	"context"
	"strings"

	"github.com/mind-engage/qbank/internal/bank"
)

// Checker resolves permission patterns ("paper:*", "*") for each role.
type Checker struct {
	RolePermissions map[bank.Role][]string
}

func NewChecker(rp map[bank.Role][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role bank.Role, perm string) bool {
	for _, p := range c.RolePermissions[role] {
		if matchPerm(p, perm) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role bank.Role, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func (c *Checker) All(role bank.Role, perms ...string) bool {
	if len(perms) == 0 {
		return false
	}
	for _, p := range perms {
		if !c.Has(role, p) {
			return false
		}
	}
	return true
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return false
}

// ---- role in context ----

type ctxKey struct{}

var ctxKeyRole = ctxKey{}

func WithRole(ctx context.Context, role bank.Role) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

// RoleFromContext returns the caller's role, "" when none was attached.
func RoleFromContext(ctx context.Context) bank.Role {
	role, _ := ctx.Value(ctxKeyRole).(bank.Role)
	return role
}
