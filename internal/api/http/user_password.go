package http

import (
	nethttp "net/http"

	"golang.org/x/crypto/bcrypt"

	auth "github.com/mind-engage/qbank/internal/auth/middleware"
	"github.com/mind-engage/qbank/internal/bank"
)

type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

const minPasswordLen = 6

// POST /users/change-password
func ChangePasswordHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req changePasswordReq
		if !decode(w, r, &req) {
			return
		}
		if len(req.NewPassword) < minPasswordLen {
			fail(w, nethttp.StatusBadRequest, "new password must be at least 6 characters")
			return
		}

		u, err := store.GetUser(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			failErr(w, r, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
			fail(w, nethttp.StatusForbidden, "incorrect old password")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
		if err != nil {
			failErr(w, r, err)
			return
		}
		if err := store.SetPassword(r.Context(), u.ID, string(hash)); err != nil {
			failErr(w, r, err)
			return
		}
		ok[any](w, nethttp.StatusOK, "password changed", nil)
	}
}
