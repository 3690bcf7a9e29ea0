package http

import (
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/qbank/internal/auth/middleware"
	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/rbac"
)

// GET /users?role=TEACHER
func ListUsersHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		role := bank.Role(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("role"))))
		users, err := store.ListUsers(r.Context(), role)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "users retrieved", users)
	}
}

func CreateUserHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.UserInput
		if !decode(w, r, &in) {
			return
		}
		if in.Role == "" {
			in.Role = bank.RoleTeacher
		}
		// minting a superadmin is itself a role grant
		if in.Role == bank.RoleSuperAdmin && !rbac.Can(r, "user:update_role") {
			fail(w, nethttp.StatusForbidden, "only a superadmin can create that role")
			return
		}
		u, err := store.CreateUser(r.Context(), in)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				fail(w, nethttp.StatusConflict, "email already registered")
				return
			}
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusCreated, "user created", u)
	}
}

func MyProfileHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		u, err := store.GetUser(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "profile retrieved", u)
	}
}

// PATCH /users/{id}  { "role": "ADMIN" }
func UpdateUserRoleHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		var req struct {
			Role bank.Role `json:"role"`
		}
		if !decode(w, r, &req) {
			return
		}
		if id == auth.UserID(r.Context()) {
			fail(w, nethttp.StatusBadRequest, "cannot change your own role")
			return
		}
		cur, err := store.GetUser(r.Context(), id)
		if err != nil {
			failErr(w, r, err)
			return
		}
		if cur.Role == bank.RoleSuperAdmin && req.Role != bank.RoleSuperAdmin {
			admins, err := store.ListUsers(r.Context(), bank.RoleSuperAdmin)
			if err != nil {
				failErr(w, r, err)
				return
			}
			if len(admins) <= 1 {
				fail(w, nethttp.StatusBadRequest, "cannot demote the last superadmin")
				return
			}
		}
		u, err := store.UpdateUserRole(r.Context(), id, req.Role)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "user updated", u)
	}
}

// ---- teacher-subject assignments ----

func ListAssignmentsHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var teacherID int64
		if chi.URLParam(r, "teacherId") != "" {
			id, good := idParam(w, r, "teacherId")
			if !good {
				return
			}
			teacherID = id
		}
		items, err := store.ListAssignments(r.Context(), teacherID)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "teacher subjects retrieved", items)
	}
}

func AssignTeacherHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.AssignmentInput
		if !decode(w, r, &in) {
			return
		}
		a, err := store.AssignTeacher(r.Context(), in)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				fail(w, nethttp.StatusConflict, "teacher already assigned to this subject")
				return
			}
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusCreated, "teacher assigned", a)
	}
}

func RemoveAssignmentHandler(store bank.Store) nethttp.HandlerFunc {
	return deleteHandler("teacher subject", store.RemoveAssignment)
}

// isSelf reports whether the {teacherId} in the path is the caller.
func isSelf(r *nethttp.Request) bool {
	return chi.URLParam(r, "teacherId") != "" && chi.URLParam(r, "teacherId") == auth.SubjectFromContext(r.Context())
}
