package http

import (
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/qbank/internal/auth/middleware"
	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/rbac"
	"github.com/mind-engage/qbank/internal/storage"
	syncx "github.com/mind-engage/qbank/internal/sync"
)

type Deps struct {
	Store  bank.Store
	Users  auth.UserGetter
	Auth   *auth.AuthService
	Blobs  storage.BlobStore
	Events *syncx.EventRepo

	CORSOrigins      []string
	DefaultPageLimit int
	// DevRoleFallback keeps the token's role claim when the users lookup errors.
	DevRoleFallback bool
}

// NewRouter mounts the question-bank API.
func NewRouter(d Deps) nethttp.Handler {
	if d.DefaultPageLimit <= 0 {
		d.DefaultPageLimit = 10
	}
	if d.Users == nil {
		d.Users = d.Store
	}
	s := d.Store

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "X-Paper-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Post("/auth/login", auth.LoginHandler(d.Auth, s))
	r.Get("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w nethttp.ResponseWriter, r *nethttp.Request) { w.WriteHeader(200) })

	// Protected API (JWT → stored role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))
		pr.Use(auth.AttachRoleFromDB(d.Users, d.DevRoleFallback))

		pr.With(rbac.Require("class:view")).Get("/classes", ListClassesHandler(s, d.DefaultPageLimit))
		pr.With(rbac.Require("class:create")).Post("/classes", CreateClassHandler(s))
		pr.With(rbac.Require("class:view")).Get("/classes/{id}", GetClassHandler(s))
		pr.With(rbac.Require("class:delete")).Delete("/classes/{id}", DeleteClassHandler(s))

		pr.With(rbac.Require("subject:view")).Get("/subjects", ListSubjectsHandler(s))
		pr.With(rbac.Require("subject:create")).Post("/subjects", CreateSubjectHandler(s))
		pr.With(rbac.Require("subject:delete")).Delete("/subjects/{id}", DeleteSubjectHandler(s))

		pr.With(rbac.Require("chapter:view")).Get("/chapters", ListChaptersHandler(s))
		pr.With(rbac.Require("chapter:create")).Post("/chapters", CreateChapterHandler(s))
		pr.With(rbac.Require("chapter:delete")).Delete("/chapters/{id}", DeleteChapterHandler(s))

		pr.With(rbac.Require("question:view")).Get("/questions", ListQuestionsHandler(s))
		pr.With(rbac.Require("question:create")).Post("/questions", CreateQuestionHandler(s, d.Events))
		pr.With(rbac.Require("question:view")).Get("/questions/{id}", GetQuestionHandler(s))
		// owner check inside
		pr.With(rbac.Require("question:view")).Delete("/questions/{id}", DeleteQuestionHandler(s, d.Events))

		pr.With(rbac.Require("header:view")).Get("/question-headers", ListHeadersHandler(s))
		pr.With(rbac.Require("header:create")).Post("/question-headers", CreateHeaderHandler(s))
		pr.With(rbac.Require("header:view")).Get("/question-headers/{id}", GetHeaderHandler(s))
		pr.With(rbac.Require("header:delete")).Delete("/question-headers/{id}", DeleteHeaderHandler(s))

		// list/create keep the legacy camelCase path
		pr.With(rbac.Require("paper:view")).Get("/questionPapers", ListPapersHandler(s, d.DefaultPageLimit))
		pr.With(rbac.Require("paper:create")).Post("/questionPapers", CreatePaperHandler(s, d.Events))
		pr.With(rbac.Require("paper:view")).Get("/question-papers/{id}", GetPaperHandler(s))
		pr.With(rbac.Require("paper:delete")).Delete("/question-papers/{id}", DeletePaperHandler(s, d.Blobs, d.Events))
		pr.With(rbac.Require("paper:export")).Get("/question-papers/{id}/download", DownloadPaperHandler(s, d.Blobs))
		pr.With(rbac.RequireAll("question:view", "paper:export")).Post("/compose/{format}", ComposeHandler(s, d.Events))

		pr.With(rbac.Require("assignment:view")).Get("/teacher-subjects", ListAssignmentsHandler(s))
		pr.With(rbac.Require("assignment:create")).Post("/teacher-subjects", AssignTeacherHandler(s))
		pr.With(rbac.RequireOwnerOr("assignment:view", "assignment:view_own", isSelf)).
			Get("/teacher-subjects/teacher/{teacherId}", ListAssignmentsHandler(s))
		pr.With(rbac.Require("assignment:delete")).Delete("/teacher-subjects/{id}", RemoveAssignmentHandler(s))

		pr.With(rbac.RequireAny("user:list", "assignment:create")).Get("/users", ListUsersHandler(s))
		pr.With(rbac.Require("user:create")).Post("/users", CreateUserHandler(s))
		pr.With(rbac.Require("user:view_self")).Get("/users/my-profile", MyProfileHandler(s))
		pr.With(rbac.Require("user:change_password")).Post("/users/change-password", ChangePasswordHandler(s))
		pr.With(rbac.Require("user:update_role")).Patch("/users/{id}", UpdateUserRoleHandler(s))

		if d.Events != nil {
			pr.With(rbac.Require("event:view")).Get("/events", EventsHandler(d.Events))
		}
	})

	return r
}
