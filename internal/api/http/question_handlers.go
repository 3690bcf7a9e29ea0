package http

import (
	"log"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	auth "github.com/mind-engage/qbank/internal/auth/middleware"
	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/rbac"
	syncx "github.com/mind-engage/qbank/internal/sync"
)

func ListQuestionsHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		items, err := store.ListQuestions(r.Context())
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "questions retrieved", items)
	}
}

func GetQuestionHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		q, err := store.GetQuestion(r.Context(), id)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "question retrieved", q)
	}
}

func CreateQuestionHandler(store bank.Store, events *syncx.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.QuestionInput
		if !decode(w, r, &in) {
			return
		}
		q, err := store.CreateQuestion(r.Context(), in, auth.UserID(r.Context()))
		if err != nil {
			failErr(w, r, err)
			return
		}
		record(r, events, syncx.QuestionCreated, q.ID, map[string]any{"type": q.Kind(), "subjectId": q.SubjectID})
		ok(w, nethttp.StatusCreated, "question created", q)
	}
}

// DeleteQuestionHandler lets admins delete any question and teachers their own.
func DeleteQuestionHandler(store bank.Store, events *syncx.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		q, err := store.GetQuestion(r.Context(), id)
		if err != nil {
			failErr(w, r, err)
			return
		}
		if !rbac.Can(r, "question:delete") && q.CreatedByID != auth.UserID(r.Context()) {
			fail(w, nethttp.StatusForbidden, "forbidden")
			return
		}
		if err := store.DeleteQuestion(r.Context(), id); err != nil {
			failErr(w, r, err)
			return
		}
		record(r, events, syncx.QuestionDeleted, id, nil)
		ok[any](w, nethttp.StatusOK, "question deleted", nil)
	}
}

// record appends to the event log; a failure here never fails the request.
func record(r *nethttp.Request, events *syncx.EventRepo, typ string, id int64, data any) {
	if events == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	if err := events.Record(r.Context(), typ, strconv.FormatInt(id, 10), auth.SubjectFromContext(r.Context()), data); err != nil {
		log.Printf("[%s] event %s %d: %v", middleware.GetReqID(r.Context()), typ, id, err)
	}
}

// GET /events?after=&limit=
func EventsHandler(events *syncx.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		out, err := events.Since(r.Context(), after, limit)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "events retrieved", out)
	}
}
