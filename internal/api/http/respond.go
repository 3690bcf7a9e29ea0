package http

import (
	"encoding/json"
	"errors"
	"log"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/compose"
	"github.com/mind-engage/qbank/internal/paper"
)

const maxPageLimit = 100

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok[T any](w nethttp.ResponseWriter, status int, msg string, data T) {
	writeJSON(w, status, bank.Response[T]{StatusCode: status, Success: true, Message: msg, Data: data})
}

func okPage[T any](w nethttp.ResponseWriter, msg string, data T, meta bank.Meta) {
	writeJSON(w, nethttp.StatusOK, bank.Response[T]{
		StatusCode: nethttp.StatusOK, Success: true, Message: msg, Data: data, Meta: &meta,
	})
}

func fail(w nethttp.ResponseWriter, status int, msg string) {
	writeJSON(w, status, bank.Response[any]{StatusCode: status, Message: msg})
}

// failErr maps domain errors to a status. Unexpected errors are logged with the
// request id and answered with a generic message.
func failErr(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	switch {
	case errors.Is(err, bank.ErrNotFound), errors.Is(err, compose.ErrTemplateNotFound):
		fail(w, nethttp.StatusNotFound, err.Error())
	case errors.Is(err, bank.ErrInvalid),
		errors.Is(err, bank.ErrVariantMismatch),
		errors.Is(err, compose.ErrEmptySelection),
		errors.Is(err, compose.ErrFullMarkNotNumeric),
		errors.Is(err, paper.ErrLabelOverflow):
		fail(w, nethttp.StatusBadRequest, err.Error())
	default:
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		fail(w, nethttp.StatusInternalServerError, "internal error")
	}
}

func decode(w nethttp.ResponseWriter, r *nethttp.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		fail(w, nethttp.StatusBadRequest, "bad json")
		return false
	}
	return true
}

func idParam(w nethttp.ResponseWriter, r *nethttp.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		fail(w, nethttp.StatusBadRequest, "bad "+name)
		return 0, false
	}
	return id, true
}

// pageParams reads ?page=&limit=; bad values fall back to page 1 and def.
func pageParams(r *nethttp.Request, def int) bank.Page {
	p := bank.Page{Page: 1, Limit: def}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		if v > maxPageLimit {
			v = maxPageLimit
		}
		p.Limit = v
	}
	return p
}
