package http

import (
	"context"
	nethttp "net/http"

	"github.com/mind-engage/qbank/internal/bank"
)

// ---- classes ----

func ListClassesHandler(store bank.Store, defLimit int) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		items, meta, err := store.ListClasses(r.Context(), pageParams(r, defLimit))
		if err != nil {
			failErr(w, r, err)
			return
		}
		okPage(w, "classes retrieved", items, meta)
	}
}

func CreateClassHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.ClassInput
		if !decode(w, r, &in) {
			return
		}
		c, err := store.CreateClass(r.Context(), in)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusCreated, "class created", c)
	}
}

func GetClassHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		c, err := store.GetClass(r.Context(), id)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "class retrieved", c)
	}
}

func DeleteClassHandler(store bank.Store) nethttp.HandlerFunc {
	return deleteHandler("class", store.DeleteClass)
}

// ---- subjects ----

func ListSubjectsHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		items, err := store.ListSubjects(r.Context())
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "subjects retrieved", items)
	}
}

func CreateSubjectHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.SubjectInput
		if !decode(w, r, &in) {
			return
		}
		s, err := store.CreateSubject(r.Context(), in)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusCreated, "subject created", s)
	}
}

func DeleteSubjectHandler(store bank.Store) nethttp.HandlerFunc {
	return deleteHandler("subject", store.DeleteSubject)
}

// ---- chapters ----

func ListChaptersHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		items, err := store.ListChapters(r.Context())
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "chapters retrieved", items)
	}
}

func CreateChapterHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.ChapterInput
		if !decode(w, r, &in) {
			return
		}
		ch, err := store.CreateChapter(r.Context(), in)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusCreated, "chapter created", ch)
	}
}

func DeleteChapterHandler(store bank.Store) nethttp.HandlerFunc {
	return deleteHandler("chapter", store.DeleteChapter)
}

// ---- header templates ----

func ListHeadersHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		items, err := store.ListHeaders(r.Context())
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "question headers retrieved", items)
	}
}

func CreateHeaderHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.HeaderInput
		if !decode(w, r, &in) {
			return
		}
		h, err := store.CreateHeader(r.Context(), in)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusCreated, "question header created", h)
	}
}

func GetHeaderHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		h, err := store.GetHeader(r.Context(), id)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "question header retrieved", h)
	}
}

func DeleteHeaderHandler(store bank.Store) nethttp.HandlerFunc {
	return deleteHandler("question header", store.DeleteHeader)
}

func deleteHandler(what string, del func(ctx context.Context, id int64) error) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		if err := del(r.Context(), id); err != nil {
			failErr(w, r, err)
			return
		}
		ok[any](w, nethttp.StatusOK, what+" deleted", nil)
	}
}
