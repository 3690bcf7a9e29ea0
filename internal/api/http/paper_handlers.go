package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"mime"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	auth "github.com/mind-engage/qbank/internal/auth/middleware"
	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/compose"
	"github.com/mind-engage/qbank/internal/paper"
	"github.com/mind-engage/qbank/internal/storage"
	syncx "github.com/mind-engage/qbank/internal/sync"
)

var paperFormats = []string{"pdf", "docx"}

func ListPapersHandler(store bank.Store, defLimit int) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		items, meta, err := store.ListPapers(r.Context(), pageParams(r, defLimit))
		if err != nil {
			failErr(w, r, err)
			return
		}
		okPage(w, "question papers retrieved", items, meta)
	}
}

func GetPaperHandler(store bank.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		p, err := store.GetPaper(r.Context(), id)
		if err != nil {
			failErr(w, r, err)
			return
		}
		ok(w, nethttp.StatusOK, "question paper retrieved", p)
	}
}

// storeSaver adapts the store to compose.PaperSaver for the request's user.
type storeSaver struct {
	store bank.Store
	by    int64
}

func (s storeSaver) CreatePaper(ctx context.Context, in bank.PaperInput) (bank.Paper, error) {
	return s.store.CreatePaper(ctx, in, s.by)
}

func CreatePaperHandler(store bank.Store, events *syncx.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in bank.PaperInput
		if !decode(w, r, &in) {
			return
		}
		p, err := storeSaver{store, auth.UserID(r.Context())}.CreatePaper(r.Context(), in)
		if err != nil {
			failErr(w, r, err)
			return
		}
		record(r, events, syncx.PaperCreated, p.ID, map[string]any{"title": p.Title, "questions": len(p.QuestionIDs)})
		ok(w, nethttp.StatusCreated, "question paper created", p)
	}
}

func DeletePaperHandler(store bank.Store, blobs storage.BlobStore, events *syncx.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		if err := store.DeletePaper(r.Context(), id); err != nil {
			failErr(w, r, err)
			return
		}
		for _, f := range paperFormats {
			if err := blobs.Delete(storage.PaperKey(id, f)); err != nil {
				log.Printf("[%s] drop cached paper %d.%s: %v", middleware.GetReqID(r.Context()), id, f, err)
			}
		}
		record(r, events, syncx.PaperDeleted, id, nil)
		ok[any](w, nethttp.StatusOK, "question paper deleted", nil)
	}
}

func renderer(w nethttp.ResponseWriter, format string) (paper.Renderer, bool) {
	if format == "" {
		format = "pdf"
	}
	rd, found := paper.Lookup(format)
	if !found {
		fail(w, nethttp.StatusBadRequest, "unsupported format "+strconv.Quote(format))
	}
	return rd, found
}

func sendFile(w nethttp.ResponseWriter, rd paper.Renderer, name string, body io.Reader) {
	w.Header().Set("Content-Type", rd.ContentType())
	cd := mime.FormatMediaType("attachment", map[string]string{"filename": name})
	if cd == "" {
		cd = "attachment"
	}
	w.Header().Set("Content-Disposition", cd)
	w.WriteHeader(nethttp.StatusOK)
	_, _ = io.Copy(w, body)
}

// GET /question-papers/{id}/download?format=pdf|docx
// The first download renders the paper and caches it in the blob store.
func DownloadPaperHandler(store bank.Store, blobs storage.BlobStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, good := idParam(w, r, "id")
		if !good {
			return
		}
		rd, found := renderer(w, r.URL.Query().Get("format"))
		if !found {
			return
		}
		p, err := store.GetPaper(r.Context(), id)
		if err != nil {
			failErr(w, r, err)
			return
		}
		name := paper.FileName(p.Header.ExamType, rd.Ext())
		key := storage.PaperKey(id, rd.Ext())

		rc, err := blobs.Get(key)
		switch {
		case err == nil:
			defer rc.Close()
			sendFile(w, rd, name, rc)
			return
		case !errors.Is(err, storage.ErrNotFound):
			log.Printf("[%s] read cached paper %s: %v", middleware.GetReqID(r.Context()), key, err)
		}

		qs, err := store.GetQuestions(r.Context(), p.QuestionIDs)
		if err != nil {
			failErr(w, r, err)
			return
		}
		h := compose.Header{
			SchoolName: p.Header.SchoolName, Location: p.Header.Location,
			ClassName: p.Header.ClassName, Subject: p.Header.Subject,
			ExamType: p.Header.ExamType, Duration: p.Header.Duration,
			FullMark: paper.FormatMark(p.Header.FullMark), Remark: p.Header.Remark,
		}
		doc, err := paper.Compose(h.Paper(), qs)
		if err != nil {
			failErr(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := rd.Render(&buf, doc); err != nil {
			failErr(w, r, err)
			return
		}
		if _, err := blobs.Put(key, bytes.NewReader(buf.Bytes())); err != nil {
			log.Printf("[%s] cache paper %s: %v", middleware.GetReqID(r.Context()), key, err)
		} else if u, err := blobs.SignedURL(key); err == nil {
			log.Printf("[%s] cached paper %d at %s", middleware.GetReqID(r.Context()), id, u)
		}
		sendFile(w, rd, name, &buf)
	}
}

type composeRequest struct {
	Header      compose.Header `json:"header"`
	TemplateID  int64          `json:"templateId"`
	QuestionIDs []int64        `json:"questionIds"`
	Save        bool           `json:"save"`
}

// POST /compose/{format}
// Builds a paper from a template and/or header fields plus an ordered question
// list and answers the rendered file. With "save": true the paper is also stored
// and its id returned in X-Paper-ID.
func ComposeHandler(store bank.Store, events *syncx.EventRepo) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		rd, found := renderer(w, chi.URLParam(r, "format"))
		if !found {
			return
		}
		var req composeRequest
		if !decode(w, r, &req) {
			return
		}
		if len(req.QuestionIDs) == 0 {
			failErr(w, r, compose.ErrEmptySelection)
			return
		}
		qs, err := store.GetQuestions(r.Context(), req.QuestionIDs)
		if err != nil {
			failErr(w, r, err)
			return
		}
		cat := compose.Catalog{Questions: qs}
		if req.TemplateID > 0 {
			t, err := store.GetHeader(r.Context(), req.TemplateID)
			if err != nil {
				failErr(w, r, err)
				return
			}
			cat.Headers = []bank.HeaderTemplate{t}
		}

		sess := compose.NewSession(cat)
		if req.TemplateID > 0 {
			if err := sess.UseTemplate(req.TemplateID); err != nil {
				failErr(w, r, err)
				return
			}
		}
		sess.EditHeader(func(h *compose.Header) { *h = h.Overlay(req.Header) })
		if err := sess.Select(req.QuestionIDs...); err != nil {
			failErr(w, r, err)
			return
		}

		var buf bytes.Buffer
		name, err := sess.Export(&buf, rd)
		if err != nil {
			failErr(w, r, err)
			return
		}
		if req.Save {
			p, err := sess.Save(r.Context(), storeSaver{store, auth.UserID(r.Context())})
			if err != nil {
				failErr(w, r, err)
				return
			}
			record(r, events, syncx.PaperCreated, p.ID, map[string]any{"title": p.Title, "questions": len(p.QuestionIDs)})
			w.Header().Set("X-Paper-ID", strconv.FormatInt(p.ID, 10))
		}
		sendFile(w, rd, name, &buf)
	}
}
