// Package compose holds the paper-composition workflow: filtering the bank,
// picking questions, editing the header, then exporting or saving.
package compose

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/paper"
)

var (
	ErrEmptySelection   = paper.ErrEmptySelection
	ErrTemplateNotFound = errors.New("header template not found")
	ErrUnknownQuestion  = errors.New("question not in catalog")
)

// Catalog is the reference data a session filters and picks from.
type Catalog struct {
	Classes   []bank.Class
	Subjects  []bank.Subject
	Chapters  []bank.Chapter
	Questions []bank.Question
	Headers   []bank.HeaderTemplate
}

func (c Catalog) Question(id int64) (bank.Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return bank.Question{}, false
}

func (c Catalog) Header(id int64) (bank.HeaderTemplate, bool) {
	for _, h := range c.Headers {
		if h.ID == id {
			return h, true
		}
	}
	return bank.HeaderTemplate{}, false
}

type State int

const (
	Idle State = iota
	HasFilters
	HasSelection
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HasFilters:
		return "filtering"
	case HasSelection:
		return "selected"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PaperSaver persists a composed paper.
type PaperSaver interface {
	CreatePaper(ctx context.Context, in bank.PaperInput) (bank.Paper, error)
}

// Session is one composer screen. It is not safe for concurrent use.
type Session struct {
	catalog   Catalog
	filter    Filter
	selection Selection
	header    Header
	template  int64
}

func NewSession(c Catalog) *Session {
	return &Session{catalog: c}
}

func (s *Session) Catalog() Catalog { return s.catalog }
func (s *Session) Filter() Filter   { return s.filter }

func (s *Session) SetFilter(f Filter)  { s.filter = f }
func (s *Session) SetClass(id int64)   { s.filter = s.filter.WithClass(id) }
func (s *Session) SetSubject(id int64) { s.filter = s.filter.WithSubject(id) }
func (s *Session) SetChapter(id int64) { s.filter = s.filter.WithChapter(id) }
func (s *Session) SetType(k bank.Kind) { s.filter = s.filter.WithType(k) }

func (s *Session) Subjects() []bank.Subject { return s.filter.Subjects(s.catalog.Subjects) }
func (s *Session) Chapters() []bank.Chapter { return s.filter.Chapters(s.catalog.Chapters) }

// Visible is the filtered question list, in catalog order.
func (s *Session) Visible() []bank.Question {
	return s.filter.Apply(s.catalog.Questions)
}

// Toggle checks or unchecks a question. Selected questions stay selected when
// the filter later hides them.
func (s *Session) Toggle(id int64, checked bool) error {
	q, ok := s.catalog.Question(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
	}
	s.selection = s.selection.Toggle(q, checked)
	return nil
}

// Select adds ids in order, skipping ones already selected.
func (s *Session) Select(ids ...int64) error {
	for _, id := range ids {
		if err := s.Toggle(id, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) Selection() Selection { return s.selection }

func (s *Session) Header() Header     { return s.header }
func (s *Session) SetHeader(h Header) { s.header = h }
func (s *Session) Template() int64    { return s.template }

// EditHeader applies a single-field edit; other fields are untouched.
func (s *Session) EditHeader(fn func(*Header)) { fn(&s.header) }

// UseTemplate replaces the whole header with a saved template.
func (s *Session) UseTemplate(id int64) error {
	t, ok := s.catalog.Header(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrTemplateNotFound, id)
	}
	s.header = FromTemplate(t)
	s.template = id
	return nil
}

func (s *Session) State() State {
	switch {
	case s.selection.Len() > 0:
		return HasSelection
	case s.filter.Active():
		return HasFilters
	}
	return Idle
}

// Document composes the current header and selection.
func (s *Session) Document() (paper.Document, error) {
	if s.selection.Len() == 0 {
		return paper.Document{}, ErrEmptySelection
	}
	return paper.Compose(s.header.Paper(), s.selection.Questions())
}

// Export renders the paper and returns the suggested download name. Nothing is
// written when the selection is empty.
func (s *Session) Export(w io.Writer, r paper.Renderer) (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	if err := r.Render(w, doc); err != nil {
		return "", fmt.Errorf("render %s: %w", r.Ext(), err)
	}
	return paper.FileName(s.header.ExamType, r.Ext()), nil
}

// SaveInput is the payload Save sends.
func (s *Session) SaveInput() (bank.PaperInput, error) {
	if s.selection.Len() == 0 {
		return bank.PaperInput{}, ErrEmptySelection
	}
	ph, err := s.header.PaperHeader()
	if err != nil {
		return bank.PaperInput{}, err
	}
	return bank.PaperInput{
		Title:       paper.SaveTitle(s.header.ExamType, s.header.ClassName),
		Header:      ph,
		QuestionIDs: s.selection.IDs(),
	}, nil
}

// Save persists the paper. Selection and header reset only when the save
// succeeds; on failure both are kept for a retry.
func (s *Session) Save(ctx context.Context, saver PaperSaver) (bank.Paper, error) {
	in, err := s.SaveInput()
	if err != nil {
		return bank.Paper{}, err
	}
	p, err := saver.CreatePaper(ctx, in)
	if err != nil {
		return bank.Paper{}, err
	}
	s.selection = Selection{}
	s.header = Header{}
	s.template = 0
	return p, nil
}

const previewRunes = 80

// Preview is the one-line summary shown in the question list: the first 80
// runes of the primary text, always followed by "...".
func Preview(q bank.Question) string {
	if q.Body == nil {
		return "No preview available"
	}
	t := []rune(q.PrimaryText())
	if len(t) > previewRunes {
		t = t[:previewRunes]
	}
	return string(t) + "..."
}
