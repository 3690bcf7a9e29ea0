package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Kind string

const (
	KindObjective  Kind = "OBJECTIVE"
	KindAnahote    Kind = "ANAHOTE"
	KindSrijonshil Kind = "SRIJONSHIL"
)

func (k Kind) Valid() bool {
	switch k {
	case KindObjective, KindAnahote, KindSrijonshil:
		return true
	}
	return false
}

type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleTeacher    Role = "TEACHER"
)

type Class struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ClassID   int64     `json:"classId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Chapter carries ClassID as well so filters never need a join through Subject.
type Chapter struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ClassID   int64     `json:"classId"`
	SubjectID int64     `json:"subjectId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Option struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type SubQuestion struct {
	QuestionText string  `json:"questionText"`
	QuestionMark float64 `json:"questionMark"`
	Hint         *string `json:"hint"`
}

// Body is the variant payload of a Question. Exactly one implementation
// exists per Kind.
type Body interface {
	Kind() Kind
	PrimaryText() string
}

type Objective struct {
	QuestionText      string   `json:"questionText"`
	QuestionMark      float64  `json:"questionMark"`
	Options           []Option `json:"options"`
	AnswerOptionIndex int      `json:"answerOptionIndex"`
}

type Anahote struct {
	QuestionText string  `json:"questionText"`
	QuestionMark float64 `json:"questionMark"`
}

type Srijonshil struct {
	Prompt       string        `json:"prompt"`
	Difficulty   Difficulty    `json:"difficulty"`
	SubQuestions []SubQuestion `json:"subQuestions"`
}

func (*Objective) Kind() Kind  { return KindObjective }
func (*Anahote) Kind() Kind    { return KindAnahote }
func (*Srijonshil) Kind() Kind { return KindSrijonshil }

func (o *Objective) PrimaryText() string  { return o.QuestionText }
func (a *Anahote) PrimaryText() string    { return a.QuestionText }
func (s *Srijonshil) PrimaryText() string { return s.Prompt }

type Question struct {
	ID          int64     `json:"id"`
	ClassID     int64     `json:"classId"`
	SubjectID   int64     `json:"subjectId"`
	ChapterID   *int64    `json:"chapterId,omitempty"`
	CreatedByID int64     `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Body        Body      `json:"-"`
}

// Kind reports the variant tag; a question without a body has none.
func (q Question) Kind() Kind {
	if q.Body == nil {
		return ""
	}
	return q.Body.Kind()
}

func (q Question) PrimaryText() string {
	if q.Body == nil {
		return ""
	}
	return q.Body.PrimaryText()
}

// questionWire is the backend JSON shape: a type tag plus three nullable variants.
type questionWire struct {
	ID          int64       `json:"id"`
	Type        Kind        `json:"type"`
	ClassID     int64       `json:"classId"`
	SubjectID   int64       `json:"subjectId"`
	ChapterID   *int64      `json:"chapterId,omitempty"`
	CreatedByID int64       `json:"createdById"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Objective   *Objective  `json:"objective"`
	Anahote     *Anahote    `json:"anahote"`
	Srijonshil  *Srijonshil `json:"srijonshil"`
}

var ErrVariantMismatch = errors.New("question variant does not match type")

func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		ID: q.ID, Type: q.Kind(), ClassID: q.ClassID, SubjectID: q.SubjectID,
		ChapterID: q.ChapterID, CreatedByID: q.CreatedByID,
		CreatedAt: q.CreatedAt, UpdatedAt: q.UpdatedAt,
	}
	switch b := q.Body.(type) {
	case *Objective:
		w.Objective = b
	case *Anahote:
		w.Anahote = b
	case *Srijonshil:
		w.Srijonshil = b
	}
	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	body, err := pickBody(w.Type, w.Objective, w.Anahote, w.Srijonshil)
	if err != nil {
		return fmt.Errorf("question %d: %w", w.ID, err)
	}
	*q = Question{
		ID: w.ID, ClassID: w.ClassID, SubjectID: w.SubjectID, ChapterID: w.ChapterID,
		CreatedByID: w.CreatedByID, CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt,
		Body: body,
	}
	return nil
}

func pickBody(kind Kind, o *Objective, a *Anahote, s *Srijonshil) (Body, error) {
	n := 0
	for _, set := range []bool{o != nil, a != nil, s != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, ErrVariantMismatch
	}
	switch {
	case kind == KindObjective && o != nil:
		return o, nil
	case kind == KindAnahote && a != nil:
		return a, nil
	case kind == KindSrijonshil && s != nil:
		return s, nil
	}
	return nil, ErrVariantMismatch
}

// HeaderTemplate is a saved header preset.
type HeaderTemplate struct {
	ID         int64   `json:"id"`
	SchoolName string  `json:"schoolName"`
	Location   string  `json:"location"`
	ClassName  string  `json:"className"`
	Subject    string  `json:"subject"`
	ExamType   string  `json:"examType"`
	Duration   string  `json:"duration"`
	FullMark   float64 `json:"fullMark"`
	Remark     *string `json:"remark,omitempty"`
}

// PaperHeader is the header as persisted with a paper.
type PaperHeader struct {
	SchoolName string  `json:"schoolName"`
	Location   string  `json:"location"`
	ClassName  string  `json:"className"`
	Subject    string  `json:"subject"`
	ExamType   string  `json:"examType"`
	Duration   string  `json:"duration"`
	FullMark   float64 `json:"fullMark"`
	Remark     string  `json:"remark"`
}

type Paper struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Header      PaperHeader `json:"header"`
	QuestionIDs []int64     `json:"questionIds"`
	CreatedByID int64       `json:"createdById"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Assignment struct {
	ID          int64     `json:"id"`
	TeacherID   int64     `json:"teacherId"`
	TeacherName string    `json:"teacherName"`
	SubjectID   int64     `json:"subjectId"`
	ClassID     int64     `json:"classId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Meta describes one page of a paginated list.
type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

func NewMeta(total int64, page, limit int) Meta {
	if limit <= 0 {
		limit = 1
	}
	tp := int((total + int64(limit) - 1) / int64(limit))
	if tp == 0 {
		tp = 1
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPage: tp}
}

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// Response is the envelope every backend reply is wrapped in.
type Response[T any] struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
	Meta       *Meta  `json:"meta,omitempty"`
}
