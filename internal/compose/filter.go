package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mind-engage/qbank/internal/bank"
)

// All is the filter value that matches every id.
const All int64 = 0

// Filter narrows the question list along four independent dimensions. The zero
// value matches everything.
type Filter struct {
	ClassID   int64
	SubjectID int64
	ChapterID int64
	Type      bank.Kind // "" = all
}

// WithClass switches class and drops subject and chapter, which belong to the old class.
func (f Filter) WithClass(id int64) Filter {
	return Filter{ClassID: id, Type: f.Type}
}

func (f Filter) WithSubject(id int64) Filter {
	f.SubjectID = id
	return f
}

func (f Filter) WithChapter(id int64) Filter {
	f.ChapterID = id
	return f
}

func (f Filter) WithType(k bank.Kind) Filter {
	f.Type = k
	return f
}

// Active reports whether any dimension is narrowed.
func (f Filter) Active() bool {
	return f != Filter{}
}

func (f Filter) Match(q bank.Question) bool {
	if f.ClassID != All && q.ClassID != f.ClassID {
		return false
	}
	if f.SubjectID != All && q.SubjectID != f.SubjectID {
		return false
	}
	if f.ChapterID != All && (q.ChapterID == nil || *q.ChapterID != f.ChapterID) {
		return false
	}
	if f.Type != "" && q.Kind() != f.Type {
		return false
	}
	return true
}

// Apply returns the matching questions in their original order.
func (f Filter) Apply(qs []bank.Question) []bank.Question {
	out := make([]bank.Question, 0, len(qs))
	for _, q := range qs {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	return out
}

// Subjects lists the subject choices for the current class.
func (f Filter) Subjects(all []bank.Subject) []bank.Subject {
	out := make([]bank.Subject, 0, len(all))
	for _, s := range all {
		if f.ClassID == All || s.ClassID == f.ClassID {
			out = append(out, s)
		}
	}
	return out
}

// Chapters lists the chapter choices for the current class and subject.
func (f Filter) Chapters(all []bank.Chapter) []bank.Chapter {
	out := make([]bank.Chapter, 0, len(all))
	for _, ch := range all {
		if (f.SubjectID == All || ch.SubjectID == f.SubjectID) &&
			(f.ClassID == All || ch.ClassID == f.ClassID) {
			out = append(out, ch)
		}
	}
	return out
}

// ParseID reads a filter id; "" and "all" mean All.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return All, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad filter id %q", s)
	}
	return id, nil
}

// ParseKind reads a type filter; "" and "all" mean every type.
func ParseKind(s string) (bank.Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	k := bank.Kind(strings.ToUpper(s))
	if !k.Valid() {
		return "", fmt.Errorf("bad question type %q", s)
	}
	return k, nil
}
