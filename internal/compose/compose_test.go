package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/paper"
)

func ptr[T any](v T) *T { return &v }

func anahote(id, class, subject int64, chapter *int64, text string) bank.Question {
	return bank.Question{
		ID: id, ClassID: class, SubjectID: subject, ChapterID: chapter,
		Body: &bank.Anahote{QuestionText: text, QuestionMark: 2},
	}
}

func objective(id, class, subject int64, text string, opts ...string) bank.Question {
	o := &bank.Objective{QuestionText: text, QuestionMark: 1}
	for i, t := range opts {
		o.Options = append(o.Options, bank.Option{ID: int64(i + 1), Text: t})
	}
	return bank.Question{ID: id, ClassID: class, SubjectID: subject, Body: o}
}

func testCatalog() Catalog {
	return Catalog{
		Classes:  []bank.Class{{ID: 1, Name: "Nine"}, {ID: 2, Name: "Ten"}},
		Subjects: []bank.Subject{{ID: 10, ClassID: 1, Name: "Math"}, {ID: 20, ClassID: 2, Name: "Physics"}},
		Chapters: []bank.Chapter{{ID: 100, ClassID: 1, SubjectID: 10, Name: "Algebra"}, {ID: 200, ClassID: 2, SubjectID: 20, Name: "Motion"}},
		Questions: []bank.Question{
			anahote(1, 1, 10, ptr(int64(100)), "What is x?"),
			objective(2, 2, 20, "Capital of France?", "Paris", "London", "Rome", "Berlin"),
			anahote(3, 2, 20, nil, "Define velocity"),
			objective(4, 1, 10, "2+2?", "3", "4", "5", "6"),
		},
		Headers: []bank.HeaderTemplate{{
			ID: 7, SchoolName: "ABC High", Location: "Dhaka", ClassName: "Ten", Subject: "Physics",
			ExamType: "Midterm", Duration: "2h", FullMark: 100, Remark: ptr("Answer all"),
		}},
	}
}

func ids(qs []bank.Question) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestFilterApply(t *testing.T) {
	qs := testCatalog().Questions
	cases := []struct {
		name string
		f    Filter
		want []int64
	}{
		{"all", Filter{}, []int64{1, 2, 3, 4}},
		{"class", Filter{ClassID: 2}, []int64{2, 3}},
		{"subject", Filter{ClassID: 1, SubjectID: 10}, []int64{1, 4}},
		{"chapter", Filter{ChapterID: 100}, []int64{1}},
		{"type", Filter{Type: bank.KindObjective}, []int64{2, 4}},
		{"class+type", Filter{ClassID: 1, Type: bank.KindAnahote}, []int64{1}},
		{"none", Filter{ClassID: 99}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(tc.f.Apply(qs))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestWithClassResetsDependents(t *testing.T) {
	f := Filter{ClassID: 1, SubjectID: 10, ChapterID: 100, Type: bank.KindAnahote}
	got := f.WithClass(2)
	want := Filter{ClassID: 2, Type: bank.KindAnahote}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if f.WithClass(All).SubjectID != All {
		t.Fatal("subject not reset when class goes back to all")
	}
}

func TestDependentDropdowns(t *testing.T) {
	c := testCatalog()
	f := Filter{}.WithClass(2)
	if s := f.Subjects(c.Subjects); len(s) != 1 || s[0].ID != 20 {
		t.Fatalf("subjects: %+v", s)
	}
	if ch := f.WithSubject(20).Chapters(c.Chapters); len(ch) != 1 || ch[0].ID != 200 {
		t.Fatalf("chapters: %+v", ch)
	}
	if n := len(Filter{}.Chapters(c.Chapters)); n != 2 {
		t.Fatalf("unfiltered chapters: %d", n)
	}
}

func TestParseFilterValues(t *testing.T) {
	if id, err := ParseID("all"); err != nil || id != All {
		t.Fatalf("all: %d %v", id, err)
	}
	if id, err := ParseID(" 12 "); err != nil || id != 12 {
		t.Fatalf("12: %d %v", id, err)
	}
	if _, err := ParseID("x"); err == nil {
		t.Fatal("expected error for x")
	}
	if k, err := ParseKind("srijonshil"); err != nil || k != bank.KindSrijonshil {
		t.Fatalf("kind: %q %v", k, err)
	}
	if _, err := ParseKind("essay"); err == nil {
		t.Fatal("expected error for essay")
	}
}

func TestSelectionIsOrderedSet(t *testing.T) {
	c := testCatalog()
	var s Selection
	s = s.Add(c.Questions[2]).Add(c.Questions[0]).Add(c.Questions[2])
	if got := s.IDs(); !reflect.DeepEqual(got, []int64{3, 1}) {
		t.Fatalf("ids %v", got)
	}
	before := s
	s = s.Remove(3)
	if s.Has(3) || s.Len() != 1 {
		t.Fatalf("remove: %v", s.IDs())
	}
	if !before.Has(3) {
		t.Fatal("remove mutated the previous value")
	}
	s = s.Toggle(c.Questions[1], true).Toggle(c.Questions[0], false)
	if got := s.IDs(); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("toggle: %v", got)
	}
}

func TestSessionStates(t *testing.T) {
	s := NewSession(testCatalog())
	if s.State() != Idle {
		t.Fatalf("start: %v", s.State())
	}
	s.SetClass(2)
	if s.State() != HasFilters {
		t.Fatalf("filtered: %v", s.State())
	}
	if got := ids(s.Visible()); !reflect.DeepEqual(got, []int64{2, 3}) {
		t.Fatalf("visible %v", got)
	}
	if err := s.Toggle(3, true); err != nil {
		t.Fatal(err)
	}
	if s.State() != HasSelection {
		t.Fatalf("selected: %v", s.State())
	}
	// selection survives a filter that hides it
	s.SetClass(1)
	if !s.Selection().Has(3) {
		t.Fatal("selection dropped by filter change")
	}
	if err := s.Toggle(42, true); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("unknown id: %v", err)
	}
}

type countingRenderer struct{ calls int }

func (*countingRenderer) Ext() string         { return "txt" }
func (*countingRenderer) ContentType() string { return "text/plain" }
func (r *countingRenderer) Render(w io.Writer, doc paper.Document) error {
	r.calls++
	for _, it := range doc.Items {
		io.WriteString(w, it.Text+"\n")
	}
	return nil
}

func TestExportEmptySelectionSkipsRenderer(t *testing.T) {
	s := NewSession(testCatalog())
	r := &countingRenderer{}
	var buf bytes.Buffer
	if _, err := s.Export(&buf, r); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v", err)
	}
	if r.calls != 0 || buf.Len() != 0 {
		t.Fatalf("renderer invoked: calls=%d bytes=%d", r.calls, buf.Len())
	}
}

func TestExportFileName(t *testing.T) {
	s := NewSession(testCatalog())
	if err := s.Select(2, 1); err != nil {
		t.Fatal(err)
	}
	r := &countingRenderer{}
	var buf bytes.Buffer
	name, err := s.Export(&buf, r)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Question-Paper.txt" {
		t.Fatalf("name %q", name)
	}
	if buf.String() != "Capital of France?\nWhat is x?\n" {
		t.Fatalf("order: %q", buf.String())
	}
	s.EditHeader(func(h *Header) { h.ExamType = "Final" })
	name, _ = s.Export(io.Discard, r)
	if name != "Final-Paper.txt" {
		t.Fatalf("name %q", name)
	}
	if s.State() != HasSelection {
		t.Fatal("export changed state")
	}
}

func TestUseTemplateOverwritesEveryField(t *testing.T) {
	s := NewSession(testCatalog())
	s.SetHeader(Header{SchoolName: "Old", Remark: "stale", Duration: "9h"})
	if err := s.UseTemplate(7); err != nil {
		t.Fatal(err)
	}
	want := Header{
		SchoolName: "ABC High", Location: "Dhaka", ClassName: "Ten", Subject: "Physics",
		ExamType: "Midterm", Duration: "2h", FullMark: "100", Remark: "Answer all",
	}
	if s.Header() != want {
		t.Fatalf("got %+v", s.Header())
	}

	c := testCatalog()
	c.Headers[0].Remark = nil
	s = NewSession(c)
	s.SetHeader(Header{Remark: "stale"})
	_ = s.UseTemplate(7)
	if s.Header().Remark != "" {
		t.Fatalf("remark survived: %q", s.Header().Remark)
	}
	if err := s.UseTemplate(8); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("missing template: %v", err)
	}
}

type fakeSaver struct {
	got bank.PaperInput
	err error
}

func (f *fakeSaver) CreatePaper(_ context.Context, in bank.PaperInput) (bank.Paper, error) {
	f.got = in
	if f.err != nil {
		return bank.Paper{}, f.err
	}
	return bank.Paper{ID: 5, Title: in.Title, Header: in.Header, QuestionIDs: in.QuestionIDs}, nil
}

func TestSaveCoercesFullMark(t *testing.T) {
	s := NewSession(testCatalog())
	s.SetHeader(Header{SchoolName: "ABC High", ExamType: "Midterm", ClassName: "Ten", FullMark: "100"})
	if err := s.Select(1, 2, 3); err != nil {
		t.Fatal(err)
	}
	sv := &fakeSaver{}
	p, err := s.Save(context.Background(), sv)
	if err != nil {
		t.Fatal(err)
	}
	if sv.got.Header.FullMark != 100 {
		t.Fatalf("fullMark %v", sv.got.Header.FullMark)
	}
	if !reflect.DeepEqual(sv.got.QuestionIDs, []int64{1, 2, 3}) {
		t.Fatalf("ids %v", sv.got.QuestionIDs)
	}
	if sv.got.Title != "Midterm - Ten" || p.ID != 5 {
		t.Fatalf("title %q id %d", sv.got.Title, p.ID)
	}
	if s.Selection().Len() != 0 || s.Header() != (Header{}) {
		t.Fatal("session not reset after save")
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	s := NewSession(testCatalog())
	s.SetHeader(Header{ClassName: "Ten", FullMark: "50"})
	_ = s.Select(4)
	sv := &fakeSaver{err: errors.New("boom")}
	if _, err := s.Save(context.Background(), sv); err == nil {
		t.Fatal("expected error")
	}
	if s.Selection().Len() != 1 || s.Header().FullMark != "50" {
		t.Fatal("state lost after failed save")
	}

	s.EditHeader(func(h *Header) { h.FullMark = "fifty" })
	if _, err := s.Save(context.Background(), sv); !errors.Is(err, ErrFullMarkNotNumeric) {
		t.Fatalf("err = %v", err)
	}

	empty := NewSession(testCatalog())
	if _, err := empty.Save(context.Background(), sv); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveTitleFallback(t *testing.T) {
	s := NewSession(testCatalog())
	_ = s.Select(1)
	in, err := s.SaveInput()
	if err != nil {
		t.Fatal(err)
	}
	if in.Title != "Question Paper - " {
		t.Fatalf("title %q", in.Title)
	}
	if in.Header.FullMark != 0 {
		t.Fatalf("empty full mark -> %v", in.Header.FullMark)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("ক", 90)
	if got := Preview(anahote(1, 1, 1, nil, long)); got != strings.Repeat("ক", 80)+"..." {
		t.Fatalf("long preview %q", got)
	}
	if got := Preview(anahote(1, 1, 1, nil, "short")); got != "short..." {
		t.Fatalf("short preview %q", got)
	}
	if got := Preview(anahote(1, 1, 1, nil, "")); got != "..." {
		t.Fatalf("blank preview %q", got)
	}
	if got := Preview(bank.Question{ID: 9}); got != "No preview available" {
		t.Fatalf("empty preview %q", got)
	}
}

func TestHeaderJSONFullMark(t *testing.T) {
	cases := map[string]string{
		`{"examType":"Final","fullMark":"75"}`: "75",
		`{"examType":"Final","fullMark":75}`:   "75",
		`{"examType":"Final","fullMark":2.5}`:  "2.5",
		`{"examType":"Final","fullMark":null}`: "",
		`{"examType":"Final"}`:                 "",
	}
	for in, want := range cases {
		var h Header
		if err := json.Unmarshal([]byte(in), &h); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if h.FullMark != want || h.ExamType != "Final" {
			t.Fatalf("%s -> %+v", in, h)
		}
	}
	var h Header
	if err := json.Unmarshal([]byte(`{"fullMark":true}`), &h); !errors.Is(err, ErrFullMarkNotNumeric) {
		t.Fatalf("bool full mark: %v", err)
	}
}

func TestHeaderOverlay(t *testing.T) {
	base := Header{SchoolName: "ABC High", ExamType: "Midterm", FullMark: "100"}
	got := base.Overlay(Header{ExamType: "Final", Duration: "2h"})
	want := Header{SchoolName: "ABC High", ExamType: "Final", Duration: "2h", FullMark: "100"}
	if got != want {
		t.Fatalf("overlay %+v", got)
	}
	if base.ExamType != "Midterm" {
		t.Fatal("overlay mutated receiver")
	}
}
