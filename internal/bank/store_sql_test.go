package bank_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/db"
)

func newStore(t *testing.T) *bank.SQLStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	return bank.NewSQLStore(conn, "sqlite")
}

type fixture struct {
	class   bank.Class
	subject bank.Subject
	chapter bank.Chapter
}

func seed(t *testing.T, s *bank.SQLStore) fixture {
	t.Helper()
	ctx := context.Background()
	c, err := s.CreateClass(ctx, bank.ClassInput{Name: " Ten "})
	if err != nil {
		t.Fatalf("class: %v", err)
	}
	sub, err := s.CreateSubject(ctx, bank.SubjectInput{Name: "Physics", ClassID: c.ID})
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	ch, err := s.CreateChapter(ctx, bank.ChapterInput{Name: "Motion", ClassID: c.ID, SubjectID: sub.ID})
	if err != nil {
		t.Fatalf("chapter: %v", err)
	}
	return fixture{c, sub, ch}
}

func TestClassesPaginate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := s.CreateClass(ctx, bank.ClassInput{Name: fmt.Sprintf("C%d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	got, meta, err := s.ListClasses(ctx, bank.Page{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "C2" {
		t.Fatalf("page 2: %+v", got)
	}
	if meta.Total != 5 || meta.TotalPage != 3 {
		t.Fatalf("meta %+v", meta)
	}
	if _, err := s.CreateClass(ctx, bank.ClassInput{}); !errors.Is(err, bank.ErrInvalid) {
		t.Fatalf("empty name: %v", err)
	}
}

func TestQuestionVariantsRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	obj, err := s.CreateQuestion(ctx, bank.QuestionInput{
		Type: bank.KindObjective, ClassID: f.class.ID, SubjectID: f.subject.ID, ChapterID: f.chapter.ID,
		QuestionText: "Capital of France?", QuestionMark: 1,
		Options: []string{"Paris", "London", "Rome", "Berlin"}, AnswerOptionIndex: 0,
	}, 1)
	if err != nil {
		t.Fatalf("objective: %v", err)
	}
	sri, err := s.CreateQuestion(ctx, bank.QuestionInput{
		Type: bank.KindSrijonshil, ClassID: f.class.ID, SubjectID: f.subject.ID,
		Prompt: "Read", Difficulty: bank.Hard,
		SubQuestions: []bank.SubQuestionInput{{QuestionText: "Explain X", QuestionMark: 5, Hint: "  "}},
	}, 1)
	if err != nil {
		t.Fatalf("srijonshil: %v", err)
	}

	got, err := s.GetQuestion(ctx, obj.ID)
	if err != nil {
		t.Fatal(err)
	}
	o, ok := got.Body.(*bank.Objective)
	if !ok || len(o.Options) != 4 || o.Options[3].Text != "Berlin" || o.Options[3].ID != 4 {
		t.Fatalf("objective body %+v", got.Body)
	}
	if got.ChapterID == nil || *got.ChapterID != f.chapter.ID {
		t.Fatalf("chapter %v", got.ChapterID)
	}

	got, err = s.GetQuestion(ctx, sri.ID)
	if err != nil {
		t.Fatal(err)
	}
	sb := got.Body.(*bank.Srijonshil)
	if sb.Difficulty != bank.Hard || sb.SubQuestions[0].Hint != nil {
		t.Fatalf("srijonshil body %+v", sb)
	}
	if got.ChapterID != nil {
		t.Fatalf("unexpected chapter %v", *got.ChapterID)
	}

	qs, err := s.GetQuestions(ctx, []int64{sri.ID, obj.ID})
	if err != nil {
		t.Fatal(err)
	}
	if qs[0].ID != sri.ID || qs[1].ID != obj.ID {
		t.Fatal("GetQuestions did not keep id order")
	}
}

func TestQuestionValidation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)
	other, _ := s.CreateClass(ctx, bank.ClassInput{Name: "Nine"})

	cases := map[string]bank.QuestionInput{
		"three options": {Type: bank.KindObjective, ClassID: f.class.ID, SubjectID: f.subject.ID,
			QuestionText: "q", QuestionMark: 1, Options: []string{"a", "b", "c"}},
		"answer out of range": {Type: bank.KindObjective, ClassID: f.class.ID, SubjectID: f.subject.ID,
			QuestionText: "q", QuestionMark: 1, Options: []string{"a", "b", "c", "d"}, AnswerOptionIndex: 4},
		"no sub-questions": {Type: bank.KindSrijonshil, ClassID: f.class.ID, SubjectID: f.subject.ID,
			Prompt: "p", Difficulty: bank.Easy},
		"bad type": {Type: "ESSAY", ClassID: f.class.ID, SubjectID: f.subject.ID},
		"wrong class": {Type: bank.KindAnahote, ClassID: other.ID, SubjectID: f.subject.ID,
			QuestionText: "q", QuestionMark: 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := s.CreateQuestion(ctx, in, 1); !errors.Is(err, bank.ErrInvalid) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestDeleteChapterKeepsQuestions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)
	q, err := s.CreateQuestion(ctx, bank.QuestionInput{
		Type: bank.KindAnahote, ClassID: f.class.ID, SubjectID: f.subject.ID, ChapterID: f.chapter.ID,
		QuestionText: "Define velocity", QuestionMark: 2,
	}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteChapter(ctx, f.chapter.ID); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChapterID != nil {
		t.Fatal("chapter reference survived delete")
	}
}

func TestDeleteClassCascades(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)
	teacher, err := s.CreateUser(ctx, bank.UserInput{Name: "T", Email: "t@example.com", Password: "secret1", Role: bank.RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AssignTeacher(ctx, bank.AssignmentInput{TeacherID: teacher.ID, SubjectID: f.subject.ID, ClassID: f.class.ID}); err != nil {
		t.Fatal(err)
	}
	q, _ := s.CreateQuestion(ctx, bank.QuestionInput{
		Type: bank.KindAnahote, ClassID: f.class.ID, SubjectID: f.subject.ID, QuestionText: "q", QuestionMark: 1,
	}, teacher.ID)

	if err := s.DeleteClass(ctx, f.class.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetQuestion(ctx, q.ID); !errors.Is(err, bank.ErrNotFound) {
		t.Fatalf("question survived: %v", err)
	}
	subs, _ := s.ListSubjects(ctx)
	chs, _ := s.ListChapters(ctx)
	as, _ := s.ListAssignments(ctx, 0)
	if len(subs)+len(chs)+len(as) != 0 {
		t.Fatalf("leftovers: %d subjects %d chapters %d assignments", len(subs), len(chs), len(as))
	}
	if err := s.DeleteClass(ctx, f.class.ID); !errors.Is(err, bank.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDeleteSubjectCascades(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)
	other, err := s.CreateSubject(ctx, bank.SubjectInput{Name: "Chemistry", ClassID: f.class.ID})
	if err != nil {
		t.Fatal(err)
	}
	teacher, err := s.CreateUser(ctx, bank.UserInput{Name: "T", Email: "t@example.com", Password: "secret1", Role: bank.RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AssignTeacher(ctx, bank.AssignmentInput{TeacherID: teacher.ID, SubjectID: f.subject.ID, ClassID: f.class.ID}); err != nil {
		t.Fatal(err)
	}
	q, _ := s.CreateQuestion(ctx, bank.QuestionInput{
		Type: bank.KindAnahote, ClassID: f.class.ID, SubjectID: f.subject.ID, ChapterID: f.chapter.ID, QuestionText: "q", QuestionMark: 1,
	}, teacher.ID)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.DeleteSubject(cancelled, f.subject.ID); err == nil {
		t.Fatal("delete with a cancelled context succeeded")
	}
	if _, err := s.GetQuestion(ctx, q.ID); err != nil {
		t.Fatalf("failed delete removed the question: %v", err)
	}

	if err := s.DeleteSubject(ctx, f.subject.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetQuestion(ctx, q.ID); !errors.Is(err, bank.ErrNotFound) {
		t.Fatalf("question survived: %v", err)
	}
	subs, _ := s.ListSubjects(ctx)
	chs, _ := s.ListChapters(ctx)
	as, _ := s.ListAssignments(ctx, 0)
	if len(subs) != 1 || subs[0].ID != other.ID || len(chs)+len(as) != 0 {
		t.Fatalf("leftovers: %d subjects %d chapters %d assignments", len(subs), len(chs), len(as))
	}
	if err := s.DeleteSubject(ctx, f.subject.ID); !errors.Is(err, bank.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestPapers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)
	var ids []int64
	for i := 0; i < 3; i++ {
		q, err := s.CreateQuestion(ctx, bank.QuestionInput{
			Type: bank.KindAnahote, ClassID: f.class.ID, SubjectID: f.subject.ID,
			QuestionText: fmt.Sprintf("q%d", i), QuestionMark: 1,
		}, 1)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, q.ID)
	}
	order := []int64{ids[2], ids[0], ids[1]}
	p, err := s.CreatePaper(ctx, bank.PaperInput{
		Title:       "Midterm - Ten",
		Header:      bank.PaperHeader{SchoolName: "ABC High", FullMark: 100},
		QuestionIDs: order,
	}, 1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.GetPaper(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.QuestionIDs, order) || got.Header.FullMark != 100 {
		t.Fatalf("paper %+v", got)
	}
	if _, err := s.CreatePaper(ctx, bank.PaperInput{Title: "x", QuestionIDs: []int64{999}}, 1); !errors.Is(err, bank.ErrNotFound) {
		t.Fatalf("unknown question: %v", err)
	}
	if _, err := s.CreatePaper(ctx, bank.PaperInput{Title: "x"}, 1); !errors.Is(err, bank.ErrInvalid) {
		t.Fatalf("empty ids: %v", err)
	}
	list, meta, err := s.ListPapers(ctx, bank.Page{Page: 1, Limit: 10})
	if err != nil || len(list) != 1 || meta.Total != 1 {
		t.Fatalf("list %v %+v %v", list, meta, err)
	}
}

func TestUsersAndAssignments(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)
	admin, err := s.CreateUser(ctx, bank.UserInput{Name: "A", Email: "Admin@Example.com", Password: "secret1", Role: bank.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if admin.Email != "admin@example.com" {
		t.Fatalf("email %q", admin.Email)
	}
	if _, err := s.GetUserByEmail(ctx, " ADMIN@example.com"); err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if _, err := s.AssignTeacher(ctx, bank.AssignmentInput{TeacherID: admin.ID, SubjectID: f.subject.ID, ClassID: f.class.ID}); !errors.Is(err, bank.ErrInvalid) {
		t.Fatalf("assign non-teacher: %v", err)
	}
	u, err := s.UpdateUserRole(ctx, admin.ID, bank.RoleTeacher)
	if err != nil || u.Role != bank.RoleTeacher {
		t.Fatalf("role update: %+v %v", u, err)
	}
	a, err := s.AssignTeacher(ctx, bank.AssignmentInput{TeacherID: admin.ID, SubjectID: f.subject.ID, ClassID: f.class.ID})
	if err != nil {
		t.Fatal(err)
	}
	if a.TeacherName != "A" {
		t.Fatalf("teacher name %q", a.TeacherName)
	}
	mine, _ := s.ListAssignments(ctx, admin.ID)
	if len(mine) != 1 {
		t.Fatalf("assignments %v", mine)
	}
	teachers, _ := s.ListUsers(ctx, bank.RoleTeacher)
	if len(teachers) != 1 {
		t.Fatalf("teachers %v", teachers)
	}
	if _, err := s.UpdateUserRole(ctx, admin.ID, "OWNER"); !errors.Is(err, bank.ErrInvalid) {
		t.Fatalf("bad role: %v", err)
	}

	again, err := s.EnsureUser(ctx, "Other", "admin@example.com", "x", bank.RoleSuperAdmin)
	if err != nil || again.ID != admin.ID {
		t.Fatalf("ensure existing: %+v %v", again, err)
	}
}

func TestHeaders(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	h, err := s.CreateHeader(ctx, bank.HeaderInput{
		SchoolName: "ABC High", ClassName: "Ten", Subject: "Physics", ExamType: "Midterm", FullMark: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.GetHeader(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Remark != nil || got.FullMark != 100 {
		t.Fatalf("header %+v", got)
	}
	if err := s.DeleteHeader(ctx, h.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetHeader(ctx, h.ID); !errors.Is(err, bank.ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
}
