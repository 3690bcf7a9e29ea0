package bank

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Store is the persistence surface behind the REST API.
type Store interface {
	CreateClass(ctx context.Context, in ClassInput) (Class, error)
	ListClasses(ctx context.Context, p Page) ([]Class, Meta, error)
	GetClass(ctx context.Context, id int64) (Class, error)
	DeleteClass(ctx context.Context, id int64) error

	CreateSubject(ctx context.Context, in SubjectInput) (Subject, error)
	ListSubjects(ctx context.Context) ([]Subject, error)
	DeleteSubject(ctx context.Context, id int64) error

	CreateChapter(ctx context.Context, in ChapterInput) (Chapter, error)
	ListChapters(ctx context.Context) ([]Chapter, error)
	DeleteChapter(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, in QuestionInput, createdBy int64) (Question, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	// GetQuestions returns questions in the order of ids; any missing id is ErrNotFound.
	GetQuestions(ctx context.Context, ids []int64) ([]Question, error)
	DeleteQuestion(ctx context.Context, id int64) error

	CreateHeader(ctx context.Context, in HeaderInput) (HeaderTemplate, error)
	ListHeaders(ctx context.Context) ([]HeaderTemplate, error)
	GetHeader(ctx context.Context, id int64) (HeaderTemplate, error)
	DeleteHeader(ctx context.Context, id int64) error

	CreatePaper(ctx context.Context, in PaperInput, createdBy int64) (Paper, error)
	ListPapers(ctx context.Context, p Page) ([]Paper, Meta, error)
	GetPaper(ctx context.Context, id int64) (Paper, error)
	DeletePaper(ctx context.Context, id int64) error

	AssignTeacher(ctx context.Context, in AssignmentInput) (Assignment, error)
	ListAssignments(ctx context.Context, teacherID int64) ([]Assignment, error) // teacherID 0 = all
	RemoveAssignment(ctx context.Context, id int64) error

	CreateUser(ctx context.Context, in UserInput) (User, error)
	ListUsers(ctx context.Context, role Role) ([]User, error) // role "" = all
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUserRole(ctx context.Context, id int64, role Role) (User, error)
	SetPassword(ctx context.Context, id int64, hash string) error
}
