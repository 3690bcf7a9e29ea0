package bank

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("invalid input")

var validate = validator.New()

// Validate checks struct tags and folds failures into a single ErrInvalid.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(parts, "; "))
}

type ClassInput struct {
	Name string `json:"name" validate:"required"`
}

type SubjectInput struct {
	Name    string `json:"name" validate:"required"`
	ClassID int64  `json:"classId" validate:"gt=0"`
}

type ChapterInput struct {
	Name      string `json:"name" validate:"required"`
	ClassID   int64  `json:"classId" validate:"gt=0"`
	SubjectID int64  `json:"subjectId" validate:"gt=0"`
}

type SubQuestionInput struct {
	QuestionText string  `json:"questionText" validate:"required"`
	QuestionMark float64 `json:"questionMark" validate:"gt=0"`
	Hint         string  `json:"hint"`
}

// QuestionInput is the flat create payload; which fields apply depends on Type.
type QuestionInput struct {
	Type      Kind  `json:"type" validate:"oneof=OBJECTIVE ANAHOTE SRIJONSHIL"`
	ClassID   int64 `json:"classId" validate:"gt=0"`
	SubjectID int64 `json:"subjectId" validate:"gt=0"`
	ChapterID int64 `json:"chapterId" validate:"omitempty,gt=0"`

	QuestionText      string   `json:"questionText,omitempty"`
	QuestionMark      float64  `json:"questionMark,omitempty"`
	Options           []string `json:"options,omitempty"`
	AnswerOptionIndex int      `json:"answerOptionIndex"`

	Prompt       string             `json:"prompt,omitempty"`
	Difficulty   Difficulty         `json:"difficulty,omitempty"`
	SubQuestions []SubQuestionInput `json:"subQuestions,omitempty"`
}

type objectiveRules struct {
	QuestionText      string   `validate:"required"`
	QuestionMark      float64  `validate:"gt=0"`
	Options           []string `validate:"len=4,dive,required"`
	AnswerOptionIndex int      `validate:"min=0,max=3"`
}

type anahoteRules struct {
	QuestionText string  `validate:"required"`
	QuestionMark float64 `validate:"gt=0"`
}

type srijonshilRules struct {
	Prompt       string             `validate:"required"`
	Difficulty   Difficulty         `validate:"oneof=EASY MEDIUM HARD"`
	SubQuestions []SubQuestionInput `validate:"min=1,dive"`
}

// Body validates the payload for its Type and builds the variant.
func (in QuestionInput) Body() (Body, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	switch in.Type {
	case KindObjective:
		if err := Validate(objectiveRules{in.QuestionText, in.QuestionMark, in.Options, in.AnswerOptionIndex}); err != nil {
			return nil, err
		}
		opts := make([]Option, len(in.Options))
		for i, t := range in.Options {
			opts[i] = Option{ID: int64(i + 1), Text: t}
		}
		return &Objective{
			QuestionText:      in.QuestionText,
			QuestionMark:      in.QuestionMark,
			Options:           opts,
			AnswerOptionIndex: in.AnswerOptionIndex,
		}, nil
	case KindAnahote:
		if err := Validate(anahoteRules{in.QuestionText, in.QuestionMark}); err != nil {
			return nil, err
		}
		return &Anahote{QuestionText: in.QuestionText, QuestionMark: in.QuestionMark}, nil
	default:
		if err := Validate(srijonshilRules{in.Prompt, in.Difficulty, in.SubQuestions}); err != nil {
			return nil, err
		}
		subs := make([]SubQuestion, len(in.SubQuestions))
		for i, sq := range in.SubQuestions {
			subs[i] = SubQuestion{QuestionText: sq.QuestionText, QuestionMark: sq.QuestionMark}
			if h := strings.TrimSpace(sq.Hint); h != "" {
				subs[i].Hint = &h
			}
		}
		return &Srijonshil{Prompt: in.Prompt, Difficulty: in.Difficulty, SubQuestions: subs}, nil
	}
}

type HeaderInput struct {
	SchoolName string  `json:"schoolName" validate:"required"`
	Location   string  `json:"location"`
	ClassName  string  `json:"className" validate:"required"`
	Subject    string  `json:"subject" validate:"required"`
	ExamType   string  `json:"examType" validate:"required"`
	Duration   string  `json:"duration"`
	FullMark   float64 `json:"fullMark" validate:"gte=0"`
	Remark     string  `json:"remark"`
}

type PaperInput struct {
	Title       string      `json:"title" validate:"required"`
	Header      PaperHeader `json:"header"`
	QuestionIDs []int64     `json:"questionIds" validate:"min=1,dive,gt=0"`
}

type AssignmentInput struct {
	TeacherID int64 `json:"teacherId" validate:"gt=0"`
	SubjectID int64 `json:"subjectId" validate:"gt=0"`
	ClassID   int64 `json:"classId" validate:"gt=0"`
}

type UserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	Role     Role   `json:"role" validate:"oneof=SUPERADMIN ADMIN TEACHER"`
}
