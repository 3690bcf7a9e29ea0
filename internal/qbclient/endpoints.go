package qbclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/compose"
	syncx "github.com/mind-engage/qbank/internal/sync"
)

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// ---- classes ----

func (c *Client) Classes(ctx context.Context, page, limit int) ([]bank.Class, bank.Meta, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out []bank.Class
	meta, err := c.query(ctx, "/classes?"+q.Encode(), &out, TagClass)
	if err != nil {
		return nil, bank.Meta{}, err
	}
	if meta == nil {
		meta = &bank.Meta{Page: page, Limit: limit, Total: int64(len(out)), TotalPage: 1}
	}
	return out, *meta, nil
}

func (c *Client) Class(ctx context.Context, id int64) (bank.Class, error) {
	var out bank.Class
	_, err := c.query(ctx, idPath("/classes", id), &out, TagClass)
	return out, err
}

func (c *Client) CreateClass(ctx context.Context, in bank.ClassInput) (bank.Class, error) {
	var out bank.Class
	err := c.mutate(ctx, http.MethodPost, "/classes", in, &out, TagClass)
	return out, err
}

// DeleteClass also drops everything filed under the class.
func (c *Client) DeleteClass(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("/classes", id), nil, nil,
		TagClass, TagSubject, TagChapter, TagQuestion, TagTeacherSubject)
}

// ---- subjects / chapters ----

func (c *Client) Subjects(ctx context.Context) ([]bank.Subject, error) {
	var out []bank.Subject
	_, err := c.query(ctx, "/subjects", &out, TagSubject)
	return out, err
}

func (c *Client) CreateSubject(ctx context.Context, in bank.SubjectInput) (bank.Subject, error) {
	var out bank.Subject
	err := c.mutate(ctx, http.MethodPost, "/subjects", in, &out, TagSubject)
	return out, err
}

func (c *Client) DeleteSubject(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("/subjects", id), nil, nil,
		TagSubject, TagChapter, TagQuestion, TagTeacherSubject)
}

func (c *Client) Chapters(ctx context.Context) ([]bank.Chapter, error) {
	var out []bank.Chapter
	_, err := c.query(ctx, "/chapters", &out, TagChapter)
	return out, err
}

func (c *Client) CreateChapter(ctx context.Context, in bank.ChapterInput) (bank.Chapter, error) {
	var out bank.Chapter
	err := c.mutate(ctx, http.MethodPost, "/chapters", in, &out, TagChapter)
	return out, err
}

func (c *Client) DeleteChapter(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("/chapters", id), nil, nil, TagChapter, TagQuestion)
}

// ---- questions ----

func (c *Client) Questions(ctx context.Context) ([]bank.Question, error) {
	var out []bank.Question
	_, err := c.query(ctx, "/questions", &out, TagQuestion)
	return out, err
}

func (c *Client) Question(ctx context.Context, id int64) (bank.Question, error) {
	var out bank.Question
	_, err := c.query(ctx, idPath("/questions", id), &out, TagQuestion)
	return out, err
}

func (c *Client) CreateQuestion(ctx context.Context, in bank.QuestionInput) (bank.Question, error) {
	var out bank.Question
	err := c.mutate(ctx, http.MethodPost, "/questions", in, &out, TagQuestion)
	return out, err
}

func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("/questions", id), nil, nil, TagQuestion)
}

// ---- header templates ----

func (c *Client) Headers(ctx context.Context) ([]bank.HeaderTemplate, error) {
	var out []bank.HeaderTemplate
	_, err := c.query(ctx, "/question-headers", &out, TagQuestionHeader)
	return out, err
}

func (c *Client) Header(ctx context.Context, id int64) (bank.HeaderTemplate, error) {
	var out bank.HeaderTemplate
	_, err := c.query(ctx, idPath("/question-headers", id), &out, TagQuestionHeader)
	return out, err
}

func (c *Client) CreateHeader(ctx context.Context, in bank.HeaderInput) (bank.HeaderTemplate, error) {
	var out bank.HeaderTemplate
	err := c.mutate(ctx, http.MethodPost, "/question-headers", in, &out, TagQuestionHeader)
	return out, err
}

func (c *Client) DeleteHeader(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("/question-headers", id), nil, nil, TagQuestionHeader)
}

// ---- papers ----

func (c *Client) Papers(ctx context.Context, page, limit int) ([]bank.Paper, bank.Meta, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out []bank.Paper
	meta, err := c.query(ctx, "/questionPapers?"+q.Encode(), &out, TagQuestionPaper)
	if err != nil {
		return nil, bank.Meta{}, err
	}
	if meta == nil {
		meta = &bank.Meta{Page: page, Limit: limit, Total: int64(len(out)), TotalPage: 1}
	}
	return out, *meta, nil
}

func (c *Client) Paper(ctx context.Context, id int64) (bank.Paper, error) {
	var out bank.Paper
	_, err := c.query(ctx, idPath("/question-papers", id), &out, TagQuestionPaper)
	return out, err
}

// CreatePaper stores a composed paper. It makes *Client a compose.PaperSaver.
func (c *Client) CreatePaper(ctx context.Context, in bank.PaperInput) (bank.Paper, error) {
	var out bank.Paper
	err := c.mutate(ctx, http.MethodPost, "/questionPapers", in, &out, TagQuestionPaper)
	return out, err
}

func (c *Client) DeletePaper(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("/question-papers", id), nil, nil, TagQuestionPaper)
}

// DownloadPaper streams a saved paper rendered as format into w and returns
// the server's file name.
func (c *Client) DownloadPaper(ctx context.Context, id int64, format string, w io.Writer) (string, error) {
	path := idPath("/question-papers", id) + "/download?format=" + url.QueryEscape(format)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	name, _, err := c.fetchFile(req, w)
	return name, err
}

// ComposeRequest asks the server to render a paper without going through the
// saved-paper endpoints.
type ComposeRequest struct {
	Header      compose.Header `json:"header"`
	TemplateID  int64          `json:"templateId,omitempty"`
	QuestionIDs []int64        `json:"questionIds"`
	Save        bool           `json:"save,omitempty"`
}

// Compose renders req server-side into w. paperID is set when req.Save stored it.
func (c *Client) Compose(ctx context.Context, format string, req ComposeRequest, w io.Writer) (name string, paperID int64, err error) {
	hr, err := c.newRequest(ctx, http.MethodPost, "/compose/"+url.PathEscape(format), req)
	if err != nil {
		return "", 0, err
	}
	name, h, err := c.fetchFile(hr, w)
	if err != nil {
		return "", 0, err
	}
	if v := h.Get("X-Paper-ID"); v != "" {
		paperID, _ = strconv.ParseInt(v, 10, 64)
		c.Invalidate(TagQuestionPaper)
	}
	return name, paperID, nil
}

func (c *Client) fetchFile(req *http.Request, w io.Writer) (string, http.Header, error) {
	req.Header.Set("Accept", "*/*")
	res, err := c.client().Do(req)
	if err != nil {
		return "", nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return "", nil, apiError(res)
	}
	if _, err := io.Copy(w, res.Body); err != nil {
		return "", nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	var name string
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return name, res.Header, nil
}

// ---- teacher-subject assignments ----

func (c *Client) Assignments(ctx context.Context) ([]bank.Assignment, error) {
	var out []bank.Assignment
	_, err := c.query(ctx, "/teacher-subjects", &out, TagTeacherSubject)
	return out, err
}

func (c *Client) TeacherAssignments(ctx context.Context, teacherID int64) ([]bank.Assignment, error) {
	var out []bank.Assignment
	_, err := c.query(ctx, idPath("/teacher-subjects/teacher", teacherID), &out, TagTeacherSubject)
	return out, err
}

func (c *Client) AssignTeacher(ctx context.Context, in bank.AssignmentInput) (bank.Assignment, error) {
	var out bank.Assignment
	err := c.mutate(ctx, http.MethodPost, "/teacher-subjects", in, &out, TagTeacherSubject)
	return out, err
}

func (c *Client) RemoveAssignment(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, idPath("/teacher-subjects", id), nil, nil, TagTeacherSubject)
}

// ---- users ----

// Users lists users, optionally only those with role.
func (c *Client) Users(ctx context.Context, role bank.Role) ([]bank.User, error) {
	path := "/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(string(role))
	}
	var out []bank.User
	_, err := c.query(ctx, path, &out, TagUser)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, in bank.UserInput) (bank.User, error) {
	var out bank.User
	err := c.mutate(ctx, http.MethodPost, "/users", in, &out, TagUser)
	return out, err
}

func (c *Client) Me(ctx context.Context) (bank.User, error) {
	var out bank.User
	_, err := c.query(ctx, "/users/my-profile", &out, TagUser)
	return out, err
}

func (c *Client) UpdateUserRole(ctx context.Context, id int64, role bank.Role) (bank.User, error) {
	var out bank.User
	err := c.mutate(ctx, http.MethodPatch, idPath("/users", id), map[string]bank.Role{"role": role}, &out,
		TagUser, TagTeacherSubject)
	return out, err
}

// Events reads the change feed after seq. It is never cached.
func (c *Client) Events(ctx context.Context, after int64, limit int) ([]syncx.Event, error) {
	q := url.Values{}
	q.Set("after", strconv.FormatInt(after, 10))
	q.Set("limit", strconv.Itoa(limit))
	var out []syncx.Event
	err := c.mutate(ctx, http.MethodGet, "/events?"+q.Encode(), nil, &out)
	return out, err
}
