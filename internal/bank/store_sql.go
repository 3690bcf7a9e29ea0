package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func unix(t int64) time.Time { return time.Unix(t, 0).UTC() }

func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}

func (s *SQLStore) deleteByID(ctx context.Context, table, what string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}

// ---- classes ----

func (s *SQLStore) CreateClass(ctx context.Context, in ClassInput) (Class, error) {
	if err := Validate(in); err != nil {
		return Class{}, err
	}
	now := time.Now().Unix()
	c := Class{Name: strings.TrimSpace(in.Name), CreatedAt: unix(now), UpdatedAt: unix(now)}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO classes (name,created_at,updated_at) VALUES ($1,$2,$3) RETURNING id`,
		c.Name, now, now).Scan(&c.ID)
	return c, err
}

func (s *SQLStore) ListClasses(ctx context.Context, p Page) ([]Class, Meta, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classes`).Scan(&total); err != nil {
		return nil, Meta{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,created_at,updated_at FROM classes ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset())
	if err != nil {
		return nil, Meta{}, err
	}
	defer rows.Close()
	out := []Class{}
	for rows.Next() {
		var c Class
		var ca, ua int64
		if err := rows.Scan(&c.ID, &c.Name, &ca, &ua); err != nil {
			return nil, Meta{}, err
		}
		c.CreatedAt, c.UpdatedAt = unix(ca), unix(ua)
		out = append(out, c)
	}
	return out, NewMeta(total, p.Page, p.Limit), rows.Err()
}

func (s *SQLStore) GetClass(ctx context.Context, id int64) (Class, error) {
	c := Class{ID: id}
	var ca, ua int64
	err := s.db.QueryRowContext(ctx, `SELECT name,created_at,updated_at FROM classes WHERE id=$1`, id).
		Scan(&c.Name, &ca, &ua)
	if err != nil {
		return Class{}, notFound(err, "class", id)
	}
	c.CreatedAt, c.UpdatedAt = unix(ca), unix(ua)
	return c, nil
}

// DeleteClass removes the class and everything hanging off it.
func (s *SQLStore) DeleteClass(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	for _, table := range []string{"teacher_subjects", "questions", "chapters", "subjects"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE class_id=$1`, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("class %d: %w", id, ErrNotFound)
	}
	return err
}

// ---- subjects ----

func (s *SQLStore) CreateSubject(ctx context.Context, in SubjectInput) (Subject, error) {
	if err := Validate(in); err != nil {
		return Subject{}, err
	}
	if _, err := s.GetClass(ctx, in.ClassID); err != nil {
		return Subject{}, err
	}
	now := time.Now().Unix()
	sub := Subject{Name: strings.TrimSpace(in.Name), ClassID: in.ClassID, CreatedAt: unix(now), UpdatedAt: unix(now)}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO subjects (name,class_id,created_at,updated_at) VALUES ($1,$2,$3,$4) RETURNING id`,
		sub.Name, sub.ClassID, now, now).Scan(&sub.ID)
	return sub, err
}

func (s *SQLStore) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,class_id,created_at,updated_at FROM subjects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Subject{}
	for rows.Next() {
		var sub Subject
		var ca, ua int64
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.ClassID, &ca, &ua); err != nil {
			return nil, err
		}
		sub.CreatedAt, sub.UpdatedAt = unix(ca), unix(ua)
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) getSubject(ctx context.Context, id int64) (Subject, error) {
	sub := Subject{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name,class_id FROM subjects WHERE id=$1`, id).Scan(&sub.Name, &sub.ClassID)
	if err != nil {
		return Subject{}, notFound(err, "subject", id)
	}
	return sub, nil
}

func (s *SQLStore) DeleteSubject(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	for _, table := range []string{"teacher_subjects", "questions", "chapters"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE subject_id=$1`, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("subject %d: %w", id, ErrNotFound)
	}
	return err
}

// ---- chapters ----

func (s *SQLStore) CreateChapter(ctx context.Context, in ChapterInput) (Chapter, error) {
	if err := Validate(in); err != nil {
		return Chapter{}, err
	}
	sub, err := s.getSubject(ctx, in.SubjectID)
	if err != nil {
		return Chapter{}, err
	}
	if sub.ClassID != in.ClassID {
		return Chapter{}, fmt.Errorf("%w: subject %d does not belong to class %d", ErrInvalid, in.SubjectID, in.ClassID)
	}
	now := time.Now().Unix()
	ch := Chapter{Name: strings.TrimSpace(in.Name), ClassID: in.ClassID, SubjectID: in.SubjectID, CreatedAt: unix(now), UpdatedAt: unix(now)}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO chapters (name,class_id,subject_id,created_at,updated_at) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		ch.Name, ch.ClassID, ch.SubjectID, now, now).Scan(&ch.ID)
	return ch, err
}

func (s *SQLStore) ListChapters(ctx context.Context) ([]Chapter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,class_id,subject_id,created_at,updated_at FROM chapters ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Chapter{}
	for rows.Next() {
		var ch Chapter
		var ca, ua int64
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.ClassID, &ch.SubjectID, &ca, &ua); err != nil {
			return nil, err
		}
		ch.CreatedAt, ch.UpdatedAt = unix(ca), unix(ua)
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteChapter(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE questions SET chapter_id=NULL WHERE chapter_id=$1`, id); err != nil {
		return err
	}
	return s.deleteByID(ctx, "chapters", "chapter", id)
}

// ---- questions ----

const questionCols = `id,type,class_id,subject_id,chapter_id,created_by_id,body_json,created_at,updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(sc rowScanner) (Question, error) {
	var (
		q      Question
		kind   string
		chap   sql.NullInt64
		body   string
		ca, ua int64
	)
	if err := sc.Scan(&q.ID, &kind, &q.ClassID, &q.SubjectID, &chap, &q.CreatedByID, &body, &ca, &ua); err != nil {
		return Question{}, err
	}
	if chap.Valid {
		v := chap.Int64
		q.ChapterID = &v
	}
	q.CreatedAt, q.UpdatedAt = unix(ca), unix(ua)
	b, err := decodeBody(Kind(kind), body)
	if err != nil {
		return Question{}, fmt.Errorf("question %d: %w", q.ID, err)
	}
	q.Body = b
	return q, nil
}

func decodeBody(kind Kind, raw string) (Body, error) {
	var b Body
	switch kind {
	case KindObjective:
		b = &Objective{}
	case KindAnahote:
		b = &Anahote{}
	case KindSrijonshil:
		b = &Srijonshil{}
	default:
		return nil, fmt.Errorf("unknown question type %q", kind)
	}
	if err := json.Unmarshal([]byte(raw), b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *SQLStore) CreateQuestion(ctx context.Context, in QuestionInput, createdBy int64) (Question, error) {
	body, err := in.Body()
	if err != nil {
		return Question{}, err
	}
	sub, err := s.getSubject(ctx, in.SubjectID)
	if err != nil {
		return Question{}, err
	}
	if sub.ClassID != in.ClassID {
		return Question{}, fmt.Errorf("%w: subject %d does not belong to class %d", ErrInvalid, in.SubjectID, in.ClassID)
	}
	bj, err := json.Marshal(body)
	if err != nil {
		return Question{}, err
	}
	now := time.Now().Unix()
	q := Question{
		ClassID: in.ClassID, SubjectID: in.SubjectID, CreatedByID: createdBy,
		CreatedAt: unix(now), UpdatedAt: unix(now), Body: body,
	}
	var chap sql.NullInt64
	if in.ChapterID > 0 {
		chap = sql.NullInt64{Int64: in.ChapterID, Valid: true}
		v := in.ChapterID
		q.ChapterID = &v
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO questions (type,class_id,subject_id,chapter_id,created_by_id,body_json,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		string(in.Type), in.ClassID, in.SubjectID, chap, createdBy, string(bj), now, now).Scan(&q.ID)
	return q, err
}

func (s *SQLStore) ListQuestions(ctx context.Context) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+questionCols+` FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, `SELECT `+questionCols+` FROM questions WHERE id=$1`, id))
	if err != nil {
		return Question{}, notFound(err, "question", id)
	}
	return q, nil
}

func (s *SQLStore) GetQuestions(ctx context.Context, ids []int64) ([]Question, error) {
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		q, err := s.GetQuestion(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "questions", "question", id)
}

// ---- header templates ----

func (s *SQLStore) CreateHeader(ctx context.Context, in HeaderInput) (HeaderTemplate, error) {
	if err := Validate(in); err != nil {
		return HeaderTemplate{}, err
	}
	h := HeaderTemplate{
		SchoolName: in.SchoolName, Location: in.Location, ClassName: in.ClassName,
		Subject: in.Subject, ExamType: in.ExamType, Duration: in.Duration, FullMark: in.FullMark,
	}
	var remark sql.NullString
	if in.Remark != "" {
		remark = sql.NullString{String: in.Remark, Valid: true}
		r := in.Remark
		h.Remark = &r
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO question_headers (school_name,location,class_name,subject,exam_type,duration,full_mark,remark)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		h.SchoolName, h.Location, h.ClassName, h.Subject, h.ExamType, h.Duration, h.FullMark, remark).Scan(&h.ID)
	return h, err
}

const headerCols = `id,school_name,location,class_name,subject,exam_type,duration,full_mark,remark`

func scanHeader(sc rowScanner) (HeaderTemplate, error) {
	var h HeaderTemplate
	var remark sql.NullString
	if err := sc.Scan(&h.ID, &h.SchoolName, &h.Location, &h.ClassName, &h.Subject, &h.ExamType, &h.Duration, &h.FullMark, &remark); err != nil {
		return HeaderTemplate{}, err
	}
	if remark.Valid {
		h.Remark = &remark.String
	}
	return h, nil
}

func (s *SQLStore) ListHeaders(ctx context.Context) ([]HeaderTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+headerCols+` FROM question_headers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []HeaderTemplate{}
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetHeader(ctx context.Context, id int64) (HeaderTemplate, error) {
	h, err := scanHeader(s.db.QueryRowContext(ctx, `SELECT `+headerCols+` FROM question_headers WHERE id=$1`, id))
	if err != nil {
		return HeaderTemplate{}, notFound(err, "question header", id)
	}
	return h, nil
}

func (s *SQLStore) DeleteHeader(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "question_headers", "question header", id)
}

// ---- papers ----

func (s *SQLStore) CreatePaper(ctx context.Context, in PaperInput, createdBy int64) (Paper, error) {
	if err := Validate(in); err != nil {
		return Paper{}, err
	}
	// every referenced question must exist
	if _, err := s.GetQuestions(ctx, in.QuestionIDs); err != nil {
		return Paper{}, err
	}
	hj, err := json.Marshal(in.Header)
	if err != nil {
		return Paper{}, err
	}
	ij, err := json.Marshal(in.QuestionIDs)
	if err != nil {
		return Paper{}, err
	}
	now := time.Now().Unix()
	p := Paper{Title: in.Title, Header: in.Header, QuestionIDs: in.QuestionIDs, CreatedByID: createdBy, CreatedAt: unix(now)}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO question_papers (title,header_json,question_ids_json,created_by_id,created_at)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		p.Title, string(hj), string(ij), createdBy, now).Scan(&p.ID)
	return p, err
}

const paperCols = `id,title,header_json,question_ids_json,created_by_id,created_at`

func scanPaper(sc rowScanner) (Paper, error) {
	var p Paper
	var hj, ij string
	var ca int64
	if err := sc.Scan(&p.ID, &p.Title, &hj, &ij, &p.CreatedByID, &ca); err != nil {
		return Paper{}, err
	}
	if err := json.Unmarshal([]byte(hj), &p.Header); err != nil {
		return Paper{}, err
	}
	if err := json.Unmarshal([]byte(ij), &p.QuestionIDs); err != nil {
		return Paper{}, err
	}
	p.CreatedAt = unix(ca)
	return p, nil
}

func (s *SQLStore) ListPapers(ctx context.Context, pg Page) ([]Paper, Meta, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM question_papers`).Scan(&total); err != nil {
		return nil, Meta{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paperCols+` FROM question_papers ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		pg.Limit, pg.Offset())
	if err != nil {
		return nil, Meta{}, err
	}
	defer rows.Close()
	out := []Paper{}
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, Meta{}, err
		}
		out = append(out, p)
	}
	return out, NewMeta(total, pg.Page, pg.Limit), rows.Err()
}

func (s *SQLStore) GetPaper(ctx context.Context, id int64) (Paper, error) {
	p, err := scanPaper(s.db.QueryRowContext(ctx, `SELECT `+paperCols+` FROM question_papers WHERE id=$1`, id))
	if err != nil {
		return Paper{}, notFound(err, "question paper", id)
	}
	return p, nil
}

func (s *SQLStore) DeletePaper(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "question_papers", "question paper", id)
}

// ---- teacher assignments ----

func (s *SQLStore) AssignTeacher(ctx context.Context, in AssignmentInput) (Assignment, error) {
	if err := Validate(in); err != nil {
		return Assignment{}, err
	}
	u, err := s.GetUser(ctx, in.TeacherID)
	if err != nil {
		return Assignment{}, err
	}
	if u.Role != RoleTeacher {
		return Assignment{}, fmt.Errorf("%w: user %d is not a teacher", ErrInvalid, u.ID)
	}
	sub, err := s.getSubject(ctx, in.SubjectID)
	if err != nil {
		return Assignment{}, err
	}
	if sub.ClassID != in.ClassID {
		return Assignment{}, fmt.Errorf("%w: subject %d does not belong to class %d", ErrInvalid, in.SubjectID, in.ClassID)
	}
	now := time.Now().Unix()
	a := Assignment{TeacherID: u.ID, TeacherName: u.Name, SubjectID: in.SubjectID, ClassID: in.ClassID, CreatedAt: unix(now)}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO teacher_subjects (teacher_id,subject_id,class_id,created_at) VALUES ($1,$2,$3,$4) RETURNING id`,
		a.TeacherID, a.SubjectID, a.ClassID, now).Scan(&a.ID)
	return a, err
}

func (s *SQLStore) ListAssignments(ctx context.Context, teacherID int64) ([]Assignment, error) {
	q := `SELECT t.id,t.teacher_id,u.name,t.subject_id,t.class_id,t.created_at
	        FROM teacher_subjects t JOIN users u ON u.id=t.teacher_id`
	var args []any
	if teacherID > 0 {
		q += ` WHERE t.teacher_id=$1`
		args = append(args, teacherID)
	}
	rows, err := s.db.QueryContext(ctx, q+` ORDER BY t.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assignment{}
	for rows.Next() {
		var a Assignment
		var ca int64
		if err := rows.Scan(&a.ID, &a.TeacherID, &a.TeacherName, &a.SubjectID, &a.ClassID, &ca); err != nil {
			return nil, err
		}
		a.CreatedAt = unix(ca)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) RemoveAssignment(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "teacher_subjects", "assignment", id)
}

// ---- users ----

func (s *SQLStore) CreateUser(ctx context.Context, in UserInput) (User, error) {
	if err := Validate(in); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return User{}, err
	}
	return s.insertUser(ctx, in.Name, in.Email, string(hash), in.Role)
}

// EnsureUser inserts a user with a precomputed bcrypt hash unless the email exists.
func (s *SQLStore) EnsureUser(ctx context.Context, name, email, hash string, role Role) (User, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	return s.insertUser(ctx, name, email, hash, role)
}

func (s *SQLStore) insertUser(ctx context.Context, name, email, hash string, role Role) (User, error) {
	now := time.Now().Unix()
	u := User{Name: name, Email: strings.ToLower(strings.TrimSpace(email)), Role: role, PasswordHash: hash, CreatedAt: unix(now), UpdatedAt: unix(now)}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (name,email,password_hash,role,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), now, now).Scan(&u.ID)
	return u, err
}

const userCols = `id,name,email,password_hash,role,created_at,updated_at`

func scanUser(sc rowScanner) (User, error) {
	var u User
	var role string
	var ca, ua int64
	if err := sc.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &ca, &ua); err != nil {
		return User{}, err
	}
	u.Role = Role(role)
	u.CreatedAt, u.UpdatedAt = unix(ca), unix(ua)
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context, role Role) ([]User, error) {
	var rows *sql.Rows
	var err error
	if role == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY name`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+userCols+` FROM users WHERE role=$1 ORDER BY name`, string(role))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetUser(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	if err != nil {
		return User{}, notFound(err, "user", id)
	}
	return u, nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`,
		strings.ToLower(strings.TrimSpace(email))))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return u, err
}

func (s *SQLStore) UpdateUserRole(ctx context.Context, id int64, role Role) (User, error) {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleTeacher:
	default:
		return User{}, fmt.Errorf("%w: role %q", ErrInvalid, role)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role=$1, updated_at=$2 WHERE id=$3`, string(role), time.Now().Unix(), id)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return s.GetUser(ctx, id)
}

// SetPassword stores a new bcrypt hash for the user.
func (s *SQLStore) SetPassword(ctx context.Context, id int64, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$1, updated_at=$2 WHERE id=$3`, hash, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}
