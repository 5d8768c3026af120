package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kugesan/eduquest/internal/models"
)

// ErrNotFound is returned by mutating operations that matched no record.
var ErrNotFound = errors.New("record not found")

// SubmissionFilter narrows a submission listing; empty fields match everything.
type SubmissionFilter struct {
	TaskID    string
	StudentID string
}

type Store interface {
	Close() error
	Ping() error
	ApplyMigrations(dir string) error

	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(role string) ([]models.User, error)

	CreateTask(task *models.Task) error
	GetTask(id string) (*models.Task, error)
	ListTasks() ([]models.Task, error)
	ListTasksByDueDate() ([]models.Task, error)
	UpdateTask(id string, upd models.TaskUpdate) error
	SetTaskLocked(id string, locked bool) error
	DeleteTask(id string) error

	CreateSubmission(sub *models.Submission) error
	GetSubmission(id string) (*models.Submission, error)
	ListSubmissions(filter SubmissionFilter) ([]models.Submission, error)
	ReplaceSubmissionFile(id, fileName, fileKey string, fileSize, submittedAt int64) error
	GradeSubmission(id string, upd models.GradeUpdate) error
	DeleteSubmission(id string) error
	ListPassedTaskIDs(studentID string, passingGrades []string) ([]string, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *BaseStore) Ping() error {
	return s.DB.Ping()
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) CreateUser(user *models.User) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO users (id, name, email, password_hash, profile_image, role)
		VALUES (:id, :name, :email, :password_hash, :profile_image, :role)
	`, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *BaseStore) GetUserByID(id string) (*models.User, error) {
	var user models.User
	query := s.Converter(`
		SELECT id, name, email, password_hash, profile_image, role
		FROM users
		WHERE id = ?
	`)

	err := s.DB.Get(&user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *BaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := s.Converter(`
		SELECT id, name, email, password_hash, profile_image, role
		FROM users
		WHERE email = ?
	`)

	err := s.DB.Get(&user, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (s *BaseStore) ListUsers(role string) ([]models.User, error) {
	query := `
		SELECT id, name, email, password_hash, profile_image, role
		FROM users
	`
	args := []interface{}{}
	if role != "" {
		query += " WHERE role = ?"
		args = append(args, role)
	}
	query += " ORDER BY name"

	var users []models.User
	err := s.DB.Select(&users, s.Converter(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *BaseStore) CreateTask(task *models.Task) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO tasks (id, title, description, video_url, due_date, estimated_time, instructions, is_locked, is_completed)
		VALUES (:id, :title, :description, :video_url, :due_date, :estimated_time, :instructions, :is_locked, :is_completed)
	`, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *BaseStore) GetTask(id string) (*models.Task, error) {
	var task models.Task
	query := s.Converter(`
		SELECT id, title, description, video_url, due_date, estimated_time, instructions, is_locked, is_completed
		FROM tasks
		WHERE id = ?
	`)

	err := s.DB.Get(&task, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (s *BaseStore) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Select(&tasks, `
		SELECT id, title, description, video_url, due_date, estimated_time, instructions, is_locked, is_completed
		FROM tasks
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksByDueDate orders tasks by the raw due_date text. The field is an
// opaque string end to end, so the ordering is lexicographic.
func (s *BaseStore) ListTasksByDueDate() ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Select(&tasks, `
		SELECT id, title, description, video_url, due_date, estimated_time, instructions, is_locked, is_completed
		FROM tasks
		ORDER BY due_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by due date: %w", err)
	}
	return tasks, nil
}

func (s *BaseStore) UpdateTask(id string, upd models.TaskUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.VideoURL != nil {
		sets = append(sets, "video_url = ?")
		args = append(args, *upd.VideoURL)
	}
	if upd.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *upd.DueDate)
	}
	if upd.EstimatedTime != nil {
		sets = append(sets, "estimated_time = ?")
		args = append(args, *upd.EstimatedTime)
	}
	if upd.Instructions != nil {
		sets = append(sets, "instructions = ?")
		args = append(args, *upd.Instructions)
	}
	if upd.IsLocked != nil {
		sets = append(sets, "is_locked = ?")
		args = append(args, *upd.IsLocked)
	}
	if upd.IsCompleted != nil {
		sets = append(sets, "is_completed = ?")
		args = append(args, *upd.IsCompleted)
	}

	if len(sets) == 0 {
		return fmt.Errorf("empty task update")
	}

	args = append(args, id)
	query := s.Converter(fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(sets, ", ")))

	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRows(res)
}

func (s *BaseStore) SetTaskLocked(id string, locked bool) error {
	query := s.Converter("UPDATE tasks SET is_locked = ? WHERE id = ?")
	res, err := s.DB.Exec(query, locked, id)
	if err != nil {
		return fmt.Errorf("failed to set task lock state: %w", err)
	}
	return requireRows(res)
}

func (s *BaseStore) DeleteTask(id string) error {
	query := s.Converter("DELETE FROM tasks WHERE id = ?")
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRows(res)
}

func (s *BaseStore) CreateSubmission(sub *models.Submission) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO submissions (id, task_id, task_title, student_id, student_name, student_image, submitted_at, file_name, file_size, file_key, status, grade, feedback)
		VALUES (:id, :task_id, :task_title, :student_id, :student_name, :student_image, :submitted_at, :file_name, :file_size, :file_key, :status, :grade, :feedback)
	`, sub)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (s *BaseStore) GetSubmission(id string) (*models.Submission, error) {
	var sub models.Submission
	query := s.Converter(`
		SELECT id, task_id, task_title, student_id, student_name, student_image, submitted_at, file_name, file_size, file_key, status, grade, feedback
		FROM submissions
		WHERE id = ?
	`)

	err := s.DB.Get(&sub, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &sub, nil
}

func (s *BaseStore) ListSubmissions(filter SubmissionFilter) ([]models.Submission, error) {
	query := `
		SELECT id, task_id, task_title, student_id, student_name, student_image, submitted_at, file_name, file_size, file_key, status, grade, feedback
		FROM submissions
	`
	conds := []string{}
	args := []interface{}{}
	if filter.TaskID != "" {
		conds = append(conds, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if filter.StudentID != "" {
		conds = append(conds, "student_id = ?")
		args = append(args, filter.StudentID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submitted_at DESC"

	var subs []models.Submission
	err := s.DB.Select(&subs, s.Converter(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

func (s *BaseStore) ReplaceSubmissionFile(id, fileName, fileKey string, fileSize, submittedAt int64) error {
	query := s.Converter(`
		UPDATE submissions
		SET file_name = ?,
		    file_key = ?,
		    file_size = ?,
		    submitted_at = ?,
		    status = ?,
		    grade = NULL,
		    feedback = NULL
		WHERE id = ?
	`)

	res, err := s.DB.Exec(query, fileName, fileKey, fileSize, submittedAt, models.StatusPending, id)
	if err != nil {
		return fmt.Errorf("failed to replace submission file: %w", err)
	}
	return requireRows(res)
}

func (s *BaseStore) GradeSubmission(id string, upd models.GradeUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Grade != nil {
		sets = append(sets, "grade = ?")
		args = append(args, *upd.Grade)
	}
	if upd.Feedback != nil {
		sets = append(sets, "feedback = ?")
		args = append(args, *upd.Feedback)
	}

	if len(sets) == 0 {
		return fmt.Errorf("empty grade update")
	}

	args = append(args, id)
	query := s.Converter(fmt.Sprintf("UPDATE submissions SET %s WHERE id = ?", strings.Join(sets, ", ")))

	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to grade submission: %w", err)
	}
	return requireRows(res)
}

func (s *BaseStore) DeleteSubmission(id string) error {
	query := s.Converter("DELETE FROM submissions WHERE id = ?")
	res, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return requireRows(res)
}

// ListPassedTaskIDs returns the task ids for which the student has at least
// one graded submission with a grade in the passing set.
func (s *BaseStore) ListPassedTaskIDs(studentID string, passingGrades []string) ([]string, error) {
	if len(passingGrades) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT DISTINCT task_id
		FROM submissions
		WHERE student_id = ?
		AND status = ?
		AND grade IN (?)
	`, studentID, models.StatusGraded, passingGrades)
	if err != nil {
		return nil, fmt.Errorf("failed to build passed tasks query: %w", err)
	}

	var ids []string
	if err := s.DB.Select(&ids, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list passed tasks: %w", err)
	}
	return ids, nil
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
