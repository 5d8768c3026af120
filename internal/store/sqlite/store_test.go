package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugesan/eduquest/internal/models"
	"github.com/kugesan/eduquest/internal/store"
)

// setupTestDB creates an in-memory SQLite database and initializes schema
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	// Create tables directly instead of using migrations for tests
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		profile_image TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'student'
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		video_url TEXT NOT NULL DEFAULT '',
		due_date TEXT NOT NULL DEFAULT '',
		estimated_time TEXT NOT NULL DEFAULT '',
		instructions TEXT NOT NULL DEFAULT '',
		is_locked INTEGER NOT NULL DEFAULT 0,
		is_completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		task_title TEXT NOT NULL DEFAULT '',
		student_id TEXT NOT NULL,
		student_name TEXT NOT NULL DEFAULT '',
		student_image TEXT NOT NULL DEFAULT '',
		submitted_at INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		file_key TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		grade TEXT,
		feedback TEXT
	);`

	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	_, err = s.DB.Exec(schema)
	require.NoError(t, err, "Failed to create schema")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func seedSubmission(t *testing.T, s *SQLiteStore, id, taskID, studentID string, submittedAt int64) {
	t.Helper()
	err := s.CreateSubmission(&models.Submission{
		ID:          id,
		TaskID:      taskID,
		TaskTitle:   "Task " + taskID,
		StudentID:   studentID,
		StudentName: "Student " + studentID,
		SubmittedAt: submittedAt,
		FileName:    "hw.pdf",
		FileSize:    128,
		FileKey:     "key-" + id,
		Status:      models.StatusPending,
	})
	require.NoError(t, err)
}

func TestUserRoundtrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	user := &models.User{
		ID:           "u1",
		Name:         "Ada",
		Email:        "ada@edu.test",
		PasswordHash: "hashed",
		Role:         models.RoleStudent,
	}
	require.NoError(t, s.CreateUser(user))

	got, err := s.GetUserByEmail("ada@edu.test")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.Name)

	byID, err := s.GetUserByID("u1")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ada@edu.test", byID.Email)

	missing, err := s.GetUserByEmail("nobody@edu.test")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// unique email is enforced at the schema level
	err = s.CreateUser(&models.User{ID: "u2", Name: "Imposter", Email: "ada@edu.test", PasswordHash: "x", Role: models.RoleStudent})
	assert.Error(t, err)
}

func TestListUsersByRole(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.CreateUser(&models.User{ID: "u1", Name: "Ada", Email: "ada@edu.test", PasswordHash: "x", Role: models.RoleStudent}))
	require.NoError(t, s.CreateUser(&models.User{ID: "u2", Name: "Otero", Email: "otero@edu.test", PasswordHash: "x", Role: models.RoleInstructor}))

	students, err := s.ListUsers(models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ada", students[0].Name)

	all, err := s.ListUsers("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaskPartialUpdate(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.CreateTask(&models.Task{
		ID:          "t1",
		Title:       "Lab 1",
		Description: "intro",
		DueDate:     "2024-01-01",
		IsLocked:    true,
	}))

	err := s.UpdateTask("t1", models.TaskUpdate{Title: strPtr("Lab 1 v2")})
	require.NoError(t, err)

	got, err := s.GetTask("t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lab 1 v2", got.Title)
	assert.Equal(t, "intro", got.Description, "untouched fields survive a partial update")
	assert.True(t, got.IsLocked)

	err = s.UpdateTask("t1", models.TaskUpdate{IsLocked: boolPtr(false)})
	require.NoError(t, err)
	got, err = s.GetTask("t1")
	require.NoError(t, err)
	assert.False(t, got.IsLocked)

	assert.Error(t, s.UpdateTask("t1", models.TaskUpdate{}), "empty update is a caller error")

	err = s.UpdateTask("missing", models.TaskUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListTasksByDueDateIsLexicographic(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.CreateTask(&models.Task{ID: "t10", Title: "x", DueDate: "2024-1-10"}))
	require.NoError(t, s.CreateTask(&models.Task{ID: "t9", Title: "x", DueDate: "2024-1-9"}))

	tasks, err := s.ListTasksByDueDate()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	// String ordering: "2024-1-10" sorts before "2024-1-9".
	assert.Equal(t, "t10", tasks[0].ID)
	assert.Equal(t, "t9", tasks[1].ID)
}

func TestSetTaskLockedAndDelete(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.CreateTask(&models.Task{ID: "t1", Title: "Lab 1", IsLocked: true}))

	require.NoError(t, s.SetTaskLocked("t1", false))
	got, err := s.GetTask("t1")
	require.NoError(t, err)
	assert.False(t, got.IsLocked)

	assert.ErrorIs(t, s.SetTaskLocked("missing", false), store.ErrNotFound)

	require.NoError(t, s.DeleteTask("t1"))
	gone, err := s.GetTask("t1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, s.DeleteTask("t1"), store.ErrNotFound)
}

func TestListSubmissionsFilterAndOrder(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	seedSubmission(t, s, "sub1", "t1", "s1@edu.test", 100)
	seedSubmission(t, s, "sub2", "t1", "s1@edu.test", 300)
	seedSubmission(t, s, "sub3", "t2", "s1@edu.test", 200)
	seedSubmission(t, s, "sub4", "t1", "s2@edu.test", 400)

	both, err := s.ListSubmissions(store.SubmissionFilter{TaskID: "t1", StudentID: "s1@edu.test"})
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "sub2", both[0].ID, "newest first")
	assert.Equal(t, "sub1", both[1].ID)

	byStudent, err := s.ListSubmissions(store.SubmissionFilter{StudentID: "s1@edu.test"})
	require.NoError(t, err)
	assert.Len(t, byStudent, 3)

	all, err := s.ListSubmissions(store.SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "sub4", all[0].ID)
}

func TestGradeSubmission(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	seedSubmission(t, s, "sub1", "t1", "s1@edu.test", 100)

	upd := models.GradeUpdate{Grade: strPtr("A"), Feedback: strPtr("well done")}
	upd.Normalize()
	require.NoError(t, s.GradeSubmission("sub1", upd))

	got, err := s.GetSubmission("sub1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusGraded, got.Status)
	require.NotNil(t, got.Grade)
	assert.Equal(t, "A", *got.Grade)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, "well done", *got.Feedback)

	assert.ErrorIs(t, s.GradeSubmission("missing", upd), store.ErrNotFound)
	assert.Error(t, s.GradeSubmission("sub1", models.GradeUpdate{}), "empty update is a caller error")
}

func TestReplaceSubmissionFileResetsGrading(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	seedSubmission(t, s, "sub1", "t1", "s1@edu.test", 100)

	upd := models.GradeUpdate{Grade: strPtr("C")}
	upd.Normalize()
	require.NoError(t, s.GradeSubmission("sub1", upd))

	require.NoError(t, s.ReplaceSubmissionFile("sub1", "retry.pdf", "key-new", 256, 500))

	got, err := s.GetSubmission("sub1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.Grade)
	assert.Nil(t, got.Feedback)
	assert.Equal(t, "retry.pdf", got.FileName)
	assert.Equal(t, "key-new", got.FileKey)
	assert.Equal(t, int64(256), got.FileSize)
	assert.Equal(t, int64(500), got.SubmittedAt)

	assert.ErrorIs(t, s.ReplaceSubmissionFile("missing", "x", "k", 1, 1), store.ErrNotFound)
}

func TestListPassedTaskIDs(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	seedSubmission(t, s, "sub1", "t1", "s1@edu.test", 100)
	seedSubmission(t, s, "sub2", "t2", "s1@edu.test", 200)
	seedSubmission(t, s, "sub3", "t3", "s1@edu.test", 300)
	seedSubmission(t, s, "sub4", "t4", "s2@edu.test", 400)

	grade := func(id, g string) {
		upd := models.GradeUpdate{Grade: strPtr(g)}
		upd.Normalize()
		require.NoError(t, s.GradeSubmission(id, upd))
	}
	grade("sub1", "A")
	grade("sub2", "C")
	grade("sub4", "B")

	passed, err := s.ListPassedTaskIDs("s1@edu.test", models.DefaultPassingGrades)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t1"}, passed, "C grades and pending submissions do not count")

	other, err := s.ListPassedTaskIDs("s2@edu.test", models.DefaultPassingGrades)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t4"}, other)
}

func TestDeleteSubmission(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	seedSubmission(t, s, "sub1", "t1", "s1@edu.test", 100)

	require.NoError(t, s.DeleteSubmission("sub1"))
	gone, err := s.GetSubmission("sub1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, s.DeleteSubmission("sub1"), store.ErrNotFound)
}
