package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kugesan/eduquest/internal/models"
	"github.com/kugesan/eduquest/internal/store"
)

// setupTestDB spins up a disposable Postgres and applies the real migrations
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	pg, err := pgcontainer.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn)
	require.NoError(t, err, "Failed to create store")

	require.NoError(t, s.ApplyMigrations("../../../migrations"))

	cleanup := func() {
		s.Close()
		pg.Terminate(ctx)
	}

	return s, cleanup
}

func strPtr(s string) *string {
	return &s
}

func TestPostgresTaskPartialUpdate(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	id := "6f1c2b9e-0b66-4ad0-9f2d-0c9f6a1f4b01"
	require.NoError(t, s.CreateTask(&models.Task{
		ID:          id,
		Title:       "Lab 1",
		Description: "intro",
		DueDate:     "2024-01-01",
		IsLocked:    true,
	}))

	// multi-field update exercises the ? -> $n rebinding
	err := s.UpdateTask(id, models.TaskUpdate{
		Title:   strPtr("Lab 1 v2"),
		DueDate: strPtr("2024-01-05"),
	})
	require.NoError(t, err)

	got, err := s.GetTask(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lab 1 v2", got.Title)
	assert.Equal(t, "2024-01-05", got.DueDate)
	assert.Equal(t, "intro", got.Description)
	assert.True(t, got.IsLocked)

	err = s.UpdateTask("9a1c2b9e-0b66-4ad0-9f2d-0c9f6a1f4b99", models.TaskUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresPassedTaskIDs(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	taskA := "11111111-1111-4111-8111-111111111111"
	taskB := "22222222-2222-4222-8222-222222222222"

	newSub := func(id, taskID, grade string) {
		sub := &models.Submission{
			ID:          id,
			TaskID:      taskID,
			StudentID:   "s1@edu.test",
			SubmittedAt: 100,
			FileName:    "hw.pdf",
			FileSize:    1,
			FileKey:     "key-" + id,
			Status:      models.StatusPending,
		}
		require.NoError(t, s.CreateSubmission(sub))
		if grade != "" {
			upd := models.GradeUpdate{Grade: strPtr(grade)}
			upd.Normalize()
			require.NoError(t, s.GradeSubmission(id, upd))
		}
	}

	newSub("33333333-3333-4333-8333-333333333333", taskA, "A")
	newSub("44444444-4444-4444-8444-444444444444", taskB, "D")

	passed, err := s.ListPassedTaskIDs("s1@edu.test", models.DefaultPassingGrades)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{taskA}, passed)
}
