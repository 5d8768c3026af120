package progression

import (
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/kugesan/eduquest/internal/metrics"
	"github.com/kugesan/eduquest/internal/models"
	"github.com/kugesan/eduquest/internal/store"
)

// Engine decides whether a freshly graded submission unlocks the next task
// for that student. The curriculum is linear: any passing grade re-scans the
// catalog in due-date order, stops at the first task the student has not yet
// passed and unlocks it if still locked. Re-running after the unlock is a
// no-op.
type Engine struct {
	store   store.Store
	passing map[string]bool
}

func NewEngine(s store.Store, passingGrades []string) *Engine {
	if len(passingGrades) == 0 {
		passingGrades = models.DefaultPassingGrades
	}

	passing := make(map[string]bool, len(passingGrades))
	for _, g := range passingGrades {
		passing[g] = true
	}

	return &Engine{store: s, passing: passing}
}

func (e *Engine) IsPassing(grade string) bool {
	return e.passing[grade]
}

func (e *Engine) PassingGrades() []string {
	grades := make([]string, 0, len(e.passing))
	for g := range e.passing {
		grades = append(grades, g)
	}
	return grades
}

// HandleGraded runs after a grade write. It never rolls the grade back: any
// failure here is the caller's to log, not to propagate to the client.
func (e *Engine) HandleGraded(sub *models.Submission) error {
	if sub.Grade == nil || !e.IsPassing(*sub.Grade) {
		return nil
	}

	tasks, err := e.store.ListTasksByDueDate()
	if err != nil {
		return fmt.Errorf("failed to list tasks for progression: %w", err)
	}

	passedIDs, err := e.store.ListPassedTaskIDs(sub.StudentID, e.PassingGrades())
	if err != nil {
		return fmt.Errorf("failed to resolve completed tasks: %w", err)
	}

	passed := make(map[string]bool, len(passedIDs))
	for _, id := range passedIDs {
		passed[id] = true
	}

	// The scan stops at the student's first not-yet-passed task. If it is
	// already unlocked there is nothing to do: a repeated grade write must
	// not reach past it and unlock later tasks.
	for _, task := range tasks {
		if passed[task.ID] {
			continue
		}

		if !task.IsLocked {
			return nil
		}

		if err := e.store.SetTaskLocked(task.ID, false); err != nil {
			return fmt.Errorf("failed to unlock task %s: %w", task.ID, err)
		}

		metrics.TaskUnlocksTotal.Inc()
		logger.Info.Printf(
			"Unlocked task %s (due %s) after student %s passed task %s",
			task.ID, task.DueDate, sub.StudentID, sub.TaskID,
		)
		return nil
	}

	return nil
}
