package models

import (
	"github.com/go-playground/validator/v10"
)

type Task struct {
	ID            string `db:"id" json:"id"`
	Title         string `db:"title" json:"title" validate:"required"`
	Description   string `db:"description" json:"description"`
	VideoURL      string `db:"video_url" json:"videoUrl,omitempty"`
	DueDate       string `db:"due_date" json:"dueDate"`
	EstimatedTime string `db:"estimated_time" json:"estimatedTime,omitempty"`
	Instructions  string `db:"instructions" json:"instructions,omitempty"`
	IsLocked      bool   `db:"is_locked" json:"isLocked"`
	IsCompleted   bool   `db:"is_completed" json:"isCompleted"`
}

func (t *Task) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	VideoURL      *string `json:"videoUrl"`
	DueDate       *string `json:"dueDate"`
	EstimatedTime *string `json:"estimatedTime"`
	Instructions  *string `json:"instructions"`
	IsLocked      *bool   `json:"isLocked"`
	IsCompleted   *bool   `json:"isCompleted"`
}

func (u *TaskUpdate) IsEmpty() bool {
	return u.Title == nil &&
		u.Description == nil &&
		u.VideoURL == nil &&
		u.DueDate == nil &&
		u.EstimatedTime == nil &&
		u.Instructions == nil &&
		u.IsLocked == nil &&
		u.IsCompleted == nil
}
