package models

const (
	StatusPending = "pending"
	StatusGraded  = "graded"
)

// DefaultPassingGrades unlock further tasks when earned on a submission.
var DefaultPassingGrades = []string{"A", "B"}

type Submission struct {
	ID           string  `db:"id" json:"id"`
	TaskID       string  `db:"task_id" json:"taskId"`
	TaskTitle    string  `db:"task_title" json:"taskTitle"`
	StudentID    string  `db:"student_id" json:"studentId"`
	StudentName  string  `db:"student_name" json:"studentName"`
	StudentImage string  `db:"student_image" json:"studentImage,omitempty"`
	SubmittedAt  int64   `db:"submitted_at" json:"submittedAt"`
	FileName     string  `db:"file_name" json:"fileName"`
	FileSize     int64   `db:"file_size" json:"fileSize"`
	FileKey      string  `db:"file_key" json:"-"`
	Status       string  `db:"status" json:"status"`
	Grade        *string `db:"grade" json:"grade,omitempty"`
	Feedback     *string `db:"feedback" json:"feedback,omitempty"`
}

// GradeUpdate carries a partial grading update; nil fields are left untouched.
type GradeUpdate struct {
	Status   *string `json:"status"`
	Grade    *string `json:"grade"`
	Feedback *string `json:"feedback"`
}

func (g *GradeUpdate) IsEmpty() bool {
	return g.Status == nil && g.Grade == nil && g.Feedback == nil
}

// Normalize forces status to graded whenever a grade or feedback is being
// written, regardless of any caller-supplied status.
func (g *GradeUpdate) Normalize() {
	if g.Grade != nil || g.Feedback != nil {
		graded := StatusGraded
		g.Status = &graded
	}
}
