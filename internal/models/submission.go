package models

import "time"

// Submission outcome values.
const (
	SubmissionSucceeded = "succeeded"
	SubmissionFailed    = "failed"
)

// Submission is an audit row recorded for every version submit attempt.
// Slot state itself is never persisted; only the outcome is.
type Submission struct {
	ID           string    `db:"id" json:"id"`
	VersionID    uint64    `db:"version_id" json:"version_id"`
	Operator     string    `db:"operator" json:"operator"`
	TeacherCount int       `db:"teacher_count" json:"teacher_count"`
	StudentCount int       `db:"student_count" json:"student_count"`
	MediaCount   int       `db:"media_count" json:"media_count"`
	Outcome      string    `db:"outcome" json:"outcome"`
	Detail       string    `db:"detail" json:"detail,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
