// Package progress derives exercise-progress updates from grading verdicts.
// Persistence of the updates belongs to the surrounding platform; this
// package only shapes them and hands them to a Recorder sink.
package progress

import (
	"time"

	"github.com/codelab-lv/runner/internal/grader"
)

const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Update is one upsert into a student's exercise-progress record.
type Update struct {
	StudentID   string     `json:"student_id"`
	ExerciseID  string     `json:"exercise_id"`
	Status      string     `json:"status"`
	LastError   *string    `json:"last_error"`
	LastOutput  *string    `json:"last_output"`
	Language    string     `json:"language"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Recorder consumes progress updates.
type Recorder interface {
	Upsert(update Update) error
}

// BuildUpdate maps a verdict onto a progress update: status, the failing
// test's stderr as last error (cleared on a full pass), the last attempted
// test's stdout, a completion stamp on full pass, and the language used.
func BuildUpdate(studentID, exerciseID, language string, verdict grader.Verdict) Update {
	update := Update{
		StudentID:  studentID,
		ExerciseID: exerciseID,
		Language:   language,
	}
	if len(verdict.Results) > 0 {
		last := verdict.Results[len(verdict.Results)-1]
		out := last.Stdout
		update.LastOutput = &out
		if !verdict.PassedAll {
			errMsg := last.Stderr
			update.LastError = &errMsg
		}
	}
	if verdict.PassedAll {
		update.Status = StatusPassed
		now := time.Now().UTC()
		update.CompletedAt = &now
	} else {
		update.Status = StatusFailed
	}
	return update
}
