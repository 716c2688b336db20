// Package exercises provides the harness's source of ordered test fixtures.
// The grading engine itself owns no exercise data; stores here stand in for
// the platform's exercise catalogue.
package exercises

import (
	"errors"

	"github.com/codelab-lv/runner/internal/grader"
)

// ErrExerciseNotFound is returned when no exercise exists for the given id.
var ErrExerciseNotFound = errors.New("exercise not found")

// Exercise is one gradable task with its ordered test cases.
type Exercise struct {
	ID    string
	Title string
	Tests []grader.TestCase
}

// Store resolves an exercise id to its test fixtures. Tests are returned in
// stable id order.
type Store interface {
	Exercise(id string) (Exercise, error)
}
