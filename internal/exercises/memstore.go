package exercises

import (
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemStore is a concurrency-safe in-memory exercise catalogue. It is the
// store used by tests and by the scenario CLI; the production catalogue lives
// with the surrounding platform.
type MemStore struct {
	exercises *xsync.MapOf[string, Exercise]
}

func NewMemStore() *MemStore {
	return &MemStore{exercises: xsync.NewMapOf[string, Exercise]()}
}

// Put stores an exercise, sorting its tests by id.
func (s *MemStore) Put(ex Exercise) {
	sort.Slice(ex.Tests, func(i, j int) bool {
		return ex.Tests[i].ID < ex.Tests[j].ID
	})
	s.exercises.Store(ex.ID, ex)
}

func (s *MemStore) Exercise(id string) (Exercise, error) {
	ex, ok := s.exercises.Load(id)
	if !ok {
		return Exercise{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, id)
	}
	return ex, nil
}
