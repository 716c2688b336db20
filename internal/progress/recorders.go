package progress

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/puzpuzpuz/xsync/v3"
)

// MemRecorder keeps the latest update per (student, exercise) pair. Used by
// tests and by the scenario CLI.
type MemRecorder struct {
	updates *xsync.MapOf[string, Update]
}

func NewMemRecorder() *MemRecorder {
	return &MemRecorder{updates: xsync.NewMapOf[string, Update]()}
}

func (r *MemRecorder) Upsert(update Update) error {
	r.updates.Store(update.StudentID+"/"+update.ExerciseID, update)
	return nil
}

// Get returns the latest recorded update for a student and exercise.
func (r *MemRecorder) Get(studentID, exerciseID string) (Update, bool) {
	return r.updates.Load(studentID + "/" + exerciseID)
}

// NatsRecorder publishes updates as JSON to a NATS subject; the platform's
// progress service consumes them and owns persistence.
type NatsRecorder struct {
	nc      *nats.Conn
	subject string
}

func NewNatsRecorder(nc *nats.Conn, subject string) *NatsRecorder {
	return &NatsRecorder{nc: nc, subject: subject}
}

func (r *NatsRecorder) Upsert(update Update) error {
	b, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal progress update: %w", err)
	}
	if err := r.nc.Publish(r.subject, b); err != nil {
		return fmt.Errorf("failed to publish progress update: %w", err)
	}
	return nil
}
