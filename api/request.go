package api

// Submission is the envelope carried on the submissions subject. Exactly one
// of Exec or Grade is set, matching Type.
type Submission struct {
	Type  SubmissionType `json:"type"`
	Exec  *ExecRequest   `json:"exec,omitempty"`
	Grade *GradeRequest  `json:"grade,omitempty"`
}

type SubmissionType string

const (
	SubmissionExec  SubmissionType = "exec"
	SubmissionGrade SubmissionType = "grade"
)

// ExecRequest asks for a single compile+run attempt without grading.
type ExecRequest struct {
	EvalUuid string `json:"eval_uuid"`

	Language string  `json:"language"`
	Code     string  `json:"code"`
	Stdin    *string `json:"stdin,omitempty"`
}

// GradeRequest asks for the submission to be graded against the ordered test
// cases of an exercise.
type GradeRequest struct {
	EvalUuid string `json:"eval_uuid"`

	StudentID  string `json:"student_id"`
	ExerciseID string `json:"exercise_id"`
	Language   string `json:"language"`
	Code       string `json:"code"`

	// ReplyTo, when set, is the subject/queue the result stream is sent to.
	ReplyTo string `json:"reply_to,omitempty"`
}
