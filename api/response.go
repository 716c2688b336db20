package api

// RunData is the observable behavior of one compile+run attempt. Exit code
// conventions: 0 success, non-zero process failure, 127 missing
// compiler/interpreter, -1 timed out.
type RunData struct {
	Stdout      string  `json:"stdout"`
	Stderr      string  `json:"stderr"`
	ExitCode    int     `json:"exit_code"`
	DurationSec float64 `json:"duration_sec"`
}

// TestResult is the wire form of one graded test case. Input and Answer are
// omitted for hidden tests.
type TestResult struct {
	TestID   int64   `json:"test_id"`
	Passed   bool    `json:"passed"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	ExitCode int     `json:"exit_code"`
	Answer   *string `json:"expected_output,omitempty"`
	Input    *string `json:"input_data,omitempty"`
}

// Verdict is the aggregate grading outcome. Results may be a prefix of the
// exercise's tests when grading stopped on the first crashing test.
type Verdict struct {
	PassedAll bool         `json:"passed_all"`
	Results   []TestResult `json:"results"`
}

// JobStatus classifies how an evaluation job ended.
type JobStatus string

const (
	StatusOK            JobStatus = "ok"
	StatusClientError   JobStatus = "client_error"
	StatusInternalError JobStatus = "internal_error"
)
