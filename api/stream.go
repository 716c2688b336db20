package api

import "time"

// MsgType is a message type for streaming responses.
type MsgType string

const (
	StartJobMsg   MsgType = "job_start"
	StartTestMsg  MsgType = "test_start"
	FinishTestMsg MsgType = "test_finish"
	FinishJobMsg  MsgType = "job_finish"
)

// Display size constraints applied to streamed stdout/stderr payloads.
const (
	MaxStreamHeight = 40
	MaxStreamWidth  = 80
)

// Header is the common header for all streaming response messages.
type Header struct {
	EvalUuid string  `json:"eval_uuid"`
	MsgType  MsgType `json:"msg_type"`
}

// StartJob is sent when an evaluation begins.
type StartJob struct {
	Header
	Language  string `json:"language"`
	StartedAt string `json:"started_at"`
}

// StartTest is sent when a test case is reached. Input and Answer are nil for
// hidden tests.
type StartTest struct {
	Header
	TestID int64   `json:"test_id"`
	Input  *string `json:"input"`
	Answer *string `json:"answer"`
}

// FinishTest is sent when a test case completes.
type FinishTest struct {
	Header
	Result TestResult `json:"result"`
}

// FinishJob is sent when the evaluation completes, successfully or not.
type FinishJob struct {
	Header
	Status       JobStatus `json:"status"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	Verdict      *Verdict  `json:"verdict,omitempty"`
	RunData      *RunData  `json:"run_data,omitempty"`
}

func NewHeader(evalUuid string, msgType MsgType) Header {
	return Header{EvalUuid: evalUuid, MsgType: msgType}
}

func NewStartJob(evalUuid, language string) StartJob {
	return StartJob{
		Header:    NewHeader(evalUuid, StartJobMsg),
		Language:  language,
		StartedAt: time.Now().Format(time.RFC3339),
	}
}

func NewStartTest(evalUuid string, testID int64, input, answer *string) StartTest {
	return StartTest{
		Header: NewHeader(evalUuid, StartTestMsg),
		TestID: testID,
		Input:  input,
		Answer: answer,
	}
}

func NewFinishTest(evalUuid string, result TestResult) FinishTest {
	return FinishTest{
		Header: NewHeader(evalUuid, FinishTestMsg),
		Result: result,
	}
}

func NewFinishJob(evalUuid string, status JobStatus, errMsg *string) FinishJob {
	return FinishJob{
		Header:       NewHeader(evalUuid, FinishJobMsg),
		Status:       status,
		ErrorMessage: errMsg,
	}
}
