package gatherer

import (
	"github.com/codelab-lv/runner/api"
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/sandbox"
)

// EncodeRunData maps a sandbox result onto its wire form.
func EncodeRunData(data sandbox.Result) api.RunData {
	return api.RunData{
		Stdout:      data.Stdout,
		Stderr:      data.Stderr,
		ExitCode:    data.ExitCode,
		DurationSec: data.Duration.Seconds(),
	}
}

// EncodeTestResult maps a test result onto its wire form. Hidden tests have
// their input and expected output withheld; the student still sees their own
// stdout/stderr.
func EncodeTestResult(res grader.TestResult) api.TestResult {
	wire := api.TestResult{
		TestID:   res.TestID,
		Passed:   res.Passed,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}
	if !res.Hidden {
		answer := res.Answer
		wire.Answer = &answer
		wire.Input = res.Input
	}
	return wire
}

// EncodeVerdict maps a verdict onto its wire form.
func EncodeVerdict(verdict grader.Verdict) api.Verdict {
	wire := api.Verdict{PassedAll: verdict.PassedAll}
	for _, res := range verdict.Results {
		wire.Results = append(wire.Results, EncodeTestResult(res))
	}
	return wire
}
