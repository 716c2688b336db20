// Package termgath renders evaluation progress on the terminal. Used by the
// scenario CLI and for local debugging of language profiles.
package termgath

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/sandbox"
)

var (
	passMark = color.New(color.FgGreen, color.Bold).Sprint("PASS")
	failMark = color.New(color.FgRed, color.Bold).Sprint("FAIL")
	headline = color.New(color.FgCyan).SprintfFunc()
)

type TerminalGatherer struct {
	startedAt time.Time
}

func New() *TerminalGatherer { return &TerminalGatherer{startedAt: time.Now()} }

func (t *TerminalGatherer) StartJob(language string) {
	fmt.Println(headline("== evaluation started (%s) ==", language))
}

func (t *TerminalGatherer) StartTest(test grader.TestCase) {
	fmt.Printf("-> test %d\n", test.ID)
}

func (t *TerminalGatherer) FinishTest(res grader.TestResult) {
	mark := passMark
	if !res.Passed {
		mark = failMark
	}
	fmt.Printf("<- test %d %s exit=%d dur=%s\n",
		res.TestID, mark, res.ExitCode, res.Duration.Round(time.Millisecond))
	if !res.Passed && res.Stderr != "" {
		fmt.Printf("   stderr: %s\n", res.Stderr)
	}
}

func (t *TerminalGatherer) FinishRun(data sandbox.Result) {
	fmt.Printf("exit=%d dur=%s\n", data.ExitCode, data.Duration.Round(time.Millisecond))
	if data.Stdout != "" {
		fmt.Printf("stdout:\n%s\n", data.Stdout)
	}
	if data.Stderr != "" {
		fmt.Printf("stderr:\n%s\n", data.Stderr)
	}
	t.finish()
}

func (t *TerminalGatherer) FinishVerdict(verdict grader.Verdict) {
	mark := passMark
	if !verdict.PassedAll {
		mark = failMark
	}
	fmt.Printf("verdict: %s (%d tests attempted)\n", mark, len(verdict.Results))
	t.finish()
}

func (t *TerminalGatherer) ClientError(msg string) {
	fmt.Printf("%s %s\n", failMark, msg)
	t.finish()
}

func (t *TerminalGatherer) InternalError(msg string) {
	fmt.Printf("%s internal error: %s\n", failMark, msg)
	t.finish()
}

func (t *TerminalGatherer) finish() {
	fmt.Println(headline("== evaluation finished in %s ==",
		time.Since(t.startedAt).Round(time.Millisecond)))
}
