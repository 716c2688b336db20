// Package gatherer defines how evaluation progress and results are streamed
// out of the engine. Implementations publish to a terminal, a NATS subject or
// an SQS queue; the engine calls them from the grading goroutine, in order.
package gatherer

import (
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/sandbox"
)

// Gatherer receives the evaluation life cycle. Exactly one of FinishRun,
// FinishVerdict, ClientError or InternalError terminates a job.
type Gatherer interface {
	StartJob(language string)

	StartTest(test grader.TestCase)
	FinishTest(res grader.TestResult)

	// FinishRun ends a single-run job with the attempt's observable behavior.
	FinishRun(data sandbox.Result)
	// FinishVerdict ends a graded job with the aggregate verdict.
	FinishVerdict(verdict grader.Verdict)

	ClientError(msg string)
	InternalError(msg string)
}
