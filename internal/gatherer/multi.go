package gatherer

import (
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/sandbox"
)

// Multi fans the result stream out to several gatherers, e.g. a NATS reply
// subject and a durable SQS queue at once.
func Multi(gatherers ...Gatherer) Gatherer {
	return multiGatherer(gatherers)
}

type multiGatherer []Gatherer

func (m multiGatherer) StartJob(language string) {
	for _, g := range m {
		g.StartJob(language)
	}
}

func (m multiGatherer) StartTest(test grader.TestCase) {
	for _, g := range m {
		g.StartTest(test)
	}
}

func (m multiGatherer) FinishTest(res grader.TestResult) {
	for _, g := range m {
		g.FinishTest(res)
	}
}

func (m multiGatherer) FinishRun(data sandbox.Result) {
	for _, g := range m {
		g.FinishRun(data)
	}
}

func (m multiGatherer) FinishVerdict(verdict grader.Verdict) {
	for _, g := range m {
		g.FinishVerdict(verdict)
	}
}

func (m multiGatherer) ClientError(msg string) {
	for _, g := range m {
		g.ClientError(msg)
	}
}

func (m multiGatherer) InternalError(msg string) {
	for _, g := range m {
		g.InternalError(msg)
	}
}
