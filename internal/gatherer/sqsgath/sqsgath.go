// Package sqsgath streams evaluation messages to an SQS result queue.
package sqsgath

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/codelab-lv/runner/api"
	"github.com/codelab-lv/runner/internal/gatherer"
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/sandbox"
)

type sqsGatherer struct {
	client   *sqs.Client
	queueUrl string
	evalUuid string
	log      *slog.Logger
}

// New creates a gatherer that sends the result stream for one evaluation to
// the given SQS queue.
func New(client *sqs.Client, evalUuid, queueUrl string, log *slog.Logger) gatherer.Gatherer {
	if log == nil {
		log = slog.Default()
	}
	return &sqsGatherer{client: client, queueUrl: queueUrl, evalUuid: evalUuid, log: log}
}

func (g *sqsGatherer) StartJob(language string) {
	g.send(api.NewStartJob(g.evalUuid, language))
}

func (g *sqsGatherer) StartTest(test grader.TestCase) {
	var input, answer *string
	if !test.Hidden {
		if test.Input != nil {
			in := gatherer.TrimToRect(*test.Input, api.MaxStreamHeight, api.MaxStreamWidth)
			input = &in
		}
		ans := gatherer.TrimToRect(test.Answer, api.MaxStreamHeight, api.MaxStreamWidth)
		answer = &ans
	}
	g.send(api.NewStartTest(g.evalUuid, test.ID, input, answer))
}

func (g *sqsGatherer) FinishTest(res grader.TestResult) {
	wire := gatherer.EncodeTestResult(res)
	wire.Stdout = gatherer.TrimToRect(wire.Stdout, api.MaxStreamHeight, api.MaxStreamWidth)
	wire.Stderr = gatherer.TrimToRect(wire.Stderr, api.MaxStreamHeight, api.MaxStreamWidth)
	g.send(api.NewFinishTest(g.evalUuid, wire))
}

func (g *sqsGatherer) FinishRun(data sandbox.Result) {
	msg := api.NewFinishJob(g.evalUuid, api.StatusOK, nil)
	runData := gatherer.EncodeRunData(data)
	msg.RunData = &runData
	g.send(msg)
}

func (g *sqsGatherer) FinishVerdict(verdict grader.Verdict) {
	msg := api.NewFinishJob(g.evalUuid, api.StatusOK, nil)
	wire := gatherer.EncodeVerdict(verdict)
	msg.Verdict = &wire
	g.send(msg)
}

func (g *sqsGatherer) ClientError(msg string) {
	g.send(api.NewFinishJob(g.evalUuid, api.StatusClientError, &msg))
}

func (g *sqsGatherer) InternalError(msg string) {
	g.send(api.NewFinishJob(g.evalUuid, api.StatusInternalError, &msg))
}
